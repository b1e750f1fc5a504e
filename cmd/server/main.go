package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"buslink/internal/config"
	"buslink/internal/db"
	"buslink/internal/router"
	"buslink/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize Database
	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(conn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, err := services.NewCachedIdentityProvider(services.NewUserDirectory(conn), 500, cfg.AuthorCacheTTL)
	if err != nil {
		log.Fatalf("Failed to create author cache: %v", err)
	}
	limiter, err := services.NewSlidingWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	if err != nil {
		log.Fatalf("Failed to create rate limiter: %v", err)
	}

	// 异步点赞计数
	counter := services.NewLikeCounter(conn)
	counterCtx, stopCounter := context.WithCancel(context.Background())
	counterDone := make(chan struct{})
	go func() {
		counter.Run(counterCtx)
		close(counterDone)
	}()

	r := router.New(cfg, router.Services{
		Posts:    services.NewPostService(conn, services.NewAssembler(users), limiter),
		Likes:    services.NewLikeService(conn, counter),
		Accounts: services.NewAccountService(conn),
		Users:    users,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Printf("BusLink server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	stopCounter()
	<-counterDone
}
