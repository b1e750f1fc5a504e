package router

import (
	"net/http"

	"buslink/internal/config"
	"buslink/internal/handlers"
	"buslink/internal/middleware"
	"buslink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Services holds the procedures the HTTP layer exposes.
type Services struct {
	Posts    *services.PostService
	Likes    *services.LikeService
	Accounts *services.AccountService
	Users    services.IdentityProvider
}

// New builds the gin engine with sessions, identity loading and all routes.
func New(cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("buslink_session", store))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.LoadUser(svc.Users, cfg.JWTSecret))

	RegisterRoutes(r, cfg, svc)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	postHandler := handlers.NewPostHandler(svc.Posts, svc.Likes)
	profileHandler := handlers.NewProfileHandler(svc.Users)
	authHandler := handlers.NewAuthHandler(svc.Accounts, cfg.JWTSecret, cfg.TokenTTL)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")

	// 公共路由 (Public Routes)
	api.GET("/posts", postHandler.List)                 // 首页 / ?parentId= 评论列表
	api.GET("/posts/:id", postHandler.Detail)           // 帖子详情，含直接评论
	api.GET("/posts/:id/likes", postHandler.Likes)      // 帖子点赞列表
	api.GET("/users/:id/posts", postHandler.ListByUser) // 用户发布的帖子
	api.GET("/profiles/:username", profileHandler.Show) // 用户主页
	api.POST("/auth/signup", authHandler.Signup)        // 注册
	api.POST("/auth/login", authHandler.Login)          // 登录
	api.POST("/auth/logout", authHandler.Logout)        // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/auth/me", authHandler.Me)               // 当前用户
		authorized.POST("/posts", postHandler.Create)            // 发帖 / 评论
		authorized.POST("/posts/:id/like", postHandler.Like)     // 点赞
		authorized.DELETE("/posts/:id/like", postHandler.Unlike) // 取消点赞
	}
}
