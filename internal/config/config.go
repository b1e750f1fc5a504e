package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDriver      string // postgres | sqlite
	DatabaseURL   string
	SQLitePath    string
	SessionSecret string
	JWTSecret     string
	TokenTTL      time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration
	AuthorCacheTTL  time.Duration
	RequestTimeout  time.Duration

	SeedDemo bool
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DBDriver:      getenv("DB_DRIVER", "postgres"),
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=buslink port=5432 sslmode=disable TimeZone=UTC"),
		SQLitePath:    getenv("SQLITE_PATH", "./buslink.db"),
		SessionSecret: getenv("SESSION_SECRET", "secret_key_change_me"),
		JWTSecret:     getenv("JWT_SECRET", "fallback-secret-key"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),

		RateLimitMax:    getInt("RATE_LIMIT_MAX", 3),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Minute),
		AuthorCacheTTL:  getDuration("AUTHOR_CACHE_TTL", time.Minute),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),

		SeedDemo: os.Getenv("SEED_DEMO") == "1",
	}

	if cfg.SessionSecret == "secret_key_change_me" {
		log.Println("[config] SESSION_SECRET not set, using insecure default")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
