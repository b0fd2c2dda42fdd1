package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config collects everything the process reads from the environment, so
// components receive their settings at construction instead of reaching
// for os.Getenv themselves.
type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	TokenTTL       time.Duration
	GithubClientID string
	GithubSecret   string
	RedisAddr      string
	AllowedOrigins []string
	GinMode        string
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getenv("PORT", "5000"),
		MongoURI:       getenv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:        getenv("MONGODB_DB", "devlink"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       10 * time.Hour,
		GithubClientID: os.Getenv("GITHUB_CLIENT_ID"),
		GithubSecret:   os.Getenv("GITHUB_CLIENT_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		GinMode:        os.Getenv("GIN_MODE"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, errors.New("TOKEN_TTL is not a valid duration")
		}
		cfg.TokenTTL = ttl
	}

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
