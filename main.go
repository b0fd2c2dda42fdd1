package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"devlink/auth"
	"devlink/cache"
	"devlink/config"
	"devlink/database"
	"devlink/github"
	"devlink/handlers"
	"devlink/logger"
	"devlink/routes"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var dbErr error
	for i := 1; i <= 3; i++ {
		if dbErr = database.ConnectMongo(cfg.MongoURI, cfg.MongoDB); dbErr != nil {
			log.WithError(dbErr).Warnf("mongodb connection attempt %d failed", i)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	if dbErr != nil {
		log.WithError(dbErr).Fatal("failed to connect to mongodb")
	}
	log.Info("mongodb connected")

	if err := database.EnsureIndexes(); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	// Redis is optional; without it the GitHub proxy just skips caching.
	var githubCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		githubCache = redisCache
		log.Info("redis connected")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	githubClient := github.New(cfg.GithubClientID, cfg.GithubSecret, githubCache, log)

	router := routes.SetupRouter(routes.Deps{
		Tokens:         tokens,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Users:          &handlers.Users{Tokens: tokens, Log: log},
		Auth:           &handlers.Auth{Tokens: tokens, Log: log},
		Posts:          &handlers.Posts{Log: log},
		Profiles:       &handlers.Profiles{Github: githubClient, Log: log},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("forced shutdown")
	}
	if err := database.DisconnectMongo(); err != nil {
		log.WithError(err).Warn("mongodb disconnect failed")
	}

	log.Info("server stopped")
}
