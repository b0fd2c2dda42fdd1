package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devlink/auth"
	"devlink/handlers"
	"devlink/middleware"
)

type Deps struct {
	Tokens         *auth.TokenService
	Log            *logrus.Logger
	AllowedOrigins []string

	Users    *handlers.Users
	Auth     *handlers.Auth
	Posts    *handlers.Posts
	Profiles *handlers.Profiles
}

func SetupRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(d.Log), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "x-auth-token"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	// The credential endpoints sit behind the rate limiter.
	limiter := middleware.NewRateLimiter(30, time.Minute)
	limited := router.Group("/api", middleware.RateLimit(limiter))
	limited.POST("/users", d.Users.Register)
	limited.POST("/auth", d.Auth.Login)

	// Public profile surface.
	router.GET("/api/profile", d.Profiles.List)
	router.GET("/api/profile/user/:user_id", d.Profiles.ByUser)
	router.GET("/api/profile/github/:username", d.Profiles.GithubRepos)

	protected := router.Group("/api", middleware.Auth(d.Tokens))

	protected.GET("/auth", d.Auth.Current)

	protected.GET("/profile/me", d.Profiles.Me)
	protected.POST("/profile", d.Profiles.Upsert)
	protected.DELETE("/profile", d.Profiles.Delete)
	protected.PUT("/profile/experience", d.Profiles.AddExperience)
	protected.DELETE("/profile/experience/:exp_id", d.Profiles.DeleteExperience)
	protected.PUT("/profile/education", d.Profiles.AddEducation)
	protected.DELETE("/profile/education/:edu_id", d.Profiles.DeleteEducation)

	protected.POST("/posts", d.Posts.Create)
	protected.GET("/posts", d.Posts.List)
	protected.GET("/posts/:id", d.Posts.Get)
	protected.DELETE("/posts/:id", d.Posts.Delete)
	protected.PUT("/posts/like/:id", d.Posts.Like)
	protected.PUT("/posts/unlike/:id", d.Posts.Unlike)
	protected.POST("/posts/comment/:id", d.Posts.AddComment)
	protected.DELETE("/posts/comment/:id/:comment_id", d.Posts.DeleteComment)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{"msg": "Endpoint not found"})
		}
	})

	return router
}
