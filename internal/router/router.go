package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/internal/auth"
	"github.com/quizdeck-dev/quizdeck/internal/config"
	"github.com/quizdeck-dev/quizdeck/internal/handlers"
	"github.com/quizdeck-dev/quizdeck/internal/middleware"
	"github.com/quizdeck-dev/quizdeck/internal/permissions"
)

type Deps struct {
	DB   *gorm.DB
	Auth *auth.Service
	Log  *logrus.Logger
	Cfg  config.Config
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.SecureHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.Cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Generic admission control, uniform across all traffic.
	r.Use(middleware.RateLimit(deps.Cfg.RateLimitWindow, deps.Cfg.RateLimitMax))
	r.Use(middleware.SlowDown(deps.Cfg.SlowdownWindow, deps.Cfg.SlowdownAfter, deps.Cfg.SlowdownDelay))

	h := handlers.New(deps.DB, deps.Auth, deps.Log, deps.Cfg.BcryptCost)
	requireAuth := middleware.RequireAuth(deps.Auth)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		v1 := api.Group("/v1")

		users := v1.Group("/users")
		{
			users.POST("/register", h.Register)
			users.POST("/login", h.Login)
			users.GET("", h.ListUsers)
			users.PATCH("/:id", requireAuth, middleware.RequirePermission(permissions.EditUser), h.EditUser)
			users.DELETE("/:id", requireAuth, middleware.RequirePermission(permissions.DeleteUser), h.DeleteUser)
		}

		questions := v1.Group("/questions")
		{
			questions.POST("", requireAuth, middleware.RequirePermission(permissions.CreateQuestion), h.CreateQuestion)
			questions.GET("", h.ListQuestions)
			questions.PATCH("/:id", requireAuth, middleware.RequirePermission(permissions.EditQuestion), h.EditQuestion)
			questions.DELETE("/:id", requireAuth, middleware.RequirePermission(permissions.DeleteQuestion), h.DeleteQuestion)
		}

		collections := v1.Group("/collections")
		{
			collections.POST("", requireAuth, middleware.RequirePermission(permissions.CreateCollection), h.CreateCollection)
			collections.GET("", h.ListCollections)
			collections.PATCH("/:id", requireAuth, middleware.RequirePermission(permissions.EditCollection), h.EditCollection)
			collections.DELETE("/:id", requireAuth, middleware.RequirePermission(permissions.DeleteCollection), h.DeleteCollection)
		}
	}

	return r
}
