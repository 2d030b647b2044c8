package routes

import (
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/handlers"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupRoutes configures the routes for the application.
func SetupRoutes(
	router *gin.Engine,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	redisClient *redis.Client,
) {
	router.Use(middleware.CorrelationIDMiddleware())

	cb := middleware.NewAPIBreaker()

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	v1.Use(middleware.CircuitBreakerMiddleware(cb))
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
		}

		events := v1.Group("/events")
		{
			events.GET("/:id", eventHandler.GetEvent)
		}
	}

	// Health check endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/health/live", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)
}
