package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up registration, login and session routes
func SetupAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.GET("/me", middleware.AuthRequired(), handlers.Me)
	}
}
