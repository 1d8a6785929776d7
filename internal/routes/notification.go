package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes sets up notification listing routes
func SetupNotificationRoutes(r *gin.Engine) {
	notifications := r.Group("/notifications", middleware.AuthRequired())
	{
		notifications.GET("", handlers.ListNotifications)
		notifications.POST("/:id/read", handlers.MarkNotificationRead)
		notifications.POST("/read-all", handlers.MarkAllNotificationsRead)
	}
}
