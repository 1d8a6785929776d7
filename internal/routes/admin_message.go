package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdminMessageRoutes sets up admin broadcast routes
func SetupAdminMessageRoutes(r *gin.Engine) {
	admin := r.Group("/admin/messages", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.POST("", handlers.AdminBroadcast)
		admin.GET("", handlers.AdminListBroadcasts)
	}
}
