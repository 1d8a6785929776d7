package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserPlanRoutes sets up plan subscription routes
func SetupUserPlanRoutes(r *gin.Engine) {
	plans := r.Group("/plans", middleware.AuthRequired())
	{
		plans.POST("", handlers.RequestPlan)
		plans.GET("", handlers.ListPlans)
		plans.POST("/:id/cancel", handlers.CancelPlan)
	}

	admin := r.Group("/admin/plans", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", handlers.AdminListPlans)
		admin.POST("/:id/approve", handlers.AdminApprovePlan)
		admin.POST("/:id/reject", handlers.AdminRejectPlan)
		admin.POST("/expire", handlers.AdminExpirePlans)
	}
}
