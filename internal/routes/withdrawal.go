package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWithdrawalRoutes sets up the withdrawal workflow routes
func SetupWithdrawalRoutes(r *gin.Engine) {
	withdrawals := r.Group("/withdrawals", middleware.AuthRequired())
	{
		withdrawals.POST("", handlers.RequestWithdrawal)
		withdrawals.GET("", handlers.ListWithdrawals)
		withdrawals.POST("/:id/payment", handlers.MarkWithdrawalPaid)
	}

	admin := r.Group("/admin/withdrawals", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", handlers.AdminListWithdrawals)
		admin.POST("/:id/approve", handlers.AdminApproveWithdrawal)
		admin.POST("/:id/reject", handlers.AdminRejectWithdrawal)
	}
}
