package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWalletRoutes sets up wallet, transfer and deposit routes
func SetupWalletRoutes(r *gin.Engine) {
	wallet := r.Group("/wallet", middleware.AuthRequired())
	{
		wallet.GET("", handlers.GetWallet)
		wallet.POST("/transfer", handlers.Transfer)
		wallet.POST("/deposit", handlers.RequestDeposit)
	}

	admin := r.Group("/admin/deposits", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.POST("/:id/confirm", handlers.ConfirmDeposit)
	}
}
