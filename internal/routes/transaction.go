package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTransactionRoutes sets up transaction history and audit routes
func SetupTransactionRoutes(r *gin.Engine) {
	transactions := r.Group("/transactions", middleware.AuthRequired())
	{
		transactions.GET("", handlers.ListTransactions)
	}

	admin := r.Group("/admin/transactions", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", handlers.AdminListTransactions)
	}
}
