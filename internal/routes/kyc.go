package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupKycRoutes sets up KYC submission and review routes
func SetupKycRoutes(r *gin.Engine) {
	kyc := r.Group("/kyc", middleware.AuthRequired())
	{
		kyc.POST("", handlers.SubmitKyc)
		kyc.GET("", handlers.GetKycStatus)
	}

	admin := r.Group("/admin/kyc", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", handlers.AdminListKyc)
		admin.POST("/:id/review", handlers.AdminReviewKyc)
	}
}
