package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProfileRoutes sets up profile self-service and admin user management
func SetupProfileRoutes(r *gin.Engine) {
	profile := r.Group("/profile", middleware.AuthRequired())
	{
		profile.PUT("", handlers.UpdateProfile)
	}

	admin := r.Group("/admin/users", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", handlers.ListProfiles)
		admin.GET("/:id", handlers.GetProfileByID)
		admin.PUT("/:id/active", handlers.SetProfileActive)
		admin.GET("/:id/wallets", handlers.ListWalletsByUser)
	}
}
