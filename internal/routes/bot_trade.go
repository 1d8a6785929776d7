package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBotTradeRoutes sets up bot trading routes for users and admins
func SetupBotTradeRoutes(r *gin.Engine) {
	bots := r.Group("/bot-trades", middleware.AuthRequired())
	{
		bots.POST("", handlers.StartBotTrade)
		bots.GET("", handlers.ListBotTrades)
		bots.GET("/:id", handlers.GetBotTrade)
		bots.POST("/:id/stop", handlers.StopBotTrade)
	}

	admin := r.Group("/admin/bot-trades", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", handlers.AdminListBotTrades)
		admin.PUT("/:id/progress", handlers.AdminUpdateBotProgress)
		admin.POST("/:id/stop", handlers.AdminStopBotTrade)
		admin.POST("/:id/pause", handlers.AdminPauseBotTrade)
		admin.POST("/:id/resume", handlers.AdminResumeBotTrade)
		admin.POST("/auto-complete", handlers.AdminAutoCompleteBots)
	}
}
