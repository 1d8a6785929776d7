package routes

import (
	"brokercontrol/internal/handlers"
	"brokercontrol/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSupportRoutes sets up support tickets, messages and the chat websocket
func SetupSupportRoutes(r *gin.Engine) {
	tickets := r.Group("/support/tickets", middleware.AuthRequired())
	{
		tickets.POST("", handlers.CreateTicket)
		tickets.GET("", handlers.ListTickets)
		tickets.GET("/:id/messages", handlers.ListTicketMessages)
		tickets.POST("/:id/messages", handlers.PostTicketMessage)
		tickets.POST("/:id/close", handlers.CloseTicket)
		tickets.GET("/:id/chat", handlers.TicketChat)
	}
}
