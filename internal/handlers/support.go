package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"brokercontrol/internal/chat"
	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// chatHub is the process-wide support chat hub.
var chatHub = chat.NewHub()

// CreateTicketRequest represents the request body for opening a ticket
type CreateTicketRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Priority string `json:"priority"`
	Body     string `json:"body"`
}

// PostMessageRequest represents the request body for posting a chat message
type PostMessageRequest struct {
	Body        string `json:"body" binding:"required"`
	ClientMsgID string `json:"client_msg_id" binding:"required"`
}

// CreateTicket opens a support ticket, optionally with a first message
func CreateTicket(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request CreateTicketRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Priority == "" {
		request.Priority = "normal"
	}

	ticket := models.SupportTicket{
		UserID:   profile.ID,
		Subject:  request.Subject,
		Status:   "open",
		Priority: request.Priority,
	}

	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
		if body := strings.TrimSpace(request.Body); body != "" {
			msg := models.SupportMessage{
				TicketID:    ticket.ID,
				ClientMsgID: "ticket-opening",
				SenderID:    profile.ID,
				SenderRole:  profile.Role,
				Body:        body,
			}
			return tx.Create(&msg).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// ListTickets returns the caller's tickets, or all tickets for admins
func ListTickets(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	query := dbconfig.DB.Model(&models.SupportTicket{})
	if profile.Role != "admin" {
		query = query.Where("user_id = ?", profile.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := query.Order("id DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// ticketForRequest loads the ticket and enforces ownership for non-admins.
func ticketForRequest(c *gin.Context) (*models.SupportTicket, bool) {
	profile := middleware.CurrentProfile(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return nil, false
	}

	var ticket models.SupportTicket
	if err := dbconfig.DB.First(&ticket, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return nil, false
	}
	if profile.Role != "admin" && ticket.UserID != profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your ticket"})
		return nil, false
	}
	return &ticket, true
}

// ListTicketMessages returns the message history of a ticket
func ListTicketMessages(c *gin.Context) {
	ticket, ok := ticketForRequest(c)
	if !ok {
		return
	}

	var messages []models.SupportMessage
	if err := dbconfig.DB.Where("ticket_id = ?", ticket.ID).
		Order("id ASC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// PostTicketMessage appends a message to a ticket over plain HTTP. The
// websocket room, if any, sees it too.
func PostTicketMessage(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	ticket, ok := ticketForRequest(c)
	if !ok {
		return
	}
	if ticket.Status != "open" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket is closed"})
		return
	}

	var request PostMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.SupportMessage{
		TicketID:    ticket.ID,
		ClientMsgID: request.ClientMsgID,
		SenderID:    profile.ID,
		SenderRole:  profile.Role,
		Body:        request.Body,
	}
	if err := dbconfig.DB.Create(&msg).Error; err != nil {
		// Resend of an already delivered message.
		var existing models.SupportMessage
		if dbconfig.DB.Where("ticket_id = ? AND client_msg_id = ?",
			ticket.ID, request.ClientMsgID).First(&existing).Error == nil {
			c.JSON(http.StatusOK, existing)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	chatHub.Broadcast(ticket.ID, chat.Event{
		Type:        "message",
		TicketID:    ticket.ID,
		SenderID:    profile.ID,
		SenderRole:  profile.Role,
		Body:        msg.Body,
		ClientMsgID: msg.ClientMsgID,
		MessageID:   msg.ID,
	})
	c.JSON(http.StatusCreated, msg)
}

// CloseTicket closes a ticket
func CloseTicket(c *gin.Context) {
	ticket, ok := ticketForRequest(c)
	if !ok {
		return
	}

	res := dbconfig.DB.Model(&models.SupportTicket{}).
		Where("id = ? AND status = ?", ticket.ID, "open").
		Update("status", "closed")
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket is already closed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket closed"})
}

// TicketChat upgrades the request to a websocket joined to the ticket room
func TicketChat(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	ticket, ok := ticketForRequest(c)
	if !ok {
		return
	}

	if err := chatHub.Serve(c.Writer, c.Request, dbconfig.DB, ticket.ID, profile.ID, profile.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
