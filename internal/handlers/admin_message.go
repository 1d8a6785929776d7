package handlers

import (
	"net/http"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BroadcastRequest represents the request body for an admin broadcast
type BroadcastRequest struct {
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Audience string `json:"audience" binding:"required"`
}

// AdminBroadcast records a broadcast and fans out one notification per
// targeted user (admin)
func AdminBroadcast(c *gin.Context) {
	sender := middleware.CurrentProfile(c)

	var request BroadcastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Audience != "all" && request.Audience != "demo" && request.Audience != "live" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audience must be all, demo or live"})
		return
	}

	message := models.AdminMessage{
		Title:     request.Title,
		Body:      request.Body,
		Audience:  request.Audience,
		CreatedBy: sender.ID,
	}

	var recipients int
	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		query := tx.Model(&models.Profile{}).Where("role = ? AND is_active = ?", "user", true)
		if request.Audience != "all" {
			query = query.Where("account_type = ?", request.Audience)
		}

		var userIDs []uint
		if err := query.Pluck("id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}

		notifications := make([]models.Notification, 0, len(userIDs))
		for _, id := range userIDs {
			notifications = append(notifications, models.Notification{
				UserID: id,
				Type:   "announcement",
				Title:  request.Title,
				Body:   request.Body,
			})
		}
		recipients = len(notifications)
		return tx.CreateInBatches(&notifications, 200).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         message,
		"recipient_count": recipients,
	})
}

// AdminListBroadcasts returns past broadcasts (admin)
func AdminListBroadcasts(c *gin.Context) {
	var messages []models.AdminMessage
	if err := dbconfig.DB.Order("id DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}
