package handlers

import (
	"net/http"
	"strconv"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	query := dbconfig.DB.Where("user_id = ?", profile.ID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("id DESC").Limit(200).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one of the caller's notifications as read
func MarkNotificationRead(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	res := dbconfig.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, profile.ID).
		Update("read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification as read
func MarkAllNotificationsRead(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	res := dbconfig.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", profile.ID, false).
		Update("read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_count": res.RowsAffected})
}
