package handlers

import (
	"net/http"
	"strconv"
	"time"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// planDurations maps plan codes to their subscription length.
var planDurations = map[string]time.Duration{
	"basic": 30 * 24 * time.Hour,
	"pro":   90 * 24 * time.Hour,
	"elite": 365 * 24 * time.Hour,
}

// RequestPlanRequest represents the request body for requesting a plan
type RequestPlanRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// RequestPlan opens a plan subscription pending admin approval
func RequestPlan(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request RequestPlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := planDurations[request.PlanCode]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_code must be basic, pro or elite"})
		return
	}

	// One pending or active plan at a time.
	var existing models.UserPlan
	if err := dbconfig.DB.Where("user_id = ? AND status IN ?", profile.ID,
		[]string{models.PlanStatusPending, models.PlanStatusApproved, models.PlanStatusActive}).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A plan request is already open"})
		return
	}

	plan := models.UserPlan{
		UserID:   profile.ID,
		PlanCode: request.PlanCode,
		Status:   models.PlanStatusPending,
	}
	if err := dbconfig.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns the caller's plan history
func ListPlans(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var plans []models.UserPlan
	if err := dbconfig.DB.Where("user_id = ?", profile.ID).
		Order("id DESC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CancelPlan cancels the caller's own pending or active plan
func CancelPlan(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	res := dbconfig.DB.Model(&models.UserPlan{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, profile.ID,
			[]string{models.PlanStatusPending, models.PlanStatusApproved, models.PlanStatusActive}).
		Update("status", models.PlanStatusCancelled)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No cancellable plan found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan cancelled"})
}

// AdminListPlans returns all plans, optionally by status (admin)
func AdminListPlans(c *gin.Context) {
	query := dbconfig.DB.Model(&models.UserPlan{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var plans []models.UserPlan
	if err := query.Order("id DESC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// AdminApprovePlan activates a pending plan (admin)
func AdminApprovePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var plan models.UserPlan
	err = dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plan, id).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		ends := now.Add(planDurations[plan.PlanCode])

		res := tx.Model(&models.UserPlan{}).
			Where("id = ? AND status = ?", id, models.PlanStatusPending).
			Updates(map[string]interface{}{
				"status":    models.PlanStatusActive,
				"starts_at": now,
				"ends_at":   ends,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		plan.Status = models.PlanStatusActive
		plan.StartsAt = &now
		plan.EndsAt = &ends
		return nil
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AdminRejectPlan rejects a pending plan (admin)
func AdminRejectPlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	res := dbconfig.DB.Model(&models.UserPlan{}).
		Where("id = ? AND status = ?", id, models.PlanStatusPending).
		Update("status", models.PlanStatusRejected)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending plan found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan rejected"})
}

// ExpireUserPlans marks active plans past their end date as expired. Shared
// by the admin endpoint and the scheduler.
func ExpireUserPlans(db *gorm.DB) (int64, error) {
	res := db.Model(&models.UserPlan{}).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at < ?",
			models.PlanStatusActive, time.Now().UTC()).
		Update("status", models.PlanStatusExpired)
	return res.RowsAffected, res.Error
}

// AdminExpirePlans expires overdue plans on demand (admin)
func AdminExpirePlans(c *gin.Context) {
	n, err := ExpireUserPlans(dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired_count": n})
}
