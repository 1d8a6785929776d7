package handlers

import (
	"net/http"
	"strconv"

	"brokercontrol/internal/handlers/business"
	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// WithdrawalRequest represents the request body for a withdrawal
type WithdrawalRequest struct {
	AccountType string  `json:"account_type" binding:"required"`
	Method      string  `json:"method" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// RejectWithdrawalRequest represents the request body for rejecting a withdrawal
type RejectWithdrawalRequest struct {
	Reason string `json:"reason"`
}

// RequestWithdrawal opens a withdrawal and locks the funds
func RequestWithdrawal(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request WithdrawalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := business.RequestWithdrawal(dbconfig.DB, profile.ID,
		request.AccountType, request.Method, request.Destination, request.Amount)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListWithdrawals returns the caller's withdrawals
func ListWithdrawals(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	query := dbconfig.DB.Where("user_id = ?", profile.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("id DESC").Find(&withdrawals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

// MarkWithdrawalPaid reports the admin fee as paid on the caller's withdrawal
func MarkWithdrawalPaid(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	w, err := business.MarkWithdrawalPaymentPending(dbconfig.DB, uint(id), profile.ID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

// AdminListWithdrawals returns all withdrawals with filters and pagination (admin)
func AdminListWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	query := dbconfig.DB.Model(&models.Withdrawal{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&withdrawals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      withdrawals,
	})
}

// AdminApproveWithdrawal approves a withdrawal and releases locked funds (admin)
func AdminApproveWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	reviewer := middleware.CurrentProfile(c)

	w, err := business.ApproveWithdrawal(dbconfig.DB, uint(id), reviewer.ID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}

// AdminRejectWithdrawal rejects a withdrawal and returns the funds (admin)
func AdminRejectWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	reviewer := middleware.CurrentProfile(c)

	var request RejectWithdrawalRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := business.RejectWithdrawal(dbconfig.DB, uint(id), reviewer.ID, request.Reason)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, w)
}
