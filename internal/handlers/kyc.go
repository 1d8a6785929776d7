package handlers

import (
	"net/http"
	"strconv"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitKycRequest represents the request body for a KYC submission
type SubmitKycRequest struct {
	DocumentType   string `json:"document_type" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required"`
	FrontURL       string `json:"front_url" binding:"required"`
	BackURL        string `json:"back_url"`
}

// ReviewKycRequest represents the request body for a KYC review decision
type ReviewKycRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// SubmitKyc creates a verification request and flags the profile as pending
func SubmitKyc(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request SubmitKycRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var open models.KycVerification
	if err := dbconfig.DB.Where("user_id = ? AND status = ?", profile.ID, "pending").
		First(&open).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A verification is already pending"})
		return
	}

	kyc := models.KycVerification{
		UserID:         profile.ID,
		DocumentType:   request.DocumentType,
		DocumentNumber: request.DocumentNumber,
		FrontURL:       request.FrontURL,
		BackURL:        request.BackURL,
		Status:         "pending",
	}

	err := dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&kyc).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("id = ?", profile.ID).
			Update("kyc_status", "pending").Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, kyc)
}

// GetKycStatus returns the caller's latest verification
func GetKycStatus(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var kyc models.KycVerification
	if err := dbconfig.DB.Where("user_id = ?", profile.ID).
		Order("id DESC").First(&kyc).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "unverified"})
		return
	}
	c.JSON(http.StatusOK, kyc)
}

// AdminListKyc returns verifications, pending first (admin)
func AdminListKyc(c *gin.Context) {
	query := dbconfig.DB.Model(&models.KycVerification{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var kycs []models.KycVerification
	if err := query.Order("id DESC").Find(&kycs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, kycs)
}

// AdminReviewKyc approves or rejects a pending verification (admin)
func AdminReviewKyc(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	reviewer := middleware.CurrentProfile(c)

	var request ReviewKycRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := "rejected"
	if request.Approve {
		decision = "approved"
	}

	var kyc models.KycVerification
	err = dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&kyc, id).Error; err != nil {
			return err
		}

		res := tx.Model(&models.KycVerification{}).
			Where("id = ? AND status = ?", id, "pending").
			Updates(map[string]interface{}{
				"status":      decision,
				"reviewed_by": reviewer.ID,
				"notes":       request.Notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		kyc.Status = decision
		kyc.ReviewedBy = reviewer.ID
		kyc.Notes = request.Notes

		profileStatus := "rejected"
		if request.Approve {
			profileStatus = "approved"
		}
		return tx.Model(&models.Profile{}).
			Where("id = ?", kyc.UserID).
			Update("kyc_status", profileStatus).Error
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, kyc)
}
