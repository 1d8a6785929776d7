package handlers

import (
	"net/http"
	"strconv"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	AccountType *string `json:"account_type"`
}

// UpdateProfile updates the authenticated user's own profile
func UpdateProfile(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.FullName != nil {
		profile.FullName = *request.FullName
	}
	if request.AccountType != nil {
		if *request.AccountType != "demo" && *request.AccountType != "live" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_type must be demo or live"})
			return
		}
		profile.AccountType = *request.AccountType
	}

	if err := dbconfig.DB.Save(profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListProfiles returns all profiles with pagination (admin)
func ListProfiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	query := dbconfig.DB.Model(&models.Profile{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if kyc := c.Query("kyc_status"); kyc != "" {
		query = query.Where("kyc_status = ?", kyc)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var profiles []models.Profile
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      profiles,
	})
}

// GetProfileByID returns a specific profile (admin)
func GetProfileByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var profile models.Profile
	if err := dbconfig.DB.First(&profile, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetProfileActiveRequest represents the request body for toggling a profile
type SetProfileActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetProfileActive activates or deactivates a profile (admin)
func SetProfileActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request SetProfileActiveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := dbconfig.DB.First(&profile, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	profile.IsActive = *request.IsActive
	if err := dbconfig.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
