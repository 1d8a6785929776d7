package handlers

import (
	"net/http"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	dbconfig "brokercontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a profile and provisions a demo and a live wallet
func Register(c *gin.Context) {
	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Profile
	if err := dbconfig.DB.Where("email = ?", request.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := middleware.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile := models.Profile{
		Email:        request.Email,
		PasswordHash: hash,
		FullName:     request.FullName,
		Role:         "user",
		AccountType:  "demo",
		KycStatus:    "unverified",
		IsActive:     true,
	}

	err = dbconfig.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		// Demo wallets start with practice funds, live wallets start empty.
		wallets := []models.Wallet{
			{UserID: profile.ID, AccountType: "demo", TotalBalance: 10000},
			{UserID: profile.ID, AccountType: "live"},
		}
		return tx.Create(&wallets).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := middleware.GenerateToken(&profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": profile})
}

// Login authenticates a profile and returns a JWT
func Login(c *gin.Context) {
	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := dbconfig.DB.Where("email = ?", request.Email).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !profile.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	}
	if err := middleware.CheckPassword(request.Password, profile.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(&profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": profile})
}

// Me returns the authenticated profile
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentProfile(c))
}
