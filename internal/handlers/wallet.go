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

// TransferRequest represents the request body for moving funds between buckets
type TransferRequest struct {
	AccountType string  `json:"account_type" binding:"required"`
	From        string  `json:"from" binding:"required"`
	To          string  `json:"to" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// DepositRequest represents the request body for a deposit request
type DepositRequest struct {
	AccountType string  `json:"account_type" binding:"required"`
	Method      string  `json:"method" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// GetWallet returns the wallet for the requested account type
func GetWallet(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	accountType := c.DefaultQuery("account_type", profile.AccountType)

	var wallet models.Wallet
	if err := dbconfig.DB.Where("user_id = ? AND account_type = ?", profile.ID, accountType).
		First(&wallet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  wallet.ID,
		"account_type":        wallet.AccountType,
		"total_balance":       round2(wallet.TotalBalance),
		"trading_balance":     round2(wallet.TradingBalance),
		"bot_trading_balance": round2(wallet.BotTradingBalance),
		"bonus_balance":       round2(wallet.BonusBalance),
		"locked_balance":      round2(wallet.LockedBalance),
	})
}

// Transfer moves funds between buckets of the caller's wallet
func Transfer(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request TransferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := business.TransferBalance(dbconfig.DB, profile.ID,
		request.AccountType, request.From, request.To, request.Amount)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// RequestDeposit records a pending deposit for admin confirmation
func RequestDeposit(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request DepositRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txRow, err := business.RequestDeposit(dbconfig.DB, profile.ID,
		request.AccountType, request.Method, request.Amount)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, txRow)
}

// ConfirmDeposit credits a pending deposit (admin)
func ConfirmDeposit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	txRow, err := business.ConfirmDeposit(dbconfig.DB, uint(id))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, txRow)
}

// ListWalletsByUser returns both wallets for a user (admin)
func ListWalletsByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var wallets []models.Wallet
	if err := dbconfig.DB.Where("user_id = ?", userID).Find(&wallets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wallets)
}
