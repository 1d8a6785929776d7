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

// StartBotTradeRequest represents the request body for starting a bot trade
type StartBotTradeRequest struct {
	AccountType      string  `json:"account_type" binding:"required"`
	Symbol           string  `json:"symbol" binding:"required"`
	Category         string  `json:"category"`
	Strategy         string  `json:"strategy" binding:"required"`
	EntryPrice       float64 `json:"entry_price"`
	AllocatedBalance float64 `json:"allocated_balance" binding:"required"`
	ExpectedProfit   float64 `json:"expected_profit" binding:"required"`
	RiskLevel        string  `json:"risk_level"`
	DurationHours    int     `json:"duration_hours"`
}

// BotProgressRequest represents the request body for an admin progress update
type BotProgressRequest struct {
	Progress      *float64 `json:"progress"`
	Profit        *float64 `json:"profit"`
	DurationHours *int     `json:"duration_hours"`
}

// StartBotTrade allocates funds and starts a bot for the caller
func StartBotTrade(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var request StartBotTradeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bot, err := business.StartBotTrade(dbconfig.DB, business.StartBotTradeInput{
		UserID:           profile.ID,
		AccountType:      request.AccountType,
		Symbol:           request.Symbol,
		Category:         request.Category,
		Strategy:         request.Strategy,
		EntryPrice:       request.EntryPrice,
		AllocatedBalance: request.AllocatedBalance,
		Config: models.BotConfig{
			ExpectedProfit: request.ExpectedProfit,
			RiskLevel:      request.RiskLevel,
			DurationHours:  request.DurationHours,
		},
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, bot)
}

// ListBotTrades returns the caller's bot trades, optionally by status
func ListBotTrades(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	query := dbconfig.DB.Where("user_id = ?", profile.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if accountType := c.Query("account_type"); accountType != "" {
		query = query.Where("account_type = ?", accountType)
	}

	var bots []models.BotTrade
	if err := query.Order("id DESC").Find(&bots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bots)
}

// GetBotTrade returns one of the caller's bot trades
func GetBotTrade(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var bot models.BotTrade
	if err := dbconfig.DB.Where("id = ? AND user_id = ?", id, profile.ID).
		First(&bot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, bot)
}

// StopBotTrade stops one of the caller's own bots and settles it
func StopBotTrade(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var bot models.BotTrade
	if err := dbconfig.DB.Where("id = ? AND user_id = ?", id, profile.ID).
		First(&bot).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	stopped, err := business.StopBotTrade(dbconfig.DB, bot.ID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stopped)
}

// AdminListBotTrades returns all bot trades with filters and pagination (admin)
func AdminListBotTrades(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	query := dbconfig.DB.Model(&models.BotTrade{})
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

	var bots []models.BotTrade
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      bots,
	})
}

// AdminUpdateBotProgress overrides a bot's progress or profit (admin)
func AdminUpdateBotProgress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request BotProgressRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bot, err := business.UpdateBotProgress(dbconfig.DB, uint(id), business.ProgressUpdateInput{
		Progress:      request.Progress,
		Profit:        request.Profit,
		DurationHours: request.DurationHours,
		Source:        models.ProgressSourceAdmin,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bot)
}

// AdminStopBotTrade stops any bot trade (admin)
func AdminStopBotTrade(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	bot, err := business.StopBotTrade(dbconfig.DB, uint(id))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bot)
}

// AdminPauseBotTrade pauses a running bot trade (admin)
func AdminPauseBotTrade(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	bot, err := business.PauseBotTrade(dbconfig.DB, uint(id))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bot)
}

// AdminResumeBotTrade resumes a paused bot trade (admin)
func AdminResumeBotTrade(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	bot, err := business.ResumeBotTrade(dbconfig.DB, uint(id))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bot)
}

// AdminAutoCompleteBots settles every running bot past its end date (admin)
func AdminAutoCompleteBots(c *gin.Context) {
	n, err := business.AutoCompleteExpiredBots(dbconfig.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_count": n})
}
