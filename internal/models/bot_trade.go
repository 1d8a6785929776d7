package models

import (
	"time"
)

const (
	BotStatusRunning   = "running"
	BotStatusPaused    = "paused"
	BotStatusStopped   = "stopped"
	BotStatusCompleted = "completed"
)

const (
	ProgressSourceAuto  = "auto"
	ProgressSourceAdmin = "admin"
)

// BotConfig holds the per-trade strategy parameters, fixed at start.
type BotConfig struct {
	ExpectedProfit float64 `json:"expected_profit"`
	RiskLevel      string  `json:"risk_level"`
	DurationHours  int     `json:"duration_hours"`
}

// BotMetadata tracks the simulated progress of an allocation. ProgressSource
// tags who computed the current progress value instead of keeping duplicate
// admin_-prefixed fields.
type BotMetadata struct {
	AllocatedBalance float64    `json:"allocated_balance"`
	Progress         float64    `json:"progress"` // 0-100
	CurrentProfit    float64    `json:"current_profit"`
	ProgressSource   string     `json:"progress_source"` // auto | admin
	StartedAt        time.Time  `json:"started_at"`
	EndDate          *time.Time `json:"end_date,omitempty"`
}

type BotTrade struct {
	ID                uint        `gorm:"primarykey" json:"id"`
	UserID            uint        `gorm:"not null;index" json:"user_id"`
	AccountType       string      `gorm:"size:20;not null" json:"account_type"`
	Symbol            string      `gorm:"size:20;not null" json:"symbol"`
	Category          string      `gorm:"size:30" json:"category"`
	Strategy          string      `gorm:"size:30" json:"strategy"`
	Status            string      `gorm:"size:20;not null;default:'running';index" json:"status"`
	EntryPrice        float64     `json:"entry_price"`
	ProfitLoss        float64     `json:"profit_loss"`
	ProfitLossPercent float64     `json:"profit_loss_percent"`
	Config            BotConfig   `gorm:"type:jsonb;serializer:json" json:"config"`
	Metadata          BotMetadata `gorm:"type:jsonb;serializer:json" json:"metadata"`
	CreatedAt         time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (BotTrade) TableName() string {
	return "bot_trades"
}
