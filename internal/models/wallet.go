package models

import (
	"time"
)

// Wallet holds the per-(user, account_type) balance sheet. One row per pair,
// created at registration for both demo and live.
type Wallet struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex:idx_wallet_user_account" json:"user_id"`
	AccountType       string    `gorm:"size:20;not null;uniqueIndex:idx_wallet_user_account" json:"account_type"`
	TotalBalance      float64   `gorm:"not null;default:0" json:"total_balance"`
	TradingBalance    float64   `gorm:"not null;default:0" json:"trading_balance"`
	BotTradingBalance float64   `gorm:"not null;default:0" json:"bot_trading_balance"`
	BonusBalance      float64   `gorm:"not null;default:0" json:"bonus_balance"`
	LockedBalance     float64   `gorm:"not null;default:0" json:"locked_balance"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string {
	return "wallets"
}
