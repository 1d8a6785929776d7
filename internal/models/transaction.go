package models

import (
	"time"
)

// Transaction is the append-only ledger of balance-affecting events. The
// unique reference_id makes settlement writes idempotent under retries.
type Transaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	AccountType string    `gorm:"size:20;not null" json:"account_type"`
	Type        string    `gorm:"size:30;not null;index" json:"type"`
	Amount      float64   `gorm:"not null" json:"amount"` // signed
	Status      string    `gorm:"size:20;not null;default:'completed'" json:"status"`
	Description string    `gorm:"size:255" json:"description"`
	ReferenceID string    `gorm:"size:64;not null;uniqueIndex" json:"reference_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
