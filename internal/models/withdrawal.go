package models

import (
	"time"
)

const (
	WithdrawalStatusPendingPayment = "pending_payment"
	WithdrawalStatusPaymentPending = "payment_pending"
	WithdrawalStatusCompleted      = "completed"
	WithdrawalStatusRejected       = "rejected"
)

type Withdrawal struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	AccountType string    `gorm:"size:20;not null" json:"account_type"`
	Amount      float64   `gorm:"not null" json:"amount"`
	AdminFee    float64   `gorm:"not null;default:0" json:"admin_fee"`
	NetAmount   float64   `gorm:"not null" json:"net_amount"`
	Method      string    `gorm:"size:30" json:"method"`
	Destination string    `gorm:"size:255" json:"destination"`
	Status      string    `gorm:"size:20;not null;default:'pending_payment';index" json:"status"`
	ReviewedBy  uint      `json:"reviewed_by,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
