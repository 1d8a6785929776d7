package models

import (
	"time"
)

type KycVerification struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	DocumentType   string    `gorm:"size:30;not null" json:"document_type"`
	DocumentNumber string    `gorm:"size:60" json:"document_number"`
	FrontURL       string    `gorm:"size:255" json:"front_url"`
	BackURL        string    `gorm:"size:255" json:"back_url"`
	Status         string    `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending | approved | rejected
	ReviewedBy     uint      `json:"reviewed_by,omitempty"`
	Notes          string    `gorm:"size:500" json:"notes"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (KycVerification) TableName() string {
	return "kyc_verifications"
}
