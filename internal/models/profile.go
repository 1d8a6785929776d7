package models

import (
	"time"
)

type Profile struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"`         // user | admin
	AccountType  string    `gorm:"size:20;not null;default:'demo'" json:"account_type"` // demo | live
	KycStatus    string    `gorm:"size:20;not null;default:'unverified'" json:"kyc_status"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
