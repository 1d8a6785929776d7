package models

import (
	"time"
)

type Notification struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Type       string    `gorm:"size:30;not null" json:"type"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Body       string    `gorm:"size:1000" json:"body"`
	Read       bool      `gorm:"default:false" json:"read"`
	Dispatched bool      `gorm:"default:false" json:"dispatched"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
