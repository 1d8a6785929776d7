package models

import (
	"time"
)

// AdminMessage is a broadcast record; creating one fans out a notification to
// every profile in the targeted audience.
type AdminMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"size:2000;not null" json:"body"`
	Audience  string    `gorm:"size:20;not null;default:'all'" json:"audience"` // all | demo | live
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (AdminMessage) TableName() string {
	return "admin_messages"
}
