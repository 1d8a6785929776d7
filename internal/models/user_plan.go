package models

import (
	"time"
)

const (
	PlanStatusPending   = "pending"
	PlanStatusApproved  = "approved"
	PlanStatusRejected  = "rejected"
	PlanStatusActive    = "active"
	PlanStatusCancelled = "cancelled"
	PlanStatusExpired   = "expired"
)

type UserPlan struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	PlanCode  string     `gorm:"size:20;not null" json:"plan_code"` // basic | pro | elite
	Status    string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UserPlan) TableName() string {
	return "user_plans"
}
