package models

import (
	"time"
)

type SupportTicket struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Subject   string    `gorm:"size:200;not null" json:"subject"`
	Status    string    `gorm:"size:20;not null;default:'open';index" json:"status"` // open | closed
	Priority  string    `gorm:"size:20;default:'normal'" json:"priority"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// SupportMessage rows carry the client-generated message id so redelivered
// websocket frames can be deduplicated per ticket.
type SupportMessage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TicketID    uint      `gorm:"not null;index;uniqueIndex:idx_ticket_client_msg" json:"ticket_id"`
	SenderID    uint      `gorm:"not null" json:"sender_id"`
	SenderRole  string    `gorm:"size:20;not null" json:"sender_role"` // user | admin
	Body        string    `gorm:"size:2000;not null" json:"body"`
	ClientMsgID string    `gorm:"size:64;uniqueIndex:idx_ticket_client_msg" json:"client_msg_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (SupportMessage) TableName() string {
	return "support_messages"
}
