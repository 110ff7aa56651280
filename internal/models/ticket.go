package models

import (
	"time"

	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

type Ticket struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_tickets_owner_number" json:"user_id"`
	TicketID    string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_tickets_owner_number" json:"ticket_id"`
	ClientName  string         `gorm:"type:varchar(255)" json:"client_name"`
	Subject     string         `gorm:"type:varchar(255);not null" json:"subject"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TicketStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Priority    TicketPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	t.ID = ensureID(t.ID)
	return nil
}

type TicketComment struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	TicketID  string    `gorm:"type:varchar(36);not null;index" json:"ticket_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserEmail string    `gorm:"type:varchar(255)" json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *TicketComment) BeforeCreate(tx *gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}
