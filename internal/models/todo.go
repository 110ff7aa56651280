package models

import (
	"time"

	"gorm.io/gorm"
)

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID            string       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        string       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Text          string       `gorm:"type:text;not null" json:"text"`
	Completed     bool         `gorm:"not null;default:false" json:"completed"`
	Priority      TodoPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Category      string       `gorm:"type:varchar(100);not null;default:'personal'" json:"category"`
	StartedAt     *time.Time   `json:"started_at"`
	TimeSpent     int          `gorm:"not null;default:0" json:"time_spent"`
	CompletedAt   *time.Time   `json:"completed_at"`
	EstimatedTime *int         `json:"estimated_time"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	t.ID = ensureID(t.ID)
	return nil
}

// TimerRunning reports whether the time tracker is currently started.
func (t *Todo) TimerRunning() bool {
	return t.StartedAt != nil
}
