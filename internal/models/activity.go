package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityTaskCreated     ActivityType = "task_created"
	ActivityTaskCompleted   ActivityType = "task_completed"
	ActivityTaskReopened    ActivityType = "task_reopened"
	ActivityTaskDeleted     ActivityType = "task_deleted"
	ActivityTimerStarted    ActivityType = "timer_started"
	ActivityTimerStopped    ActivityType = "timer_stopped"
	ActivityProfileUpdated  ActivityType = "profile_updated"
	ActivityPasswordChanged ActivityType = "password_changed"
	ActivitySettingsUpdated ActivityType = "settings_updated"
	ActivityTicketCreated   ActivityType = "ticket_created"
	ActivityTicketDeleted   ActivityType = "ticket_deleted"
)

// Activity is an append-only log entry of something the user did.
type Activity struct {
	ID          string       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      string       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type        ActivityType `gorm:"type:varchar(50);not null" json:"type"`
	Description string       `gorm:"type:text" json:"description"`
	TaskID      *string      `gorm:"type:varchar(36)" json:"task_id"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	a.ID = ensureID(a.ID)
	return nil
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
