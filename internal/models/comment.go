package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a note attached to a todo. Comments are never edited.
type Comment struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	TodoID    string    `gorm:"type:varchar(36);not null;index" json:"todo_id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserEmail string    `gorm:"type:varchar(255)" json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}
