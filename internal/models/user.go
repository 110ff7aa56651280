package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AIProviderName string

const (
	ProviderGemini AIProviderName = "gemini"
	ProviderOpenAI AIProviderName = "openai"
	ProviderClaude AIProviderName = "claude"
	ProviderCustom AIProviderName = "custom"
)

func (p AIProviderName) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderCustom:
		return true
	}
	return false
}

// DefaultAIProvider is used when the user has not chosen a provider.
const DefaultAIProvider = ProviderGemini

type User struct {
	ID           string                           `gorm:"type:varchar(36);primarykey" json:"id"`
	Email        string                           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string                           `gorm:"type:varchar(255);not null" json:"-"`
	Name         string                           `gorm:"type:varchar(255)" json:"name"`
	Mobile       string                           `gorm:"type:varchar(50)" json:"mobile"`
	Bio          string                           `gorm:"type:text" json:"bio"`
	AvatarURL    string                           `gorm:"type:varchar(512)" json:"avatar_url"`
	Settings     datatypes.JSONType[UserSettings] `json:"-"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}

// UserSettings is stored as a single JSON column on the user row.
type UserSettings struct {
	Notifications NotificationSettings `json:"notifications"`
	TaskDefaults  TaskDefaultSettings  `json:"task_defaults"`
	AI            AISettings           `json:"ai"`
}

type NotificationSettings struct {
	EmailNotifications bool `json:"email_notifications"`
	TaskReminders      bool `json:"task_reminders"`
	WeeklySummary      bool `json:"weekly_summary"`
}

type TaskDefaultSettings struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
}

type AISettings struct {
	Provider       AIProviderName `json:"provider"`
	GeminiKey      string         `json:"gemini_key,omitempty"`
	OpenAIKey      string         `json:"openai_key,omitempty"`
	ClaudeKey      string         `json:"claude_key,omitempty"`
	CustomKey      string         `json:"custom_key,omitempty"`
	CustomEndpoint string         `json:"custom_endpoint,omitempty"`
	CustomModel    string         `json:"custom_model,omitempty"`
}

// KeyFor returns the key the user stored for provider.
func (s AISettings) KeyFor(provider AIProviderName) string {
	switch provider {
	case ProviderGemini:
		return s.GeminiKey
	case ProviderOpenAI:
		return s.OpenAIKey
	case ProviderClaude:
		return s.ClaudeKey
	case ProviderCustom:
		return s.CustomKey
	default:
		return ""
	}
}

// ProviderOrDefault returns the configured provider or DefaultAIProvider.
func (s AISettings) ProviderOrDefault() AIProviderName {
	if s.Provider == "" {
		return DefaultAIProvider
	}
	return s.Provider
}

// DefaultUserSettings returns the settings a new account starts with.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Notifications: NotificationSettings{
			EmailNotifications: true,
			TaskReminders:      true,
		},
		TaskDefaults: TaskDefaultSettings{
			Priority: "medium",
			Category: "personal",
		},
		AI: AISettings{
			Provider: DefaultAIProvider,
		},
	}
}
