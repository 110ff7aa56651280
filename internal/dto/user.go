package dto

import (
	"time"

	"github.com/yukikurage/streamline-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

// SettingsDTO represents user settings with API keys replaced by presence flags
type SettingsDTO struct {
	Notifications models.NotificationSettings `json:"notifications"`
	TaskDefaults  models.TaskDefaultSettings  `json:"task_defaults"`
	AI            AISettingsDTO               `json:"ai"`
}

// AISettingsDTO never carries raw keys
type AISettingsDTO struct {
	Provider       models.AIProviderName `json:"provider"`
	HasGeminiKey   bool                  `json:"has_gemini_key"`
	HasOpenAIKey   bool                  `json:"has_openai_key"`
	HasClaudeKey   bool                  `json:"has_claude_key"`
	HasCustomKey   bool                  `json:"has_custom_key"`
	CustomEndpoint string                `json:"custom_endpoint"`
	CustomModel    string                `json:"custom_model"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Mobile:    user.Mobile,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// ToSettingsDTO converts UserSettings to SettingsDTO
func ToSettingsDTO(settings models.UserSettings) SettingsDTO {
	return SettingsDTO{
		Notifications: settings.Notifications,
		TaskDefaults:  settings.TaskDefaults,
		AI: AISettingsDTO{
			Provider:       settings.AI.ProviderOrDefault(),
			HasGeminiKey:   settings.AI.GeminiKey != "",
			HasOpenAIKey:   settings.AI.OpenAIKey != "",
			HasClaudeKey:   settings.AI.ClaudeKey != "",
			HasCustomKey:   settings.AI.CustomKey != "",
			CustomEndpoint: settings.AI.CustomEndpoint,
			CustomModel:    settings.AI.CustomModel,
		},
	}
}
