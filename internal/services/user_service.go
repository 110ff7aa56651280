package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

var (
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrInvalidProvider   = errors.New("unknown AI provider")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrFailedToSaveUser  = errors.New("failed to save user")
	ErrNothingToUpdate   = errors.New("no fields to update")
	ErrPasswordUnchanged = errors.New("new password must differ from the current one")
)

// UserService manages the profile, password and settings of an account.
type UserService struct {
	userRepo   repository.UserRepository
	activities *ActivityService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, activities *ActivityService) *UserService {
	return &UserService{
		userRepo:   userRepo,
		activities: activities,
	}
}

// UpdateProfileInput carries optional profile fields; nil leaves a field unchanged.
type UpdateProfileInput struct {
	Name      *string
	Mobile    *string
	Bio       *string
	AvatarURL *string
}

// UpdateProfile applies the present fields to the user's profile.
func (s *UserService) UpdateProfile(user *models.User, input UpdateProfileInput) (*models.User, error) {
	if input.Name == nil && input.Mobile == nil && input.Bio == nil && input.AvatarURL == nil {
		return nil, ErrNothingToUpdate
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Mobile != nil {
		user.Mobile = strings.TrimSpace(*input.Mobile)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToSaveUser, err)
	}

	s.activities.Record(user.ID, models.ActivityProfileUpdated, "Updated profile information", nil)
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserService) ChangePassword(user *models.User, currentPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveUser, err)
	}

	s.activities.Record(user.ID, models.ActivityPasswordChanged, "Changed account password", nil)
	return nil
}

// SettingsPatch is a partial update of UserSettings. API keys are write-only:
// an empty string clears a key, nil leaves it untouched.
type SettingsPatch struct {
	EmailNotifications *bool
	TaskReminders      *bool
	WeeklySummary      *bool

	DefaultPriority *string
	DefaultCategory *string

	Provider       *string
	GeminiKey      *string
	OpenAIKey      *string
	ClaudeKey      *string
	CustomKey      *string
	CustomEndpoint *string
	CustomModel    *string
}

// GetSettings returns the stored settings with defaults filled in.
func (s *UserService) GetSettings(user *models.User) models.UserSettings {
	settings := user.Settings.Data()
	if settings.TaskDefaults.Priority == "" {
		settings.TaskDefaults.Priority = string(models.PriorityMedium)
	}
	if settings.TaskDefaults.Category == "" {
		settings.TaskDefaults.Category = models.DefaultUserSettings().TaskDefaults.Category
	}
	settings.AI.Provider = settings.AI.ProviderOrDefault()
	return settings
}

// UpdateSettings merges patch into the user's settings.
func (s *UserService) UpdateSettings(user *models.User, patch SettingsPatch) (models.UserSettings, error) {
	settings := s.GetSettings(user)

	if patch.EmailNotifications != nil {
		settings.Notifications.EmailNotifications = *patch.EmailNotifications
	}
	if patch.TaskReminders != nil {
		settings.Notifications.TaskReminders = *patch.TaskReminders
	}
	if patch.WeeklySummary != nil {
		settings.Notifications.WeeklySummary = *patch.WeeklySummary
	}

	if patch.DefaultPriority != nil {
		if !models.TodoPriority(*patch.DefaultPriority).Valid() {
			return models.UserSettings{}, ErrInvalidPriority
		}
		settings.TaskDefaults.Priority = *patch.DefaultPriority
	}
	if patch.DefaultCategory != nil {
		settings.TaskDefaults.Category = strings.TrimSpace(*patch.DefaultCategory)
	}

	if patch.Provider != nil {
		provider := models.AIProviderName(*patch.Provider)
		if !provider.Valid() {
			return models.UserSettings{}, ErrInvalidProvider
		}
		settings.AI.Provider = provider
	}
	assignString(&settings.AI.GeminiKey, patch.GeminiKey)
	assignString(&settings.AI.OpenAIKey, patch.OpenAIKey)
	assignString(&settings.AI.ClaudeKey, patch.ClaudeKey)
	assignString(&settings.AI.CustomKey, patch.CustomKey)
	assignString(&settings.AI.CustomEndpoint, patch.CustomEndpoint)
	assignString(&settings.AI.CustomModel, patch.CustomModel)

	user.Settings = datatypes.NewJSONType(settings)
	if err := s.userRepo.Update(user); err != nil {
		return models.UserSettings{}, fmt.Errorf("%w: %v", ErrFailedToSaveUser, err)
	}

	s.activities.Record(user.ID, models.ActivitySettingsUpdated, "Updated account settings", nil)
	return settings, nil
}

func assignString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
