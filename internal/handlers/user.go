package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/constants"
	"github.com/yukikurage/streamline-api/internal/dto"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
)

// UserHandler serves the account profile, password and settings routes.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfile changes the present profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	type UpdateProfileRequest struct {
		Name      *string `json:"name" binding:"omitempty,max=255"`
		Mobile    *string `json:"mobile" binding:"omitempty,max=50"`
		Bio       *string `json:"bio" binding:"omitempty,max=2000"`
		AvatarURL *string `json:"avatar_url" binding:"omitempty,max=512"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(user, services.UpdateProfileInput{
		Name:      req.Name,
		Mobile:    req.Mobile,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}

// ChangePassword replaces the password after verifying the current one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "current_password and new_password are required")
		return
	}

	if err := h.userService.ChangePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// GetSettings returns the user's settings without raw API keys.
func (h *UserHandler) GetSettings(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsDTO(h.userService.GetSettings(user)))
}

// UpdateSettings merges the request into the stored settings.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	type NotificationsRequest struct {
		EmailNotifications *bool `json:"email_notifications"`
		TaskReminders      *bool `json:"task_reminders"`
		WeeklySummary      *bool `json:"weekly_summary"`
	}
	type TaskDefaultsRequest struct {
		Priority *string `json:"priority"`
		Category *string `json:"category" binding:"omitempty,max=100"`
	}
	type AIRequest struct {
		Provider       *string `json:"provider"`
		GeminiKey      *string `json:"gemini_key"`
		OpenAIKey      *string `json:"openai_key"`
		ClaudeKey      *string `json:"claude_key"`
		CustomKey      *string `json:"custom_key"`
		CustomEndpoint *string `json:"custom_endpoint" binding:"omitempty,url"`
		CustomModel    *string `json:"custom_model"`
	}
	type UpdateSettingsRequest struct {
		Notifications *NotificationsRequest `json:"notifications"`
		TaskDefaults  *TaskDefaultsRequest  `json:"task_defaults"`
		AI            *AIRequest            `json:"ai"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var patch services.SettingsPatch
	if n := req.Notifications; n != nil {
		patch.EmailNotifications = n.EmailNotifications
		patch.TaskReminders = n.TaskReminders
		patch.WeeklySummary = n.WeeklySummary
	}
	if d := req.TaskDefaults; d != nil {
		patch.DefaultPriority = d.Priority
		patch.DefaultCategory = d.Category
	}
	if a := req.AI; a != nil {
		patch.Provider = a.Provider
		patch.GeminiKey = a.GeminiKey
		patch.OpenAIKey = a.OpenAIKey
		patch.ClaudeKey = a.ClaudeKey
		patch.CustomKey = a.CustomKey
		patch.CustomEndpoint = a.CustomEndpoint
		patch.CustomModel = a.CustomModel
	}

	settings, err := h.userService.UpdateSettings(user, patch)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettingsDTO(settings))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.BadRequest(c, "Current password is incorrect")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordTooLong):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at most %d characters", constants.MaxPasswordLength))
	case errors.Is(err, services.ErrPasswordUnchanged),
		errors.Is(err, services.ErrNothingToUpdate),
		errors.Is(err, services.ErrInvalidProvider),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to update account")
	}
}
