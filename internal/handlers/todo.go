package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/dto"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/services"
	"github.com/yukikurage/streamline-api/internal/utils"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// ListTodos returns the current user's todos, newest first
func (h *TodoHandler) ListTodos(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todos, err := h.todoService.List(user.ID, utils.GetListParams(c, 0))
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch todos")
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTOs(todos))
}

// GetTodo returns the todo loaded by RequireTodoAccess
func (h *TodoHandler) GetTodo(c *gin.Context) {
	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	type CreateTodoRequest struct {
		Text          string               `json:"text" binding:"required,max=1000"`
		Priority      *models.TodoPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		Category      *string              `json:"category" binding:"omitempty,max=100"`
		EstimatedTime *int                 `json:"estimated_time" binding:"omitempty,min=0"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	todo, err := h.todoService.Create(user, services.CreateTodoInput{
		Text:          req.Text,
		Priority:      req.Priority,
		Category:      req.Category,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// UpdateTodo applies a partial update
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	type UpdateTodoRequest struct {
		Text          *string              `json:"text" binding:"omitempty,max=1000"`
		Completed     *bool                `json:"completed"`
		Priority      *models.TodoPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		Category      *string              `json:"category" binding:"omitempty,max=100"`
		EstimatedTime *int                 `json:"estimated_time" binding:"omitempty,min=0"`
	}

	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	updated, err := h.todoService.Update(todo, services.UpdateTodoInput{
		Text:          req.Text,
		Completed:     req.Completed,
		Priority:      req.Priority,
		Category:      req.Category,
		EstimatedTime: req.EstimatedTime,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*updated))
}

// DeleteTodo deletes a todo and its comments
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	if err := h.todoService.Delete(todo); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// TrackTime starts or stops the todo's timer
func (h *TodoHandler) TrackTime(c *gin.Context) {
	type TrackTimeRequest struct {
		Action string `json:"action" binding:"required"`
	}

	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	var req TrackTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "action is required")
		return
	}

	updated, err := h.todoService.Timer(todo, services.TimerAction(req.Action))
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*updated))
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrTimerAlreadyRunning):
		apierrors.InvalidState(c, "Timer already running")
	case errors.Is(err, services.ErrTimerNotRunning):
		apierrors.InvalidState(c, "Timer not running")
	case errors.Is(err, services.ErrTextRequired),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidEstimate),
		errors.Is(err, services.ErrInvalidTimerAction):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to process todo")
	}
}
