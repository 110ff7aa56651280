package dto

import (
	"time"

	"github.com/yukikurage/streamline-api/internal/models"
)

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Text          string              `json:"text"`
	Completed     bool                `json:"completed"`
	Priority      models.TodoPriority `json:"priority"`
	Category      string              `json:"category"`
	StartedAt     *time.Time          `json:"started_at"`
	TimerRunning  bool                `json:"timer_running"`
	TimeSpent     int                 `json:"time_spent"`
	CompletedAt   *time.Time          `json:"completed_at"`
	EstimatedTime *int                `json:"estimated_time"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CommentDTO represents a todo or ticket comment in API responses
type CommentDTO struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Text      string    `json:"text"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityDTO represents an activity log entry
type ActivityDTO struct {
	ID          string              `json:"id"`
	Type        models.ActivityType `json:"type"`
	Description string              `json:"description"`
	TaskID      *string             `json:"task_id"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToTodoDTO converts a Todo model to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:            todo.ID,
		UserID:        todo.UserID,
		Text:          todo.Text,
		Completed:     todo.Completed,
		Priority:      todo.Priority,
		Category:      todo.Category,
		StartedAt:     todo.StartedAt,
		TimerRunning:  todo.TimerRunning(),
		TimeSpent:     todo.TimeSpent,
		CompletedAt:   todo.CompletedAt,
		EstimatedTime: todo.EstimatedTime,
		CreatedAt:     todo.CreatedAt,
		UpdatedAt:     todo.UpdatedAt,
	}
}

// ToTodoDTOs converts a slice of todos
func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}
	return items
}

// ToCommentDTO converts a todo Comment
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		ParentID:  comment.TodoID,
		Text:      comment.Text,
		UserEmail: comment.UserEmail,
		CreatedAt: comment.CreatedAt,
	}
}

// ToCommentDTOs converts a slice of todo comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToCommentDTO(comment)
	}
	return items
}

// ToActivityDTOs converts a slice of activities
func ToActivityDTOs(activities []models.Activity) []ActivityDTO {
	items := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		items[i] = ActivityDTO{
			ID:          a.ID,
			Type:        a.Type,
			Description: a.Description,
			TaskID:      a.TaskID,
			CreatedAt:   a.CreatedAt,
		}
	}
	return items
}
