package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/streamline-api/internal/constants"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound        = errors.New("todo not found")
	ErrTextRequired        = errors.New("text is required")
	ErrInvalidEstimate     = errors.New("estimated time must not be negative")
	ErrInvalidTimerAction  = errors.New("action must be start or stop")
	ErrTimerAlreadyRunning = errors.New("timer already running")
	ErrTimerNotRunning     = errors.New("timer not running")
)

// TimerAction selects what POST /todos/:id/time does.
type TimerAction string

const (
	TimerStart TimerAction = "start"
	TimerStop  TimerAction = "stop"
)

// TodoService handles todo business logic
type TodoService struct {
	todoRepo   repository.TodoRepository
	activities *ActivityService
	now        func() time.Time
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository, activities *ActivityService) *TodoService {
	return &TodoService{
		todoRepo:   todoRepo,
		activities: activities,
		now:        time.Now,
	}
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	Text          string
	Priority      *models.TodoPriority
	Category      *string
	EstimatedTime *int
}

// UpdateTodoInput represents a partial todo update; nil fields are left unchanged.
type UpdateTodoInput struct {
	Text          *string
	Completed     *bool
	Priority      *models.TodoPriority
	Category      *string
	EstimatedTime *int
}

// List returns the todos of a user newest-first
func (s *TodoService) List(userID string, params utils.ListParams) ([]models.Todo, error) {
	todos, err := s.todoRepo.ListForOwner(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Get returns one todo owned by userID
func (s *TodoService) Get(userID, todoID string) (*models.Todo, error) {
	todo, err := s.todoRepo.FindForOwner(todoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

// Create stores a new todo. Missing priority/category fall back to the
// user's task defaults, then to medium/personal.
func (s *TodoService) Create(user *models.User, input CreateTodoInput) (*models.Todo, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if input.EstimatedTime != nil && *input.EstimatedTime < 0 {
		return nil, ErrInvalidEstimate
	}

	defaults := user.Settings.Data().TaskDefaults

	priority := models.TodoPriority(constants.DefaultTodoPriority)
	if p := models.TodoPriority(defaults.Priority); p.Valid() {
		priority = p
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		priority = *input.Priority
	}

	category := constants.DefaultTodoCategory
	if defaults.Category != "" {
		category = defaults.Category
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		category = strings.TrimSpace(*input.Category)
	}

	todo := &models.Todo{
		UserID:        user.ID,
		Text:          text,
		Priority:      priority,
		Category:      category,
		EstimatedTime: input.EstimatedTime,
	}
	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.activities.Record(user.ID, models.ActivityTaskCreated, fmt.Sprintf("Created task: %s", todo.Text), &todo.ID)
	return todo, nil
}

// Update applies the present fields of input to todo.
func (s *TodoService) Update(todo *models.Todo, input UpdateTodoInput) (*models.Todo, error) {
	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
		todo.Text = text
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		todo.Priority = *input.Priority
	}
	if input.Category != nil {
		todo.Category = strings.TrimSpace(*input.Category)
		if todo.Category == "" {
			todo.Category = constants.DefaultTodoCategory
		}
	}
	if input.EstimatedTime != nil {
		if *input.EstimatedTime < 0 {
			return nil, ErrInvalidEstimate
		}
		todo.EstimatedTime = input.EstimatedTime
	}

	var toggled *models.ActivityType
	if input.Completed != nil && *input.Completed != todo.Completed {
		todo.Completed = *input.Completed
		activity := models.ActivityTaskReopened
		if todo.Completed {
			now := s.now().UTC()
			todo.CompletedAt = &now
			activity = models.ActivityTaskCompleted
		} else {
			todo.CompletedAt = nil
		}
		toggled = &activity
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if toggled != nil {
		verb := "Completed"
		if *toggled == models.ActivityTaskReopened {
			verb = "Reopened"
		}
		s.activities.Record(todo.UserID, *toggled, fmt.Sprintf("%s task: %s", verb, todo.Text), &todo.ID)
	}
	return todo, nil
}

// Delete removes a todo and its comments.
func (s *TodoService) Delete(todo *models.Todo) error {
	if err := s.todoRepo.DeleteForOwner(todo.ID, todo.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.activities.Record(todo.UserID, models.ActivityTaskDeleted, fmt.Sprintf("Deleted task: %s", todo.Text), &todo.ID)
	return nil
}

// Timer starts or stops the time tracker of a todo. Stopping adds the
// elapsed whole minutes to TimeSpent.
//
// The read-then-write is not locked: two concurrent starts can both succeed,
// the later write wins.
func (s *TodoService) Timer(todo *models.Todo, action TimerAction) (*models.Todo, error) {
	now := s.now().UTC()

	switch action {
	case TimerStart:
		if todo.TimerRunning() {
			return nil, ErrTimerAlreadyRunning
		}
		todo.StartedAt = &now
	case TimerStop:
		if !todo.TimerRunning() {
			return nil, ErrTimerNotRunning
		}
		elapsed := now.Sub(*todo.StartedAt)
		if elapsed > 0 {
			todo.TimeSpent += int(elapsed / time.Minute)
		}
		todo.StartedAt = nil
	default:
		return nil, ErrInvalidTimerAction
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update timer: %w", err)
	}

	if action == TimerStart {
		s.activities.Record(todo.UserID, models.ActivityTimerStarted, fmt.Sprintf("Started timer on: %s", todo.Text), &todo.ID)
	} else {
		s.activities.Record(todo.UserID, models.ActivityTimerStopped, fmt.Sprintf("Stopped timer on: %s", todo.Text), &todo.ID)
	}
	return todo, nil
}
