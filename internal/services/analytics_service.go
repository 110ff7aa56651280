package services

import (
	"fmt"
	"math"
	"time"

	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/utils"
)

const trendDays = 7

// BreakdownEntry counts todos of one category or priority.
type BreakdownEntry struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// DailyCount is the number of todos completed on one UTC day.
type DailyCount struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

// TodoStats is the aggregate returned by GET /api/analytics/stats.
type TodoStats struct {
	TotalTodos          int                       `json:"total_todos"`
	CompletedTodos      int                       `json:"completed_todos"`
	ActiveTodos         int                       `json:"active_todos"`
	CompletionRate      float64                   `json:"completion_rate"`
	TotalTimeSpent      int                       `json:"total_time_spent"`
	AverageTimeSpent    float64                   `json:"average_time_spent"`
	CategoryBreakdown   map[string]BreakdownEntry `json:"category_breakdown"`
	PriorityBreakdown   map[string]BreakdownEntry `json:"priority_breakdown"`
	DailyTrend          []DailyCount              `json:"daily_trend"`
	RecentActivityCount int64                     `json:"recent_activity_count"`
}

// ComputeTodoStats aggregates todos as of now. The result does not depend on
// the order of todos.
func ComputeTodoStats(todos []models.Todo, now time.Time) TodoStats {
	stats := TodoStats{
		TotalTodos:        len(todos),
		CategoryBreakdown: map[string]BreakdownEntry{},
		PriorityBreakdown: map[string]BreakdownEntry{},
	}

	today := now.UTC().Truncate(24 * time.Hour)
	firstDay := today.AddDate(0, 0, -(trendDays - 1))
	trend := make([]DailyCount, trendDays)
	for i := range trend {
		trend[i].Date = firstDay.AddDate(0, 0, i).Format("2006-01-02")
	}

	for _, todo := range todos {
		stats.TotalTimeSpent += todo.TimeSpent

		category := stats.CategoryBreakdown[todo.Category]
		priority := stats.PriorityBreakdown[string(todo.Priority)]
		category.Total++
		priority.Total++

		if todo.Completed {
			stats.CompletedTodos++
			category.Completed++
			priority.Completed++

			if todo.CompletedAt != nil {
				day := todo.CompletedAt.UTC().Truncate(24 * time.Hour)
				idx := int(day.Sub(firstDay) / (24 * time.Hour))
				if !day.Before(firstDay) && idx < trendDays {
					trend[idx].Completed++
				}
			}
		}

		stats.CategoryBreakdown[todo.Category] = category
		stats.PriorityBreakdown[string(todo.Priority)] = priority
	}

	stats.ActiveTodos = stats.TotalTodos - stats.CompletedTodos
	if stats.TotalTodos > 0 {
		stats.CompletionRate = roundOneDecimal(float64(stats.CompletedTodos) / float64(stats.TotalTodos) * 100)
		stats.AverageTimeSpent = roundOneDecimal(float64(stats.TotalTimeSpent) / float64(stats.TotalTodos))
	}
	stats.DailyTrend = trend

	return stats
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// AnalyticsService computes per-user statistics.
type AnalyticsService struct {
	todoRepo   repository.TodoRepository
	activities *ActivityService
	now        func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(todoRepo repository.TodoRepository, activities *ActivityService) *AnalyticsService {
	return &AnalyticsService{
		todoRepo:   todoRepo,
		activities: activities,
		now:        time.Now,
	}
}

// Stats loads every todo of userID and aggregates them.
func (s *AnalyticsService) Stats(userID string) (*TodoStats, error) {
	todos, err := s.todoRepo.ListForOwner(userID, utils.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}

	now := s.now()
	stats := ComputeTodoStats(todos, now)

	count, err := s.activities.CountSince(userID, now.AddDate(0, 0, -trendDays))
	if err != nil {
		return nil, err
	}
	stats.RecentActivityCount = count

	return &stats, nil
}
