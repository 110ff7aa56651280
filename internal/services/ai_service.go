package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/streamline-api/internal/ai"
	"github.com/yukikurage/streamline-api/internal/constants"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrAIKeyMissing      = errors.New("AI provider API key not configured")
	ErrAIEndpointMissing = errors.New("custom AI provider endpoint not configured")
	ErrUnknownAIFeature  = errors.New("unknown AI feature")
)

// AIFeature names one of the /api/ai endpoints.
type AIFeature string

const (
	FeatureSuggestions      AIFeature = "suggestions"
	FeatureAnalyze          AIFeature = "analyze"
	FeaturePlanDay          AIFeature = "plan-day"
	FeatureOptimizeWorkflow AIFeature = "optimize-workflow"
	FeatureSmartSuggestions AIFeature = "smart-suggestions"
)

const maxFallbackSuggestions = 5

// UpstreamError carries a classified provider failure.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
}

// AIRequest holds the optional caller input of an AI feature.
type AIRequest struct {
	Context        string
	AvailableHours float64
	Focus          string
}

// Suggestion is one item of a locally computed fallback.
type Suggestion struct {
	Title    string  `json:"title"`
	Reason   string  `json:"reason"`
	Priority string  `json:"priority"`
	TaskID   *string `json:"task_id,omitempty"`
}

// AIResult is the 200 response body of every AI feature.
type AIResult struct {
	Feature     AIFeature    `json:"feature"`
	Provider    string       `json:"provider,omitempty"`
	Fallback    bool         `json:"fallback"`
	Message     string       `json:"message,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Result      interface{}  `json:"result,omitempty"`
	RawResponse string       `json:"raw_response,omitempty"`
	ParseError  string       `json:"parse_error,omitempty"`
}

// AIConfig holds process-wide AI settings.
type AIConfig struct {
	GeminiKey    string
	OpenAIKey    string
	AnthropicKey string
	Timeout      time.Duration
	// BaseURLs overrides provider API hosts, keyed by provider name.
	BaseURLs map[string]string
}

// AIService builds prompts from a user's tasks, calls the configured
// provider and degrades to local heuristics when no provider is usable.
type AIService struct {
	todoRepo    repository.TodoRepository
	activities  *ActivityService
	client      *ai.Client
	defaultKeys map[models.AIProviderName]string
	baseURLs    map[string]string
	log         *zap.Logger
	now         func() time.Time
}

// NewAIService creates a new AIService
func NewAIService(todoRepo repository.TodoRepository, activities *ActivityService, cfg AIConfig, log *zap.Logger) *AIService {
	return &AIService{
		todoRepo:   todoRepo,
		activities: activities,
		client:     ai.NewClient(cfg.Timeout),
		defaultKeys: map[models.AIProviderName]string{
			models.ProviderGemini: cfg.GeminiKey,
			models.ProviderOpenAI: cfg.OpenAIKey,
			models.ProviderClaude: cfg.AnthropicKey,
		},
		baseURLs: cfg.BaseURLs,
		log:      log,
		now:      time.Now,
	}
}

// Run executes feature for user.
//
// Only two outcomes are errors: ErrAIKeyMissing/ErrAIEndpointMissing for a
// non-default provider without credentials, and *UpstreamError for a non-2xx
// provider reply. Everything else yields a result, possibly a fallback.
func (s *AIService) Run(ctx context.Context, user *models.User, feature AIFeature, input AIRequest) (*AIResult, error) {
	if !feature.valid() {
		return nil, ErrUnknownAIFeature
	}

	todos, err := s.todoRepo.ListForOwner(user.ID, utils.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}

	settings := user.Settings.Data().AI
	providerName := settings.ProviderOrDefault()

	key := settings.KeyFor(providerName)
	if key == "" {
		key = s.defaultKeys[providerName]
	}
	if key == "" {
		if providerName == models.DefaultAIProvider {
			return s.fallback(feature, todos, "No AI provider key configured. Showing suggestions based on your tasks."), nil
		}
		return nil, ErrAIKeyMissing
	}

	provider, err := ai.New(string(providerName), ai.Config{
		APIKey:   key,
		Model:    settings.CustomModel,
		Endpoint: settings.CustomEndpoint,
		BaseURL:  s.baseURLs[string(providerName)],
	})
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrMissingEndpoint):
			return nil, ErrAIEndpointMissing
		case errors.Is(err, ai.ErrUnknownProvider):
			return nil, ErrInvalidProvider
		default:
			return nil, err
		}
	}

	prompt := s.buildPrompt(user.ID, feature, input, todos)
	text, err := s.client.Complete(ctx, provider, prompt)
	if err != nil {
		var statusErr *ai.StatusError
		switch {
		case errors.As(err, &statusErr):
			s.log.Warn("AI provider returned error status",
				zap.String("provider", provider.Name()),
				zap.String("feature", string(feature)),
				zap.Int("status", statusErr.StatusCode),
			)
			return nil, &UpstreamError{
				Provider:   provider.Name(),
				StatusCode: statusErr.StatusCode,
				Message:    statusErr.Message(),
			}
		case errors.Is(err, ai.ErrMalformedResponse):
			return &AIResult{
				Feature:    feature,
				Provider:   provider.Name(),
				ParseError: "AI response did not contain any text",
			}, nil
		default:
			s.log.Error("AI provider call failed",
				zap.String("provider", provider.Name()),
				zap.String("feature", string(feature)),
				zap.Error(err),
			)
			return s.fallback(feature, todos, "AI provider unavailable. Showing suggestions based on your tasks."), nil
		}
	}

	parsed, err := ai.ParseJSON(text)
	if err != nil {
		return &AIResult{
			Feature:     feature,
			Provider:    provider.Name(),
			RawResponse: text,
			ParseError:  "AI response was not valid JSON; returning raw text",
		}, nil
	}

	return &AIResult{
		Feature:  feature,
		Provider: provider.Name(),
		Result:   parsed,
	}, nil
}

func (f AIFeature) valid() bool {
	switch f {
	case FeatureSuggestions, FeatureAnalyze, FeaturePlanDay, FeatureOptimizeWorkflow, FeatureSmartSuggestions:
		return true
	}
	return false
}

func (s *AIService) buildPrompt(userID string, feature AIFeature, input AIRequest, todos []models.Todo) string {
	now := s.now()
	stats := ComputeTodoStats(todos, now)

	var b strings.Builder
	b.WriteString("You are a productivity assistant for a personal task tracker.\n")
	fmt.Fprintf(&b, "Current time: %s\n\n", now.UTC().Format(time.RFC3339))

	b.WriteString("Task statistics:\n")
	fmt.Fprintf(&b, "- Total tasks: %d\n", stats.TotalTodos)
	fmt.Fprintf(&b, "- Completed: %d\n", stats.CompletedTodos)
	fmt.Fprintf(&b, "- Active: %d\n", stats.ActiveTodos)
	fmt.Fprintf(&b, "- Completion rate: %.1f%%\n", stats.CompletionRate)
	fmt.Fprintf(&b, "- Total time tracked: %d minutes\n", stats.TotalTimeSpent)
	if len(stats.CategoryBreakdown) > 0 {
		categories := make([]string, 0, len(stats.CategoryBreakdown))
		for name, entry := range stats.CategoryBreakdown {
			categories = append(categories, fmt.Sprintf("%s (%d/%d done)", name, entry.Completed, entry.Total))
		}
		sort.Strings(categories)
		fmt.Fprintf(&b, "- Categories: %s\n", strings.Join(categories, ", "))
	}

	recent := todos
	if len(recent) > constants.AIContextTodoLimit {
		recent = recent[:constants.AIContextTodoLimit]
	}
	if len(recent) > 0 {
		b.WriteString("\nRecent tasks (newest first):\n")
		for _, todo := range recent {
			status := "pending"
			if todo.Completed {
				status = "done"
			} else if todo.TimerRunning() {
				status = "in progress"
			}
			fmt.Fprintf(&b, "- [%s] %s (priority: %s, category: %s, time spent: %d min)\n",
				status, todo.Text, todo.Priority, todo.Category, todo.TimeSpent)
		}
	}

	since := now.AddDate(0, 0, -constants.AIContextActivityDays)
	if activities, err := s.activities.List(userID, utils.ListParams{Limit: constants.AIContextTodoLimit}); err == nil {
		var lines []string
		for _, activity := range activities {
			if activity.CreatedAt.Before(since) {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", activity.CreatedAt.UTC().Format("2006-01-02"), activity.Description))
		}
		if len(lines) > 0 {
			fmt.Fprintf(&b, "\nActivity in the last %d days:\n%s\n", constants.AIContextActivityDays, strings.Join(lines, "\n"))
		}
	} else {
		s.log.Debug("skipping activity context", zap.Error(err))
	}

	if input.Context != "" {
		fmt.Fprintf(&b, "\nAdditional context from the user: %s\n", input.Context)
	}

	b.WriteString("\n")
	b.WriteString(featureInstructions(feature, input))
	b.WriteString("\nRespond with JSON only, without explanations or markdown.")

	return b.String()
}

func featureInstructions(feature AIFeature, input AIRequest) string {
	switch feature {
	case FeatureAnalyze:
		return `Analyze the user's productivity patterns. Return:
{"summary": "...", "strengths": ["..."], "improvements": ["..."], "productivity_score": 0-100}`
	case FeaturePlanDay:
		hours := input.AvailableHours
		if hours <= 0 {
			hours = 8
		}
		focus := ""
		if input.Focus != "" {
			focus = fmt.Sprintf(" Focus on: %s.", input.Focus)
		}
		return fmt.Sprintf(`Plan the user's day using %.1f available hours.%s Return:
{"schedule": [{"time": "09:00", "task": "...", "duration_minutes": 60, "reason": "..."}], "tips": ["..."]}`, hours, focus)
	case FeatureOptimizeWorkflow:
		return `Suggest how the user can optimize their workflow. Return:
{"optimizations": [{"title": "...", "description": "...", "impact": "high|medium|low"}], "quick_wins": ["..."]}`
	case FeatureSmartSuggestions:
		return `Suggest new tasks the user is likely to need next, based on their history. Return:
{"suggestions": [{"text": "...", "priority": "low|medium|high", "category": "...", "estimated_time": 30, "reason": "..."}]}`
	default:
		return `Suggest what the user should work on next. Return:
{"suggestions": [{"title": "...", "reason": "...", "priority": "low|medium|high"}]}`
	}
}

// fallback derives suggestions from the user's own incomplete tasks,
// highest priority and oldest first. The list is never empty.
func (s *AIService) fallback(feature AIFeature, todos []models.Todo, message string) *AIResult {
	pending := make([]models.Todo, 0, len(todos))
	for _, todo := range todos {
		if !todo.Completed {
			pending = append(pending, todo)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		ri, rj := priorityRank(pending[i].Priority), priorityRank(pending[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	suggestions := make([]Suggestion, 0, maxFallbackSuggestions)
	for _, todo := range pending {
		if len(suggestions) == maxFallbackSuggestions {
			break
		}
		id := todo.ID
		suggestions = append(suggestions, Suggestion{
			Title:    todo.Text,
			Reason:   fallbackReason(feature, todo),
			Priority: string(todo.Priority),
			TaskID:   &id,
		})
	}

	if len(suggestions) == 0 {
		if len(todos) == 0 {
			suggestions = append(suggestions, Suggestion{
				Title:    "Add your first task",
				Reason:   "Capture what you need to do so it can be prioritized.",
				Priority: string(models.PriorityMedium),
			})
		} else {
			suggestions = append(suggestions, Suggestion{
				Title:    "Plan your next goals",
				Reason:   "All of your tasks are complete. Add new ones to keep momentum.",
				Priority: string(models.PriorityLow),
			})
		}
	}

	return &AIResult{
		Feature:     feature,
		Fallback:    true,
		Message:     message,
		Suggestions: suggestions,
	}
}

func fallbackReason(feature AIFeature, todo models.Todo) string {
	switch {
	case todo.TimerRunning():
		return "You already started this task. Finish it before switching."
	case feature == FeaturePlanDay && todo.EstimatedTime != nil:
		return fmt.Sprintf("Estimated at %d minutes; schedule it in a focused block.", *todo.EstimatedTime)
	case todo.Priority == models.PriorityHigh:
		return "High priority and still open."
	case feature == FeatureOptimizeWorkflow && todo.TimeSpent > 0:
		return fmt.Sprintf("Already %d minutes in; close it out to reduce work in progress.", todo.TimeSpent)
	default:
		return fmt.Sprintf("Pending %s task.", todo.Category)
	}
}

func priorityRank(p models.TodoPriority) int {
	switch p {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 1
	default:
		return 0
	}
}
