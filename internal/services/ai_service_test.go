package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/streamline-api/internal/ai"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func newTestAIService(env serviceTestEnv, cfg AIConfig) *AIService {
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	return NewAIService(repository.NewTodoRepository(env.db), env.activities, cfg, zap.NewNop())
}

func geminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func setProvider(t *testing.T, env serviceTestEnv, user *models.User, mutate func(*models.AISettings)) {
	t.Helper()

	settings := user.Settings.Data()
	mutate(&settings.AI)
	user.Settings = datatypes.NewJSONType(settings)
	require.NoError(t, env.db.Save(user).Error)
}

func TestAIService_FallbackWithoutKey(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")
	svc := newTestAIService(env, AIConfig{})

	result, err := svc.Run(context.Background(), user, FeatureSuggestions, AIRequest{})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	require.NotEmpty(t, result.Suggestions)
	assert.Equal(t, "Add your first task", result.Suggestions[0].Title)

	high := models.PriorityHigh
	low := models.PriorityLow
	_, err = env.todos.Create(user, CreateTodoInput{Text: "Low thing", Priority: &low})
	require.NoError(t, err)
	urgent, err := env.todos.Create(user, CreateTodoInput{Text: "Urgent thing", Priority: &high})
	require.NoError(t, err)

	result, err = svc.Run(context.Background(), user, FeaturePlanDay, AIRequest{})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, "Urgent thing", result.Suggestions[0].Title)
	require.NotNil(t, result.Suggestions[0].TaskID)
	assert.Equal(t, urgent.ID, *result.Suggestions[0].TaskID)
}

func TestAIService_NonDefaultProviderWithoutKey(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")
	svc := newTestAIService(env, AIConfig{})

	setProvider(t, env, user, func(s *models.AISettings) { s.Provider = models.ProviderOpenAI })
	_, err := svc.Run(context.Background(), user, FeatureAnalyze, AIRequest{})
	assert.ErrorIs(t, err, ErrAIKeyMissing)

	setProvider(t, env, user, func(s *models.AISettings) {
		s.Provider = models.ProviderCustom
		s.CustomKey = "key"
	})
	_, err = svc.Run(context.Background(), user, FeatureAnalyze, AIRequest{})
	assert.ErrorIs(t, err, ErrAIEndpointMissing)
}

func TestAIService_UsesProcessDefaultKey(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")

	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"summary\":\"ok\"}"}]}`))
	}))
	t.Cleanup(server.Close)

	svc := newTestAIService(env, AIConfig{
		AnthropicKey: "env-key",
		BaseURLs:     map[string]string{ai.Claude: server.URL},
	})
	setProvider(t, env, user, func(s *models.AISettings) { s.Provider = models.ProviderClaude })

	result, err := svc.Run(context.Background(), user, FeatureAnalyze, AIRequest{})
	require.NoError(t, err)
	assert.Equal(t, "env-key", gotKey)
	assert.False(t, result.Fallback)
	assert.Equal(t, map[string]interface{}{"summary": "ok"}, result.Result)
}

func TestAIService_ParsesFencedJSON(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")

	server := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"`+"```json\\n{\\\"suggestions\\\":[{\\\"title\\\":\\\"Rest\\\"}]}\\n```"+`"}]}}]}`)
	svc := newTestAIService(env, AIConfig{
		GeminiKey: "env-key",
		BaseURLs:  map[string]string{ai.Gemini: server.URL},
	})

	result, err := svc.Run(context.Background(), user, FeatureSuggestions, AIRequest{})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Empty(t, result.ParseError)
	assert.Equal(t, "gemini", result.Provider)

	parsed, ok := result.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, parsed["suggestions"], 1)
}

func TestAIService_UnparseableReplyReturnsRawText(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")

	server := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Take a break."}]}}]}`)
	svc := newTestAIService(env, AIConfig{
		GeminiKey: "env-key",
		BaseURLs:  map[string]string{ai.Gemini: server.URL},
	})

	result, err := svc.Run(context.Background(), user, FeatureSmartSuggestions, AIRequest{Context: "tired"})
	require.NoError(t, err)
	assert.Equal(t, "Take a break.", result.RawResponse)
	assert.NotEmpty(t, result.ParseError)
	assert.Nil(t, result.Result)
}

func TestAIService_StatusErrorIsClassified(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")

	server := geminiServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`)
	svc := newTestAIService(env, AIConfig{
		GeminiKey: "env-key",
		BaseURLs:  map[string]string{ai.Gemini: server.URL},
	})

	_, err := svc.Run(context.Background(), user, FeatureOptimizeWorkflow, AIRequest{})
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, upstream.Message, "Rate limit exceeded")
}

func TestAIService_TransportErrorFallsBack(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc := newTestAIService(env, AIConfig{
		GeminiKey: "env-key",
		BaseURLs:  map[string]string{ai.Gemini: url},
	})

	result, err := svc.Run(context.Background(), user, FeatureSuggestions, AIRequest{})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.Suggestions)
}

func TestAIService_PromptEmbedsTaskContext(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")
	svc := newTestAIService(env, AIConfig{})

	todo, err := env.todos.Create(user, CreateTodoInput{Text: "Renew passport"})
	require.NoError(t, err)

	prompt := svc.buildPrompt(user.ID, FeaturePlanDay, AIRequest{AvailableHours: 3, Focus: "errands"}, []models.Todo{*todo})
	assert.Contains(t, prompt, "Total tasks: 1")
	assert.Contains(t, prompt, "Renew passport")
	assert.Contains(t, prompt, "3.0 available hours")
	assert.Contains(t, prompt, "Focus on: errands.")
	assert.Contains(t, prompt, "Created task: Renew passport")
}

func TestAIService_UnknownFeature(t *testing.T) {
	env := setupServiceTestEnv(t)
	user := env.register(t, "alice@example.com")
	svc := newTestAIService(env, AIConfig{})

	_, err := svc.Run(context.Background(), user, AIFeature("horoscope"), AIRequest{})
	assert.ErrorIs(t, err, ErrUnknownAIFeature)
}
