package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/streamline-api/internal/auth"
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/dto"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type HandlerSuite struct {
	suite.Suite

	db       *gorm.DB
	router   *gin.Engine
	upstream *httptest.Server
	// upstreamStatus is the status the fake AI provider answers with
	upstreamStatus int
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(database.Models()...))
	s.db = db

	s.upstreamStatus = http.StatusOK
	s.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(s.upstreamStatus)
		_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
	}))

	log := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	activities := services.NewActivityService(repository.NewActivityRepository(db), log)
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)

	s.router = NewRouter(Services{
		Auth:      services.NewAuthService(userRepo, tokens),
		User:      services.NewUserService(userRepo, activities),
		Todo:      services.NewTodoService(todoRepo, activities),
		Comment:   services.NewCommentService(repository.NewCommentRepository(db)),
		Ticket:    services.NewTicketService(ticketRepo, activities),
		Activity:  activities,
		Analytics: services.NewAnalyticsService(todoRepo, activities),
		AI: services.NewAIService(todoRepo, activities, services.AIConfig{
			Timeout: 2 * time.Second,
			BaseURLs: map[string]string{
				string(models.ProviderOpenAI): s.upstream.URL,
			},
		}, log),
		Export: services.NewExportService(todoRepo, ticketRepo),
	}, RouterOptions{Log: log})
}

func (s *HandlerSuite) TearDownTest() {
	s.upstream.Close()
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *HandlerSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *HandlerSuite) registerUser(email string) string {
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	s.decode(w, &resp)
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *HandlerSuite) createTodo(token string, body map[string]interface{}) dto.TodoDTO {
	w := s.do(http.MethodPost, "/api/todos", token, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var todo dto.TodoDTO
	s.decode(w, &todo)
	return todo
}

func (s *HandlerSuite) TestTodoLifecycleFeedsAnalytics() {
	s.registerUser("a@x.io")

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@x.io",
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var login dto.AuthResponse
	s.decode(w, &login)
	s.Equal("Login successful", login.Message)
	token := login.Token

	todo := s.createTodo(token, map[string]interface{}{
		"text":     "Buy milk",
		"priority": "high",
		"category": "shopping",
	})
	s.False(todo.Completed)
	s.Equal(0, todo.TimeSpent)
	s.Equal(models.PriorityHigh, todo.Priority)

	w = s.do(http.MethodPut, "/api/todos/"+todo.ID, token, map[string]interface{}{"completed": true})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.TodoDTO
	s.decode(w, &updated)
	s.True(updated.Completed)
	s.NotNil(updated.CompletedAt)

	w = s.do(http.MethodGet, "/api/analytics/stats", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats services.TodoStats
	s.decode(w, &stats)
	s.Equal(1, stats.TotalTodos)
	s.Equal(1, stats.CompletedTodos)
	s.Equal(100.0, stats.CompletionRate)
	s.Len(stats.DailyTrend, 7)
	s.Equal(1, stats.DailyTrend[6].Completed)
	s.Equal(services.BreakdownEntry{Total: 1, Completed: 1}, stats.CategoryBreakdown["shopping"])

	w = s.do(http.MethodGet, "/api/activities", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var activities []dto.ActivityDTO
	s.decode(w, &activities)
	s.NotEmpty(activities)
}

func (s *HandlerSuite) TestTodoOfAnotherUserIsNotFound() {
	owner := s.registerUser("owner@x.io")
	other := s.registerUser("other@x.io")
	todo := s.createTodo(owner, map[string]interface{}{"text": "private"})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := s.do(method, "/api/todos/"+todo.ID, other, map[string]interface{}{"text": "hijack"})
		s.Equal(http.StatusNotFound, w.Code, method)
	}

	w := s.do(http.MethodGet, "/api/todos", other, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var todos []dto.TodoDTO
	s.decode(w, &todos)
	s.Empty(todos)
}

func (s *HandlerSuite) TestMissingOrBadTokenIsUnauthorized() {
	w := s.do(http.MethodGet, "/api/todos", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/todos", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestTimerStateErrors() {
	token := s.registerUser("timer@x.io")
	todo := s.createTodo(token, map[string]interface{}{"text": "focus"})
	path := "/api/todos/" + todo.ID + "/time"

	w := s.do(http.MethodPost, path, token, map[string]string{"action": "stop"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, path, token, map[string]string{"action": "start"})
	s.Require().Equal(http.StatusOK, w.Code)
	var running dto.TodoDTO
	s.decode(w, &running)
	s.True(running.TimerRunning)

	w = s.do(http.MethodPost, path, token, map[string]string{"action": "start"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, path, token, map[string]string{"action": "pause"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, path, token, map[string]string{"action": "stop"})
	s.Require().Equal(http.StatusOK, w.Code)
	var stopped dto.TodoDTO
	s.decode(w, &stopped)
	s.False(stopped.TimerRunning)
	s.Equal(0, stopped.TimeSpent)
}

func (s *HandlerSuite) TestDeleteTodoRemovesComments() {
	token := s.registerUser("c@x.io")
	todo := s.createTodo(token, map[string]interface{}{"text": "with comments"})

	for _, text := range []string{"first", "second"} {
		w := s.do(http.MethodPost, "/api/todos/"+todo.ID+"/comments", token, map[string]string{"text": text})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, "/api/todos/"+todo.ID+"/comments", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var comments []dto.CommentDTO
	s.decode(w, &comments)
	s.Len(comments, 2)
	s.Equal("c@x.io", comments[0].UserEmail)

	w = s.do(http.MethodDelete, "/api/todos/"+todo.ID, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var count int64
	s.Require().NoError(s.db.Model(&models.Comment{}).Where("todo_id = ?", todo.ID).Count(&count).Error)
	s.Zero(count)

	w = s.do(http.MethodGet, "/api/todos/"+todo.ID, token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestDeleteUnknownCommentIsNotFound() {
	token := s.registerUser("nc@x.io")
	todo := s.createTodo(token, map[string]interface{}{"text": "t"})

	w := s.do(http.MethodDelete, "/api/todos/"+todo.ID+"/comments/missing", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestTickets() {
	token := s.registerUser("t@x.io")

	create := func(body map[string]interface{}) *httptest.ResponseRecorder {
		return s.do(http.MethodPost, "/api/tickets", token, body)
	}

	w := create(map[string]interface{}{"ticket_id": "TK-1", "client_name": "Zeta", "subject": "Broken login"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var ticket dto.TicketDTO
	s.decode(w, &ticket)
	s.Equal(models.TicketStatusOpen, ticket.Status)

	w = create(map[string]interface{}{"ticket_id": "TK-1", "subject": "Duplicate"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = create(map[string]interface{}{"client_name": "Acme", "subject": "Generated id"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var generated dto.TicketDTO
	s.decode(w, &generated)
	s.NotEmpty(generated.TicketID)

	w = create(map[string]interface{}{"client_name": "Acme", "subject": "Same client"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/tickets/clients", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var clients []string
	s.decode(w, &clients)
	s.Equal([]string{"Acme", "Zeta"}, clients)

	w = s.do(http.MethodPut, "/api/tickets/"+ticket.ID, token, map[string]interface{}{"status": "resolved"})
	s.Require().Equal(http.StatusOK, w.Code)
	var updated dto.TicketDTO
	s.decode(w, &updated)
	s.Equal(models.TicketStatus("resolved"), updated.Status)
	s.Equal("Broken login", updated.Subject)

	w = s.do(http.MethodPost, "/api/tickets/"+ticket.ID+"/comments", token, map[string]string{"text": "looking"})
	s.Require().Equal(http.StatusCreated, w.Code)

	other := s.registerUser("t2@x.io")
	w = s.do(http.MethodGet, "/api/tickets/"+ticket.ID, other, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestSettingsNeverExposeKeys() {
	token := s.registerUser("s@x.io")

	w := s.do(http.MethodPut, "/api/user/settings", token, map[string]interface{}{
		"ai": map[string]string{"provider": "openai", "openai_key": "sk-secret-value"},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.NotContains(w.Body.String(), "sk-secret-value")

	var settings dto.SettingsDTO
	s.decode(w, &settings)
	s.True(settings.AI.HasOpenAIKey)
	s.Equal(models.ProviderOpenAI, settings.AI.Provider)

	w = s.do(http.MethodGet, "/api/user/settings", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "sk-secret-value")

	w = s.do(http.MethodPut, "/api/user/settings", token, map[string]interface{}{
		"ai": map[string]string{"provider": "mystery"},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestChangePassword() {
	token := s.registerUser("p@x.io")

	w := s.do(http.MethodPut, "/api/user/password", token, map[string]string{
		"current_password": "wrong-password",
		"new_password":     "another-password",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/user/password", token, map[string]string{
		"current_password": "password123",
		"new_password":     "another-password",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "p@x.io",
		"password": "another-password",
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestAIFallbackWithoutKey() {
	token := s.registerUser("ai@x.io")
	s.createTodo(token, map[string]interface{}{"text": "Ship release", "priority": "high"})

	w := s.do(http.MethodPost, "/api/ai/suggestions", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result services.AIResult
	s.decode(w, &result)
	s.True(result.Fallback)
	s.Require().NotEmpty(result.Suggestions)
	s.Equal("Ship release", result.Suggestions[0].Title)
}

func (s *HandlerSuite) TestAINonDefaultProviderWithoutKey() {
	token := s.registerUser("ai2@x.io")

	w := s.do(http.MethodPut, "/api/user/settings", token, map[string]interface{}{
		"ai": map[string]string{"provider": "claude"},
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/ai/analyze", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestAIUpstreamFailure() {
	token := s.registerUser("ai3@x.io")
	s.upstreamStatus = http.StatusUnauthorized

	w := s.do(http.MethodPut, "/api/user/settings", token, map[string]interface{}{
		"ai": map[string]string{"provider": "openai", "openai_key": "sk-bad"},
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/ai/plan-day", token, map[string]interface{}{"available_hours": 4})
	s.Require().Equal(http.StatusInternalServerError, w.Code, w.Body.String())

	var body map[string]interface{}
	s.decode(w, &body)
	s.Equal(true, body["fallback_available"])
	s.Contains(body["message"], "Invalid API key")
}

func (s *HandlerSuite) TestExport() {
	token := s.registerUser("e@x.io")
	s.createTodo(token, map[string]interface{}{"text": "exported"})

	w := s.do(http.MethodGet, "/api/export/pdf", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "todos.pdf")
	s.True(strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.do(http.MethodGet, "/api/export/tickets/excel?start_date=2024-01-01", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "tickets.xlsx")

	w = s.do(http.MethodGet, "/api/export/excel?start_date=yesterday", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestHealthAndRoot() {
	w := s.do(http.MethodGet, "/api/health", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"healthy"}`, w.Body.String())

	w = s.do(http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Streamline API is running")
}
