package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/streamline-api/internal/auth"
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/dto"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, auth.NewTokenManager("secret", time.Hour))

	return authTestEnv{
		db:          db,
		handler:     NewAuthHandler(authService),
		authService: authService,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	payload := map[string]string{
		"email":    "New@Example.com",
		"password": "supersecret",
		"name":     "New User",
	}
	w := postJSON(t, r, "/api/auth/register", payload)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "User created successfully", response.Message)
	require.Equal(t, "new@example.com", response.User.Email)
	require.Equal(t, "New User", response.User.Name)
	require.NotEmpty(t, response.Token)
	require.NotContains(t, w.Body.String(), "supersecret")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{"email": "a@b.io"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/auth/register", map[string]string{"email": "a@b.io", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/auth/register", map[string]string{"email": "a@b.io", "password": "supersecret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/register", map[string]string{"email": "A@b.io", "password": "supersecret"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing@example.com", response.User.Email)
	require.NotEmpty(t, response.Token)

	user, err := env.authService.Authenticate(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, user.ID)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	wrongPassword := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)

	unknownEmail := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	// Both failures look identical to the caller
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	result, err := env.authService.Register(services.RegisterInput{
		Email:    "me@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/auth/me", middleware.RequireAuth(env.authService), env.handler.GetCurrentUser)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, result.User.ID, response.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/logout", env.handler.Logout)

	w := postJSON(t, r, "/api/auth/logout", map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)
}
