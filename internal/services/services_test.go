package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/streamline-api/internal/auth"
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db         *gorm.DB
	tokens     *auth.TokenManager
	auth       *AuthService
	users      *UserService
	activities *ActivityService
	todos      *TodoService
	comments   *CommentService
	tickets    *TicketService
	analytics  *AnalyticsService
	exports    *ExportService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	log := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	activities := NewActivityService(repository.NewActivityRepository(db), log)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return serviceTestEnv{
		db:         db,
		tokens:     tokens,
		auth:       NewAuthService(userRepo, tokens),
		users:      NewUserService(userRepo, activities),
		activities: activities,
		todos:      NewTodoService(todoRepo, activities),
		comments:   NewCommentService(repository.NewCommentRepository(db)),
		tickets:    NewTicketService(ticketRepo, activities),
		analytics:  NewAnalyticsService(todoRepo, activities),
		exports:    NewExportService(todoRepo, ticketRepo),
	}
}

func (env serviceTestEnv) register(t *testing.T, email string) *models.User {
	t.Helper()

	result, err := env.auth.Register(RegisterInput{Email: email, Password: "password123"})
	require.NoError(t, err)
	return result.User
}

func (env serviceTestEnv) activityTypes(t *testing.T, userID string) []models.ActivityType {
	t.Helper()

	var activities []models.Activity
	require.NoError(t, env.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&activities).Error)

	types := make([]models.ActivityType, len(activities))
	for i, a := range activities {
		types[i] = a.Type
	}
	return types
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

// staleUserRepository never sees an existing email, as when two registrations race.
type staleUserRepository struct {
	repository.UserRepository
}

func (staleUserRepository) FindByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

// staleTicketRepository never sees an existing ticket number.
type staleTicketRepository struct {
	repository.TicketRepository
}

func (staleTicketRepository) ExistsNumber(string, string, string) (bool, error) {
	return false, nil
}
