package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/streamline-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestActivityRepository_ListForOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewActivityRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "activities" WHERE user_id = $1 ORDER BY created_at DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "description", "task_id", "created_at"}).
			AddRow("a-2", "user-1", "timer_stopped", "Stopped timer", nil, now).
			AddRow("a-1", "user-1", "task_created", "Created task", "todo-1", now.Add(-time.Minute)))

	activities, err := repo.ListForOwner("user-1", utils.ListParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, activities, 2)
	require.Equal(t, "a-2", activities[0].ID)
	require.Nil(t, activities[0].TaskID)
	require.Equal(t, "todo-1", *activities[1].TaskID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_CountSince(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewActivityRepository(db)

	since := time.Now().Add(-7 * 24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "activities" WHERE created_at >= $1 AND user_id = $2`)).
		WithArgs(since, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountSince("user-1", since)
	require.NoError(t, err)
	require.EqualValues(t, 4, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_FindForOwner_ScopesByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "todos" WHERE id = $1 AND user_id = $2 ORDER BY "todos"."id" LIMIT $3`)).
		WithArgs("todo-1", "someone-else", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text"}))

	_, err := repo.FindForOwner("todo-1", "someone-else")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_ListClients(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTicketRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT "client_name" FROM "tickets" WHERE client_name <> '' AND user_id = $1 ORDER BY client_name ASC`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"client_name"}).AddRow("Acme").AddRow("Globex"))

	clients, err := repo.ListClients("user-1")
	require.NoError(t, err)
	require.Equal(t, []string{"Acme", "Globex"}, clients)
	require.NoError(t, mock.ExpectationsWereMet())
}
