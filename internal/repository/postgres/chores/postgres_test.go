package chores

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	choresdomain "family-chores-go/internal/domain/chores"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return db, mock
}

func TestFindAutoApplyGoalLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT \* FROM "goals" WHERE .*auto_apply.* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindAutoApplyGoal(context.Background(), "c1")
	assert.ErrorIs(t, err, choresdomain.ErrNoAutoApplyGoal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockChoreNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT \* FROM "chores" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.LockChore(context.Background(), "k1")
	assert.ErrorIs(t, err, choresdomain.ErrChoreNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("assigned", 3).
		AddRow("approved", 5)
	mock.ExpectQuery(`SELECT status, count\(\*\) as count FROM "chores" WHERE child_id IN .* GROUP BY "status"`).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background(), []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[choresdomain.StatusAssigned])
	assert.Equal(t, int64(5), counts[choresdomain.StatusApproved])
	assert.Equal(t, int64(0), counts[choresdomain.StatusPendingApproval])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListChoresByChildrenSkipsEmptyFamily(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	list, err := repo.ListChoresByChildren(context.Background(), nil, choresdomain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
