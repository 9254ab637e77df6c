package reconcile

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
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

func TestSumCreditedRewards(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(reward\), 0\) FROM "chores" WHERE child_id = \$1 AND status IN \(\$2,\$3\)`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("7.50"))

	total, err := repo.SumCreditedRewards(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("7.5")), "got %s", total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
