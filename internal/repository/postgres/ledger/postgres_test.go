package ledger

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

	ledgerdomain "family-chores-go/internal/domain/ledger"
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

func TestAppendEntriesWritesOneBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "ledger_entries"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	entries := []ledgerdomain.Entry{
		ledgerdomain.NewEntry("c1", ledgerdomain.KindEarned, ledgerdomain.AccountEarnings, decimal.NewFromInt(5), "mom"),
		ledgerdomain.NewEntry("c1", ledgerdomain.KindAllocatedSavings, ledgerdomain.AccountSavings, decimal.NewFromInt(5), "mom"),
	}
	require.NoError(t, repo.AppendEntries(context.Background(), entries))
	require.NoError(t, repo.AppendEntries(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
