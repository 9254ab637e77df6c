package family

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	familydomain "family-chores-go/internal/domain/family"
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

func TestFindParentByShareCodeNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	mock.ExpectQuery(`SELECT \* FROM "parents" WHERE share_code = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindParentByShareCode(context.Background(), "ABC234")
	assert.ErrorIs(t, err, familydomain.ErrShareCodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockParentsReadsArrays(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgres(db)

	rows := sqlmock.NewRows([]string{"id", "email", "share_code", "family_members", "children"}).
		AddRow("dad", "dad@example.com", "ABC234", "{dad,mom}", "{c1}").
		AddRow("mom", "mom@example.com", "ABC234", "{dad,mom}", "{}")
	mock.ExpectQuery(`SELECT \* FROM "parents" WHERE id IN \(\$1,\$2\) ORDER BY id asc FOR UPDATE`).
		WillReturnRows(rows)

	parents, err := repo.LockParents(context.Background(), []string{"mom", "dad"})
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Equal(t, []string{"dad", "mom"}, []string(parents[0].FamilyMembers))
	assert.Equal(t, []string{"c1"}, []string(parents[0].Children))
	assert.Empty(t, parents[1].Children)
	assert.NoError(t, mock.ExpectationsWereMet())
}
