package follow

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/bookdiary-api/internal/testutil"
)

func TestRepository_Exists(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT (.+) FROM "follows" AS "f" WHERE \(f\.follower_id = 1\) AND \(f\.followed_id = 2\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`INSERT INTO "follows" (.+) ON CONFLICT \(follower_id, followed_id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	created, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	mock.ExpectExec(`INSERT INTO "follows"`).WillReturnResult(sqlmock.NewResult(0, 0))
	created, err = repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRepository_Delete(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM "follows"`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 1, 2))

	mock.ExpectExec(`DELETE FROM "follows"`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1, 2), ErrNotFollowing)
}

func TestRepository_Counts(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" AS "f" WHERE \(f\.followed_id = 5\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" AS "f" WHERE \(f\.follower_id = 5\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	followers, following, err := repo.Counts(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, followers)
	assert.Equal(t, 8, following)
}
