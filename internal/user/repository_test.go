package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/bookdiary-api/internal/testutil"
)

var userColumns = []string{"id", "username", "password_hash", "is_private", "created_at", "updated_at"}

func TestRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "alice", "hash", false, now, now))

	u, err := repo.Create(context.Background(), "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.IsPrivate)
}

func TestRepository_Create_Duplicate(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		dbErr   error
		wantErr error
	}{
		{
			name: "found",
			rows: sqlmock.NewRows(userColumns).AddRow(7, "bob", "hash", true, now, now),
		},
		{
			name:    "missing row",
			rows:    sqlmock.NewRows(userColumns),
			wantErr: ErrNotFound,
		},
		{
			name:  "driver failure",
			dbErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := testutil.NewMockDB(t)
			repo := NewRepository(db)

			exp := mock.ExpectQuery(`SELECT (.+) FROM "users" AS "u" WHERE \(u\.id = 7\)`)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			u, err := repo.GetByID(context.Background(), 7)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.dbErr != nil:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, "bob", u.Username)
				assert.True(t, u.IsPrivate)
			}
		})
	}
}

func TestRepository_GetByUsername_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "users" AS "u" WHERE \(u\.username = 'ghost'\)`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Search(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "users" AS "u" WHERE \(u\.username ILIKE '%ali%'\) AND \(u\.id <> 1\)(.+)LIMIT 20`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "alice", "h", false, now, now).
			AddRow(3, "malik", "h", true, now, now))

	users, err := repo.Search(context.Background(), "ali", 1, 20)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "malik", users[1].Username)
	assert.True(t, users[1].IsPrivate)
}

func TestRepository_UpdatePrivacy(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePrivacy(context.Background(), 3, true))

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdatePrivacy(context.Background(), 4, true), ErrNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_sale`, escapeLike("50% off_sale"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
