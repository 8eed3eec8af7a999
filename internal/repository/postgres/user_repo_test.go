package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash, salt, created_at\)`).
					WithArgs("alice", "alice@example.com", "hash", "salt", created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
			},
			wantID: 42,
		},
		{
			name: "unique violation returns ErrDuplicate",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicate,
		},
		{
			name: "not null violation returns ErrRejected",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23502"})
			},
			wantErr: true,
			errIs:   domain.ErrRejected,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			u := domain.NewUser("alice", "alice@example.com", "hash", "salt", created)
			err = repo.Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, u.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, username, email, password_hash, salt, created_at\s+FROM users\s+WHERE email = \$1`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "salt", "created_at"}).
				AddRow(int64(1), "alice", "alice@example.com", "hash", "salt", created))

		got, err := NewUserRepository(db).GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, &domain.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Salt: "salt", CreatedAt: created}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users`).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

		got, err := NewUserRepository(db).GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
	})
}

func TestUserRepository_ResolveUserID(t *testing.T) {
	tests := []struct {
		name string
		id   int64
	}{
		{name: "match", id: 9},
		{name: "no match resolves to zero", id: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT COALESCE\(\(SELECT id FROM users WHERE email = \$1 AND password_hash = \$2\), 0\)`).
				WithArgs("a@b.com", "hash").
				WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(tt.id))

			got, err := NewUserRepository(db).ResolveUserID(context.Background(), "a@b.com", "hash")
			require.NoError(t, err)
			require.Equal(t, tt.id, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
