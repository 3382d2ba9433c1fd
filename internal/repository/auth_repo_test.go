// auth_repo_test.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"pokemon_portal/internal/models"
	"pokemon_portal/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T, dialect Dialect) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewUserRepository(conn, dialect)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = conn.Close()
	}
	return repo, mock, cleanup
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name           string
		dialect        Dialect
		username       string
		passwordHash   string
		mockExpect     func(sqlmock.Sqlmock, string)
		wantID         int
		wantErr        error
		errContainsStr string
	}{
		{
			name:         "success sqlite",
			dialect:      DialectSQLite,
			username:     "alice",
			passwordHash: "h123",
			mockExpect: func(m sqlmock.Sqlmock, q string) {
				m.ExpectQuery(regexp.QuoteMeta(q)).
					WithArgs("alice", "h123").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
			},
			wantID: 42,
		},
		{
			name:         "success postgres placeholders",
			dialect:      DialectPostgres,
			username:     "alice",
			passwordHash: "h123",
			mockExpect: func(m sqlmock.Sqlmock, q string) {
				m.ExpectQuery(regexp.QuoteMeta(q)).
					WithArgs("alice", "h123").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			},
			wantID: 7,
		},
		{
			name:         "unique violation",
			dialect:      DialectPostgres,
			username:     "alice",
			passwordHash: "h456",
			mockExpect: func(m sqlmock.Sqlmock, q string) {
				m.ExpectQuery(regexp.QuoteMeta(q)).
					WithArgs("alice", "h456").
					WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
			},
			wantErr: ErrDuplicateUsername,
		},
		{
			name:         "query error",
			dialect:      DialectSQLite,
			username:     "bob",
			passwordHash: "h456",
			mockExpect: func(m sqlmock.Sqlmock, q string) {
				m.ExpectQuery(regexp.QuoteMeta(q)).
					WithArgs("bob", "h456").
					WillReturnError(errors.New("db exec failed"))
			},
			errContainsStr: "insert user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t, tt.dialect)
			defer cleanup()

			tt.mockExpect(mock, tt.dialect.Rebind(insertUserSQL))

			u, err := repo.Create(context.Background(), tt.username, tt.passwordHash)

			if tt.wantErr != nil || tt.errContainsStr != "" {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.errContainsStr != "" && !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				if u.ID != 0 {
					t.Fatalf("expected id=0 on error, got %d", u.ID)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.ID != tt.wantID || u.Username != tt.username || u.PasswordHash != tt.passwordHash {
				t.Fatalf("unexpected user: %+v", u)
			}
		})
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		mockExpect     func(sqlmock.Sqlmock)
		wantUser       *models.User
		wantErr        bool
		errContainsStr string
	}{
		{
			name:     "found",
			username: "alice",
			mockExpect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "username", "password_hash"}).
					AddRow(7, "alice", "h123")
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			wantUser: &models.User{ID: 7, Username: "alice", PasswordHash: "h123"},
		},
		{
			name:     "not found (ErrNoRows)",
			username: "missing",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name:     "query error",
			username: "bob",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
					WithArgs("bob").
					WillReturnError(errors.New("db query failed"))
			},
			wantErr:        true,
			errContainsStr: "select user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t, DialectSQLite)
			defer cleanup()

			tt.mockExpect(mock)

			u, err := repo.FindByUsername(context.Background(), tt.username)
			assertUserResult(t, u, err, tt.wantUser, tt.wantErr, tt.errContainsStr)
		})
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		mockExpect func(sqlmock.Sqlmock)
		wantUser   *models.User
		wantErr    bool
	}{
		{
			name: "found",
			id:   3,
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(DialectPostgres.Rebind(selectUserByIDSQL))).
					WithArgs(3).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(3, "carol", "h"))
			},
			wantUser: &models.User{ID: 3, Username: "carol", PasswordHash: "h"},
		},
		{
			name: "absent",
			id:   9,
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(DialectPostgres.Rebind(selectUserByIDSQL))).
					WithArgs(9).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))
			},
		},
		{
			name: "store down",
			id:   1,
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(DialectPostgres.Rebind(selectUserByIDSQL))).
					WithArgs(1).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t, DialectPostgres)
			defer cleanup()

			tt.mockExpect(mock)

			u, err := repo.FindByID(context.Background(), tt.id)
			assertUserResult(t, u, err, tt.wantUser, tt.wantErr, "")
		})
	}
}

func assertUserResult(t *testing.T, u *models.User, err error, want *models.User, wantErr bool, errContains string) {
	t.Helper()
	if wantErr {
		if err == nil {
			t.Fatalf("expected error, got nil")
		}
		if errContains != "" && !strings.Contains(err.Error(), errContains) {
			t.Fatalf("expected error to contain %q, got %q", errContains, err.Error())
		}
		if u != nil {
			t.Fatalf("expected user=nil on error, got %+v", u)
		}
		return
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want == nil {
		if u != nil {
			t.Fatalf("expected nil user, got %+v", u)
		}
		return
	}
	if u == nil {
		t.Fatalf("expected user, got nil")
	}
	if *u != *want {
		t.Fatalf("unexpected user: want %+v, got %+v", want, u)
	}
}

func TestUserRepository_SQLite_ConcurrentDuplicateRegistration(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer func() { _ = conn.Close() }()

	repo := NewUserRepository(conn, DialectSQLite)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
		others    []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), "alice", "hash")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateUsername):
				dupes++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || dupes != attempts-1 || len(others) != 0 {
		t.Fatalf("want 1 success and %d duplicates, got %d/%d (other errors: %v)", attempts-1, successes, dupes, others)
	}

	u, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil || u == nil {
		t.Fatalf("FindByUsername: %+v, %v", u, err)
	}
	byID, err := repo.FindByID(context.Background(), u.ID)
	if err != nil || byID == nil || byID.Username != "alice" {
		t.Fatalf("FindByID: %+v, %v", byID, err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("23505 should be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("UNIQUE constraint failed")) {
		t.Fatalf("plain errors are not driver errors")
	}
}
