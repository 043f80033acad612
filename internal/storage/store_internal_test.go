package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/mcmmocredits/internal/user"
)

var errConnReset = errors.New("connection reset")

func newMockStore(t *testing.T, d dialect) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := newStore(db, d, 1)
	t.Cleanup(func() {
		mock.ExpectClose()
		s.Disable()
		require.NoError(t, mock.ExpectationsWereMet())
	})

	return s, mock
}

func timeout(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	return ctx
}

func TestRebind(t *testing.T) {
	t.Parallel()

	q := "UPDATE t SET a = ?, b = ? WHERE c = ?"

	require.Equal(t, q, sqliteDialect.rebind(q))
	require.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE c = $3", postgresDialect.rebind(q))
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    dialect
		wantErr error
	}{
		{in: "", want: sqliteDialect},
		{in: "SQLite", want: sqliteDialect},
		{in: "postgres", want: postgresDialect},
		{in: "postgresql", want: postgresDialect},
		{in: "h2", wantErr: ErrUnknownType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := dialectFor(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDialectSchema(t *testing.T) {
	t.Parallel()

	for _, d := range []dialect{sqliteDialect, postgresDialect} {
		stmts, err := d.schema()
		require.NoError(t, err)
		require.Len(t, stmts, 2, d.name)
		require.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS credits_users")
		require.Contains(t, stmts[1], "CREATE UNIQUE INDEX IF NOT EXISTS credits_users_uuid")
	}
}

func TestAddUser_PostgresUniqueViolation(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t, postgresDialect)
	u := user.New(uuid.New(), "dup")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credits_users")).
		WithArgs(u.ID.String(), u.Username, 0, 0).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	ok, err := s.AddUser(context.Background(), u).Await(timeout(t))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAddUser_IOFailure(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t, sqliteDialect)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credits_users")).
		WillReturnError(errConnReset)

	_, err := s.AddUser(context.Background(), user.New(uuid.New(), "x")).Await(timeout(t))
	require.ErrorIs(t, err, errConnReset)
}

func TestGetUser_QueryFailure(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t, postgresDialect)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE uuid = $1")).
		WithArgs(id.String()).
		WillReturnError(errConnReset)

	got, err := s.GetUser(context.Background(), id).Await(timeout(t))
	require.ErrorIs(t, err, errConnReset)
	require.Nil(t, got)
}

func TestGetUser_CorruptUUID(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t, sqliteDialect)

	mock.ExpectQuery(regexp.QuoteMeta("FROM credits_users")).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "username", "credits", "redeemed"}).
			AddRow("not-a-uuid", "x", 1, 0))

	_, err := s.GetUser(context.Background(), uuid.New()).Await(timeout(t))
	require.Error(t, err)
}

func TestApplyTransaction_Failures(t *testing.T) {
	t.Parallel()

	u := user.New(uuid.New(), "a").WithCredits(10)
	update := regexp.QuoteMeta("UPDATE credits_users SET credits = ?, redeemed = ? WHERE uuid = ?")

	tests := []struct {
		name    string
		seed    func(mock sqlmock.Sqlmock)
		want    bool
		wantErr error
	}{
		{
			name: "committed",
			seed: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare(update).
					ExpectExec().
					WithArgs(10, 0, u.ID.String()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			want: true,
		},
		{
			name: "row_missing_rolls_back",
			seed: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare(update).
					ExpectExec().
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
		},
		{
			name: "exec_error_rolls_back",
			seed: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectPrepare(update).
					ExpectExec().
					WillReturnError(errConnReset)
				mock.ExpectRollback()
			},
			wantErr: errConnReset,
		},
		{
			name: "begin_fails",
			seed: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errConnReset)
			},
			wantErr: errConnReset,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, mock := newMockStore(t, sqliteDialect)
			tt.seed(mock)

			ok, err := s.ApplyTransaction(context.Background(), []user.User{u}).Await(timeout(t))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestSubmit_WaitsForWorker(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t, sqliteDialect)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE credits_users SET credits = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Hold the only worker so the operation cannot start.
	require.NoError(t, s.workers.Acquire(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	blocked := s.SetCredits(ctx, uuid.New(), 5)
	cancel()

	_, err := blocked.Await(timeout(t))
	require.ErrorIs(t, err, context.Canceled)

	s.workers.Release(1)

	ok, err := s.SetCredits(context.Background(), uuid.New(), 5).Await(timeout(t))
	require.NoError(t, err)
	require.True(t, ok)
}
