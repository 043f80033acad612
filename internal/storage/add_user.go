package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/infra/sqlutil"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// Rows per INSERT; keeps bound parameters well below SQLite's limit.
const insertBatchSize = 500

// AddUser inserts u. The future holds false if a record with the same id
// already exists.
func (s *Store) AddUser(ctx context.Context, u user.User) *future.Future[bool] {
	return submit(ctx, s, "add user", func(ctx context.Context) (bool, error) {
		_, err := s.db.ExecContext(ctx, s.dialect.rebind(`
			INSERT INTO credits_users (`+userColumns+`)
			VALUES (?, ?, ?, ?)`),
			u.ID.String(), u.Username, u.Credits, u.Redeemed,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return false, nil
			}
			return false, fmt.Errorf("insert user: %w", err)
		}

		return true, nil
	})
}

// AddUsers inserts every user in one transaction. Nothing is kept if any
// row fails.
func (s *Store) AddUsers(ctx context.Context, users []user.User) *future.Future[struct{}] {
	batch := append([]user.User(nil), users...)

	return submit(ctx, s, "add users", func(ctx context.Context) (struct{}, error) {
		if len(batch) == 0 {
			return struct{}{}, nil
		}

		err := sqlutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			for start := 0; start < len(batch); start += insertBatchSize {
				chunk := batch[start:min(start+insertBatchSize, len(batch))]

				query, args := s.bulkInsert(chunk)

				_, err := tx.ExecContext(ctx, query, args...)
				if err != nil {
					return fmt.Errorf("insert users %d-%d: %w", start, start+len(chunk), err)
				}
			}

			return nil
		})

		return struct{}{}, err
	})
}

func (s *Store) bulkInsert(users []user.User) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO credits_users (" + userColumns + ") VALUES ")

	args := make([]any, 0, len(users)*4)
	for i, u := range users {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?, ?, ?)")
		args = append(args, u.ID.String(), u.Username, u.Credits, u.Redeemed)
	}

	return s.dialect.rebind(b.String()), args
}
