package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// SetUsername reports whether exactly one row was renamed.
func (s *Store) SetUsername(ctx context.Context, id uuid.UUID, username string) *future.Future[bool] {
	return s.exec(ctx, "set username",
		`UPDATE credits_users SET username = ? WHERE uuid = ?`,
		username, id.String(),
	)
}

// SetCredits reports whether exactly one balance was replaced.
func (s *Store) SetCredits(ctx context.Context, id uuid.UUID, credits int) *future.Future[bool] {
	return s.exec(ctx, "set credits",
		`UPDATE credits_users SET credits = ? WHERE uuid = ?`,
		credits, id.String(),
	)
}

// UpdateUser replaces username, credits and redeemed for u.ID.
func (s *Store) UpdateUser(ctx context.Context, u user.User) *future.Future[bool] {
	return s.exec(ctx, "update user",
		`UPDATE credits_users SET username = ?, credits = ?, redeemed = ? WHERE uuid = ?`,
		u.Username, u.Credits, u.Redeemed, u.ID.String(),
	)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) *future.Future[bool] {
	return submit(ctx, s, op, func(ctx context.Context) (bool, error) {
		res, err := s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
		if err != nil {
			return false, fmt.Errorf("exec update: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("rows affected: %w", err)
		}

		return n == 1, nil
	})
}
