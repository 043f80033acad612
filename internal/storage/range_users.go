package storage

import (
	"context"
	"fmt"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// RangeOfUsers pages through users by descending credits.
func (s *Store) RangeOfUsers(ctx context.Context, limit, offset int) *future.Future[[]user.User] {
	if limit < 0 || offset < 0 {
		return future.Failed[[]user.User](fmt.Errorf("range of users: %w", ErrInvalidPage))
	}

	return submit(ctx, s, "range of users", func(ctx context.Context) ([]user.User, error) {
		rows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
			SELECT `+userColumns+`
			FROM credits_users
			ORDER BY credits DESC, id ASC
			LIMIT ? OFFSET ?`),
			limit, offset,
		)
		if err != nil {
			return nil, fmt.Errorf("query users: %w", err)
		}

		return scanUsers(rows)
	})
}

// AllUsers returns every stored user. Meant for maintenance, not hot paths.
func (s *Store) AllUsers(ctx context.Context) *future.Future[[]user.User] {
	return submit(ctx, s, "all users", func(ctx context.Context) ([]user.User, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT `+userColumns+`
			FROM credits_users
			ORDER BY id`)
		if err != nil {
			return nil, fmt.Errorf("query users: %w", err)
		}

		return scanUsers(rows)
	})
}
