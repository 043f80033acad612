package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

// GetUser looks a user up by id. The future holds nil when there is none.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) *future.Future[*user.User] {
	return submit(ctx, s, "get user", func(ctx context.Context) (*user.User, error) {
		row := s.db.QueryRowContext(ctx, s.dialect.rebind(`
			SELECT `+userColumns+`
			FROM credits_users
			WHERE uuid = ?`),
			id.String(),
		)

		return scanOptional(row)
	})
}

// GetUserByName looks a user up by username, ignoring case.
func (s *Store) GetUserByName(ctx context.Context, username string) *future.Future[*user.User] {
	return submit(ctx, s, "get user by name", func(ctx context.Context) (*user.User, error) {
		row := s.db.QueryRowContext(ctx, s.dialect.rebind(`
			SELECT `+userColumns+`
			FROM credits_users
			WHERE LOWER(username) = LOWER(?)
			ORDER BY id
			LIMIT 1`),
			username,
		)

		return scanOptional(row)
	})
}

func scanOptional(row *sql.Row) (*user.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
