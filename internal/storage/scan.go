package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/user"
)

const userColumns = "uuid, username, credits, redeemed"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (user.User, error) {
	var (
		rawID    string
		username string
		credits  sql.NullInt64
		redeemed sql.NullInt64
	)

	err := row.Scan(&rawID, &username, &credits, &redeemed)
	if err != nil {
		return user.User{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return user.User{}, fmt.Errorf("parse uuid %q: %w", rawID, err)
	}

	return user.User{
		ID:       id,
		Username: username,
		Credits:  int(credits.Int64),
		Redeemed: int(redeemed.Int64),
	}, nil
}

func scanUsers(rows *sql.Rows) ([]user.User, error) {
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
