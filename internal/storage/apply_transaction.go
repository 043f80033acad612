package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/infra/sqlutil"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

var errRowMismatch = errors.New("row not updated exactly once")

// ApplyTransaction writes credits and redeemed for every user in one
// transaction. The future holds true only if each row was updated exactly
// once; otherwise nothing is written.
func (s *Store) ApplyTransaction(ctx context.Context, users []user.User) *future.Future[bool] {
	batch := append([]user.User(nil), users...)

	return submit(ctx, s, "apply transaction", func(ctx context.Context) (bool, error) {
		err := sqlutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(
				`UPDATE credits_users SET credits = ?, redeemed = ? WHERE uuid = ?`))
			if err != nil {
				return fmt.Errorf("prepare update: %w", err)
			}
			defer stmt.Close()

			for _, u := range batch {
				res, err := stmt.ExecContext(ctx, u.Credits, u.Redeemed, u.ID.String())
				if err != nil {
					return fmt.Errorf("update user %s: %w", u.ID, err)
				}

				n, err := res.RowsAffected()
				if err != nil {
					return fmt.Errorf("rows affected: %w", err)
				}
				if n != 1 {
					return fmt.Errorf("user %s: %w", u.ID, errRowMismatch)
				}
			}

			return nil
		})
		if errors.Is(err, errRowMismatch) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		return true, nil
	})
}
