// Package converter imports users into a credits storage from a CSV file or
// from another storage, and checks that every imported user arrived.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

var (
	ErrVerifyFailed = errors.New("converted users missing from destination")
	ErrSameStorage  = errors.New("source and destination are the same storage")
)

// Destination is the storage users are written to.
type Destination interface {
	AddUsers(ctx context.Context, users []user.User) *future.Future[struct{}]
	AllUsers(ctx context.Context) *future.Future[[]user.User]
}

type Converter struct {
	loader Loader
	dst    Destination
}

func New(loader Loader, dst Destination) *Converter {
	return &Converter{loader: loader, dst: dst}
}

// Run loads, writes and verifies. It returns the number of users written.
func (c *Converter) Run(ctx context.Context) (int, error) {
	start := time.Now()

	slog.Warn("converter enabled, loading users")

	loaded, err := c.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}

	users := dedupe(loaded)
	slog.Info("users loaded, converting", "count", len(users))

	_, err = c.dst.AddUsers(ctx, users).Await(ctx)
	if err != nil {
		return 0, fmt.Errorf("add users: %w", err)
	}

	err = c.verify(ctx, users)
	if err != nil {
		return 0, err
	}

	slog.Info("conversion verified", "count", len(users), "duration", time.Since(start))

	return len(users), nil
}

func (c *Converter) verify(ctx context.Context, users []user.User) error {
	stored, err := c.dst.AllUsers(ctx).Await(ctx)
	if err != nil {
		return fmt.Errorf("list destination users: %w", err)
	}

	present := make(map[user.User]struct{}, len(stored))
	for _, u := range stored {
		present[u] = struct{}{}
	}

	missing := 0
	for _, u := range users {
		if _, ok := present[u]; !ok {
			missing++
		}
	}

	if missing > 0 {
		return fmt.Errorf("verify conversion: %d of %d: %w", missing, len(users), ErrVerifyFailed)
	}

	return nil
}

// dedupe keeps the first record seen for each id.
func dedupe(users []user.User) []user.User {
	seen := make(map[uuid.UUID]struct{}, len(users))
	out := make([]user.User, 0, len(users))

	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			slog.Warn("duplicate user in source, keeping first", "user", u.ID)
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}

	return out
}

// CheckDistinct refuses to convert a storage into itself.
func CheckDistinct(src, dst config.StorageConfig) error {
	if !sameType(src.Type, dst.Type) {
		return nil
	}

	same := false
	if isPostgres(dst.Type) {
		same = src.Postgres.DSN == dst.Postgres.DSN
	} else {
		a, errA := filepath.Abs(src.SQLite.Path)
		b, errB := filepath.Abs(dst.SQLite.Path)
		same = errA == nil && errB == nil && a == b
	}

	if same {
		return fmt.Errorf("check storages (%s): %w", dst.Describe(), ErrSameStorage)
	}

	return nil
}

func isPostgres(t string) bool {
	t = strings.ToLower(t)
	return t == config.StoragePostgres || t == "postgresql"
}

func sameType(a, b string) bool {
	return isPostgres(a) == isPostgres(b)
}
