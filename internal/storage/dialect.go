package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/storage/migrations"
)

const pgUniqueViolation = "23505"

// dialect captures what differs between the supported databases. Queries are
// written once with ? placeholders.
type dialect struct {
	name   string
	driver string
	// numbered placeholders ($1, $2...) instead of ?
	numbered bool
}

var (
	sqliteDialect   = dialect{name: config.StorageSQLite, driver: "sqlite"}
	postgresDialect = dialect{name: config.StoragePostgres, driver: "pgx", numbered: true}
)

func dialectFor(storageType string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(storageType)) {
	case "", config.StorageSQLite:
		return sqliteDialect, nil
	case config.StoragePostgres, "postgresql":
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: %q", ErrUnknownType, storageType)
	}
}

func (d dialect) dsn(cfg config.StorageConfig) (string, error) {
	if d.numbered {
		if strings.TrimSpace(cfg.Postgres.DSN) == "" {
			return "", errors.New("postgres dsn is required")
		}
		return cfg.Postgres.DSN, nil
	}

	path := strings.TrimSpace(cfg.SQLite.Path)
	if path == "" {
		return "", errors.New("sqlite path is required")
	}

	return filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_txlock=immediate", nil
}

// rebind rewrites ? placeholders for the dialect.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

// schema returns the idempotent bootstrap statements for the dialect.
func (d dialect) schema() ([]string, error) {
	raw, err := fs.ReadFile(migrations.FS, d.name+"/000001_create_credits_users.up.sql")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var stmts []string
	for _, stmt := range strings.Split(string(raw), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			stmts = append(stmts, s)
		}
	}

	return stmts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	return false
}
