// Package storetest opens throwaway credits stores for tests.
package storetest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/storage"
)

// PostgresDSNEnv points at a server the tests may create databases on.
const PostgresDSNEnv = "PG_TEST_DSN"

// NewSQLite opens a store backed by a fresh file under t.TempDir and
// disables it when the test ends.
func NewSQLite(t *testing.T) *storage.Store {
	t.Helper()

	return open(t, config.StorageConfig{
		Type:   config.StorageSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "credits.db")},
	})
}

// SQLiteConfig returns a config for a fresh SQLite file, for tests that
// open the store themselves.
func SQLiteConfig(t *testing.T) config.StorageConfig {
	t.Helper()

	return config.StorageConfig{
		Type:   config.StorageSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "credits.db")},
	}
}

// NewPostgres creates a uniquely named database on the server at
// PG_TEST_DSN and opens a store on it. The test is skipped when the variable
// is unset.
func NewPostgres(t *testing.T) *storage.Store {
	t.Helper()

	baseDSN := os.Getenv(PostgresDSNEnv)
	if baseDSN == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}

	admin, err := sql.Open("pgx", baseDSN)
	if err != nil {
		t.Fatalf("open admin: %v", err)
	}

	dbName := sanitizeForPgIdent(uniqueDBName("testdb", t.Name()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	const maxAttempts = 5
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		_, err = admin.ExecContext(ctx,
			fmt.Sprintf(`CREATE DATABASE "%s" WITH TEMPLATE template0 ENCODING 'UTF8'`, dbName))
		if err == nil {
			break
		}
		if !isUniqueViolation(err) || attempt == maxAttempts {
			_ = admin.Close()
			t.Fatalf("create database: %v", err)
		}
		dbName = sanitizeForPgIdent(uniqueDBName("testdb", t.Name()))
	}

	testDSN, err := ReplaceDBInDSN(baseDSN, dbName)
	if err != nil {
		_ = admin.Close()
		t.Fatalf("test dsn: %v", err)
	}

	t.Cleanup(func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()

		_, _ = admin.ExecContext(dctx,
			fmt.Sprintf(`DROP DATABASE IF EXISTS "%s" WITH (FORCE)`, dbName))
		_ = admin.Close()
	})

	return open(t, config.StorageConfig{
		Type: config.StoragePostgres,
		Postgres: config.PostgresConfig{
			DSN:             testDSN,
			MaxOpenConns:    4,
			ConnMaxIdleTime: 100 * time.Millisecond,
			ConnMaxLifetime: 30 * time.Second,
		},
	})
}

func open(t *testing.T, cfg config.StorageConfig) *storage.Store {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	s, err := storage.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	// Registered after the database cleanup, so it runs first.
	t.Cleanup(s.Disable)

	return s
}

// ReplaceDBInDSN swaps the database name in a Postgres URL DSN.
func ReplaceDBInDSN(dsn, newDB string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("parse dsn: not a url: %q", dsn)
	}

	u.Path = "/" + newDB
	return u.String(), nil
}

func uniqueDBName(prefix, testName string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(testName))
	var rnd [6]byte
	_, _ = rand.Read(rnd[:])
	return fmt.Sprintf("%s_%08x_%s", prefix, h.Sum32(), hex.EncodeToString(rnd[:]))
}

func sanitizeForPgIdent(s string) string {
	s = strings.ToLower(s)
	repl := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	s = repl.Replace(s)
	if len(s) <= 63 {
		return s
	}
	return s[:31] + "_" + s[len(s)-31:]
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
