package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/infra/storetest"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

var (
	notch = user.New(uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"), "Notch").WithCredits(9999).WithRedeemed(100)
	jeb   = user.New(uuid.MustParse("853c80ef-3c37-49fd-aa49-938b674adae6"), "jeb_").WithCredits(5)
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []user.User
	}{
		{
			name:  "valid_lines",
			input: "069a79f4-44e9-4726-a5be-fca90e38aaf5,Notch,9999,100\n853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,5,0\n",
			want:  []user.User{notch, jeb},
		},
		{
			name: "malformed_lines_skipped",
			input: strings.Join([]string{
				"069a79f4-44e9-4726-a5be-fca90e38aaf5,Notch,9999,100",
				"not-a-uuid,Bad,1,1",
				"853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,5",
				"853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,-5,0",
				"853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,lots,0",
				"853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,5,0",
			}, "\n"),
			want: []user.User{notch, jeb},
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := readCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCSVLoader_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := CSVLoader{Path: filepath.Join(t.TempDir(), "nope.csv")}.Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConverter_CSVIntoStorage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "database.csv")
	content := "069a79f4-44e9-4726-a5be-fca90e38aaf5,Notch,9999,100\n" +
		"853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,5,0\n" +
		"853c80ef-3c37-49fd-aa49-938b674adae6,jeb_,7,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	dst := storetest.NewSQLite(t)
	n, err := New(CSVLoader{Path: path}, dst).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err := dst.AllUsers(context.Background()).Await(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []user.User{notch, jeb}, all)
}

func TestConverter_StorageIntoStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := storetest.NewSQLite(t)
	_, err := src.AddUsers(ctx, []user.User{notch, jeb}).Await(ctx)
	require.NoError(t, err)

	dst := storetest.NewSQLite(t)
	n, err := New(StorageLoader{Source: src}, dst).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

type lossyDestination struct{}

func (lossyDestination) AddUsers(context.Context, []user.User) *future.Future[struct{}] {
	return future.Resolved(struct{}{})
}

func (lossyDestination) AllUsers(context.Context) *future.Future[[]user.User] {
	return future.Resolved([]user.User{notch})
}

type staticLoader []user.User

func (l staticLoader) Load(context.Context) ([]user.User, error) { return l, nil }

type failingLoader struct{ err error }

func (l failingLoader) Load(context.Context) ([]user.User, error) { return nil, l.err }

func TestConverter_Failures(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk on fire")

	tests := []struct {
		name    string
		loader  Loader
		wantErr error
	}{
		{name: "verify_fails", loader: staticLoader{notch, jeb}, wantErr: ErrVerifyFailed},
		{name: "load_fails", loader: failingLoader{err: errDisk}, wantErr: errDisk},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.loader, lossyDestination{}).Run(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckDistinct(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sqlite := func(path string) config.StorageConfig {
		return config.StorageConfig{Type: config.StorageSQLite, SQLite: config.SQLiteConfig{Path: path}}
	}
	pg := func(dsn string) config.StorageConfig {
		return config.StorageConfig{Type: config.StoragePostgres, Postgres: config.PostgresConfig{DSN: dsn}}
	}

	tests := []struct {
		name     string
		src, dst config.StorageConfig
		wantErr  error
	}{
		{name: "same_sqlite_file", src: sqlite(filepath.Join(dir, "a.db")), dst: sqlite(filepath.Join(dir, ".", "a.db")), wantErr: ErrSameStorage},
		{name: "different_sqlite_files", src: sqlite(filepath.Join(dir, "a.db")), dst: sqlite(filepath.Join(dir, "b.db"))},
		{name: "same_postgres", src: pg("postgres://h/credits"), dst: pg("postgres://h/credits"), wantErr: ErrSameStorage},
		{name: "sqlite_to_postgres", src: sqlite(filepath.Join(dir, "a.db")), dst: pg("postgres://h/credits")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckDistinct(tt.src, tt.dst)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
