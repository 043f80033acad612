package config

import "time"

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type PostgresConfig struct {
	DSN             string        `env:"DSN"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"     envDefault:"20"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"  envDefault:"30m"`
}

type SQLiteConfig struct {
	Path string `env:"PATH" envDefault:"credits.db"`
}

// StorageConfig selects and configures the credits storage backend.
type StorageConfig struct {
	Type     string         `env:"STORAGE_TYPE"    envDefault:"sqlite"`
	Workers  int            `env:"STORAGE_WORKERS" envDefault:"2"`
	SQLite   SQLiteConfig   `envPrefix:"SQLITE_"`
	Postgres PostgresConfig `envPrefix:"PG_"`
}

// Describe identifies the backing database without leaking credentials.
func (c StorageConfig) Describe() string {
	if c.Type == StoragePostgres {
		return "postgres"
	}

	return "sqlite:" + c.SQLite.Path
}

// SkillsConfig configures the in-process skill progression.
type SkillsConfig struct {
	LevelCap int `env:"SKILL_LEVEL_CAP" envDefault:"0"`
}

const (
	ConvertFromCSV     = "csv"
	ConvertFromStorage = "storage"
)

// ConverterConfig selects where cmd/converter reads users from. The
// destination is the regular StorageConfig; a storage source is read from
// the same variables with a SOURCE_ prefix.
type ConverterConfig struct {
	From    string `env:"CONVERT_FROM"     envDefault:"csv"`
	CSVPath string `env:"CONVERT_CSV_PATH" envDefault:"database.csv"`
}
