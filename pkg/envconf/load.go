// Package envconf fills configuration structs from environment variables.
//
// Fields are described with caarlos0/env tags: `env:"NAME"`, `envDefault`,
// `required`, and `envPrefix` on nested structs.
package envconf

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrMissingRequired = errors.New("missing required environment variable")

// Load parses the process environment into dst.
func Load(dst any) error {
	return LoadWith(dst, env.Options{})
}

// LoadPrefixed is Load with every variable name prefixed.
func LoadPrefixed(dst any, prefix string) error {
	return LoadWith(dst, env.Options{Prefix: prefix})
}

// LoadWith parses with explicit options, for tests that supply their own
// environment.
func LoadWith(dst any, opts env.Options) error {
	err := env.ParseWithOptions(dst, opts)
	if err != nil {
		if isMissing(err) {
			return fmt.Errorf("load env: %w: %w", ErrMissingRequired, err)
		}

		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

func isMissing(err error) bool {
	var missing env.EnvVarIsNotSetError
	var empty env.EmptyEnvVarError

	return errors.Is(err, env.EnvVarIsNotSetError{}) ||
		errors.Is(err, env.EmptyEnvVarError{}) ||
		errors.As(err, &missing) ||
		errors.As(err, &empty)
}
