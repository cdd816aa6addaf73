// Package provider builds a database adapter from a provider name.
package provider

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
	"github.com/satishbabariya/activerecord/internal/adapters/database/mysql"
	"github.com/satishbabariya/activerecord/internal/adapters/database/pgx"
	"github.com/satishbabariya/activerecord/internal/adapters/database/postgres"
	"github.com/satishbabariya/activerecord/internal/adapters/database/sqlite"
)

// New returns an unconnected adapter for config.Provider. When the provider
// is empty it is inferred from the URL scheme.
func New(config database.Config) (database.Adapter, error) {
	name := strings.ToLower(config.Provider)
	if name == "" {
		name = Infer(config.URL)
	}

	switch name {
	case "postgres", "postgresql":
		return postgres.NewPostgresAdapter(config), nil
	case "pgx":
		return pgx.NewPgxAdapter(config), nil
	case "mysql":
		return mysql.NewMySQLAdapter(config)
	case "sqlite", "sqlite3":
		return sqlite.NewSQLiteAdapter(config), nil
	default:
		return nil, fmt.Errorf("unknown database provider: %q", config.Provider)
	}
}

// Infer guesses the provider from a connection URL.
func Infer(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "mysql://"), strings.Contains(url, "@tcp("):
		return "mysql"
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"), url == ":memory:":
		return "sqlite"
	default:
		return ""
	}
}
