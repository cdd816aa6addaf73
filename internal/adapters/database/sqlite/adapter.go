// Package sqlite implements the SQLite database adapter. Both the cgo driver
// (sqlite3) and the pure Go driver (sqlite) are registered; Config.Driver picks one.
package sqlite

import (
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver, cgo
	"github.com/satishbabariya/activerecord/internal/adapters/database"
	_ "modernc.org/sqlite" // SQLite driver, pure Go
)

const (
	// DriverCgo is the mattn/go-sqlite3 driver name.
	DriverCgo = "sqlite3"
	// DriverPure is the modernc.org/sqlite driver name.
	DriverPure = "sqlite"
)

// busyTimeoutMillis is how long a connection waits for a competing writer.
const busyTimeoutMillis = "5000"

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	*database.SQLAdapter
}

// NewSQLiteAdapter creates a new SQLite adapter. File databases run in WAL
// mode with a busy timeout, so a reader holding an open cursor does not block
// other statements and the configured connection limit applies. In-memory
// databases exist per connection and are held at one.
func NewSQLiteAdapter(config database.Config) *SQLiteAdapter {
	driver := DriverCgo
	if config.Driver != "" {
		driver = config.Driver
	}
	if IsMemory(config.URL) {
		config.MaxConnections = 1
		config.MaxIdleConnections = 1
	}
	config.URL = DSN(config.URL, driver)
	return &SQLiteAdapter{
		SQLAdapter: database.NewSQLAdapter(driver, database.SQLite, config),
	}
}

// IsMemory reports whether url names an in-memory database.
func IsMemory(url string) bool {
	return url == "" || strings.HasPrefix(url, ":memory:") ||
		strings.HasPrefix(url, "file::memory:") || strings.Contains(url, "mode=memory")
}

// DSN appends the per-connection pragmas in the syntax of driver. Pragmas set
// through the DSN apply to every pooled connection, not just the first.
func DSN(url, driver string) string {
	if url == "" {
		url = ":memory:"
	}
	var params []string
	if driver == DriverPure {
		params = []string{
			"_pragma=foreign_keys(1)",
			"_pragma=busy_timeout(" + busyTimeoutMillis + ")",
		}
		if !IsMemory(url) {
			params = append(params, "_pragma=journal_mode(WAL)")
		}
	} else {
		params = []string{
			"_foreign_keys=on",
			"_busy_timeout=" + busyTimeoutMillis,
		}
		if !IsMemory(url) {
			params = append(params, "_journal_mode=WAL")
		}
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
