// Package mysql implements the MySQL database adapter.
package mysql

import (
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/satishbabariya/activerecord/internal/adapters/database"
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	*database.SQLAdapter
}

// NewMySQLAdapter creates a new MySQL adapter. The URL may be a driver DSN
// or a mysql:// URL.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	dsn, err := DSN(config.URL)
	if err != nil {
		return nil, err
	}
	config.URL = dsn
	return &MySQLAdapter{
		SQLAdapter: database.NewSQLAdapter("mysql", database.MySQL, config),
	}, nil
}

// DSN normalizes url into a go-sql-driver DSN with parseTime enabled.
func DSN(url string) (string, error) {
	raw := url
	if rest, ok := strings.CutPrefix(url, "mysql://"); ok {
		// The password may hold '@' or '/', so the host starts after the last '@'.
		var user string
		if at := strings.LastIndex(rest, "@"); at >= 0 {
			user, rest = rest[:at], rest[at+1:]
		}
		host, db, _ := strings.Cut(rest, "/")
		raw = fmt.Sprintf("%s@tcp(%s)/%s", user, host, db)
		if user == "" {
			raw = fmt.Sprintf("tcp(%s)/%s", host, db)
		}
	}

	cfg, err := mysqldriver.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
