package sqlstore

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	qb "github.com/riskibarqy/standings-sync/internal/platform/querybuilder"
)

// Dialect selects the SQL flavour a repository speaks.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func ParseDialect(raw string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", raw)
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

func (d Dialect) placeholders() qb.PlaceholderFormat {
	if d == DialectSQLite {
		return qb.Question
	}
	return qb.Dollar
}

// quoteTable double-quotes a table identifier; both dialects accept the
// PostgreSQL quoting rules.
func quoteTable(table string) string {
	return pq.QuoteIdentifier(table)
}
