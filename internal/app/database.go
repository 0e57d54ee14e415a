package app

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/standings-sync/internal/config"
	"github.com/riskibarqy/standings-sync/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// openDB opens a traced pool and pings it. A failed ping is only logged:
// the run still goes through every league so each one reports the outage.
func openDB(ctx context.Context, cfg config.Config, dialect sqlstore.Dialect, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := cfg.DBURL
	dbSystem := "sqlite"
	if dialect == sqlstore.DialectPostgres {
		dsn = withPreparedBinaryResultDisabled(dsn, cfg.DBDisablePreparedBinary)
		dbSystem = "postgresql"
	}
	dbName := databaseName(dialect, dsn)

	db, err := otelsqlx.Open(dialect.DriverName(), dsn,
		otelsql.WithDBSystem(dbSystem),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == sqlstore.DialectSQLite {
		// one writer; also keeps a :memory: database on a single connection
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.WarnContext(ctx, "database ping failed, leagues will report connectivity errors",
			"driver", dialect.DriverName(),
			"db_name", dbName,
			"error", err,
		)
	}
	return db, nil
}

// withPreparedBinaryResultDisabled sets disable_prepared_binary_result=yes
// for poolers that cannot relay binary results. An explicit value wins.
func withPreparedBinaryResultDisabled(raw string, disable bool) string {
	if !disable {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func databaseName(dialect sqlstore.Dialect, dsn string) string {
	trimmed := strings.TrimSpace(dsn)
	if dialect == sqlstore.DialectSQLite {
		file, _, _ := strings.Cut(strings.TrimPrefix(trimmed, "file:"), "?")
		if file == "" || file == ":memory:" {
			return "memory"
		}
		return path.Base(file)
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	// key=value DSN
	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(name, `"'`); name != "" {
			return name
		}
	}
	return ""
}

func formatQueryForTrace(query string) string {
	normalized := queryWhitespaceRegex.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
