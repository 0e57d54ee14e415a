package app

import (
	"strings"
	"testing"

	"github.com/riskibarqy/standings-sync/internal/infrastructure/repository/sqlstore"
	"github.com/stretchr/testify/assert"
)

func TestWithPreparedBinaryResultDisabled(t *testing.T) {
	t.Run("appends flag", func(t *testing.T) {
		got := withPreparedBinaryResultDisabled("postgres://u:p@localhost:5432/standings?sslmode=disable", true)
		assert.Contains(t, got, "disable_prepared_binary_result=yes")
	})

	t.Run("keeps explicit value", func(t *testing.T) {
		in := "postgres://u:p@localhost:5432/standings?disable_prepared_binary_result=no"
		assert.Equal(t, in, withPreparedBinaryResultDisabled(in, true))
	})

	t.Run("disabled toggle keeps url", func(t *testing.T) {
		in := "postgres://u:p@localhost:5432/standings"
		assert.Equal(t, in, withPreparedBinaryResultDisabled(in, false))
	})

	t.Run("key value dsn untouched", func(t *testing.T) {
		in := "host=localhost dbname=standings"
		assert.Equal(t, in, withPreparedBinaryResultDisabled(in, true))
	})
}

func TestDatabaseName(t *testing.T) {
	cases := []struct {
		name    string
		dialect sqlstore.Dialect
		dsn     string
		want    string
	}{
		{"postgres url", sqlstore.DialectPostgres, "postgres://u:p@db:5432/standings?sslmode=disable", "standings"},
		{"postgres key value", sqlstore.DialectPostgres, "host=db user=sync dbname='standings' sslmode=disable", "standings"},
		{"postgres without name", sqlstore.DialectPostgres, "postgres://u:p@db:5432", ""},
		{"sqlite file uri", sqlstore.DialectSQLite, "file:/var/lib/sync/standings.db?_pragma=busy_timeout(5000)", "standings.db"},
		{"sqlite plain path", sqlstore.DialectSQLite, "standings.db", "standings.db"},
		{"sqlite memory", sqlstore.DialectSQLite, ":memory:", "memory"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, databaseName(tc.dialect, tc.dsn))
		})
	}
}

func TestFormatQueryForTrace(t *testing.T) {
	got := formatQueryForTrace(" UPDATE   standings_ligue_1\n SET position = -position \t WHERE season = $1 ")
	assert.Equal(t, "UPDATE standings_ligue_1 SET position = -position WHERE season = $1", got)

	long := formatQueryForTrace("SELECT " + strings.Repeat("x", maxTracedQueryLength*2))
	assert.Len(t, long, maxTracedQueryLength+3)
	assert.True(t, strings.HasSuffix(long, "..."))
}
