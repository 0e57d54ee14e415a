package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/standings-sync/internal/config"
	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
	"github.com/riskibarqy/standings-sync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const premierLeagueTable = `{"success": true, "data": {"table": [
  {"rank": 1, "team_id": 19, "name": "Arsenal", "matches": 10, "won": 8, "drawn": 1, "lost": 1,
   "goals_scored": 22, "goals_conceded": 7, "goal_diff": 15, "points": 25, "form": "W,W,D,L,W,W,W"},
  {"rank": 2, "team_id": 8, "name": "Liverpool", "matches": 10, "won": 7, "drawn": 2, "lost": 1,
   "goals_scored": 20, "goals_conceded": 9, "goal_diff": 11, "points": 23}
]}}`

func newLiveScoreStub(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("competition_id") {
		case "2":
			_, _ = w.Write([]byte(premierLeagueTable))
		case "5":
			_, _ = w.Write([]byte(`{"success": true, "data": {"table": []}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.Config {
	return config.Config{
		DBDriver:             "sqlite",
		DBURL:                ":memory:",
		DBConnectTimeout:     5 * time.Second,
		DBBatchSize:          1,
		Season:               2025,
		LiveScoreBaseURL:     baseURL,
		LiveScoreKey:         "key",
		LiveScoreSecret:      "secret",
		LiveScoreTimeout:     5 * time.Second,
		LiveScoreIncludeForm: true,
		Leagues: []league.League{
			{ID: 2, Name: "Premier League", TableName: "standings_premier_league"},
			{ID: 5, Name: "Ligue 1", TableName: "standings_ligue_1"},
		},
	}
}

func TestRunnerDryRun(t *testing.T) {
	srv := newLiveScoreStub(t)
	ctx := context.Background()

	runner, err := NewRunner(ctx, testConfig(srv.URL), logging.NewNop(), RunOptions{
		DryRun:     true,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })

	summary, err := runner.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2025, summary.Season)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 1, summary.SkippedCount)
	assert.Equal(t, 2, summary.Rows)
	assert.False(t, summary.HasFailures())

	rows, err := runner.Repository().ListBySeason(ctx, "standings_premier_league", 2025)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "WDLWWW", rows[0].Form)
}

func TestRunnerSQLiteLeagueFilterAndSeasonOverride(t *testing.T) {
	srv := newLiveScoreStub(t)
	ctx := context.Background()

	runner, err := NewRunner(ctx, testConfig(srv.URL), logging.NewNop(), RunOptions{
		LeagueID:   2,
		Season:     2026,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })

	for i := 0; i < 2; i++ {
		summary, err := runner.Run(ctx)
		require.NoError(t, err)
		require.Len(t, summary.Leagues, 1)
		assert.Equal(t, usecase.SyncStatusSuccess, summary.Leagues[0].Status)
		assert.Equal(t, 2, summary.Leagues[0].Rows)
	}

	rows, err := runner.Repository().ListBySeason(ctx, "standings_premier_league", 2026)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Arsenal", rows[0].Team)
	assert.Equal(t, "------", rows[1].Form)
}

func TestNewRunnerRejectsUnknownLeague(t *testing.T) {
	_, err := NewRunner(context.Background(), testConfig("http://127.0.0.1:1"), logging.NewNop(), RunOptions{
		DryRun:   true,
		LeagueID: 99,
	})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.DBDriver = "oracle"

	_, err := NewRunner(context.Background(), cfg, logging.NewNop(), RunOptions{})
	require.Error(t, err)
}
