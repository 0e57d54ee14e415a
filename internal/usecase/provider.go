package usecase

import "context"

// StandingsProvider fetches the current league table of a competition.
// Errors wrapping ErrSourceUnavailable mean no data could be obtained.
type StandingsProvider interface {
	FetchStandings(ctx context.Context, competitionID int64) ([]RawStanding, error)
}

// SyncObserver receives the outcome of every league processed in a run.
type SyncObserver interface {
	ObserveLeague(leagueName, status, stage string, rows int, elapsedSeconds float64)
}

type noopObserver struct{}

func (noopObserver) ObserveLeague(string, string, string, int, float64) {}
