package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"github.com/riskibarqy/standings-sync/internal/domain/standing"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
	SyncStatusSkipped = "skipped"

	SyncStageTable     = "table"
	SyncStageFetch     = "fetch"
	SyncStageNormalize = "normalize"
	SyncStageReconcile = "reconcile"
	SyncStageDone      = "done"
)

type StandingSyncConfig struct {
	Season int
}

type RunSummary struct {
	Season       int                `json:"season"`
	LeagueCount  int                `json:"league_count"`
	SuccessCount int                `json:"success_count"`
	SkippedCount int                `json:"skipped_count"`
	FailedCount  int                `json:"failed_count"`
	Rows         int                `json:"rows"`
	DurationMs   int64              `json:"duration_ms"`
	Leagues      []LeagueSyncResult `json:"leagues"`
}

// HasFailures reports whether any league was rolled back or crashed.
func (s RunSummary) HasFailures() bool {
	return s.FailedCount > 0
}

type LeagueSyncResult struct {
	LeagueID   int64  `json:"league_id"`
	LeagueName string `json:"league_name"`
	Table      string `json:"table,omitempty"`
	Status     string `json:"status"`
	Stage      string `json:"stage"`
	Rows       int    `json:"rows"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type StandingSyncService struct {
	provider StandingsProvider
	repo     standing.Repository
	cfg      StandingSyncConfig
	observer SyncObserver
	logger   *logging.Logger
}

func NewStandingSyncService(
	provider StandingsProvider,
	repo standing.Repository,
	cfg StandingSyncConfig,
	observer SyncObserver,
	logger *logging.Logger,
) *StandingSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}

	return &StandingSyncService{
		provider: provider,
		repo:     repo,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}
}

// Run synchronizes leagues one after another in the given order. A league
// that fails never stops the run; its outcome is recorded in the summary.
func (s *StandingSyncService) Run(ctx context.Context, leagues []league.League) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingSyncService.Run")
	defer span.End()

	if s.provider == nil || s.repo == nil {
		return RunSummary{}, fmt.Errorf("%w: standings sync is not fully configured", ErrInvalidInput)
	}
	if s.cfg.Season <= 0 {
		return RunSummary{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	start := time.Now()
	summary := RunSummary{
		Season:      s.cfg.Season,
		LeagueCount: len(leagues),
		Leagues:     make([]LeagueSyncResult, 0, len(leagues)),
	}

	for _, lg := range leagues {
		var result LeagueSyncResult
		if err := ctx.Err(); err != nil {
			result = LeagueSyncResult{
				LeagueID:   lg.ID,
				LeagueName: lg.Name,
				Status:     SyncStatusSkipped,
				Stage:      SyncStageFetch,
				Message:    "run cancelled: " + err.Error(),
			}
		} else {
			result = s.SyncLeague(ctx, lg)
		}

		switch result.Status {
		case SyncStatusSuccess:
			summary.SuccessCount++
			summary.Rows += result.Rows
		case SyncStatusSkipped:
			summary.SkippedCount++
		default:
			summary.FailedCount++
		}
		summary.Leagues = append(summary.Leagues, result)
		s.observer.ObserveLeague(result.LeagueName, result.Status, result.Stage, result.Rows, float64(result.DurationMs)/1000)
	}

	summary.DurationMs = time.Since(start).Milliseconds()
	s.logger.InfoContext(ctx, "standings sync finished",
		"season", summary.Season,
		"leagues", summary.LeagueCount,
		"succeeded", summary.SuccessCount,
		"skipped", summary.SkippedCount,
		"failed", summary.FailedCount,
		"rows", summary.Rows,
		"duration_ms", summary.DurationMs,
	)
	return summary, nil
}

// SyncLeague fetches, normalizes and reconciles one league. A panic while
// processing is recovered and reported as a failure of this league only.
func (s *StandingSyncService) SyncLeague(ctx context.Context, lg league.League) LeagueSyncResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingSyncService.SyncLeague")
	defer span.End()

	start := time.Now()
	result := LeagueSyncResult{
		LeagueID:   lg.ID,
		LeagueName: lg.Name,
		Stage:      SyncStageTable,
	}

	var catcher panics.Catcher
	catcher.Try(func() {
		s.syncLeague(ctx, lg, &result)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		result.Status = SyncStatusFailed
		result.Rows = 0
		result.Message = fmt.Sprintf("panic during %s: %v", result.Stage, recovered.Value)
		s.logger.ErrorContext(ctx, "league sync panicked",
			"league_id", lg.ID,
			"league", lg.Name,
			"stage", result.Stage,
			"panic", recovered.String(),
		)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

func (s *StandingSyncService) syncLeague(ctx context.Context, lg league.League, result *LeagueSyncResult) {
	table, err := lg.Table()
	if err != nil {
		s.fail(ctx, result, fmt.Errorf("%w: resolve table: %v", ErrInvalidInput, err))
		return
	}
	result.Table = table

	result.Stage = SyncStageFetch
	raws, err := s.provider.FetchStandings(ctx, lg.ID)
	if err != nil {
		s.skip(ctx, result, err)
		return
	}
	if len(raws) == 0 {
		s.skip(ctx, result, fmt.Errorf("%w: provider returned an empty table", ErrSourceUnavailable))
		return
	}

	result.Stage = SyncStageNormalize
	items, err := NormalizeStandings(s.cfg.Season, raws)
	if err != nil {
		s.skip(ctx, result, err)
		return
	}

	result.Stage = SyncStageReconcile
	rows, err := s.repo.Reconcile(ctx, table, items)
	if err != nil {
		s.fail(ctx, result, err)
		return
	}

	result.Stage = SyncStageDone
	result.Status = SyncStatusSuccess
	result.Rows = rows
	s.logger.InfoContext(ctx, "league standings synchronized",
		"league_id", lg.ID,
		"league", lg.Name,
		"table", table,
		"season", s.cfg.Season,
		"rows", rows,
	)
}

func (s *StandingSyncService) skip(ctx context.Context, result *LeagueSyncResult, err error) {
	result.Status = SyncStatusSkipped
	result.Message = err.Error()

	args := []any{
		"league_id", result.LeagueID,
		"league", result.LeagueName,
		"stage", result.Stage,
		"error", err,
	}
	var malformed *MalformedRecordError
	if errors.As(err, &malformed) {
		args = append(args, "record_index", malformed.Index, "field", malformed.Field)
	}
	s.logger.WarnContext(ctx, "skip league standings", args...)
}

func (s *StandingSyncService) fail(ctx context.Context, result *LeagueSyncResult, err error) {
	result.Status = SyncStatusFailed
	result.Message = err.Error()

	kind := "unknown"
	switch {
	case errors.Is(err, ErrConstraintViolation):
		kind = "constraint_violation"
	case errors.Is(err, ErrConnectivity):
		kind = "connectivity"
	case errors.Is(err, ErrInvalidInput):
		kind = "invalid_input"
	}
	s.logger.ErrorContext(ctx, "league standings rolled back",
		"league_id", result.LeagueID,
		"league", result.LeagueName,
		"table", result.Table,
		"stage", result.Stage,
		"error_kind", kind,
		"error", err,
	)
}
