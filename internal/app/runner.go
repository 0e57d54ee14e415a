package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/standings-sync/external/livescore"
	"github.com/riskibarqy/standings-sync/internal/config"
	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"github.com/riskibarqy/standings-sync/internal/domain/standing"
	"github.com/riskibarqy/standings-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/standings-sync/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
	"github.com/riskibarqy/standings-sync/internal/platform/metrics"
	"github.com/riskibarqy/standings-sync/internal/platform/resilience"
	"github.com/riskibarqy/standings-sync/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const metricsPushTimeout = 10 * time.Second

type RunOptions struct {
	// DryRun keeps everything in memory; no database is opened.
	DryRun bool
	// LeagueID restricts the run to one competition when > 0.
	LeagueID int64
	// Season overrides the configured season when > 0.
	Season int
	// HTTPClient replaces the provider's default instrumented client.
	HTTPClient *http.Client
}

// Runner wires one standings sync run from configuration.
type Runner struct {
	cfg      config.Config
	logger   *logging.Logger
	db       *sqlx.DB
	repo     standing.Repository
	service  *usecase.StandingSyncService
	recorder *metrics.Recorder
	leagues  []league.League
	season   int
}

func NewRunner(ctx context.Context, cfg config.Config, logger *logging.Logger, opts RunOptions) (*Runner, error) {
	if logger == nil {
		logger = logging.Default()
	}

	leagues, err := selectLeagues(cfg.Leagues, opts.LeagueID)
	if err != nil {
		return nil, err
	}
	season := cfg.Season
	if opts.Season > 0 {
		season = opts.Season
	}

	r := &Runner{
		cfg:      cfg,
		logger:   logger,
		recorder: metrics.NewRecorder(),
		leagues:  leagues,
		season:   season,
	}

	if opts.DryRun {
		r.repo = memory.NewStandingRepository()
	} else {
		dialect, err := sqlstore.ParseDialect(cfg.DBDriver)
		if err != nil {
			return nil, err
		}
		db, err := openDB(ctx, cfg, dialect, logger)
		if err != nil {
			return nil, err
		}
		r.db = db
		r.repo = sqlstore.NewStandingRepository(db, dialect, cfg.DBBatchSize)
	}

	provider := livescore.NewClient(livescore.ClientConfig{
		HTTPClient:  opts.HTTPClient,
		BaseURL:     cfg.LiveScoreBaseURL,
		Key:         cfg.LiveScoreKey,
		Secret:      cfg.LiveScoreSecret,
		Timeout:     cfg.LiveScoreTimeout,
		MaxRetries:  cfg.LiveScoreMaxRetries,
		IncludeForm: cfg.LiveScoreIncludeForm,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.LiveScoreCircuitEnabled,
			FailureThreshold: cfg.LiveScoreCircuitFailureCount,
			OpenTimeout:      cfg.LiveScoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.LiveScoreCircuitHalfOpenMaxReq,
		},
	})

	r.service = usecase.NewStandingSyncService(
		provider,
		r.repo,
		usecase.StandingSyncConfig{Season: season},
		r.recorder,
		logger,
	)
	return r, nil
}

// Run synchronizes every selected league and pushes metrics when a gateway
// is configured. A push failure is logged and does not fail the run.
func (r *Runner) Run(ctx context.Context) (usecase.RunSummary, error) {
	ctx, span := otel.Tracer("standings-sync/internal/app").Start(ctx, "standings-sync.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("standings.season", r.season),
		attribute.Int("standings.league_count", len(r.leagues)),
	)

	r.logger.InfoContext(ctx, "standings sync started",
		"season", r.season,
		"leagues", len(r.leagues),
		"db_driver", r.cfg.DBDriver,
		"dry_run", r.db == nil,
	)

	summary, err := r.service.Run(ctx, r.leagues)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return usecase.RunSummary{}, err
	}
	if summary.HasFailures() {
		span.SetStatus(codes.Error, fmt.Sprintf("%d league(s) failed", summary.FailedCount))
	}

	if r.cfg.MetricsPushURL != "" {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsPushTimeout)
		defer cancel()
		if err := r.recorder.Push(pushCtx, r.cfg.MetricsPushURL, r.cfg.MetricsJobName); err != nil {
			r.logger.WarnContext(ctx, "metrics push failed", "error", err)
		}
	}
	return summary, nil
}

// Repository exposes the store the run writes to.
func (r *Runner) Repository() standing.Repository {
	return r.repo
}

func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func selectLeagues(leagues []league.League, leagueID int64) ([]league.League, error) {
	if leagueID <= 0 {
		return leagues, nil
	}
	for _, lg := range leagues {
		if lg.ID == leagueID {
			return []league.League{lg}, nil
		}
	}
	return nil, fmt.Errorf("%w: competition %d is not in the league catalog", usecase.ErrInvalidInput, leagueID)
}
