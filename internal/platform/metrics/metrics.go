package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "standings_sync"

// Recorder collects per-league outcomes of a sync run on its own registry,
// so a batch run can push exactly one set of series to a gateway.
type Recorder struct {
	registry *prometheus.Registry
	now      func() time.Time

	leagueRuns    *prometheus.CounterVec
	rowsUpserted  *prometheus.CounterVec
	leagueSeconds *prometheus.HistogramVec
	lastSuccess   *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		now:      time.Now,
		leagueRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "league_runs_total",
				Help:      "League synchronizations by outcome and the stage they ended in",
			},
			[]string{"league", "status", "stage"},
		),
		rowsUpserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_upserted_total",
				Help:      "Standing rows committed per league",
			},
			[]string{"league"},
		),
		leagueSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "league_duration_seconds",
				Help:      "Wall time spent synchronizing one league",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"league", "status"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last committed synchronization per league",
			},
			[]string{"league"},
		),
	}
	r.registry.MustRegister(r.leagueRuns, r.rowsUpserted, r.leagueSeconds, r.lastSuccess)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveLeague(leagueName, status, stage string, rows int, elapsedSeconds float64) {
	r.leagueRuns.WithLabelValues(leagueName, status, stage).Inc()
	r.leagueSeconds.WithLabelValues(leagueName, status).Observe(elapsedSeconds)
	if status != "success" {
		return
	}
	r.rowsUpserted.WithLabelValues(leagueName).Add(float64(rows))
	r.lastSuccess.WithLabelValues(leagueName).Set(float64(r.now().Unix()))
}

// Push replaces the job's series on a Prometheus push gateway.
func (r *Recorder) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
