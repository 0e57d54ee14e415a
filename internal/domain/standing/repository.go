package standing

import "context"

// Repository persists standings into a per-league table.
type Repository interface {
	// EnsureSchema creates table if it does not exist. Calling it again is a no-op.
	EnsureSchema(ctx context.Context, table string) error
	// Apply upserts items keyed by (season, team_id) in one transaction and
	// returns the number of rows submitted. On error nothing is applied.
	Apply(ctx context.Context, table string, items []Standing) (int, error)
	// Reconcile runs EnsureSchema and Apply inside a single transaction.
	Reconcile(ctx context.Context, table string, items []Standing) (int, error)
	ListBySeason(ctx context.Context, table string, season int) ([]Standing, error)
}
