package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"github.com/riskibarqy/standings-sync/internal/domain/standing"
	"github.com/riskibarqy/standings-sync/internal/usecase"
)

type standingTable map[standing.Key]standing.Standing

// StandingRepository keeps standings in process memory with the same
// key and uniqueness rules as the SQL store. Used for dry runs.
type StandingRepository struct {
	mu     sync.RWMutex
	tables map[string]standingTable
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{tables: make(map[string]standingTable)}
}

func (r *StandingRepository) EnsureSchema(_ context.Context, table string) error {
	if err := league.ValidateTableName(table); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[table]; !ok {
		r.tables[table] = make(standingTable)
	}
	return nil
}

func (r *StandingRepository) Apply(_ context.Context, table string, items []standing.Standing) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tables[table]
	if !ok {
		return 0, fmt.Errorf("%w: apply standings %s: table does not exist", usecase.ErrConnectivity, table)
	}
	next, err := applyStandings(current, items)
	if err != nil {
		return 0, fmt.Errorf("apply standings %s: %w", table, err)
	}
	r.tables[table] = next
	return len(items), nil
}

func (r *StandingRepository) Reconcile(_ context.Context, table string, items []standing.Standing) (int, error) {
	if err := league.ValidateTableName(table); err != nil {
		return 0, fmt.Errorf("reconcile standings: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.tables[table]
	if current == nil {
		current = make(standingTable)
	}
	next, err := applyStandings(current, items)
	if err != nil {
		return 0, fmt.Errorf("reconcile standings %s: %w", table, err)
	}
	r.tables[table] = next
	return len(items), nil
}

func (r *StandingRepository) ListBySeason(_ context.Context, table string, season int) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, ok := r.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: list standings %s: table does not exist", usecase.ErrConnectivity, table)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, item := range rows {
		if item.Season == season {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b standing.Standing) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return int(a.TeamID - b.TeamID)
	})
	return out, nil
}

// applyStandings returns a new table with items upserted, leaving current
// untouched when any row breaks a constraint.
func applyStandings(current standingTable, items []standing.Standing) (standingTable, error) {
	next := maps.Clone(current)
	if next == nil {
		next = make(standingTable)
	}

	for _, item := range items {
		if utf8.RuneCountInString(item.Team) > standing.TeamNameMaxLength {
			return nil, fmt.Errorf("%w: team name of team_id=%d exceeds %d characters", usecase.ErrConstraintViolation, item.TeamID, standing.TeamNameMaxLength)
		}
		if utf8.RuneCountInString(item.Form) > standing.FormLength {
			return nil, fmt.Errorf("%w: form of team_id=%d exceeds %d characters", usecase.ErrConstraintViolation, item.TeamID, standing.FormLength)
		}
		next[item.Key()] = item
	}

	type seasonPosition struct {
		season   int
		position int
	}
	seen := make(map[seasonPosition]int64, len(next))
	for key, item := range next {
		sp := seasonPosition{season: item.Season, position: item.Position}
		if other, dup := seen[sp]; dup {
			return nil, fmt.Errorf("%w: season=%d position=%d held by team_id=%d and team_id=%d",
				usecase.ErrConstraintViolation, sp.season, sp.position, other, key.TeamID)
		}
		seen[sp] = key.TeamID
	}
	return next, nil
}
