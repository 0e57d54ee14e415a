package sqlstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"github.com/riskibarqy/standings-sync/internal/domain/standing"
	qb "github.com/riskibarqy/standings-sync/internal/platform/querybuilder"
)

const DefaultBatchSize = 100

var (
	standingColumns  = mustColumns(standingRow{})
	standingKeyCols  = []string{"season", "team_id"}
	standingUpsertOn = buildUpsertSuffix(standingColumns, standingKeyCols)
)

type StandingRepository struct {
	db        *sqlx.DB
	dialect   Dialect
	batchSize int
}

func NewStandingRepository(db *sqlx.DB, dialect Dialect, batchSize int) *StandingRepository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &StandingRepository{db: db, dialect: dialect, batchSize: batchSize}
}

func (r *StandingRepository) EnsureSchema(ctx context.Context, table string) error {
	if err := league.ValidateTableName(table); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createStandingsTableSQL(quoteTable(table))); err != nil {
		return storageError("ensure schema "+table, err)
	}
	return nil
}

func (r *StandingRepository) Apply(ctx context.Context, table string, items []standing.Standing) (int, error) {
	if err := league.ValidateTableName(table); err != nil {
		return 0, fmt.Errorf("apply standings: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	err := r.withTx(ctx, "apply standings "+table, func(tx *sqlx.Tx) error {
		return r.applyTx(ctx, tx, table, items)
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *StandingRepository) Reconcile(ctx context.Context, table string, items []standing.Standing) (int, error) {
	if err := league.ValidateTableName(table); err != nil {
		return 0, fmt.Errorf("reconcile standings: %w", err)
	}

	err := r.withTx(ctx, "reconcile standings "+table, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, createStandingsTableSQL(quoteTable(table))); err != nil {
			return storageError("ensure schema "+table, err)
		}
		if len(items) == 0 {
			return nil
		}
		return r.applyTx(ctx, tx, table, items)
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *StandingRepository) ListBySeason(ctx context.Context, table string, season int) ([]standing.Standing, error) {
	if err := league.ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	query, args, err := qb.Select(standingColumns...).
		PlaceholderFormat(r.dialect.placeholders()).
		From(quoteTable(table)).
		Where(qb.Eq("season", season)).
		OrderBy("position", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storageError("list standings "+table, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingRepository) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageError(op+": begin tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageError(op+": commit tx", err)
	}
	return nil
}

// applyTx parks the current positions of the batch's teams before upserting,
// so teams trading places do not collide on (season, position) mid-statement.
// Parked rows get their real position back from the upsert.
func (r *StandingRepository) applyTx(ctx context.Context, tx *sqlx.Tx, table string, items []standing.Standing) error {
	quoted := quoteTable(table)

	for _, season := range seasonsOf(items) {
		teamIDs := teamIDsForSeason(items, season)
		for start := 0; start < len(teamIDs); start += r.batchSize {
			end := min(start+r.batchSize, len(teamIDs))
			query, args, err := qb.Update(quoted).
				PlaceholderFormat(r.dialect.placeholders()).
				SetExpr("position", "-position").
				Where(
					qb.Eq("season", season),
					qb.Expr("position > ?", 0),
					qb.In("team_id", teamIDs[start:end]),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build park positions query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return storageError(fmt.Sprintf("park positions season=%d", season), err)
			}
		}
	}

	for start := 0; start < len(items); start += r.batchSize {
		end := min(start+r.batchSize, len(items))
		rows := make([]standingRow, 0, end-start)
		for _, item := range items[start:end] {
			rows = append(rows, toStandingRow(item))
		}

		insert, err := qb.InsertModels(quoted, rows)
		if err != nil {
			return fmt.Errorf("build upsert standings query: %w", err)
		}
		query, args, err := insert.
			PlaceholderFormat(r.dialect.placeholders()).
			Suffix(standingUpsertOn).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return storageError(fmt.Sprintf("upsert standings rows=%d..%d", start, end-1), err)
		}
	}
	return nil
}

func seasonsOf(items []standing.Standing) []int {
	seasons := make([]int, 0, 1)
	for _, item := range items {
		if !slices.Contains(seasons, item.Season) {
			seasons = append(seasons, item.Season)
		}
	}
	slices.Sort(seasons)
	return seasons
}

func teamIDsForSeason(items []standing.Standing, season int) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if item.Season == season {
			out = append(out, item.TeamID)
		}
	}
	return out
}

func buildUpsertSuffix(columns, keys []string) string {
	sets := make([]string, 0, len(columns))
	for _, col := range columns {
		if slices.Contains(keys, col) {
			continue
		}
		sets = append(sets, col+" = EXCLUDED."+col)
	}
	return "ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
}

func mustColumns(model any) []string {
	cols, err := qb.Columns(model)
	if err != nil {
		panic(fmt.Sprintf("sqlstore: %v", err))
	}
	return cols
}
