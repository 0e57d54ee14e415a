package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/standings-sync/internal/domain/standing"
	"github.com/riskibarqy/standings-sync/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(position int, teamID int64) standing.Standing {
	return standing.Standing{Season: 2025, Position: position, TeamID: teamID, Team: "T", Form: standing.DefaultForm}
}

func TestStandingRepositoryApply(t *testing.T) {
	ctx := context.Background()
	repo := NewStandingRepository()
	const table = "standings_ligue_1"

	_, err := repo.Apply(ctx, table, []standing.Standing{item(1, 1)})
	require.ErrorIs(t, err, usecase.ErrConnectivity)

	require.NoError(t, repo.EnsureSchema(ctx, table))
	require.NoError(t, repo.EnsureSchema(ctx, table))

	n, err := repo.Apply(ctx, table, []standing.Standing{item(1, 1), item(2, 2), item(3, 3)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// swap 1 and 2, team 3 untouched
	_, err = repo.Apply(ctx, table, []standing.Standing{item(1, 2), item(2, 1)})
	require.NoError(t, err)

	_, err = repo.Apply(ctx, table, []standing.Standing{item(3, 1)})
	require.ErrorIs(t, err, usecase.ErrConstraintViolation)

	items, err := repo.ListBySeason(ctx, table, 2025)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.EqualValues(t, []int64{2, 1, 3}, []int64{items[0].TeamID, items[1].TeamID, items[2].TeamID})
}

func TestStandingRepositoryReconcile(t *testing.T) {
	ctx := context.Background()
	repo := NewStandingRepository()

	bad := item(1, 1)
	bad.Form = "WWWWWWW"
	_, err := repo.Reconcile(ctx, "standings_x", []standing.Standing{bad})
	require.ErrorIs(t, err, usecase.ErrConstraintViolation)

	_, err = repo.ListBySeason(ctx, "standings_x", 2025)
	require.ErrorIs(t, err, usecase.ErrConnectivity)

	n, err := repo.Reconcile(ctx, "standings_x", []standing.Standing{item(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Reconcile(ctx, "Bad Name", nil)
	require.Error(t, err)
}
