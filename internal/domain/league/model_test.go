package league

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNameFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{name: "Premier League", want: "standings_premier_league"},
		{name: "Ligue 1", want: "standings_ligue_1"},
		{name: "  Serie A -- TIM ", want: "standings_serie_a_tim"},
		{name: "2. Bundesliga", want: "standings_2_bundesliga"},
	}
	for _, tc := range cases {
		got, err := TableNameFor(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got)
	}
}

func TestTableNameForRejectsUnusableName(t *testing.T) {
	t.Parallel()

	_, err := TableNameFor("—!!")
	require.Error(t, err)

	_, err = TableNameFor(strings.Repeat("x", 70))
	require.Error(t, err)
}

func TestLeagueTablePrefersExplicitName(t *testing.T) {
	t.Parallel()

	table, err := League{ID: 2, Name: "Premier League", TableName: "epl_table"}.Table()
	require.NoError(t, err)
	assert.Equal(t, "epl_table", table)

	_, err = League{ID: 2, Name: "Premier League", TableName: "bad; drop"}.Table()
	require.Error(t, err)
}

func TestLeagueValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, League{ID: 5, Name: "Ligue 1"}.Validate())
	require.Error(t, League{ID: 0, Name: "Ligue 1"}.Validate())
	require.Error(t, League{ID: 5, Name: " "}.Validate())
	require.Error(t, League{ID: 5, Name: "Ligue 1", TableName: "Upper"}.Validate())
}
