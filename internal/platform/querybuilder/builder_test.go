package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("team_id", "position").
		From("standings_ligue_1").
		Where(Eq("season", 2025)).
		OrderBy("position").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT team_id, position FROM standings_ligue_1 WHERE season = $1 ORDER BY position LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 2025 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("standings").
		Columns("season", "team_id").
		Values(2025, int64(10)).
		Values(2025, int64(11)).
		Suffix("ON CONFLICT (season, team_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO standings (season, team_id) VALUES ($1, $2), ($3, $4) ON CONFLICT (season, team_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != int64(11) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("standings").
		Columns("season", "team_id").
		Values(2025).
		ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilderQuestionPlaceholders(t *testing.T) {
	query, args, err := Update("standings").
		PlaceholderFormat(Question).
		SetExpr("position", "-position").
		Where(
			Eq("season", 2025),
			Expr("position > ?", 0),
			In("team_id", []any{int64(1), int64(2)}),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE standings SET position = -position WHERE season = ? AND position > ? AND team_id IN (?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != 2025 || args[1] != 0 || args[3] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilderDollarNumbering(t *testing.T) {
	query, args, err := Update("standings").
		Set("form", "WWDLLW").
		SetExpr("points", "points + ?", 3).
		Where(Eq("team_id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE standings SET form = $1, points = points + $2 WHERE team_id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestEmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("team_id").From("standings").Where(In("team_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT team_id FROM standings WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}
