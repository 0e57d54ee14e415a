package querybuilder

import "testing"

type rowModel struct {
	Season  int    `db:"season"`
	TeamID  int64  `db:"team_id"`
	Team    string `db:"team"`
	ignored string
	Skip    string `db:"-"`
}

func TestInsertModels(t *testing.T) {
	b, err := InsertModels("standings", []rowModel{
		{Season: 2025, TeamID: 1, Team: "A"},
		{Season: 2025, TeamID: 2, Team: "B"},
	})
	if err != nil {
		t.Fatalf("insert models: %v", err)
	}

	query, args, err := b.PlaceholderFormat(Question).ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO standings (season, team_id, team) VALUES (?, ?, ?), (?, ?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[5] != "B" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelsRejectsEmpty(t *testing.T) {
	if _, err := InsertModels[rowModel]("standings", nil); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestColumns(t *testing.T) {
	cols, err := Columns(&rowModel{})
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 3 || cols[0] != "season" || cols[2] != "team" {
		t.Fatalf("unexpected columns: %v", cols)
	}

	if _, err := Columns(42); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}
