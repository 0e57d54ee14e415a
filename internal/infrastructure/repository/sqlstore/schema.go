package sqlstore

// createStandingsTableSQL is valid for both PostgreSQL and SQLite. The CHECKs
// make SQLite enforce the column lengths as well.
func createStandingsTableSQL(quotedTable string) string {
	return `CREATE TABLE IF NOT EXISTS ` + quotedTable + ` (
	season        INTEGER      NOT NULL,
	position      INTEGER      NOT NULL,
	team_id       BIGINT       NOT NULL,
	team          VARCHAR(100) NOT NULL CHECK (length(team) <= 100),
	played        INTEGER      NOT NULL,
	won           INTEGER      NOT NULL,
	draw          INTEGER      NOT NULL,
	lost          INTEGER      NOT NULL,
	goals_for     INTEGER      NOT NULL,
	goals_against INTEGER      NOT NULL,
	goal_diff     INTEGER      NOT NULL,
	points        INTEGER      NOT NULL,
	form          VARCHAR(6)   NOT NULL CHECK (length(form) <= 6),
	PRIMARY KEY (season, team_id),
	UNIQUE (season, position)
)`
}
