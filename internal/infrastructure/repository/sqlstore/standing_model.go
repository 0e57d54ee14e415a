package sqlstore

import "github.com/riskibarqy/standings-sync/internal/domain/standing"

type standingRow struct {
	Season       int    `db:"season"`
	Position     int    `db:"position"`
	TeamID       int64  `db:"team_id"`
	Team         string `db:"team"`
	Played       int    `db:"played"`
	Won          int    `db:"won"`
	Draw         int    `db:"draw"`
	Lost         int    `db:"lost"`
	GoalsFor     int    `db:"goals_for"`
	GoalsAgainst int    `db:"goals_against"`
	GoalDiff     int    `db:"goal_diff"`
	Points       int    `db:"points"`
	Form         string `db:"form"`
}

func toStandingRow(s standing.Standing) standingRow {
	return standingRow{
		Season:       s.Season,
		Position:     s.Position,
		TeamID:       s.TeamID,
		Team:         s.Team,
		Played:       s.Played,
		Won:          s.Won,
		Draw:         s.Draw,
		Lost:         s.Lost,
		GoalsFor:     s.GoalsFor,
		GoalsAgainst: s.GoalsAgainst,
		GoalDiff:     s.GoalDiff,
		Points:       s.Points,
		Form:         s.Form,
	}
}

func (r standingRow) toDomain() standing.Standing {
	return standing.Standing{
		Season:       r.Season,
		Position:     r.Position,
		TeamID:       r.TeamID,
		Team:         r.Team,
		Played:       r.Played,
		Won:          r.Won,
		Draw:         r.Draw,
		Lost:         r.Lost,
		GoalsFor:     r.GoalsFor,
		GoalsAgainst: r.GoalsAgainst,
		GoalDiff:     r.GoalDiff,
		Points:       r.Points,
		Form:         r.Form,
	}
}
