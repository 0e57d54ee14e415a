package standing

const (
	// FormLength is the maximum number of recent results kept in Form.
	FormLength = 6
	// DefaultForm is stored when the source provides no usable form.
	DefaultForm = "------"
	// TeamNameMaxLength bounds the persisted team name.
	TeamNameMaxLength = 100
)

// Standing is one team's row in a league table for a season.
// (Season, TeamID) identifies the row; (Season, Position) is unique.
type Standing struct {
	Season       int    `json:"season" validate:"gt=0"`
	Position     int    `json:"position" validate:"gt=0"`
	TeamID       int64  `json:"team_id" validate:"gt=0"`
	Team         string `json:"team" validate:"required,max=100"`
	Played       int    `json:"played" validate:"gte=0"`
	Won          int    `json:"won" validate:"gte=0"`
	Draw         int    `json:"draw" validate:"gte=0"`
	Lost         int    `json:"lost" validate:"gte=0"`
	GoalsFor     int    `json:"goals_for" validate:"gte=0"`
	GoalsAgainst int    `json:"goals_against" validate:"gte=0"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
	Form         string `json:"form" validate:"required,max=6"`
}

// Key is the identity of a standing row.
type Key struct {
	Season int
	TeamID int64
}

func (s Standing) Key() Key {
	return Key{Season: s.Season, TeamID: s.TeamID}
}
