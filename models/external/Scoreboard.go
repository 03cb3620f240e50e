package external

// Secondary live scoreboard feed. Display only, never authoritative for
// finalizing a game.

const (
	ScoreboardPre  = "pre"
	ScoreboardIn   = "in"
	ScoreboardPost = "post"
)

type Scoreboard_Response struct {
	Events []Scoreboard_Event `json:"events"`
}

type Scoreboard_Event struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Period    string `json:"period"`
	Clock     string `json:"clock"`
	State     string `json:"state"` // "pre", "in", "post"
}
