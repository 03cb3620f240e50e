package external

import "time"

type OddsAPI_ScoreEvent struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	Completed    bool      `json:"completed"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Scores       []OddsAPI_TeamScore `json:"scores"`
	LastUpdate   *time.Time          `json:"last_update"`
}

type OddsAPI_TeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}
