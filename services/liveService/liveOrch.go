package liveService

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/models/external"
	"pickemEngine/services/common"
)

var scoreboardURLs = map[string]string{
	"americanfootball_nfl":  "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
	"basketball_nba":        "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard",
	"baseball_mlb":          "https://site.api.espn.com/apis/site/v2/sports/baseball/mlb/scoreboard",
	"icehockey_nhl":         "https://site.api.espn.com/apis/site/v2/sports/hockey/nhl/scoreboard",
	"basketball_ncaab":      "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball/scoreboard",
	"americanfootball_ncaaf": "https://site.api.espn.com/apis/site/v2/sports/football/college-football/scoreboard",
}

// UpdateLiveScores pulls the auxiliary scoreboard feed for each sport that has
// live games and refreshes their display fields. It never transitions game
// status; finalization belongs to the score check against the authoritative
// provider.
func UpdateLiveScores(db *gorm.DB) error {
	var sports []string
	err := db.Model(&models.Game{}).
		Where("status = ?", models.GameLive).
		Distinct("sport").
		Pluck("sport", &sports).Error
	if err != nil {
		return err
	}

	for _, sport := range sports {
		feedURL, known := scoreboardURLs[sport]
		if !known {
			continue
		}

		events, err := fetchScoreboard(feedURL)
		if err != nil {
			common.LogError(db, "live", fmt.Errorf("scoreboard feed for %s: %v", sport, err))
			continue
		}

		var games []models.Game
		if err := db.Where("sport = ? AND status = ?", sport, models.GameLive).Find(&games).Error; err != nil {
			common.LogError(db, "live", err)
			continue
		}

		for _, event := range events {
			if event.State != external.ScoreboardIn {
				continue
			}
			game := matchEvent(games, event)
			if game == nil {
				continue
			}

			update := db.Model(&models.Game{}).
				Where("id = ? AND status = ?", game.ID, models.GameLive).
				Updates(map[string]interface{}{
					"live_home_score": event.HomeScore,
					"live_away_score": event.AwayScore,
					"period":          event.Period,
					"clock":           event.Clock,
				})
			if update.Error != nil {
				common.LogError(db, "live", fmt.Errorf("game %d live update: %v", game.ID, update.Error))
			}
		}
	}

	return nil
}

func fetchScoreboard(feedURL string) ([]external.Scoreboard_Event, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(feedURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard feed returned %d", resp.StatusCode)
	}

	var scoreboard external.Scoreboard_Response
	if err := json.NewDecoder(resp.Body).Decode(&scoreboard); err != nil {
		return nil, err
	}
	return scoreboard.Events, nil
}

// matchEvent pairs a feed event with a Game row by team names. Preference
// order: exact match, substring containment, last-word nickname match.
func matchEvent(games []models.Game, event external.Scoreboard_Event) *models.Game {
	eventHome := Normalize(event.HomeTeam)
	eventAway := Normalize(event.AwayTeam)

	for i, game := range games {
		if Normalize(game.HomeTeam) == eventHome && Normalize(game.AwayTeam) == eventAway {
			return &games[i]
		}
	}
	for i, game := range games {
		if contains(Normalize(game.HomeTeam), eventHome) && contains(Normalize(game.AwayTeam), eventAway) {
			return &games[i]
		}
	}
	for i, game := range games {
		if lastWord(game.HomeTeam) == lastWord(event.HomeTeam) && lastWord(game.AwayTeam) == lastWord(event.AwayTeam) {
			return &games[i]
		}
	}
	return nil
}

// Normalize lowercases and strips punctuation that differs between feeds.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(".", "", "'", "", "-", " ", "&", "and")
	name = replacer.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

func contains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// lastWord is the team nickname in most feeds ("New York Jets" -> "jets").
func lastWord(name string) string {
	fields := strings.Fields(Normalize(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
