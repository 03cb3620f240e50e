package bracketService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
)

// SettleMatchupsForGame decides every open bracket matchup linked to a
// finalized game. Only called with a non-push winner; ties leave the matchup
// open for an eventual replay or manual resolution.
func SettleMatchupsForGame(db *gorm.DB, game models.Game) error {
	if game.Winner == nil {
		return nil
	}

	winnerName := game.HomeTeam
	if *game.Winner == models.WinnerAway {
		winnerName = game.AwayTeam
	}

	var matchups []models.BracketMatchup
	result := db.Where("game_id = ? AND status = ?", game.ID, models.MatchupOpen).Find(&matchups)
	if result.Error != nil {
		return result.Error
	}

	for _, matchup := range matchups {
		decide := db.Model(&models.BracketMatchup{}).
			Where("id = ? AND status = ?", matchup.ID, models.MatchupOpen).
			Updates(map[string]interface{}{
				"status": models.MatchupDecided,
				"winner": winnerName,
			})
		if decide.Error != nil {
			common.LogError(db, "bracket", fmt.Errorf("matchup %d: %v", matchup.ID, decide.Error))
			continue
		}
		if decide.RowsAffected == 0 {
			continue
		}

		advanceWinner(db, matchup, winnerName)
	}

	return nil
}

// advanceWinner seeds the decided winner into the next round's slot when that
// matchup already exists. Half slots feed the home side, the rest the away
// side.
func advanceWinner(db *gorm.DB, matchup models.BracketMatchup, winnerName string) {
	nextRound := matchup.Round + 1
	nextSlot := matchup.Slot / 2

	var next models.BracketMatchup
	err := db.Where("round = ? AND slot = ?", nextRound, nextSlot).First(&next).Error
	if err == gorm.ErrRecordNotFound {
		return
	}
	if err != nil {
		common.LogError(db, "bracket", fmt.Errorf("next matchup lookup: %v", err))
		return
	}

	column := "home_team"
	if matchup.Slot%2 == 1 {
		column = "away_team"
	}
	if err := db.Model(&models.BracketMatchup{}).Where("id = ?", next.ID).Update(column, winnerName).Error; err != nil {
		common.LogError(db, "bracket", fmt.Errorf("advance into matchup %d: %v", next.ID, err))
	}
}
