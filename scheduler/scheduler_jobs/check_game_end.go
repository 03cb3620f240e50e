package scheduler_jobs

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/models/external"
	"pickemEngine/services/bracketService"
	"pickemEngine/services/common"
	"pickemEngine/services/liveService"
	"pickemEngine/services/oddsService"
	"pickemEngine/services/parlayService"
	"pickemEngine/services/settleService"
)

const recentWindow = 12 * time.Hour

// CheckGameEnd finalizes games the odds provider reports as completed and
// drives every dependent settlement. Any settlement failure reverts the game
// to live so the next cycle retries from scratch; the status guards in the
// engines make that retry safe.
func CheckGameEnd(db *gorm.DB, gw *oddsService.Gateway) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckGameEnd", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckGameEnd: %v", r)
		}
	}()

	sports, err := sportsNeedingCheck(db)
	if err != nil {
		return err
	}
	if len(sports) == 0 {
		return nil
	}

	for _, sport := range sports {
		events, fetchErr := gw.FetchScores(sport, 2)
		if fetchErr != nil {
			var terminal *oddsService.TerminalError
			if errors.As(fetchErr, &terminal) {
				common.LogError(db, "scores", fmt.Errorf("%s aborted: %v", sport, terminal))
			} else {
				// Retries exhausted: nothing to do this cycle.
				log.Printf("no score data for %s this cycle: %v", sport, fetchErr)
			}
			continue
		}

		for _, event := range events {
			if !event.Completed {
				continue
			}
			if finalizeErr := finalizeAndSettle(db, sport, event); finalizeErr != nil {
				common.LogError(db, "scores", fmt.Errorf("event %s: %v", event.ID, finalizeErr))
			}
		}
	}

	return nil
}

// sportsNeedingCheck is the smart gate: only sports with a live game, or a
// not-yet-final game that started within the last 12 hours, earn a provider
// call.
func sportsNeedingCheck(db *gorm.DB) ([]string, error) {
	now := time.Now()
	var sports []string
	err := db.Model(&models.Game{}).
		Where("status = ? OR (status <> ? AND starts_at BETWEEN ? AND ?)",
			models.GameLive, models.GameFinal, now.Add(-recentWindow), now).
		Distinct("sport").
		Pluck("sport", &sports).Error
	return sports, err
}

// finalizeAndSettle writes the final score and winner, then runs the four
// settlement calls. The finalization write happens before any settlement; a
// settlement error reverts the game to live and skips the event.
func finalizeAndSettle(db *gorm.DB, sport string, event external.OddsAPI_ScoreEvent) error {
	var game models.Game
	lookupErr := db.Where("provider_id = ? AND status = ?", event.ID, models.GameLive).First(&game).Error
	if lookupErr == gorm.ErrRecordNotFound {
		// Already final from another cycle, never tracked, or not yet moved
		// to live by the lock sweep; the lock job owns upcoming->live.
		return nil
	}
	if lookupErr != nil {
		return lookupErr
	}

	homeScore, awayScore, scoreErr := resolveScores(game, event)
	if scoreErr != nil {
		return scoreErr
	}
	winner := common.ComputeWinner(homeScore, awayScore)

	finalize := db.Model(&models.Game{}).
		Where("id = ? AND status = ?", game.ID, models.GameLive).
		Updates(map[string]interface{}{
			"status":     models.GameFinal,
			"home_score": homeScore,
			"away_score": awayScore,
			"winner":     winner,
		})
	if finalize.Error != nil {
		return finalize.Error
	}
	if finalize.RowsAffected == 0 {
		return nil
	}

	game.Status = models.GameFinal
	game.HomeScore = &homeScore
	game.AwayScore = &awayScore
	game.Winner = winner

	if settleErr := runSettlements(db, game); settleErr != nil {
		revert := db.Model(&models.Game{}).
			Where("id = ? AND status = ?", game.ID, models.GameFinal).
			Update("status", models.GameLive)
		if revert.Error != nil {
			return fmt.Errorf("settlement failed (%v) and revert failed (%v)", settleErr, revert.Error)
		}
		return fmt.Errorf("settlement failed, game %d reverted to live: %v", game.ID, settleErr)
	}

	return nil
}

func runSettlements(db *gorm.DB, game models.Game) error {
	if err := settleService.SettleStraightPicksForGame(db, game); err != nil {
		return fmt.Errorf("straight picks: %v", err)
	}
	if err := parlayService.ResolveLegsForGame(db, game); err != nil {
		return fmt.Errorf("parlay legs: %v", err)
	}
	if err := settleService.SettleSurvivorPicksForGame(db, game); err != nil {
		return fmt.Errorf("survivor picks: %v", err)
	}
	if game.Winner != nil {
		if err := bracketService.SettleMatchupsForGame(db, game); err != nil {
			return fmt.Errorf("bracket matchups: %v", err)
		}
	}
	return nil
}

// resolveScores matches the provider's per-team score entries to the game's
// home and away teams.
func resolveScores(game models.Game, event external.OddsAPI_ScoreEvent) (int, int, error) {
	var homeScore, awayScore *int
	for _, teamScore := range event.Scores {
		value, convErr := strconv.Atoi(teamScore.Score)
		if convErr != nil {
			return 0, 0, fmt.Errorf("unparseable score %q for %s", teamScore.Score, teamScore.Name)
		}
		switch liveService.Normalize(teamScore.Name) {
		case liveService.Normalize(game.HomeTeam):
			v := value
			homeScore = &v
		case liveService.Normalize(game.AwayTeam):
			v := value
			awayScore = &v
		}
	}

	if homeScore == nil || awayScore == nil {
		return 0, 0, fmt.Errorf("scores missing for %s vs %s", game.HomeTeam, game.AwayTeam)
	}
	return *homeScore, *awayScore, nil
}
