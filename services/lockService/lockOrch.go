package lockService

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
)

// LockStartedGames moves every upcoming game whose start time has passed to
// live, then locks all pending wagers referencing it. The sweep also covers
// games already live: wager locking keys off each wager's own pending status,
// not off winning the game transition, so stragglers left by a partial failure
// or crash are picked up on the next run.
func LockStartedGames(db *gorm.DB) error {
	var games []models.Game
	result := db.Where("status IN ? AND starts_at <= ?",
		[]string{models.GameUpcoming, models.GameLive}, time.Now()).Find(&games)
	if result.Error != nil {
		return result.Error
	}

	for _, game := range games {
		if game.Status == models.GameUpcoming {
			transition := db.Model(&models.Game{}).
				Where("id = ? AND status = ?", game.ID, models.GameUpcoming).
				Update("status", models.GameLive)
			if transition.Error != nil {
				common.LogError(db, "lock", fmt.Errorf("game %d to live: %v", game.ID, transition.Error))
			}
		}

		lockWagersForGame(db, game)
	}

	return nil
}

// lockWagersForGame locks each wager type independently. A failure on one
// wager never blocks the others; errors are logged and counted.
func lockWagersForGame(db *gorm.DB, game models.Game) {
	failures := 0
	failures += lockStraightPicks(db, game)
	failures += lockSurvivorPicks(db, game)
	failures += lockPropPicks(db, game)
	failures += lockParlayLegs(db, game)

	if failures > 0 {
		log.Printf("game %d: %d wagers failed to lock; next cycle retries them", game.ID, failures)
	}
}

func lockStraightPicks(db *gorm.DB, game models.Game) int {
	var picks []models.StraightPick
	if err := db.Where("game_id = ? AND status = ?", game.ID, models.WagerPending).Find(&picks).Error; err != nil {
		common.LogError(db, "lock", fmt.Errorf("straight picks for game %d: %v", game.ID, err))
		return 1
	}

	failures := 0
	for _, pick := range picks {
		reward := common.CalculateReward(pick.RiskPoints, pick.Odds)
		result := db.Model(&models.StraightPick{}).
			Where("id = ? AND status = ?", pick.ID, models.WagerPending).
			Updates(map[string]interface{}{
				"status":        models.WagerLocked,
				"reward_points": reward,
			})
		if result.Error != nil {
			common.LogError(db, "lock", fmt.Errorf("straight pick %d: %v", pick.ID, result.Error))
			failures++
		}
	}
	return failures
}

func lockSurvivorPicks(db *gorm.DB, game models.Game) int {
	result := db.Model(&models.SurvivorPick{}).
		Where("game_id = ? AND status = ?", game.ID, models.WagerPending).
		Update("status", models.WagerLocked)
	if result.Error != nil {
		common.LogError(db, "lock", fmt.Errorf("survivor picks for game %d: %v", game.ID, result.Error))
		return 1
	}
	return 0
}

func lockPropPicks(db *gorm.DB, game models.Game) int {
	var markets []models.PropMarket
	if err := db.Where("game_id = ? AND status = ?", game.ID, models.PropPublished).Find(&markets).Error; err != nil {
		common.LogError(db, "lock", fmt.Errorf("prop markets for game %d: %v", game.ID, err))
		return 1
	}

	failures := 0
	for _, market := range markets {
		var picks []models.PropPick
		if err := db.Where("prop_market_id = ? AND status = ?", market.ID, models.WagerPending).Find(&picks).Error; err != nil {
			common.LogError(db, "lock", fmt.Errorf("prop picks for market %d: %v", market.ID, err))
			failures++
			continue
		}

		for _, pick := range picks {
			reward := common.CalculateReward(pick.RiskPoints, pick.Odds)
			result := db.Model(&models.PropPick{}).
				Where("id = ? AND status = ?", pick.ID, models.WagerPending).
				Updates(map[string]interface{}{
					"status":        models.WagerLocked,
					"reward_points": reward,
				})
			if result.Error != nil {
				common.LogError(db, "lock", fmt.Errorf("prop pick %d: %v", pick.ID, result.Error))
				failures++
			}
		}
	}
	return failures
}

func lockParlayLegs(db *gorm.DB, game models.Game) int {
	var legs []models.ParlayLeg
	if err := db.Where("game_id = ? AND status = ?", game.ID, models.WagerPending).Find(&legs).Error; err != nil {
		common.LogError(db, "lock", fmt.Errorf("parlay legs for game %d: %v", game.ID, err))
		return 1
	}

	failures := 0
	for _, leg := range legs {
		multiplier := common.AmericanToMultiplier(leg.Odds)
		result := db.Model(&models.ParlayLeg{}).
			Where("id = ? AND status = ?", leg.ID, models.WagerPending).
			Updates(map[string]interface{}{
				"status":     models.WagerLocked,
				"multiplier": multiplier,
			})
		if result.Error != nil {
			common.LogError(db, "lock", fmt.Errorf("parlay leg %d: %v", leg.ID, result.Error))
			failures++
			continue
		}

		// The first leg to lock flips the parent; the guard makes later legs
		// a no-op.
		parent := db.Model(&models.Parlay{}).
			Where("id = ? AND status = ?", leg.ParlayID, models.WagerPending).
			Update("status", models.WagerLocked)
		if parent.Error != nil {
			common.LogError(db, "lock", fmt.Errorf("parlay %d: %v", leg.ParlayID, parent.Error))
			failures++
		}
	}
	return failures
}
