package parlayService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
	"pickemEngine/services/ledgerService"
	"pickemEngine/services/notifyService"
	"pickemEngine/services/recordService"
)

// legOutcome returns the leg status a finalized game implies for a pick.
func legOutcome(pickedTeam string, winner *string) string {
	if winner == nil {
		return models.LegPush
	}
	if pickedTeam == *winner {
		return models.LegWon
	}
	return models.LegLost
}

// ResolveLegsForGame resolves every locked leg on a finalized game, then
// attempts to settle each parent parlay that was touched. Per-parlay failures
// are logged and the remaining parlays still settle, but the batch reports
// them so the caller reverts the game and the next cycle retries.
func ResolveLegsForGame(db *gorm.DB, game models.Game) error {
	var legs []models.ParlayLeg
	result := db.Where("game_id = ? AND status = ?", game.ID, models.WagerLocked).Find(&legs)
	if result.Error != nil {
		return result.Error
	}

	failures := 0
	touched := make(map[uint]bool)
	for _, leg := range legs {
		outcome := legOutcome(leg.PickedTeam, game.Winner)
		update := db.Model(&models.ParlayLeg{}).
			Where("id = ? AND status = ?", leg.ID, models.WagerLocked).
			Update("status", outcome)
		if update.Error != nil {
			common.LogError(db, "parlay", fmt.Errorf("leg %d: %v", leg.ID, update.Error))
			failures++
			continue
		}
		touched[leg.ParlayID] = true
	}

	for parlayID := range touched {
		if err := TrySettleParlay(db, parlayID); err != nil {
			common.LogError(db, "parlay", fmt.Errorf("parlay %d: %v", parlayID, err))
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d parlay resolutions failed on game %d", failures, game.ID)
	}
	return nil
}

// Verdict is the output of the parlay readiness predicate.
type Verdict struct {
	Ready      bool
	Won        bool
	Push       bool // every resolved leg pushed
	Multiplier float64
}

// Decide is the single readiness predicate for a parlay's legs. A single lost
// leg settles the parlay immediately as a total loss, before the remaining
// legs resolve. Otherwise the parlay waits for every leg; pushed legs drop out
// of the multiplier product.
func Decide(legs []models.ParlayLeg) Verdict {
	anyUnresolved := false
	allPush := true
	multiplier := 1.0
	anyWon := false

	for _, leg := range legs {
		switch leg.Status {
		case models.LegLost:
			return Verdict{Ready: true, Won: false}
		case models.WagerPending, models.WagerLocked:
			anyUnresolved = true
		case models.LegWon:
			allPush = false
			anyWon = true
			if leg.Multiplier != nil {
				multiplier *= *leg.Multiplier
			}
		case models.LegPush:
			// excluded from the product; the leg is removed from the parlay
		}
	}

	if anyUnresolved {
		return Verdict{}
	}
	if allPush || !anyWon {
		return Verdict{Ready: true, Push: true, Multiplier: 1.0}
	}
	return Verdict{Ready: true, Won: true, Multiplier: multiplier}
}

// TrySettleParlay settles the parlay if its legs permit. Safe to call any
// number of times: the status guard makes repeat settlement a no-op.
func TrySettleParlay(db *gorm.DB, parlayID uint) error {
	var parlay models.Parlay
	if err := db.Preload("Legs").First(&parlay, parlayID).Error; err != nil {
		return err
	}
	if parlay.Status != models.WagerLocked {
		return nil
	}

	verdict := Decide(parlay.Legs)
	if !verdict.Ready {
		return nil
	}

	won := true
	lost := false
	switch {
	case verdict.Won:
		reward := common.ParlayReward(parlay.RiskPoints, verdict.Multiplier)
		return settleParlay(db, parlay, &won, verdict.Multiplier, reward, reward)
	case verdict.Push:
		return settleParlay(db, parlay, nil, 1.0, 0, 0)
	default:
		return settleParlay(db, parlay, &lost, 0, 0, -parlay.RiskPoints)
	}
}

func settleParlay(db *gorm.DB, parlay models.Parlay, isCorrect *bool, multiplier float64, reward, points int) error {
	won := isCorrect != nil && *isCorrect
	values := map[string]interface{}{
		"status":        models.WagerSettled,
		"is_correct":    isCorrect,
		"points_earned": points,
	}
	if won || points == 0 {
		values["combined_multiplier"] = multiplier
		values["reward_points"] = reward
	}

	result := db.Model(&models.Parlay{}).
		Where("id = ? AND status = ?", parlay.ID, models.WagerLocked).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	if points != 0 {
		if err := ledgerService.IncrementUserPoints(db, parlay.UserID, points); err != nil {
			revert := db.Model(&models.Parlay{}).
				Where("id = ? AND status = ?", parlay.ID, models.WagerSettled).
				Updates(map[string]interface{}{
					"status":              models.WagerLocked,
					"is_correct":          nil,
					"points_earned":       0,
					"combined_multiplier": nil,
					"reward_points":       nil,
				})
			if revert.Error != nil {
				return fmt.Errorf("ledger increment failed (%v) and revert failed (%v)", err, revert.Error)
			}
			return fmt.Errorf("ledger increment failed, parlay reverted to locked: %v", err)
		}
	}

	if won {
		message := fmt.Sprintf("Your parlay hit at %.2fx for %d points!", multiplier, points)
		notifyService.Create(db, parlay.UserID, "parlay_won", message, "")
		recordService.CheckRecords(db, recordService.Outcome{
			UserID:       parlay.UserID,
			WagerType:    "parlay",
			PointsEarned: points,
			Multiplier:   multiplier,
		})
	} else if points < 0 {
		message := fmt.Sprintf("Your parlay lost. %d points gone.", parlay.RiskPoints)
		notifyService.Create(db, parlay.UserID, "parlay_lost", message, "")
	}

	return nil
}
