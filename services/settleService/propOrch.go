package settleService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
	"pickemEngine/services/ledgerService"
	"pickemEngine/services/recordService"
)

// SettleDuePropMarkets settles every published prop market whose actual value
// has been recorded and whose game is final.
func SettleDuePropMarkets(db *gorm.DB) error {
	var markets []models.PropMarket
	result := db.Joins("Game").
		Where("prop_markets.status = ? AND prop_markets.actual_value IS NOT NULL", models.PropPublished).
		Where("Game.status = ?", models.GameFinal).
		Find(&markets)
	if result.Error != nil {
		return result.Error
	}

	for _, market := range markets {
		if err := SettlePropMarket(db, market); err != nil {
			common.LogError(db, "settle", fmt.Errorf("prop market %d: %v", market.ID, err))
		}
	}
	return nil
}

// SettlePropMarket grades all locked picks against the market's actual value,
// then closes the market. Picks that fail to settle stay locked; the market is
// only closed once every pick has left the locked state.
func SettlePropMarket(db *gorm.DB, market models.PropMarket) error {
	if market.ActualValue == nil {
		return fmt.Errorf("market %d has no actual value", market.ID)
	}

	var picks []models.PropPick
	if err := db.Where("prop_market_id = ? AND status = ?", market.ID, models.WagerLocked).Find(&picks).Error; err != nil {
		return err
	}

	var game models.Game
	if err := db.First(&game, market.GameID).Error; err != nil {
		return err
	}

	failures := 0
	for _, pick := range picks {
		isCorrect, points := gradePropPick(pick, market.Line, *market.ActualValue)
		if err := settlePropPick(db, pick, isCorrect, points); err != nil {
			common.LogError(db, "settle", fmt.Errorf("prop pick %d: %v", pick.ID, err))
			failures++
			continue
		}

		if isCorrect != nil && *isCorrect {
			RecordWin(db, pick.UserID, game.Sport)
		} else if isCorrect != nil {
			RecordLoss(db, pick.UserID, game.Sport)
		} else {
			RecordPush(db, pick.UserID, game.Sport)
		}

		// Best-effort; never aborts the settlement it follows.
		recordService.CheckRecords(db, recordService.Outcome{
			UserID:       pick.UserID,
			Sport:        game.Sport,
			WagerType:    "prop",
			PointsEarned: points,
		})
	}

	if failures > 0 {
		return fmt.Errorf("%d picks failed, market %d stays published for retry", failures, market.ID)
	}

	return db.Model(&models.PropMarket{}).
		Where("id = ? AND status = ?", market.ID, models.PropPublished).
		Update("status", models.PropSettled).Error
}

// gradePropPick compares the actual value to the line. An exact landing on the
// line is a push.
func gradePropPick(pick models.PropPick, line, actual float64) (*bool, int) {
	if actual == line {
		return nil, 0
	}

	over := actual > line
	correct := (pick.Side == models.SideOver) == over
	if correct {
		return &correct, pick.RewardPoints
	}
	return &correct, -pick.RiskPoints
}

func settlePropPick(db *gorm.DB, pick models.PropPick, isCorrect *bool, points int) error {
	result := db.Model(&models.PropPick{}).
		Where("id = ? AND status = ?", pick.ID, models.WagerLocked).
		Updates(map[string]interface{}{
			"status":        models.WagerSettled,
			"is_correct":    isCorrect,
			"points_earned": points,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	if points == 0 {
		return nil
	}

	if err := ledgerService.IncrementUserPoints(db, pick.UserID, points); err != nil {
		revert := db.Model(&models.PropPick{}).
			Where("id = ? AND status = ?", pick.ID, models.WagerSettled).
			Updates(map[string]interface{}{
				"status":        models.WagerLocked,
				"is_correct":    nil,
				"points_earned": 0,
			})
		if revert.Error != nil {
			return fmt.Errorf("ledger increment failed (%v) and revert failed (%v)", err, revert.Error)
		}
		return fmt.Errorf("ledger increment failed, pick reverted to locked: %v", err)
	}

	return nil
}
