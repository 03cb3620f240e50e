package settleService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
	"pickemEngine/services/ledgerService"
	"pickemEngine/services/recordService"
)

// SettleDueFuturesMarkets settles every open futures market whose winning
// outcome has been recorded.
func SettleDueFuturesMarkets(db *gorm.DB) error {
	var markets []models.FuturesMarket
	result := db.Where("status = ? AND winning_outcome IS NOT NULL", models.FuturesOpen).Find(&markets)
	if result.Error != nil {
		return result.Error
	}

	for _, market := range markets {
		if err := SettleFuturesMarket(db, market); err != nil {
			common.LogError(db, "settle", fmt.Errorf("futures market %d: %v", market.ID, err))
		}
	}
	return nil
}

// SettleFuturesMarket grades all locked picks against the winning outcome and
// closes the market once every pick is settled. Futures never push: there is
// always exactly one winning outcome.
func SettleFuturesMarket(db *gorm.DB, market models.FuturesMarket) error {
	if market.WinningOutcome == nil {
		return fmt.Errorf("market %d has no winning outcome", market.ID)
	}

	var picks []models.FuturesPick
	if err := db.Where("futures_market_id = ? AND status = ?", market.ID, models.WagerLocked).Find(&picks).Error; err != nil {
		return err
	}

	failures := 0
	for _, pick := range picks {
		correct := pick.PickedOutcome == *market.WinningOutcome
		points := -pick.RiskPoints
		if correct {
			points = pick.RewardPoints
		}

		if err := settleFuturesPick(db, pick, correct, points); err != nil {
			common.LogError(db, "settle", fmt.Errorf("futures pick %d: %v", pick.ID, err))
			failures++
			continue
		}

		if correct {
			RecordWin(db, pick.UserID, market.Sport)
		} else {
			RecordLoss(db, pick.UserID, market.Sport)
		}

		recordService.CheckRecords(db, recordService.Outcome{
			UserID:       pick.UserID,
			Sport:        market.Sport,
			WagerType:    "futures",
			PointsEarned: points,
		})
	}

	if failures > 0 {
		return fmt.Errorf("%d picks failed, market %d stays open for retry", failures, market.ID)
	}

	return db.Model(&models.FuturesMarket{}).
		Where("id = ? AND status = ?", market.ID, models.FuturesOpen).
		Update("status", models.FuturesSettled).Error
}

func settleFuturesPick(db *gorm.DB, pick models.FuturesPick, correct bool, points int) error {
	result := db.Model(&models.FuturesPick{}).
		Where("id = ? AND status = ?", pick.ID, models.WagerLocked).
		Updates(map[string]interface{}{
			"status":        models.WagerSettled,
			"is_correct":    correct,
			"points_earned": points,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	if err := ledgerService.IncrementUserPoints(db, pick.UserID, points); err != nil {
		revert := db.Model(&models.FuturesPick{}).
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
