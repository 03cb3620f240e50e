package settleService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
	"pickemEngine/services/ledgerService"
	"pickemEngine/services/recordService"
)

// SettleStraightPicksForGame settles every locked straight pick on a finalized
// game. A failure on one pick is logged and the remaining picks still settle,
// but the batch reports the failure so the caller reverts the game and the
// next cycle retries the stragglers.
func SettleStraightPicksForGame(db *gorm.DB, game models.Game) error {
	var picks []models.StraightPick
	result := db.Where("game_id = ? AND status = ?", game.ID, models.WagerLocked).Find(&picks)
	if result.Error != nil {
		return result.Error
	}

	failures := 0
	for _, pick := range picks {
		isCorrect, points := gradeStraightPick(pick, game.Winner)
		if err := settleStraightPick(db, pick, isCorrect, points); err != nil {
			common.LogError(db, "settle", fmt.Errorf("straight pick %d: %v", pick.ID, err))
			failures++
			continue
		}

		if isCorrect != nil && *isCorrect {
			RecordWin(db, pick.UserID, game.Sport)
			recordService.CheckRecords(db, recordService.Outcome{
				UserID:       pick.UserID,
				Sport:        game.Sport,
				WagerType:    "straight",
				PointsEarned: points,
			})
		} else if isCorrect != nil {
			RecordLoss(db, pick.UserID, game.Sport)
		} else {
			RecordPush(db, pick.UserID, game.Sport)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d straight picks failed to settle on game %d", failures, game.ID)
	}
	return nil
}

// gradeStraightPick returns (nil, 0) on a push, otherwise correctness and the
// signed point delta from the lock-time snapshot.
func gradeStraightPick(pick models.StraightPick, winner *string) (*bool, int) {
	if winner == nil {
		return nil, 0
	}
	correct := pick.PickedTeam == *winner
	if correct {
		return &correct, pick.RewardPoints
	}
	return &correct, -pick.RiskPoints
}

// settleStraightPick performs the guarded settle write followed by the ledger
// increment, reverting the row to locked if the increment fails so the whole
// settlement is retried together.
func settleStraightPick(db *gorm.DB, pick models.StraightPick, isCorrect *bool, points int) error {
	result := db.Model(&models.StraightPick{}).
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
		// Already settled by an overlapping run.
		return nil
	}

	if points == 0 {
		return nil
	}

	if err := ledgerService.IncrementUserPoints(db, pick.UserID, points); err != nil {
		revert := db.Model(&models.StraightPick{}).
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
