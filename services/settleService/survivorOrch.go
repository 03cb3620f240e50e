package settleService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
	"pickemEngine/services/notifyService"
)

// SettleSurvivorPicksForGame grades every locked survivor pick on a finalized
// game. No points flow: an incorrect pick eliminates the entry, a push
// survives. The guarded settle write keeps overlapping runs from eliminating
// twice.
func SettleSurvivorPicksForGame(db *gorm.DB, game models.Game) error {
	var picks []models.SurvivorPick
	result := db.Where("game_id = ? AND status = ?", game.ID, models.WagerLocked).Find(&picks)
	if result.Error != nil {
		return result.Error
	}

	failures := 0
	for _, pick := range picks {
		var isCorrect *bool
		if game.Winner != nil {
			correct := pick.PickedTeam == *game.Winner
			isCorrect = &correct
		}

		settle := db.Model(&models.SurvivorPick{}).
			Where("id = ? AND status = ?", pick.ID, models.WagerLocked).
			Updates(map[string]interface{}{
				"status":     models.WagerSettled,
				"is_correct": isCorrect,
			})
		if settle.Error != nil {
			common.LogError(db, "settle", fmt.Errorf("survivor pick %d: %v", pick.ID, settle.Error))
			failures++
			continue
		}
		if settle.RowsAffected == 0 {
			continue
		}

		if isCorrect != nil && !*isCorrect {
			eliminate := db.Model(&models.SurvivorEntry{}).
				Where("id = ? AND status = ?", pick.EntryID, models.EntryAlive).
				Update("status", models.EntryEliminated)
			if eliminate.Error != nil {
				common.LogError(db, "settle", fmt.Errorf("survivor entry %d: %v", pick.EntryID, eliminate.Error))
				failures++
				continue
			}
			if eliminate.RowsAffected > 0 {
				var entry models.SurvivorEntry
				if err := db.First(&entry, pick.EntryID).Error; err == nil {
					message := fmt.Sprintf("Your survivor pick on %s didn't hold up. You're out for the season.", pick.PickedTeam)
					notifyService.Create(db, entry.UserID, "survivor_eliminated", message, "")
				}
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d survivor picks failed to settle on game %d", failures, game.ID)
	}
	return nil
}
