package settleService

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/notifyService"
)

const streakMilestoneInterval = 5

// RecordWin bumps the per-sport win streak and, when the new streak crosses a
// milestone (>= 5, multiples of 5), emits a streak event row and a
// notification. Side channel only: errors are logged, never returned.
func RecordWin(db *gorm.DB, userID uint, sport string) {
	stats, err := statsFor(db, userID, sport)
	if err != nil {
		log.Printf("streak update skipped for user %d: %v", userID, err)
		return
	}

	stats.Wins++
	stats.CurrentStreak++
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	if err := db.Save(&stats).Error; err != nil {
		log.Printf("streak save failed for user %d: %v", userID, err)
		return
	}

	if stats.CurrentStreak >= streakMilestoneInterval && stats.CurrentStreak%streakMilestoneInterval == 0 {
		event := models.StreakEvent{
			UserID:       userID,
			Sport:        sport,
			StreakLength: stats.CurrentStreak,
		}
		if err := db.Create(&event).Error; err != nil {
			log.Printf("streak event insert failed for user %d: %v", userID, err)
		}

		message := fmt.Sprintf("You're on a %d game win streak!", stats.CurrentStreak)
		metadata := fmt.Sprintf(`{"sport":%q,"streak":%d}`, sport, stats.CurrentStreak)
		notifyService.Create(db, userID, "streak_milestone", message, metadata)
	}
}

func RecordLoss(db *gorm.DB, userID uint, sport string) {
	stats, err := statsFor(db, userID, sport)
	if err != nil {
		log.Printf("streak update skipped for user %d: %v", userID, err)
		return
	}

	stats.Losses++
	stats.CurrentStreak = 0
	if err := db.Save(&stats).Error; err != nil {
		log.Printf("streak save failed for user %d: %v", userID, err)
	}
}

// RecordPush counts the push but leaves the streak alone.
func RecordPush(db *gorm.DB, userID uint, sport string) {
	stats, err := statsFor(db, userID, sport)
	if err != nil {
		log.Printf("streak update skipped for user %d: %v", userID, err)
		return
	}

	stats.Pushes++
	if err := db.Save(&stats).Error; err != nil {
		log.Printf("streak save failed for user %d: %v", userID, err)
	}
}

func statsFor(db *gorm.DB, userID uint, sport string) (models.UserSportStats, error) {
	var stats models.UserSportStats
	err := db.FirstOrCreate(&stats, models.UserSportStats{UserID: userID, Sport: sport}).Error
	return stats, err
}
