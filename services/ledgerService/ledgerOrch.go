package ledgerService

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"pickemEngine/models"
)

// IncrementUserPoints is the only mutator of a user's total point balance.
// The delta is applied as a single database-level increment so concurrent
// settlements of different wagers for the same user never lose updates.
func IncrementUserPoints(db *gorm.DB, userID uint, delta int) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found for ledger increment", userID)
	}
	return nil
}

// ReconcileUserPoints recomputes each user's total from the sum of all settled
// wagers' points_earned and corrects drift with one compensating increment per
// user. Repair path only; the hot settlement path never calls this.
func ReconcileUserPoints(db *gorm.DB) error {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return err
	}

	corrected := 0
	for _, user := range users {
		expected, err := settledPointsTotal(db, user.ID)
		if err != nil {
			log.Printf("reconcile: error totaling user %d: %v", user.ID, err)
			continue
		}

		drift := expected - user.TotalPoints
		if drift == 0 {
			continue
		}

		log.Printf("reconcile: user %d drifted by %d points (have %d, expected %d)",
			user.ID, drift, user.TotalPoints, expected)
		if err := IncrementUserPoints(db, user.ID, drift); err != nil {
			log.Printf("reconcile: corrective increment failed for user %d: %v", user.ID, err)
			continue
		}
		corrected++
	}

	if corrected > 0 {
		log.Printf("reconcile: corrected %d users", corrected)
	}
	return nil
}

func settledPointsTotal(db *gorm.DB, userID uint) (int, error) {
	total := 0

	queries := []struct {
		model interface{}
	}{
		{&models.StraightPick{}},
		{&models.PropPick{}},
		{&models.FuturesPick{}},
		{&models.Parlay{}},
	}

	for _, q := range queries {
		var sum int
		err := db.Model(q.model).
			Where("user_id = ? AND status = ?", userID, models.WagerSettled).
			Select("COALESCE(SUM(points_earned), 0)").
			Scan(&sum).Error
		if err != nil {
			return 0, err
		}
		total += sum
	}

	return total, nil
}
