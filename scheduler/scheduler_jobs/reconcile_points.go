package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"gorm.io/gorm"

	"pickemEngine/services/ledgerService"
)

// ReconcilePoints is the nightly repair pass: every user's total is recomputed
// from settled wagers and drift corrected with a single increment.
func ReconcilePoints(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in ReconcilePoints", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in ReconcilePoints: %v", r)
		}
	}()

	return ledgerService.ReconcileUserPoints(db)
}
