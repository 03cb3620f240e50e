package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"gorm.io/gorm"

	"pickemEngine/services/lockService"
)

// CheckGameStart locks wagers on games whose start time has passed. Re-running
// after a partial failure only touches wagers still pending.
func CheckGameStart(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckGameStart", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckGameStart: %v", r)
		}
	}()

	return lockService.LockStartedGames(db)
}
