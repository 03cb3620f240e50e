package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"gorm.io/gorm"

	"pickemEngine/services/liveService"
)

// CheckLiveScores refreshes live score/period/clock display fields from the
// secondary scoreboard feed. Never finalizes a game.
func CheckLiveScores(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckLiveScores", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckLiveScores: %v", r)
		}
	}()

	return liveService.UpdateLiveScores(db)
}
