package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"gorm.io/gorm"

	"pickemEngine/services/oddsService"
	"pickemEngine/services/syncService"
)

// SyncMarkets pulls upcoming games and open futures markets from the odds
// provider.
func SyncMarkets(db *gorm.DB, gw *oddsService.Gateway, sports []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in SyncMarkets", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in SyncMarkets: %v", r)
		}
	}()

	if syncErr := syncService.SyncGames(db, gw, sports); syncErr != nil {
		return syncErr
	}
	return syncService.SyncFutures(db, gw, sports)
}
