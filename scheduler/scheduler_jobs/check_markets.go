package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"gorm.io/gorm"

	"pickemEngine/services/settleService"
)

// CheckMarkets settles prop and futures markets whose results have been
// recorded. Both resolvers skip rows another run already settled.
func CheckMarkets(db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckMarkets", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckMarkets: %v", r)
		}
	}()

	if propErr := settleService.SettleDuePropMarkets(db); propErr != nil {
		return propErr
	}
	return settleService.SettleDueFuturesMarkets(db)
}
