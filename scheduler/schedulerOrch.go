package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/scheduler/scheduler_jobs"
	"pickemEngine/services/oddsService"
)

// SetupCron installs the fixed-interval jobs. There is no mutual exclusion
// between overlapping runs; every job relies on status-guarded writes, so a
// run that overtakes a slow predecessor is a no-op on anything already
// processed.
func SetupCron(db *gorm.DB, gw *oddsService.Gateway, sports []string) {
	cronService := cron.New(cron.WithSeconds())

	_, err := cronService.AddFunc("0 */1 * * * *", func() {
		// Every minute: lock games whose start time has passed
		err := scheduler_jobs.CheckGameStart(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 */5 * * * *", func() {
		// Every 5 minutes: finalize completed games and settle
		err := scheduler_jobs.CheckGameEnd(db, gw)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 */2 * * * *", func() {
		// Every 2 minutes: refresh live score display
		err := scheduler_jobs.CheckLiveScores(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 0 9 * * *", func() {
		// At 9am every day: pull upcoming games and futures markets
		err := scheduler_jobs.SyncMarkets(db, gw, sports)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 30 * * * *", func() {
		// Every hour: settle prop and futures markets with recorded results
		err := scheduler_jobs.CheckMarkets(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 0 4 * * *", func() {
		// At 4am every day: reconcile point totals against settled wagers
		err := scheduler_jobs.ReconcilePoints(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	if err != nil {
		errLog := models.ErrorLog{
			Source:  "CRON ERR",
			Message: fmt.Sprintf("%v", err),
		}
		db.Create(&errLog)
	}

	cronService.Start()
}
