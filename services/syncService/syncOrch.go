package syncService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/models/external"
	"pickemEngine/services/common"
	"pickemEngine/services/oddsService"
)

// SyncGames upserts upcoming Game rows from the provider's odds feed. The sync
// pipeline owns Game creation; empty provider responses mean nothing to do
// this cycle.
func SyncGames(db *gorm.DB, gw *oddsService.Gateway, sports []string) error {
	for _, sport := range sports {
		events, err := gw.FetchOdds(sport)
		if err != nil {
			common.LogError(db, "sync", fmt.Errorf("odds for %s: %v", sport, err))
			continue
		}

		for _, event := range events {
			upsertGame(db, sport, event)
		}
	}
	return nil
}

func upsertGame(db *gorm.DB, sport string, event external.OddsAPI_Event) {
	var game models.Game
	err := db.Where("provider_id = ?", event.ID).First(&game).Error
	if err == gorm.ErrRecordNotFound {
		game = models.Game{
			Sport:      sport,
			ProviderID: event.ID,
			HomeTeam:   event.HomeTeam,
			AwayTeam:   event.AwayTeam,
			StartsAt:   event.CommenceTime,
			Status:     models.GameUpcoming,
		}
		if createErr := db.Create(&game).Error; createErr != nil {
			common.LogError(db, "sync", fmt.Errorf("create game %s: %v", event.ID, createErr))
		}
		return
	}
	if err != nil {
		common.LogError(db, "sync", fmt.Errorf("lookup game %s: %v", event.ID, err))
		return
	}

	// Start times move; only still-upcoming games may shift.
	if game.Status == models.GameUpcoming && !game.StartsAt.Equal(event.CommenceTime) {
		update := db.Model(&models.Game{}).
			Where("id = ? AND status = ?", game.ID, models.GameUpcoming).
			Update("starts_at", event.CommenceTime)
		if update.Error != nil {
			common.LogError(db, "sync", fmt.Errorf("update game %d start: %v", game.ID, update.Error))
		}
	}
}

// SyncFutures upserts open futures markets from the provider's outrights feed.
func SyncFutures(db *gorm.DB, gw *oddsService.Gateway, sports []string) error {
	for _, sport := range sports {
		events, err := gw.FetchFutures(sport)
		if err != nil {
			common.LogError(db, "sync", fmt.Errorf("futures for %s: %v", sport, err))
			continue
		}

		for _, event := range events {
			var market models.FuturesMarket
			lookupErr := db.Where("provider_id = ?", event.ID).First(&market).Error
			if lookupErr == gorm.ErrRecordNotFound {
				market = models.FuturesMarket{
					Sport:      sport,
					ProviderID: event.ID,
					MarketKey:  "championship_winner",
					Title:      event.SportTitle,
					Status:     models.FuturesOpen,
				}
				if createErr := db.Create(&market).Error; createErr != nil {
					common.LogError(db, "sync", fmt.Errorf("create futures market %s: %v", event.ID, createErr))
				}
				continue
			}
			if lookupErr != nil {
				common.LogError(db, "sync", fmt.Errorf("lookup futures market %s: %v", event.ID, lookupErr))
			}
		}
	}
	return nil
}
