package wagerService

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pickemEngine/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Game{}, &models.StraightPick{},
		&models.Parlay{}, &models.ParlayLeg{},
		&models.PropMarket{}, &models.PropPick{},
		&models.FuturesMarket{}, &models.FuturesPick{},
		&models.SurvivorPool{}, &models.SurvivorEntry{}, &models.SurvivorPick{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func upcomingGame(t *testing.T, db *gorm.DB, id string) models.Game {
	t.Helper()
	game := models.Game{
		Sport: "basketball_nba", ProviderID: id,
		HomeTeam: "A", AwayTeam: "B",
		StartsAt: time.Now().Add(2 * time.Hour),
		Status:   models.GameUpcoming,
	}
	db.Create(&game)
	return game
}

func TestSubmitStraightPickValidation(t *testing.T) {
	db := newTestDB(t)
	game := upcomingGame(t, db, "g1")

	if _, err := SubmitStraightPick(db, 1, game.ID, "neither", 100, 10); err == nil {
		t.Error("invalid side accepted")
	}
	if _, err := SubmitStraightPick(db, 1, game.ID, "home", 100, 0); err == nil {
		t.Error("zero risk accepted")
	}
	if _, err := SubmitStraightPick(db, 1, game.ID, "home", 0, 10); err == nil {
		t.Error("zero odds accepted")
	}

	db.Model(&models.Game{}).Where("id = ?", game.ID).Update("status", models.GameLive)
	if _, err := SubmitStraightPick(db, 1, game.ID, "home", 100, 10); err == nil {
		t.Error("pick accepted on a started game")
	}
}

func TestDeleteOnlyTouchesPending(t *testing.T) {
	db := newTestDB(t)
	game := upcomingGame(t, db, "g1")

	pick, err := SubmitStraightPick(db, 1, game.ID, "home", 120, 10)
	if err != nil {
		t.Fatalf("SubmitStraightPick: %v", err)
	}

	// Locked picks are immutable to the user.
	db.Model(&models.StraightPick{}).Where("id = ?", pick.ID).Update("status", models.WagerLocked)
	if err := DeleteStraightPick(db, 1, pick.ID); err == nil {
		t.Error("locked pick deleted")
	}

	var survived models.StraightPick
	if lookupErr := db.First(&survived, pick.ID).Error; lookupErr != nil {
		t.Fatalf("locked pick should survive delete: %v", lookupErr)
	}

	db.Model(&models.StraightPick{}).Where("id = ?", pick.ID).Update("status", models.WagerPending)
	if err := DeleteStraightPick(db, 1, pick.ID); err != nil {
		t.Errorf("pending delete failed: %v", err)
	}
}

func TestSubmitParlayLegBounds(t *testing.T) {
	db := newTestDB(t)
	g1 := upcomingGame(t, db, "g1")

	one := []ParlayLegInput{{GameID: g1.ID, PickedTeam: "home", Odds: 100}}
	if _, err := SubmitParlay(db, 1, 10, one); err == nil {
		t.Error("single-leg parlay accepted")
	}

	legs := make([]ParlayLegInput, 0, 6)
	for i := 0; i < 6; i++ {
		game := upcomingGame(t, db, fmt.Sprintf("extra%d", i))
		legs = append(legs, ParlayLegInput{GameID: game.ID, PickedTeam: "home", Odds: 100})
	}
	if _, err := SubmitParlay(db, 1, 10, legs); err == nil {
		t.Error("six-leg parlay accepted")
	}

	if _, err := SubmitParlay(db, 1, 10, legs[:3]); err != nil {
		t.Errorf("three-leg parlay rejected: %v", err)
	}

	duplicate := []ParlayLegInput{
		{GameID: g1.ID, PickedTeam: "home", Odds: 100},
		{GameID: g1.ID, PickedTeam: "away", Odds: 100},
	}
	if _, err := SubmitParlay(db, 1, 10, duplicate); err == nil {
		t.Error("duplicate-game parlay accepted")
	}
}

func TestZeroOddsRejectedEverywhere(t *testing.T) {
	db := newTestDB(t)
	g1 := upcomingGame(t, db, "g1")
	g2 := upcomingGame(t, db, "g2")

	legs := []ParlayLegInput{
		{GameID: g1.ID, PickedTeam: "home", Odds: 120},
		{GameID: g2.ID, PickedTeam: "away", Odds: 0},
	}
	if _, err := SubmitParlay(db, 1, 10, legs); err == nil {
		t.Error("zero-odds parlay leg accepted")
	}

	futMarket := models.FuturesMarket{Sport: "basketball_nba", ProviderID: "fut1", MarketKey: "championship_winner", Status: models.FuturesOpen}
	db.Create(&futMarket)
	if _, err := SubmitFuturesPick(db, 1, futMarket.ID, "Springfield Atoms", 0, 10); err == nil {
		t.Error("zero-odds futures pick accepted")
	}

	// A prop market with malformed odds on one side cannot take picks there.
	propMarket := models.PropMarket{GameID: g1.ID, PlayerName: "H. Simpson", MarketKey: "player_points", Line: 25.5, OverOdds: -115, UnderOdds: 0, Status: models.PropPublished}
	db.Create(&propMarket)
	if _, err := SubmitPropPick(db, 1, propMarket.ID, models.SideUnder, 10); err == nil {
		t.Error("pick on zero-odds market side accepted")
	}
	if _, err := SubmitPropPick(db, 1, propMarket.ID, models.SideOver, 10); err != nil {
		t.Errorf("valid side rejected: %v", err)
	}
}

func TestSubmitFuturesPickLocksImmediately(t *testing.T) {
	db := newTestDB(t)

	market := models.FuturesMarket{Sport: "basketball_nba", ProviderID: "fut1", MarketKey: "championship_winner", Status: models.FuturesOpen}
	db.Create(&market)

	pick, err := SubmitFuturesPick(db, 1, market.ID, "Springfield Atoms", 400, 10)
	if err != nil {
		t.Fatalf("SubmitFuturesPick: %v", err)
	}

	if pick.Status != models.WagerLocked {
		t.Errorf("status = %s, want locked at submission", pick.Status)
	}
	if pick.RewardPoints != 40 {
		t.Errorf("reward snapshot = %d, want 40", pick.RewardPoints)
	}
}
