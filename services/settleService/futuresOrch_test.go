package settleService

import (
	"testing"

	"pickemEngine/models"
)

func TestSettleFuturesMarket(t *testing.T) {
	db := newTestDB(t)

	winner := models.User{ExternalID: "u1", TotalPoints: 0}
	loser := models.User{ExternalID: "u2", TotalPoints: 0}
	db.Create(&winner)
	db.Create(&loser)

	outcome := "Springfield Atoms"
	market := models.FuturesMarket{
		Sport: "basketball_nba", ProviderID: "fut1",
		MarketKey: "championship_winner", Status: models.FuturesOpen,
		WinningOutcome: &outcome,
	}
	db.Create(&market)

	winPick := models.FuturesPick{
		UserID: winner.ID, FuturesMarketID: market.ID,
		PickedOutcome: "Springfield Atoms",
		Odds:          400, RiskPoints: 10, RewardPoints: 40,
		Status: models.WagerLocked,
	}
	losePick := models.FuturesPick{
		UserID: loser.ID, FuturesMarketID: market.ID,
		PickedOutcome: "Shelbyville Sharks",
		Odds:          200, RiskPoints: 10, RewardPoints: 20,
		Status: models.WagerLocked,
	}
	db.Create(&winPick)
	db.Create(&losePick)

	if err := SettleFuturesMarket(db, market); err != nil {
		t.Fatalf("SettleFuturesMarket: %v", err)
	}

	var settledWin models.FuturesPick
	db.First(&settledWin, winPick.ID)
	if settledWin.Status != models.WagerSettled || settledWin.PointsEarned != 40 {
		t.Errorf("winning pick = %s/%d, want settled/40", settledWin.Status, settledWin.PointsEarned)
	}

	var settledLose models.FuturesPick
	db.First(&settledLose, losePick.ID)
	if settledLose.Status != models.WagerSettled || settledLose.PointsEarned != -10 {
		t.Errorf("losing pick = %s/%d, want settled/-10", settledLose.Status, settledLose.PointsEarned)
	}

	var closedMarket models.FuturesMarket
	db.First(&closedMarket, market.ID)
	if closedMarket.Status != models.FuturesSettled {
		t.Errorf("market status = %s, want settled", closedMarket.Status)
	}

	var afterWinner, afterLoser models.User
	db.First(&afterWinner, winner.ID)
	db.First(&afterLoser, loser.ID)
	if afterWinner.TotalPoints != 40 {
		t.Errorf("winner total = %d, want 40", afterWinner.TotalPoints)
	}
	if afterLoser.TotalPoints != -10 {
		t.Errorf("loser total = %d, want -10", afterLoser.TotalPoints)
	}

	var winnerStats models.UserSportStats
	if err := db.Where("user_id = ? AND sport = ?", winner.ID, market.Sport).First(&winnerStats).Error; err != nil {
		t.Fatalf("winner sport stats missing: %v", err)
	}
	if winnerStats.Wins != 1 || winnerStats.CurrentStreak != 1 {
		t.Errorf("winner stats = %d wins / streak %d, want 1/1", winnerStats.Wins, winnerStats.CurrentStreak)
	}

	var loserStats models.UserSportStats
	if err := db.Where("user_id = ? AND sport = ?", loser.ID, market.Sport).First(&loserStats).Error; err != nil {
		t.Fatalf("loser sport stats missing: %v", err)
	}
	if loserStats.Losses != 1 || loserStats.CurrentStreak != 0 {
		t.Errorf("loser stats = %d losses / streak %d, want 1/0", loserStats.Losses, loserStats.CurrentStreak)
	}

	// Settling an already-settled market's picks again changes nothing.
	reopened := closedMarket
	reopened.Status = models.FuturesOpen
	if err := SettleFuturesMarket(db, reopened); err != nil {
		t.Fatalf("second SettleFuturesMarket: %v", err)
	}
	db.First(&afterWinner, winner.ID)
	if afterWinner.TotalPoints != 40 {
		t.Errorf("winner total after rerun = %d, want 40", afterWinner.TotalPoints)
	}
}

func TestSettlePropMarketClosesOnlyWhenClean(t *testing.T) {
	db := newTestDB(t)

	user := models.User{ExternalID: "u1", TotalPoints: 0}
	db.Create(&user)

	game := finalGame(t, db, 110, 102)
	actual := 31.0
	market := models.PropMarket{
		GameID: game.ID, PlayerName: "H. Simpson", MarketKey: "player_points",
		Line: 25.5, OverOdds: -115, UnderOdds: -105,
		Status: models.PropPublished, ActualValue: &actual,
	}
	db.Create(&market)

	pick := models.PropPick{
		UserID: user.ID, PropMarketID: market.ID,
		Side: models.SideOver, Odds: -115, RiskPoints: 23, RewardPoints: 20,
		Status: models.WagerLocked,
	}
	db.Create(&pick)

	if err := SettlePropMarket(db, market); err != nil {
		t.Fatalf("SettlePropMarket: %v", err)
	}

	var settled models.PropPick
	db.First(&settled, pick.ID)
	if settled.Status != models.WagerSettled || settled.PointsEarned != 20 {
		t.Errorf("pick = %s/%d, want settled/20", settled.Status, settled.PointsEarned)
	}

	var closed models.PropMarket
	db.First(&closed, market.ID)
	if closed.Status != models.PropSettled {
		t.Errorf("market status = %s, want settled", closed.Status)
	}

	var after models.User
	db.First(&after, user.ID)
	if after.TotalPoints != 20 {
		t.Errorf("user total = %d, want 20", after.TotalPoints)
	}
}
