package scheduler_jobs

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pickemEngine/models"
	"pickemEngine/models/external"
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
		&models.SurvivorPool{}, &models.SurvivorEntry{}, &models.SurvivorPick{},
		&models.BracketMatchup{},
		&models.UserSportStats{}, &models.StreakEvent{},
		&models.Record{}, &models.RecordHistory{},
		&models.FuturesPick{},
		&models.Notification{}, &models.ErrorLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func TestSportsNeedingCheck(t *testing.T) {
	db := newTestDB(t)

	games := []models.Game{
		// live game: needs a check
		{Sport: "basketball_nba", ProviderID: "g1", Status: models.GameLive, StartsAt: time.Now().Add(-1 * time.Hour)},
		// recently started, not yet final: needs a check
		{Sport: "icehockey_nhl", ProviderID: "g2", Status: models.GameUpcoming, StartsAt: time.Now().Add(-2 * time.Hour)},
		// finished long ago: gated out
		{Sport: "baseball_mlb", ProviderID: "g3", Status: models.GameFinal, StartsAt: time.Now().Add(-24 * time.Hour)},
		// far future: gated out
		{Sport: "americanfootball_nfl", ProviderID: "g4", Status: models.GameUpcoming, StartsAt: time.Now().Add(48 * time.Hour)},
	}
	for i := range games {
		db.Create(&games[i])
	}

	sports, err := sportsNeedingCheck(db)
	if err != nil {
		t.Fatalf("sportsNeedingCheck: %v", err)
	}

	got := make(map[string]bool)
	for _, sport := range sports {
		got[sport] = true
	}
	if !got["basketball_nba"] || !got["icehockey_nhl"] {
		t.Errorf("expected nba and nhl to need checks, got %v", sports)
	}
	if got["baseball_mlb"] || got["americanfootball_nfl"] {
		t.Errorf("smart gate let through idle sports: %v", sports)
	}
}

func TestResolveScores(t *testing.T) {
	game := models.Game{HomeTeam: "Springfield Atoms", AwayTeam: "Shelbyville Sharks"}

	tests := []struct {
		name     string
		scores   []external.OddsAPI_TeamScore
		wantHome int
		wantAway int
		wantErr  bool
	}{
		{
			name: "Both teams present",
			scores: []external.OddsAPI_TeamScore{
				{Name: "Springfield Atoms", Score: "100"},
				{Name: "Shelbyville Sharks", Score: "90"},
			},
			wantHome: 100, wantAway: 90,
		},
		{
			name: "Order independent",
			scores: []external.OddsAPI_TeamScore{
				{Name: "Shelbyville Sharks", Score: "7"},
				{Name: "Springfield Atoms", Score: "3"},
			},
			wantHome: 3, wantAway: 7,
		},
		{
			name: "Missing team errors",
			scores: []external.OddsAPI_TeamScore{
				{Name: "Springfield Atoms", Score: "100"},
			},
			wantErr: true,
		},
		{
			name: "Unparseable score errors",
			scores: []external.OddsAPI_TeamScore{
				{Name: "Springfield Atoms", Score: "1OO"},
				{Name: "Shelbyville Sharks", Score: "90"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := external.OddsAPI_ScoreEvent{Scores: tt.scores}
			home, away, err := resolveScores(game, event)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if home != tt.wantHome || away != tt.wantAway {
				t.Errorf("scores = %d-%d, want %d-%d", home, away, tt.wantHome, tt.wantAway)
			}
		})
	}
}

func TestFinalizeAndSettle(t *testing.T) {
	db := newTestDB(t)

	user := models.User{ExternalID: "u1", TotalPoints: 0}
	db.Create(&user)

	game := models.Game{
		Sport: "basketball_nba", ProviderID: "ev1",
		HomeTeam: "Springfield Atoms", AwayTeam: "Shelbyville Sharks",
		Status: models.GameLive, StartsAt: time.Now().Add(-3 * time.Hour),
	}
	db.Create(&game)

	pick := models.StraightPick{
		UserID: user.ID, GameID: game.ID, PickedTeam: "home",
		Odds: 150, RiskPoints: 10, RewardPoints: 15,
		Status: models.WagerLocked,
	}
	db.Create(&pick)

	event := external.OddsAPI_ScoreEvent{
		ID: "ev1", Completed: true,
		Scores: []external.OddsAPI_TeamScore{
			{Name: "Springfield Atoms", Score: "100"},
			{Name: "Shelbyville Sharks", Score: "90"},
		},
	}

	// Two passes: the second must be a no-op because the game is final.
	for i := 0; i < 2; i++ {
		if err := finalizeAndSettle(db, "basketball_nba", event); err != nil {
			t.Fatalf("pass %d: %v", i+1, err)
		}
	}

	var finalGame models.Game
	db.First(&finalGame, game.ID)
	if finalGame.Status != models.GameFinal {
		t.Fatalf("game status = %s, want final", finalGame.Status)
	}
	if finalGame.Winner == nil || *finalGame.Winner != models.WinnerHome {
		t.Errorf("winner = %v, want home", finalGame.Winner)
	}
	if finalGame.HomeScore == nil || *finalGame.HomeScore != 100 {
		t.Errorf("home score = %v, want 100", finalGame.HomeScore)
	}

	var settled models.StraightPick
	db.First(&settled, pick.ID)
	if settled.Status != models.WagerSettled {
		t.Fatalf("pick status = %s, want settled", settled.Status)
	}
	if settled.PointsEarned != 15 {
		t.Errorf("points_earned = %d, want 15", settled.PointsEarned)
	}

	var after models.User
	db.First(&after, user.ID)
	if after.TotalPoints != 15 {
		t.Errorf("user total = %d, want 15 (paid exactly once)", after.TotalPoints)
	}
}

// A settlement failure must put the game back to live so a later cycle
// retries the stranded wager; once the failure clears, the retry settles it.
func TestFinalizeRevertsOnSettlementFailure(t *testing.T) {
	db := newTestDB(t)

	game := models.Game{
		Sport: "basketball_nba", ProviderID: "ev3",
		HomeTeam: "Springfield Atoms", AwayTeam: "Shelbyville Sharks",
		Status: models.GameLive, StartsAt: time.Now().Add(-3 * time.Hour),
	}
	db.Create(&game)

	// No user 999 yet: the ledger increment fails after the pick settles.
	pick := models.StraightPick{
		UserID: 999, GameID: game.ID, PickedTeam: "home",
		Odds: 150, RiskPoints: 10, RewardPoints: 15,
		Status: models.WagerLocked,
	}
	db.Create(&pick)

	event := external.OddsAPI_ScoreEvent{
		ID: "ev3", Completed: true,
		Scores: []external.OddsAPI_TeamScore{
			{Name: "Springfield Atoms", Score: "100"},
			{Name: "Shelbyville Sharks", Score: "90"},
		},
	}

	if err := finalizeAndSettle(db, "basketball_nba", event); err == nil {
		t.Fatal("expected finalizeAndSettle to report the settlement failure")
	}

	var reverted models.Game
	db.First(&reverted, game.ID)
	if reverted.Status != models.GameLive {
		t.Fatalf("game status = %s, want live after revert", reverted.Status)
	}

	var stranded models.StraightPick
	db.First(&stranded, pick.ID)
	if stranded.Status != models.WagerLocked {
		t.Fatalf("pick status = %s, want locked awaiting retry", stranded.Status)
	}

	// The failure clears; the next cycle finalizes and pays.
	user := models.User{ID: 999, ExternalID: "u999", TotalPoints: 0}
	db.Create(&user)

	if err := finalizeAndSettle(db, "basketball_nba", event); err != nil {
		t.Fatalf("retry pass: %v", err)
	}

	var finalized models.Game
	db.First(&finalized, game.ID)
	if finalized.Status != models.GameFinal {
		t.Errorf("game status = %s, want final after retry", finalized.Status)
	}

	var settled models.StraightPick
	db.First(&settled, pick.ID)
	if settled.Status != models.WagerSettled || settled.PointsEarned != 15 {
		t.Errorf("pick = %s/%d, want settled/15 after retry", settled.Status, settled.PointsEarned)
	}

	var after models.User
	db.First(&after, user.ID)
	if after.TotalPoints != 15 {
		t.Errorf("user total = %d, want 15", after.TotalPoints)
	}
}

// upcoming->live belongs to the lock sweep; a completed event for a game the
// sweep has not reached yet waits for it instead of jumping straight to final.
func TestFinalizeWaitsForLockSweep(t *testing.T) {
	db := newTestDB(t)

	game := models.Game{
		Sport: "basketball_nba", ProviderID: "ev4",
		HomeTeam: "Springfield Atoms", AwayTeam: "Shelbyville Sharks",
		Status: models.GameUpcoming, StartsAt: time.Now().Add(-10 * time.Minute),
	}
	db.Create(&game)

	event := external.OddsAPI_ScoreEvent{
		ID: "ev4", Completed: true,
		Scores: []external.OddsAPI_TeamScore{
			{Name: "Springfield Atoms", Score: "100"},
			{Name: "Shelbyville Sharks", Score: "90"},
		},
	}

	if err := finalizeAndSettle(db, "basketball_nba", event); err != nil {
		t.Fatalf("finalizeAndSettle: %v", err)
	}

	var untouched models.Game
	db.First(&untouched, game.ID)
	if untouched.Status != models.GameUpcoming {
		t.Fatalf("game status = %s, want upcoming until the lock sweep runs", untouched.Status)
	}

	db.Model(&models.Game{}).Where("id = ?", game.ID).Update("status", models.GameLive)
	if err := finalizeAndSettle(db, "basketball_nba", event); err != nil {
		t.Fatalf("post-lock pass: %v", err)
	}

	var finalized models.Game
	db.First(&finalized, game.ID)
	if finalized.Status != models.GameFinal {
		t.Errorf("game status = %s, want final once live", finalized.Status)
	}
}

func TestFinalizeDecidesBracketMatchup(t *testing.T) {
	db := newTestDB(t)

	game := models.Game{
		Sport: "basketball_nba", ProviderID: "ev2",
		HomeTeam: "Springfield Atoms", AwayTeam: "Shelbyville Sharks",
		Status: models.GameLive, StartsAt: time.Now().Add(-3 * time.Hour),
	}
	db.Create(&game)

	matchup := models.BracketMatchup{Round: 1, Slot: 0, HomeTeam: game.HomeTeam, AwayTeam: game.AwayTeam, GameID: &game.ID, Status: models.MatchupOpen}
	db.Create(&matchup)
	next := models.BracketMatchup{Round: 2, Slot: 0, Status: models.MatchupOpen}
	db.Create(&next)

	event := external.OddsAPI_ScoreEvent{
		ID: "ev2", Completed: true,
		Scores: []external.OddsAPI_TeamScore{
			{Name: "Springfield Atoms", Score: "80"},
			{Name: "Shelbyville Sharks", Score: "88"},
		},
	}

	if err := finalizeAndSettle(db, "basketball_nba", event); err != nil {
		t.Fatalf("finalizeAndSettle: %v", err)
	}

	var decided models.BracketMatchup
	db.First(&decided, matchup.ID)
	if decided.Status != models.MatchupDecided {
		t.Fatalf("matchup status = %s, want decided", decided.Status)
	}
	if decided.Winner == nil || *decided.Winner != "Shelbyville Sharks" {
		t.Errorf("winner = %v, want Shelbyville Sharks", decided.Winner)
	}

	var advanced models.BracketMatchup
	db.First(&advanced, next.ID)
	if advanced.HomeTeam != "Shelbyville Sharks" {
		t.Errorf("next round home team = %q, want advanced winner", advanced.HomeTeam)
	}
}
