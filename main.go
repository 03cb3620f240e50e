package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pickemEngine/models"
	"pickemEngine/scheduler"
	"pickemEngine/services/oddsService"
)

var defaultSports = []string{
	"americanfootball_nfl",
	"basketball_nba",
	"baseball_mlb",
	"icehockey_nhl",
}

var db *gorm.DB

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatalf("DATABASE_URL not set in environment variables")
	}

	db, err = openDatabase(databaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.StraightPick{},
		&models.Parlay{},
		&models.ParlayLeg{},
		&models.PropMarket{},
		&models.PropPick{},
		&models.FuturesMarket{},
		&models.FuturesPick{},
		&models.SurvivorPool{},
		&models.SurvivorEntry{},
		&models.SurvivorPick{},
		&models.BracketMatchup{},
		&models.UserSportStats{},
		&models.StreakEvent{},
		&models.Record{},
		&models.RecordHistory{},
		&models.Notification{},
		&models.ErrorLog{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

// openDatabase picks the gorm driver from the DATABASE_URL scheme: mysql in
// production, sqlite for local runs.
func openDatabase(databaseURL string) (*gorm.DB, error) {
	parsed, err := dburl.Parse(databaseURL)
	if err != nil {
		return nil, err
	}

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if parsed.Driver == "sqlite3" {
		return gorm.Open(sqlite.Open(parsed.DSN), config)
	}
	return gorm.Open(mysql.Open(parsed.DSN+"?charset=utf8mb4&parseTime=True&loc=Local"), config)
}

func main() {
	gw, err := oddsService.NewGateway()
	if err != nil {
		log.Fatalf("Error creating odds gateway: %v", err)
	}

	sports := defaultSports
	if keys := os.Getenv("SPORT_KEYS"); keys != "" {
		sports = strings.Split(keys, ",")
	}

	scheduler.SetupCron(db, gw, sports)

	log.Println("Settlement pipeline is running. Press CTRL+C to exit.")
	select {}
}
