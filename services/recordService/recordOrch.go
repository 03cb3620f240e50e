package recordService

import (
	"fmt"
	"log"
	"runtime/debug"

	"gorm.io/gorm"

	"pickemEngine/models"
)

// Outcome carries the settlement context handed to the record hook.
type Outcome struct {
	UserID       uint
	Sport        string
	WagerType    string // "straight", "prop", "futures", "parlay"
	PointsEarned int
	Multiplier   float64 // parlay settlements only
}

// CheckRecords computes candidate values for each record the wager type can
// affect and replaces the holder only on a strict improvement. Best-effort:
// every failure, panic included, is swallowed so the settlement caller never
// sees it.
func CheckRecords(db *gorm.DB, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckRecords", r)
			debug.PrintStack()
		}
	}()

	if outcome.PointsEarned > 0 {
		detail := fmt.Sprintf("%s win for %d points", outcome.WagerType, outcome.PointsEarned)
		challenge(db, models.RecordBiggestWin, outcome.UserID, float64(outcome.PointsEarned), detail)
	}

	switch outcome.WagerType {
	case "straight", "prop":
		var stats models.UserSportStats
		err := db.Where("user_id = ? AND sport = ?", outcome.UserID, outcome.Sport).First(&stats).Error
		if err == nil && stats.CurrentStreak > 0 {
			detail := fmt.Sprintf("%d straight wins (%s)", stats.CurrentStreak, outcome.Sport)
			challenge(db, models.RecordLongestStreak, outcome.UserID, float64(stats.CurrentStreak), detail)
		}
	case "parlay":
		if outcome.Multiplier > 0 {
			detail := fmt.Sprintf("parlay hit at %.2fx", outcome.Multiplier)
			challenge(db, models.RecordBiggestParlay, outcome.UserID, outcome.Multiplier, detail)
		}
	case "futures":
		var wins int64
		err := db.Model(&models.FuturesPick{}).
			Where("user_id = ? AND status = ? AND is_correct = ?", outcome.UserID, models.WagerSettled, true).
			Count(&wins).Error
		if err == nil && wins > 0 {
			detail := fmt.Sprintf("%d futures wins", wins)
			challenge(db, models.RecordMostFuturesWins, outcome.UserID, float64(wins), detail)
		}
	}
}

// challenge replaces the record holder when the candidate strictly exceeds the
// stored value. Ties keep the incumbent. The guarded UPDATE makes concurrent
// challenges safe: only one writer's predicate can match.
func challenge(db *gorm.DB, name string, userID uint, candidate float64, detail string) {
	var record models.Record
	err := db.Where("name = ?", name).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		record = models.Record{Name: name, HolderUserID: userID, Value: candidate, Detail: detail}
		if createErr := db.Create(&record).Error; createErr != nil {
			log.Printf("record %s create failed: %v", name, createErr)
			return
		}
		appendHistory(db, name, userID, candidate, detail)
		return
	}
	if err != nil {
		log.Printf("record %s lookup failed: %v", name, err)
		return
	}

	if candidate <= record.Value {
		return
	}

	result := db.Model(&models.Record{}).
		Where("name = ? AND value < ?", name, candidate).
		Updates(map[string]interface{}{
			"holder_user_id": userID,
			"value":          candidate,
			"detail":         detail,
		})
	if result.Error != nil {
		log.Printf("record %s update failed: %v", name, result.Error)
		return
	}
	if result.RowsAffected > 0 {
		appendHistory(db, name, userID, candidate, detail)
	}
}

func appendHistory(db *gorm.DB, name string, userID uint, value float64, detail string) {
	history := models.RecordHistory{
		RecordName:   name,
		HolderUserID: userID,
		Value:        value,
		Detail:       detail,
	}
	if err := db.Create(&history).Error; err != nil {
		log.Printf("record %s history append failed: %v", name, err)
	}
}
