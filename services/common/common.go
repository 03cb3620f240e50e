package common

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"gorm.io/gorm"

	"pickemEngine/models"
)

// LogError prints the error and persists an ErrorLog row so scheduled jobs
// have a durable trail without failing the batch.
func LogError(db *gorm.DB, source string, err error) {
	log.Printf("[%s] %v", source, err)
	if db == nil {
		return
	}
	errLog := models.ErrorLog{
		Source:  source,
		Message: fmt.Sprintf("%v", err),
	}
	db.Create(&errLog)
}

func FormatOdds(odds int) string {
	if odds > 0 {
		return fmt.Sprintf("+%d", odds)
	}
	return strconv.Itoa(odds)
}

// AmericanToMultiplier converts American odds to a decimal payout multiplier.
func AmericanToMultiplier(odds int) float64 {
	if odds > 0 {
		return (float64(odds) / 100.0) + 1.0
	}
	return (100.0 / float64(-odds)) + 1.0
}

// CalculateReward computes the profit (excluding stake) on a winning wager at
// the given American odds.
func CalculateReward(risk int, odds int) int {
	var profit float64
	if odds > 0 {
		profit = float64(risk) * float64(odds) / 100.0
	} else {
		profit = float64(risk) * 100.0 / float64(-odds)
	}
	reward := int(math.Round(profit))
	if reward < 1 {
		reward = 1
	}
	return reward
}

// CombinedMultiplier is the product of each leg's decimal multiplier. Pushed
// legs must be excluded by the caller before computing the product.
func CombinedMultiplier(multipliers []float64) float64 {
	combined := 1.0
	for _, m := range multipliers {
		combined *= m
	}
	return combined
}

// ParlayReward computes the profit on a winning parlay from its flat stake and
// combined multiplier. Never less than 1 point.
func ParlayReward(risk int, combined float64) int {
	reward := int(math.Round(float64(risk) * (combined - 1.0)))
	if reward < 1 {
		reward = 1
	}
	return reward
}

// ComputeWinner compares final scores. Equal scores mean a push and return nil.
func ComputeWinner(homeScore, awayScore int) *string {
	if homeScore > awayScore {
		w := models.WinnerHome
		return &w
	}
	if awayScore > homeScore {
		w := models.WinnerAway
		return &w
	}
	return nil
}
