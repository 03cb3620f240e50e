package wagerService

import (
	"fmt"

	"gorm.io/gorm"

	"pickemEngine/models"
	"pickemEngine/services/common"
)

// The submit/delete surface consumed by the HTTP layer. Submissions create
// pending rows only; deletes only ever touch pending rows. Once a wager locks
// it belongs to the settlement pipeline.

const (
	minParlayLegs = 2
	maxParlayLegs = 5
)

func SubmitStraightPick(db *gorm.DB, userID, gameID uint, pickedTeam string, odds, risk int) (*models.StraightPick, error) {
	if err := validateSide(pickedTeam); err != nil {
		return nil, err
	}
	if err := validateOdds(odds); err != nil {
		return nil, err
	}
	if risk <= 0 {
		return nil, fmt.Errorf("risk must be positive")
	}

	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		return nil, err
	}
	if game.Status != models.GameUpcoming {
		return nil, fmt.Errorf("game %d has already started", gameID)
	}

	pick := models.StraightPick{
		UserID:     userID,
		GameID:     gameID,
		PickedTeam: pickedTeam,
		Odds:       odds,
		RiskPoints: risk,
		Status:     models.WagerPending,
	}
	if err := db.Create(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

// DeleteStraightPick removes a pick only while it is still pending. The
// guarded delete means a pick that locked in the meantime survives.
func DeleteStraightPick(db *gorm.DB, userID, pickID uint) error {
	result := db.Where("id = ? AND user_id = ? AND status = ?", pickID, userID, models.WagerPending).
		Delete(&models.StraightPick{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pick %d is not pending or not yours", pickID)
	}
	return nil
}

type ParlayLegInput struct {
	GameID     uint
	PickedTeam string
	Odds       int
}

func SubmitParlay(db *gorm.DB, userID uint, risk int, legs []ParlayLegInput) (*models.Parlay, error) {
	if len(legs) < minParlayLegs || len(legs) > maxParlayLegs {
		return nil, fmt.Errorf("a parlay needs %d to %d legs", minParlayLegs, maxParlayLegs)
	}
	if risk <= 0 {
		return nil, fmt.Errorf("risk must be positive")
	}

	seen := make(map[uint]bool)
	for _, leg := range legs {
		if err := validateSide(leg.PickedTeam); err != nil {
			return nil, err
		}
		if err := validateOdds(leg.Odds); err != nil {
			return nil, err
		}
		if seen[leg.GameID] {
			return nil, fmt.Errorf("duplicate game %d in parlay", leg.GameID)
		}
		seen[leg.GameID] = true

		var game models.Game
		if err := db.First(&game, leg.GameID).Error; err != nil {
			return nil, err
		}
		if game.Status != models.GameUpcoming {
			return nil, fmt.Errorf("game %d has already started", leg.GameID)
		}
	}

	parlay := models.Parlay{
		UserID:     userID,
		RiskPoints: risk,
		Status:     models.WagerPending,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&parlay).Error; err != nil {
			return err
		}
		for _, leg := range legs {
			row := models.ParlayLeg{
				ParlayID:   parlay.ID,
				GameID:     leg.GameID,
				PickedTeam: leg.PickedTeam,
				Odds:       leg.Odds,
				Status:     models.WagerPending,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &parlay, nil
}

func DeleteParlay(db *gorm.DB, userID, parlayID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ? AND status = ?", parlayID, userID, models.WagerPending).
			Delete(&models.Parlay{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("parlay %d is not pending or not yours", parlayID)
		}
		return tx.Where("parlay_id = ? AND status = ?", parlayID, models.WagerPending).
			Delete(&models.ParlayLeg{}).Error
	})
}

func SubmitPropPick(db *gorm.DB, userID, marketID uint, side string, risk int) (*models.PropPick, error) {
	if side != models.SideOver && side != models.SideUnder {
		return nil, fmt.Errorf("side must be %q or %q", models.SideOver, models.SideUnder)
	}
	if risk <= 0 {
		return nil, fmt.Errorf("risk must be positive")
	}

	var market models.PropMarket
	if err := db.First(&market, marketID).Error; err != nil {
		return nil, err
	}
	if market.Status != models.PropPublished {
		return nil, fmt.Errorf("market %d is not open for picks", marketID)
	}

	odds := market.OverOdds
	if side == models.SideUnder {
		odds = market.UnderOdds
	}
	if err := validateOdds(odds); err != nil {
		return nil, fmt.Errorf("market %d: %v", marketID, err)
	}

	pick := models.PropPick{
		UserID:       userID,
		PropMarketID: marketID,
		Side:         side,
		Odds:         odds,
		RiskPoints:   risk,
		Status:       models.WagerPending,
	}
	if err := db.Create(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

func DeletePropPick(db *gorm.DB, userID, pickID uint) error {
	result := db.Where("id = ? AND user_id = ? AND status = ?", pickID, userID, models.WagerPending).
		Delete(&models.PropPick{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pick %d is not pending or not yours", pickID)
	}
	return nil
}

// SubmitFuturesPick snapshots odds, risk and reward at submission: futures
// lock immediately, there is no later lock moment to wait for.
func SubmitFuturesPick(db *gorm.DB, userID, marketID uint, outcome string, odds, risk int) (*models.FuturesPick, error) {
	if err := validateOdds(odds); err != nil {
		return nil, err
	}
	if risk <= 0 {
		return nil, fmt.Errorf("risk must be positive")
	}

	var market models.FuturesMarket
	if err := db.First(&market, marketID).Error; err != nil {
		return nil, err
	}
	if market.Status != models.FuturesOpen {
		return nil, fmt.Errorf("market %d is closed", marketID)
	}

	pick := models.FuturesPick{
		UserID:          userID,
		FuturesMarketID: marketID,
		PickedOutcome:   outcome,
		Odds:            odds,
		RiskPoints:      risk,
		RewardPoints:    common.CalculateReward(risk, odds),
		Status:          models.WagerLocked,
	}
	if err := db.Create(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

func SubmitSurvivorPick(db *gorm.DB, entryID, gameID uint, week int, pickedTeam string) (*models.SurvivorPick, error) {
	if err := validateSide(pickedTeam); err != nil {
		return nil, err
	}

	var entry models.SurvivorEntry
	if err := db.First(&entry, entryID).Error; err != nil {
		return nil, err
	}
	if entry.Status != models.EntryAlive {
		return nil, fmt.Errorf("entry %d has been eliminated", entryID)
	}

	var game models.Game
	if err := db.First(&game, gameID).Error; err != nil {
		return nil, err
	}
	if game.Status != models.GameUpcoming {
		return nil, fmt.Errorf("game %d has already started", gameID)
	}

	pick := models.SurvivorPick{
		EntryID:    entryID,
		GameID:     gameID,
		Week:       week,
		PickedTeam: pickedTeam,
		Status:     models.WagerPending,
	}
	if err := db.Create(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

// ListSettledStraightPicks is the read side for a user's pick history.
func ListSettledStraightPicks(db *gorm.DB, userID uint) ([]models.StraightPick, error) {
	var picks []models.StraightPick
	err := db.Preload("Game").
		Where("user_id = ? AND status = ?", userID, models.WagerSettled).
		Order("updated_at DESC").
		Find(&picks).Error
	return picks, err
}

func validateSide(pickedTeam string) error {
	if pickedTeam != models.WinnerHome && pickedTeam != models.WinnerAway {
		return fmt.Errorf("picked team must be %q or %q", models.WinnerHome, models.WinnerAway)
	}
	return nil
}

// validateOdds rejects zero odds before they can be snapshotted; the payout
// math divides by the odds value.
func validateOdds(odds int) error {
	if odds == 0 {
		return fmt.Errorf("odds cannot be zero")
	}
	return nil
}
