package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleHeart flips the membership of the actor in the heart set of a pin or
// a pulse and reports whether the heart is present afterwards. The flip is a
// delete of the heart row, or its insert when nothing was deleted, so two
// concurrent toggles can never leave a duplicate.
func ToggleHeart(actor *Actor, targetType, targetID string) (bool, error) {
	if err := EnsureWritable(actor); err != nil {
		return false, err
	}

	var target any
	switch targetType {
	case models.HeartTargetPin:
		target = &models.Pin{}
	case models.HeartTargetPulse:
		target = &models.Pulse{}
	default:
		return false, fmt.Errorf("unable to heart %s", targetType)
	}
	if err := database.C.Where("id = ?", targetID).First(target).Error; err != nil {
		return false, err
	}

	var active bool
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		heart := models.Heart{
			TargetType: targetType,
			TargetID:   targetID,
			AccountID:  actor.Account.ID,
		}
		result := tx.Where(&heart).Delete(&models.Heart{})
		if result.Error != nil {
			return result.Error
		} else if result.RowsAffected > 0 {
			return nil
		}
		active = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&heart).Error
	}); err != nil {
		return false, fmt.Errorf("unable to toggle heart: %v", err)
	}
	realtime.Notify(targetType)

	return active, nil
}

// ListHearts returns the hearting account keys of every given target.
func ListHearts(targetType string, targetIDs []string) (map[string][]string, error) {
	if len(targetIDs) == 0 {
		return map[string][]string{}, nil
	}

	var hearts []models.Heart
	if err := database.C.
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Order("created_at ASC").
		Find(&hearts).Error; err != nil {
		return nil, fmt.Errorf("unable to load hearts: %v", err)
	}

	grouped := lo.GroupBy(hearts, func(item models.Heart) string { return item.TargetID })
	return lo.MapValues(grouped, func(items []models.Heart, _ string) []string {
		return lo.Map(items, func(item models.Heart, _ int) string { return item.AccountID })
	}), nil
}
