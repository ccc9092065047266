package services

import (
	"time"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"github.com/samber/lo"
)

type pinRank struct {
	TargetID string
	Total    int64
}

// GetTrendingPins returns the pins with the most hearts given within the
// last 7 days. Pins without a recent heart never trend.
func GetTrendingPins(count int) ([]models.Pin, error) {
	deadline := time.Now().Add(-7 * 24 * time.Hour)

	var ranks []pinRank
	if err := database.C.Model(&models.Heart{}).
		Select("target_id, COUNT(*) AS total").
		Where("target_type = ? AND created_at >= ?", models.HeartTargetPin, deadline).
		Group("target_id").
		Order("total DESC").
		Limit(count).
		Scan(&ranks).Error; err != nil {
		return nil, err
	}
	if len(ranks) == 0 {
		return []models.Pin{}, nil
	}

	ids := lo.Map(ranks, func(item pinRank, _ int) string {
		return item.TargetID
	})
	items, err := ListPin(database.C.Where("id IN ?", ids), 0, 0)
	if err != nil {
		return nil, err
	}

	// The pin query does not keep the rank order.
	byID := lo.KeyBy(items, func(item models.Pin) string { return item.ID })
	return lo.FilterMap(ids, func(id string, _ int) (models.Pin, bool) {
		item, ok := byID[id]
		return item, ok
	}), nil
}
