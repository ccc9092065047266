package services

import (
	"fmt"
	"strings"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func ListPulse(tx *gorm.DB, take int, offset int) ([]models.Pulse, error) {
	if take > 100 {
		take = 100
	}
	if take > 0 {
		tx = tx.Limit(take)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var items []models.Pulse
	if err := tx.Order("created_at ASC").Find(&items).Error; err != nil {
		return items, err
	}

	hearts, err := ListHearts(models.HeartTargetPulse, lo.Map(items, func(item models.Pulse, _ int) string {
		return item.ID
	}))
	if err != nil {
		return items, err
	}
	for idx := range items {
		items[idx].Hearts = nonNil(hearts[items[idx].ID])
	}

	return items, nil
}

func NewPulse(actor *Actor, content string) (models.Pulse, error) {
	if err := EnsureWritable(actor); err != nil {
		return models.Pulse{}, err
	}
	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return models.Pulse{}, ErrEmptyContent
	}

	item := models.Pulse{
		AccountID: actor.Account.ID,
		Content:   content,
		Language:  DetectLanguage(content),
	}
	if err := database.C.Create(&item).Error; err != nil {
		return item, fmt.Errorf("unable to create pulse: %v", err)
	}
	item.Hearts = []string{}
	realtime.Notify(aurakitm.TopicPulses)

	return item, nil
}

func PulseDocument(v models.Pulse) aurakitm.Pulse {
	return aurakitm.Pulse{
		ID:        v.ID,
		AccountID: v.AccountID,
		Content:   v.Content,
		Language:  v.Language,
		Hearts:    nonNil(v.Hearts),
		CreatedAt: v.CreatedAt,
	}
}
