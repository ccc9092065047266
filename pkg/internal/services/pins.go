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

// SplitTags splits a comma separated tag line. Entries are trimmed and
// empty entries are kept, so "a,,b" gives three tags.
func SplitTags(raw string) []string {
	if len(raw) == 0 {
		return []string{}
	}
	return lo.Map(strings.Split(raw, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
}

func FilterPinWithAuthor(tx *gorm.DB, author string) *gorm.DB {
	if len(author) == 0 {
		return tx
	}
	return tx.Where("account_id = ?", author)
}

func FilterPinWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}
	probe = "%" + strings.ToLower(probe) + "%"
	return tx.Where("LOWER(title) LIKE ?", probe)
}

func CountPin(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Pin{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListPin(tx *gorm.DB, take int, offset int, order ...any) ([]models.Pin, error) {
	if take > 100 {
		take = 100
	}
	if take > 0 {
		tx = tx.Limit(take)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if len(order) > 0 {
		tx = tx.Order(order[0])
	} else {
		tx = tx.Order("created_at ASC")
	}

	var items []models.Pin
	if err := tx.Find(&items).Error; err != nil {
		return items, err
	}
	if err := AttachPinHearts(items); err != nil {
		return items, err
	}
	return items, nil
}

func GetPin(id string) (models.Pin, error) {
	var item models.Pin
	if err := database.C.Where("id = ?", id).First(&item).Error; err != nil {
		return item, err
	}
	items := []models.Pin{item}
	if err := AttachPinHearts(items); err != nil {
		return item, err
	}
	return items[0], nil
}

func AttachPinHearts(items []models.Pin) error {
	hearts, err := ListHearts(models.HeartTargetPin, lo.Map(items, func(item models.Pin, _ int) string {
		return item.ID
	}))
	if err != nil {
		return err
	}
	for idx := range items {
		items[idx].Hearts = nonNil(hearts[items[idx].ID])
	}
	return nil
}

func NewPin(actor *Actor, item models.Pin) (models.Pin, error) {
	if err := EnsureWritable(actor); err != nil {
		return item, err
	}
	if len(strings.TrimSpace(item.Image)) == 0 {
		return item, fmt.Errorf("%w: image is required", ErrEmptyContent)
	}

	item.ID = ""
	item.AccountID = actor.Account.ID
	item.Language = DetectLanguage(strings.TrimSpace(item.Title + " " + item.Description))
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if err := database.C.Create(&item).Error; err != nil {
		return item, fmt.Errorf("unable to create pin: %v", err)
	}
	item.Hearts = []string{}
	realtime.Notify(aurakitm.TopicPins)

	return item, nil
}

func PinDocument(v models.Pin) aurakitm.Pin {
	return aurakitm.Pin{
		ID:          v.ID,
		AccountID:   v.AccountID,
		Image:       v.Image,
		Title:       v.Title,
		Description: v.Description,
		Tags:        nonNil(v.Tags),
		Language:    v.Language,
		Hearts:      nonNil(v.Hearts),
		CreatedAt:   v.CreatedAt,
	}
}
