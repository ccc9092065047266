package services

import (
	"errors"
	"fmt"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleFollow follows the target when the actor does not follow it yet and
// unfollows it otherwise. Administrators cannot be unfollowed.
func ToggleFollow(actor *Actor, targetID string) (bool, error) {
	if err := EnsureMember(actor); err != nil {
		return false, err
	}
	if actor.Account.ID == targetID {
		return false, ErrSelfFollow
	}

	target, err := GetProfile(targetID)
	if err != nil {
		return false, err
	}

	var active bool
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{FollowerID: actor.Account.ID, FollowingID: target.ID}

		var count int64
		if err := tx.Model(&models.Follow{}).Where(&follow).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			if target.IsAdmin() {
				return ErrFollowLocked
			}
			return tx.Where(&follow).Delete(&models.Follow{}).Error
		}

		active = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
	}); err != nil {
		if errors.Is(err, ErrFollowLocked) {
			return true, err
		}
		return false, fmt.Errorf("unable to toggle follow: %v", err)
	}
	realtime.Notify(aurakitm.TopicProfiles)

	return active, nil
}

// BackfillOfficialFollows makes every member follow the official channel.
// Members who signed up before the administrator existed got no default
// follow, this catches them up. Existing follows are left alone.
func BackfillOfficialFollows(tx *gorm.DB, adminID string) (int, error) {
	var members []string
	if err := tx.Model(&models.Profile{}).
		Where("role = ? AND id <> ?", aurakitm.RoleMember, adminID).
		Pluck("id", &members).Error; err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	follows := lo.Map(members, func(item string, _ int) models.Follow {
		return models.Follow{FollowerID: item, FollowingID: adminID}
	})
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(follows, 100)
	return int(result.RowsAffected), result.Error
}
