package services

import (
	"fmt"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DeleteContent hard deletes a pin, pulse, report or profile. Hearts and
// reports pointing at the deleted document go with it, and deleting a
// profile sweeps everything its account owns.
func DeleteContent(actor *Actor, collection, id string) error {
	if err := EnsureAdmin(actor); err != nil {
		return err
	}

	var err error
	switch collection {
	case aurakitm.TopicPins:
		err = deleteHeartable(&models.Pin{}, models.HeartTargetPin, id)
	case aurakitm.TopicPulses:
		err = deleteHeartable(&models.Pulse{}, models.HeartTargetPulse, id)
	case aurakitm.TopicReports:
		err = deleteOne(database.C, &models.Report{}, id)
		if err == nil {
			realtime.Notify(aurakitm.TopicReports)
		}
	case aurakitm.TopicProfiles:
		err = DeleteAccountCascade(id)
	default:
		return fmt.Errorf("unable to delete from %s", collection)
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("collection", collection).
		Str("id", id).
		Str("admin", actor.Account.ID).
		Msg("Content removed by administrator.")
	return nil
}

func deleteOne(tx *gorm.DB, model any, id string) error {
	result := tx.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	} else if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteHeartable(model any, targetType, id string) error {
	if err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := deleteOne(tx, model, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Heart{}, "target_type = ? AND target_id = ?", targetType, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Report{}, "target_type = ? AND target_id = ?", targetType, id).Error
	}); err != nil {
		return err
	}

	realtime.Notify(targetType, aurakitm.TopicReports)
	return nil
}

// DeleteAccountCascade removes an account with its profile, its follows in
// both directions and every document in database.AutoMaintainRange it owns.
func DeleteAccountCascade(id string) error {
	var conversations []string
	if err := database.C.Model(&models.Message{}).
		Where("account_id = ?", id).
		Distinct("conversation_key").
		Pluck("conversation_key", &conversations).Error; err != nil {
		return err
	}

	if err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := deleteOne(tx, &models.Profile{}, id); err != nil {
			return err
		}

		for _, target := range []struct {
			model      any
			targetType string
		}{
			{&models.Pin{}, models.HeartTargetPin},
			{&models.Pulse{}, models.HeartTargetPulse},
		} {
			owned := tx.Model(target.model).Select("id").Where("account_id = ?", id)
			if err := tx.Where("target_type = ? AND target_id IN (?)", target.targetType, owned).
				Delete(&models.Heart{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_type = ? AND target_id IN (?)", target.targetType, owned).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Report{}, "target_type = ? AND target_id = ?", ReportTargetProfile, id).Error; err != nil {
			return err
		}

		for _, model := range database.AutoMaintainRange {
			if err := tx.Delete(model, "account_id = ?", id).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Follow{}, "follower_id = ? OR following_id = ?", id, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, "id = ?", id).Error
	}); err != nil {
		return fmt.Errorf("unable to delete account: %v", err)
	}

	topics := []string{
		aurakitm.TopicProfiles,
		aurakitm.TopicPins,
		aurakitm.TopicPulses,
		aurakitm.TopicReports,
	}
	for _, key := range conversations {
		topics = append(topics, aurakitm.ConversationTopic(key))
	}
	realtime.Notify(topics...)

	return nil
}
