package services

import (
	"time"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func DoAutoDatabaseCleanup() {
	deadline := time.Now()
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	tx := database.C.Delete(&models.Session{}, "expired_at < ?", deadline)
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when cleaning up expired sessions...")
	}
	count += tx.RowsAffected

	// Anonymous identities without any live session can never sign in again.
	idle := viper.GetDuration("security.anonymous_idle")
	if idle <= 0 {
		idle = 7 * 24 * time.Hour
	}
	live := database.C.Model(&models.Session{}).Select("account_id")
	tx = database.C.
		Where("is_anonymous = ? AND created_at < ? AND id NOT IN (?)", true, deadline.Add(-idle), live).
		Delete(&models.Account{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when cleaning up anonymous accounts...")
	}
	count += tx.RowsAffected

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
