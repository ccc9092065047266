package database

import (
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"gorm.io/gorm"
)

// AutoMaintainRange lists every model owned by an account through its
// account_id column. Deleting an account sweeps all of them.
var AutoMaintainRange = []any{
	&models.Pin{},
	&models.Pulse{},
	&models.Heart{},
	&models.Message{},
	&models.Report{},
	&models.Session{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Account{},
			&models.Profile{},
			&models.Follow{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
