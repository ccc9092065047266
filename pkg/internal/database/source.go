package database

import (
	"strings"
	"unicode"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var C *gorm.DB

func NewGorm() error {
	var dialector gorm.Dialector
	switch dialect := viper.GetString("database.dialect"); dialect {
	case "sqlite":
		dialector = sqlite.Open(viper.GetString("database.dsn"))
	default:
		dialector = postgres.Open(viper.GetString("database.dsn"))
	}

	var err error
	C, err = Open(dialector, viper.GetString("app_id"), viper.GetBool("debug.database"))
	return err
}

// Open connects gorm with every table partitioned under the application
// namespace, so several applications can share one database.
func Open(dialector gorm.Dialector, appID string, debug bool) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: TablePrefix(appID),
		},
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  lo.Ternary(debug, logger.Info, logger.Silent),
		}),
	})
}

// TablePrefix turns an application id such as "auraheart-v2" into a table
// prefix such as "auraheart_v2_".
func TablePrefix(appID string) string {
	if len(appID) == 0 {
		return ""
	}
	prefix := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return '_'
	}, appID)
	return prefix + "_"
}
