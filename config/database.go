package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormWriter sends gorm's slow query and error lines to zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Connect opens the database named by dbURL. Postgres DSNs are used as-is;
// "sqlite:<path>" and ":memory:" select the SQLite driver.
func Connect(dbURL string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	inMemory := false
	switch {
	case dbURL == ":memory:":
		dialector = sqlite.Open(dbURL)
		inMemory = true
	case strings.HasPrefix(dbURL, "sqlite:"):
		dialector = sqlite.Open(strings.TrimPrefix(dbURL, "sqlite:"))
	default:
		dialector = postgres.Open(dbURL)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if inMemory {
		// every new sqlite connection would see an empty in-memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("driver", dialector.Name()).Msg("database connected")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return nil
}
