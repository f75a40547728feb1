package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/SeakMengs/AutoSign/internal/config"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectReturnGormDB opens the database named by cfg.DB_TYPE (postgres or sqlite).
// For sqlite, DB_DATABASE is the file path or ":memory:".
func ConnectReturnGormDB(cfg config.DatabaseConfig, log *zap.SugaredLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	dbType := strings.ToLower(cfg.DB_TYPE)
	switch dbType {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DB_HOST,
			cfg.DB_USERNAME,
			cfg.DB_PASSWORD,
			cfg.DB_DATABASE,
			cfg.DB_PORT,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DB_DATABASE)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DB_TYPE)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if dbType == "sqlite" {
		// sqlite allows one writer; an in-memory database also only lives as long as its connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(0)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

		duration, err := time.ParseDuration(cfg.MaxIdleTime)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_IDLE_TIME %q: %w", cfg.MaxIdleTime, err)
		}
		sqlDB.SetConnMaxIdleTime(duration)
	}

	if log != nil {
		log.Infof("Connected to %s database: %s", dbType, cfg.DB_DATABASE)
	}

	return db, nil
}

func Models() []any {
	return []any{
		&model.Document{},
		&model.SignerRole{},
		&model.SignatureField{},
		&model.Contract{},
		&model.ContractSigner{},
		&model.Signature{},
		&model.ContractEvent{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
