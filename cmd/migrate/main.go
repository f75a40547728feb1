package main

import (
	"github.com/SeakMengs/AutoSign/internal/config"
	"github.com/SeakMengs/AutoSign/internal/database"
	"github.com/SeakMengs/AutoSign/internal/env"
	"github.com/SeakMengs/AutoSign/internal/util"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)

	logger.Infof("Migrating %s database %s", cfg.DB.DB_TYPE, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB, logger)
	if err != nil {
		logger.Panic(err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Panic(err)
	}

	logger.Info("Migration completed")
}
