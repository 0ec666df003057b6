package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Alp4ka/listpager/internal/config"
	"github.com/Alp4ka/listpager/internal/database"
	"github.com/Alp4ka/listpager/internal/logging"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "errcatalog",
		Short:         "Paginated error code catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newSeedCmd(&configPath),
	)

	return rootCmd
}

// app holds what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func setup(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
