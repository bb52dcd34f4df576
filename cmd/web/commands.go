package main

import (
	"fmt"

	"kandu_backend/database"
	"kandu_backend/internal/app"
	"kandu_backend/internal/config"
	"kandu_backend/internal/logger"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "kandu",
	Short:         "Kandu marketplace API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	// без подкоманды запускается сервер
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply or inspect database migrations",
	Long: `Manages the PostgreSQL schema through embedded goose migrations.
For a SQLite DSN only "up" is supported (models are auto-migrated).`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or config/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig читает конфиг и инициализирует логгер
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		err = config.LoadConfig()
		cfg = config.AppConfig
	}
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), cfg)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	ctx := cmd.Context()
	switch direction {
	case "up":
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()
		if err := database.Up(ctx, db, cfg.Database.DSN); err != nil {
			return err
		}
		logger.Info("Migrations applied")
		return nil
	case "down":
		return database.Down(ctx, cfg.Database.DSN)
	case "status":
		return database.Status(ctx, cfg.Database.DSN)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}
