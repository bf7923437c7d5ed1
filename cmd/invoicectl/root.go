package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/gst-invoicing/internal/bootstrap"
	"github.com/jhoicas/gst-invoicing/pkg/config"
	"github.com/jhoicas/gst-invoicing/pkg/logger"
)

var version = "1.0.0"

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Operator tools for the GST invoicing service",
	Long: `invoicectl runs maintenance tasks against the same database the API uses.

Configuration is read exactly like the API server: environment variables,
optionally preloaded from --env-file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file first")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadEnv applies --env-file and reads the configuration.
func loadEnv() (*config.Config, *logger.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.App.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level})
	return cfg, log, nil
}

// openServices wires the use cases for commands that touch the store.
func openServices(ctx context.Context) (*bootstrap.Services, *config.Config, *logger.Logger, error) {
	cfg, log, err := loadEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: the store starts empty, results will be empty too")
	}
	svc, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, log, nil
}
