package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

var configPath string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "frontdesk",
		Short:         "Clinic front-desk API: patients, visits, lab tests and nurses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (defaults to ./config.yaml or ./config/config.yaml)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newEventsCommand(),
	)
	return root
}

// loadRuntime reads the configuration and installs the process-wide logger.
func loadRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	lcfg := &logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}
	if cfg.Log.File.Path != "" {
		lcfg.File = &logger.FileConfig{
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		}
	}

	l := logger.NewLogger(lcfg)
	l.SetGlobal()
	return cfg, l, nil
}
