package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gardar/planscan/internal/config"
	appLog "github.com/gardar/planscan/internal/log"
)

// app carries the state shared by every command.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "planscan",
		Short:         "Turn a weekly schedule picture into calendar events",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "planscan.yaml", "Path to config file (created with defaults if missing)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newScanCmd(a),
		newPushCmd(a),
		newCalendarsCmd(a),
		newWatchCmd(a),
		newHOCRCmd(a),
	)
	return root
}

// load reads the configuration and applies the log level.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	appLog.Debug("effective config",
		"config_path", a.configPath,
		"engine", cfg.OCR.Engine,
		"dpi", cfg.Raster.DPI,
		"year", cfg.Schedule.Year,
		"calendar", cfg.Calendar.ID,
	)
	return nil
}
