package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/penwyp/go-mapps-cosmo/internal/config"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug     bool
	logFormat string

	// Configuration
	configFile string
	cfg        *config.Config

	rootCmd = &cobra.Command{
		Use:   "go-mapps-cosmo [command]",
		Short: "Convert MAPPS planning products into Cosmographia inputs",
		Long: `go-mapps-cosmo turns MAPPS mission-planning outputs into files Cosmographia can load.

It compiles attitude quaternion exports into CK kernels, synthesises a
sun-tracking solar array kernel and derives instrument observation intervals
from timeline dumps.

Examples:
  go-mapps-cosmo convert attitude.csv -o kernels/juice_att.ck     # Attitude export to CK
  go-mapps-cosmo panels --ephemeris ephem.csv \
      --start 2031-07-01T00:00:00Z --end 2031-07-02T00:00:00Z      # Solar array CK
  go-mapps-cosmo timeline dump.asc --modes mode_sensors.yaml       # List observations
  go-mapps-cosmo timeline dump.asc --observations scenario/obs     # Write observation files
  go-mapps-cosmo timeline dump.asc --watch                         # Re-derive on every save`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			util.CloseLogger()
		},
	}
)

const (
	defaultLogFile = "~/.go-mapps-cosmo/logs/app.log"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default "+config.DefaultConfigFile+")")
}

// setup initialises logging and loads the configuration for every command.
func setup(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := util.ExpandPath(defaultLogFile)
	if err := util.EnsureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug, util.ParseLogFormat(logFormat)); err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}

	loaded, err := config.Load(configFile, runtime.GOOS)
	if err != nil {
		return err
	}
	cfg = loaded
	util.LogDebug("Configuration loaded",
		util.F("toolDir", cfg.ToolDir), util.F("workDir", cfg.WorkDir), util.F("outputDir", cfg.OutputDir))
	return nil
}

// timeConverter applies the configured leap second additions.
func timeConverter() (*timeconv.Converter, error) {
	table, err := config.LoadLeapSeconds(cfg.LeapSecondsFile)
	if err != nil {
		return nil, err
	}
	if table.Len() != timeconv.DefaultTable().Len() {
		util.LogInfof("Leap second table extended to %s", table.Last().Format("2006-01-02"))
	}
	return timeconv.NewConverter(table), nil
}

// Execute runs the root command and prints failures with a hint on what to fix.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+describeError(err))
	}
	return err
}
