package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/panel"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/data/ephemeris"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
	"github.com/spf13/cobra"
)

var (
	panelsEphemeris  string
	panelsStart      string
	panelsEnd        string
	panelsStep       time.Duration
	panelsOutput     string
	panelsTimeout    time.Duration
	panelsRobust     bool
	panelsExportOnly bool

	panelsCmd = &cobra.Command{
		Use:   "panels",
		Short: "Generate a sun-tracking solar array CK kernel",
		Long: `Sample the spacecraft attitude and sun direction from an ephemeris table,
rotate the solar array about the spacecraft Y axis towards the sun and
compile the resulting orientations into a CK kernel.

Times are UTC, either 2031-07-01T00:00:00Z or 2031-07-01T00:00:00.

Examples:
  go-mapps-cosmo panels --ephemeris ephem.csv --start 2031-07-01T00:00:00Z --end 2031-07-02T00:00:00Z
  go-mapps-cosmo panels --ephemeris ephem.csv --start ... --end ... --step 5m --robust`,
		Args: cobra.NoArgs,
		RunE: runPanels,
	}
)

func init() {
	panelsCmd.Flags().StringVar(&panelsEphemeris, "ephemeris", "",
		"Ephemeris table (CSV: utc, attitude quaternion, sun vector)")
	panelsCmd.Flags().StringVar(&panelsStart, "start", "",
		"First sample (UTC)")
	panelsCmd.Flags().StringVar(&panelsEnd, "end", "",
		"End of the window, exclusive (UTC)")
	panelsCmd.Flags().DurationVar(&panelsStep, "step", time.Minute,
		"Sampling step")
	panelsCmd.Flags().StringVarP(&panelsOutput, "output", "o", "",
		"Kernel output path (default <outputDir>/juice_solar_array.ck)")
	panelsCmd.Flags().DurationVar(&panelsTimeout, "timeout", 0,
		"Kill the compiler after this long (default from config)")
	panelsCmd.Flags().BoolVar(&panelsRobust, "robust", false,
		"Use the four-branch frame conversion")
	panelsCmd.Flags().BoolVar(&panelsExportOnly, "export-only", false,
		"Write the compiler input texts instead of compiling")

	_ = panelsCmd.MarkFlagRequired("ephemeris")
	_ = panelsCmd.MarkFlagRequired("start")
	_ = panelsCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(panelsCmd)
}

func runPanels(cmd *cobra.Command, args []string) error {
	start, err := parseUTC(panelsStart)
	if err != nil {
		return err
	}
	end, err := parseUTC(panelsEnd)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("end %s must be after start %s", panelsEnd, panelsStart)
	}

	converter, err := timeConverter()
	if err != nil {
		return err
	}
	table, err := ephemeris.LoadTable(panelsEphemeris, converter)
	if err != nil {
		return err
	}

	generator := panel.NewGenerator(table)
	generator.Converter = converter
	generator.Robust = panelsRobust
	generator.Progress = func(pct int) {
		util.LogInfof("Panel orientation %d%%", pct)
	}

	quats, err := generator.Generate(start, end, panelsStep)
	if err != nil {
		return err
	}

	output := panelsOutput
	if output == "" {
		output = filepath.Join(cfg.OutputDir, strings.ToLower(cfg.Panel.Label)+".ck")
	}

	if panelsExportOnly {
		written, err := exportOnly(quats, cfg.Panel, output)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	}

	kc, cleanup, err := newKernelConverter()
	if err != nil {
		return err
	}
	defer cleanup()

	timeout := cfg.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = panelsTimeout
	}
	ctx, cancel := commandContext(cmd.Context(), timeout)
	defer cancel()

	if err := kc.Convert(ctx, quats, cfg.Panel, output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d orientations)\n", output, len(quats))
	return nil
}

// parseUTC accepts MAPPS timestamps and the same layout without the Z.
func parseUTC(s string) (time.Time, error) {
	if t, err := timeconv.ParseMAPPS(s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(timeconv.TDBLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &timeconv.TimeParseError{Input: s, Layout: timeconv.TDBLayout + "Z", Err: err}
	}
	return t, nil
}
