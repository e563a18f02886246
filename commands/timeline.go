package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/penwyp/go-mapps-cosmo/internal/config"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeline"
	"github.com/penwyp/go-mapps-cosmo/internal/data/watcher"
	"github.com/penwyp/go-mapps-cosmo/internal/presentation/formatter"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
	"github.com/spf13/cobra"
)

var (
	timelineModes        string
	timelineInstruments  string
	timelineFormat       string
	timelineObservations string
	timelineWatch        bool

	timelineCmd = &cobra.Command{
		Use:   "timeline <timeline-dump>",
		Short: "Derive instrument observation intervals from a timeline dump",
		Long: `Read the experiment-modes section of a MAPPS timeline dump and derive, for
each instrument, the intervals during which each sensor was observing.

Examples:
  go-mapps-cosmo timeline dump.asc                                # Table of intervals
  go-mapps-cosmo timeline dump.asc --instruments JANUS,MAJIS -f csv
  go-mapps-cosmo timeline dump.asc --observations scenario/obs    # Cosmographia observation files
  go-mapps-cosmo timeline dump.asc --observations obs --watch     # Regenerate on every save`,
		Args: cobra.ExactArgs(1),
		RunE: runTimeline,
	}
)

func init() {
	timelineCmd.Flags().StringVar(&timelineModes, "modes", "",
		"Mode-sensor catalogue (default from config)")
	timelineCmd.Flags().StringVar(&timelineInstruments, "instruments", "",
		"Comma-separated instruments to process (default all in the catalogue)")
	timelineCmd.Flags().StringVarP(&timelineFormat, "format", "f", "table",
		"Output format (table, json, csv, summary)")
	timelineCmd.Flags().StringVar(&timelineObservations, "observations", "",
		"Write Cosmographia observation files into this folder")
	timelineCmd.Flags().BoolVar(&timelineWatch, "watch", false,
		"Keep running and re-derive whenever the dump changes")

	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	dump := args[0]

	modesFile := cfg.ModeSensorsFile
	if timelineModes != "" {
		modesFile = util.ExpandPath(timelineModes)
	}
	catalogue, err := config.LoadCatalogue(modesFile)
	if err != nil {
		return err
	}

	instruments := splitList(timelineInstruments)
	if len(instruments) == 0 {
		instruments = catalogue.InstrumentNames()
	}

	f, err := formatter.New(timelineFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var writer *formatter.ObservationWriter
	obsDir := ""
	if timelineObservations != "" {
		obsDir, err = util.CreateOutputFolder(util.ExpandPath(timelineObservations))
		if err != nil {
			return fmt.Errorf("failed to create observation folder: %w", err)
		}
		writer = formatter.NewObservationWriter()
		writer.Colors = catalogue.Color
	}

	process := func() error {
		entries, err := timeline.ParseFile(dump)
		if err != nil {
			return err
		}
		obs := timeline.Derive(entries, instruments, catalogue.ModeSensors())
		util.LogInfo("Observations derived",
			util.F("file", dump), util.F("entries", len(entries)), util.F("intervals", obs.Count()))

		if err := f.Format(obs); err != nil {
			return err
		}
		if writer != nil {
			written, err := writer.Write(obsDir, obs)
			if err != nil {
				return err
			}
			reportWritten(cmd.ErrOrStderr(), written)
		}
		return nil
	}

	if err := process(); err != nil {
		return err
	}
	if !timelineWatch {
		return nil
	}

	fw, err := watcher.NewFileWatcher(dump, watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s, press Ctrl+C to stop\n", dump)
	err = watcher.Run(ctx, fw, func(watcher.FileEvent) error {
		return process()
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func reportWritten(w io.Writer, written []string) {
	for _, path := range written {
		fmt.Fprintln(w, path)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
