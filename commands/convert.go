package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/kernel"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/data/attitude"
	"github.com/penwyp/go-mapps-cosmo/internal/data/scanner"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
	"github.com/spf13/cobra"
)

var (
	convertOutput     string
	convertPattern    string
	convertTimeout    time.Duration
	convertExportOnly bool

	convertCmd = &cobra.Command{
		Use:   "convert <attitude-file|directory>",
		Short: "Compile MAPPS attitude exports into CK kernels",
		Long: `Read a MAPPS quaternion export, convert its epochs to TDB and compile it
into a CK kernel with the platform's mex2ker build.

Given a directory, every export matching --pattern below it is converted
and the kernels are written to --output (a directory) or the configured
output folder, mirroring the subfolders of the input directory.

Examples:
  go-mapps-cosmo convert attitude.csv                      # Writes <outputDir>/attitude.ck
  go-mapps-cosmo convert attitude.csv -o juice_att.ck      # Explicit kernel path
  go-mapps-cosmo convert exports/ -o kernels/              # Every *.csv below exports/
  go-mapps-cosmo convert attitude.csv --export-only        # Only write the .moc and .setup texts`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
)

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"Kernel output path, or folder for a directory input (default <outputDir>/<input name>.ck)")
	convertCmd.Flags().StringVar(&convertPattern, "pattern", scanner.DefaultPattern,
		"File name pattern of exports when converting a directory")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 0,
		"Kill the compiler after this long (default from config)")
	convertCmd.Flags().BoolVar(&convertExportOnly, "export-only", false,
		"Write the compiler input texts instead of compiling")

	rootCmd.AddCommand(convertCmd)
}

// convertJob is one export and the kernel it becomes.
type convertJob struct {
	input  string
	output string
}

func runConvert(cmd *cobra.Command, args []string) error {
	jobs, err := convertJobs(args[0])
	if err != nil {
		return err
	}

	converter, err := timeConverter()
	if err != nil {
		return err
	}

	var kc *kernel.Converter
	if !convertExportOnly {
		var cleanup func()
		kc, cleanup, err = newKernelConverter()
		if err != nil {
			return err
		}
		defer cleanup()
	}

	timeout := cfg.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = convertTimeout
	}

	var errs []error
	for _, job := range jobs {
		if err := convertOne(cmd, converter, kc, job, timeout); err != nil {
			if len(jobs) == 1 {
				return err
			}
			util.LogErrorf("Converting %s failed: %v", job.input, err)
			errs = append(errs, fmt.Errorf("%s: %w", job.input, err))
		}
	}
	return errors.Join(errs...)
}

func convertJobs(input string) ([]convertJob, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		output := convertOutput
		if output == "" {
			output = defaultOutput(input)
		}
		return []convertJob{{input: input, output: output}}, nil
	}

	files, err := scanner.NewFileScanner(input, convertPattern).Scan()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matching %s found in %s", convertPattern, input)
	}

	outDir := convertOutput
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	jobs := make([]convertJob, 0, len(files))
	owners := make(map[string]string, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(input, f)
		if err != nil {
			return nil, err
		}
		output := filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".ck")
		key := strings.ToLower(output)
		if other, ok := owners[key]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", other, f, output)
		}
		owners[key] = f
		jobs = append(jobs, convertJob{input: f, output: output})
	}
	util.LogInfof("Converting %d attitude exports from %s", len(jobs), input)
	return jobs, nil
}

func convertOne(cmd *cobra.Command, converter *timeconv.Converter, kc *kernel.Converter, job convertJob, timeout time.Duration) error {
	reader := attitude.NewReader(converter)
	quats, err := reader.ReadFile(job.input)
	if err != nil {
		return err
	}
	fields := []util.Field{util.F("file", job.input), util.F("lines", reader.LinesRead()), util.F("quaternions", len(quats))}
	if crc, _, err := util.FileFingerprint(job.input); err == nil {
		fields = append(fields, util.F("crc32", crc))
	}
	util.LogInfo("Attitude export read", fields...)

	if kc == nil {
		written, err := exportOnly(quats, cfg.Spacecraft, job.output)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	}

	ctx, cancel := commandContext(cmd.Context(), timeout)
	defer cancel()

	if err := kc.Convert(ctx, quats, cfg.Spacecraft, job.output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d quaternions)\n", job.output, len(quats))
	return nil
}
