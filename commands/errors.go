package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/penwyp/go-mapps-cosmo/internal/core/kernel"
	"github.com/penwyp/go-mapps-cosmo/internal/core/panel"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeconv"
	"github.com/penwyp/go-mapps-cosmo/internal/core/timeline"
	"github.com/penwyp/go-mapps-cosmo/internal/data/attitude"
)

// describeError turns a failure into a message telling the user what to fix.
func describeError(err error) string {
	var (
		recordErr  *attitude.RecordParseError
		rowErr     *timeline.RowError
		parseErr   *timeconv.TimeParseError
		geomErr    *panel.GeometryComputationError
		toolErr    *kernel.ExternalToolFailure
		convertErr *kernel.ConversionError
	)

	switch {
	case errors.As(err, &recordErr):
		return fmt.Sprintf("%s line %d: column %s could not be read (%v). Each data line must be %s",
			recordErr.Source, recordErr.Line, recordErr.Column, recordErr.Err, attitude.ExpectedLayout)
	case errors.As(err, &rowErr):
		return fmt.Sprintf("timeline dump line %d is not a valid experiment mode row: %v", rowErr.Line, rowErr.Err)
	case errors.Is(err, timeline.ErrSectionNotFound):
		return fmt.Sprintf("%v. Is this a MAPPS timeline dump with an %q section?", err, timeline.SectionMarker)
	case errors.Is(err, timeconv.ErrDateTooEarly):
		return fmt.Sprintf("%v. Only dates from 1972-01-01 on can be converted", err)
	case errors.As(err, &parseErr):
		return fmt.Sprintf("invalid time %q, expected layout %s", parseErr.Input, parseErr.Layout)
	case errors.As(err, &geomErr):
		return fmt.Sprintf("%v. Check that the ephemeris covers the requested window", err)
	case errors.As(err, &toolErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("kernel compiler %s timed out and was stopped. Raise --timeout for long attitude files", toolErr.Tool)
		}
		return fmt.Sprintf("%v. Check the compiler output in the debug log (--debug)", err)
	case errors.Is(err, kernel.ErrUnsupportedPlatform):
		return fmt.Sprintf("%v. Set compilerPath in the config file to a compatible build", err)
	case errors.As(err, &convertErr):
		return fmt.Sprintf("%v. Check permissions of the work dir and output folder", err)
	default:
		return err.Error()
	}
}
