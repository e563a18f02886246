package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
)

// SummaryFormatter prints per-sensor totals instead of every interval.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(obs model.Observations) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Observation Summary\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	all := obs.All()
	if len(all) == 0 {
		b.WriteString("No observation intervals found\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(f.w, b.String())
		return err
	}

	first, last := all[0].Start, all[0].End
	for _, iv := range all[1:] {
		if iv.Start.Before(first) {
			first = iv.Start
		}
		if iv.End.After(last) {
			last = iv.End
		}
	}
	fmt.Fprintf(&b, "Time Range: %s to %s\n", first.UTC().Format(listTimeLayout), last.UTC().Format(listTimeLayout))
	fmt.Fprintf(&b, "Intervals: %d\n\n", len(all))

	for _, inst := range obs.Instruments {
		fmt.Fprintf(&b, "%s:\n", inst.Instrument)
		for _, s := range inst.Sensors {
			var on time.Duration
			for _, iv := range s.Intervals {
				on += iv.Duration()
			}
			fmt.Fprintf(&b, "  %-20s %4d intervals  %s on\n", s.Sensor, len(s.Intervals), formatDuration(on))
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(f.w, b.String())
	return err
}
