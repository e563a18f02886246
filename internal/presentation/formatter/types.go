package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
)

// IntervalRow is one observation interval as listed by the CLI.
type IntervalRow struct {
	Instrument string        `json:"instrument"`
	Sensor     string        `json:"sensor"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Duration   time.Duration `json:"-"`
	Seconds    float64       `json:"durationSeconds"`
}

// Formatter renders derived observations.
type Formatter interface {
	Format(obs model.Observations) error
}

// Rows flattens observations in instrument, sensor, insertion order.
func Rows(obs model.Observations) []IntervalRow {
	all := obs.All()
	rows := make([]IntervalRow, 0, len(all))
	for _, iv := range all {
		rows = append(rows, IntervalRow{
			Instrument: iv.Instrument,
			Sensor:     iv.Sensor,
			Start:      iv.Start,
			End:        iv.End,
			Duration:   iv.Duration(),
			Seconds:    iv.Duration().Seconds(),
		})
	}
	return rows
}

// New returns the formatter for a --format value.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

const listTimeLayout = "2006-01-02 15:04:05"

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
