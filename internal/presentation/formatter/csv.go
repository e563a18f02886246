package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(obs model.Observations) error {
	w := csv.NewWriter(f.w)

	headers := []string{"Instrument", "Sensor", "Start", "End", "Duration (s)"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range Rows(obs) {
		record := []string{
			row.Instrument,
			row.Sensor,
			row.Start.UTC().Format(time.RFC3339),
			row.End.UTC().Format(time.RFC3339),
			strconv.FormatFloat(row.Seconds, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
