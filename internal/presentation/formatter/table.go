package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
)

// minNameWidth is how far instrument and sensor columns may shrink to fit a
// narrow terminal.
const minNameWidth = 6

type TableFormatter struct {
	w        io.Writer
	headers  []string
	maxWidth int
}

// NewTableFormatter writes to w. When w is a terminal the table is narrowed
// to its width.
func NewTableFormatter(w io.Writer) *TableFormatter {
	f := &TableFormatter{
		w:       w,
		headers: []string{"Instrument", "Sensor", "Start (UTC)", "End (UTC)", "Duration"},
	}
	if file, ok := w.(*os.File); ok {
		f.maxWidth = terminalWidth(file)
	}
	return f
}

// SetMaxWidth overrides the detected width; 0 disables fitting.
func (f *TableFormatter) SetMaxWidth(width int) {
	f.maxWidth = width
}

func (f *TableFormatter) Format(obs model.Observations) error {
	rows := Rows(obs)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.w, "No observation intervals found")
		return err
	}

	var total time.Duration
	values := make([][]string, 0, len(rows)+1)
	for _, row := range rows {
		values = append(values, []string{
			row.Instrument,
			row.Sensor,
			row.Start.UTC().Format(listTimeLayout),
			row.End.UTC().Format(listTimeLayout),
			formatDuration(row.Duration),
		})
		total += row.Duration
	}
	totals := []string{"Total", fmt.Sprintf("%d intervals", len(rows)), "", "", formatDuration(total)}

	widths := f.calculateColumnWidths(append(values, totals))

	var b strings.Builder
	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, f.headers, widths)
	f.writeBorder(&b, widths, "middle")
	for _, v := range values {
		f.writeRow(&b, v, widths)
	}
	f.writeBorder(&b, widths, "middle")
	f.writeRow(&b, totals, widths)
	f.writeBorder(&b, widths, "bottom")

	_, err := io.WriteString(f.w, b.String())
	return err
}

// calculateColumnWidths sizes every column to its content, then shrinks the
// instrument and sensor columns if the table is wider than maxWidth.
func (f *TableFormatter) calculateColumnWidths(values [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range values {
		for i, v := range row {
			if w := displayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if f.maxWidth <= 0 {
		return widths
	}
	// each column adds two padding cells and one separator, plus the left border
	tableWidth := 1
	for _, w := range widths {
		tableWidth += w + 3
	}
	for excess := tableWidth - f.maxWidth; excess > 0; excess-- {
		col := 0
		if widths[1] > widths[0] {
			col = 1
		}
		if widths[col] <= minNameWidth {
			break
		}
		widths[col]--
	}
	return widths
}

func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, position string) {
	var left, middle, right string
	switch position {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// writeRow left-aligns text columns and right-aligns the duration.
func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		value = truncate(value, widths[i])
		leftAlign := i < len(values)-1
		b.WriteString(" ")
		b.WriteString(padString(value, widths[i], leftAlign))
		b.WriteString(" │")
	}
	b.WriteString("\n")
}
