package handout

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ktnetscraper/ktnet/internal/zen"
)

const (
	plainSeparator = "   "
	lineSeparator  = " | "
)

// RenderOptions controls aligned text output.
type RenderOptions struct {
	// Fields are the columns in order. Empty means DefaultFields.
	Fields []Field
	// Widths fixes the display width of the matching column. Missing or
	// non-positive entries are sized to the widest cell.
	Widths []int
	// Separate draws " | " between cells of data rows.
	Separate bool
	// Header, if set, is rendered as the first row.
	Header *Header
}

// Render writes one aligned line per record. Widths are display widths, so
// full-width text lines up with half-width text.
func Render(w io.Writer, records []Record, opts RenderOptions) error {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields()
	}

	rows := make([]Displayable, 0, len(records)+1)
	if opts.Header != nil {
		rows = append(rows, opts.Header)
	}
	for _, r := range records {
		rows = append(rows, r)
	}

	widths := columnWidths(rows, fields, opts.Widths)
	for i, row := range rows {
		sep := plainSeparator
		isHeader := opts.Header != nil && i == 0
		if opts.Separate && !isHeader {
			sep = lineSeparator
		}
		if _, err := fmt.Fprintln(w, formatRow(row, fields, widths, sep)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return nil
}

func formatRow(row Displayable, fields []Field, widths []int, sep string) string {
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = zen.PadRight(row.Field(f), widths[i])
	}
	return strings.TrimRight(strings.Join(cells, sep), " ")
}

func columnWidths(rows []Displayable, fields []Field, fixed []int) []int {
	widths := make([]int, len(fields))
	for i, f := range fields {
		if i < len(fixed) && fixed[i] > 0 {
			widths[i] = fixed[i]
			continue
		}
		for _, row := range rows {
			if n := zen.DisplayWidth(row.Field(f)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// RenderTable writes the records as a boxed table. A nil header labels the
// columns with their field keys.
func RenderTable(w io.Writer, records []Record, fields []Field, header *Header) {
	if len(fields) == 0 {
		fields = DefaultFields()
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	head := make(table.Row, len(fields))
	for i, f := range fields {
		if header != nil {
			head[i] = header.Field(f)
		} else {
			head[i] = f.String()
		}
	}
	t.AppendHeader(head)

	for _, r := range records {
		row := make(table.Row, len(fields))
		for i, f := range fields {
			row[i] = r.Field(f)
		}
		t.AppendRow(row)
	}
	t.Render()
}
