// Package table reads and writes the flat CSV files that move between pipeline
// stages. Tables are kept as strings so unknown columns pass through untouched.
package table

import (
	"fmt"
	"strings"

	"github.com/Veraticus/moodmap/internal/common"
)

// Table is a header plus rows of cells. Every row has len(Header) cells.
type Table struct {
	index  map[string]int
	Header []string
	Rows   [][]string
}

// New builds a table, padding or trimming rows to the header width.
func New(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows}
	for i, row := range t.Rows {
		t.Rows[i] = fit(row, len(header))
	}
	t.reindex()
	return t
}

func fit(row []string, width int) []string {
	switch {
	case len(row) == width:
		return row
	case len(row) > width:
		return row[:width]
	default:
		out := make([]string, width)
		copy(out, row)
		return out
	}
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		if _, seen := t.index[name]; !seen {
			t.index[name] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// RequireColumns fails with ErrMissingColumn naming the first absent column.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Cell returns the value at row r in the named column, or "" if the column is absent.
func (t *Table) Cell(r int, name string) string {
	i := t.Index(name)
	if i < 0 {
		return ""
	}
	return t.Rows[r][i]
}

// WithColumns returns a new table holding t's columns followed by the given
// ones. values[i] supplies the new cells for row i. A column that already
// exists is overwritten in place instead of being duplicated. t is not modified.
func (t *Table) WithColumns(names []string, values [][]string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column values for %d rows, table has %d", len(values), len(t.Rows))
	}

	header := append([]string(nil), t.Header...)
	targets := make([]int, len(names))
	for j, name := range names {
		if i := t.Index(name); i >= 0 {
			targets[j] = i
			continue
		}
		targets[j] = len(header)
		header = append(header, name)
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		if len(values[r]) != len(names) {
			return nil, fmt.Errorf("row %d has %d new cells, want %d", r, len(values[r]), len(names))
		}
		out := make([]string, len(header))
		copy(out, row)
		for j, target := range targets {
			out[target] = values[r][j]
		}
		rows[r] = out
	}

	return New(header, rows), nil
}
