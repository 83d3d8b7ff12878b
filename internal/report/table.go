// Package report renders calculator results as aligned plain-text tables.
package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a column-aligned text table. Widths are measured in terminal
// cells, so item names with wide runes stay aligned.
type Table struct {
	header []string
	rows   [][]string
	right  map[int]bool
}

// NewTable starts a table with the given column headers.
func NewTable(header ...string) *Table {
	return &Table{header: header, right: make(map[int]bool)}
}

// AlignRight right-aligns the given columns (numbers).
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// Row appends a row. Missing cells render empty, extra cells are dropped.
func (t *Table) Row(cells ...string) {
	row := make([]string, len(t.header))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// WriteTo renders the header, a rule and the rows.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	cw := &countingWriter{w: bufio.NewWriter(w)}
	t.line(cw, t.header, widths)
	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	t.line(cw, rule, widths)
	for _, row := range t.rows {
		t.line(cw, row, widths)
	}
	if err := cw.w.Flush(); err != nil && cw.err == nil {
		cw.err = err
	}
	return cw.n, cw.err
}

func (t *Table) line(w *countingWriter, cells []string, widths []int) {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		last := i == len(cells)-1
		switch {
		case t.right[i]:
			b.WriteString(runewidth.FillLeft(cell, widths[i]))
		case last:
			b.WriteString(cell)
		default:
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
	}
	b.WriteByte('\n')
	w.write(b.String())
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) write(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}
