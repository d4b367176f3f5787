// Package table holds the small in-memory table every pipeline stage reads,
// transforms and writes. Cells are kept as the strings found in the input so
// that pass-through columns survive a stage unchanged.
package table

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Comma = ','
	Tab   = '\t'
)

// ErrEmptyInput is returned when an input has no header line at all.
var ErrEmptyInput = errors.New("no columns to parse from input")

// MissingColumnError lists every required column absent from a table.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing expected column(s): %s", strings.Join(e.Columns, ", "))
}

type Table struct {
	Columns []string
	Rows    [][]string
}

func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Require reports all of names that are not columns of t.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

// Append adds a row, padding it with empty cells to the table width.
func (t *Table) Append(row []string) error {
	if len(row) > len(t.Columns) {
		return fmt.Errorf("row has %d fields, table has %d columns", len(row), len(t.Columns))
	}
	r := make([]string, len(t.Columns))
	copy(r, row)
	t.Rows = append(t.Rows, r)
	return nil
}

// Get returns the cell of row i in the named column; the column must exist.
func (t *Table) Get(i int, name string) string {
	return t.Rows[i][t.Index(name)]
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, &MissingColumnError{Columns: []string{name}}
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Select returns a new table holding exactly names, in that order.
func (t *Table) Select(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = t.Index(n)
	}

	out := New(names...)
	out.Rows = make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make([]string, len(idx))
		for i, j := range idx {
			nr[i] = r[j]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, nil
}

// Head returns the first n rows as a new table sharing cells with t.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Concat stacks tables vertically. The result has the union of all columns in
// order of first appearance; cells a source table lacks are left empty.
func Concat(tables ...*Table) *Table {
	out := New()
	pos := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		idx := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			idx[i] = pos[c]
		}
		for _, r := range t.Rows {
			nr := make([]string, len(out.Columns))
			for i, j := range idx {
				nr[j] = r[i]
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	return out
}
