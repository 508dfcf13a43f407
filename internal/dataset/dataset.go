// Package dataset holds the in-memory tabular representation shared by the
// loader, the combiner and the presenters.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrMissingColumn is returned when a lookup names a column the dataset lacks.
	ErrMissingColumn = errors.New("missing column")
	// ErrNotNumeric is returned when a numeric column holds text.
	ErrNotNumeric = errors.New("non-numeric value")
)

// Value is a single cell. Numeric cells carry Num; text cells carry Text.
// An empty cell, or a numeric NaN, is missing.
type Value struct {
	Text    string
	Num     float64
	Numeric bool
}

// Number builds a numeric cell.
func Number(f float64) Value { return Value{Num: f, Numeric: true} }

// Text builds a text cell.
func Text(s string) Value { return Value{Text: s} }

// Missing reports whether the cell holds no usable value.
func (v Value) Missing() bool {
	if v.Numeric {
		return math.IsNaN(v.Num)
	}
	return v.Text == ""
}

func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON emits numbers as JSON numbers, text as strings and missing cells as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Missing():
		return []byte("null"), nil
	case v.Numeric:
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	default:
		return []byte(strconv.Quote(v.Text)), nil
	}
}

// Dataset is an ordered sequence of rows sharing one column schema.
type Dataset struct {
	Name    string
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New returns an empty dataset with the given columns.
func New(name string, columns []string) *Dataset {
	d := &Dataset{Name: name, columns: append([]string(nil), columns...)}
	d.reindex()
	return d
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.columns))
	for i, c := range d.columns {
		if _, dup := d.index[c]; !dup {
			d.index[c] = i
		}
	}
}

// Append adds a row. Short rows are padded with missing cells, long rows are truncated.
func (d *Dataset) Append(row []Value) {
	if len(row) != len(d.columns) {
		fixed := make([]Value, len(d.columns))
		copy(fixed, row)
		row = fixed
	}
	d.rows = append(d.rows, row)
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// HasColumn reports whether name is part of the schema.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Index returns the position of a column.
func (d *Dataset) Index(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return i, nil
}

// Row returns the cells of row i. The slice must not be modified.
func (d *Dataset) Row(i int) []Value { return d.rows[i] }

// Get returns the cell at row i, column name.
func (d *Dataset) Get(i int, name string) (Value, error) {
	j, err := d.Index(name)
	if err != nil {
		return Value{}, err
	}
	return d.rows[i][j], nil
}

// Floats returns a numeric column. Missing cells become NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	j, err := d.Index(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		v := r[j]
		switch {
		case v.Missing():
			out[i] = math.NaN()
		case v.Numeric:
			out[i] = v.Num
		default:
			return nil, fmt.Errorf("column %q row %d: %w %q", name, i+1, ErrNotNumeric, v.Text)
		}
	}
	return out, nil
}

// Strings returns a column rendered as text.
func (d *Dataset) Strings(name string) ([]string, error) {
	j, err := d.Index(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[j].String()
	}
	return out, nil
}

// WithColumn returns a copy of d with an extra column holding v on every row.
// If the column already exists its cells are overwritten in the copy. d is not modified.
func (d *Dataset) WithColumn(name string, v Value) *Dataset {
	cols := d.Columns()
	j, exists := d.index[name]
	if !exists {
		j = len(cols)
		cols = append(cols, name)
	}
	out := New(d.Name, cols)
	out.rows = make([][]Value, len(d.rows))
	for i, r := range d.rows {
		nr := make([]Value, len(cols))
		copy(nr, r)
		nr[j] = v
		out.rows[i] = nr
	}
	return out
}

// Filter returns the rows for which keep returns true, in order.
func (d *Dataset) Filter(keep func(row []Value) bool) *Dataset {
	out := New(d.Name, d.columns)
	for _, r := range d.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Head returns the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.rows) {
		n = len(d.rows)
	}
	out := New(d.Name, d.columns)
	out.rows = append(out.rows, d.rows[:n]...)
	return out
}

// Records returns the rows rendered as text, header excluded.
func (d *Dataset) Records() [][]string {
	out := make([][]string, len(d.rows))
	for i, r := range d.rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = v.String()
		}
		out[i] = rec
	}
	return out
}

// Concat stacks datasets vertically. The resulting schema is the union of the
// inputs' columns in first-seen order; cells absent from a source are missing.
func Concat(name string, parts ...*Dataset) *Dataset {
	var cols []string
	seen := map[string]bool{}
	for _, p := range parts {
		for _, c := range p.columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	out := New(name, cols)
	for _, p := range parts {
		same := len(p.columns) == len(cols)
		for k := 0; same && k < len(cols); k++ {
			same = p.columns[k] == cols[k]
		}
		for _, r := range p.rows {
			if same {
				out.rows = append(out.rows, r)
				continue
			}
			nr := make([]Value, len(cols))
			for k, c := range p.columns {
				nr[out.index[c]] = r[k]
			}
			out.rows = append(out.rows, nr)
		}
	}
	return out
}
