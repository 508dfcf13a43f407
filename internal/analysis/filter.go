package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/solardash/internal/dataset"
)

// ErrNoValues is returned when a column has no usable numeric values.
var ErrNoValues = errors.New("no numeric values")

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Contains reports whether x lies inside the closed interval.
func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

// Clamp orders the handles and pulls them inside bounds, the way a dual-handle
// slider constrains user input. A NaN handle snaps to the matching bound.
func (r Range) Clamp(bounds Range) Range {
	lo, hi := r.Min, r.Max
	if math.IsNaN(lo) {
		lo = bounds.Min
	}
	if math.IsNaN(hi) {
		hi = bounds.Max
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = math.Min(math.Max(lo, bounds.Min), bounds.Max)
	hi = math.Min(math.Max(hi, bounds.Min), bounds.Max)
	return Range{Min: lo, Max: hi}
}

// Bounds returns the smallest and largest non-missing value of column.
func Bounds(d *dataset.Dataset, column string) (Range, error) {
	vals, err := d.Floats(column)
	if err != nil {
		return Range{}, err
	}
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if math.IsInf(r.Min, 1) {
		return Range{}, fmt.Errorf("bounds of %s: %w", column, ErrNoValues)
	}
	return r, nil
}

// FilterRange keeps the rows whose column value lies in r, both ends
// inclusive, preserving order. Rows with a missing value are dropped. The
// range is not validated: Min > Max yields an empty dataset.
func FilterRange(d *dataset.Dataset, column string, r Range) (*dataset.Dataset, error) {
	j, err := d.Index(column)
	if err != nil {
		return nil, err
	}
	var bad error
	out := d.Filter(func(row []dataset.Value) bool {
		v := row[j]
		if v.Missing() {
			return false
		}
		if !v.Numeric {
			if bad == nil {
				bad = fmt.Errorf("filter %s: %w %q", column, dataset.ErrNotNumeric, v.Text)
			}
			return false
		}
		return r.Contains(v.Num)
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}
