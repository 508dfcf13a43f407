package analysis

import (
	"math"
	"testing"

	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ghiSet(vals ...float64) *dataset.Dataset {
	d := dataset.New("c", []string{"GHI", "Country"})
	for _, v := range vals {
		d.Append([]dataset.Value{dataset.Number(v), dataset.Text("Benin")})
	}
	return d
}

func ghis(t *testing.T, d *dataset.Dataset) []float64 {
	t.Helper()
	v, err := d.Floats("GHI")
	require.NoError(t, err)
	return v
}

func TestFilterRange_InclusiveBoundaries(t *testing.T) {
	out, err := FilterRange(ghiSet(99, 100, 150, 200, 201), "GHI", Range{Min: 100, Max: 200})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 150, 200}, ghis(t, out))
}

func TestFilterRange_Idempotent(t *testing.T) {
	r := Range{Min: 0, Max: 150}
	once, err := FilterRange(ghiSet(5, -1, 300, 42, 0, 120), "GHI", r)
	require.NoError(t, err)
	twice, err := FilterRange(once, "GHI", r)
	require.NoError(t, err)
	assert.Equal(t, once.Records(), twice.Records())
}

func TestFilterRange_PreservesOrderAndDropsMissing(t *testing.T) {
	d := ghiSet(3, 1, 2)
	d.Append([]dataset.Value{{}, dataset.Text("Togo")})
	out, err := FilterRange(d, "GHI", Range{Min: math.Inf(-1), Max: math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, ghis(t, out))
}

func TestFilterRange_ReversedRangeIsEmpty(t *testing.T) {
	out, err := FilterRange(ghiSet(1, 2, 3), "GHI", Range{Min: 3, Max: 1})
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

func TestFilterRange_MissingColumn(t *testing.T) {
	_, err := FilterRange(dataset.New("x", []string{"DNI"}), "GHI", Range{})
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestBounds(t *testing.T) {
	r, err := Bounds(ghiSet(12, -3, 880.5), "GHI")
	require.NoError(t, err)
	assert.Equal(t, Range{Min: -3, Max: 880.5}, r)

	_, err = Bounds(ghiSet(), "GHI")
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestRange_Clamp(t *testing.T) {
	bounds := Range{Min: 0, Max: 1000}
	cases := []struct {
		in, want Range
	}{
		{Range{10, 20}, Range{10, 20}},
		{Range{20, 10}, Range{10, 20}},
		{Range{-50, 2000}, Range{0, 1000}},
		{Range{math.NaN(), 500}, Range{0, 500}},
		{Range{math.NaN(), math.NaN()}, Range{0, 1000}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.in.Clamp(bounds), "Clamp(%v)", tc.in)
	}
}
