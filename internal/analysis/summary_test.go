package analysis

import (
	"encoding/json"
	"testing"

	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combined(groups map[string][]float64, order ...string) *dataset.Dataset {
	d := dataset.New("combined", []string{"GHI", "DNI", "Country"})
	for _, k := range order {
		for _, v := range groups[k] {
			d.Append([]dataset.Value{dataset.Number(v), dataset.Number(v / 2), dataset.Text(k)})
		}
	}
	return d
}

func TestSummarize_TwoCountries(t *testing.T) {
	d := combined(map[string][]float64{
		"A": {10, 20, 30},
		"B": {5, 5, 5},
	}, "A", "B")

	s, err := Summarize(d, "Country", "GHI")
	require.NoError(t, err)
	assert.Equal(t, []string{"GHI_mean", "GHI_median", "GHI_std"}, s.Columns())
	require.Len(t, s.Groups, 2)

	a, ok := s.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, Stat{20, true}, a.Mean)
	assert.Equal(t, Stat{20, true}, a.Median)
	assert.Equal(t, Stat{10, true}, a.Std)

	b, ok := s.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, Stat{5, true}, b.Mean)
	assert.Equal(t, Stat{0, true}, b.Std)
}

func TestSummarize_SingleRowGroupHasMissingStd(t *testing.T) {
	s, err := Summarize(combined(map[string][]float64{"Togo": {42.123}}, "Togo"), "Country", "GHI")
	require.NoError(t, err)
	g := s.Groups[0]
	assert.Equal(t, Missing, g.Std)
	assert.Equal(t, "NaN", g.Std.String())
	assert.Equal(t, 42.12, g.Mean.Value)
	assert.Equal(t, 42.12, g.Median.Value)

	b, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"std":null`)
}

func TestSummarize_GroupsSortedByKey(t *testing.T) {
	d := combined(map[string][]float64{
		"Togo":         {1, 2},
		"Benin":        {3, 4},
		"Sierra Leone": {5, 6},
	}, "Togo", "Benin", "Sierra Leone")
	s, err := Summarize(d, "Country", "GHI")
	require.NoError(t, err)
	var keys []string
	for _, g := range s.Groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"Benin", "Sierra Leone", "Togo"}, keys)
}

func TestSummarize_MedianEvenCountAndQuartiles(t *testing.T) {
	s, err := Summarize(combined(map[string][]float64{"A": {4, 1, 3, 2}}, "A"), "Country", "GHI")
	require.NoError(t, err)
	g := s.Groups[0]
	assert.Equal(t, 2.5, g.Median.Value)
	assert.Equal(t, []float64{1, 1.75, 3.25, 4}, []float64{g.Min, g.Q1, g.Q3, g.Max})
	// sample std of 1..4 = 1.2909...
	assert.Equal(t, 1.29, g.Std.Value)
}

func TestSummarize_SkipsMissingCells(t *testing.T) {
	d := dataset.New("c", []string{"GHI", "Country"})
	d.Append([]dataset.Value{dataset.Number(10), dataset.Text("A")})
	d.Append([]dataset.Value{{}, dataset.Text("A")})
	d.Append([]dataset.Value{dataset.Number(20), dataset.Text("A")})
	d.Append([]dataset.Value{{}, dataset.Text("B")})

	s, err := Summarize(d, "Country", "GHI")
	require.NoError(t, err)
	a, _ := s.Lookup("A")
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, 15.0, a.Mean.Value)

	b, ok := s.Lookup("B")
	require.True(t, ok)
	assert.Zero(t, b.Count)
	assert.False(t, b.Mean.Valid)
	assert.False(t, b.Std.Valid)

	_, err = json.Marshal(s)
	assert.NoError(t, err, "empty group must still encode")
}

func TestSummarize_MissingColumn(t *testing.T) {
	_, err := Summarize(combined(map[string][]float64{"A": {1}}, "A"), "Country", "DHI")
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestRound_HalfToEven(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.125, 0.12},
		{0.375, 0.38},
		{-0.125, -0.12},
		{1.005, 1},
		{2.5, 2.5},
		{10.0 / 3, 3.33},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Round(tc.in, 2), 1e-12, "Round(%v)", tc.in)
	}
}
