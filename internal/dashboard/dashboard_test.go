package dashboard

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed datasets and counts loads per country.
type fakeSource struct {
	data  map[string]*dataset.Dataset
	loads map[string]int
}

func newFakeSource() *fakeSource {
	f := &fakeSource{data: map[string]*dataset.Dataset{}, loads: map[string]int{}}
	f.add("Benin", 10, 20, 30, 40)
	f.add("Sierra Leone", 5, 5, 5)
	f.add("Togo", 100, 0, 250, 7, 9)
	return f
}

func (f *fakeSource) add(country string, ghi ...float64) {
	d := dataset.New(country, []string{"Timestamp", "GHI", "DNI", "DHI"})
	for i, g := range ghi {
		d.Append([]dataset.Value{
			dataset.Text(fmt.Sprintf("2021-08-09 00:%02d", i)),
			dataset.Number(g), dataset.Number(g * 2), dataset.Number(g / 2),
		})
	}
	f.data[country] = d
}

func (f *fakeSource) Load(_ context.Context, country string) (*dataset.Dataset, error) {
	f.loads[country]++
	d, ok := f.data[country]
	if !ok {
		return nil, fmt.Errorf("no data for %s", country)
	}
	return d, nil
}

func subsets(set []string) [][]string {
	var out [][]string
	for mask := 1; mask < 1<<len(set); mask++ {
		var s []string
		for i, c := range set {
			if mask&(1<<i) != 0 {
				s = append(s, c)
			}
		}
		out = append(out, s)
	}
	return out
}

func TestCombine_RowCountsAndTags(t *testing.T) {
	src := newFakeSource()
	for _, sel := range subsets(DefaultCountries) {
		t.Run(strings.Join(sel, "+"), func(t *testing.T) {
			out, err := Combine(context.Background(), src, sel)
			require.NoError(t, err)

			want := 0
			var tags []string
			for _, c := range sel {
				n := src.data[c].Len()
				want += n
				for i := 0; i < n; i++ {
					tags = append(tags, c)
				}
			}
			assert.Equal(t, want, out.Len())
			got, err := out.Strings(CountryColumn)
			require.NoError(t, err)
			assert.Equal(t, tags, got)
			assert.Equal(t, []string{"Timestamp", "GHI", "DNI", "DHI", CountryColumn}, out.Columns())
		})
	}
	for c, d := range src.data {
		assert.False(t, d.HasColumn(CountryColumn), "source for %s was mutated", c)
	}
}

func TestCombine_PreservesSuppliedOrder(t *testing.T) {
	out, err := Combine(context.Background(), newFakeSource(), []string{"Togo", "Benin"})
	require.NoError(t, err)
	ghi, err := out.Floats("GHI")
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 0, 250, 7, 9, 10, 20, 30, 40}, ghi)
}

func TestCompute_Defaults(t *testing.T) {
	src := newFakeSource()
	d := New(src, Options{})
	v, err := d.Compute(context.Background(), d.DefaultSelection())
	require.NoError(t, err)

	assert.False(t, v.Empty())
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "GHI", v.Selection.Metric)
	assert.Equal(t, 12, v.Combined.Len())
	assert.Equal(t, analysis.Range{Min: 0, Max: 250}, v.Bounds)
	assert.Equal(t, v.Bounds, v.Range)
	assert.Equal(t, 12, v.Filtered.Len())
	assert.Equal(t, DefaultPreviewRows, v.Preview.Len())

	require.Len(t, v.Summary.Groups, 3)
	sl, ok := v.Summary.Lookup("Sierra Leone")
	require.True(t, ok)
	assert.Equal(t, analysis.Stat{Value: 5, Valid: true}, sl.Mean)
	assert.Equal(t, analysis.Stat{Value: 0, Valid: true}, sl.Std)
}

func TestCompute_RangeIsClampedAndApplied(t *testing.T) {
	d := New(newFakeSource(), Options{PreviewRows: 3})
	sel := Selection{Countries: []string{"benin", "Togo", "Benin"}, Metric: "dni", Range: &analysis.Range{Min: 300, Max: 9}}
	v, err := d.Compute(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, []string{"Benin", "Togo"}, v.Selection.Countries)
	assert.Equal(t, "DNI", v.Selection.Metric)
	assert.Equal(t, analysis.Range{Min: 9, Max: 250}, v.Range)
	require.NotNil(t, v.Selection.Range)
	assert.Equal(t, v.Range, *v.Selection.Range)
	ghi, err := v.Filtered.Floats("GHI")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40, 100, 250, 9}, ghi)
	assert.Equal(t, 3, v.Preview.Len())
	assert.Equal(t, []string{"DNI_mean", "DNI_median", "DNI_std"}, v.Summary.Columns())
}

func TestCompute_EmptySelection(t *testing.T) {
	src := newFakeSource()
	d := New(src, Options{})
	v, err := d.Compute(context.Background(), Selection{Metric: "GHI"})
	require.NoError(t, err)

	assert.True(t, v.Empty())
	assert.Equal(t, EmptySelectionWarning, v.Warning)
	assert.Nil(t, v.Summary)
	assert.Nil(t, v.Samples)
	assert.Nil(t, v.Combined)
	assert.Empty(t, src.loads, "no country may be loaded")
	assert.Contains(t, v.Markdown(), EmptySelectionWarning)
	assert.NotContains(t, v.Markdown(), "Summary Statistics")
}

func TestCompute_InvalidSelection(t *testing.T) {
	d := New(newFakeSource(), Options{})
	_, err := d.Compute(context.Background(), Selection{Countries: []string{"Ghana"}})
	assert.ErrorIs(t, err, ErrInvalidSelection)
	_, err = d.Compute(context.Background(), Selection{Countries: []string{"Togo"}, Metric: "Tamb"})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestCompute_LoadFailurePropagates(t *testing.T) {
	src := newFakeSource()
	delete(src.data, "Togo")
	d := New(src, Options{})
	_, err := d.Compute(context.Background(), d.DefaultSelection())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load Togo")
}

func TestCompute_MissingMetricColumn(t *testing.T) {
	src := newFakeSource()
	src.data["Togo"] = dataset.New("Togo", []string{"GHI"})
	src.data["Togo"].Append([]dataset.Value{dataset.Number(1)})
	d := New(src, Options{})
	_, err := d.Compute(context.Background(), Selection{Countries: []string{"Togo"}, Metric: "DHI"})
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestView_Markdown(t *testing.T) {
	d := New(newFakeSource(), Options{})
	v, err := d.Compute(context.Background(), Selection{Countries: []string{"Benin"}, Metric: "GHI", Range: &analysis.Range{Min: 20, Max: 30}})
	require.NoError(t, err)
	md := v.Markdown()
	assert.Contains(t, md, "## Summary Statistics")
	assert.Contains(t, md, "GHI_mean")
	assert.Contains(t, md, "25.00")
	assert.Contains(t, md, "Filtered Data (GHI between 20 and 30): 2 of 4 rows")
}

func TestNew_Options(t *testing.T) {
	d := New(newFakeSource(), Options{Countries: []string{"Togo", "Benin"}, DefaultMetric: "dhi", PreviewRows: 2})
	assert.Equal(t, []string{"Togo", "Benin"}, d.Countries())
	assert.Equal(t, Selection{Countries: []string{"Togo", "Benin"}, Metric: "DHI"}, d.DefaultSelection())

	v, err := d.Compute(context.Background(), d.DefaultSelection())
	require.NoError(t, err)
	assert.Equal(t, 2, v.Preview.Len())
	_, err = d.Compute(context.Background(), Selection{Countries: []string{"Sierra Leone"}})
	assert.ErrorIs(t, err, ErrInvalidSelection, "countries outside the configured set are rejected")
}
