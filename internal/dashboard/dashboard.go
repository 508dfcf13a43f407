// Package dashboard runs the load, combine and present pipeline for one
// interaction. Every call recomputes from scratch; only the loader remembers
// anything between calls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/KaramelBytes/solardash/internal/log"
	"github.com/google/uuid"
)

// EmptySelectionWarning is shown instead of any output when no country is selected.
const EmptySelectionWarning = "Please select at least one country to display the visualizations."

// DefaultPreviewRows is the number of filtered rows shown in the preview.
const DefaultPreviewRows = 5

// Source loads the dataset for one country.
type Source interface {
	Load(ctx context.Context, country string) (*dataset.Dataset, error)
}

// Options configures a Dashboard. Zero fields take the package defaults.
type Options struct {
	Countries     []string
	DefaultMetric string
	PreviewRows   int
}

// Dashboard owns the long-lived pieces of the pipeline.
type Dashboard struct {
	src         Source
	countries   []string
	metric      string
	previewRows int
}

// New builds a Dashboard over src.
func New(src Source, opt Options) *Dashboard {
	d := &Dashboard{
		src:         src,
		countries:   append([]string(nil), opt.Countries...),
		metric:      Metrics[0],
		previewRows: opt.PreviewRows,
	}
	if len(d.countries) == 0 {
		d.countries = append([]string(nil), DefaultCountries...)
	}
	if m, ok := match(Metrics, opt.DefaultMetric); ok {
		d.metric = m
	}
	if d.previewRows <= 0 {
		d.previewRows = DefaultPreviewRows
	}
	return d
}

// Countries returns the selectable countries.
func (d *Dashboard) Countries() []string { return append([]string(nil), d.countries...) }

// DefaultSelection selects every configured country and the default metric.
func (d *Dashboard) DefaultSelection() Selection {
	sel := DefaultSelection(d.countries)
	sel.Metric = d.metric
	return sel
}

// View is everything a rendering surface needs for one interaction.
type View struct {
	ID        string    `json:"id"`
	Selection Selection `json:"selection"`
	// Warning is set, and everything below left empty, when nothing is selected.
	Warning string `json:"warning,omitempty"`

	Combined *dataset.Dataset   `json:"-"`
	Samples  *analysis.Samples  `json:"-"`
	Summary  *analysis.Summary  `json:"summary,omitempty"`
	Bounds   analysis.Range     `json:"bounds"`
	Range    analysis.Range     `json:"range"`
	Filtered *dataset.Dataset   `json:"-"`
	Preview  *dataset.Dataset   `json:"-"`
	Elapsed  time.Duration      `json:"elapsed_ns"`
}

// Empty reports whether the view carries the empty-selection warning only.
func (v *View) Empty() bool { return v.Warning != "" }

// Combine loads each country in order, tags its rows with the country name
// and stacks the results. The loaded datasets are not modified.
func Combine(ctx context.Context, src Source, countries []string) (*dataset.Dataset, error) {
	if len(countries) == 0 {
		return nil, errors.New("combine: no countries")
	}
	parts := make([]*dataset.Dataset, 0, len(countries))
	for _, c := range countries {
		d, err := src.Load(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c, err)
		}
		parts = append(parts, d.WithColumn(CountryColumn, dataset.Text(c)))
	}
	return dataset.Concat("combined", parts...), nil
}

// Compute runs the whole pipeline for sel.
func (d *Dashboard) Compute(ctx context.Context, sel Selection) (*View, error) {
	start := time.Now()
	sel, err := sel.normalize(d.countries)
	if err != nil {
		return nil, err
	}
	v := &View{ID: uuid.NewString(), Selection: sel}
	if len(sel.Countries) == 0 {
		v.Warning = EmptySelectionWarning
		log.Warnw("empty selection", "view", v.ID)
		return v, nil
	}

	combined, err := Combine(ctx, d.src, sel.Countries)
	if err != nil {
		return nil, err
	}
	v.Combined = combined

	samples, err := analysis.GroupValues(combined, CountryColumn, sel.Metric)
	if err != nil {
		return nil, err
	}
	v.Samples = samples
	v.Summary = analysis.SummarizeSamples(samples, sel.Metric)

	bounds, err := analysis.Bounds(combined, RangeColumn)
	if err != nil {
		return nil, err
	}
	v.Bounds = bounds
	v.Range = bounds
	if sel.Range != nil {
		v.Range = sel.Range.Clamp(bounds)
		// Echo the effective handles; an open handle is NaN until clamped.
		r := v.Range
		v.Selection.Range = &r
	}
	filtered, err := analysis.FilterRange(combined, RangeColumn, v.Range)
	if err != nil {
		return nil, err
	}
	v.Filtered = filtered
	v.Preview = filtered.Head(d.previewRows)
	v.Elapsed = time.Since(start)

	log.Debugw("view computed",
		"view", v.ID,
		"countries", sel.Countries,
		"metric", sel.Metric,
		"rows", combined.Len(),
		"filtered", filtered.Len(),
		"elapsed", v.Elapsed,
	)
	return v, nil
}
