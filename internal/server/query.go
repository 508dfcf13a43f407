package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
)

// Query parameters understood by every endpoint.
const (
	paramCountry = "country"
	paramMetric  = "metric"
	paramMin     = "ghi_min"
	paramMax     = "ghi_max"
	// paramRangeFor names the countries the submitted range was drawn for.
	// A range carried over from a different country set is discarded.
	paramRangeFor = "range_for"
	// paramSubmitted marks a submitted form, so that unticking every
	// country is not mistaken for a first visit.
	paramSubmitted = "sel"
)

// selectionFromQuery turns query parameters into control state. A request
// without country parameters and without the submitted marker gets the
// default selection.
func selectionFromQuery(q url.Values, defaults dashboard.Selection) (dashboard.Selection, error) {
	sel := dashboard.Selection{Metric: defaults.Metric}
	countries := q[paramCountry]
	if len(countries) == 0 && q.Get(paramSubmitted) == "" {
		sel.Countries = defaults.Countries
	}
	sel.Countries = append(sel.Countries, splitCountries(countries)...)
	if m := strings.TrimSpace(q.Get(paramMetric)); m != "" {
		sel.Metric = m
	}

	lo, err := parseBound(q, paramMin)
	if err != nil {
		return sel, err
	}
	hi, err := parseBound(q, paramMax)
	if err != nil {
		return sel, err
	}
	if math.IsNaN(lo) && math.IsNaN(hi) {
		return sel, nil
	}
	if q.Has(paramRangeFor) && !sameCountries(splitCountries(q[paramRangeFor]), sel.Countries) {
		return sel, nil
	}
	sel.Range = &analysis.Range{Min: lo, Max: hi}
	return sel, nil
}

func splitCountries(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// sameCountries compares two selections as case-insensitive sets.
func sameCountries(a, b []string) bool {
	set := func(list []string) map[string]bool {
		m := make(map[string]bool, len(list))
		for _, c := range list {
			m[strings.ToLower(c)] = true
		}
		return m
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for c := range sa {
		if !sb[c] {
			return false
		}
	}
	return true
}

func parseBound(q url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", dashboard.ErrInvalidSelection, key, raw)
	}
	return f, nil
}

// queryFor encodes a view's control state so the chart image and API links
// reproduce the same selection.
func queryFor(v *dashboard.View) string {
	q := url.Values{}
	q.Set(paramSubmitted, "1")
	for _, c := range v.Selection.Countries {
		q.Add(paramCountry, c)
	}
	q.Set(paramMetric, v.Selection.Metric)
	if !v.Empty() {
		q.Set(paramMin, strconv.FormatFloat(v.Range.Min, 'f', -1, 64))
		q.Set(paramMax, strconv.FormatFloat(v.Range.Max, 'f', -1, 64))
		q.Set(paramRangeFor, rangeFor(v))
	}
	return q.Encode()
}

// rangeFor is the range_for value for a view's range handles.
func rangeFor(v *dashboard.View) string {
	return strings.Join(v.Selection.Countries, ",")
}
