// Package analysis computes grouped summary statistics and range filters over
// combined irradiance datasets.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/solardash/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Stat is a rounded statistic. Valid is false when the statistic is undefined
// for its group, e.g. the standard deviation of a single observation.
type Stat struct {
	Value float64
	Valid bool
}

// Missing is the marker stored for undefined statistics.
var Missing = Stat{}

func rounded(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Stat{Value: Round(v, 2), Valid: true}
}

func (s Stat) String() string {
	if !s.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(s.Value, 'f', 2, 64)
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Round rounds x to places decimals, halves to even (the numpy/pandas rule).
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(x*p) / p
}

// GroupSummary holds one group's statistics for a metric.
type GroupSummary struct {
	Key    string `json:"country"`
	Count  int    `json:"count"`
	Mean   Stat   `json:"mean"`
	Median Stat   `json:"median"`
	Std    Stat   `json:"std"`

	// Five-number summary backing the box plot, unrounded. Zero when Count is 0.
	Min float64 `json:"min"`
	Q1  float64 `json:"q1"`
	Q3  float64 `json:"q3"`
	Max float64 `json:"max"`
}

// Summary is the per-group mean/median/std table for one metric.
type Summary struct {
	Metric string         `json:"metric"`
	Groups []GroupSummary `json:"groups"`
}

// Columns names the statistic columns: {metric}_mean, {metric}_median, {metric}_std.
func (s *Summary) Columns() []string {
	return []string{s.Metric + "_mean", s.Metric + "_median", s.Metric + "_std"}
}

// Lookup returns the summary for a group key.
func (s *Summary) Lookup(key string) (GroupSummary, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return GroupSummary{}, false
}

// Samples holds the non-missing metric values per group, in group order.
type Samples struct {
	Keys   []string
	Values [][]float64
}

// GroupValues splits metric values by the groupBy column. Groups are ordered
// by key, as a sorted group-by would return them; missing cells are skipped.
func GroupValues(d *dataset.Dataset, groupBy, metric string) (*Samples, error) {
	keys, err := d.Strings(groupBy)
	if err != nil {
		return nil, err
	}
	vals, err := d.Floats(metric)
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	var order []string
	buckets := map[string][]float64{}
	for i, k := range keys {
		if _, ok := idx[k]; !ok {
			idx[k] = len(order)
			order = append(order, k)
			buckets[k] = nil
		}
		if math.IsNaN(vals[i]) {
			continue
		}
		buckets[k] = append(buckets[k], vals[i])
	}
	sort.Strings(order)
	s := &Samples{Keys: order, Values: make([][]float64, len(order))}
	for i, k := range order {
		s.Values[i] = buckets[k]
	}
	return s, nil
}

// Summarize groups d by groupBy and computes the mean, median and sample
// standard deviation (n-1 denominator) of metric for each group, rounded to
// two decimals. A group with fewer than two values gets Missing as its std.
func Summarize(d *dataset.Dataset, groupBy, metric string) (*Summary, error) {
	samples, err := GroupValues(d, groupBy, metric)
	if err != nil {
		return nil, fmt.Errorf("summarize %s by %s: %w", metric, groupBy, err)
	}
	return SummarizeSamples(samples, metric), nil
}

// SummarizeSamples computes the summary from already grouped values.
func SummarizeSamples(samples *Samples, metric string) *Summary {
	out := &Summary{Metric: metric, Groups: make([]GroupSummary, 0, len(samples.Keys))}
	for i, key := range samples.Keys {
		out.Groups = append(out.Groups, describe(key, samples.Values[i]))
	}
	return out
}

func describe(key string, vals []float64) GroupSummary {
	g := GroupSummary{Key: key, Count: len(vals), Mean: Missing, Median: Missing, Std: Missing}
	if len(vals) == 0 {
		return g
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	g.Mean = rounded(stat.Mean(sorted, nil))
	g.Median = rounded(quantile(sorted, 0.5))
	if len(sorted) > 1 {
		g.Std = rounded(stat.StdDev(sorted, nil))
	}
	g.Min = sorted[0]
	g.Q1 = quantile(sorted, 0.25)
	g.Q3 = quantile(sorted, 0.75)
	g.Max = sorted[len(sorted)-1]
	return g
}

// quantile interpolates linearly between closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
