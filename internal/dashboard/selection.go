package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

// CountryColumn is the tag the combiner adds to every row.
const CountryColumn = "Country"

// RangeColumn is the column the range filter applies to.
const RangeColumn = "GHI"

// DefaultCountries is the enumerated country set.
var DefaultCountries = []string{"Benin", "Sierra Leone", "Togo"}

// Metrics is the enumerated metric set; the first entry is the default.
var Metrics = []string{"GHI", "DNI", "DHI"}

// ErrInvalidSelection reports a country or metric outside the enumerated sets.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is the state of the user-facing controls.
type Selection struct {
	Countries []string `json:"countries"`
	Metric    string   `json:"metric"`
	// Range over GHI; nil means the full live range.
	Range *analysis.Range `json:"range,omitempty"`
}

// DefaultSelection selects every country and the first metric.
func DefaultSelection(countries []string) Selection {
	return Selection{Countries: append([]string(nil), countries...), Metric: Metrics[0]}
}

// normalize canonicalizes names against the allowed sets and drops duplicate
// countries, keeping the first occurrence.
func (s Selection) normalize(allowed []string) (Selection, error) {
	out := Selection{Range: s.Range}
	seen := map[string]bool{}
	for _, c := range s.Countries {
		name, ok := match(allowed, c)
		if !ok {
			return Selection{}, fmt.Errorf("%w: unknown country %q (choose from %s)", ErrInvalidSelection, c, strings.Join(allowed, ", "))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out.Countries = append(out.Countries, name)
	}
	metric := s.Metric
	if metric == "" {
		metric = Metrics[0]
	}
	name, ok := match(Metrics, metric)
	if !ok {
		return Selection{}, fmt.Errorf("%w: unknown metric %q (choose from %s)", ErrInvalidSelection, s.Metric, strings.Join(Metrics, ", "))
	}
	out.Metric = name
	return out, nil
}

func match(set []string, s string) (string, bool) {
	s = strings.TrimSpace(s)
	i := slices.IndexFunc(set, func(v string) bool { return strings.EqualFold(v, s) })
	if i < 0 {
		return "", false
	}
	return set[i], true
}
