package cmd

import (
	"math"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// selectionFlags are the CLI counterparts of the dashboard controls.
type selectionFlags struct {
	countries []string
	metric    string
	ghiMin    float64
	ghiMax    float64
}

func (s *selectionFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&s.countries, "country", "c", nil, "countries to include (repeatable or comma-separated; default all, empty value selects none)")
	fs.StringVarP(&s.metric, "metric", "m", "", "metric to compare: GHI | DNI | DHI (default from config)")
	fs.Float64Var(&s.ghiMin, "ghi-min", 0, "lower GHI bound, inclusive (default: minimum in data)")
	fs.Float64Var(&s.ghiMax, "ghi-max", 0, "upper GHI bound, inclusive (default: maximum in data)")
}

func (s *selectionFlags) selection(cmd *cobra.Command, dash *dashboard.Dashboard) dashboard.Selection {
	sel := dash.DefaultSelection()
	f := cmd.Flags()
	if f.Changed("country") {
		sel.Countries = nil
		for _, c := range s.countries {
			if c = strings.TrimSpace(c); c != "" {
				sel.Countries = append(sel.Countries, c)
			}
		}
	}
	if f.Changed("metric") && s.metric != "" {
		sel.Metric = s.metric
	}
	if f.Changed("ghi-min") || f.Changed("ghi-max") {
		r := analysis.Range{Min: math.NaN(), Max: math.NaN()}
		if f.Changed("ghi-min") {
			r.Min = s.ghiMin
		}
		if f.Changed("ghi-max") {
			r.Max = s.ghiMax
		}
		sel.Range = &r
	}
	return sel
}
