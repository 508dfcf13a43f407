package dashboard

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

// FilterCaption describes the active range filter.
func (v *View) FilterCaption() string {
	return fmt.Sprintf("Filtered Data (GHI between %g and %g):", v.Range.Min, v.Range.Max)
}

// Markdown renders the view as a standalone document.
func (v *View) Markdown() string {
	var b strings.Builder
	b.WriteString("# Solar Data Dashboard\n\n")
	if v.Empty() {
		b.WriteString("> ⚠ ")
		b.WriteString(v.Warning)
		b.WriteString("\n")
		return b.String()
	}
	sel := v.Selection
	b.WriteString(fmt.Sprintf("Countries: %s  \n", strings.Join(sel.Countries, ", ")))
	b.WriteString(fmt.Sprintf("Metric: %s  \n", sel.Metric))
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", v.Combined.Len()))

	b.WriteString("## Summary Statistics\n\n")
	b.WriteString(analysis.SummaryTable(v.Summary, CountryColumn).RenderMarkdown())
	b.WriteString("\n\n")

	b.WriteString("## Filter Data by GHI Range\n\n")
	b.WriteString(fmt.Sprintf("Available range: %s  \n", v.Bounds))
	b.WriteString(v.FilterCaption())
	b.WriteString(fmt.Sprintf(" %d of %d rows\n\n", v.Filtered.Len(), v.Combined.Len()))
	if v.Preview.Len() == 0 {
		b.WriteString("(no rows)\n")
	} else {
		b.WriteString(analysis.DatasetTable(v.Preview).RenderMarkdown())
		b.WriteString("\n")
	}
	return b.String()
}
