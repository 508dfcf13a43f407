package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repSel    selectionFlags
	repFormat string
	repOutput string
	repChart  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the dashboard once and print the summary and filtered preview",
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, _ := newDashboard()
		v, err := dash.Compute(cmd.Context(), repSel.selection(cmd, dash))
		if err != nil {
			return err
		}
		if v.Empty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning:", v.Warning)
			return nil
		}

		var body string
		switch strings.ToLower(repFormat) {
		case "", "table":
			body = tableReport(v)
		case "md", "markdown":
			body = v.Markdown()
		case "json":
			b, err := jsonReport(v)
			if err != nil {
				return err
			}
			body = string(b) + "\n"
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|json)", repFormat)
		}

		if repChart != "" {
			if err := writeChart(v, repChart); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote chart to %s\n", repChart)
		}
		if repOutput != "" {
			if err := utils.SafeWriteFile(repOutput, []byte(body)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote report to %s\n", repOutput)
			return nil
		}
		_, err = io.WriteString(cmd.OutOrStdout(), body)
		return err
	},
}

func tableReport(v *dashboard.View) string {
	var b strings.Builder
	sel := v.Selection
	fmt.Fprintf(&b, "%s comparison: %s (%d rows)\n\n", sel.Metric, strings.Join(sel.Countries, ", "), v.Combined.Len())
	b.WriteString("Summary Statistics\n")
	b.WriteString(analysis.SummaryTable(v.Summary, dashboard.CountryColumn).Render())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d of %d rows\n", v.FilterCaption(), v.Filtered.Len(), v.Combined.Len())
	if v.Preview.Len() == 0 {
		b.WriteString("(no rows)\n")
		return b.String()
	}
	b.WriteString(analysis.DatasetTable(v.Preview).Render())
	b.WriteString("\n")
	return b.String()
}

func jsonReport(v *dashboard.View) ([]byte, error) {
	out := struct {
		*dashboard.View
		Rows     int        `json:"rows"`
		Filtered int        `json:"filtered_rows"`
		Columns  []string   `json:"columns"`
		Preview  [][]string `json:"preview"`
	}{
		View:     v,
		Rows:     v.Combined.Len(),
		Filtered: v.Filtered.Len(),
		Columns:  v.Preview.Columns(),
		Preview:  v.Preview.Records(),
	}
	return utils.PrettyJSON(out)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repSel.register(reportCmd.Flags())
	reportCmd.Flags().StringVarP(&repFormat, "format", "f", "table", "output format: table | markdown | json")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "optional path to write the report")
	reportCmd.Flags().StringVar(&repChart, "chart", "", "also write the box plot to this path (.png or .svg)")
}

// chartFormatFor derives the image format from a file name.
func chartFormatFor(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
