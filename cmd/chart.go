package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/solardash/internal/chart"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/utils"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	chartSel    selectionFlags
	chartOutput string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the box plot of a metric across the selected countries",
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, _ := newDashboard()
		v, err := dash.Compute(cmd.Context(), chartSel.selection(cmd, dash))
		if err != nil {
			return err
		}
		if v.Empty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning:", v.Warning)
			return nil
		}
		out := chartOutput
		if out == "" {
			out = v.Selection.Metric + "_boxplot.png"
		}
		if err := writeChart(v, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote chart to %s\n", out)
		return nil
	},
}

func writeChart(v *dashboard.View, path string) error {
	format, err := chart.ParseFormat(chartFormatFor(path))
	if err != nil {
		return err
	}
	p, err := chart.BoxPlot(v.Samples, v.Selection.Metric)
	if err != nil {
		return err
	}
	opt := chartOptions()
	opt.Format = format
	var buf bytes.Buffer
	if err := chart.Render(&buf, p, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartSel.register(chartCmd.Flags())
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output path, .png or .svg (default {metric}_boxplot.png)")
}

// chartOptions applies the configured chart size to the defaults.
func chartOptions() chart.Options {
	opt := chart.DefaultOptions()
	if c := currentConfig(); c.ChartWidthIn > 0 && c.ChartHeightIn > 0 {
		opt.Width = vg.Length(c.ChartWidthIn) * vg.Inch
		opt.Height = vg.Length(c.ChartHeightIn) * vg.Inch
	}
	return opt
}
