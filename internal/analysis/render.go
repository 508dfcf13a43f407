package analysis

import (
	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryTable lays the summary out with one row per group, keyed by groupBy.
func SummaryTable(s *Summary, groupBy string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	header := table.Row{groupBy}
	for _, c := range s.Columns() {
		header = append(header, c)
	}
	t.AppendHeader(header)
	for _, g := range s.Groups {
		t.AppendRow(table.Row{g.Key, g.Mean.String(), g.Median.String(), g.Std.String()})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return t
}

// DatasetTable lays out every row of d under its column header.
func DatasetTable(d *dataset.Dataset) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	header := table.Row{}
	for _, c := range d.Columns() {
		header = append(header, c)
	}
	t.AppendHeader(header)
	for _, rec := range d.Records() {
		row := make(table.Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.AppendRow(row)
	}
	return t
}
