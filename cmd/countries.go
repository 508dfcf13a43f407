package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the selectable countries and their data files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, l := newDashboard()
		out := cmd.OutOrStdout()
		missing := 0
		for _, c := range dash.Countries() {
			path, err := l.Resolve(c)
			if err != nil {
				fmt.Fprintf(out, "- %s: ✗ missing (%s)\n", c, l.Path(c))
				missing++
				continue
			}
			d, err := l.Load(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "- %s: %s (%d rows, %d columns)\n", c, path, d.Len(), len(d.Columns()))
		}
		if missing > 0 {
			return fmt.Errorf("%d of %d country files missing in %s", missing, len(dash.Countries()), currentConfig().DataDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
