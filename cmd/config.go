package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/solardash/internal/config"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set solardash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_dir: %s\n", c.DataDir)
		fmt.Fprintf(out, "countries: %s\n", strings.Join(c.Countries, ", "))
		fmt.Fprintf(out, "default_metric: %s\n", c.DefaultMetric)
		fmt.Fprintf(out, "preview_rows: %d\n", c.PreviewRows)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", c.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", c.WriteTimeoutSec)
		fmt.Fprintf(out, "chart_width_in: %.2f\n", c.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.2f\n", c.ChartHeightIn)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_dir":
			c.DataDir = val
		case "countries":
			var list []string
			for _, p := range strings.Split(val, ",") {
				if p = strings.TrimSpace(p); p == "" {
					continue
				}
				i := slices.IndexFunc(dashboard.DefaultCountries, func(c string) bool { return strings.EqualFold(c, p) })
				if i < 0 {
					return fmt.Errorf("invalid country: %s (use %s)", p, strings.Join(dashboard.DefaultCountries, ", "))
				}
				if name := dashboard.DefaultCountries[i]; !slices.Contains(list, name) {
					list = append(list, name)
				}
			}
			if len(list) == 0 {
				return fmt.Errorf("countries must list at least one country")
			}
			c.Countries = list
		case "default_metric":
			m := strings.ToUpper(strings.TrimSpace(val))
			valid := false
			for _, v := range dashboard.Metrics {
				valid = valid || v == m
			}
			if !valid {
				return fmt.Errorf("invalid default_metric: %s (use %s)", val, strings.Join(dashboard.Metrics, ", "))
			}
			c.DefaultMetric = m
		case "preview_rows", "read_timeout_sec", "write_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			switch key {
			case "preview_rows":
				c.PreviewRows = i
			case "read_timeout_sec":
				c.ReadTimeoutSec = i
			default:
				c.WriteTimeoutSec = i
			}
		case "listen_addr":
			c.ListenAddr = val
		case "chart_width_in", "chart_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for %s: %v", key, val)
			}
			if key == "chart_width_in" {
				c.ChartWidthIn = f
			} else {
				c.ChartHeightIn = f
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
