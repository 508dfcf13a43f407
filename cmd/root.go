package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/solardash/internal/config"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/loader"
	"github.com/KaramelBytes/solardash/internal/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	flagDataDir string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "solardash",
	Short: "Solar irradiance dashboard for Benin, Sierra Leone and Togo",
	Long: `solardash loads per-country solar irradiance CSV files (data/{country}_clean.csv),
compares GHI, DNI and DHI across the selected countries with a box plot and summary
statistics, and previews the rows inside a GHI range. Run "solardash serve" for the
interactive dashboard or "solardash report" for a one-shot summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.solardash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding {country}_clean.csv files (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c
	if f := rootCmd.PersistentFlags(); f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
}

// currentConfig returns the loaded configuration, loading it on first use
// when the command runs outside Execute (tests).
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

// newDashboard wires a loader over the configured data directory.
func newDashboard() (*dashboard.Dashboard, *loader.Loader) {
	c := currentConfig()
	l := loader.New(nil, c.DataDir)
	return dashboard.New(l, dashboard.Options{
		Countries:     c.Countries,
		DefaultMetric: c.DefaultMetric,
		PreviewRows:   c.PreviewRows,
	}), l
}
