package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/solardash/internal/log"
	"github.com/KaramelBytes/solardash/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr   string
	serveWarmup bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.ListenAddr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}
		dash, l := newDashboard()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveWarmup {
			// Fill the cache before accepting requests.
			eg, egctx := errgroup.WithContext(ctx)
			for _, country := range dash.Countries() {
				country := country
				eg.Go(func() error {
					_, err := l.Load(egctx, country)
					return err
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}
		}

		srv, err := server.New(server.Config{
			Addr:         addr,
			ReadTimeout:  time.Duration(c.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(c.WriteTimeoutSec) * time.Second,
			Chart:        chartOptions(),
		}, dash, l)
		if err != nil {
			return err
		}
		log.Infow("serving dashboard", "addr", addr, "data_dir", c.DataDir, "countries", dash.Countries())
		cmd.Printf("✓ Dashboard on http://%s\n", addr)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
	serveCmd.Flags().BoolVar(&serveWarmup, "warmup", false, "load every country before accepting requests")
}
