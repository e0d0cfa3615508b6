package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMetricsCommand(version string) *cobra.Command {
	var (
		listen   string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve Prometheus metrics while probing the local store",
		Long: `Serve Prometheus metrics over HTTP.

The local store is probed every --interval so the probe failure counters
reflect its health. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %v", interval)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Metrics.Enabled = true
			if listen != "" {
				cfg.Metrics.ListenAddress = listen
			}

			e, err := openEnvWith(cmd.Context(), cfg, version)
			if err != nil {
				return err
			}
			defer e.close()

			ctx := e.ctx
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					available := e.facade.LocalAvailable(ctx)
					log.Debug().Bool("local_available", available).Msg("Probed local store")
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
					}
				}
			}()

			log.Info().
				Str("address", cfg.Metrics.ListenAddress).
				Str("path", cfg.Metrics.Path).
				Msg("Serving metrics")

			return e.tel.Metrics.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides metrics.listen_address)")
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "local store probe interval")

	return cmd
}
