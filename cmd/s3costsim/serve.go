package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rshade/s3-cost-simulator/internal/api"
	"github.com/rshade/s3-cost-simulator/internal/metrics"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scenario calculators over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				a.config.ListenAddr = addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			sim, err := a.service(cmd.Context(), metrics.New(reg))
			if err != nil {
				return err
			}

			a.logger.Info().
				Str("listen_addr", a.config.ListenAddr).
				Str("aws_region", sim.Region()).
				Str("pricing_source", string(a.config.PricingSource)).
				Msg("starting server")
			return api.ListenAndServe(cmd.Context(), a.config.ListenAddr, api.NewHandler(sim, reg, a.logger), a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "listen", defaultListenAddr, "address to listen on (env "+envListenAddr+")")
	return cmd
}
