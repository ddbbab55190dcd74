// Command s3costsim estimates Amazon S3 costs for transfer, backup,
// lifecycle, Intelligent-Tiering and retrieval scenarios.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/s3-cost-simulator/internal/metrics"
	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/render"
	"github.com/rshade/s3-cost-simulator/internal/simulator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if code := simulator.ErrorCode(err); code != simulator.CodeInternal {
			fmt.Fprintf(os.Stderr, "[s3costsim] %s: %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "[s3costsim] Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer

	envFile  string
	region   string
	source   string
	logLevel string
	output   string

	config Config
	format render.Format
	logger zerolog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "s3costsim",
		Short: "Estimate Amazon S3 storage costs",
		Long: `s3costsim estimates Amazon S3 costs from public on-demand prices.

Examples:
  s3costsim transfer --size "1 PB" --dedupe 25 --class STANDARD --class GLACIER
  s3costsim backup --size "500 GB" --frequency Weekly --class STANDARD_IA
  s3costsim lifecycle --source STANDARD --target DEEP_ARCHIVE --objects 100000 --average-size "4 MB"
  s3costsim run workload.yaml --output json
  s3costsim serve`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "file of S3SIM_* variables to load (default .env when present)")
	flags.StringVar(&a.region, "region", "", "AWS region to price in (env "+envRegion+", default "+region.Default+")")
	flags.StringVar(&a.source, "pricing-source", "", "price source: embedded or aws (env "+envPricingSource+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (env "+envLogLevel+", default info)")
	flags.StringVarP(&a.output, "output", "o", string(render.FormatTable), "output format: table, json or yaml")

	root.AddCommand(
		a.transferCmd(),
		a.backupCmd(),
		a.lifecycleCmd(),
		a.tieringCmd(),
		a.retrieveCmd(),
		a.runCmd(),
		a.classesCmd(),
		a.regionsCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: a.errOut}).With().Timestamp().Logger()

	if err := loadEnvFile(a.envFile); err != nil {
		return err
	}
	config, err := parseConfig(bootstrap)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("region") {
		r, err := region.Parse(a.region)
		if err != nil {
			return err
		}
		config.Region = r.Code
	}
	if flags.Changed("pricing-source") {
		src, ok := pricing.ParseSource(a.source)
		if !ok {
			return fmt.Errorf("unknown pricing source %q (want embedded or aws)", a.source)
		}
		config.PricingSource = src
	}
	if flags.Changed("log-level") {
		level, err := zerolog.ParseLevel(a.logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
		}
		config.LogLevel = level
	}

	format, err := render.ParseFormat(a.output)
	if err != nil {
		return err
	}

	a.config = config
	a.format = format
	a.logger = bootstrap.Level(config.LogLevel).With().Str("component", "s3costsim").Logger()
	return nil
}

// service builds a simulator over the configured price source.
func (a *app) service(ctx context.Context, recorder *metrics.Recorder) (*simulator.Service, error) {
	catalog, err := pricing.New(ctx, a.config.PricingSource, a.logger, a.config.PricingTimeout)
	if err != nil {
		return nil, err
	}
	return simulator.New(catalog, a.config.Region, recorder, a.logger)
}
