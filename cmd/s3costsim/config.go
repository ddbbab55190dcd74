package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
)

// Environment variables read by the CLI.
const (
	envRegion         = "S3SIM_REGION"
	envPricingSource  = "S3SIM_PRICING_SOURCE"
	envLogLevel       = "S3SIM_LOG_LEVEL"
	envListenAddr     = "S3SIM_LISTEN_ADDR"
	envPricingTimeout = "S3SIM_PRICING_TIMEOUT"
)

const (
	defaultEnvFile    = ".env"
	defaultListenAddr = ":8080"
)

// Config holds the settings shared by every subcommand. Flags override it.
type Config struct {
	Region         string
	PricingSource  pricing.Source
	LogLevel       zerolog.Level
	ListenAddr     string
	PricingTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		Region:         region.Default,
		PricingSource:  pricing.SourceEmbedded,
		LogLevel:       zerolog.InfoLevel,
		ListenAddr:     defaultListenAddr,
		PricingTimeout: pricing.DefaultTimeout,
	}
}

// loadEnvFile seeds the environment from path without overriding variables
// that are already set. A missing default .env is not an error.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// parseConfig reads S3SIM_* variables. Invalid optional values are logged
// and replaced by their defaults; an unknown region is an error.
func parseConfig(logger zerolog.Logger) (Config, error) {
	config := defaultConfig()

	if v := strings.TrimSpace(os.Getenv(envRegion)); v != "" {
		r, err := region.Parse(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envRegion, err)
		}
		config.Region = r.Code
	}

	if v := os.Getenv(envPricingSource); v != "" {
		src, ok := pricing.ParseSource(v)
		if !ok {
			logger.Warn().Str("value", v).Msg("invalid " + envPricingSource + ", using embedded")
		}
		config.PricingSource = src
	}

	if v := os.Getenv(envLogLevel); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil || level == zerolog.NoLevel {
			logger.Warn().Str("value", v).Msg("invalid " + envLogLevel + ", using info")
		} else {
			config.LogLevel = level
		}
	}

	if v := strings.TrimSpace(os.Getenv(envListenAddr)); v != "" {
		config.ListenAddr = v
	}

	if v := os.Getenv(envPricingTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.PricingTimeout = d
		} else {
			logger.Warn().Str("value", v).Msg("invalid " + envPricingTimeout + ", using default")
		}
	}

	logger.Debug().
		Str("aws_region", config.Region).
		Str("pricing_source", string(config.PricingSource)).
		Str("log_level", config.LogLevel.String()).
		Str("listen_addr", config.ListenAddr).
		Dur("pricing_timeout", config.PricingTimeout).
		Msg("configuration loaded")

	return config, nil
}
