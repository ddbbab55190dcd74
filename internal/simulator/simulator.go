// Package simulator is the boundary between the outer surfaces (CLI, HTTP)
// and the calculators. Every call gets a trace ID, its own price memo,
// structured logs and metrics.
package simulator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/metrics"
	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

type traceIDKey struct{}

// WithTraceID returns a context carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the trace ID carried by ctx, or a new UUID when there is none.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// Service runs scenario calculations against one catalog. The zero value
// is not usable; use New.
type Service struct {
	catalog  pricing.Catalog
	region   string
	recorder *metrics.Recorder
	logger   zerolog.Logger // logger is immutable (copy-on-write)
}

// New returns a Service. Inputs that name no region are priced in
// defaultRegion. recorder may be nil.
func New(catalog pricing.Catalog, defaultRegion string, recorder *metrics.Recorder, logger zerolog.Logger) (*Service, error) {
	r, err := region.Parse(defaultRegion)
	if err != nil {
		return nil, err
	}
	return &Service{
		catalog:  catalog,
		region:   r.Code,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// Region returns the region used for inputs that name none.
func (s *Service) Region() string {
	return s.region
}

func (s *Service) regionOr(code string) string {
	if code == "" {
		return s.region
	}
	return code
}

// Transfer prices a one-shot multipart upload.
func (s *Service) Transfer(ctx context.Context, in calculator.TransferInput) (*calculator.TransferResult, error) {
	in.Region = s.regionOr(in.Region)
	return run(ctx, s, calculator.ScenarioTransfer, in.Region, func(ctx context.Context, c *calculator.Calculator) (*calculator.TransferResult, error) {
		return c.Transfer(ctx, in)
	})
}

// Backup prices a year of recurring backups.
func (s *Service) Backup(ctx context.Context, in calculator.BackupInput) (*calculator.BackupResult, error) {
	in.Region = s.regionOr(in.Region)
	return run(ctx, s, calculator.ScenarioBackup, in.Region, func(ctx context.Context, c *calculator.Calculator) (*calculator.BackupResult, error) {
		return c.Backup(ctx, in)
	})
}

// Lifecycle prices a lifecycle transition between two classes.
func (s *Service) Lifecycle(ctx context.Context, in calculator.LifecycleInput) (*calculator.LifecycleResult, error) {
	in.Region = s.regionOr(in.Region)
	return run(ctx, s, calculator.ScenarioLifecycle, in.Region, func(ctx context.Context, c *calculator.Calculator) (*calculator.LifecycleResult, error) {
		return c.Lifecycle(ctx, in)
	})
}

// Tiering prices an Intelligent-Tiering access distribution.
func (s *Service) Tiering(ctx context.Context, in calculator.TieringInput) (*calculator.TieringResult, error) {
	in.Region = s.regionOr(in.Region)
	return run(ctx, s, calculator.ScenarioTiering, in.Region, func(ctx context.Context, c *calculator.Calculator) (*calculator.TieringResult, error) {
		return c.Tiering(ctx, in)
	})
}

// Retrieval prices reading files back.
func (s *Service) Retrieval(ctx context.Context, in calculator.RetrievalInput) (*calculator.RetrievalResult, error) {
	in.Region = s.regionOr(in.Region)
	return run(ctx, s, calculator.ScenarioRetrieval, in.Region, func(ctx context.Context, c *calculator.Calculator) (*calculator.RetrievalResult, error) {
		return c.Retrieval(ctx, in)
	})
}

func run[T any](
	ctx context.Context,
	s *Service,
	scenario calculator.Scenario,
	regionCode string,
	calc func(context.Context, *calculator.Calculator) (*T, error),
) (*T, error) {
	start := time.Now()
	traceID := TraceID(ctx)
	logger := s.logger.With().
		Str("trace_id", traceID).
		Str("scenario", string(scenario)).
		Str("aws_region", regionCode).
		Logger()

	memo := pricing.NewMemo(&instrumentedCatalog{next: s.catalog, recorder: s.recorder})
	res, err := calc(ctx, calculator.New(memo, logger))
	elapsed := time.Since(start)
	s.recorder.Calculation(string(scenario), elapsed, err)
	hits, misses := memo.Stats()

	if err != nil {
		logger.Error().
			Str("operation", "Calculate").
			Str("error_code", ErrorCode(err)).
			Int64("duration_ms", elapsed.Milliseconds()).
			Err(err).
			Msg("calculation failed")
		return nil, err
	}

	logger.Info().
		Str("operation", "Calculate").
		Int("price_lookups", misses).
		Int("memo_hits", hits).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("calculation completed")
	return res, nil
}

// instrumentedCatalog counts lookups that reach the underlying catalog.
type instrumentedCatalog struct {
	next     pricing.Catalog
	recorder *metrics.Recorder
}

func (c *instrumentedCatalog) UnitPrice(
	ctx context.Context,
	class storageclass.StorageClass,
	op storageclass.Operation,
	regionCode string,
) (float64, error) {
	p, err := c.next.UnitPrice(ctx, class, op, regionCode)
	c.recorder.PriceLookup(string(op), err)
	return p, err
}

func (c *instrumentedCatalog) TierPrice(ctx context.Context, tier storageclass.AccessTier, regionCode string) (float64, error) {
	p, err := c.next.TierPrice(ctx, tier, regionCode)
	c.recorder.PriceLookup("tier-storage", err)
	return p, err
}
