// Package calculator implements the S3 workload cost calculators.
//
// Each calculator validates its whole input before the first price lookup
// and returns either a complete result or an error, never both. A failed
// lookup for any selected class aborts the calculation. No value is rounded
// here; see package render for presentation.
package calculator

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// daysPerMonth converts monthly storage rates to daily rates.
const daysPerMonth = 30.0

// Calculator runs scenario calculations against a pricing catalog.
type Calculator struct {
	catalog pricing.Catalog
	logger  zerolog.Logger
}

// New returns a Calculator. Callers that want each (class, operation,
// region) looked up once per calculation pass a fresh pricing.Memo.
func New(catalog pricing.Catalog, logger zerolog.Logger) *Calculator {
	return &Calculator{catalog: catalog, logger: logger}
}

func (c *Calculator) price(
	ctx context.Context,
	class storageclass.StorageClass,
	op storageclass.Operation,
	regionCode string,
) (float64, error) {
	p, err := c.catalog.UnitPrice(ctx, class, op, regionCode)
	if err != nil {
		return 0, fmt.Errorf("%s %s price: %w", class, op, err)
	}
	c.logger.Debug().
		Str("storage_class", string(class)).
		Str("operation_kind", string(op)).
		Str("aws_region", regionCode).
		Float64("unit_price", p).
		Msg("pricing lookup successful")
	return p, nil
}

// optionalPrice returns zero without a lookup when class is not billed
// for op.
func (c *Calculator) optionalPrice(
	ctx context.Context,
	spec storageclass.Spec,
	op storageclass.Operation,
	regionCode string,
) (float64, error) {
	if !spec.Supports(op) {
		return 0, nil
	}
	return c.price(ctx, spec.Class, op, regionCode)
}

// validateClasses checks a class selection and returns it with duplicates
// removed, in the order given.
func validateClasses(classes []storageclass.StorageClass, comparableOnly bool) ([]storageclass.StorageClass, error) {
	if len(classes) == 0 {
		return nil, ErrNoClassSelected
	}
	out := make([]storageclass.StorageClass, 0, len(classes))
	for _, class := range classes {
		if _, err := storageclass.Lookup(class); err != nil {
			return nil, err
		}
		if comparableOnly && !storageclass.Comparable(class) {
			return nil, fmt.Errorf("%w: %s cannot be compared in this scenario", ErrInvalidInput, class.DisplayName())
		}
		if !slices.Contains(out, class) {
			out = append(out, class)
		}
	}
	return out, nil
}

func validateRegion(code string) (string, error) {
	r, err := region.Parse(code)
	if err != nil {
		return "", err
	}
	return r.Code, nil
}

// quantity normalizes the unit of q and rejects negative values.
func quantity(name string, q units.Quantity) (units.Quantity, error) {
	u, err := units.ParseUnit(string(q.Unit))
	if err != nil {
		return units.Quantity{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := nonNegative(name, q.Value); err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: q.Value, Unit: u}, nil
}

func nonNegative(name string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func inRange(name string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidInput, name, lo, hi, v)
	}
	return nil
}
