// Package pricing resolves S3 unit prices for a storage class, operation kind
// and region.
//
// Two catalogs are provided: Client answers from a Price List subset embedded
// in the binary, AWSCatalog queries the AWS Price List API. Both return
// prices in the unit fixed by storageclass.Operation.Unit.
package pricing

import (
	"context"
	"errors"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// Message templates shared by the catalogs.
const (
	// PricingNotFoundTemplate formats "no price" errors. Args: class or tier, operation, region.
	PricingNotFoundTemplate = "%s %s not found in pricing data for region %s"

	// PricingUnavailableTemplate formats transport errors. Args: region.
	PricingUnavailableTemplate = "pricing data not available for region %s"
)

var (
	// ErrPriceNotFound is returned when the catalog has no entry for a lookup.
	ErrPriceNotFound = errors.New("price not found")

	// ErrPriceServiceUnavailable is returned when the catalog cannot be reached
	// or its data cannot be read.
	ErrPriceServiceUnavailable = errors.New("pricing service unavailable")
)

// Catalog provides unit prices.
type Catalog interface {
	// UnitPrice returns the price of op for class in region, quoted per
	// op.Unit().
	UnitPrice(ctx context.Context, class storageclass.StorageClass, op storageclass.Operation, region string) (float64, error)

	// TierPrice returns the per GB-month storage price of an
	// Intelligent-Tiering access tier in region.
	TierPrice(ctx context.Context, tier storageclass.AccessTier, region string) (float64, error)
}
