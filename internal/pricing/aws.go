package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// priceListEndpointRegion is the region hosting the Price List API endpoint.
const priceListEndpointRegion = "us-east-1"

// DefaultTimeout bounds one GetProducts call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// productsAPI is the subset of the Price List API client used by AWSCatalog.
type productsAPI interface {
	GetProducts(ctx context.Context, params *awspricing.GetProductsInput, optFns ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error)
}

// AWSCatalog implements Catalog against the live AWS Price List API.
// Each lookup is one GetProducts call; callers that repeat lookups within a
// calculation should wrap it in a Memo.
type AWSCatalog struct {
	api     productsAPI
	logger  zerolog.Logger
	timeout time.Duration
}

// NewAWSCatalog loads the default AWS configuration (environment, shared
// config, IMDS) and returns a catalog bound to the Price List endpoint.
func NewAWSCatalog(ctx context.Context, logger zerolog.Logger, timeout time.Duration) (*AWSCatalog, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(priceListEndpointRegion))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", ErrPriceServiceUnavailable, err)
	}
	return newAWSCatalog(awspricing.NewFromConfig(cfg), logger, timeout), nil
}

func newAWSCatalog(api productsAPI, logger zerolog.Logger, timeout time.Duration) *AWSCatalog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AWSCatalog{api: api, logger: logger, timeout: timeout}
}

// UnitPrice implements Catalog.
func (a *AWSCatalog) UnitPrice(
	ctx context.Context,
	class storageclass.StorageClass,
	op storageclass.Operation,
	regionCode string,
) (float64, error) {
	r, err := region.Parse(regionCode)
	if err != nil {
		return 0, err
	}
	filters, err := storageclass.Filters(class, op, r)
	if err != nil {
		return 0, err
	}

	rate, err := a.fetch(ctx, filters, string(class), string(op), r.Code)
	if err != nil {
		return 0, err
	}
	return rate * op.CatalogScale(), nil
}

// TierPrice implements Catalog.
func (a *AWSCatalog) TierPrice(ctx context.Context, tier storageclass.AccessTier, regionCode string) (float64, error) {
	r, err := region.Parse(regionCode)
	if err != nil {
		return 0, err
	}
	filters, err := storageclass.TierFilters(tier, r)
	if err != nil {
		return 0, err
	}
	return a.fetch(ctx, filters, string(storageclass.IntelligentTiering), string(tier), r.Code)
}

func (a *AWSCatalog) fetch(ctx context.Context, attrs []storageclass.Attribute, subject, kind, regionCode string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	filters := make([]pricingtypes.Filter, 0, len(attrs))
	for _, attr := range attrs {
		filters = append(filters, pricingtypes.Filter{
			Type:  pricingtypes.FilterTypeTermMatch,
			Field: aws.String(attr.Field),
			Value: aws.String(attr.Value),
		})
	}

	start := time.Now()
	out, err := a.api.GetProducts(ctx, &awspricing.GetProductsInput{
		ServiceCode:   aws.String("AmazonS3"),
		Filters:       filters,
		FormatVersion: aws.String("aws_v1"),
		MaxResults:    aws.Int32(10),
	})
	elapsed := time.Since(start)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("storage_class", subject).
			Str("operation_kind", kind).
			Str("aws_region", regionCode).
			Dur("elapsed", elapsed).
			Msg("GetProducts failed")
		return 0, fmt.Errorf("%w: "+PricingUnavailableTemplate+": %v", ErrPriceServiceUnavailable, regionCode, err)
	}

	for _, raw := range out.PriceList {
		var item priceListItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			a.logger.Debug().Err(err).Msg("skipping malformed price list entry")
			continue
		}
		rate, unit, found := firstTierRate(item.Terms["OnDemand"])
		if !found {
			continue
		}
		a.logger.Debug().
			Str("sku", item.Product.Sku).
			Str("storage_class", subject).
			Str("operation_kind", kind).
			Str("aws_region", regionCode).
			Str("unit", unit).
			Float64("rate", rate).
			Dur("elapsed", elapsed).
			Msg("live price resolved")
		return rate, nil
	}

	return 0, fmt.Errorf("%w: "+PricingNotFoundTemplate, ErrPriceNotFound, subject, kind, regionCode)
}
