package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// slowLookupThreshold is the duration after which a lookup is logged as slow.
const slowLookupThreshold = 50 * time.Millisecond

// Client implements Catalog with embedded Price List data.
type Client struct {
	raw    []byte
	logger zerolog.Logger

	// Thread-safe initialization
	once sync.Once
	err  error

	metadata Metadata

	// In-memory S3 product index, keyed by region code (built on first access)
	index map[string][]s3Price
}

// NewClient creates a Client that answers from the embedded S3 price list.
// The logger is used for slow-lookup warnings and index diagnostics.
// It returns a non-nil error if the embedded data cannot be parsed.
func NewClient(logger zerolog.Logger) (*Client, error) {
	return newClientFromJSON(rawPricingJSON, logger)
}

func newClientFromJSON(raw []byte, logger zerolog.Logger) (*Client, error) {
	c := &Client{
		raw:    raw,
		logger: logger,
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// init parses the price list exactly once
func (c *Client) init() error {
	c.once.Do(func() {
		var data awsPricing
		if err := json.Unmarshal(c.raw, &data); err != nil {
			c.err = fmt.Errorf("%w: failed to parse pricing data: %v", ErrPriceServiceUnavailable, err)
			return
		}
		if data.OfferCode != "" && data.OfferCode != "AmazonS3" {
			c.err = fmt.Errorf("%w: unexpected offer code %q", ErrPriceServiceUnavailable, data.OfferCode)
			return
		}

		c.index = make(map[string][]s3Price)
		onDemand := data.Terms["OnDemand"]

		skus := make([]string, 0, len(data.Products))
		for sku := range data.Products {
			skus = append(skus, sku)
		}
		sort.Strings(skus)

		skipped := 0
		for _, sku := range skus {
			prod := data.Products[sku]
			regionCode := prod.Attributes["regionCode"]
			if regionCode == "" {
				skipped++
				continue
			}

			rate, unit, found := firstTierRate(onDemand[sku])
			if !found {
				skipped++
				continue
			}

			attrs := make(map[string]string, len(prod.Attributes))
			for k, v := range prod.Attributes {
				attrs[strings.ToLower(k)] = v
			}
			c.index[regionCode] = append(c.index[regionCode], s3Price{
				Sku:        sku,
				Attributes: attrs,
				Unit:       unit,
				Rate:       rate,
			})
		}

		regions := make([]string, 0, len(c.index))
		for r := range c.index {
			regions = append(regions, r)
		}
		sort.Strings(regions)

		c.metadata = Metadata{
			Version:         data.Version,
			PublicationDate: data.PublicationDate,
			OfferCode:       data.OfferCode,
			Regions:         regions,
		}

		c.logger.Debug().
			Str("pricing_version", data.Version).
			Int("products", len(data.Products)).
			Int("skipped", skipped).
			Strs("regions", regions).
			Msg("indexed embedded S3 pricing data")
	})
	return c.err
}

// Metadata returns the version and region coverage of the embedded data.
func (c *Client) Metadata() Metadata {
	return c.metadata
}

// UnitPrice implements Catalog.
func (c *Client) UnitPrice(
	ctx context.Context,
	class storageclass.StorageClass,
	op storageclass.Operation,
	regionCode string,
) (float64, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		if elapsed > slowLookupThreshold {
			c.logger.Warn().
				Str("storage_class", string(class)).
				Str("operation_kind", string(op)).
				Str("aws_region", regionCode).
				Dur("elapsed", elapsed).
				Msg("pricing lookup took too long")
		}
	}()

	r, err := region.Parse(regionCode)
	if err != nil {
		return 0, err
	}
	filters, err := storageclass.Filters(class, op, r)
	if err != nil {
		return 0, err
	}

	rate, err := c.lookup(ctx, filters)
	if errors.Is(err, ErrPriceNotFound) {
		return 0, fmt.Errorf("%w: "+PricingNotFoundTemplate, ErrPriceNotFound, class, op, r.Code)
	}
	if err != nil {
		return 0, err
	}
	return rate * op.CatalogScale(), nil
}

// TierPrice implements Catalog.
func (c *Client) TierPrice(ctx context.Context, tier storageclass.AccessTier, regionCode string) (float64, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		if elapsed > slowLookupThreshold {
			c.logger.Warn().
				Str("access_tier", string(tier)).
				Str("aws_region", regionCode).
				Dur("elapsed", elapsed).
				Msg("pricing lookup took too long")
		}
	}()

	r, err := region.Parse(regionCode)
	if err != nil {
		return 0, err
	}
	filters, err := storageclass.TierFilters(tier, r)
	if err != nil {
		return 0, err
	}

	rate, err := c.lookup(ctx, filters)
	if errors.Is(err, ErrPriceNotFound) {
		return 0, fmt.Errorf("%w: "+PricingNotFoundTemplate, ErrPriceNotFound, storageclass.IntelligentTiering, tier, r.Code)
	}
	if err != nil {
		return 0, err
	}
	return rate, nil
}

// lookup returns the rate of the first product (by SKU) whose attributes
// match every filter. The first filter is always the region code.
func (c *Client) lookup(ctx context.Context, filters []storageclass.Attribute) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceServiceUnavailable, err)
	}
	if err := c.init(); err != nil {
		return 0, err
	}

	products := c.index[filters[0].Value]
	for _, p := range products {
		if matches(p.Attributes, filters[1:]) {
			c.logger.Debug().
				Str("sku", p.Sku).
				Str("unit", p.Unit).
				Float64("rate", p.Rate).
				Msg("pricing lookup matched")
			return p.Rate, nil
		}
	}
	return 0, ErrPriceNotFound
}

func matches(attrs map[string]string, filters []storageclass.Attribute) bool {
	for _, f := range filters {
		if attrs[strings.ToLower(f.Field)] != f.Value {
			return false
		}
	}
	return true
}
