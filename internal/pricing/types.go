package pricing

import (
	"sort"
	"strconv"
)

// awsPricing represents the structure of an AWS Price List offer file.
// It contains metadata, products catalog, and pricing terms.
type awsPricing struct {
	FormatVersion   string                                `json:"formatVersion"`
	Disclaimer      string                                `json:"disclaimer"`
	OfferCode       string                                `json:"offerCode"`
	Version         string                                `json:"version"`
	PublicationDate string                                `json:"publicationDate"`
	Products        map[string]product                    `json:"products"`
	Terms           map[string]map[string]map[string]term `json:"terms"` // Type -> SKU -> OfferTermCode -> Term
}

// priceListItem is one entry of a GetProducts response. Unlike the offer
// file, each entry carries its own product and terms.
type priceListItem struct {
	Product product                    `json:"product"`
	Terms   map[string]map[string]term `json:"terms"` // Type -> OfferTermCode -> Term
}

// product represents an AWS product entry in the pricing data.
// Each product has a SKU, family classification, and attributes.
type product struct {
	Sku           string            `json:"sku"`
	ProductFamily string            `json:"productFamily"`
	Attributes    map[string]string `json:"attributes"`
}

// term represents a pricing term offer (e.g., OnDemand, Reserved).
// Contains offer details and associated price dimensions.
type term struct {
	OfferTermCode   string                    `json:"offerTermCode"`
	Sku             string                    `json:"sku"`
	EffectiveDate   string                    `json:"effectiveDate"`
	PriceDimensions map[string]priceDimension `json:"priceDimensions"`
}

// priceDimension represents a specific pricing dimension within a term.
// Contains rate information, unit of measure, and price per unit by currency.
type priceDimension struct {
	RateCode     string            `json:"rateCode"`
	Description  string            `json:"description"`
	BeginRange   string            `json:"beginRange"`
	EndRange     string            `json:"endRange"`
	Unit         string            `json:"unit"`
	PricePerUnit map[string]string `json:"pricePerUnit"` // Currency -> Amount (string)
	AppliesTo    []string          `json:"appliesTo"`
}

// s3Price is one S3 product distilled from the raw JSON for fast lookups.
type s3Price struct {
	Sku        string
	Attributes map[string]string // keys lower-cased
	Unit       string
	Rate       float64
}

// Metadata describes the price data a catalog answers from.
type Metadata struct {
	// Version is the AWS pricing data version (timestamp-based, e.g., "20251001000000").
	Version string `json:"version"`
	// PublicationDate is the ISO timestamp when AWS published this pricing data.
	PublicationDate string `json:"publication_date"`
	// OfferCode identifies the AWS service ("AmazonS3").
	OfferCode string `json:"offer_code"`
	// Regions lists the region codes with indexed products.
	Regions []string `json:"regions"`
}

// firstTierRate picks the USD rate of the first pricing tier
// (beginRange "0") across the given terms. Dimensions without a beginRange
// are treated as untiered. Keys are walked in sorted order so the result
// does not depend on map iteration.
func firstTierRate(terms map[string]term) (float64, string, bool) {
	termKeys := make([]string, 0, len(terms))
	for k := range terms {
		termKeys = append(termKeys, k)
	}
	sort.Strings(termKeys)

	for _, tk := range termKeys {
		dims := terms[tk].PriceDimensions
		dimKeys := make([]string, 0, len(dims))
		for k := range dims {
			dimKeys = append(dimKeys, k)
		}
		sort.Strings(dimKeys)

		for _, dk := range dimKeys {
			dim := dims[dk]
			if dim.BeginRange != "" && dim.BeginRange != "0" {
				continue
			}
			amountStr, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}
			amount, err := strconv.ParseFloat(amountStr, 64)
			if err != nil {
				continue
			}
			return amount, dim.Unit, true
		}
	}
	return 0, "", false
}
