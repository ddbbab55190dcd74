package pricing

import _ "embed"

// rawPricingJSON is the AmazonS3 Price List subset produced by
// tools/generate-pricing. It holds OnDemand terms for the products the
// storage-class registry filters on, merged across regions.
//
//go:embed data/s3_pricing.json
var rawPricingJSON []byte
