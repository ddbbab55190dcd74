package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

type fakeProductsAPI struct {
	input     *awspricing.GetProductsInput
	priceList []string
	err       error
}

func (f *fakeProductsAPI) GetProducts(
	_ context.Context,
	params *awspricing.GetProductsInput,
	_ ...func(*awspricing.Options),
) (*awspricing.GetProductsOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &awspricing.GetProductsOutput{PriceList: f.priceList}, nil
}

const glacierRestoreItem = `{
  "product": {"sku": "ABC123", "productFamily": "API Request",
    "attributes": {"regionCode": "us-west-2", "group": "S3-API-Tier3", "operation": "RestoreObject"}},
  "terms": {"OnDemand": {"ABC123.JRTCKXETXF": {"sku": "ABC123",
    "priceDimensions": {"ABC123.JRTCKXETXF.6YS6EN2CT7": {
      "beginRange": "0", "endRange": "Inf", "unit": "Requests",
      "pricePerUnit": {"USD": "0.0000500000"}}}}}}
}`

const tieredStorageItem = `{
  "product": {"sku": "STD1", "attributes": {"regionCode": "us-west-2"}},
  "terms": {"OnDemand": {"STD1.T": {"priceDimensions": {
    "STD1.T.B": {"beginRange": "51200", "endRange": "512000", "unit": "GB-Mo", "pricePerUnit": {"USD": "0.022"}},
    "STD1.T.A": {"beginRange": "0", "endRange": "51200", "unit": "GB-Mo", "pricePerUnit": {"USD": "0.023"}}}}}}
}`

func TestAWSCatalog_UnitPrice(t *testing.T) {
	api := &fakeProductsAPI{priceList: []string{glacierRestoreItem}}
	c := newAWSCatalog(api, zerolog.Nop(), time.Second)

	price, err := c.UnitPrice(context.Background(), storageclass.Glacier, storageclass.RetrievalRequest, "us-west-2")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, price, 1e-12, "restore requests are quoted per thousand")

	require.NotNil(t, api.input)
	assert.Equal(t, "AmazonS3", aws.ToString(api.input.ServiceCode))

	usw2, err := region.Parse("us-west-2")
	require.NoError(t, err)
	want, err := storageclass.Filters(storageclass.Glacier, storageclass.RetrievalRequest, usw2)
	require.NoError(t, err)
	require.Len(t, api.input.Filters, len(want))
	for i, f := range api.input.Filters {
		assert.Equal(t, want[i].Field, aws.ToString(f.Field))
		assert.Equal(t, want[i].Value, aws.ToString(f.Value))
		assert.Equal(t, "TERM_MATCH", string(f.Type))
	}
}

func TestAWSCatalog_TierPrice_FirstTier(t *testing.T) {
	api := &fakeProductsAPI{priceList: []string{tieredStorageItem}}
	c := newAWSCatalog(api, zerolog.Nop(), 0)

	price, err := c.TierPrice(context.Background(), storageclass.FrequentAccess, "us-west-2")
	require.NoError(t, err)
	assert.Equal(t, 0.023, price)
	assert.Equal(t, "USW2-TimedStorage-INT-FA-ByteHrs", aws.ToString(api.input.Filters[1].Value))
}

func TestAWSCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeProductsAPI
		region  string
		wantErr error
	}{
		{
			name:    "transport failure",
			api:     &fakeProductsAPI{err: errors.New("connection reset")},
			region:  "us-east-1",
			wantErr: ErrPriceServiceUnavailable,
		},
		{
			name:    "empty price list",
			api:     &fakeProductsAPI{},
			region:  "us-east-1",
			wantErr: ErrPriceNotFound,
		},
		{
			name:    "malformed entries only",
			api:     &fakeProductsAPI{priceList: []string{"{not json"}},
			region:  "us-east-1",
			wantErr: ErrPriceNotFound,
		},
		{
			name:    "unknown region",
			api:     &fakeProductsAPI{},
			region:  "nowhere-1",
			wantErr: region.ErrUnknownRegion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAWSCatalog(tt.api, zerolog.Nop(), time.Second)
			_, err := c.UnitPrice(context.Background(), storageclass.Standard, storageclass.Put, tt.region)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
