package pricing

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, client)

	meta := client.Metadata()
	assert.Equal(t, "AmazonS3", meta.OfferCode)
	assert.NotEmpty(t, meta.Version)
	assert.Contains(t, meta.Regions, "us-east-1")
	assert.Contains(t, meta.Regions, "us-west-2")
}

func TestClient_UnitPrice(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name   string
		class  storageclass.StorageClass
		op     storageclass.Operation
		region string
		want   float64
	}{
		{name: "standard storage uses first tier", class: storageclass.Standard, op: storageclass.Storage, region: "us-east-1", want: 0.023},
		{name: "standard put", class: storageclass.Standard, op: storageclass.Put, region: "us-east-1", want: 0.000005},
		{name: "standard get", class: storageclass.Standard, op: storageclass.Get, region: "us-east-1", want: 0.0000004},
		{name: "standard-ia storage prefixed region", class: storageclass.StandardIA, op: storageclass.Storage, region: "us-west-2", want: 0.0125},
		{name: "standard-ia retrieval", class: storageclass.StandardIA, op: storageclass.Retrieval, region: "us-east-1", want: 0.01},
		{name: "glacier put", class: storageclass.Glacier, op: storageclass.Put, region: "us-east-1", want: 0.00003},
		{name: "glacier retrieval", class: storageclass.Glacier, op: storageclass.Retrieval, region: "us-east-1", want: 0.01},
		{name: "glacier restore requests per thousand", class: storageclass.Glacier, op: storageclass.RetrievalRequest, region: "us-east-1", want: 0.05},
		{name: "deep archive storage", class: storageclass.DeepArchive, op: storageclass.Storage, region: "eu-west-1", want: 0.00099},
		{name: "deep archive put", class: storageclass.DeepArchive, op: storageclass.Put, region: "us-east-1", want: 0.00005},
		{name: "deep archive retrieval", class: storageclass.DeepArchive, op: storageclass.Retrieval, region: "us-east-1", want: 0.02},
		{name: "deep archive restore requests per thousand", class: storageclass.DeepArchive, op: storageclass.RetrievalRequest, region: "us-east-1", want: 0.1},
		{name: "intelligent-tiering monitoring", class: storageclass.IntelligentTiering, op: storageclass.Monitoring, region: "us-west-2", want: 0.0000025},
		{name: "glacier ir transition", class: storageclass.GlacierIR, op: storageclass.Transition, region: "us-east-1", want: 0.00002},
		{name: "singapore is dearer", class: storageclass.Standard, op: storageclass.Storage, region: "ap-southeast-1", want: 0.0253},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.UnitPrice(ctx, tt.class, tt.op, tt.region)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestClient_UnitPrice_AllRegistryEntriesResolve(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	require.NoError(t, err)

	for _, regionCode := range client.Metadata().Regions {
		for _, spec := range storageclass.All() {
			for _, op := range spec.Operations {
				price, err := client.UnitPrice(context.Background(), spec.Class, op, regionCode)
				require.NoError(t, err, "%s %s %s", regionCode, spec.Class, op)
				assert.Positive(t, price)
			}
		}
		for _, tier := range storageclass.Tiers() {
			price, err := client.TierPrice(context.Background(), tier.Tier, regionCode)
			require.NoError(t, err, "%s %s", regionCode, tier.Tier)
			assert.Positive(t, price)
		}
	}
}

func TestClient_UnitPrice_Errors(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.UnitPrice(ctx, storageclass.Standard, storageclass.Storage, "mars-east-1")
	require.ErrorIs(t, err, region.ErrUnknownRegion)

	// Known region without embedded data.
	_, err = client.UnitPrice(ctx, storageclass.Standard, storageclass.Storage, "sa-east-1")
	require.ErrorIs(t, err, ErrPriceNotFound)
	assert.Contains(t, err.Error(), "sa-east-1")

	_, err = client.UnitPrice(ctx, storageclass.Standard, storageclass.Retrieval, "us-east-1")
	require.ErrorIs(t, err, storageclass.ErrUnsupportedOperation)

	_, err = client.UnitPrice(ctx, "COLD", storageclass.Put, "us-east-1")
	require.ErrorIs(t, err, storageclass.ErrUnknownClass)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = client.UnitPrice(cancelled, storageclass.Standard, storageclass.Put, "us-east-1")
	require.ErrorIs(t, err, ErrPriceServiceUnavailable)
}

func TestClient_TierPrice(t *testing.T) {
	client, err := NewClient(zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		tier storageclass.AccessTier
		want float64
	}{
		{storageclass.FrequentAccess, 0.023},
		{storageclass.InfrequentAccess, 0.0125},
		{storageclass.ArchiveInstantAccess, 0.004},
		{storageclass.ArchiveAccess, 0.0036},
		{storageclass.DeepArchiveAccess, 0.00099},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			got, err := client.TierPrice(context.Background(), tt.tier, "us-east-1")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestNewClientFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "malformed", raw: `{"products":`, wantErr: true},
		{name: "wrong offer", raw: `{"offerCode":"AmazonEC2","products":{}}`, wantErr: true},
		{name: "empty but valid", raw: `{"offerCode":"AmazonS3","products":{},"terms":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newClientFromJSON([]byte(tt.raw), zerolog.Nop())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPriceServiceUnavailable)
				return
			}
			require.NoError(t, err)
			_, err = c.UnitPrice(context.Background(), storageclass.Standard, storageclass.Put, "us-east-1")
			assert.ErrorIs(t, err, ErrPriceNotFound)
		})
	}
}

func TestFirstTierRate(t *testing.T) {
	terms := map[string]term{
		"SKU.TERM": {
			PriceDimensions: map[string]priceDimension{
				"SKU.TERM.B": {BeginRange: "51200", Unit: "GB-Mo", PricePerUnit: map[string]string{"USD": "0.022"}},
				"SKU.TERM.A": {BeginRange: "0", Unit: "GB-Mo", PricePerUnit: map[string]string{"USD": "0.023"}},
			},
		},
	}
	rate, unit, ok := firstTierRate(terms)
	require.True(t, ok)
	assert.Equal(t, 0.023, rate)
	assert.Equal(t, "GB-Mo", unit)

	_, _, ok = firstTierRate(map[string]term{
		"SKU.TERM": {PriceDimensions: map[string]priceDimension{
			"x": {BeginRange: "0", PricePerUnit: map[string]string{"CNY": "1"}},
		}},
	})
	assert.False(t, ok)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in     string
		want   Source
		wantOK bool
	}{
		{"", SourceEmbedded, true},
		{"embedded", SourceEmbedded, true},
		{"AWS", SourceAWS, true},
		{"live", SourceEmbedded, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSource(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNew_Embedded(t *testing.T) {
	cat, err := New(context.Background(), SourceEmbedded, zerolog.Nop(), 0)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, cat)

	_, err = New(context.Background(), Source("ftp"), zerolog.Nop(), 0)
	require.Error(t, err)
}
