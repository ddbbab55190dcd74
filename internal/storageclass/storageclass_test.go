package storageclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/s3-cost-simulator/internal/region"
)

func TestLookup_MinStorageDays(t *testing.T) {
	tests := []struct {
		class StorageClass
		want  int
	}{
		{Standard, 0},
		{IntelligentTiering, 0},
		{StandardIA, 30},
		{OneZoneIA, 30},
		{GlacierIR, 90},
		{Glacier, 90},
		{DeepArchive, 180},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			spec, err := Lookup(tt.class)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.MinStorageDays)
			assert.Equal(t, tt.want, MinStorageDays(tt.class))
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("REDUCED_REDUNDANCY")
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    StorageClass
		wantErr bool
	}{
		{name: "code", in: "STANDARD_IA", want: StandardIA},
		{name: "lower code", in: "glacier_ir", want: GlacierIR},
		{name: "display name", in: "S3 Glacier Deep Archive", want: DeepArchive},
		{name: "display name any case", in: "s3 one zone - infrequent access", want: OneZoneIA},
		{name: "unknown", in: "COLD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownClass)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOperations(t *testing.T) {
	std, err := Lookup(Standard)
	require.NoError(t, err)
	assert.Equal(t, []Operation{Put, Get, Storage, Transition}, std.Operations)
	assert.False(t, std.Supports(Retrieval))

	gl, err := Lookup(Glacier)
	require.NoError(t, err)
	assert.True(t, gl.Supports(Retrieval))
	assert.True(t, gl.Supports(RetrievalRequest))

	it, err := Lookup(IntelligentTiering)
	require.NoError(t, err)
	assert.True(t, it.Supports(Monitoring))

	for _, spec := range All() {
		for _, op := range []Operation{Put, Get, Storage, Transition} {
			assert.True(t, spec.Supports(op), "%s must support %s", spec.Class, op)
		}
	}
}

func TestAll_Order(t *testing.T) {
	all := All()
	require.Len(t, all, 7)
	assert.Equal(t, Standard, all[0].Class)
	assert.Equal(t, GlacierIR, all[6].Class)
}

func TestComparable(t *testing.T) {
	assert.True(t, Comparable(Standard))
	assert.True(t, Comparable(DeepArchive))
	assert.False(t, Comparable(IntelligentTiering))
	assert.False(t, Comparable("NOPE"))
}

func TestFilters(t *testing.T) {
	usw2, err := region.Parse("us-west-2")
	require.NoError(t, err)
	use1, err := region.Parse("us-east-1")
	require.NoError(t, err)

	got, err := Filters(StandardIA, Storage, usw2)
	require.NoError(t, err)
	assert.Equal(t, []Attribute{
		{Field: "regionCode", Value: "us-west-2"},
		{Field: "usagetype", Value: "USW2-TimedStorage-SIA-ByteHrs"},
	}, got)

	got, err = Filters(Standard, Storage, use1)
	require.NoError(t, err)
	assert.Equal(t, "TimedStorage-ByteHrs", got[1].Value)

	got, err = Filters(Glacier, Put, usw2)
	require.NoError(t, err)
	assert.Equal(t, []Attribute{
		{Field: "regionCode", Value: "us-west-2"},
		{Field: "group", Value: "S3-API-GLACIER-Tier1"},
		{Field: "operation", Value: "PutObject"},
	}, got)

	_, err = Filters(Standard, Retrieval, use1)
	require.ErrorIs(t, err, ErrUnsupportedOperation)

	_, err = Filters("NOPE", Put, use1)
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestFilters_DoNotMutateRegistry(t *testing.T) {
	usw2, err := region.Parse("us-west-2")
	require.NoError(t, err)
	_, err = Filters(Standard, Storage, usw2)
	require.NoError(t, err)

	assert.Equal(t, "TimedStorage-ByteHrs", registry[Standard].filters[Storage][0].Value)
	assert.True(t, registry[Standard].filters[Storage][0].RegionPrefixed)
}

func TestOperation_Units(t *testing.T) {
	assert.Equal(t, "GB-Mo", Storage.Unit())
	assert.Equal(t, "request", Put.Unit())
	assert.Equal(t, 1000.0, RetrievalRequest.CatalogScale())
	assert.Equal(t, 1.0, Get.CatalogScale())
}

func TestTiers(t *testing.T) {
	all := Tiers()
	require.Len(t, all, 5)

	wantDays := []int{0, 30, 90, 90, 180}
	for i, tier := range all {
		assert.Equal(t, wantDays[i], tier.DefaultDays, tier.Tier)
	}

	archive, err := LookupTier(ArchiveAccess)
	require.NoError(t, err)
	assert.True(t, archive.Optional)
	assert.Equal(t, 90, archive.MinDays)
	assert.Equal(t, 730, archive.MaxDays)

	deep, err := LookupTier(DeepArchiveAccess)
	require.NoError(t, err)
	assert.Equal(t, 180, deep.MinDays)

	euw1, err := region.Parse("eu-west-1")
	require.NoError(t, err)
	f, err := TierFilters(ArchiveInstantAccess, euw1)
	require.NoError(t, err)
	assert.Equal(t, "EU-TimedStorage-INT-AIA-ByteHrs", f[1].Value)

	_, err = LookupTier("lukewarm")
	require.Error(t, err)
}

func TestWaterfall(t *testing.T) {
	assert.True(t, CanTransition(Standard, DeepArchive))
	assert.True(t, CanTransition(Glacier, DeepArchive))
	assert.False(t, CanTransition(DeepArchive, Standard))
	assert.False(t, CanTransition(Glacier, StandardIA))
	assert.Empty(t, AllowedTargets(DeepArchive))

	targets := AllowedTargets(Standard)
	targets[0] = DeepArchive
	assert.Equal(t, StandardIA, AllowedTargets(Standard)[0], "AllowedTargets must return a copy")
}

func TestAllFilters(t *testing.T) {
	all := AllFilters()
	// 7 classes with 4 common ops, 5 retrieval, 2 retrieval-request, 1 monitoring, plus 5 tiers.
	assert.Len(t, all, 7*4+5+2+1+5)
}
