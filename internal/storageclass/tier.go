package storageclass

import (
	"fmt"

	"github.com/rshade/s3-cost-simulator/internal/region"
)

// AccessTier is an Intelligent-Tiering access tier.
type AccessTier string

// Intelligent-Tiering access tiers, warmest first.
const (
	FrequentAccess       AccessTier = "frequent"
	InfrequentAccess     AccessTier = "infrequent"
	ArchiveInstantAccess AccessTier = "instant"
	ArchiveAccess        AccessTier = "archive"
	DeepArchiveAccess    AccessTier = "deep"
)

// TierSpec describes one Intelligent-Tiering access tier.
type TierSpec struct {
	Tier        AccessTier `json:"tier" yaml:"tier"`
	DisplayName string     `json:"display_name" yaml:"display_name"`

	// Optional tiers only receive objects once explicitly enabled on the bucket.
	Optional bool `json:"optional" yaml:"optional"`

	// DefaultDays is the number of consecutive days without access before
	// objects move into this tier.
	DefaultDays int `json:"default_days" yaml:"default_days"`

	// MinDays and MaxDays bound a configurable transition threshold. Both are
	// zero for tiers with a fixed threshold.
	MinDays int `json:"min_days,omitempty" yaml:"min_days,omitempty"`
	MaxDays int `json:"max_days,omitempty" yaml:"max_days,omitempty"`

	filter []Attribute
}

var tierOrder = []AccessTier{
	FrequentAccess,
	InfrequentAccess,
	ArchiveInstantAccess,
	ArchiveAccess,
	DeepArchiveAccess,
}

var tiers = map[AccessTier]TierSpec{
	FrequentAccess: {
		Tier:        FrequentAccess,
		DisplayName: "Frequent Access Tier",
		DefaultDays: 0,
		filter:      []Attribute{{Field: "usagetype", Value: "TimedStorage-INT-FA-ByteHrs", RegionPrefixed: true}},
	},
	InfrequentAccess: {
		Tier:        InfrequentAccess,
		DisplayName: "Infrequent Access Tier",
		DefaultDays: 30,
		filter:      []Attribute{{Field: "usagetype", Value: "TimedStorage-INT-IA-ByteHrs", RegionPrefixed: true}},
	},
	ArchiveInstantAccess: {
		Tier:        ArchiveInstantAccess,
		DisplayName: "Archive Instant Access Tier",
		DefaultDays: 90,
		filter:      []Attribute{{Field: "usagetype", Value: "TimedStorage-INT-AIA-ByteHrs", RegionPrefixed: true}},
	},
	ArchiveAccess: {
		Tier:        ArchiveAccess,
		DisplayName: "Archive Access Tier",
		Optional:    true,
		DefaultDays: 90,
		MinDays:     90,
		MaxDays:     730,
		filter:      []Attribute{{Field: "usagetype", Value: "TimedStorage-INT-AA-ByteHrs", RegionPrefixed: true}},
	},
	DeepArchiveAccess: {
		Tier:        DeepArchiveAccess,
		DisplayName: "Deep Archive Access Tier",
		Optional:    true,
		DefaultDays: 180,
		MinDays:     180,
		MaxDays:     730,
		filter:      []Attribute{{Field: "usagetype", Value: "TimedStorage-INT-DAA-ByteHrs", RegionPrefixed: true}},
	},
}

// Tiers returns every access tier, warmest first.
func Tiers() []TierSpec {
	out := make([]TierSpec, 0, len(tierOrder))
	for _, t := range tierOrder {
		out = append(out, tiers[t])
	}
	return out
}

// LookupTier returns the TierSpec for t.
func LookupTier(t AccessTier) (TierSpec, error) {
	spec, ok := tiers[t]
	if !ok {
		return TierSpec{}, fmt.Errorf("%w: access tier %q", ErrUnknownClass, string(t))
	}
	return spec, nil
}

// TierFilters returns the Price List filters for the per GB-month storage
// rate of tier t in r.
func TierFilters(t AccessTier, r region.Region) ([]Attribute, error) {
	spec, err := LookupTier(t)
	if err != nil {
		return nil, err
	}
	return resolve(spec.filter, r), nil
}

// String implements fmt.Stringer.
func (t AccessTier) String() string {
	return string(t)
}
