package calculator

import (
	"context"
	"fmt"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// Tiering breakdown labels that do not depend on the tier.
const (
	LabelTieringMonitoringRate = "Monitoring and automation cost per object"
	LabelTieringMonitoring     = "Monitoring and automation cost"
	LabelTieringTotal          = "Monthly total cost"
	noteInstantBypassed        = "The Archive Access tier is enabled at 90 days, so objects bypass the Archive Instant Access tier."
)

// TieringInput describes how an Intelligent-Tiering data set is spread
// across access tiers. Percentages are whole numbers. The Archive Access
// and Deep Archive Access tiers only count when enabled; a zero day
// threshold on an enabled tier selects its default.
type TieringInput struct {
	ObjectCount int64          `json:"object_count" yaml:"object_count"`
	AverageSize units.Quantity `json:"average_size" yaml:"average_size"`

	FrequentPercent    int `json:"frequent_percent" yaml:"frequent_percent"`
	InfrequentPercent  int `json:"infrequent_percent" yaml:"infrequent_percent"`
	InstantPercent     int `json:"instant_percent" yaml:"instant_percent"`
	ArchivePercent     int `json:"archive_percent" yaml:"archive_percent"`
	DeepArchivePercent int `json:"deep_archive_percent" yaml:"deep_archive_percent"`

	ArchiveEnabled     bool `json:"archive_enabled" yaml:"archive_enabled"`
	ArchiveDays        int  `json:"archive_days,omitempty" yaml:"archive_days,omitempty"`
	DeepArchiveEnabled bool `json:"deep_archive_enabled" yaml:"deep_archive_enabled"`
	DeepArchiveDays    int  `json:"deep_archive_days,omitempty" yaml:"deep_archive_days,omitempty"`

	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// TierAllocation is the share of the data set held in one active tier.
type TierAllocation struct {
	Tier           storageclass.AccessTier `json:"tier" yaml:"tier"`
	DisplayName    string                  `json:"display_name" yaml:"display_name"`
	Percent        int                     `json:"percent" yaml:"percent"`
	TransitionDays int                     `json:"transition_days" yaml:"transition_days"`
	SizeGB         float64                 `json:"size_gb" yaml:"size_gb"`
	RatePerGBMonth float64                 `json:"rate_per_gb_month" yaml:"rate_per_gb_month"`
	MonthlyCost    float64                 `json:"monthly_cost" yaml:"monthly_cost"`
}

// TieringResult is the monthly Intelligent-Tiering cost of the allocation.
type TieringResult struct {
	TotalSizeGB     float64          `json:"total_size_gb" yaml:"total_size_gb"`
	Tiers           []TierAllocation `json:"tiers" yaml:"tiers"`
	InstantBypassed bool             `json:"instant_bypassed" yaml:"instant_bypassed"`
	MonitoringCost  float64          `json:"monitoring_cost" yaml:"monitoring_cost"`
	MonthlyTotal    float64          `json:"monthly_total" yaml:"monthly_total"`
	Breakdown       *Breakdown       `json:"breakdown" yaml:"breakdown"`
}

// TierStorageLabel is the breakdown label of a tier's monthly storage cost.
func TierStorageLabel(spec storageclass.TierSpec) string {
	return spec.DisplayName + " storage cost"
}

// TierRateLabel is the breakdown label of a tier's storage rate.
func TierRateLabel(spec storageclass.TierSpec) string {
	return spec.DisplayName + " storage cost per GB-month"
}

type activeTier struct {
	spec    storageclass.TierSpec
	percent int
	days    int
}

func (in *TieringInput) percent(t storageclass.AccessTier) int {
	switch t {
	case storageclass.FrequentAccess:
		return in.FrequentPercent
	case storageclass.InfrequentAccess:
		return in.InfrequentPercent
	case storageclass.ArchiveInstantAccess:
		return in.InstantPercent
	case storageclass.ArchiveAccess:
		return in.ArchivePercent
	case storageclass.DeepArchiveAccess:
		return in.DeepArchivePercent
	}
	return 0
}

// thresholdDays resolves and range-checks the day threshold of an optional tier.
func thresholdDays(spec storageclass.TierSpec, days int) (int, error) {
	if days == 0 {
		return spec.DefaultDays, nil
	}
	if err := inRange(spec.DisplayName+" transition days", int64(days), int64(spec.MinDays), int64(spec.MaxDays)); err != nil {
		return 0, err
	}
	return days, nil
}

// validate resolves the active tiers. The Archive Instant Access tier is
// bypassed when the Archive Access tier is enabled at exactly 90 days.
// Only active percentages are checked; any above 100 fails the sum.
func (in *TieringInput) validate() ([]activeTier, bool, string, error) {
	size, err := quantity("average size", in.AverageSize)
	if err != nil {
		return nil, false, "", err
	}
	in.AverageSize = size
	if err := nonNegative("object count", float64(in.ObjectCount)); err != nil {
		return nil, false, "", err
	}

	archiveSpec, err := storageclass.LookupTier(storageclass.ArchiveAccess)
	if err != nil {
		return nil, false, "", err
	}
	deepSpec, err := storageclass.LookupTier(storageclass.DeepArchiveAccess)
	if err != nil {
		return nil, false, "", err
	}
	archiveDays, deepDays := archiveSpec.DefaultDays, deepSpec.DefaultDays
	if in.ArchiveEnabled {
		if archiveDays, err = thresholdDays(archiveSpec, in.ArchiveDays); err != nil {
			return nil, false, "", err
		}
	}
	if in.DeepArchiveEnabled {
		if deepDays, err = thresholdDays(deepSpec, in.DeepArchiveDays); err != nil {
			return nil, false, "", err
		}
	}
	bypassInstant := in.ArchiveEnabled && archiveDays == archiveSpec.MinDays

	var active []activeTier
	sum := 0
	for _, spec := range storageclass.Tiers() {
		days := spec.DefaultDays
		switch spec.Tier {
		case storageclass.ArchiveInstantAccess:
			if bypassInstant {
				continue
			}
		case storageclass.ArchiveAccess:
			if !in.ArchiveEnabled {
				continue
			}
			days = archiveDays
		case storageclass.DeepArchiveAccess:
			if !in.DeepArchiveEnabled {
				continue
			}
			days = deepDays
		}
		p := in.percent(spec.Tier)
		if p < 0 {
			return nil, false, "", fmt.Errorf("%w: %s percentage must not be negative, got %d", ErrInvalidInput, spec.DisplayName, p)
		}
		sum += p
		active = append(active, activeTier{spec: spec, percent: p, days: days})
	}

	if sum != 100 {
		return nil, false, "", fmt.Errorf("%w: got %d%%", ErrPercentageMismatch, sum)
	}
	if in.ArchiveEnabled && in.DeepArchiveEnabled && archiveDays >= deepDays {
		return nil, false, "", fmt.Errorf("%w: archive at %d days, deep archive at %d days",
			ErrInvalidTierOrdering, archiveDays, deepDays)
	}

	regionCode, err := validateRegion(in.Region)
	if err != nil {
		return nil, false, "", err
	}
	return active, bypassInstant, regionCode, nil
}

// Tiering computes the monthly Intelligent-Tiering storage cost of a data
// set whose objects are spread across access tiers by percentage, plus the
// per-object monitoring and automation charge.
func (c *Calculator) Tiering(ctx context.Context, in TieringInput) (*TieringResult, error) {
	active, bypassed, regionCode, err := in.validate()
	if err != nil {
		return nil, err
	}

	totalSizeGB, err := units.Convert(float64(in.ObjectCount)*in.AverageSize.Value, in.AverageSize.Unit, units.GB)
	if err != nil {
		return nil, err
	}

	res := &TieringResult{TotalSizeGB: totalSizeGB, InstantBypassed: bypassed}
	for _, t := range active {
		rate, err := c.catalog.TierPrice(ctx, t.spec.Tier, regionCode)
		if err != nil {
			return nil, fmt.Errorf("%s price: %w", t.spec.DisplayName, err)
		}
		sizeGB := totalSizeGB * float64(t.percent) / 100
		res.Tiers = append(res.Tiers, TierAllocation{
			Tier:           t.spec.Tier,
			DisplayName:    t.spec.DisplayName,
			Percent:        t.percent,
			TransitionDays: t.days,
			SizeGB:         sizeGB,
			RatePerGBMonth: rate,
			MonthlyCost:    rate * sizeGB,
		})
	}

	monitoringRate, err := c.price(ctx, storageclass.IntelligentTiering, storageclass.Monitoring, regionCode)
	if err != nil {
		return nil, err
	}
	res.MonitoringCost = monitoringRate * float64(in.ObjectCount)

	col := storageclass.IntelligentTiering
	single := func(v float64) map[storageclass.StorageClass]float64 {
		return map[storageclass.StorageClass]float64{col: v}
	}

	b := newBreakdown(ScenarioTiering, regionCode, []storageclass.StorageClass{col})
	for i, alloc := range res.Tiers {
		b.add(TierRateLabel(active[i].spec), KindRate, single(alloc.RatePerGBMonth))
	}
	b.add(LabelTieringMonitoringRate, KindRate, single(monitoringRate))
	for i, alloc := range res.Tiers {
		b.add(TierStorageLabel(active[i].spec), KindComponent, single(alloc.MonthlyCost))
	}
	b.add(LabelTieringMonitoring, KindComponent, single(res.MonitoringCost))
	b.total(LabelTieringTotal)
	res.MonthlyTotal = b.Total(col)

	b.metric("Total number of objects", float64(in.ObjectCount), "objects")
	b.metric("Total size of all objects", totalSizeGB, string(units.GB))
	for _, alloc := range res.Tiers {
		b.metric("Days until "+alloc.DisplayName, float64(alloc.TransitionDays), "days")
	}

	if bypassed {
		b.note(noteInstantBypassed)
	}
	if ignored := ignoredPercentages(in, bypassed); ignored != "" {
		b.note(ignored)
	}

	res.Breakdown = b
	return res, nil
}

// ignoredPercentages describes percentages given for tiers that are not active.
func ignoredPercentages(in TieringInput, bypassed bool) string {
	var names []string
	if bypassed && in.InstantPercent != 0 {
		names = append(names, "Archive Instant Access Tier")
	}
	if !in.ArchiveEnabled && in.ArchivePercent != 0 {
		names = append(names, "Archive Access Tier")
	}
	if !in.DeepArchiveEnabled && in.DeepArchivePercent != 0 {
		names = append(names, "Deep Archive Access Tier")
	}
	if len(names) == 0 {
		return ""
	}
	return "Percentages for inactive tiers were ignored: " + joinNames(names) + "."
}
