package calculator

import (
	"context"
	"fmt"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// Bounds of the lifecycle transition day.
const (
	LifecycleMaxTransitionDays = 365
)

// Lifecycle breakdown labels that do not depend on the input.
const (
	LabelLifecycleSourceRate     = "Source storage cost per GB-month"
	LabelLifecycleTargetRate     = "Target storage cost per GB-month"
	LabelLifecycleTransitionRate = "Transition request cost per request"
	LabelLifecycleTransition     = "Total transition request cost"
	LabelLifecycleTotal          = "Total cost"
	noteIntelligentTieringFA     = "For S3 Intelligent-Tiering, this scenario only takes into account the storage cost in the Frequent Access tier. Use the tiering scenario for a complete estimate."
)

// LifecycleInput describes objects moved from Source to Target by a
// lifecycle rule after DaysUntilTransition days.
type LifecycleInput struct {
	Source              storageclass.StorageClass `json:"source" yaml:"source"`
	Target              storageclass.StorageClass `json:"target,omitempty" yaml:"target,omitempty"`
	ObjectCount         int64                      `json:"object_count" yaml:"object_count"`
	AverageSize         units.Quantity             `json:"average_size" yaml:"average_size"`
	DaysUntilTransition int                        `json:"days_until_transition" yaml:"days_until_transition"`
	ForecastDays        int                        `json:"forecast_days" yaml:"forecast_days"`
	Region              string                     `json:"region,omitempty" yaml:"region,omitempty"`
}

// LifecycleResult compares the cost of transitioning with the cost of
// leaving the objects in the source class for the whole forecast.
type LifecycleResult struct {
	TotalSizeGB    float64    `json:"total_size_gb" yaml:"total_size_gb"`
	RemainingDays  int        `json:"remaining_days" yaml:"remaining_days"`
	SourceCost     float64    `json:"source_cost" yaml:"source_cost"`
	TargetCost     float64    `json:"target_cost" yaml:"target_cost"`
	TransitionCost float64    `json:"transition_cost" yaml:"transition_cost"`
	Total          float64    `json:"total" yaml:"total"`
	OriginalCost   float64    `json:"original_cost" yaml:"original_cost"`
	Breakdown      *Breakdown `json:"breakdown" yaml:"breakdown"`
}

// SourceLabel is the breakdown label of the source storage cost.
func SourceLabel(source storageclass.StorageClass, days int) string {
	return fmt.Sprintf("%s storage cost until %d days", source.DisplayName(), days)
}

// TargetLabel is the breakdown label of the target storage cost.
func TargetLabel(target storageclass.StorageClass, remainingDays int) string {
	return fmt.Sprintf("%s storage cost for remaining %d days", target.DisplayName(), remainingDays)
}

// OriginalLabel is the breakdown label of the never-transition baseline.
func OriginalLabel(source storageclass.StorageClass, forecastDays int) string {
	return fmt.Sprintf("%s storage cost for %d days without transition", source.DisplayName(), forecastDays)
}

func (in *LifecycleInput) validate() (string, error) {
	if in.Target == "" {
		return "", ErrTargetNotSelected
	}
	if _, err := storageclass.Lookup(in.Source); err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	if _, err := storageclass.Lookup(in.Target); err != nil {
		return "", fmt.Errorf("target: %w", err)
	}
	size, err := quantity("average size", in.AverageSize)
	if err != nil {
		return "", err
	}
	in.AverageSize = size
	if err := nonNegative("object count", float64(in.ObjectCount)); err != nil {
		return "", err
	}
	if err := inRange("days until transition", int64(in.DaysUntilTransition), 0, LifecycleMaxTransitionDays); err != nil {
		return "", err
	}
	if in.ForecastDays < in.DaysUntilTransition {
		return "", fmt.Errorf("%w: forecast of %d days is shorter than the %d days until transition",
			ErrInvalidInput, in.ForecastDays, in.DaysUntilTransition)
	}
	return validateRegion(in.Region)
}

// Lifecycle computes the cost of keeping objects in the source class for
// DaysUntilTransition days, transitioning them, and keeping them in the
// target class for the rest of the forecast.
//
// Transitions S3 does not support (see storageclass.AllowedTargets) are
// still priced; they are reported with a warning and a note.
func (c *Calculator) Lifecycle(ctx context.Context, in LifecycleInput) (*LifecycleResult, error) {
	regionCode, err := in.validate()
	if err != nil {
		return nil, err
	}

	totalSizeGB, err := units.Convert(float64(in.ObjectCount)*in.AverageSize.Value, in.AverageSize.Unit, units.GB)
	if err != nil {
		return nil, err
	}
	remainingDays := in.ForecastDays - in.DaysUntilTransition

	sourceRate, err := c.price(ctx, in.Source, storageclass.Storage, regionCode)
	if err != nil {
		return nil, err
	}
	targetRate, err := c.price(ctx, in.Target, storageclass.Storage, regionCode)
	if err != nil {
		return nil, err
	}
	transitionRate, err := c.price(ctx, in.Target, storageclass.Transition, regionCode)
	if err != nil {
		return nil, err
	}

	res := &LifecycleResult{
		TotalSizeGB:    totalSizeGB,
		RemainingDays:  remainingDays,
		SourceCost:     sourceRate / daysPerMonth * float64(in.DaysUntilTransition) * totalSizeGB,
		TargetCost:     targetRate / daysPerMonth * float64(remainingDays) * totalSizeGB,
		TransitionCost: transitionRate * float64(in.ObjectCount),
		OriginalCost:   sourceRate / daysPerMonth * float64(in.ForecastDays) * totalSizeGB,
	}
	res.Total = res.SourceCost + res.TargetCost + res.TransitionCost

	col := []storageclass.StorageClass{in.Target}
	single := func(v float64) map[storageclass.StorageClass]float64 {
		return map[storageclass.StorageClass]float64{in.Target: v}
	}

	b := newBreakdown(ScenarioLifecycle, regionCode, col)
	b.add(LabelLifecycleSourceRate, KindRate, single(sourceRate))
	b.add(LabelLifecycleTargetRate, KindRate, single(targetRate))
	b.add(LabelLifecycleTransitionRate, KindRate, single(transitionRate))
	b.add(SourceLabel(in.Source, in.DaysUntilTransition), KindComponent, single(res.SourceCost))
	b.add(TargetLabel(in.Target, remainingDays), KindComponent, single(res.TargetCost))
	b.add(LabelLifecycleTransition, KindComponent, single(res.TransitionCost))
	b.total(LabelLifecycleTotal)
	b.add(OriginalLabel(in.Source, in.ForecastDays), KindInfo, single(res.OriginalCost))

	b.metric("Average object size", in.AverageSize.Value, string(in.AverageSize.Unit))
	b.metric("Total number of objects", float64(in.ObjectCount), "objects")
	b.metric("Total size of objects", totalSizeGB, string(units.GB))
	b.metric("Days after object creation", float64(in.DaysUntilTransition), "days")
	b.metric("Remaining days in target", float64(remainingDays), "days")
	b.metric("Savings versus no transition", res.OriginalCost-res.Total, "USD")

	if !storageclass.CanTransition(in.Source, in.Target) {
		allowed := storageclass.AllowedTargets(in.Source)
		c.logger.Warn().
			Str("source_class", string(in.Source)).
			Str("target_class", string(in.Target)).
			Int("allowed_targets", len(allowed)).
			Msg("lifecycle transition not supported by S3; pricing it anyway")
		b.note(waterfallNote(in.Source, in.Target, allowed))
	}
	if in.Source == storageclass.IntelligentTiering || in.Target == storageclass.IntelligentTiering {
		b.note(noteIntelligentTieringFA)
	}

	res.Breakdown = b
	return res, nil
}

func waterfallNote(source, target storageclass.StorageClass, allowed []storageclass.StorageClass) string {
	if len(allowed) == 0 {
		return fmt.Sprintf("S3 lifecycle rules cannot transition objects out of %s; the cost to %s is shown for comparison only.",
			source.DisplayName(), target.DisplayName())
	}
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, a.DisplayName())
	}
	return fmt.Sprintf("S3 lifecycle rules cannot transition objects from %s to %s; supported targets are %s.",
		source.DisplayName(), target.DisplayName(), joinNames(names))
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := ""
	for i, n := range names {
		switch {
		case i == 0:
			out = n
		case i == len(names)-1:
			out += " and " + n
		default:
			out += ", " + n
		}
	}
	return out
}
