package calculator

import (
	"context"
	"fmt"
	"math"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// Transfer part size bounds in MB.
const (
	TransferMinPartSizeMB = 32
	TransferMaxPartSizeMB = 1024
)

// Transfer breakdown labels.
const (
	LabelTransferPutRate  = "PUT request cost per request"
	LabelTransferPutTotal = "Total PUT request cost"
	LabelTransferTotal    = "Total cost"
)

// TransferInput describes a one-shot upload of a deduplicated data set.
type TransferInput struct {
	Size          units.Quantity               `json:"size" yaml:"size"`
	DedupePercent float64                      `json:"dedupe_percent" yaml:"dedupe_percent"`
	PartSizeMB    int64                        `json:"part_size_mb" yaml:"part_size_mb"`
	Classes       []storageclass.StorageClass `json:"classes,omitempty" yaml:"classes,omitempty"`
	Region        string                       `json:"region,omitempty" yaml:"region,omitempty"`
}

// TransferResult is the PUT request cost of uploading the effective data
// set to each selected class.
type TransferResult struct {
	EffectiveSize units.Quantity `json:"effective_size" yaml:"effective_size"`
	Parts         PartPlan       `json:"parts" yaml:"parts"`
	Breakdown     *Breakdown     `json:"breakdown" yaml:"breakdown"`
}

func (in *TransferInput) validate() ([]storageclass.StorageClass, string, error) {
	size, err := quantity("size", in.Size)
	if err != nil {
		return nil, "", err
	}
	in.Size = size
	if in.DedupePercent < 0 || in.DedupePercent > 100 {
		return nil, "", fmt.Errorf("%w: dedupe percent must be between 0 and 100, got %v", ErrInvalidInput, in.DedupePercent)
	}
	if err := inRange("part size (MB)", in.PartSizeMB, TransferMinPartSizeMB, TransferMaxPartSizeMB); err != nil {
		return nil, "", err
	}
	sizeMB, err := size.In(units.MB)
	if err != nil {
		return nil, "", err
	}
	parts := math.Ceil(sizeMB * (100 - in.DedupePercent) / 100 / float64(in.PartSizeMB))
	if math.IsNaN(parts) || parts >= math.MaxInt64 {
		return nil, "", fmt.Errorf("%w: %s needs more multipart parts than can be counted", ErrInvalidInput, size)
	}
	classes, err := validateClasses(in.Classes, false)
	if err != nil {
		return nil, "", err
	}
	regionCode, err := validateRegion(in.Region)
	if err != nil {
		return nil, "", err
	}
	return classes, regionCode, nil
}

// Transfer computes the multipart PUT request cost of uploading
// size*(100-dedupe)/100 in parts of PartSizeMB. The part count is not capped.
func (c *Calculator) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	classes, regionCode, err := in.validate()
	if err != nil {
		return nil, err
	}

	effective := units.Quantity{
		Value: in.Size.Value * (100 - in.DedupePercent) / 100,
		Unit:  in.Size.Unit,
	}
	totalMB, err := effective.In(units.MB)
	if err != nil {
		return nil, err
	}
	plan := PlanParts(totalMB, in.PartSizeMB, false)

	puts := make(map[storageclass.StorageClass]float64, len(classes))
	for _, class := range classes {
		p, err := c.price(ctx, class, storageclass.Put, regionCode)
		if err != nil {
			return nil, err
		}
		puts[class] = p
	}

	b := newBreakdown(ScenarioTransfer, regionCode, classes)
	b.add(LabelTransferPutRate, KindRate, puts)
	b.add(LabelTransferPutTotal, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return float64(plan.PartCount) * puts[class]
	}))
	b.total(LabelTransferTotal)

	b.metric("Effective size after deduplication", effective.Value, string(effective.Unit))
	b.metric("Total size", totalMB, string(units.MB))
	b.metric("Multipart upload part size", float64(plan.PartSizeMB), string(units.MB))
	b.metric("Number of PUT requests", float64(plan.PartCount), "requests")

	return &TransferResult{
		EffectiveSize: effective,
		Parts:         plan,
		Breakdown:     b,
	}, nil
}
