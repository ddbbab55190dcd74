package calculator

import (
	"fmt"
	"math"

	"github.com/rshade/s3-cost-simulator/internal/units"
)

// S3 multipart upload limits.
const (
	// MaxParts is the maximum number of parts in one multipart upload.
	MaxParts = 10000

	// MaxObjectSizeTB is the largest object S3 accepts.
	MaxObjectSizeTB = 5
)

// PartPlan is the multipart geometry of one upload.
type PartPlan struct {
	TotalSizeMB         float64 `json:"total_size_mb" yaml:"total_size_mb"`
	RequestedPartSizeMB int64   `json:"requested_part_size_mb" yaml:"requested_part_size_mb"`
	PartSizeMB          int64   `json:"part_size_mb" yaml:"part_size_mb"`
	PartCount           int64   `json:"part_count" yaml:"part_count"`

	// Capped is set when the part count exceeded MaxParts and the part size
	// was raised to fit.
	Capped bool `json:"capped" yaml:"capped"`
}

// PlanParts splits totalSizeMB into parts of partSizeMB. A partial last
// part is billed as a full part. With capParts set, a plan needing more than
// MaxParts parts is replaced by one with PartSizeMB = ceil(total/MaxParts)
// and exactly MaxParts parts.
func PlanParts(totalSizeMB float64, partSizeMB int64, capParts bool) PartPlan {
	plan := PartPlan{
		TotalSizeMB:         totalSizeMB,
		RequestedPartSizeMB: partSizeMB,
		PartSizeMB:          partSizeMB,
		PartCount:           int64(math.Ceil(totalSizeMB / float64(partSizeMB))),
	}
	if capParts && plan.PartCount > MaxParts {
		plan.PartSizeMB = int64(math.Ceil(totalSizeMB / MaxParts))
		plan.PartCount = MaxParts
		plan.Capped = true
	}
	return plan
}

// objectSizeMB returns size in MB, failing with ErrFileTooLarge above
// MaxObjectSizeTB.
func objectSizeMB(size units.Quantity) (float64, error) {
	sizeMB, err := size.In(units.MB)
	if err != nil {
		return 0, err
	}
	limitMB, err := units.Convert(MaxObjectSizeTB, units.TB, units.MB)
	if err != nil {
		return 0, err
	}
	if sizeMB > limitMB {
		return 0, fmt.Errorf("%w: %s", ErrFileTooLarge, size)
	}
	return sizeMB, nil
}
