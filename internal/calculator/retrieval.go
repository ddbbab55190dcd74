package calculator

import (
	"context"
	"math"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// Retrieval breakdown labels.
const (
	LabelRetrievalGetRate     = "GET request cost per request"
	LabelRetrievalRate        = "Retrieval cost per GB"
	LabelRetrievalRequestRate = "Retrieval request cost per 1,000 requests"
	LabelRetrievalGet         = "Total GET request cost"
	LabelRetrieval            = "Total retrieval cost"
	LabelRetrievalRequest     = "Total retrieval request cost"
	LabelRetrievalTotal       = "Total cost"
	noteGlacierRestore        = "Restoring from S3 Glacier Flexible Retrieval or S3 Glacier Deep Archive creates a temporary copy that is billed at S3 Standard storage rates for the restore period."
)

// RetrievalInput describes files read back from storage.
type RetrievalInput struct {
	FileSize  units.Quantity               `json:"file_size" yaml:"file_size"`
	FileCount int64                        `json:"file_count" yaml:"file_count"`
	Classes   []storageclass.StorageClass `json:"classes,omitempty" yaml:"classes,omitempty"`
	Region    string                       `json:"region,omitempty" yaml:"region,omitempty"`
}

// RetrievalResult is the cost of reading the files back from each class.
type RetrievalResult struct {
	TotalBytes       float64    `json:"total_bytes" yaml:"total_bytes"`
	RetrievalBatches int64      `json:"retrieval_batches" yaml:"retrieval_batches"`
	Breakdown        *Breakdown `json:"breakdown" yaml:"breakdown"`
}

func (in *RetrievalInput) validate() ([]storageclass.StorageClass, string, error) {
	classes, err := validateClasses(in.Classes, true)
	if err != nil {
		return nil, "", err
	}
	size, err := quantity("file size", in.FileSize)
	if err != nil {
		return nil, "", err
	}
	in.FileSize = size
	if _, err := objectSizeMB(size); err != nil {
		return nil, "", err
	}
	if err := nonNegative("file count", float64(in.FileCount)); err != nil {
		return nil, "", err
	}
	regionCode, err := validateRegion(in.Region)
	if err != nil {
		return nil, "", err
	}
	return classes, regionCode, nil
}

// Retrieval computes GET, retrieval and retrieval request costs. Classes
// without a retrieval fee contribute zero for the retrieval terms.
// Retrieval requests are billed per started batch of 1,000.
func (c *Calculator) Retrieval(ctx context.Context, in RetrievalInput) (*RetrievalResult, error) {
	classes, regionCode, err := in.validate()
	if err != nil {
		return nil, err
	}

	totalBytes, err := units.Convert(float64(in.FileCount)*in.FileSize.Value, in.FileSize.Unit, units.B)
	if err != nil {
		return nil, err
	}
	bytesPerGB, err := units.Convert(1, units.GB, units.B)
	if err != nil {
		return nil, err
	}
	batches := int64(math.Ceil(float64(in.FileCount) / 1000))
	count := float64(in.FileCount)

	getRate := make(map[storageclass.StorageClass]float64, len(classes))
	retrievalRate := make(map[storageclass.StorageClass]float64, len(classes))
	requestRate := make(map[storageclass.StorageClass]float64, len(classes))
	glacierSelected := false
	for _, class := range classes {
		spec, err := storageclass.Lookup(class)
		if err != nil {
			return nil, err
		}
		if getRate[class], err = c.price(ctx, class, storageclass.Get, regionCode); err != nil {
			return nil, err
		}
		if retrievalRate[class], err = c.optionalPrice(ctx, spec, storageclass.Retrieval, regionCode); err != nil {
			return nil, err
		}
		if requestRate[class], err = c.optionalPrice(ctx, spec, storageclass.RetrievalRequest, regionCode); err != nil {
			return nil, err
		}
		if completesInTargetClass(class) {
			glacierSelected = true
		}
	}

	b := newBreakdown(ScenarioRetrieval, regionCode, classes)
	b.add(LabelRetrievalGetRate, KindRate, getRate)
	b.add(LabelRetrievalRate, KindRate, retrievalRate)
	b.add(LabelRetrievalRequestRate, KindRate, requestRate)
	b.add(LabelRetrievalGet, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return getRate[class] * count
	}))
	b.add(LabelRetrieval, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return retrievalRate[class] / bytesPerGB * totalBytes
	}))
	b.add(LabelRetrievalRequest, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return requestRate[class] * float64(batches)
	}))
	b.total(LabelRetrievalTotal)

	b.metric("File size", in.FileSize.Value, string(in.FileSize.Unit))
	b.metric("Number of files", count, "files")
	b.metric("Total retrieved", totalBytes, string(units.B))

	if glacierSelected {
		b.note(noteGlacierRestore)
	}

	return &RetrievalResult{
		TotalBytes:       totalBytes,
		RetrievalBatches: batches,
		Breakdown:        b,
	}, nil
}
