package calculator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// Backup part size bounds in MB.
const (
	BackupMinPartSizeMB = 5
	BackupMaxPartSizeMB = 1024
)

// Backup breakdown labels.
const (
	LabelBackupPutPerFile     = "PUT request cost per backup file"
	LabelBackupStorageMonth   = "Storage cost per GB-month"
	LabelBackupStorageDay     = "Storage cost per GB-day"
	LabelBackupProratedFile   = "Pro-rated fee per file"
	LabelBackupYearlyStorage  = "Yearly total storage cost"
	LabelBackupYearlyPut      = "Yearly total PUT requests cost"
	LabelBackupProratedTotal  = "Total pro-rated fee"
	LabelBackupYearlyTotal    = "Yearly total cost"
	noteGlacierMultipart      = "For S3 Glacier Flexible Retrieval and S3 Glacier Deep Archive, each uploaded part incurs S3 Standard PUT request pricing and the final complete multipart upload request incurs the PUT pricing of the class."
	noteMinimumStorageCharges = "Objects deleted before the minimum storage duration incur a pro-rated charge equal to the storage charge for the remaining days: 30 days for S3 Standard-IA and S3 One Zone-IA, 90 days for S3 Glacier Instant Retrieval and S3 Glacier Flexible Retrieval, 180 days for S3 Glacier Deep Archive."
)

// Frequency is how often a backup file is written.
type Frequency string

// Backup frequencies.
const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
	Yearly  Frequency = "Yearly"
)

// RetentionSchedule is the ingestion cadence and retention assumed for a
// backup frequency.
type RetentionSchedule struct {
	Frequency           Frequency `json:"frequency" yaml:"frequency"`
	IngestionsPerYear   int       `json:"ingestions_per_year" yaml:"ingestions_per_year"`
	ActualRetentionDays int       `json:"actual_retention_days" yaml:"actual_retention_days"`
	TypicalRetention    string    `json:"typical_retention" yaml:"typical_retention"`
}

var schedules = map[Frequency]RetentionSchedule{
	Daily:   {Frequency: Daily, IngestionsPerYear: 365, ActualRetentionDays: 7, TypicalRetention: "7 to 31 days"},
	Weekly:  {Frequency: Weekly, IngestionsPerYear: 52, ActualRetentionDays: 30, TypicalRetention: "4 to 8 weeks"},
	Monthly: {Frequency: Monthly, IngestionsPerYear: 12, ActualRetentionDays: 60, TypicalRetention: "2 to 12 months"},
	Yearly:  {Frequency: Yearly, IngestionsPerYear: 1, ActualRetentionDays: 365, TypicalRetention: "1 to 7 years"},
}

// Schedules returns the retention schedule of every frequency, most
// frequent first.
func Schedules() []RetentionSchedule {
	return []RetentionSchedule{schedules[Daily], schedules[Weekly], schedules[Monthly], schedules[Yearly]}
}

// ParseFrequency accepts a frequency name in any case.
func ParseFrequency(s string) (Frequency, error) {
	for f := range schedules {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown backup frequency %q", ErrInvalidInput, s)
}

// BackupInput describes a recurring backup deleted after its retention period.
type BackupInput struct {
	Size       units.Quantity               `json:"size" yaml:"size"`
	Frequency  Frequency                    `json:"frequency" yaml:"frequency"`
	PartSizeMB int64                        `json:"part_size_mb" yaml:"part_size_mb"`
	Classes    []storageclass.StorageClass `json:"classes,omitempty" yaml:"classes,omitempty"`
	Region     string                       `json:"region,omitempty" yaml:"region,omitempty"`
}

// BackupResult is the yearly cost of the backup cadence per selected class.
type BackupResult struct {
	Schedule  RetentionSchedule `json:"schedule" yaml:"schedule"`
	SizeGB    float64           `json:"size_gb" yaml:"size_gb"`
	Parts     PartPlan          `json:"parts" yaml:"parts"`
	Breakdown *Breakdown        `json:"breakdown" yaml:"breakdown"`
}

func (in *BackupInput) validate() (RetentionSchedule, []storageclass.StorageClass, string, error) {
	size, err := quantity("size", in.Size)
	if err != nil {
		return RetentionSchedule{}, nil, "", err
	}
	in.Size = size

	if _, err := objectSizeMB(size); err != nil {
		return RetentionSchedule{}, nil, "", err
	}
	if size.Value == 0 {
		return RetentionSchedule{}, nil, "", fmt.Errorf("%w: backup size must be positive", ErrInvalidInput)
	}

	freq, err := ParseFrequency(string(in.Frequency))
	if err != nil {
		return RetentionSchedule{}, nil, "", err
	}
	if err := inRange("part size (MB)", in.PartSizeMB, BackupMinPartSizeMB, BackupMaxPartSizeMB); err != nil {
		return RetentionSchedule{}, nil, "", err
	}
	classes, err := validateClasses(in.Classes, true)
	if err != nil {
		return RetentionSchedule{}, nil, "", err
	}
	regionCode, err := validateRegion(in.Region)
	if err != nil {
		return RetentionSchedule{}, nil, "", err
	}
	return schedules[freq], classes, regionCode, nil
}

// completesInTargetClass reports whether multipart parts of class are
// billed at S3 Standard rates with only the completion request billed at
// the class rate.
func completesInTargetClass(class storageclass.StorageClass) bool {
	return class == storageclass.Glacier || class == storageclass.DeepArchive
}

// Backup computes the yearly cost of writing one backup file per ingestion
// and deleting it after the schedule's retention, including early-deletion
// charges.
func (c *Calculator) Backup(ctx context.Context, in BackupInput) (*BackupResult, error) {
	schedule, classes, regionCode, err := in.validate()
	if err != nil {
		return nil, err
	}

	sizeMB, err := in.Size.In(units.MB)
	if err != nil {
		return nil, err
	}
	sizeGB, err := in.Size.In(units.GB)
	if err != nil {
		return nil, err
	}
	plan := PlanParts(sizeMB, in.PartSizeMB, true)
	parts := float64(plan.PartCount)

	putPerFile := make(map[storageclass.StorageClass]float64, len(classes))
	storagePerMonth := make(map[storageclass.StorageClass]float64, len(classes))
	glacierSelected := false
	for _, class := range classes {
		put, err := c.price(ctx, class, storageclass.Put, regionCode)
		if err != nil {
			return nil, err
		}
		if completesInTargetClass(class) {
			glacierSelected = true
			standardPut, err := c.price(ctx, storageclass.Standard, storageclass.Put, regionCode)
			if err != nil {
				return nil, err
			}
			putPerFile[class] = parts*standardPut + put
		} else {
			putPerFile[class] = parts * put
		}

		storage, err := c.price(ctx, class, storageclass.Storage, regionCode)
		if err != nil {
			return nil, err
		}
		storagePerMonth[class] = storage
	}

	ingestions := float64(schedule.IngestionsPerYear)
	retention := float64(schedule.ActualRetentionDays)
	perDay := columnValues(classes, func(class storageclass.StorageClass) float64 {
		return storagePerMonth[class] / daysPerMonth
	})
	proratedPerFile := columnValues(classes, func(class storageclass.StorageClass) float64 {
		return Prorate(class, schedule.ActualRetentionDays, sizeGB, perDay[class])
	})

	b := newBreakdown(ScenarioBackup, regionCode, classes)
	b.add(LabelBackupPutPerFile, KindRate, putPerFile)
	b.add(LabelBackupStorageMonth, KindRate, storagePerMonth)
	b.add(LabelBackupStorageDay, KindRate, perDay)
	b.add(LabelBackupProratedFile, KindRate, proratedPerFile)
	b.add(LabelBackupYearlyStorage, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return perDay[class] * ingestions * retention * sizeGB
	}))
	b.add(LabelBackupYearlyPut, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return putPerFile[class] * ingestions
	}))
	b.add(LabelBackupProratedTotal, KindComponent, columnValues(classes, func(class storageclass.StorageClass) float64 {
		return proratedPerFile[class] * ingestions
	}))
	b.total(LabelBackupYearlyTotal)

	b.metric("Backup file size", sizeGB, string(units.GB))
	b.metric("Ingestions per year", ingestions, "backups")
	b.metric("Retention period", retention, "days")
	b.metric("Multipart upload part size", float64(plan.PartSizeMB), string(units.MB))
	b.metric("Number of PUT requests per file", parts, "requests")

	b.note(fmt.Sprintf("Retention for %s backups is typically %s depending on compliance and backup type; %d days is assumed and files are deleted when it expires.",
		schedule.Frequency, schedule.TypicalRetention, schedule.ActualRetentionDays))
	if plan.Capped {
		b.note(fmt.Sprintf("The maximum number of parts per upload is %d. Instead of the selected part size of %d MB, %d MB is used.",
			MaxParts, plan.RequestedPartSizeMB, plan.PartSizeMB))
		c.logger.Info().
			Int64("requested_part_size_mb", plan.RequestedPartSizeMB).
			Int64("part_size_mb", plan.PartSizeMB).
			Msg("multipart part count capped")
	}
	if glacierSelected {
		b.note(noteGlacierMultipart)
	}
	b.note(noteMinimumStorageCharges)

	return &BackupResult{
		Schedule:  schedule,
		SizeGB:    sizeGB,
		Parts:     plan,
		Breakdown: b,
	}, nil
}
