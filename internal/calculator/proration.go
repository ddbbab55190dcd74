package calculator

import "github.com/rshade/s3-cost-simulator/internal/storageclass"

// PenaltyDays returns the number of days still billed when an object of
// class is deleted after retentionDays: max(0, minimum duration - retention).
func PenaltyDays(class storageclass.StorageClass, retentionDays int) int {
	return max(0, storageclass.MinStorageDays(class)-retentionDays)
}

// Prorate returns the early-deletion charge for sizeGB stored in class and
// deleted after retentionDays, at dailyRate per GB-day. It is exactly zero
// once retention meets the class minimum storage duration.
func Prorate(class storageclass.StorageClass, retentionDays int, sizeGB, dailyRate float64) float64 {
	return float64(PenaltyDays(class, retentionDays)) * dailyRate * sizeGB
}
