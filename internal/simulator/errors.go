package simulator

import (
	"context"
	"errors"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
	"github.com/rshade/s3-cost-simulator/internal/units"
)

// Error codes reported in logs, API problem responses and CLI errors.
const (
	CodeInvalidUnit             = "INVALID_UNIT"
	CodeUnknownStorageClass     = "UNKNOWN_STORAGE_CLASS"
	CodeUnknownRegion           = "UNKNOWN_REGION"
	CodeNoClassSelected         = "NO_CLASS_SELECTED"
	CodeTargetNotSelected       = "TARGET_NOT_SELECTED"
	CodePercentageMismatch      = "PERCENTAGE_MISMATCH"
	CodeInvalidTierOrdering     = "INVALID_TIER_ORDERING"
	CodeFileTooLarge            = "FILE_TOO_LARGE"
	CodeInvalidInput            = "INVALID_INPUT"
	CodePriceNotFound           = "PRICE_NOT_FOUND"
	CodePriceServiceUnavailable = "PRICE_SERVICE_UNAVAILABLE"
	CodeCancelled               = "CANCELLED"
	CodeInternal                = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{units.ErrInvalidUnit, CodeInvalidUnit},
	{storageclass.ErrUnknownClass, CodeUnknownStorageClass},
	{region.ErrUnknownRegion, CodeUnknownRegion},
	{calculator.ErrNoClassSelected, CodeNoClassSelected},
	{calculator.ErrTargetNotSelected, CodeTargetNotSelected},
	{calculator.ErrPercentageMismatch, CodePercentageMismatch},
	{calculator.ErrInvalidTierOrdering, CodeInvalidTierOrdering},
	{calculator.ErrFileTooLarge, CodeFileTooLarge},
	{calculator.ErrInvalidInput, CodeInvalidInput},
	{pricing.ErrPriceNotFound, CodePriceNotFound},
	{pricing.ErrPriceServiceUnavailable, CodePriceServiceUnavailable},
	{context.Canceled, CodeCancelled},
	{context.DeadlineExceeded, CodeCancelled},
}

// ErrorCode maps err to a stable code. Unrecognised errors are CodeInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// IsValidation reports whether err was caused by the submitted input
// rather than by the pricing catalog.
func IsValidation(err error) bool {
	switch ErrorCode(err) {
	case CodeInvalidUnit, CodeUnknownStorageClass, CodeUnknownRegion, CodeNoClassSelected,
		CodeTargetNotSelected, CodePercentageMismatch, CodeInvalidTierOrdering,
		CodeFileTooLarge, CodeInvalidInput:
		return true
	}
	return false
}
