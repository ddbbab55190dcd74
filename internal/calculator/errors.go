package calculator

import "errors"

// Validation errors. Calculators return them wrapped with detail; match
// with errors.Is.
var (
	ErrNoClassSelected     = errors.New("no storage class selected")
	ErrTargetNotSelected   = errors.New("target storage class not selected")
	ErrPercentageMismatch  = errors.New("the sum of all enabled tier percentages must equal 100%")
	ErrInvalidTierOrdering = errors.New("deep archive access tier must transition later than archive access tier")
	ErrFileTooLarge        = errors.New("file size exceeds the 5 TB S3 object limit")
	ErrInvalidInput        = errors.New("invalid input")
)
