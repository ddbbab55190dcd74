package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rshade/s3-cost-simulator/internal/simulator"
)

// statusFor maps a simulator error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case simulator.CodeInvalidUnit, simulator.CodeUnknownStorageClass, simulator.CodeUnknownRegion:
		return http.StatusBadRequest
	case simulator.CodePriceNotFound:
		return http.StatusNotFound
	case simulator.CodePriceServiceUnavailable, simulator.CodeCancelled:
		return http.StatusServiceUnavailable
	case simulator.CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

// problem converts a calculation error to a huma error carrying the error
// code as its message prefix.
func problem(err error) error {
	code := simulator.ErrorCode(err)
	return huma.NewError(statusFor(code), code+": "+err.Error())
}
