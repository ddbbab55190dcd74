// Package render formats calculation results for people and programs.
// Calculators never round; fixed digits are applied here only.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Format selects an output encoding.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts a format name in any case. Empty selects FormatTable.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// MoneyDigits is the number of decimal places shown for costs.
const MoneyDigits = 2

// rateDigits bounds the precision of unit prices, which are often
// fractions of a cent.
const rateDigits = 10

// Money formats a cost in USD with MoneyDigits decimals. Non-zero costs
// below one cent are shown as a rate so they do not print as $0.00.
func Money(v float64) string {
	if v != 0 && math.Abs(v) < 0.01 {
		return Rate(v)
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(MoneyDigits)
}

// Rate formats a unit price without trailing zeros.
func Rate(v float64) string {
	return "$" + decimal.NewFromFloat(v).Round(rateDigits).String()
}

// Number formats a plain quantity. Whole numbers get thousands separators
// and no decimals; everything else gets at most two decimals.
func Number(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return humanize.Comma(int64(f))
	}
	return humanize.CommafWithDigits(math.Round(f*100)/100, 2)
}

// Quantity formats a metric value with its unit. Byte counts also show
// the binary size.
func Quantity(value float64, unit string) string {
	switch unit {
	case "":
		return Number(value)
	case "USD":
		return Money(value)
	case "B":
		if value >= 0 && value < math.MaxUint64 {
			return fmt.Sprintf("%s B (%s)", Number(value), humanize.IBytes(uint64(value)))
		}
	}
	return Number(value) + " " + unit
}
