// Package region holds the static table of AWS regions the simulator can price.
package region

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Default is the region used when none is configured.
const Default = "us-east-1"

// ErrUnknownRegion is returned for a region code that is not in the table.
var ErrUnknownRegion = errors.New("unknown region")

// Region describes one AWS region.
type Region struct {
	// Code is the AWS region code (e.g., "us-west-2").
	Code string `json:"code" yaml:"code"`

	// Location is the human-readable location used by the Price List API.
	Location string `json:"location" yaml:"location"`

	// UsagePrefix is the prefix AWS puts in front of usage types billed in
	// this region (e.g., "USW2" in "USW2-TimedStorage-ByteHrs").
	UsagePrefix string `json:"usage_prefix" yaml:"usage_prefix"`
}

var regions = map[string]Region{
	"us-east-1":      {Code: "us-east-1", Location: "US East (N. Virginia)", UsagePrefix: "USE1"},
	"us-east-2":      {Code: "us-east-2", Location: "US East (Ohio)", UsagePrefix: "USE2"},
	"us-west-1":      {Code: "us-west-1", Location: "US West (N. California)", UsagePrefix: "USW1"},
	"us-west-2":      {Code: "us-west-2", Location: "US West (Oregon)", UsagePrefix: "USW2"},
	"ap-east-1":      {Code: "ap-east-1", Location: "Asia Pacific (Hong Kong)", UsagePrefix: "APE1"},
	"ap-south-1":     {Code: "ap-south-1", Location: "Asia Pacific (Mumbai)", UsagePrefix: "APS3"},
	"ap-northeast-1": {Code: "ap-northeast-1", Location: "Asia Pacific (Tokyo)", UsagePrefix: "APN1"},
	"ap-northeast-2": {Code: "ap-northeast-2", Location: "Asia Pacific (Seoul)", UsagePrefix: "APN2"},
	"ap-northeast-3": {Code: "ap-northeast-3", Location: "Asia Pacific (Osaka)", UsagePrefix: "APN3"},
	"ap-southeast-1": {Code: "ap-southeast-1", Location: "Asia Pacific (Singapore)", UsagePrefix: "APS1"},
	"ap-southeast-2": {Code: "ap-southeast-2", Location: "Asia Pacific (Sydney)", UsagePrefix: "APS2"},
	"ap-southeast-3": {Code: "ap-southeast-3", Location: "Asia Pacific (Jakarta)", UsagePrefix: "APS6"},
	"af-south-1":     {Code: "af-south-1", Location: "Africa (Cape Town)", UsagePrefix: "AFS1"},
	"ca-central-1":   {Code: "ca-central-1", Location: "Canada (Central)", UsagePrefix: "CAN1"},
	"ca-west-1":      {Code: "ca-west-1", Location: "Canada West (Calgary)", UsagePrefix: "CAN2"},
	"eu-central-1":   {Code: "eu-central-1", Location: "EU (Frankfurt)", UsagePrefix: "EUC1"},
	"eu-central-2":   {Code: "eu-central-2", Location: "EU (Zurich)", UsagePrefix: "EUC2"},
	"eu-south-1":     {Code: "eu-south-1", Location: "EU (Milan)", UsagePrefix: "EUS1"},
	"eu-south-2":     {Code: "eu-south-2", Location: "EU (Spain)", UsagePrefix: "EUS2"},
	"eu-west-1":      {Code: "eu-west-1", Location: "EU (Ireland)", UsagePrefix: "EU"},
	"eu-west-2":      {Code: "eu-west-2", Location: "EU (London)", UsagePrefix: "EUW2"},
	"eu-west-3":      {Code: "eu-west-3", Location: "EU (Paris)", UsagePrefix: "EUW3"},
	"eu-north-1":     {Code: "eu-north-1", Location: "EU (Stockholm)", UsagePrefix: "EUN1"},
	"sa-east-1":      {Code: "sa-east-1", Location: "South America (Sao Paulo)", UsagePrefix: "SAE1"},
	"me-south-1":     {Code: "me-south-1", Location: "Middle East (Bahrain)", UsagePrefix: "MES1"},
	"me-central-1":   {Code: "me-central-1", Location: "Middle East (UAE)", UsagePrefix: "MEC1"},
	"il-central-1":   {Code: "il-central-1", Location: "Israel (Tel Aviv)", UsagePrefix: "ILC1"},
}

// Parse returns the Region for code. Codes are matched case-insensitively.
func Parse(code string) (Region, error) {
	r, ok := regions[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, code)
	}
	return r, nil
}

// All returns every known region sorted by code.
func All() []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// UsageType returns usageType as billed in r. AWS bills us-east-1 usage
// types without a prefix.
func (r Region) UsageType(usageType string) string {
	if r.Code == Default {
		return usageType
	}
	return r.UsagePrefix + "-" + usageType
}
