// Package storageclass is the static registry of S3 storage classes.
//
// Each class carries its display name, the minimum storage duration that
// drives early-deletion proration, and the operation kinds it is billed for.
// The registry is built once at package init and never mutated.
package storageclass

import (
	"errors"
	"fmt"
	"strings"
)

// StorageClass is the S3 storage class code as used by the S3 API.
type StorageClass string

// Storage classes known to the simulator.
const (
	Standard           StorageClass = "STANDARD"
	StandardIA         StorageClass = "STANDARD_IA"
	OneZoneIA          StorageClass = "ONEZONE_IA"
	IntelligentTiering StorageClass = "INTELLIGENT_TIERING"
	Glacier            StorageClass = "GLACIER"
	DeepArchive        StorageClass = "DEEP_ARCHIVE"
	GlacierIR          StorageClass = "GLACIER_IR"
)

// ErrUnknownClass is returned when a storage class is not in the registry.
var ErrUnknownClass = errors.New("unknown storage class")

// Spec describes one storage class.
type Spec struct {
	// Class is the storage class code.
	Class StorageClass `json:"class" yaml:"class"`

	// DisplayName is the product name shown to users (e.g., "S3 Standard").
	DisplayName string `json:"display_name" yaml:"display_name"`

	// MinStorageDays is the minimum storage duration in days. Objects
	// deleted earlier are billed for the remaining days. Zero means none.
	MinStorageDays int `json:"min_storage_days" yaml:"min_storage_days"`

	// Operations lists the operation kinds billed for this class.
	Operations []Operation `json:"operations" yaml:"operations"`

	filters map[Operation][]Attribute
}

// order is the canonical display order, matching the S3 console.
var order = []StorageClass{
	Standard,
	StandardIA,
	OneZoneIA,
	IntelligentTiering,
	Glacier,
	DeepArchive,
	GlacierIR,
}

var registry = map[StorageClass]Spec{
	Standard: {
		Class:          Standard,
		DisplayName:    "S3 Standard",
		MinStorageDays: 0,
		filters: map[Operation][]Attribute{
			Put:        {{Field: "group", Value: "S3-API-Tier1"}},
			Get:        {{Field: "group", Value: "S3-API-Tier2"}},
			Storage:    {{Field: "usagetype", Value: "TimedStorage-ByteHrs", RegionPrefixed: true}},
			Transition: {{Field: "group", Value: "S3-API-Tier1"}},
		},
	},
	StandardIA: {
		Class:          StandardIA,
		DisplayName:    "S3 Standard - Infrequent Access",
		MinStorageDays: 30,
		filters: map[Operation][]Attribute{
			Put:        {{Field: "group", Value: "S3-API-SIA-Tier1"}},
			Get:        {{Field: "group", Value: "S3-API-SIA-Tier2"}},
			Storage:    {{Field: "usagetype", Value: "TimedStorage-SIA-ByteHrs", RegionPrefixed: true}},
			Retrieval:  {{Field: "group", Value: "S3-API-SIA-Retrieval"}},
			Transition: {{Field: "group", Value: "S3-API-SIA-Tier1"}},
		},
	},
	OneZoneIA: {
		Class:          OneZoneIA,
		DisplayName:    "S3 One Zone - Infrequent Access",
		MinStorageDays: 30,
		filters: map[Operation][]Attribute{
			Put:        {{Field: "group", Value: "S3-API-ZIA-Tier1"}},
			Get:        {{Field: "group", Value: "S3-API-ZIA-Tier2"}},
			Storage:    {{Field: "usagetype", Value: "TimedStorage-ZIA-ByteHrs", RegionPrefixed: true}},
			Retrieval:  {{Field: "group", Value: "S3-API-ZIA-Retrieval"}},
			Transition: {{Field: "group", Value: "S3-API-ZIA-Tier1"}},
		},
	},
	IntelligentTiering: {
		Class:          IntelligentTiering,
		DisplayName:    "S3 Intelligent-Tiering",
		MinStorageDays: 0,
		filters: map[Operation][]Attribute{
			Put:        {{Field: "group", Value: "S3-API-INT-Tier1"}},
			Get:        {{Field: "group", Value: "S3-API-INT-Tier2"}},
			Storage:    {{Field: "usagetype", Value: "TimedStorage-INT-FA-ByteHrs", RegionPrefixed: true}},
			Transition: {{Field: "group", Value: "S3-API-INT-Tier1"}},
			Monitoring: {{Field: "usagetype", Value: "Monitoring-Automation-INT", RegionPrefixed: true}},
		},
	},
	Glacier: {
		Class:          Glacier,
		DisplayName:    "S3 Glacier Flexible Retrieval",
		MinStorageDays: 90,
		filters: map[Operation][]Attribute{
			Put: {
				{Field: "group", Value: "S3-API-GLACIER-Tier1"},
				{Field: "operation", Value: "PutObject"},
			},
			Get:     {{Field: "group", Value: "S3-API-GLACIER-Tier2"}},
			Storage: {{Field: "usagetype", Value: "TimedStorage-GlacierByteHrs", RegionPrefixed: true}},
			Retrieval: {
				{Field: "feeCode", Value: "S3-Standard-Retrieval"},
				{Field: "operation", Value: "RestoreObject"},
			},
			RetrievalRequest: {
				{Field: "group", Value: "S3-API-Tier3"},
				{Field: "operation", Value: "RestoreObject"},
			},
			Transition: {
				{Field: "group", Value: "S3-API-GLACIER-Tier1"},
				{Field: "operation", Value: "PutObject"},
			},
		},
	},
	DeepArchive: {
		Class:          DeepArchive,
		DisplayName:    "S3 Glacier Deep Archive",
		MinStorageDays: 180,
		filters: map[Operation][]Attribute{
			Put: {
				{Field: "group", Value: "S3-API-Tier3"},
				{Field: "operation", Value: "S3-GDATransition"},
			},
			Get:     {{Field: "group", Value: "S3-API-GDA-Tier2"}},
			Storage: {{Field: "usagetype", Value: "TimedStorage-GDA-ByteHrs", RegionPrefixed: true}},
			Retrieval: {
				{Field: "feeCode", Value: "S3-Standard-Retrieval"},
				{Field: "operation", Value: "DeepArchiveRestoreObject"},
			},
			RetrievalRequest: {
				{Field: "group", Value: "S3-API-Tier3"},
				{Field: "operation", Value: "DeepArchiveRestoreObject"},
			},
			Transition: {
				{Field: "group", Value: "S3-API-Tier3"},
				{Field: "operation", Value: "S3-GDATransition"},
			},
		},
	},
	GlacierIR: {
		Class:          GlacierIR,
		DisplayName:    "S3 Glacier Instant Retrieval",
		MinStorageDays: 90,
		filters: map[Operation][]Attribute{
			Put:        {{Field: "group", Value: "S3-API-GIR-Tier1"}},
			Get:        {{Field: "group", Value: "S3-API-GIR-Tier2"}},
			Storage:    {{Field: "usagetype", Value: "TimedStorage-GIR-ByteHrs", RegionPrefixed: true}},
			Retrieval:  {{Field: "group", Value: "S3-API-GIR-Retrieval"}},
			Transition: {{Field: "group", Value: "S3-API-GIR-Tier1"}},
		},
	},
}

func init() {
	for class, spec := range registry {
		for _, op := range operationOrder {
			if _, ok := spec.filters[op]; ok {
				spec.Operations = append(spec.Operations, op)
			}
		}
		registry[class] = spec
	}
}

// Lookup returns the Spec for class.
func Lookup(class StorageClass) (Spec, error) {
	spec, ok := registry[class]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownClass, string(class))
	}
	return spec, nil
}

// Parse accepts either a class code ("STANDARD_IA", "standard_ia") or a
// display name ("S3 Standard - Infrequent Access").
func Parse(s string) (StorageClass, error) {
	trimmed := strings.TrimSpace(s)
	code := StorageClass(strings.ToUpper(trimmed))
	if _, ok := registry[code]; ok {
		return code, nil
	}
	for _, class := range order {
		if strings.EqualFold(registry[class].DisplayName, trimmed) {
			return class, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

// All returns every registered class in display order.
func All() []Spec {
	out := make([]Spec, 0, len(order))
	for _, class := range order {
		out = append(out, registry[class])
	}
	return out
}

// Comparable reports whether class can be part of a backup or retrieval
// comparison. Intelligent-Tiering has no fixed per-class rates for those
// scenarios and is priced through the tiering scenario instead.
func Comparable(class StorageClass) bool {
	_, ok := registry[class]
	return ok && class != IntelligentTiering
}

// Supports reports whether the class is billed for op.
func (s Spec) Supports(op Operation) bool {
	_, ok := s.filters[op]
	return ok
}

// MinStorageDays returns the minimum storage duration of class, or zero
// for an unknown class.
func MinStorageDays(class StorageClass) int {
	return registry[class].MinStorageDays
}

// String implements fmt.Stringer.
func (c StorageClass) String() string {
	return string(c)
}

// DisplayName returns the product name of c, or the code itself when c is
// not registered.
func (c StorageClass) DisplayName() string {
	if spec, ok := registry[c]; ok {
		return spec.DisplayName
	}
	return string(c)
}
