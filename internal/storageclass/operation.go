package storageclass

import (
	"errors"
	"fmt"

	"github.com/rshade/s3-cost-simulator/internal/region"
)

// Operation is a billable operation kind.
type Operation string

// Operation kinds. The unit each price is quoted in is fixed per kind, see Unit.
const (
	Put              Operation = "put"
	Get              Operation = "get"
	Storage          Operation = "storage"
	Retrieval        Operation = "retrieval"
	RetrievalRequest Operation = "retrieval-request"
	Transition       Operation = "transition"
	Monitoring       Operation = "monitoring"
)

// ErrUnsupportedOperation is returned when a class is not billed for an
// operation kind.
var ErrUnsupportedOperation = errors.New("operation not billed for storage class")

var operationOrder = []Operation{Put, Get, Storage, Retrieval, RetrievalRequest, Transition, Monitoring}

// Unit returns the quantity one price of op is quoted per.
func (op Operation) Unit() string {
	switch op {
	case Storage:
		return "GB-Mo"
	case Retrieval:
		return "GB"
	case RetrievalRequest:
		return "1000 requests"
	case Monitoring:
		return "object-month"
	default:
		return "request"
	}
}

// CatalogScale is the factor applied to the raw Price List rate to express
// it in Unit. The Price List quotes requests individually; restore requests
// are modelled per thousand.
func (op Operation) CatalogScale() float64 {
	if op == RetrievalRequest {
		return 1000
	}
	return 1
}

// String implements fmt.Stringer.
func (op Operation) String() string {
	return string(op)
}

// Attribute is one TERM_MATCH filter on a Price List product attribute.
type Attribute struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`

	// RegionPrefixed marks usage types that AWS bills with a region prefix.
	RegionPrefixed bool `json:"-" yaml:"-"`
}

// Filters returns the Price List attribute filters that identify the price
// of op for class in r. The region code filter always comes first.
func Filters(class StorageClass, op Operation, r region.Region) ([]Attribute, error) {
	spec, err := Lookup(class)
	if err != nil {
		return nil, err
	}
	attrs, ok := spec.filters[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedOperation, class, op)
	}
	return resolve(attrs, r), nil
}

func resolve(attrs []Attribute, r region.Region) []Attribute {
	out := make([]Attribute, 0, len(attrs)+1)
	out = append(out, Attribute{Field: "regionCode", Value: r.Code})
	for _, a := range attrs {
		if a.RegionPrefixed {
			a.Value = r.UsageType(a.Value)
			a.RegionPrefixed = false
		}
		out = append(out, a)
	}
	return out
}

// AllFilters returns the unresolved filters of every class, operation and
// access tier. It is used by tooling that extracts the matching products
// from a full offer file.
func AllFilters() [][]Attribute {
	var out [][]Attribute
	for _, class := range order {
		spec := registry[class]
		for _, op := range spec.Operations {
			out = append(out, spec.filters[op])
		}
	}
	for _, tier := range tierOrder {
		out = append(out, tiers[tier].filter)
	}
	return out
}
