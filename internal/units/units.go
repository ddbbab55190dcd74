// Package units converts data quantities between byte-magnitude units.
//
// Every unit is a power of 1024 of the previous one (B, KB, MB, ... YB). All
// conversions in the simulator go through Convert so no calculator carries
// its own scale constant.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unit is a byte-magnitude unit.
type Unit string

// Supported units, smallest first. The position in scale is the exponent of 1024.
const (
	B  Unit = "B"
	KB Unit = "KB"
	MB Unit = "MB"
	GB Unit = "GB"
	TB Unit = "TB"
	PB Unit = "PB"
	EB Unit = "EB"
	ZB Unit = "ZB"
	YB Unit = "YB"
)

// Factor is the ratio between two adjacent units.
const Factor = 1024.0

// ErrInvalidUnit is returned when a unit is outside the byte-magnitude scale.
var ErrInvalidUnit = errors.New("invalid unit")

var scale = []Unit{B, KB, MB, GB, TB, PB, EB, ZB, YB}

// All returns the supported units in ascending order.
func All() []Unit {
	out := make([]Unit, len(scale))
	copy(out, scale)
	return out
}

// index returns the exponent of 1024 for u.
func index(u Unit) (int, error) {
	for i, s := range scale {
		if s == u {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, string(u))
}

// Valid reports whether u is on the scale.
func (u Unit) Valid() bool {
	_, err := index(u)
	return err == nil
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return string(u)
}

// ParseUnit accepts a unit name case-insensitively ("gb", "GB", " Gb ").
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToUpper(strings.TrimSpace(s)))
	if _, err := index(u); err != nil {
		return "", err
	}
	return u, nil
}

// Convert returns size expressed in from as a quantity of to:
//
//	size * 1024^(index(from) - index(to))
//
// No rounding is applied.
func Convert(size float64, from, to Unit) (float64, error) {
	fi, err := index(from)
	if err != nil {
		return 0, err
	}
	ti, err := index(to)
	if err != nil {
		return 0, err
	}
	return size * math.Pow(Factor, float64(fi-ti)), nil
}

// Quantity is a size paired with its unit.
type Quantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// In converts q to the given unit.
func (q Quantity) In(to Unit) (float64, error) {
	return Convert(q.Value, q.Unit, to)
}

// String formats the quantity as "<value> <unit>".
func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// ParseQuantity parses "<value> <unit>" or "<value><unit>", e.g. "1 TB" or
// "512MB". The unit is case-insensitive.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-' && r != '+'
	})
	if i <= 0 {
		return Quantity{}, fmt.Errorf("%w: cannot parse quantity %q", ErrInvalidUnit, s)
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: cannot parse quantity %q", ErrInvalidUnit, s)
	}
	u, err := ParseUnit(s[i:])
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: u}, nil
}

// Set implements pflag.Value.
func (q *Quantity) Set(s string) error {
	parsed, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Type implements pflag.Value.
func (q *Quantity) Type() string {
	return "quantity"
}

// UnmarshalYAML accepts either the mapping form {value, unit} or a scalar
// such as "1 TB".
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return q.Set(node.Value)
	}
	type plain Quantity
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*q = Quantity(p)
	return nil
}
