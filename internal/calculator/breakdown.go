package calculator

import (
	"slices"

	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// Scenario names a calculation mode.
type Scenario string

// Scenarios.
const (
	ScenarioTransfer  Scenario = "transfer"
	ScenarioBackup    Scenario = "backup"
	ScenarioLifecycle Scenario = "lifecycle"
	ScenarioTiering   Scenario = "tiering"
	ScenarioRetrieval Scenario = "retrieval"
)

// Scenarios returns every scenario in presentation order.
func Scenarios() []Scenario {
	return []Scenario{ScenarioTransfer, ScenarioBackup, ScenarioLifecycle, ScenarioTiering, ScenarioRetrieval}
}

// LineKind classifies a breakdown line.
type LineKind string

// Line kinds. Only component lines are summed into totals; rate and info
// lines are shown alongside for reference.
const (
	KindComponent LineKind = "component"
	KindTotal     LineKind = "total"
	KindRate      LineKind = "rate"
	KindInfo      LineKind = "info"
)

// Line is one labelled row of a breakdown with a value per column.
type Line struct {
	Label  string                                `json:"label" yaml:"label"`
	Kind   LineKind                              `json:"kind" yaml:"kind"`
	Values map[storageclass.StorageClass]float64 `json:"values" yaml:"values"`
}

// Metric is a derived quantity shown next to a breakdown (part count,
// effective size).
type Metric struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Breakdown is an ordered cost breakdown with one column per storage class.
// Values are unrounded; formatting happens at the presentation boundary.
// Every total line equals the sum of the component lines that precede it.
type Breakdown struct {
	Scenario Scenario                    `json:"scenario" yaml:"scenario"`
	Region   string                      `json:"region" yaml:"region"`
	Columns  []storageclass.StorageClass `json:"columns" yaml:"columns"`
	Lines    []Line                      `json:"lines" yaml:"lines"`
	Metrics  []Metric                    `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Notes    []string                    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func newBreakdown(scenario Scenario, region string, columns []storageclass.StorageClass) *Breakdown {
	return &Breakdown{
		Scenario: scenario,
		Region:   region,
		Columns:  slices.Clone(columns),
	}
}

func (b *Breakdown) add(label string, kind LineKind, values map[storageclass.StorageClass]float64) {
	b.Lines = append(b.Lines, Line{Label: label, Kind: kind, Values: values})
}

// total appends a total line summing every component line per column.
func (b *Breakdown) total(label string) {
	sums := make(map[storageclass.StorageClass]float64, len(b.Columns))
	for _, col := range b.Columns {
		sums[col] = 0
	}
	for _, line := range b.Lines {
		if line.Kind != KindComponent {
			continue
		}
		for _, col := range b.Columns {
			sums[col] += line.Values[col]
		}
	}
	b.add(label, KindTotal, sums)
}

func (b *Breakdown) metric(label string, value float64, unit string) {
	b.Metrics = append(b.Metrics, Metric{Label: label, Value: value, Unit: unit})
}

func (b *Breakdown) note(text string) {
	b.Notes = append(b.Notes, text)
}

// Line returns the line with the given label.
func (b *Breakdown) Line(label string) (Line, bool) {
	for _, line := range b.Lines {
		if line.Label == label {
			return line, true
		}
	}
	return Line{}, false
}

// Value returns the value of a line for one column, or zero when either is absent.
func (b *Breakdown) Value(label string, class storageclass.StorageClass) float64 {
	line, ok := b.Line(label)
	if !ok {
		return 0
	}
	return line.Values[class]
}

// Total returns the last total line's value for class.
func (b *Breakdown) Total(class storageclass.StorageClass) float64 {
	for i := len(b.Lines) - 1; i >= 0; i-- {
		if b.Lines[i].Kind == KindTotal {
			return b.Lines[i].Values[class]
		}
	}
	return 0
}

// columnValues builds a per-column value map from fn.
func columnValues(columns []storageclass.StorageClass, fn func(storageclass.StorageClass) float64) map[storageclass.StorageClass]float64 {
	out := make(map[storageclass.StorageClass]float64, len(columns))
	for _, col := range columns {
		out[col] = fn(col)
	}
	return out
}
