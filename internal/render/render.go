package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

func newTable(w io.Writer) *tabby.Tabby {
	return tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
}

// Result writes result in format f. Tables are drawn from b; JSON and
// YAML encode the whole result.
func Result(w io.Writer, f Format, result any, b *calculator.Breakdown) error {
	switch f {
	case FormatJSON:
		return JSON(w, result)
	case FormatYAML:
		return YAML(w, result)
	case FormatTable, "":
		return Table(w, b)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// YAML writes v as YAML.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// Table writes the breakdown as a cost table followed by its metrics and notes.
func Table(w io.Writer, b *calculator.Breakdown) error {
	if b == nil {
		return fmt.Errorf("nothing to render")
	}

	header := []any{strings.ToUpper(string(b.Scenario)) + " (" + b.Region + ")"}
	for _, col := range b.Columns {
		header = append(header, col.DisplayName())
	}

	t := newTable(w)
	t.AddHeader(header...)
	for _, line := range b.Lines {
		row := []any{lineLabel(line)}
		for _, col := range b.Columns {
			row = append(row, cell(line, col))
		}
		t.AddLine(row...)
	}
	t.Print()

	if len(b.Metrics) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		m := newTable(w)
		m.AddHeader("METRIC", "VALUE")
		for _, metric := range b.Metrics {
			m.AddLine(metric.Label, Quantity(metric.Value, metric.Unit))
		}
		m.Print()
	}

	for _, n := range b.Notes {
		if _, err := fmt.Fprintf(w, "\nNote: %s\n", n); err != nil {
			return err
		}
	}
	return nil
}

func lineLabel(line calculator.Line) string {
	if line.Kind == calculator.KindInfo {
		return line.Label + " (for comparison)"
	}
	return line.Label
}

func cell(line calculator.Line, col storageclass.StorageClass) string {
	v := line.Values[col]
	if line.Kind == calculator.KindRate {
		return Rate(v)
	}
	return Money(v)
}

// Classes writes the storage class registry.
func Classes(w io.Writer, specs []storageclass.Spec) {
	t := newTable(w)
	t.AddHeader("CLASS", "NAME", "MIN DAYS", "OPERATIONS", "TRANSITIONS TO")
	for _, s := range specs {
		ops := make([]string, 0, len(s.Operations))
		for _, op := range s.Operations {
			ops = append(ops, string(op))
		}
		targets := make([]string, 0)
		for _, c := range storageclass.AllowedTargets(s.Class) {
			targets = append(targets, string(c))
		}
		t.AddLine(string(s.Class), s.DisplayName, s.MinStorageDays, strings.Join(ops, ","), strings.Join(targets, ","))
	}
	t.Print()
}

// RegionEntry is a known region and whether the embedded price list
// carries its prices. Regions without them need the aws pricing source.
type RegionEntry struct {
	region.Region `yaml:",inline"`
	Embedded      bool `json:"embedded" yaml:"embedded"`
}

// RegionEntries marks which of regions appear in embedded.
func RegionEntries(regions []region.Region, embedded []string) []RegionEntry {
	covered := make(map[string]bool, len(embedded))
	for _, code := range embedded {
		covered[code] = true
	}
	out := make([]RegionEntry, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionEntry{Region: r, Embedded: covered[r.Code]})
	}
	return out
}

// Regions writes the region table.
func Regions(w io.Writer, regions []RegionEntry) {
	t := newTable(w)
	t.AddHeader("REGION", "LOCATION", "USAGE PREFIX", "EMBEDDED PRICES")
	for _, r := range regions {
		embedded := "no (aws source only)"
		if r.Embedded {
			embedded = "yes"
		}
		t.AddLine(r.Code, r.Location, r.UsagePrefix, embedded)
	}
	t.Print()
}
