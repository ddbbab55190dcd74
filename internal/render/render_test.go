package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

func sampleBreakdown() *calculator.Breakdown {
	return &calculator.Breakdown{
		Scenario: calculator.ScenarioTransfer,
		Region:   "us-east-1",
		Columns:  []storageclass.StorageClass{storageclass.Standard, storageclass.Glacier},
		Lines: []calculator.Line{
			{Label: "PUT request cost per request", Kind: calculator.KindRate, Values: map[storageclass.StorageClass]float64{
				storageclass.Standard: 0.000005, storageclass.Glacier: 0.00003,
			}},
			{Label: "Total cost", Kind: calculator.KindTotal, Values: map[storageclass.StorageClass]float64{
				storageclass.Standard: 62.91456, storageclass.Glacier: 377.48736,
			}},
		},
		Metrics: []calculator.Metric{{Label: "Number of PUT requests", Value: 12582912, Unit: "requests"}},
		Notes:   []string{"Costs exclude data transfer."},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{62.91456, "$62.91"},
		{1234.5, "$1234.50"},
		{0.005, "$0.005"},
		{0.00008, "$0.00008"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.in))
		})
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, "$0.0000004", Rate(0.0000004))
	assert.Equal(t, "$0.023", Rate(0.023))
	assert.Equal(t, "$0", Rate(0))
}

func TestNumberAndQuantity(t *testing.T) {
	assert.Equal(t, "12,582,912", Number(12582912))
	assert.Equal(t, "0.98", Number(0.9765625))
	assert.Equal(t, "7 days", Quantity(7, "days"))
	assert.Equal(t, "1,024 GB", Quantity(1024, "GB"))
	assert.Equal(t, "10,737,418,240 B (10 GiB)", Quantity(10737418240, "B"))
	assert.Equal(t, "$12.35", Quantity(12.345, "USD"))
	assert.Equal(t, "42", Quantity(42, ""))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleBreakdown()))
	out := buf.String()

	assert.Contains(t, out, "TRANSFER (us-east-1)")
	assert.Contains(t, out, "S3 Glacier Flexible Retrieval")
	assert.Contains(t, out, "$0.000005")
	assert.Contains(t, out, "$377.49")
	assert.Contains(t, out, "12,582,912 requests")
	assert.Contains(t, out, "Note: Costs exclude data transfer.")
	assert.Less(t, strings.Index(out, "PUT request cost"), strings.Index(out, "Total cost"))

	require.Error(t, Table(&buf, nil))
}

func TestTable_InfoLineMarked(t *testing.T) {
	b := sampleBreakdown()
	b.Lines = append(b.Lines, calculator.Line{
		Label: "S3 Standard storage cost for 60 days without transition",
		Kind:  calculator.KindInfo,
		Values: map[storageclass.StorageClass]float64{
			storageclass.Standard: 1,
		},
	})
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, b))
	assert.Contains(t, buf.String(), "without transition (for comparison)")
}

func TestResult_EncodesWholeResult(t *testing.T) {
	res := &calculator.TransferResult{
		Parts:     calculator.PartPlan{PartCount: 12582912, PartSizeMB: 64},
		Breakdown: sampleBreakdown(),
	}

	var buf bytes.Buffer
	require.NoError(t, Result(&buf, FormatJSON, res, res.Breakdown))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "parts")
	assert.Contains(t, decoded, "breakdown")

	buf.Reset()
	require.NoError(t, Result(&buf, FormatYAML, res, res.Breakdown))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "transfer", fromYAML["breakdown"].(map[string]any)["scenario"])

	require.Error(t, Result(&buf, "xml", res, res.Breakdown))
}

func TestClassesAndRegions(t *testing.T) {
	var buf bytes.Buffer
	Classes(&buf, storageclass.All())
	assert.Contains(t, buf.String(), "DEEP_ARCHIVE")
	assert.Contains(t, buf.String(), "retrieval-request")

	buf.Reset()
	Regions(&buf, RegionEntries(region.All(), []string{"eu-west-1"}))
	assert.Contains(t, buf.String(), "EU (Ireland)")
	assert.Contains(t, buf.String(), "EMBEDDED PRICES")
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "eu-west-1 "):
			assert.Contains(t, line, "yes")
		case strings.HasPrefix(line, "sa-east-1 "):
			assert.Contains(t, line, "aws source only")
		}
	}
}

func TestRegionEntries(t *testing.T) {
	entries := RegionEntries(region.All(), []string{"us-east-1", "us-west-2"})
	require.Len(t, entries, len(region.All()))

	embedded := map[string]bool{}
	for _, e := range entries {
		embedded[e.Code] = e.Embedded
	}
	assert.True(t, embedded["us-east-1"])
	assert.True(t, embedded["us-west-2"])
	assert.False(t, embedded["sa-east-1"])

	data, err := json.Marshal(entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"code":`)
	assert.Contains(t, string(data), `"embedded":`)

	out, err := yaml.Marshal(entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), "code: ")
	assert.Contains(t, string(out), "embedded: ")
}
