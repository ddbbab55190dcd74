package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Calculation("backup", 3*time.Millisecond, nil)
	r.Calculation("backup", time.Millisecond, errors.New("boom"))
	r.Calculation("tiering", time.Millisecond, nil)
	r.PriceLookup("put", nil)
	r.PriceLookup("put", nil)
	r.PriceLookup("retrieval", errors.New("missing"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.calculations.WithLabelValues("backup", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.calculations.WithLabelValues("backup", OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.lookups.WithLabelValues("put", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lookups.WithLabelValues("retrieval", OutcomeError)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"s3costsim_calculations_total",
		"s3costsim_calculation_duration_seconds",
		"s3costsim_price_lookups_total",
	}, names)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Calculation("transfer", time.Second, nil)
		r.PriceLookup("get", nil)
	})
}
