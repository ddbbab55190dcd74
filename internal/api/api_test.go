package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/metrics"
	"github.com/rshade/s3-cost-simulator/internal/pricing"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/simulator"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	client, err := pricing.NewClient(zerolog.Nop())
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	sim, err := simulator.New(client, region.Default, metrics.New(reg), zerolog.Nop())
	require.NoError(t, err)
	return NewHandler(sim, reg, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","region":"us-east-1"}`, stripSchema(t, rec.Body.Bytes()))
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))
}

func TestTraceIDFromRequest(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/health", "", HeaderRequestID, "req-42")
	assert.Equal(t, "req-42", rec.Header().Get(HeaderTraceID))
}

func TestListings(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/v1/storage-classes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var specs []storageclass.Spec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &specs))
	assert.Len(t, specs, len(storageclass.All()))

	rec = do(t, h, http.MethodGet, "/v1/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var regions []region.Region
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	assert.Len(t, regions, len(region.All()))
}

func TestTransferScenario(t *testing.T) {
	body := `{
		"size": {"value": 1, "unit": "GB"},
		"dedupe_percent": 0,
		"part_size_mb": 64,
		"classes": ["STANDARD", "GLACIER"]
	}`
	rec := do(t, newTestHandler(t), http.MethodPost, "/v1/scenarios/transfer", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res calculator.TransferResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(16), res.Parts.PartCount)
	assert.Equal(t, "us-east-1", res.Breakdown.Region)
	assert.InDelta(t, 16*0.000005, res.Breakdown.Total(storageclass.Standard), 1e-12)
	assert.InDelta(t, 16*0.00003, res.Breakdown.Total(storageclass.Glacier), 1e-12)
}

func TestScenarioErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		status   int
		wantCode string
	}{
		{
			name: "percentage mismatch",
			path: "/v1/scenarios/tiering",
			body: `{"object_count": 10, "average_size": {"value": 1, "unit": "GB"},
				"frequent_percent": 50, "infrequent_percent": 20, "instant_percent": 10,
				"archive_percent": 0, "deep_archive_percent": 0,
				"archive_enabled": false, "deep_archive_enabled": false}`,
			status:   http.StatusUnprocessableEntity,
			wantCode: simulator.CodePercentageMismatch,
		},
		{
			name: "unknown region",
			path: "/v1/scenarios/retrieval",
			body: `{"file_size": {"value": 1, "unit": "GB"}, "file_count": 1,
				"classes": ["STANDARD"], "region": "mars-1"}`,
			status:   http.StatusBadRequest,
			wantCode: simulator.CodeUnknownRegion,
		},
		{
			name: "file too large",
			path: "/v1/scenarios/backup",
			body: `{"size": {"value": 6, "unit": "TB"}, "frequency": "Daily",
				"part_size_mb": 64, "classes": ["STANDARD"]}`,
			status:   http.StatusUnprocessableEntity,
			wantCode: simulator.CodeFileTooLarge,
		},
		{
			name: "target not selected",
			path: "/v1/scenarios/lifecycle",
			body: `{"source": "STANDARD", "target": "", "object_count": 1,
				"average_size": {"value": 1, "unit": "MB"},
				"days_until_transition": 30, "forecast_days": 60}`,
			status:   http.StatusUnprocessableEntity,
			wantCode: simulator.CodeTargetNotSelected,
		},
		{
			name: "target omitted",
			path: "/v1/scenarios/lifecycle",
			body: `{"source": "STANDARD", "object_count": 1,
				"average_size": {"value": 1, "unit": "MB"},
				"days_until_transition": 30, "forecast_days": 60}`,
			status:   http.StatusUnprocessableEntity,
			wantCode: simulator.CodeTargetNotSelected,
		},
		{
			name: "classes omitted",
			path: "/v1/scenarios/transfer",
			body: `{"size": {"value": 1, "unit": "GB"}, "dedupe_percent": 0,
				"part_size_mb": 64}`,
			status:   http.StatusUnprocessableEntity,
			wantCode: simulator.CodeNoClassSelected,
		},
		{
			name: "retrieval classes omitted",
			path: "/v1/scenarios/retrieval",
			body: `{"file_size": {"value": 1, "unit": "GB"}, "file_count": 1}`,
			status:   http.StatusUnprocessableEntity,
			wantCode: simulator.CodeNoClassSelected,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var problem struct {
				Status int    `json:"status"`
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.status, problem.Status)
			assert.True(t, strings.HasPrefix(problem.Detail, tt.wantCode+": "), problem.Detail)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(simulator.CodePriceNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(simulator.CodePriceServiceUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusFor(simulator.CodeInternal))
	assert.Equal(t, http.StatusBadRequest, statusFor(simulator.CodeInvalidUnit))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(simulator.CodeInvalidTierOrdering))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)
	do(t, h, http.MethodPost, "/v1/scenarios/retrieval",
		`{"file_size": {"value": 1, "unit": "GB"}, "file_count": 3, "classes": ["GLACIER"]}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `s3costsim_calculations_total{outcome="success",scenario="retrieval"} 1`)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), zerolog.Nop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServe_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	before := runtime.NumGoroutine()
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(context.Background(), ln.Addr().String(), http.NotFoundHandler(), zerolog.Nop())
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not report the bind failure")
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond, "shutdown goroutine still running")
}

// stripSchema drops the $schema link huma adds to object responses.
func stripSchema(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	delete(m, "$schema")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}
