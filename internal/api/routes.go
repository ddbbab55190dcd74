// Package api serves the simulator over HTTP. Scenario endpoints accept the
// calculator input as a JSON body and return the full result.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/s3-cost-simulator/internal/calculator"
	"github.com/rshade/s3-cost-simulator/internal/region"
	"github.com/rshade/s3-cost-simulator/internal/simulator"
	"github.com/rshade/s3-cost-simulator/internal/storageclass"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

type scenarioRequest[I any] struct {
	Body I
}

type scenarioResponse[O any] struct {
	Body *O
}

// HealthOutput is the /health response.
type HealthOutput struct {
	Body struct {
		Status string `json:"status" doc:"Health status" example:"ok"`
		Region string `json:"region" doc:"Region used when a request names none" example:"us-east-1"`
	}
}

// StorageClassesOutput lists the storage class registry.
type StorageClassesOutput struct {
	Body []storageclass.Spec
}

// RegionsOutput lists the supported regions.
type RegionsOutput struct {
	Body []region.Region
}

// NewHandler builds the HTTP handler: huma routes on a chi router, plus
// /metrics served from gatherer.
func NewHandler(sim *simulator.Service, gatherer prometheus.Gatherer, logger zerolog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(recoveryMiddleware(logger))
	router.Use(traceMiddleware)
	router.Use(loggingMiddleware(logger))

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	api := humachi.New(router, huma.DefaultConfig("S3 Cost Simulator API", Version))
	registerRoutes(api, sim)
	return router
}

func registerRoutes(api huma.API, sim *simulator.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, func(_ context.Context, _ *struct{}) (*HealthOutput, error) {
		out := &HealthOutput{}
		out.Body.Status = "ok"
		out.Body.Region = sim.Region()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "listStorageClasses",
		Method:      http.MethodGet,
		Path:        "/v1/storage-classes",
		Summary:     "List storage classes",
		Tags:        []string{"Catalog"},
	}, func(_ context.Context, _ *struct{}) (*StorageClassesOutput, error) {
		return &StorageClassesOutput{Body: storageclass.All()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "listRegions",
		Method:      http.MethodGet,
		Path:        "/v1/regions",
		Summary:     "List regions",
		Tags:        []string{"Catalog"},
	}, func(_ context.Context, _ *struct{}) (*RegionsOutput, error) {
		return &RegionsOutput{Body: region.All()}, nil
	})

	registerScenario(api, calculator.ScenarioTransfer,
		"Price a one-shot multipart upload", sim.Transfer)
	registerScenario(api, calculator.ScenarioBackup,
		"Price a year of recurring backups", sim.Backup)
	registerScenario(api, calculator.ScenarioLifecycle,
		"Price a lifecycle transition between two classes", sim.Lifecycle)
	registerScenario(api, calculator.ScenarioTiering,
		"Price an Intelligent-Tiering access distribution", sim.Tiering)
	registerScenario(api, calculator.ScenarioRetrieval,
		"Price reading files back", sim.Retrieval)
}

func registerScenario[I, O any](
	api huma.API,
	scenario calculator.Scenario,
	summary string,
	run func(context.Context, I) (*O, error),
) {
	huma.Register(api, huma.Operation{
		OperationID: "calculate-" + string(scenario),
		Method:      http.MethodPost,
		Path:        "/v1/scenarios/" + string(scenario),
		Summary:     summary,
		Tags:        []string{"Scenarios"},
	}, func(ctx context.Context, in *scenarioRequest[I]) (*scenarioResponse[O], error) {
		res, err := run(ctx, in.Body)
		if err != nil {
			return nil, problem(err)
		}
		return &scenarioResponse[O]{Body: res}, nil
	})
}
