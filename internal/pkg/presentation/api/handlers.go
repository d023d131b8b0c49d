package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/angsant/trabalho-2-bd-2/internal/pkg/application/catalog"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/cache"
	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/metrics"
	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

const TraceAttributeFranchiseID string = "franchise-id"

var tracer = otel.Tracer("catalog-api/datasets")

// LoadFailedMessage is shown by the dashboard when a load degrades to empty
// tables.
const LoadFailedMessage = "falha ao carregar os dados do catálogo"

const (
	cacheKeyFranchises = "catalog:franchises"
	cacheKeyDatasets   = "catalog:datasets"
	cacheKeyFranchise  = "catalog:franchise:"
)

// FranchisesResponse lists the franchises available for selection.
type FranchisesResponse struct {
	Franchises records.Table `json:"franchises"`
	Message    string        `json:"message,omitempty"`
}

// DatasetsResponse carries the three display-ready tables. Message is only
// set when the load failed and the tables degraded to empty.
type DatasetsResponse struct {
	Organizations records.Table `json:"organizations"`
	Individuals   records.Table `json:"individuals"`
	Vehicles      records.Table `json:"vehicles"`
	Message       string        `json:"message,omitempty"`
}

func RegisterHandlers(ctx context.Context, r *chi.Mux, app catalog.Catalog, datasetCache cache.DatasetCache, m *metrics.Registry) error {
	logger := logging.GetFromContext(ctx)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Logger(logger))

		r.Get("/franchises", NewListFranchisesHandler(app, datasetCache, m))
		r.Get("/franchises/{franchiseId}/datasets", NewLoadFranchiseHandler(app, datasetCache, m))
		r.Get("/datasets", NewLoadAllHandler(app, datasetCache, m))
	})

	r.Handle("/metrics", m.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return nil
}

// Logger stores a trace-id tagged logger in each request context.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewListFranchisesHandler handles GET requests for the franchise list.
func NewListFranchisesHandler(app catalog.Catalog, datasetCache cache.DatasetCache, m *metrics.Registry) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-franchises")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if serveFromCache(ctx, w, datasetCache, m, cacheKeyFranchises) {
			return
		}

		started := time.Now()
		franchises, err := app.ListFranchises(ctx)
		observeLoad(m, started, err)

		if err != nil {
			logging.GetFromContext(ctx).Error("failed to list franchises", "err", err.Error())
			writeJSON(ctx, w, FranchisesResponse{Franchises: records.Table{}, Message: LoadFailedMessage}, nil, "")
			return
		}

		writeJSON(ctx, w, FranchisesResponse{Franchises: franchises}, datasetCache, cacheKeyFranchises)
	})
}

// NewLoadFranchiseHandler handles GET requests for the datasets of a single
// franchise.
func NewLoadFranchiseHandler(app catalog.Catalog, datasetCache cache.DatasetCache, m *metrics.Registry) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		franchiseID, _ := url.QueryUnescape(chi.URLParam(r, "franchiseId"))

		ctx, span := tracer.Start(r.Context(), "load-franchise",
			trace.WithAttributes(attribute.String(TraceAttributeFranchiseID, franchiseID)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if labeler, found := otelhttp.LabelerFromContext(ctx); found {
			labeler.Add(attribute.String(TraceAttributeFranchiseID, franchiseID))
		}

		if serveFromCache(ctx, w, datasetCache, m, cacheKeyFranchise+franchiseID) {
			return
		}

		started := time.Now()
		ds, err := app.LoadFranchise(ctx, franchiseID)
		observeLoad(m, started, err)

		if err != nil {
			logging.GetFromContext(ctx).Error("failed to load franchise datasets",
				slog.String("franchise_id", franchiseID), "err", err.Error())
			writeJSON(ctx, w, degradedResponse(), nil, "")
			return
		}

		writeJSON(ctx, w, datasetsResponse(ds), datasetCache, cacheKeyFranchise+franchiseID)
	})
}

// NewLoadAllHandler handles GET requests for the all-franchises datasets.
func NewLoadAllHandler(app catalog.Catalog, datasetCache cache.DatasetCache, m *metrics.Registry) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "load-all")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		if serveFromCache(ctx, w, datasetCache, m, cacheKeyDatasets) {
			return
		}

		started := time.Now()
		ds, err := app.LoadAll(ctx)
		observeLoad(m, started, err)

		if err != nil {
			logging.GetFromContext(ctx).Error("failed to load datasets", "err", err.Error())
			writeJSON(ctx, w, degradedResponse(), nil, "")
			return
		}

		writeJSON(ctx, w, datasetsResponse(ds), datasetCache, cacheKeyDatasets)
	})
}

func datasetsResponse(ds catalog.Datasets) DatasetsResponse {
	return DatasetsResponse{
		Organizations: ds.Organizations,
		Individuals:   ds.Individuals,
		Vehicles:      ds.Vehicles,
	}
}

func degradedResponse() DatasetsResponse {
	resp := datasetsResponse(catalog.EmptyDatasets())
	resp.Message = LoadFailedMessage
	return resp
}

func observeLoad(m *metrics.Registry, started time.Time, err error) {
	m.Loads.Inc()
	m.LoadDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.LoadFailures.Inc()
	}
}

func serveFromCache(ctx context.Context, w http.ResponseWriter, datasetCache cache.DatasetCache, m *metrics.Registry, key string) bool {
	if datasetCache == nil {
		return false
	}

	body, ok := datasetCache.Get(ctx, key)
	if !ok {
		m.CacheMisses.Inc()
		return false
	}

	m.CacheHits.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)

	return true
}

// writeJSON serializes the response and, when a cache key is given, stores
// the exact bytes that were sent so cached and fresh responses stay
// identical. Failed loads are never cached.
func writeJSON(ctx context.Context, w http.ResponseWriter, response any, datasetCache cache.DatasetCache, key string) {
	body, err := json.Marshal(response)
	if err != nil {
		logging.GetFromContext(ctx).Error("failed to marshal response", "err", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if datasetCache != nil && key != "" {
		datasetCache.Set(ctx, key, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
