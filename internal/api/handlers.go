package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/cache"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/config"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/pipeline"
)

// OrderSource supplies the normalized snapshot a run executes over.
// The Postgres store implements it; tests supply fixtures.
type OrderSource interface {
	LoadOrders(ctx context.Context) ([]orders.OrderRecord, error)
}

// RunSink receives completed runs for persistence. Optional.
type RunSink interface {
	SaveRun(ctx context.Context, res *pipeline.Result) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	source OrderSource
	sink   RunSink
	cache  *cache.Cache
	cfg    *config.Config

	mu     sync.RWMutex
	latest *pipeline.Result
}

// NewHandlers creates a new Handlers instance
func NewHandlers(source OrderSource, cfg *config.Config) *Handlers {
	return &Handlers{source: source, cfg: cfg}
}

// SetRunSink sets the persistence sink for completed runs
func (h *Handlers) SetRunSink(sink RunSink) { h.sink = sink }

// SetCache sets the Redis result cache
func (h *Handlers) SetCache(c *cache.Cache) { h.cache = c }

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// TriggerRun executes the analytics pipeline over the stored orders and
// publishes the result to the cache and the persistence sink.
func (h *Handlers) TriggerRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recs, err := h.source.LoadOrders(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load orders: "+err.Error())
		return
	}
	if len(recs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no orders available")
		return
	}

	res, err := pipeline.Run(recs, h.cfg.Analytics)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mu.Lock()
	h.latest = res
	h.mu.Unlock()

	if h.cache != nil {
		if err := h.cache.SetLatestRun(ctx, res); err != nil {
			log.Printf("[api] cache latest run: %v", err)
		}
	}
	if h.sink != nil {
		if err := h.sink.SaveRun(ctx, res); err != nil {
			log.Printf("[api] persist run %s: %v", res.RunID, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":       res.RunID,
		"generated_at": res.GeneratedAt,
		"order_count":  res.OrderCount,
		"duration_ms":  res.DurationMs,
	})
}

// latestRun serves the freshest result available: in-process first, then the
// Redis cache. Returns nil after writing a 404 when no run exists yet.
func (h *Handlers) latestRun(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	h.mu.RLock()
	res := h.latest
	h.mu.RUnlock()
	if res != nil {
		return res
	}
	if h.cache != nil {
		res, err := h.cache.GetLatestRun(r.Context())
		if err != nil {
			log.Printf("[api] read cached run: %v", err)
		}
		if res != nil {
			h.mu.Lock()
			h.latest = res
			h.mu.Unlock()
			return res
		}
	}
	writeError(w, http.StatusNotFound, "no analytics run available; POST /api/run first")
	return nil
}

// GetRFM serves the RFM segment table
func (h *Handlers) GetRFM(w http.ResponseWriter, r *http.Request) {
	res := h.latestRun(w, r)
	if res == nil {
		return
	}
	if res.RFM == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"degraded": res.RFMDegraded,
			"scores":   []interface{}{},
		})
		return
	}
	writeJSON(w, http.StatusOK, res.RFM)
}

// GetClusters serves the behavioral cluster assignments
func (h *Handlers) GetClusters(w http.ResponseWriter, r *http.Request) {
	res := h.latestRun(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, res.Clusters)
}

// GetProfitSegments serves the profit root-cause table
func (h *Handlers) GetProfitSegments(w http.ResponseWriter, r *http.Request) {
	res := h.latestRun(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, res.ProfitSegments)
}

// GetScenarios serves the discount-cap simulation results
func (h *Handlers) GetScenarios(w http.ResponseWriter, r *http.Request) {
	res := h.latestRun(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, res.Scenarios)
}

// GetForecast serves the historical + projected sales series
func (h *Handlers) GetForecast(w http.ResponseWriter, r *http.Request) {
	res := h.latestRun(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, res.Forecast)
}

// GetRun serves the complete latest run in one call.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	res := h.latestRun(w, r)
	if res == nil {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
