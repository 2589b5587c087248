// Package pipeline threads an immutable snapshot of normalized orders through
// the analytics components and collects their result tables into one run.
// Components are mutually independent given the snapshot and execute
// concurrently; the ROI simulation is the one exception, running after the
// root-cause analysis whose flagged segments it consumes.
package pipeline

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/clustering"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/config"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/forecast"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/profit"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/rfm"
)

// Result is one complete pipeline run. Degraded component outcomes are
// carried as quality notes on the result, never as failures of the run;
// only schema/config errors abort before any component executes.
type Result struct {
	RunID       uuid.UUID `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	OrderCount  int       `json:"order_count"`
	DurationMs  int64     `json:"duration_ms"`

	RFM            *rfm.Result        `json:"rfm,omitempty"`
	RFMDegraded    string             `json:"rfm_degraded,omitempty"`
	Clusters       *clustering.Result `json:"clusters,omitempty"`
	ProfitSegments []profit.Segment   `json:"profit_segments"`
	Scenarios      []profit.Scenario  `json:"elasticity_scenarios"`
	Forecast       *forecast.Result   `json:"forecast,omitempty"`
	ForecastNote   string             `json:"forecast_note,omitempty"`
}

// Run executes the full analytics pipeline over a normalized snapshot.
// The snapshot is never mutated; each component builds its own aggregates.
func Run(records []orders.OrderRecord, cfg config.AnalyticsConfig) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:       uuid.New(),
		GeneratedAt: start.UTC(),
		OrderCount:  len(records),
	}

	// Validate config up front so a bad cap or coefficient aborts before any
	// component spends time on the snapshot.
	if cfg.DiscountCap < 0 || cfg.DiscountCap > 1 {
		return nil, &orders.InvalidParameterError{Param: "discount_cap", Value: cfg.DiscountCap}
	}
	if cfg.ElasticityCoefficient < 0 {
		return nil, &orders.InvalidParameterError{Param: "elasticity_coefficient", Value: cfg.ElasticityCoefficient}
	}

	var wg sync.WaitGroup
	var simErr error

	wg.Add(4)

	go func() {
		defer wg.Done()
		r, err := rfm.Compute(records, time.Time{}, cfg.QuintileCount)
		var insufficient *orders.InsufficientDataError
		if errors.As(err, &insufficient) {
			res.RFMDegraded = err.Error()
			log.Printf("[pipeline] rfm degraded: %v", err)
			return
		}
		if err != nil {
			res.RFMDegraded = err.Error()
			log.Printf("[pipeline] rfm failed: %v", err)
			return
		}
		res.RFM = r
	}()

	go func() {
		defer wg.Done()
		c, err := clustering.Cluster(records, clustering.Options{
			K:       cfg.ClusterCount,
			Seed:    cfg.RandomSeed,
			MaxIter: cfg.MaxClusterIterations,
		})
		if err != nil {
			log.Printf("[pipeline] clustering skipped: %v", err)
			return
		}
		if !c.Converged {
			log.Printf("[pipeline] clustering did not converge in %d iterations", c.Iterations)
		}
		res.Clusters = c
	}()

	go func() {
		defer wg.Done()
		segments := profit.Analyze(records, cfg.DiscountThreshold)
		res.ProfitSegments = segments
		scenarios, err := profit.SimulateSegments(records, segments, cfg.DiscountCap, cfg.ElasticityCoefficient)
		if err != nil {
			simErr = err
			return
		}
		res.Scenarios = scenarios
	}()

	go func() {
		defer wg.Done()
		f, err := forecast.Forecast(records, forecast.Options{
			Granularity:    forecast.Granularity(cfg.ForecastGranularity),
			SeasonalPeriod: cfg.SeasonalPeriod,
			Horizon:        cfg.ForecastHorizon,
		})
		var insufficient *orders.InsufficientHistoryError
		if errors.As(err, &insufficient) {
			res.ForecastNote = err.Error()
			log.Printf("[pipeline] forecast fell back to moving average: %v", err)
		} else if err != nil {
			res.ForecastNote = err.Error()
			log.Printf("[pipeline] forecast failed: %v", err)
			return
		}
		res.Forecast = f
	}()

	wg.Wait()

	if simErr != nil {
		return nil, simErr
	}

	res.DurationMs = time.Since(start).Milliseconds()
	log.Printf("[pipeline] run %s complete: %d orders, %d segments, %d scenarios in %dms",
		res.RunID, res.OrderCount, len(res.ProfitSegments), len(res.Scenarios), res.DurationMs)
	return res, nil
}
