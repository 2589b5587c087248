// Package store persists orders and per-run analytics result tables in
// PostgreSQL. Result tables are append-only: every pipeline run writes a
// fresh set of rows keyed by run ID, and readers pick the latest run.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/pipeline"
)

// Store wraps the analytics database.
type Store struct{ db *sql.DB }

// New creates a Postgres-backed store.
func New(db *sql.DB) *Store { return &Store{db: db} }

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		order_date DATE NOT NULL,
		region TEXT NOT NULL,
		category TEXT NOT NULL,
		sub_category TEXT NOT NULL,
		sales DOUBLE PRECISION NOT NULL,
		quantity INTEGER NOT NULL,
		discount DOUBLE PRECISION NOT NULL,
		profit DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_date ON orders (order_date)`,
	`CREATE TABLE IF NOT EXISTS analytics_runs (
		run_id UUID PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		order_count INTEGER NOT NULL,
		duration_ms BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rfm_scores (
		run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
		customer_id TEXT NOT NULL,
		recency_score INTEGER NOT NULL,
		frequency_score INTEGER NOT NULL,
		monetary_score INTEGER NOT NULL,
		rfm_code TEXT NOT NULL,
		segment_label TEXT NOT NULL,
		PRIMARY KEY (run_id, customer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cluster_assignments (
		run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
		customer_id TEXT NOT NULL,
		cluster_id INTEGER NOT NULL,
		std_sales DOUBLE PRECISION NOT NULL,
		std_profit DOUBLE PRECISION NOT NULL,
		std_discount DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, customer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profit_segments (
		run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
		region TEXT NOT NULL,
		sub_category TEXT NOT NULL,
		total_sales DOUBLE PRECISION NOT NULL,
		total_profit DOUBLE PRECISION NOT NULL,
		avg_discount DOUBLE PRECISION NOT NULL,
		is_money_pit BOOLEAN NOT NULL,
		PRIMARY KEY (run_id, region, sub_category)
	)`,
	`CREATE TABLE IF NOT EXISTS elasticity_scenarios (
		run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
		segment_key TEXT NOT NULL,
		capped_discount DOUBLE PRECISION NOT NULL,
		elasticity DOUBLE PRECISION NOT NULL,
		baseline_profit DOUBLE PRECISION NOT NULL,
		baseline_volume DOUBLE PRECISION NOT NULL,
		projected_volume DOUBLE PRECISION NOT NULL,
		projected_profit DOUBLE PRECISION NOT NULL,
		net_impact DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, segment_key)
	)`,
	`CREATE TABLE IF NOT EXISTS forecast_points (
		run_id UUID NOT NULL REFERENCES analytics_runs(run_id),
		period_start DATE NOT NULL,
		granularity TEXT NOT NULL,
		observed_sales DOUBLE PRECISION,
		forecast_sales DOUBLE PRECISION,
		is_projected BOOLEAN NOT NULL,
		method TEXT NOT NULL,
		PRIMARY KEY (run_id, period_start)
	)`,
}

// EnsureSchema applies idempotent schema bootstrap statements.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadOrders reads the full order table in insertion order.
func (s *Store) LoadOrders(ctx context.Context) ([]orders.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, customer_id, order_date, region, category, sub_category,
		       sales, quantity, discount, profit
		FROM orders
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	defer rows.Close()

	var out []orders.OrderRecord
	for rows.Next() {
		var r orders.OrderRecord
		if err := rows.Scan(&r.OrderID, &r.CustomerID, &r.OrderDate, &r.Region,
			&r.Category, &r.SubCategory, &r.Sales, &r.Quantity, &r.Discount, &r.Profit); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveOrders bulk-inserts normalized records inside one transaction.
func (s *Store) SaveOrders(ctx context.Context, recs []orders.OrderRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders (order_id, customer_id, order_date, region, category,
		                    sub_category, sales, quantity, discount, profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.OrderID, r.CustomerID, r.OrderDate,
			r.Region, r.Category, r.SubCategory, r.Sales, r.Quantity, r.Discount, r.Profit); err != nil {
			return fmt.Errorf("insert order %s: %w", r.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Printf("[store] saved %d orders", len(recs))
	return nil
}

// SaveRun persists a full pipeline result across the run tables in one
// transaction, so readers never observe a half-written run.
func (s *Store) SaveRun(ctx context.Context, res *pipeline.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analytics_runs (run_id, generated_at, order_count, duration_ms)
		VALUES ($1, $2, $3, $4)`,
		res.RunID, res.GeneratedAt, res.OrderCount, res.DurationMs); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if res.RFM != nil {
		for _, sc := range res.RFM.Scores {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO rfm_scores (run_id, customer_id, recency_score, frequency_score,
				                        monetary_score, rfm_code, segment_label)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				res.RunID, sc.CustomerID, sc.RecencyScore, sc.FrequencyScore,
				sc.MonetaryScore, sc.Code, sc.Segment); err != nil {
				return fmt.Errorf("insert rfm score: %w", err)
			}
		}
	}

	if res.Clusters != nil {
		for _, a := range res.Clusters.Assignments {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cluster_assignments (run_id, customer_id, cluster_id,
				                                 std_sales, std_profit, std_discount)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				res.RunID, a.CustomerID, a.ClusterID,
				a.Features[0], a.Features[1], a.Features[2]); err != nil {
				return fmt.Errorf("insert cluster assignment: %w", err)
			}
		}
	}

	for _, seg := range res.ProfitSegments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO profit_segments (run_id, region, sub_category, total_sales,
			                             total_profit, avg_discount, is_money_pit)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			res.RunID, seg.Region, seg.SubCategory, seg.TotalSales,
			seg.TotalProfit, seg.AvgDiscount, seg.IsMoneyPit); err != nil {
			return fmt.Errorf("insert profit segment: %w", err)
		}
	}

	for _, sc := range res.Scenarios {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO elasticity_scenarios (run_id, segment_key, capped_discount,
			                                  elasticity, baseline_profit, baseline_volume,
			                                  projected_volume, projected_profit, net_impact)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			res.RunID, sc.SegmentKey, sc.DiscountCap, sc.Elasticity,
			sc.BaselineProfit, sc.BaselineVolume, sc.ProjectedVolume,
			sc.ProjectedProfit, sc.NetImpact); err != nil {
			return fmt.Errorf("insert scenario: %w", err)
		}
	}

	if res.Forecast != nil {
		for _, p := range res.Forecast.Points {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO forecast_points (run_id, period_start, granularity,
				                             observed_sales, forecast_sales, is_projected, method)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				res.RunID, p.PeriodStart, string(p.Granularity),
				p.ObservedSales, p.ForecastSales, p.IsProjected, res.Forecast.Method); err != nil {
				return fmt.Errorf("insert forecast point: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Printf("[store] saved run %s", res.RunID)
	return nil
}

// LatestRunID returns the most recent persisted run, or uuid.Nil when no run
// has been saved yet.
func (s *Store) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id FROM analytics_runs ORDER BY generated_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}
