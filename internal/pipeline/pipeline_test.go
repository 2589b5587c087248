package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/config"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

// sampleOrders builds a population with enough customers for quintile cuts,
// a loss-making discounted segment, and a year of monthly history.
func sampleOrders() []orders.OrderRecord {
	var recs []orders.OrderRecord
	for i := 0; i < 12; i++ {
		date := time.Date(2023, time.Month(i+1), 10, 0, 0, 0, 0, time.UTC)
		recs = append(recs, orders.OrderRecord{
			OrderID:     fmt.Sprintf("O-a-%d", i),
			CustomerID:  fmt.Sprintf("C-%02d", i),
			OrderDate:   date,
			Region:      "West",
			Category:    "Furniture",
			SubCategory: "Tables",
			Sales:       float64(500 + i*50),
			Discount:    0.45,
			Profit:      float64(-100 - i*10),
			Quantity:    2,
		})
		recs = append(recs, orders.OrderRecord{
			OrderID:     fmt.Sprintf("O-b-%d", i),
			CustomerID:  fmt.Sprintf("C-%02d", i),
			OrderDate:   date,
			Region:      "East",
			Category:    "Technology",
			SubCategory: "Phones",
			Sales:       float64(1000 + i*100),
			Discount:    0.05,
			Profit:      float64(200 + i*20),
			Quantity:    1,
		})
	}
	return recs
}

func TestRunFullPipeline(t *testing.T) {
	res, err := Run(sampleOrders(), config.Default().Analytics)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, 24, res.OrderCount)

	require.NotNil(t, res.RFM)
	assert.Len(t, res.RFM.Scores, 12)
	assert.Empty(t, res.RFMDegraded)

	require.NotNil(t, res.Clusters)
	assert.Len(t, res.Clusters.Assignments, 12)
	assert.Equal(t, int64(42), res.Clusters.Seed)

	require.Len(t, res.ProfitSegments, 2)
	assert.Equal(t, "West/Tables", res.ProfitSegments[0].Key())
	assert.True(t, res.ProfitSegments[0].IsMoneyPit)

	// Overall scenario plus one per money pit.
	require.Len(t, res.Scenarios, 2)
	assert.Equal(t, "all", res.Scenarios[0].SegmentKey)
	assert.Equal(t, "West/Tables", res.Scenarios[1].SegmentKey)

	// One year of history is under two seasonal cycles, so the forecast
	// degrades to the moving-average baseline but still produces a series.
	require.NotNil(t, res.Forecast)
	assert.NotEmpty(t, res.ForecastNote)
	assert.Len(t, res.Forecast.Points, 12+3)
}

func TestRunDeterministicClustering(t *testing.T) {
	cfg := config.Default().Analytics
	a, err := Run(sampleOrders(), cfg)
	require.NoError(t, err)
	b, err := Run(sampleOrders(), cfg)
	require.NoError(t, err)

	require.NotNil(t, a.Clusters)
	require.NotNil(t, b.Clusters)
	for i := range a.Clusters.Assignments {
		assert.Equal(t, a.Clusters.Assignments[i].ClusterID, b.Clusters.Assignments[i].ClusterID)
	}
}

func TestRunDegradesRFMOnTinyPopulation(t *testing.T) {
	recs := sampleOrders()[:2] // one customer, two line items
	recs[1].CustomerID = recs[0].CustomerID

	res, err := Run(recs, config.Default().Analytics)
	require.NoError(t, err)

	assert.Nil(t, res.RFM)
	assert.NotEmpty(t, res.RFMDegraded)
	// The other components still run.
	assert.NotNil(t, res.Clusters)
	assert.NotEmpty(t, res.ProfitSegments)
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := config.Default().Analytics
	cfg.DiscountCap = 1.5

	_, err := Run(sampleOrders(), cfg)
	var invalid *orders.InvalidParameterError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "discount_cap", invalid.Param)

	cfg = config.Default().Analytics
	cfg.ElasticityCoefficient = -1
	_, err = Run(sampleOrders(), cfg)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "elasticity_coefficient", invalid.Param)
}

func TestRunDoesNotMutateSnapshot(t *testing.T) {
	recs := sampleOrders()
	before := make([]orders.OrderRecord, len(recs))
	copy(before, recs)

	_, err := Run(recs, config.Default().Analytics)
	require.NoError(t, err)

	for i := range before {
		assert.Equal(t, before[i], recs[i])
	}
}

func TestRunEmptySnapshot(t *testing.T) {
	res, err := Run(nil, config.Default().Analytics)
	require.NoError(t, err)

	assert.Equal(t, 0, res.OrderCount)
	assert.Nil(t, res.RFM)
	assert.Nil(t, res.Clusters)
	assert.Empty(t, res.ProfitSegments)
	assert.NotEmpty(t, res.ForecastNote)
}
