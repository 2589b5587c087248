package rfm

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

func day(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }

// population builds n customers with one order each, monetary value rising
// with the customer index and every order on the same date.
func population(n int) []orders.OrderRecord {
	recs := make([]orders.OrderRecord, n)
	for i := range recs {
		recs[i] = orders.OrderRecord{
			OrderID:    fmt.Sprintf("O-%03d", i),
			CustomerID: fmt.Sprintf("C-%03d", i),
			OrderDate:  day(10),
			Sales:      float64((i + 1) * 10),
		}
	}
	return recs
}

func TestComputeQuintileBalance(t *testing.T) {
	res, err := Compute(population(23), time.Time{}, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if res.Partitions["monetary"] != 5 {
		t.Fatalf("monetary partitions = %d, want 5", res.Partitions["monetary"])
	}

	sizes := make(map[int]int)
	for _, s := range res.Scores {
		if s.MonetaryScore < 1 || s.MonetaryScore > 5 {
			t.Fatalf("monetary score %d out of range", s.MonetaryScore)
		}
		sizes[s.MonetaryScore]++
	}

	min, max := len(res.Scores), 0
	for b := 1; b <= 5; b++ {
		if sizes[b] < min {
			min = sizes[b]
		}
		if sizes[b] > max {
			max = sizes[b]
		}
	}
	if max-min > 1 {
		t.Errorf("bucket sizes differ by more than 1: %v", sizes)
	}
}

func TestComputeMonetaryAscendsWithValue(t *testing.T) {
	res, err := Compute(population(25), time.Time{}, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	prev := 0
	for _, s := range res.Scores { // scores are customer-ID ordered = monetary ascending
		if s.MonetaryScore < prev {
			t.Fatalf("monetary score dropped from %d to %d at %s", prev, s.MonetaryScore, s.CustomerID)
		}
		prev = s.MonetaryScore
	}
}

func TestComputeCollapsesToDistinctValues(t *testing.T) {
	// Three customers, monetary 100/500/900, same recency and frequency.
	recs := []orders.OrderRecord{
		{OrderID: "O-1", CustomerID: "C-1", OrderDate: day(10), Sales: 100},
		{OrderID: "O-2", CustomerID: "C-2", OrderDate: day(10), Sales: 500},
		{OrderID: "O-3", CustomerID: "C-3", OrderDate: day(10), Sales: 900},
	}

	res, err := Compute(recs, time.Time{}, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Partitions["monetary"] != 3 {
		t.Errorf("monetary partitions = %d, want 3", res.Partitions["monetary"])
	}
	if res.Partitions["recency"] != 1 || res.Partitions["frequency"] != 1 {
		t.Errorf("recency/frequency partitions = %d/%d, want 1/1",
			res.Partitions["recency"], res.Partitions["frequency"])
	}

	want := map[string]int{"C-1": 1, "C-2": 2, "C-3": 3}
	for _, s := range res.Scores {
		if s.MonetaryScore != want[s.CustomerID] {
			t.Errorf("%s monetary score = %d, want %d", s.CustomerID, s.MonetaryScore, want[s.CustomerID])
		}
	}
}

func TestComputeRecencyInverted(t *testing.T) {
	recs := []orders.OrderRecord{
		{OrderID: "O-1", CustomerID: "C-old", OrderDate: day(1), Sales: 100},
		{OrderID: "O-2", CustomerID: "C-new", OrderDate: day(20), Sales: 100},
	}

	res, err := Compute(recs, time.Time{}, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	byID := make(map[string]Score)
	for _, s := range res.Scores {
		byID[s.CustomerID] = s
	}
	if byID["C-new"].RecencyScore <= byID["C-old"].RecencyScore {
		t.Errorf("recent customer scored %d, stale customer %d",
			byID["C-new"].RecencyScore, byID["C-old"].RecencyScore)
	}
	// Analysis date defaults to one day past the latest order.
	if byID["C-new"].RecencyDays != 1 {
		t.Errorf("RecencyDays for latest customer = %d, want 1", byID["C-new"].RecencyDays)
	}
}

func TestComputeSegments(t *testing.T) {
	// 10 customers spread across recency and monetary. Frequency is uniform
	// at 1 for the bottom half and 5 for the top half.
	var recs []orders.OrderRecord
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("C-%02d", i)
		n := 1
		if i >= 5 {
			n = 5
		}
		for j := 0; j < n; j++ {
			recs = append(recs, orders.OrderRecord{
				OrderID:    fmt.Sprintf("O-%02d-%d", i, j),
				CustomerID: id,
				OrderDate:  day(i*3 + 1),
				Sales:      float64((i + 1) * 100),
			})
		}
	}

	res, err := Compute(recs, time.Time{}, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	byID := make(map[string]Score)
	for _, s := range res.Scores {
		byID[s.CustomerID] = s
	}

	// Highest recency, frequency and monetary all land on the last customer.
	if got := byID["C-09"].Segment; got != SegmentChampions {
		t.Errorf("C-09 segment = %s, want %s (score %s)", got, SegmentChampions, byID["C-09"].Code)
	}
	// Oldest, least frequent, lowest spend.
	if got := byID["C-00"].Segment; got != SegmentHibernating {
		t.Errorf("C-00 segment = %s, want %s (score %s)", got, SegmentHibernating, byID["C-00"].Code)
	}
}

func TestComputeAtRiskSegment(t *testing.T) {
	s := Score{RecencyScore: 1, FrequencyScore: 3, MonetaryScore: 5}
	if got := segmentFor(s, 5, 5, 5); got != SegmentAtRisk {
		t.Errorf("segmentFor() = %s, want %s", got, SegmentAtRisk)
	}
}

func TestComputeErrors(t *testing.T) {
	_, err := Compute(population(1), time.Time{}, 5)
	var insufficient *orders.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("single customer: error = %v, want InsufficientDataError", err)
	}

	_, err = Compute(population(10), time.Time{}, 1)
	var invalid *orders.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Errorf("quintiles=1: error = %v, want InvalidParameterError", err)
	}
}

func TestComputeExplicitAnalysisDate(t *testing.T) {
	recs := population(5)
	res, err := Compute(recs, day(30), 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !res.AnalysisDate.Equal(day(30)) {
		t.Errorf("AnalysisDate = %v, want %v", res.AnalysisDate, day(30))
	}
	if res.Scores[0].RecencyDays != 20 {
		t.Errorf("RecencyDays = %d, want 20", res.Scores[0].RecencyDays)
	}
}

func TestComputeCodeFormat(t *testing.T) {
	res, err := Compute(population(25), time.Time{}, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for _, s := range res.Scores {
		want := fmt.Sprintf("%d%d%d", s.RecencyScore, s.FrequencyScore, s.MonetaryScore)
		if s.Code != want {
			t.Errorf("Code = %q, want %q", s.Code, want)
		}
	}
}
