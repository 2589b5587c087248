// Package rfm computes Recency/Frequency/Monetary quintile scores and derives
// a named segment per customer. Scoring is rank-based so buckets stay
// population-balanced under skewed monetary distributions.
package rfm

import (
	"fmt"
	"sort"
	"time"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

// Segment labels derived from the score rule table.
const (
	SegmentChampions   = "Champions"
	SegmentAtRisk      = "At Risk"
	SegmentHibernating = "Hibernating"
	SegmentRegular     = "Regular"
)

// Score is one customer's RFM result.
type Score struct {
	CustomerID     string  `json:"customer_id"`
	RecencyDays    int     `json:"recency_days"`
	Frequency      int     `json:"frequency"`
	Monetary       float64 `json:"monetary"`
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	Code           string  `json:"rfm_code"`
	Segment        string  `json:"segment_label"`
}

// Result is the full segment table plus partition metadata. When a metric has
// fewer distinct values than the requested quintile count, the partition for
// that metric narrows instead of failing; Partitions records the count used.
type Result struct {
	AnalysisDate time.Time      `json:"analysis_date"`
	Quintiles    int            `json:"quintiles"`
	Partitions   map[string]int `json:"partitions"` // metric -> bucket count actually used
	Scores       []Score        `json:"scores"`
}

// Compute builds the RFM table for a customer population. analysisDate is the
// reference point for recency; zero means one day past the latest order, the
// convention of the source dataset. Returns InsufficientDataError below 2
// customers, where quantile cuts are undefined.
func Compute(records []orders.OrderRecord, analysisDate time.Time, quintiles int) (*Result, error) {
	if quintiles < 2 {
		return nil, &orders.InvalidParameterError{Param: "quintile_count", Value: float64(quintiles)}
	}

	profiles := orders.BuildProfiles(records)
	if len(profiles) < 2 {
		return nil, &orders.InsufficientDataError{Component: "rfm", Need: 2, Have: len(profiles)}
	}

	if analysisDate.IsZero() {
		for _, p := range profiles {
			if p.LastOrderDate.After(analysisDate) {
				analysisDate = p.LastOrderDate
			}
		}
		analysisDate = analysisDate.AddDate(0, 0, 1)
	}

	scores := make([]Score, len(profiles))
	for i, p := range profiles {
		scores[i] = Score{
			CustomerID:  p.CustomerID,
			RecencyDays: int(analysisDate.Sub(p.LastOrderDate).Hours() / 24),
			Frequency:   p.OrderCount,
			Monetary:    p.TotalMonetary,
		}
	}

	res := &Result{
		AnalysisDate: analysisDate,
		Quintiles:    quintiles,
		Partitions:   make(map[string]int, 3),
	}

	// Recency buckets are computed on ascending days-since-last-order, then
	// inverted so bucket 5 is the most recent customer.
	recBuckets, recParts := bucketize(scores, quintiles, func(s Score) float64 { return float64(s.RecencyDays) })
	freqBuckets, freqParts := bucketize(scores, quintiles, func(s Score) float64 { return float64(s.Frequency) })
	monBuckets, monParts := bucketize(scores, quintiles, func(s Score) float64 { return s.Monetary })

	res.Partitions["recency"] = recParts
	res.Partitions["frequency"] = freqParts
	res.Partitions["monetary"] = monParts

	for i := range scores {
		scores[i].RecencyScore = recParts + 1 - recBuckets[i]
		scores[i].FrequencyScore = freqBuckets[i]
		scores[i].MonetaryScore = monBuckets[i]
		scores[i].Code = fmt.Sprintf("%d%d%d", scores[i].RecencyScore, scores[i].FrequencyScore, scores[i].MonetaryScore)
		scores[i].Segment = segmentFor(scores[i], recParts, freqParts, monParts)
	}

	res.Scores = scores
	return res, nil
}

// bucketize assigns rank-based buckets 1..q over a metric. Customers are
// ranked ascending by value with a stable tie-break on customer ID (the input
// is already ID-sorted), and split into contiguous rank ranges whose sizes
// differ by at most one. When the metric has fewer distinct values than q the
// bucket count collapses to the distinct-value count.
func bucketize(scores []Score, q int, metric func(Score) float64) ([]int, int) {
	n := len(scores)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := metric(scores[order[a]]), metric(scores[order[b]])
		if va != vb {
			return va < vb
		}
		return scores[order[a]].CustomerID < scores[order[b]].CustomerID
	})

	distinct := 1
	for i := 1; i < n; i++ {
		if metric(scores[order[i]]) != metric(scores[order[i-1]]) {
			distinct++
		}
	}
	parts := q
	if distinct < parts {
		parts = distinct
	}

	buckets := make([]int, n)
	for rank, idx := range order {
		buckets[idx] = rank*parts/n + 1
	}
	return buckets, parts
}

// segmentFor applies the fixed rule table, with cut points scaled to the
// (possibly collapsed) partition counts: "high" is the top two buckets of a
// five-way split, "low" the bottom two, proportionally narrower otherwise.
func segmentFor(s Score, recParts, freqParts, monParts int) string {
	r := s.RecencyScore
	f := s.FrequencyScore
	m := s.MonetaryScore

	switch {
	case r >= highCut(recParts) && f >= highCut(freqParts) && m >= highCut(monParts):
		return SegmentChampions
	case r <= lowCut(recParts) && m >= highCut(monParts):
		return SegmentAtRisk
	case r <= lowCut(recParts) && f <= lowCut(freqParts) && m <= lowCut(monParts):
		return SegmentHibernating
	default:
		return SegmentRegular
	}
}

func highCut(parts int) int {
	cut := parts - 1
	if cut < 1 {
		cut = 1
	}
	return cut
}

func lowCut(parts int) int {
	cut := 2
	if cut >= parts {
		cut = parts - 1
	}
	if cut < 1 {
		cut = 1
	}
	return cut
}
