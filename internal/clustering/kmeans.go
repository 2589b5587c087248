// Package clustering partitions customers into behavioral groups over their
// standardized (Sales, Profit, Discount) aggregates. The algorithm is plain
// Lloyd's k-means with kmeans++ seeding from a caller-supplied seed, so a
// fixed seed and input always reproduce the same assignment.
package clustering

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

const featureCount = 3 // sales, profit, discount

// Assignment is one customer's cluster membership with its standardized
// feature vector.
type Assignment struct {
	CustomerID string     `json:"customer_id"`
	ClusterID  int        `json:"cluster_id"`
	Features   [3]float64 `json:"feature_vector"` // standardized sales, profit, discount
}

// Result holds the full partition. Converged is false when the iteration cap
// was reached before assignments stabilized; the last assignment is still
// returned and the caller decides whether to accept it.
type Result struct {
	K           int          `json:"k"`
	Seed        int64        `json:"seed"`
	Iterations  int          `json:"iterations"`
	Converged   bool         `json:"converged"`
	Assignments []Assignment `json:"assignments"`
	Centroids   [][3]float64 `json:"centroids"` // standardized space
}

// customerFeatures aggregates records to customer level: total sales, total
// profit, mean discount.
func customerFeatures(records []orders.OrderRecord) ([]string, [][featureCount]float64) {
	type agg struct {
		sales, profit, discount float64
		n                       int
	}
	byID := make(map[string]*agg)
	for _, r := range records {
		a, ok := byID[r.CustomerID]
		if !ok {
			a = &agg{}
			byID[r.CustomerID] = a
		}
		a.sales += r.Sales
		a.profit += r.Profit
		a.discount += r.Discount
		a.n++
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	feats := make([][featureCount]float64, len(ids))
	for i, id := range ids {
		a := byID[id]
		feats[i] = [featureCount]float64{a.sales, a.profit, a.discount / float64(a.n)}
	}
	return ids, feats
}

// standardize centers each feature to zero mean and unit variance using
// population statistics. A feature with zero variance across the population
// standardizes to 0 for every customer.
func standardize(feats [][featureCount]float64) {
	n := float64(len(feats))
	if n == 0 {
		return
	}
	for f := 0; f < featureCount; f++ {
		var sum float64
		for i := range feats {
			sum += feats[i][f]
		}
		mean := sum / n

		var sq float64
		for i := range feats {
			d := feats[i][f] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / n)

		for i := range feats {
			if std == 0 {
				feats[i][f] = 0
			} else {
				feats[i][f] = (feats[i][f] - mean) / std
			}
		}
	}
}

// Options control a clustering run.
type Options struct {
	K       int   // cluster count, default 4
	Seed    int64 // rng seed for reproducible centroid seeding
	MaxIter int   // Lloyd iteration cap, default 300
}

// Cluster partitions the customer population into k behavioral groups.
// Returns InsufficientDataError when there are no customers. When the
// population is smaller than k, k collapses to the population size so every
// customer is its own cluster.
func Cluster(records []orders.OrderRecord, opts Options) (*Result, error) {
	if opts.K <= 0 {
		opts.K = 4
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 300
	}

	ids, feats := customerFeatures(records)
	if len(ids) == 0 {
		return nil, &orders.InsufficientDataError{Component: "clustering", Need: 1, Have: 0}
	}

	k := opts.K
	if k > len(ids) {
		k = len(ids)
	}

	standardize(feats)

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := seedCentroids(feats, k, rng)

	assign := make([]int, len(feats))
	converged := false
	iterations := 0

	for it := 1; it <= opts.MaxIter; it++ {
		iterations = it
		changed := false
		for i, p := range feats {
			best := nearest(p, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}

		recomputeCentroids(feats, assign, centroids)

		if !changed && it > 1 {
			converged = true
			break
		}
	}

	assignments := make([]Assignment, len(ids))
	for i, id := range ids {
		assignments[i] = Assignment{CustomerID: id, ClusterID: assign[i], Features: feats[i]}
	}

	return &Result{
		K:           k,
		Seed:        opts.Seed,
		Iterations:  iterations,
		Converged:   converged,
		Assignments: assignments,
		Centroids:   centroids,
	}, nil
}

// seedCentroids implements kmeans++ seeding: the first centroid is a random
// point, each next one is sampled with probability proportional to squared
// distance from the nearest chosen centroid.
func seedCentroids(feats [][featureCount]float64, k int, rng *rand.Rand) [][featureCount]float64 {
	centroids := make([][featureCount]float64, 0, k)
	centroids = append(centroids, feats[rng.Intn(len(feats))])

	dists := make([]float64, len(feats))
	for len(centroids) < k {
		var total float64
		for i, p := range feats {
			d := sqDist(p, centroids[nearest(p, centroids)])
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; pick uniformly.
			centroids = append(centroids, feats[rng.Intn(len(feats))])
			continue
		}
		target := rng.Float64() * total
		var cum float64
		pick := len(feats) - 1
		for i, d := range dists {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, feats[pick])
	}
	return centroids
}

func recomputeCentroids(feats [][featureCount]float64, assign []int, centroids [][featureCount]float64) {
	counts := make([]int, len(centroids))
	sums := make([][featureCount]float64, len(centroids))
	for i, p := range feats {
		c := assign[i]
		counts[c]++
		for f := 0; f < featureCount; f++ {
			sums[c][f] += p[f]
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue // empty cluster keeps its previous centroid
		}
		for f := 0; f < featureCount; f++ {
			centroids[c][f] = sums[c][f] / float64(counts[c])
		}
	}
}

// nearest returns the index of the closest centroid; equal distances resolve
// to the lowest index so assignment is deterministic.
func nearest(p [featureCount]float64, centroids [][featureCount]float64) int {
	best := 0
	bestD := math.Inf(1)
	for c, ct := range centroids {
		if d := sqDist(p, ct); d < bestD {
			bestD = d
			best = c
		}
	}
	return best
}

func sqDist(a, b [featureCount]float64) float64 {
	var s float64
	for f := 0; f < featureCount; f++ {
		d := a[f] - b[f]
		s += d * d
	}
	return s
}
