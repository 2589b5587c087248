package orders

import (
	"sort"
	"time"
)

// OrderRecord is one validated line item. Records are immutable once
// normalized; every analytics component receives the same snapshot.
type OrderRecord struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	OrderDate   time.Time `json:"order_date"`
	Region      string    `json:"region"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category"`
	Sales       float64   `json:"sales"`
	Discount    float64   `json:"discount"`
	Profit      float64   `json:"profit"`
	Quantity    int       `json:"quantity"`
}

// CustomerProfile aggregates a customer's order history for scoring.
// Recomputed fully on each pipeline run.
type CustomerProfile struct {
	CustomerID    string    `json:"customer_id"`
	LastOrderDate time.Time `json:"last_order_date"`
	OrderCount    int       `json:"order_count"`
	TotalMonetary float64   `json:"total_monetary"`
}

// BuildProfiles folds line items into per-customer profiles, ordered by
// customer ID so downstream rank-based scoring is stable.
func BuildProfiles(records []OrderRecord) []CustomerProfile {
	byID := make(map[string]*CustomerProfile)
	for _, r := range records {
		p, ok := byID[r.CustomerID]
		if !ok {
			p = &CustomerProfile{CustomerID: r.CustomerID}
			byID[r.CustomerID] = p
		}
		if r.OrderDate.After(p.LastOrderDate) {
			p.LastOrderDate = r.OrderDate
		}
		p.OrderCount++
		p.TotalMonetary += r.Sales
	}

	out := make([]CustomerProfile, 0, len(byID))
	for _, p := range byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}
