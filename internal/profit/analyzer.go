// Package profit diagnoses structurally unprofitable (region, sub-category)
// combinations and simulates the profit impact of capping discounts on them.
package profit

import (
	"sort"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

// DefaultDiscountThreshold flags a group as a money pit when its average
// discount meets or exceeds it while total profit is negative.
const DefaultDiscountThreshold = 0.30

// Segment is the aggregate for one (region, sub-category) combination.
type Segment struct {
	Region      string  `json:"region"`
	SubCategory string  `json:"sub_category"`
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
	AvgDiscount float64 `json:"avg_discount"`
	OrderCount  int     `json:"order_count"`
	IsMoneyPit  bool    `json:"is_money_pit"`
}

// Key identifies the segment in downstream scenario tables.
func (s Segment) Key() string { return s.Region + "/" + s.SubCategory }

// Analyze groups records by (region, sub-category) and flags money pits.
// Loss-making groups come first, biggest absolute loss first; profitable
// groups follow by descending profit. Ties break ascending on region, then
// sub-category, so the table is fully deterministic.
func Analyze(records []orders.OrderRecord, discountThreshold float64) []Segment {
	type agg struct {
		sales, profit, discount float64
		n                       int
	}
	type key struct{ region, sub string }

	groups := make(map[key]*agg)
	for _, r := range records {
		k := key{r.Region, r.SubCategory}
		a, ok := groups[k]
		if !ok {
			a = &agg{}
			groups[k] = a
		}
		a.sales += r.Sales
		a.profit += r.Profit
		a.discount += r.Discount
		a.n++
	}

	out := make([]Segment, 0, len(groups))
	for k, a := range groups {
		avgDiscount := a.discount / float64(a.n)
		out = append(out, Segment{
			Region:      k.region,
			SubCategory: k.sub,
			TotalSales:  a.sales,
			TotalProfit: a.profit,
			AvgDiscount: avgDiscount,
			OrderCount:  a.n,
			IsMoneyPit:  avgDiscount >= discountThreshold && a.profit < 0,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i], out[j]
		li, lj := si.TotalProfit < 0, sj.TotalProfit < 0
		if li != lj {
			return li
		}
		if si.TotalProfit != sj.TotalProfit {
			if li {
				return si.TotalProfit < sj.TotalProfit // deepest loss first
			}
			return si.TotalProfit > sj.TotalProfit // biggest winner first
		}
		if si.Region != sj.Region {
			return si.Region < sj.Region
		}
		return si.SubCategory < sj.SubCategory
	})
	return out
}

// MoneyPits filters the analyzed table down to flagged groups.
func MoneyPits(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.IsMoneyPit {
			out = append(out, s)
		}
	}
	return out
}
