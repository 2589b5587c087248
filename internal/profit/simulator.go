package profit

import (
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

// Defaults for the elasticity model. Both are illustrative business-side
// constants, not fitted values; they are configuration, never re-estimated.
const (
	DefaultDiscountCap = 0.20
	DefaultElasticity  = 0.5
)

// Scenario is the outcome of one discount-cap simulation over a record set.
// Volume figures cover affected records only; records already at or below the
// cap contribute unchanged to profit and are excluded from the volume model.
type Scenario struct {
	SegmentKey        string  `json:"segment_key"`
	DiscountCap       float64 `json:"capped_discount"`
	Elasticity        float64 `json:"elasticity_coefficient"`
	BaselineProfit    float64 `json:"baseline_profit"`
	BaselineVolume    float64 `json:"baseline_volume"`
	AffectedOrders    int     `json:"affected_orders"`
	AvgAffectedDisc   float64 `json:"avg_affected_discount"`
	DiscountReduction float64 `json:"discount_reduction_fraction"`
	ProjectedVolume   float64 `json:"projected_volume"`
	ProjectedProfit   float64 `json:"projected_profit"`
	NetImpact         float64 `json:"net_impact"`
	RevenueRisk       float64 `json:"revenue_risk"`
}

// Simulate applies the linear elasticity model to a record set under a
// proposed discount cap. The calculation is closed-form and record-local:
// for each record whose discount exceeds the cap, the discount reduction
// fraction is (discount-cap)/discount, volume scales by
// max(0, 1 - elasticity*reduction), the capped discount is reapplied to the
// record's list revenue, and unit cost scales with volume. Records at or
// below the cap pass through untouched in both price and volume.
func Simulate(segmentKey string, records []orders.OrderRecord, discountCap, elasticity float64) (*Scenario, error) {
	if discountCap < 0 || discountCap > 1 {
		return nil, &orders.InvalidParameterError{Param: "discount_cap", Value: discountCap}
	}
	if elasticity < 0 {
		return nil, &orders.InvalidParameterError{Param: "elasticity_coefficient", Value: elasticity}
	}

	sc := &Scenario{
		SegmentKey:  segmentKey,
		DiscountCap: discountCap,
		Elasticity:  elasticity,
	}

	var (
		projectedSales float64
		baselineSales  float64
		affectedDisc   float64
		affectedVolume float64
		projVolume     float64
	)

	for _, r := range records {
		sc.BaselineProfit += r.Profit
		baselineSales += r.Sales

		if r.Discount <= discountCap {
			sc.ProjectedProfit += r.Profit
			projectedSales += r.Sales
			continue
		}

		sc.AffectedOrders++
		affectedDisc += r.Discount
		affectedVolume += float64(r.Quantity)

		reduction := (r.Discount - discountCap) / r.Discount
		volFactor := 1 - elasticity*reduction
		if volFactor < 0 {
			volFactor = 0
		}

		// List revenue before discount. A discount of exactly 1 gives zero
		// recorded sales and an unrecoverable list price; such a record keeps
		// zero revenue and only its cost scales with volume.
		var listRevenue float64
		if r.Discount < 1 {
			listRevenue = r.Sales / (1 - r.Discount)
		}

		newSales := listRevenue * (1 - discountCap) * volFactor
		cost := r.Sales - r.Profit
		newCost := cost * volFactor

		sc.ProjectedProfit += newSales - newCost
		projectedSales += newSales
		projVolume += float64(r.Quantity) * volFactor
	}

	sc.BaselineVolume = affectedVolume
	sc.ProjectedVolume = projVolume
	if sc.AffectedOrders > 0 {
		sc.AvgAffectedDisc = affectedDisc / float64(sc.AffectedOrders)
		sc.DiscountReduction = (sc.AvgAffectedDisc - discountCap) / sc.AvgAffectedDisc
		if sc.DiscountReduction < 0 {
			sc.DiscountReduction = 0
		}
	}
	sc.NetImpact = sc.ProjectedProfit - sc.BaselineProfit
	sc.RevenueRisk = baselineSales - projectedSales

	return sc, nil
}

// SimulateSegments runs the simulator once over the whole population and once
// per flagged money pit, so the caller gets both the overall number and the
// per-segment breakdown.
func SimulateSegments(records []orders.OrderRecord, segments []Segment, discountCap, elasticity float64) ([]Scenario, error) {
	overall, err := Simulate("all", records, discountCap, elasticity)
	if err != nil {
		return nil, err
	}
	out := []Scenario{*overall}

	indexed := make(map[string][]orders.OrderRecord)
	for _, r := range records {
		k := r.Region + "/" + r.SubCategory
		indexed[k] = append(indexed[k], r)
	}

	for _, seg := range MoneyPits(segments) {
		sc, err := Simulate(seg.Key(), indexed[seg.Key()], discountCap, elasticity)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, nil
}
