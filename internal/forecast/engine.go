// Package forecast resamples transaction-level sales into a gap-free periodic
// series and projects a short horizon with additive Holt-Winters smoothing.
// When history is too short to estimate seasonal components the engine falls
// back to a trailing moving average and labels the result accordingly.
package forecast

import (
	"time"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

// Granularity selects the resampling period.
type Granularity string

const (
	Monthly   Granularity = "month"
	Quarterly Granularity = "quarter"
)

// Forecasting methods reported on the result.
const (
	MethodHoltWinters = "holt-winters"
	MethodFallback    = "fallback"
)

// Point is one period of the combined historical+projected series.
type Point struct {
	PeriodStart   time.Time   `json:"period_start"`
	Granularity   Granularity `json:"period_granularity"`
	ObservedSales *float64    `json:"observed_sales,omitempty"`
	ForecastSales *float64    `json:"forecast_sales,omitempty"`
	IsProjected   bool        `json:"is_projected"`
}

// Result is the full series plus the method that produced the projection.
type Result struct {
	Method         string      `json:"method"`
	Granularity    Granularity `json:"granularity"`
	SeasonalPeriod int         `json:"seasonal_period"`
	Horizon        int         `json:"horizon"`
	Points         []Point     `json:"points"`
}

// Options configure a forecasting run. Zero values take the defaults: monthly
// granularity, seasonal period 12 (4 for quarterly), horizon 3, and the fixed
// smoothing parameters below.
type Options struct {
	Granularity    Granularity
	SeasonalPeriod int
	Horizon        int
	Alpha          float64 // level smoothing
	Beta           float64 // trend smoothing
	Gamma          float64 // seasonal smoothing
}

// Fixed default smoothing parameters. They are deliberately not estimated
// from the data: runs must be reproducible from input alone.
const (
	defaultAlpha = 0.35
	defaultBeta  = 0.10
	defaultGamma = 0.20
)

func (o *Options) fillDefaults() {
	if o.Granularity == "" {
		o.Granularity = Monthly
	}
	if o.SeasonalPeriod <= 0 {
		if o.Granularity == Quarterly {
			o.SeasonalPeriod = 4
		} else {
			o.SeasonalPeriod = 12
		}
	}
	if o.Horizon <= 0 {
		o.Horizon = 3
	}
	if o.Alpha <= 0 {
		o.Alpha = defaultAlpha
	}
	if o.Beta <= 0 {
		o.Beta = defaultBeta
	}
	if o.Gamma <= 0 {
		o.Gamma = defaultGamma
	}
}

// truncate floors a date to the start of its period.
func truncate(d time.Time, g Granularity) time.Time {
	if g == Quarterly {
		q := (int(d.Month()) - 1) / 3
		return time.Date(d.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func next(d time.Time, g Granularity) time.Time {
	if g == Quarterly {
		return d.AddDate(0, 3, 0)
	}
	return d.AddDate(0, 1, 0)
}

// Resample sums sales into fixed periods from the earliest to the latest
// order date. Periods with no transactions are kept at 0, never dropped, so
// the series is gap-free as seasonal decomposition requires.
func Resample(records []orders.OrderRecord, g Granularity) []Point {
	if len(records) == 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	var first, last time.Time
	for i, r := range records {
		p := truncate(r.OrderDate, g)
		sums[p] += r.Sales
		if i == 0 || p.Before(first) {
			first = p
		}
		if i == 0 || p.After(last) {
			last = p
		}
	}

	var out []Point
	for p := first; !p.After(last); p = next(p, g) {
		v := sums[p]
		out = append(out, Point{
			PeriodStart:   p,
			Granularity:   g,
			ObservedSales: &v,
		})
	}
	return out
}

// Forecast builds the periodic series and appends a projected horizon. The
// primary path requires at least two full seasonal cycles of history; with
// less, the result is the 3-period trailing moving average, flagged
// Method=MethodFallback, and an InsufficientHistoryError is returned
// alongside the usable result so callers can log the degradation. All
// projected values are clamped to zero from below.
func Forecast(records []orders.OrderRecord, opts Options) (*Result, error) {
	opts.fillDefaults()

	history := Resample(records, opts.Granularity)
	res := &Result{
		Method:         MethodHoltWinters,
		Granularity:    opts.Granularity,
		SeasonalPeriod: opts.SeasonalPeriod,
		Horizon:        opts.Horizon,
		Points:         history,
	}
	if len(history) == 0 {
		res.Method = MethodFallback
		return res, &orders.InsufficientHistoryError{Need: 2 * opts.SeasonalPeriod, Have: 0}
	}

	series := make([]float64, len(history))
	for i, p := range history {
		series[i] = *p.ObservedSales
	}

	var projected []float64
	var histErr error
	if len(series) < 2*opts.SeasonalPeriod {
		res.Method = MethodFallback
		projected = movingAverageForecast(series, opts.Horizon)
		histErr = &orders.InsufficientHistoryError{Need: 2 * opts.SeasonalPeriod, Have: len(series)}
	} else {
		projected = holtWinters(series, opts)
	}

	period := history[len(history)-1].PeriodStart
	for _, v := range projected {
		period = next(period, opts.Granularity)
		if v < 0 {
			v = 0
		}
		f := v
		res.Points = append(res.Points, Point{
			PeriodStart:   period,
			Granularity:   opts.Granularity,
			ForecastSales: &f,
			IsProjected:   true,
		})
	}
	return res, histErr
}

// holtWinters runs additive triple exponential smoothing over the series and
// returns opts.Horizon point forecasts. Initialization follows the classical
// scheme: level is the first season's mean, trend is the per-period change
// between the first two seasonal means, and initial seasonal components are
// the first season's deviations from its mean.
func holtWinters(series []float64, opts Options) []float64 {
	m := opts.SeasonalPeriod

	var s1, s2 float64
	for i := 0; i < m; i++ {
		s1 += series[i]
		s2 += series[m+i]
	}
	s1 /= float64(m)
	s2 /= float64(m)

	level := s1
	trend := (s2 - s1) / float64(m)

	seasonal := make([]float64, m)
	for i := 0; i < m; i++ {
		seasonal[i] = series[i] - s1
	}

	for t := 0; t < len(series); t++ {
		x := series[t]
		si := t % m
		prevLevel := level
		level = opts.Alpha*(x-seasonal[si]) + (1-opts.Alpha)*(level+trend)
		trend = opts.Beta*(level-prevLevel) + (1-opts.Beta)*trend
		seasonal[si] = opts.Gamma*(x-level) + (1-opts.Gamma)*seasonal[si]
	}

	out := make([]float64, opts.Horizon)
	for h := 1; h <= opts.Horizon; h++ {
		si := (len(series) + h - 1) % m
		out[h-1] = level + float64(h)*trend + seasonal[si]
	}
	return out
}

// movingAverageForecast extends the series with the trailing mean of its last
// three observations (fewer when the series is shorter), held flat across the
// horizon. This is the standard inventory-planning baseline.
func movingAverageForecast(series []float64, horizon int) []float64 {
	window := 3
	if len(series) < window {
		window = len(series)
	}
	var sum float64
	for _, v := range series[len(series)-window:] {
		sum += v
	}
	ma := sum / float64(window)

	out := make([]float64, horizon)
	for i := range out {
		out[i] = ma
	}
	return out
}
