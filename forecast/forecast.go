package forecast

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sgauthier/cpicast/sarima"
	"github.com/sgauthier/cpicast/transform"
)

// Interval is one confidence level's band in original units.
type Interval struct {
	Level float64 // confidence level in percent, e.g. 80 or 95
	Lower []float64
	Upper []float64
}

// Result is an h-step forecast. Points and Intervals are on the original
// scale; FittedPoints and FittedSE keep the model-scale projection the
// intervals were derived from.
type Result struct {
	Months    []time.Time
	Points    []float64
	Intervals []Interval // ascending by level

	FittedPoints []float64
	FittedSE     []float64
}

// Interval returns the band for the given level, or nil.
func (r *Result) Interval(level float64) *Interval {
	for i := range r.Intervals {
		if r.Intervals[i].Level == level {
			return &r.Intervals[i]
		}
	}
	return nil
}

// Project forecasts horizon steps ahead at the given confidence levels
// (percent). prov must be the transform provenance of the exact series the
// model was fit on; its inversion maps the model-scale forecast back to
// original units.
func Project(model *sarima.Model, prov *transform.Result, horizon int, levels []float64) (*Result, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("forecast: horizon must be positive, got %d", horizon)
	}
	if len(levels) == 0 {
		levels = []float64{80, 95}
	}
	for _, l := range levels {
		if l <= 0 || l >= 100 {
			return nil, fmt.Errorf("forecast: confidence level %g%% outside (0, 100)", l)
		}
	}
	if prov.Series.Len() != model.Data().Len() {
		return nil, fmt.Errorf("forecast: provenance series has %d observations, model was fit on %d",
			prov.Series.Len(), model.Data().Len())
	}

	fc, err := model.Forecast(horizon)
	if err != nil {
		return nil, fmt.Errorf("forecast: %s: %w", model.Spec, err)
	}

	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	result := &Result{
		Months:       model.Data().FutureMonths(horizon),
		Points:       prov.InvertForecast(fc.Points),
		FittedPoints: fc.Points,
		FittedSE:     fc.SE,
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	for _, level := range sorted {
		z := normal.Quantile(0.5 + level/200)

		lower := make([]float64, horizon)
		upper := make([]float64, horizon)
		for t := 0; t < horizon; t++ {
			lower[t] = fc.Points[t] - z*fc.SE[t]
			upper[t] = fc.Points[t] + z*fc.SE[t]
		}

		result.Intervals = append(result.Intervals, Interval{
			Level: level,
			Lower: prov.InvertForecast(lower),
			Upper: prov.InvertForecast(upper),
		})
	}

	return result, nil
}
