package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sgauthier/cpicast/timeseries"
)

// Decomposition splits a series into trend, seasonal, and residual components.
// Entries where the centered moving average is undefined are NaN.
type Decomposition struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string // "additive" or "multiplicative"
}

// Decompose performs classical seasonal decomposition with a centered moving
// average trend. Type "additive" models Y = T + S + R, "multiplicative"
// Y = T * S * R.
func Decompose(series *timeseries.Series, period int, decompositionType string) (*Decomposition, error) {
	n := series.Len()
	if period < 2 {
		return nil, &TestError{Test: "decompose", Reason: fmt.Sprintf("period must be at least 2, got %d", period)}
	}
	if n < 2*period {
		return nil, &TestError{Test: "decompose", Reason: fmt.Sprintf("need at least %d observations, have %d", 2*period, n)}
	}
	if decompositionType != "multiplicative" {
		decompositionType = "additive"
	}

	trend := centeredMA(series.Values, period)
	multiplicative := decompositionType == "multiplicative"

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case multiplicative && trend[i] != 0:
			detrended[i] = series.Values[i] / trend[i]
		case multiplicative:
			detrended[i] = math.NaN()
		default:
			detrended[i] = series.Values[i] - trend[i]
		}
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) {
			pattern[i%period] += v
			counts[i%period]++
		}
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	// Center the seasonal pattern so it averages to zero (or one).
	mean := floats.Sum(pattern) / float64(period)
	for i := range pattern {
		if multiplicative {
			pattern[i] /= mean
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case multiplicative && trend[i] != 0 && seasonal[i] != 0:
			residual[i] = series.Values[i] / (trend[i] * seasonal[i])
		case multiplicative:
			residual[i] = math.NaN()
		default:
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}
	}

	component := func(name string, values []float64) *timeseries.Series {
		return &timeseries.Series{Timestamps: series.Timestamps, Values: values, Name: name}
	}

	return &Decomposition{
		Original: series,
		Trend:    component("trend", trend),
		Seasonal: component("seasonal", seasonal),
		Residual: component("residual", residual),
		Period:   period,
		Type:     decompositionType,
	}, nil
}

// centeredMA computes a centered moving average of the given period, with a
// 2xMA for even periods. Edges where the window does not fit are NaN.
func centeredMA(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 0 {
		for i := half; i < n-half; i++ {
			sum := values[i-half]*0.5 + values[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	}
	return trend
}

// SeasonalStrength measures how much of the detrended variation the seasonal
// component explains, on [0, 1]. Values of 0.64 and above suggest seasonal
// differencing.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	dec, err := Decompose(series, period, "additive")
	if err != nil {
		return 0
	}

	var varR, varSR float64
	var count int
	for i := range dec.Residual.Values {
		r := dec.Residual.Values[i]
		if math.IsNaN(r) {
			continue
		}
		s := dec.Seasonal.Values[i]
		varR += r * r
		varSR += (s + r) * (s + r)
		count++
	}
	if count == 0 || varSR == 0 {
		return 0
	}
	strength := 1 - varR/varSR
	if strength < 0 {
		return 0
	}
	return strength
}
