package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sgauthier/cpicast/timeseries"
)

// ACF returns the autocorrelation function for lags 0..maxLag.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(series.Values, nil)
	ss := 0.0
	for _, v := range series.Values {
		d := v - mean
		ss += d * d
	}
	if ss == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series.Values[i] - mean) * (series.Values[i-k] - mean)
		}
		acf[k] = sum / ss
	}
	return acf
}

// PACF returns the partial autocorrelation function for lags 0..maxLag using
// the Durbin-Levinson recursion.
func PACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(series, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}
		if den == 0 {
			continue
		}
		phi[k][k] = num / den
		pacf[k] = phi[k][k]
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}

	return pacf
}

// ConfidenceBound returns the +-1.96/sqrt(n) white-noise band for correlograms.
func ConfidenceBound(n int) float64 {
	if n <= 0 {
		return math.NaN()
	}
	return 1.96 / math.Sqrt(float64(n))
}

// SignificantLags returns the lags (excluding 0) whose correlation exceeds the
// confidence bound in absolute value.
func SignificantLags(values []float64, bound float64) []int {
	var out []int
	for i := 1; i < len(values); i++ {
		if math.Abs(values[i]) > bound {
			out = append(out, i)
		}
	}
	return out
}
