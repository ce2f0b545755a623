package sarima

import (
	"fmt"
	"math"
)

// Forecast holds an h-step projection on the scale of the series the model
// was fit on (undifferenced). SE[t] is the forecast-error standard deviation
// at horizon t+1; it is non-decreasing in t by construction.
type Forecast struct {
	Points []float64
	SE     []float64
}

// Forecast projects the fitted model h steps ahead. Future innovations enter
// the recursion at their expectation of zero; the differencing applied during
// fitting is undone so the points are on the input scale.
func (m *Model) Forecast(h int) (*Forecast, error) {
	if h < 1 {
		return nil, fmt.Errorf("sarima: forecast horizon must be positive, got %d", h)
	}

	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+h)
	copy(extY, y)
	extRes := make([]float64, n+h)
	copy(extRes, m.residuals)

	for step := 0; step < h; step++ {
		t := n + step
		pred := m.Intercept
		for i := 0; i < m.Spec.P && t-i-1 >= 0; i++ {
			pred += m.AR[i] * (extY[t-i-1] - m.Intercept)
		}
		for i := 0; i < m.Spec.SP; i++ {
			if lag := (i + 1) * m.Spec.Period; t-lag >= 0 {
				pred += m.SAR[i] * (extY[t-lag] - m.Intercept)
			}
		}
		// MA terms use observed innovations only; future ones are zero.
		for i := 0; i < m.Spec.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MA[i] * extRes[t-i-1]
		}
		for i := 0; i < m.Spec.SQ; i++ {
			if lag := (i + 1) * m.Spec.Period; t-lag >= 0 && t-lag < n {
				pred += m.SMA[i] * extRes[t-lag]
			}
		}
		extY[t] = pred
	}

	points := m.integrate(extY[n:])

	return &Forecast{
		Points: points,
		SE:     m.forecastSE(h),
	}, nil
}

// forecastSE returns the forecast-error standard deviations from the
// psi-weight (MA-infinity) expansion of the fully integrated process:
// var(h) = sigma^2 * sum_{j<h} psi_j^2. Each term is non-negative, so the
// variance, and with it the interval width, cannot shrink as h grows.
func (m *Model) forecastSE(h int) []float64 {
	psi := m.psiWeights(h)
	se := make([]float64, h)
	cum := 0.0
	for t := 0; t < h; t++ {
		cum += psi[t] * psi[t]
		se[t] = math.Sqrt(m.Variance * cum)
	}
	return se
}

// psiWeights expands the model, differencing included, into its MA-infinity
// representation and returns psi_0..psi_{h-1}.
func (m *Model) psiWeights(h int) []float64 {
	spec := m.Spec

	// AR-side polynomial: phi(B) * PHI(B^s) * (1-B)^d * (1-B^s)^D.
	arPoly := []float64{1}
	nonSeasonalAR := make([]float64, spec.P+1)
	nonSeasonalAR[0] = 1
	for i, c := range m.AR {
		nonSeasonalAR[i+1] = -c
	}
	arPoly = polyMul(arPoly, nonSeasonalAR)

	if spec.SP > 0 {
		seasonalAR := make([]float64, spec.SP*spec.Period+1)
		seasonalAR[0] = 1
		for i, c := range m.SAR {
			seasonalAR[(i+1)*spec.Period] = -c
		}
		arPoly = polyMul(arPoly, seasonalAR)
	}
	for i := 0; i < spec.D; i++ {
		arPoly = polyMul(arPoly, []float64{1, -1})
	}
	if spec.SD > 0 {
		sdPoly := make([]float64, spec.Period+1)
		sdPoly[0] = 1
		sdPoly[spec.Period] = -1
		for i := 0; i < spec.SD; i++ {
			arPoly = polyMul(arPoly, sdPoly)
		}
	}

	// MA-side polynomial: theta(B) * THETA(B^s).
	maPoly := make([]float64, spec.Q+1)
	maPoly[0] = 1
	copy(maPoly[1:], m.MA)
	if spec.SQ > 0 {
		seasonalMA := make([]float64, spec.SQ*spec.Period+1)
		seasonalMA[0] = 1
		for i, c := range m.SMA {
			seasonalMA[(i+1)*spec.Period] = c
		}
		maPoly = polyMul(maPoly, seasonalMA)
	}

	psi := make([]float64, h)
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := 0.0
		if j < len(maPoly) {
			v = maPoly[j]
		}
		for i := 1; i <= j && i < len(arPoly); i++ {
			v -= arPoly[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// integrate undoes the differencing applied during fitting. Fitting differences
// non-seasonally first, then seasonally, so integration proceeds in reverse:
// undo seasonal differencing against the non-seasonally differenced history,
// then cumulative-sum from the tail of the original series.
func (m *Model) integrate(forecasts []float64) []float64 {
	spec := m.Spec
	original := m.data.Values
	n := len(original)

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	nonSeasonal := original
	for i := 0; i < spec.D; i++ {
		if len(nonSeasonal) <= 1 {
			break
		}
		next := make([]float64, len(nonSeasonal)-1)
		for j := 1; j < len(nonSeasonal); j++ {
			next[j-1] = nonSeasonal[j] - nonSeasonal[j-1]
		}
		nonSeasonal = next
	}

	if spec.SD > 0 && spec.Period > 0 {
		nDiff := len(nonSeasonal)
		for i := 0; i < spec.SD; i++ {
			for j := range result {
				if j < spec.Period {
					if idx := nDiff - spec.Period + j; idx >= 0 && idx < nDiff {
						result[j] += nonSeasonal[idx]
					}
				} else {
					result[j] += result[j-spec.Period]
				}
			}
		}
	}

	for i := 0; i < spec.D; i++ {
		last := original[n-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}
