package sarima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sgauthier/cpicast/stats"
	"github.com/sgauthier/cpicast/timeseries"
)

// Model is a fitted SARIMA model. It owns its Spec, the estimated
// coefficients, and the fit statistics, and is never mutated after Fit
// returns it.
type Model struct {
	Spec      Spec
	AR        []float64 // non-seasonal AR coefficients (phi)
	MA        []float64 // non-seasonal MA coefficients (theta)
	SAR       []float64 // seasonal AR coefficients
	SMA       []float64 // seasonal MA coefficients
	Intercept float64
	Variance  float64 // innovation variance
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64

	data       *timeseries.Series // undifferenced input series
	diffData   *timeseries.Series // after (D, SD) differencing
	residuals  []float64          // one-step innovations on the differenced scale
	fittedVals []float64
}

// Fit estimates a SARIMA model on the given series by conditional sum of
// squares. Differencing per the spec's (d, D) happens internally; pass the
// undifferenced series. A diverging optimization returns *ConvergenceError.
func Fit(series *timeseries.Series, spec Spec) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if n := series.Len(); n < spec.MinObservations() {
		return nil, fmt.Errorf("sarima: %s requires at least %d observations, have %d",
			spec, spec.MinObservations(), n)
	}

	m := &Model{
		Spec: spec,
		AR:   make([]float64, spec.P),
		MA:   make([]float64, spec.Q),
		SAR:  make([]float64, spec.SP),
		SMA:  make([]float64, spec.SQ),
		data: series,
	}

	diffed := series
	for i := 0; i < spec.D; i++ {
		diffed = diffed.Diff()
	}
	for i := 0; i < spec.SD; i++ {
		diffed = diffed.SeasonalDiff(spec.Period)
	}
	if diffed.Len() < spec.NumCoeffs()+10 {
		return nil, fmt.Errorf("sarima: %s leaves only %d observations after differencing", spec, diffed.Len())
	}
	m.diffData = diffed

	if err := m.estimate(); err != nil {
		return nil, err
	}
	m.informationCriteria()
	return m, nil
}

// estimate initializes coefficients from the autocorrelation structure and
// refines them by gradient descent on the conditional sum of squares.
func (m *Model) estimate() error {
	y := m.diffData.Values
	n := len(y)
	spec := m.Spec

	m.Intercept = m.diffData.Mean()

	if spec.P > 0 {
		if acf := stats.ACF(m.diffData, spec.P); acf != nil {
			for i := 0; i < spec.P && i+1 < len(acf); i++ {
				m.AR[i] = acf[i+1] * 0.5
			}
		}
	}
	if spec.SP > 0 {
		if acf := stats.ACF(m.diffData, spec.SP*spec.Period); acf != nil {
			for i := 0; i < spec.SP; i++ {
				if idx := (i + 1) * spec.Period; idx < len(acf) {
					m.SAR[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.MA {
		m.MA[i] = 0.1
	}
	for i := range m.SMA {
		m.SMA[i] = 0.1
	}

	if err := m.optimize(y); err != nil {
		return err
	}

	// Final residual pass with the selected coefficients.
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		pred := m.predictOne(y, m.residuals, t)
		m.fittedVals[t] = pred
		m.residuals[t] = y[t] - pred
	}

	start := m.burnIn(n)
	sse := 0.0
	count := 0
	for t := start; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	k := spec.NumCoeffs() + 1
	if count > k {
		m.Variance = sse / float64(count-k)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}

	if !(m.Variance > 0) || math.IsInf(m.Variance, 0) {
		return &ConvergenceError{Spec: spec, Reason: "innovation variance not positive"}
	}
	return nil
}

// predictOne computes the one-step prediction at index t given the history in
// y and the innovations computed so far.
func (m *Model) predictOne(y, residuals []float64, t int) float64 {
	spec := m.Spec
	pred := m.Intercept

	for i := 0; i < spec.P && t-i-1 >= 0; i++ {
		pred += m.AR[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < spec.SP; i++ {
		if lag := (i + 1) * spec.Period; t-lag >= 0 {
			pred += m.SAR[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < spec.Q && t-i-1 >= 0; i++ {
		pred += m.MA[i] * residuals[t-i-1]
	}
	for i := 0; i < spec.SQ; i++ {
		if lag := (i + 1) * spec.Period; t-lag >= 0 {
			pred += m.SMA[i] * residuals[t-lag]
		}
	}
	return pred
}

func (m *Model) burnIn(n int) int {
	spec := m.Spec
	start := spec.P
	if spec.Q > start {
		start = spec.Q
	}
	if s := spec.SP * spec.Period; s > start {
		start = s
	}
	if s := spec.SQ * spec.Period; s > start {
		start = s
	}
	if start >= n-10 {
		return 0
	}
	return start
}

// optimize refines coefficients with momentum gradient descent on the
// conditional sum of squares, tracking the best solution seen.
func (m *Model) optimize(y []float64) error {
	n := len(y)
	spec := m.Spec

	const (
		maxIter   = 200
		tolerance = 1e-8
		momentum  = 0.9
		decay     = 0.99
	)
	learningRate := 0.005

	arMom := make([]float64, spec.P)
	maMom := make([]float64, spec.Q)
	sarMom := make([]float64, spec.SP)
	smaMom := make([]float64, spec.SQ)

	start := m.burnIn(n)

	bestSSE := math.Inf(1)
	bestAR := make([]float64, spec.P)
	bestMA := make([]float64, spec.Q)
	bestSAR := make([]float64, spec.SP)
	bestSMA := make([]float64, spec.SQ)
	stale := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		sse := 0.0
		for t := start; t < n; t++ {
			residuals[t] = y[t] - m.predictOne(y, residuals, t)
			sse += residuals[t] * residuals[t]
		}
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return &ConvergenceError{Spec: spec, Reason: "sum of squares diverged"}
		}

		if sse < bestSSE {
			bestSSE = sse
			copy(bestAR, m.AR)
			copy(bestMA, m.MA)
			copy(bestSAR, m.SAR)
			copy(bestSMA, m.SMA)
			stale = 0
		} else {
			stale++
		}
		if stale > 20 {
			break
		}

		arGrad := make([]float64, spec.P)
		maGrad := make([]float64, spec.Q)
		sarGrad := make([]float64, spec.SP)
		smaGrad := make([]float64, spec.SQ)
		for t := start; t < n; t++ {
			for i := 0; i < spec.P && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < spec.SP; i++ {
				if lag := (i + 1) * spec.Period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < spec.Q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < spec.SQ; i++ {
				if lag := (i + 1) * spec.Period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		step := func(coeffs, grad, mom []float64) {
			for i := range coeffs {
				mom[i] = momentum*mom[i] + learningRate*grad[i]/float64(n)
				coeffs[i] = clamp(coeffs[i]-mom[i], -0.99, 0.99)
			}
		}
		step(m.AR, arGrad, arMom)
		step(m.SAR, sarGrad, sarMom)
		step(m.MA, maGrad, maMom)
		step(m.SMA, smaGrad, smaMom)

		learningRate *= decay

		if iter > 0 && math.Abs(sse-bestSSE) < tolerance {
			break
		}
	}

	copy(m.AR, bestAR)
	copy(m.MA, bestMA)
	copy(m.SAR, bestSAR)
	copy(m.SMA, bestSMA)
	return nil
}

// informationCriteria computes the Gaussian log-likelihood and the penalized
// criteria used for ranking.
func (m *Model) informationCriteria() {
	n := len(m.residuals)
	k := m.Spec.NumCoeffs() + 1 // coefficients plus intercept

	sse := floats.Dot(m.residuals, m.residuals)

	if m.Variance > 0 {
		m.LogLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	kf, nf := float64(k), float64(n)
	m.AIC = -2*m.LogLik + 2*kf
	if nf-kf-1 > 0 {
		m.AICc = m.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + kf*math.Log(nf)
}

// Residuals returns a copy of the one-step innovation residuals on the
// differenced scale.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// ResidualSeries returns the residuals with their time index. The index
// starts after the burn-in window consumed by differencing.
func (m *Model) ResidualSeries() *timeseries.Series {
	s := m.diffData.Copy()
	copy(s.Values, m.residuals)
	s.Name = "residuals"
	return s
}

// FittedValues returns a copy of the in-sample one-step predictions on the
// differenced scale.
func (m *Model) FittedValues() []float64 {
	out := make([]float64, len(m.fittedVals))
	copy(out, m.fittedVals)
	return out
}

// Data returns the undifferenced series the model was fit on.
func (m *Model) Data() *timeseries.Series {
	return m.data
}

// NObs returns the number of observations used after differencing.
func (m *Model) NObs() int {
	return len(m.residuals)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
