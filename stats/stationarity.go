package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sgauthier/cpicast/timeseries"
)

// TestError reports a statistical test that could not be computed, naming the
// test and the reason so the caller can decide whether to proceed.
type TestError struct {
	Test   string
	Reason string
}

func (e *TestError) Error() string {
	return fmt.Sprintf("stats: %s test: %s", e.Test, e.Reason)
}

// ADFResult is the outcome of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64
	IsStationary bool
}

// ADF runs the Augmented Dickey-Fuller unit-root test with a constant term.
// The null hypothesis is a unit root; p < 0.05 rejects it in favor of
// stationarity. A maxLag of zero selects floor((n-1)^(1/3)). Strongly periodic
// series can make the lagged difference columns collinear; the test drops
// lags until the regression is well-posed and reports the lag count it used.
func ADF(series *timeseries.Series, maxLag int) (*ADFResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, &TestError{Test: "adf", Reason: fmt.Sprintf("need at least 10 observations, have %d", n)}
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Cbrt(float64(n - 1))))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()

	var lastErr error
	for lags := maxLag; lags >= 0; lags-- {
		result, err := adfAtLag(series, diff, lags)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, &TestError{Test: "adf", Reason: lastErr.Error()}
}

// adfAtLag runs the Dickey-Fuller regression with a fixed number of lagged
// difference terms: delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i
// delta_y_{t-i}). The unit-root null is beta = 0.
func adfAtLag(series, diff *timeseries.Series, lags int) (*ADFResult, error) {
	n := series.Len()
	nObs := n - lags - 1
	if nObs < 10 {
		return nil, fmt.Errorf("only %d usable observations after %d lags", nObs, lags)
	}

	k := 2 + lags
	y := mat.NewVecDense(nObs, nil)
	x := mat.NewDense(nObs, k, nil)
	for i := 0; i < nObs; i++ {
		t := i + lags
		y.SetVec(i, diff.Values[t])
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= lags; j++ {
			x.Set(i, 1+j, diff.Values[t-j])
		}
	}

	coeffs, se, err := ols(x, y)
	if err != nil {
		return nil, err
	}

	tStat := coeffs[1] / se[1]
	if math.IsNaN(tStat) || math.IsInf(tStat, 0) {
		return nil, fmt.Errorf("degenerate t-statistic with %d lags", lags)
	}
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic: tStat,
		PValue:    pValue,
		Lags:      lags,
		NObs:      nObs,
		CriticalVals: map[string]float64{
			"1%":  -3.43,
			"5%":  -2.86,
			"10%": -2.57,
		},
		IsStationary: pValue < 0.05,
	}, nil
}

// KPSSResult is the outcome of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// KPSS runs the Kwiatkowski-Phillips-Schmidt-Shin stationarity test. The null
// hypothesis is stationarity; p < 0.05 rejects it. Regression "c" tests level
// stationarity, "ct" trend stationarity. A nlags of zero selects
// ceil(12*(n/100)^0.25).
func KPSS(series *timeseries.Series, regression string, nlags int) (*KPSSResult, error) {
	if regression != "c" && regression != "ct" {
		return nil, &TestError{Test: "kpss", Reason: fmt.Sprintf("unknown regression %q (want %q or %q)", regression, "c", "ct")}
	}
	n := series.Len()
	if n < 10 {
		return nil, &TestError{Test: "kpss", Reason: fmt.Sprintf("need at least 10 observations, have %d", n)}
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	residuals := make([]float64, n)
	if regression == "ct" {
		// Linear detrend.
		ts := make([]float64, n)
		for i := range ts {
			ts[i] = float64(i)
		}
		b, a := stat.LinearRegression(ts, series.Values, nil, false)
		for i, v := range series.Values {
			residuals[i] = v - b - a*float64(i)
		}
	} else {
		mean := stat.Mean(series.Values, nil)
		for i, v := range series.Values {
			residuals[i] = v - mean
		}
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Newey-West long-run variance with Bartlett weights.
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		w := 1 - float64(l)/float64(nlags+1)
		s2 += 2 * w * cov
	}
	if s2 <= 0 {
		return nil, &TestError{Test: "kpss", Reason: "long-run variance estimate not positive"}
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	statistic := etaSq / (float64(n) * float64(n) * s2)

	var critical map[string]float64
	if regression == "ct" {
		critical = map[string]float64{"10%": 0.119, "5%": 0.146, "1%": 0.216}
	} else {
		critical = map[string]float64{"10%": 0.347, "5%": 0.463, "1%": 0.739}
	}

	pValue := kpssPValue(statistic, regression)

	return &KPSSResult{
		Statistic:    statistic,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: critical,
		IsStationary: pValue >= 0.05,
	}, nil
}

// PhillipsPerronResult is the outcome of a Phillips-Perron test.
type PhillipsPerronResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// PhillipsPerron runs the Phillips-Perron unit-root test, which corrects the
// Dickey-Fuller statistic for serial correlation nonparametrically.
func PhillipsPerron(series *timeseries.Series, nlags int) (*PhillipsPerronResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, &TestError{Test: "phillips-perron", Reason: fmt.Sprintf("need at least 10 observations, have %d", n)}
	}

	if nlags <= 0 {
		nlags = int(math.Floor(4 * math.Pow(float64(n)/100, 0.25)))
	}

	diff := series.Diff()
	nObs := n - 1

	y := mat.NewVecDense(nObs, diff.Values)
	x := mat.NewDense(nObs, 2, nil)
	for i := 0; i < nObs; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[i])
	}

	coeffs, se, err := ols(x, y)
	if err != nil {
		return nil, &TestError{Test: "phillips-perron", Reason: err.Error()}
	}

	residuals := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		residuals[i] = diff.Values[i] - coeffs[0] - coeffs[1]*series.Values[i]
	}

	gamma0 := 0.0
	for _, r := range residuals {
		gamma0 += r * r
	}
	gamma0 /= float64(nObs)

	lambda2 := gamma0
	for l := 1; l <= nlags; l++ {
		g := 0.0
		for i := l; i < nObs; i++ {
			g += residuals[i] * residuals[i-l]
		}
		g /= float64(nObs)
		w := 1 - float64(l)/float64(nlags+1)
		lambda2 += 2 * w * g
	}
	if lambda2 <= 0 {
		return nil, &TestError{Test: "phillips-perron", Reason: "long-run variance estimate not positive"}
	}

	xCol := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		xCol[i] = x.At(i, 1)
	}
	xMean := stat.Mean(xCol, nil)
	sumXDev2 := 0.0
	for _, v := range xCol {
		d := v - xMean
		sumXDev2 += d * d
	}

	tStat := coeffs[1] / se[1]
	correction := (lambda2 - gamma0) * math.Sqrt(float64(nObs)) / (2 * math.Sqrt(lambda2) * math.Sqrt(sumXDev2))
	ppStat := math.Sqrt(gamma0/lambda2)*tStat - correction

	pValue := mackinnonPValue(ppStat)

	return &PhillipsPerronResult{
		Statistic: ppStat,
		PValue:    pValue,
		Lags:      nlags,
		CriticalVals: map[string]float64{
			"1%":  -3.43,
			"5%":  -2.86,
			"10%": -2.57,
		},
		IsStationary: pValue < 0.05,
	}, nil
}

// ols solves y = X*beta by QR decomposition and returns the coefficients with
// their standard errors.
func ols(x *mat.Dense, y *mat.VecDense) (coeffs, stdErrors []float64, err error) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, fmt.Errorf("ols: %d observations for %d regressors", n, k)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return nil, nil, fmt.Errorf("ols: solve: %w", err)
	}

	coeffs = make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.At(i, 0)
	}

	yMean := 0.0
	for i := 0; i < n; i++ {
		yMean += y.AtVec(i)
	}
	yMean /= float64(n)

	sse, tss := 0.0, 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += coeffs[j] * x.At(i, j)
		}
		r := y.AtVec(i) - pred
		sse += r * r
		d := y.AtVec(i) - yMean
		tss += d * d
	}
	// An exact fit leaves roundoff-level residuals; the resulting standard
	// errors carry no information and the t-statistics are meaningless.
	if sse <= 1e-12*tss {
		return nil, nil, fmt.Errorf("ols: residual variance indistinguishable from zero")
	}
	s2 := sse / float64(n-k)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, fmt.Errorf("ols: singular design matrix: %w", err)
	}

	stdErrors = make([]float64, k)
	for i := 0; i < k; i++ {
		v := s2 * inv.At(i, i)
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("ols: degenerate standard error for regressor %d", i)
		}
		stdErrors[i] = math.Sqrt(v)
	}
	return coeffs, stdErrors, nil
}

// mackinnonPValue approximates the ADF/PP p-value for the constant-only
// regression, after MacKinnon (1994).
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue interpolates the KPSS p-value from tabulated critical values.
func kpssPValue(stat float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case stat > 0.216:
			return 0.01
		case stat > 0.146:
			return 0.05
		case stat > 0.119:
			return 0.10
		default:
			return 0.10 + (0.119-stat)*2
		}
	}

	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
