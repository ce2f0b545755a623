package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sgauthier/cpicast/timeseries"
)

// PortmanteauResult is the outcome of a residual autocorrelation test.
type PortmanteauResult struct {
	Test      string
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// Clean reports whether the test finds no significant autocorrelation at the
// given significance level.
func (r *PortmanteauResult) Clean(alpha float64) bool {
	return r.PValue > alpha
}

// LjungBox tests residuals for autocorrelation up to the given lag. fitdf is
// the number of parameters estimated by the model, subtracted from the
// chi-squared degrees of freedom. The null hypothesis is no autocorrelation.
func LjungBox(series *timeseries.Series, lags, fitdf int) (*PortmanteauResult, error) {
	acf, n, err := portmanteauACF("ljung-box", series, lags)
	if err != nil {
		return nil, err
	}
	if lags >= n {
		lags = n - 1
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	return portmanteauResult("ljung-box", q, lags, fitdf), nil
}

// BoxPierce is the simpler portmanteau statistic; Ljung-Box is preferred for
// the sample sizes seen here.
func BoxPierce(series *timeseries.Series, lags, fitdf int) (*PortmanteauResult, error) {
	acf, n, err := portmanteauACF("box-pierce", series, lags)
	if err != nil {
		return nil, err
	}
	if lags >= n {
		lags = n - 1
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k]
	}
	q *= float64(n)

	return portmanteauResult("box-pierce", q, lags, fitdf), nil
}

func portmanteauACF(test string, series *timeseries.Series, lags int) ([]float64, int, error) {
	n := series.Len()
	if n < 10 {
		return nil, 0, &TestError{Test: test, Reason: fmt.Sprintf("need at least 10 observations, have %d", n)}
	}
	if lags < 1 {
		return nil, 0, &TestError{Test: test, Reason: fmt.Sprintf("lags must be positive, got %d", lags)}
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil, 0, &TestError{Test: test, Reason: "series has zero variance"}
	}
	return acf, n, nil
}

func portmanteauResult(test string, q float64, lags, fitdf int) *PortmanteauResult {
	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}
	return &PortmanteauResult{
		Test:      test,
		Statistic: q,
		PValue:    1 - chi2.CDF(q),
		Lags:      lags,
		DOF:       dof,
	}
}
