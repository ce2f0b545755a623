package diagnose

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sgauthier/cpicast/sarima"
	"github.com/sgauthier/cpicast/stats"
)

// Options configures residual diagnostics. The zero value tests 24 lags with
// Ljung-Box at a 0.05 significance level.
type Options struct {
	Lags        int     // portmanteau lags; default 24
	Alpha       float64 // significance level; default 0.05
	Portmanteau string  // "ljung-box" (default) or "box-pierce"
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Lags <= 0 {
		out.Lags = 24
	}
	if out.Alpha <= 0 || out.Alpha >= 1 {
		out.Alpha = 0.05
	}
	if out.Portmanteau == "" {
		out.Portmanteau = "ljung-box"
	}
	return out
}

// Report summarizes the residual checks for a fitted model.
type Report struct {
	Spec        sarima.Spec
	N           int
	Portmanteau *stats.PortmanteauResult
	Alpha       float64
	Clean       bool // no significant residual autocorrelation at Alpha

	// Distributional summary, informational only.
	Mean         float64
	Std          float64
	Skewness     float64
	Kurtosis     float64 // excess kurtosis
	JarqueBera   float64
	JBPValue     float64
	DurbinWatson float64
}

// Residuals runs the residual diagnostics for a fitted model.
func Residuals(model *sarima.Model, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	resid := model.ResidualSeries()
	n := resid.Len()
	if n < 3 {
		return nil, fmt.Errorf("diagnose: %s: only %d residuals", model.Spec, n)
	}

	fitdf := model.Spec.NumCoeffs()
	var (
		pm  *stats.PortmanteauResult
		err error
	)
	if opts.Portmanteau == "box-pierce" {
		pm, err = stats.BoxPierce(resid, opts.Lags, fitdf)
	} else {
		pm, err = stats.LjungBox(resid, opts.Lags, fitdf)
	}
	if err != nil {
		return nil, fmt.Errorf("diagnose: %s: %w", model.Spec, err)
	}

	values := resid.Values
	mean := stat.Mean(values, nil)
	std := stat.StdDev(values, nil)
	skew := stat.Skew(values, nil)
	exKurt := stat.ExKurtosis(values, nil)

	// Jarque-Bera: n/6 * (S^2 + K^2/4), chi-squared with 2 dof under normality.
	jb := float64(n) / 6 * (skew*skew + exKurt*exKurt/4)
	jbP := 1 - distuv.ChiSquared{K: 2}.CDF(jb)

	return &Report{
		Spec:         model.Spec,
		N:            n,
		Portmanteau:  pm,
		Alpha:        opts.Alpha,
		Clean:        pm.Clean(opts.Alpha),
		Mean:         mean,
		Std:          std,
		Skewness:     skew,
		Kurtosis:     exKurt,
		JarqueBera:   jb,
		JBPValue:     jbP,
		DurbinWatson: durbinWatson(values),
	}, nil
}

// durbinWatson measures first-order residual autocorrelation; values near 2
// indicate none.
func durbinWatson(residuals []float64) float64 {
	num, den := 0.0, 0.0
	for i := 1; i < len(residuals); i++ {
		d := residuals[i] - residuals[i-1]
		num += d * d
	}
	for _, r := range residuals {
		den += r * r
	}
	if den == 0 {
		return 0
	}
	return num / den
}
