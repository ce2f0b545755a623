// Package sarima estimates seasonal ARIMA models.
//
// A Spec is the immutable order tuple (p,d,q)(P,D,Q)[s]. Fit applies the
// non-seasonal and seasonal differencing the spec calls for, estimates the
// AR/MA coefficients by conditional sum of squares, and reports the Gaussian
// log-likelihood with AIC, AICc, and BIC:
//
//	model, err := sarima.Fit(series, sarima.Spec{P: 1, D: 1, Q: 1, SP: 0, SD: 1, SQ: 1, Period: 12})
//
// Forecast projects the fitted model forward. Point forecasts follow the
// usual recursion with future innovations at zero; forecast-error standard
// errors come from the psi-weight expansion of the fully integrated process,
// so interval widths never shrink as the horizon grows.
//
// A fit that diverges returns a *ConvergenceError carrying the offending
// spec; callers running a grid record it and move on.
package sarima
