// Package diagnose validates the residuals of a selected SARIMA model.
//
// The central check is the Ljung-Box portmanteau test over a configurable
// number of lags (24 by default for monthly data), with degrees of freedom
// adjusted for the number of estimated parameters. A model passes when the
// p-value exceeds the significance level, meaning no significant residual
// autocorrelation remains.
//
// The distributional summary (mean, skewness, kurtosis, Jarque-Bera,
// Durbin-Watson) is informational; it is reported for inspection, not gated.
package diagnose
