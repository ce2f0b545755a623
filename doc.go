// Package cpicast analyzes and forecasts the monthly French Consumer Price
// Index with seasonal ARIMA models.
//
// The pipeline mirrors a classical Box-Jenkins workflow: load a monthly
// series, stabilize the variance with a log transform, establish stationarity
// with differencing and unit-root tests, fit a fixed grid of SARIMA
// candidates, select the best by information criteria, validate residuals,
// and project forward with prediction intervals back-transformed to original
// CPI units.
//
// # Packages
//
//   - timeseries: monthly series type and CSV ingestion
//   - transform: provenance-tagged log/difference transforms and inversion
//   - stats: stationarity tests, autocorrelation, decomposition
//   - sarima: SARIMA estimation and forecasting
//   - search: grid search and criterion-based model selection
//   - diagnose: residual diagnostics for a selected model
//   - forecast: multi-level prediction intervals and report output
//   - plot: chart rendering for series, decompositions, and forecasts
//
// # Quick start
//
//	series, _ := timeseries.LoadCSV("cpi.csv", timeseries.DefaultCSVOptions())
//	logged, _ := transform.Log(series)
//	ranking, _ := search.Run(context.Background(), logged.Series, search.DefaultGrid(12), search.Options{})
//	best := ranking.Best()
//	horizons, _ := forecast.Project(best, logged, 36, []float64{80, 95})
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package cpicast
