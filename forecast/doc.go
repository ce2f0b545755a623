// Package forecast projects a selected model forward and reports prediction
// intervals in original CPI units.
//
// Intervals are computed on the model's fitted scale from its forecast-error
// standard errors, where their width is non-decreasing in the horizon, then
// mapped back through the transform provenance the fitted series was derived
// with. For the log scale that mapping is exponentiation, which is monotonic,
// so lower and upper bounds remain valid bounds after the back-transform.
//
//	result, err := forecast.Project(best, logged, 36, []float64{80, 95})
//	err = result.WriteCSV(os.Stdout)
package forecast
