// Package transform applies invertible transforms to a monthly series.
//
// Each transform is pure: it returns a new Result holding the derived series
// together with the provenance (step kind, lag) needed to undo it. Differenced
// series are shorter than their input; the leading observations consumed by a
// lag are dropped rather than padded.
//
// A typical stationarization chain:
//
//	logged, err := transform.Log(series)
//	stationary := logged.Diff().SeasonalDiff(12)
//
// Invert reconstructs the original values from a derived series, and
// InvertForecast maps model-scale forecasts back to the original scale using
// the same provenance.
package transform
