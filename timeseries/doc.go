// Package timeseries provides the monthly series type shared by every stage
// of the analysis.
//
// A Series is an ordered sequence of (month, value) observations. The
// constructors enforce the cadence invariants the rest of the pipeline relies
// on: timestamps normalized to the first of the month in UTC, strictly
// increasing, one value per month.
//
// Load a series from the CPI input file:
//
//	series, err := timeseries.LoadCSV("cpi.csv", timeseries.DefaultCSVOptions())
//
// Or build one directly:
//
//	series := timeseries.NewMonthly(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), values)
package timeseries
