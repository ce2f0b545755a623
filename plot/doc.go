// Package plot renders the analysis charts: the raw series, a seasonal
// decomposition panel, and a forecast fan chart with confidence bands.
//
// It only consumes Series and forecast values; nothing in the pipeline
// depends on it.
package plot
