// Package stats provides the statistical tests and exploratory tools used to
// establish stationarity and validate model residuals.
//
// Unit-root and stationarity testing:
//
//   - ADF: Augmented Dickey-Fuller (null: unit root)
//   - KPSS: Kwiatkowski-Phillips-Schmidt-Shin (null: stationary)
//   - PhillipsPerron: Phillips-Perron (null: unit root)
//
// ADF and KPSS have complementary nulls; a series is treated as stationary
// with confidence when ADF rejects and KPSS fails to reject.
//
// Residual autocorrelation is tested with LjungBox or BoxPierce against a
// chi-squared reference with degrees of freedom adjusted for the number of
// fitted parameters.
//
// Tests that cannot run return a *TestError naming the test and the reason,
// so the caller can decide whether to proceed on an unconfirmed series.
package stats
