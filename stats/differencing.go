package stats

import (
	"github.com/sgauthier/cpicast/timeseries"
)

// NDiffs suggests the number of first differences required for stationarity,
// testing with KPSS by default ("adf" selects the Dickey-Fuller test).
// Returns a value in [0, maxD].
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := series
	for d := 0; d < maxD; d++ {
		stationary := false
		if testType == "adf" {
			if res, err := ADF(current, 0); err == nil && res.IsStationary {
				stationary = true
			}
		} else {
			if res, err := KPSS(current, "c", 0); err == nil && res.IsStationary {
				stationary = true
			}
		}
		if stationary {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}
	return maxD
}

// NSDiffs suggests the number of seasonal differences required, using the
// seasonal strength measure (a strength of 0.64 or more suggests one seasonal
// difference). Returns a value in [0, maxD].
func NSDiffs(series *timeseries.Series, period, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if SeasonalStrength(current, period) < 0.64 {
			return d
		}
		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d + 1
		}
	}
	return maxD
}
