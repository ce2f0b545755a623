package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/sgauthier/cpicast/timeseries"
	"github.com/sgauthier/cpicast/transform"
)

// ar1 builds a deterministic AR(1)-like series with modular pseudo-noise.
func ar1(n int, phi float64) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}
	return values
}

func TestACF(t *testing.T) {
	series := timeseries.New(ar1(100, 0.8))
	acf := ACF(series, 10)

	if len(acf) != 11 {
		t.Fatalf("expected 11 ACF values, got %d", len(acf))
	}
	if math.Abs(acf[0]-1.0) > 1e-10 {
		t.Errorf("ACF at lag 0 should be 1, got %f", acf[0])
	}
	if acf[1] < 0.3 {
		t.Errorf("ACF at lag 1 seems low for AR(1) with phi=0.8: %f", acf[1])
	}
}

func TestPACF(t *testing.T) {
	series := timeseries.New(ar1(100, 0.7))
	pacf := PACF(series, 10)

	if len(pacf) != 11 {
		t.Fatalf("expected 11 PACF values, got %d", len(pacf))
	}
	if math.Abs(pacf[0]-1.0) > 1e-10 {
		t.Errorf("PACF at lag 0 should be 1, got %f", pacf[0])
	}
	// For AR(1) only lag 1 should carry real signal.
	if math.Abs(pacf[1]) < 0.3 {
		t.Errorf("PACF at lag 1 seems low for AR(1) with phi=0.7: %f", pacf[1])
	}
}

func TestConfidenceBound(t *testing.T) {
	expected := 1.96 / math.Sqrt(100)
	if got := ConfidenceBound(100); math.Abs(got-expected) > 0.01 {
		t.Errorf("expected confidence bound ~%f, got %f", expected, got)
	}
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.3, 0.1, 0.05, -0.2, -0.5}
	significant := SignificantLags(values, 0.15)

	expected := []int{1, 2, 5, 6}
	if len(significant) != len(expected) {
		t.Fatalf("expected %d significant lags, got %d", len(expected), len(significant))
	}
	for i, lag := range expected {
		if significant[i] != lag {
			t.Errorf("significant lag %d: expected %d, got %d", i, lag, significant[i])
		}
	}
}

func TestADF(t *testing.T) {
	n := 200

	// Oscillating around a constant level. Two incommensurate frequencies
	// keep the lagged-difference regressors linearly independent.
	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = 100 + math.Sin(float64(i)/2)*5 + math.Sin(float64(i)*1.3) + float64(i%5-2)
	}
	result, err := ADF(timeseries.New(stationary), 0)
	if err != nil {
		t.Fatalf("ADF on stationary data: %v", err)
	}
	t.Logf("ADF stationary: statistic=%f p=%f stationary=%v",
		result.Statistic, result.PValue, result.IsStationary)
	if !result.IsStationary {
		t.Errorf("ADF failed to reject unit root on level-stationary data (p=%f)", result.PValue)
	}

	// Trending data: the constant-only regression cannot reject the unit root.
	trending := make([]float64, n)
	for i := range trending {
		trending[i] = float64(i)*0.5 + 0.3*math.Sin(float64(i)*2.7) + 0.2*math.Cos(float64(i)*1.3)
	}
	result2, err := ADF(timeseries.New(trending), 0)
	if err != nil {
		t.Fatalf("ADF on trending data: %v", err)
	}
	t.Logf("ADF trending: statistic=%f p=%f stationary=%v",
		result2.Statistic, result2.PValue, result2.IsStationary)
	if result2.IsStationary {
		t.Errorf("ADF rejected unit root on trending data (p=%f)", result2.PValue)
	}
}

func TestADFCollinearLags(t *testing.T) {
	// A single-frequency sinusoid around a trend: any three or more of its
	// lagged differences are linearly dependent, so the default lag order
	// produces a singular design matrix. The test must still run by
	// dropping lags rather than erroring out.
	n := 200
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)*0.5 + 0.3*math.Sin(float64(i)*2.7)
	}

	result, err := ADF(timeseries.New(values), 0)
	if err != nil {
		t.Fatalf("ADF on collinear-lag data: %v", err)
	}
	t.Logf("ADF collinear: statistic=%f p=%f lags=%d", result.Statistic, result.PValue, result.Lags)
	if result.Lags >= 3 {
		t.Errorf("expected fewer than 3 lags after dropping collinear columns, got %d", result.Lags)
	}
	if result.IsStationary {
		t.Errorf("ADF rejected unit root on trending data (p=%f)", result.PValue)
	}
}

func TestADFTooShort(t *testing.T) {
	_, err := ADF(timeseries.New([]float64{1, 2, 3}), 0)
	if err == nil {
		t.Fatal("expected an error for a 3-point series")
	}
	var terr *TestError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TestError, got %T", err)
	}
}

func TestKPSS(t *testing.T) {
	n := 200

	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = math.Sin(float64(i)/2) + float64(i%5-2)/5
	}
	result, err := KPSS(timeseries.New(stationary), "c", 0)
	if err != nil {
		t.Fatalf("KPSS on stationary data: %v", err)
	}
	t.Logf("KPSS stationary: statistic=%f p=%f stationary=%v",
		result.Statistic, result.PValue, result.IsStationary)
	if !result.IsStationary {
		t.Errorf("KPSS rejected stationarity on level-stationary data (p=%f)", result.PValue)
	}

	trending := make([]float64, n)
	for i := range trending {
		trending[i] = float64(i)*0.5 + 0.3*math.Sin(float64(i)*2.7) + 0.2*math.Cos(float64(i)*1.3)
	}
	result2, err := KPSS(timeseries.New(trending), "c", 0)
	if err != nil {
		t.Fatalf("KPSS on trending data: %v", err)
	}
	t.Logf("KPSS trending: statistic=%f p=%f stationary=%v",
		result2.Statistic, result2.PValue, result2.IsStationary)
	if result2.IsStationary {
		t.Errorf("KPSS accepted level stationarity on a pure trend (p=%f)", result2.PValue)
	}

	// The same trend is stationary around a trend line.
	result3, err := KPSS(timeseries.New(trending), "ct", 0)
	if err != nil {
		t.Fatalf("KPSS ct on trending data: %v", err)
	}
	if !result3.IsStationary {
		t.Errorf("KPSS ct rejected trend stationarity on a pure trend (p=%f)", result3.PValue)
	}
}

func TestKPSSUnknownRegression(t *testing.T) {
	if _, err := KPSS(timeseries.New(ar1(50, 0.5)), "quadratic", 0); err == nil {
		t.Fatal("expected an error for an unknown regression kind")
	}
}

func TestPhillipsPerron(t *testing.T) {
	n := 200
	stationary := make([]float64, n)
	for i := range stationary {
		stationary[i] = math.Sin(float64(i)/2) + float64(i%5-2)/5
	}

	result, err := PhillipsPerron(timeseries.New(stationary), 0)
	if err != nil {
		t.Fatalf("PhillipsPerron: %v", err)
	}
	t.Logf("PP: statistic=%f p=%f stationary=%v",
		result.Statistic, result.PValue, result.IsStationary)
	if !result.IsStationary {
		t.Errorf("PP failed to reject a unit root on stationary data (p=%f)", result.PValue)
	}
}

func TestLjungBox(t *testing.T) {
	n := 200

	// White-noise-like series: no autocorrelation to find.
	noise := make([]float64, n)
	for i := range noise {
		noise[i] = math.Sin(float64(i)*2.7) + math.Cos(float64(i)*1.3)/2
	}
	result, err := LjungBox(timeseries.New(noise), 10, 0)
	if err != nil {
		t.Fatalf("LjungBox on noise: %v", err)
	}
	t.Logf("Ljung-Box noise: Q=%f p=%f dof=%d", result.Statistic, result.PValue, result.DOF)
	if result.DOF != 10 {
		t.Errorf("expected 10 degrees of freedom, got %d", result.DOF)
	}

	// Strongly autocorrelated series must fail decisively.
	auto := timeseries.New(ar1(n, 0.9))
	result2, err := LjungBox(auto, 10, 0)
	if err != nil {
		t.Fatalf("LjungBox on AR(1): %v", err)
	}
	t.Logf("Ljung-Box AR(1): Q=%f p=%f", result2.Statistic, result2.PValue)
	if result2.Clean(0.05) {
		t.Errorf("Ljung-Box missed strong autocorrelation (p=%f)", result2.PValue)
	}
	if result2.Statistic <= result.Statistic {
		t.Errorf("Q for AR(1) (%f) should exceed Q for noise (%f)",
			result2.Statistic, result.Statistic)
	}
}

func TestLjungBoxFitDF(t *testing.T) {
	series := timeseries.New(ar1(100, 0.5))

	full, err := LjungBox(series, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	reduced, err := LjungBox(series, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	if reduced.DOF != full.DOF-3 {
		t.Errorf("fitdf=3 should reduce DOF by 3: %d vs %d", reduced.DOF, full.DOF)
	}
	if reduced.Statistic != full.Statistic {
		t.Errorf("fitdf must not change the statistic: %f vs %f",
			reduced.Statistic, full.Statistic)
	}
}

func TestLjungBoxClampsLags(t *testing.T) {
	result, err := LjungBox(timeseries.New(ar1(12, 0.5)), 20, 0)
	if err != nil {
		t.Fatalf("LjungBox: %v", err)
	}
	if result.Lags != 11 {
		t.Errorf("lags should clamp to n-1 = 11, got %d", result.Lags)
	}
}

func TestLjungBoxTooShort(t *testing.T) {
	if _, err := LjungBox(timeseries.New(ar1(5, 0.5)), 3, 0); err == nil {
		t.Fatal("expected an error for a 5-point series")
	}
}

func TestBoxPierce(t *testing.T) {
	series := timeseries.New(ar1(100, 0.9))

	lb, err := LjungBox(series, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	bp, err := BoxPierce(series, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("Box-Pierce: Q=%f p=%f dof=%d", bp.Statistic, bp.PValue, bp.DOF)

	// Ljung-Box upweights higher lags, so its Q dominates Box-Pierce's.
	if bp.Statistic >= lb.Statistic {
		t.Errorf("Box-Pierce Q (%f) should be below Ljung-Box Q (%f)",
			bp.Statistic, lb.Statistic)
	}
}

func TestTransformedIndexIsStationary(t *testing.T) {
	// A 60-month index with a linear trend and a period-12 seasonal pattern:
	// after log, first difference, and seasonal difference, ADF must reject
	// the unit root and KPSS must fail to reject stationarity.
	n := 60
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = math.Exp(4.6 + 0.004*float64(i) +
			0.03*math.Sin(2*math.Pi*float64(i%12)/12) +
			0.005*math.Sin(float64(i)*2.7) + 0.003*math.Sin(float64(i)*1.3))
	}

	r, err := transform.Log(timeseries.New(values))
	if err != nil {
		t.Fatalf("log transform: %v", err)
	}
	transformed := r.Diff().SeasonalDiff(12).Series
	if transformed.Len() != n-13 {
		t.Fatalf("expected %d observations after differencing, got %d", n-13, transformed.Len())
	}

	adf, err := ADF(transformed, 0)
	if err != nil {
		t.Fatalf("ADF: %v", err)
	}
	kpss, err := KPSS(transformed, "c", 0)
	if err != nil {
		t.Fatalf("KPSS: %v", err)
	}

	t.Logf("ADF p=%f KPSS p=%f", adf.PValue, kpss.PValue)
	if !adf.IsStationary {
		t.Errorf("ADF failed to reject the unit root after transforms (p=%f)", adf.PValue)
	}
	if !kpss.IsStationary {
		t.Errorf("KPSS rejected stationarity after transforms (p=%f)", kpss.PValue)
	}
}

func TestDecompose(t *testing.T) {
	n := 120
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		trend := float64(i) * 0.5
		seasonal := 10 * math.Sin(2*math.Pi*float64(i%period)/float64(period))
		values[i] = trend + seasonal + float64(i%5-2)/5
	}

	series := timeseries.New(values)
	result, err := Decompose(series, period, "additive")
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	if result.Trend.Len() != n || result.Seasonal.Len() != n || result.Residual.Len() != n {
		t.Fatalf("component length mismatch: trend=%d seasonal=%d residual=%d want %d",
			result.Trend.Len(), result.Seasonal.Len(), result.Residual.Len(), n)
	}

	// Components must reconstruct the original away from the NaN edges.
	for i := period; i < n-period; i++ {
		reconstructed := result.Trend.Values[i] + result.Seasonal.Values[i] + result.Residual.Values[i]
		if math.IsNaN(reconstructed) {
			continue
		}
		if math.Abs(reconstructed-values[i]) > 1e-8 {
			t.Errorf("reconstruction error at %d: original=%f reconstructed=%f",
				i, values[i], reconstructed)
		}
	}

	// The seasonal component repeats every period.
	for i := 2 * period; i < n-period; i++ {
		if math.Abs(result.Seasonal.Values[i]-result.Seasonal.Values[i-period]) > 1e-8 {
			t.Errorf("seasonal component not periodic at %d", i)
		}
	}
}

func TestDecomposeMultiplicative(t *testing.T) {
	n := 120
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		trend := 100 + float64(i)*0.5
		seasonal := 1 + 0.1*math.Sin(2*math.Pi*float64(i%period)/float64(period))
		values[i] = trend * seasonal
	}

	result, err := Decompose(timeseries.New(values), period, "multiplicative")
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	for i := period; i < n-period; i++ {
		reconstructed := result.Trend.Values[i] * result.Seasonal.Values[i] * result.Residual.Values[i]
		if math.IsNaN(reconstructed) {
			continue
		}
		if math.Abs(reconstructed-values[i]) > 1e-6 {
			t.Errorf("reconstruction error at %d: original=%f reconstructed=%f",
				i, values[i], reconstructed)
		}
	}
}

func TestSeasonalStrength(t *testing.T) {
	n := 120
	period := 12

	seasonal := make([]float64, n)
	for i := range seasonal {
		seasonal[i] = 10*math.Sin(2*math.Pi*float64(i%period)/float64(period)) + float64(i%5-2)/5
	}
	strong := SeasonalStrength(timeseries.New(seasonal), period)

	flat := make([]float64, n)
	for i := range flat {
		flat[i] = math.Sin(float64(i)*2.7) * 0.5
	}
	weak := SeasonalStrength(timeseries.New(flat), period)

	t.Logf("seasonal strength: strong=%f weak=%f", strong, weak)
	if strong <= weak {
		t.Errorf("strength of seasonal series (%f) should exceed noise (%f)", strong, weak)
	}
	if strong < 0.64 {
		t.Errorf("strongly seasonal series should cross the 0.64 threshold, got %f", strong)
	}
}
