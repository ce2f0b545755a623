package transform

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgauthier/cpicast/timeseries"
)

func monthly(values []float64) *timeseries.Series {
	start := time.Date(1998, time.January, 1, 0, 0, 0, 0, time.UTC)
	return timeseries.NewMonthly(start, values)
}

func TestLogRoundTrip(t *testing.T) {
	s := monthly([]float64{100, 100.5, 101.2, 100.9})

	r, err := Log(s)
	require.NoError(t, err)
	require.Len(t, r.Steps, 1)
	assert.Equal(t, KindLog, r.Steps[0].Kind)
	assert.InDelta(t, math.Log(100), r.Series.Values[0], 1e-12)

	back, err := r.Invert()
	require.NoError(t, err)
	require.Equal(t, s.Len(), back.Len())
	for i := range s.Values {
		assert.InDelta(t, s.Values[i], back.Values[i], 1e-9)
	}
}

func TestLogDomainError(t *testing.T) {
	s := monthly([]float64{100, 0, 101})

	_, err := Log(s)
	require.Error(t, err)

	var derr *DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, KindLog, derr.Step)
	assert.Equal(t, 1, derr.Index)
	assert.Equal(t, 0.0, derr.Value)
}

func TestDiffShortensAndInverts(t *testing.T) {
	s := monthly([]float64{10, 12, 15, 14, 18})

	r := From(s).Diff()
	require.Equal(t, s.Len()-1, r.Series.Len())
	assert.Equal(t, []float64{2, 3, -1, 4}, r.Series.Values)

	back, err := r.Invert()
	require.NoError(t, err)
	assert.Equal(t, s.Values, back.Values)
}

func TestSeasonalDiffInverts(t *testing.T) {
	values := make([]float64, 36)
	for i := range values {
		values[i] = 100 + float64(i)*0.5 + 5*math.Sin(2*math.Pi*float64(i%12)/12)
	}
	s := monthly(values)

	r := From(s).SeasonalDiff(12)
	require.Equal(t, s.Len()-12, r.Series.Len())

	back, err := r.Invert()
	require.NoError(t, err)
	for i := range s.Values {
		assert.InDelta(t, s.Values[i], back.Values[i], 1e-9)
	}
}

func TestFullChainRoundTrip(t *testing.T) {
	values := make([]float64, 48)
	for i := range values {
		values[i] = 100 * math.Exp(0.002*float64(i)+0.01*math.Sin(2*math.Pi*float64(i%12)/12))
	}
	s := monthly(values)

	r, err := Log(s)
	require.NoError(t, err)
	r = r.Diff().SeasonalDiff(12)

	require.Equal(t, s.Len()-13, r.Series.Len())
	require.Len(t, r.Steps, 3)
	assert.Equal(t, []Step{{KindLog, 0}, {KindDiff, 1}, {KindSeasonalDiff, 12}}, r.Steps)

	back, err := r.Invert()
	require.NoError(t, err)
	require.Equal(t, s.Len(), back.Len())
	for i := range s.Values {
		assert.InDelta(t, s.Values[i], back.Values[i], 1e-9)
	}
}

func TestChainIsImmutable(t *testing.T) {
	s := monthly([]float64{1, 2, 3, 4, 5, 6})
	base := From(s)

	d1 := base.Diff()
	d2 := base.Diff().Diff()

	assert.Empty(t, base.Steps)
	assert.Len(t, d1.Steps, 1)
	assert.Len(t, d2.Steps, 2)
	assert.Same(t, s, d2.Original)
}

func TestInvertForecastDiff(t *testing.T) {
	s := monthly([]float64{10, 12, 15, 14})
	r := From(s).Diff()

	// Forecast increments of +1 each month continue from the last level 14.
	got := r.InvertForecast([]float64{1, 1, 1})
	assert.Equal(t, []float64{15, 16, 17}, got)
}

func TestInvertForecastSeasonalDiff(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(10 + i%12)
	}
	s := monthly(values)
	r := From(s).SeasonalDiff(12)

	// Zero seasonal increments reproduce the last observed year.
	got := r.InvertForecast(make([]float64, 15))
	require.Len(t, got, 15)
	for j := range got {
		assert.InDelta(t, values[12+j%12], got[j], 1e-12, "month %d", j)
	}
}

func TestInvertForecastLogChain(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	s := monthly(values)

	r, err := Log(s)
	require.NoError(t, err)
	rd := r.Diff()

	// A zero log-difference forecast means "no change": the original scale
	// projection stays at the last observed value.
	got := rd.InvertForecast([]float64{0, 0, 0})
	for _, v := range got {
		assert.InDelta(t, 129, v, 1e-9)
	}

	// Monotonicity of exp: larger transformed values map to larger originals.
	lo := rd.InvertForecast([]float64{-0.01})
	hi := rd.InvertForecast([]float64{0.01})
	assert.Less(t, lo[0], got[0])
	assert.Greater(t, hi[0], got[0])
}

func TestInvertLengthMismatch(t *testing.T) {
	s := monthly([]float64{1, 2, 3, 4, 5, 6})
	r := From(s).Diff()

	truncated := &Result{
		Series:   r.Series.Slice(0, 2),
		Steps:    r.Steps,
		Original: r.Original,
	}
	_, err := truncated.Invert()
	assert.Error(t, err)
}
