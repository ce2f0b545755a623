package forecast

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgauthier/cpicast/sarima"
	"github.com/sgauthier/cpicast/timeseries"
	"github.com/sgauthier/cpicast/transform"
)

// fitLogModel builds an index-like series, logs it, and fits a seasonal model
// on the log scale, mirroring the production pipeline.
func fitLogModel(t *testing.T) (*sarima.Model, *transform.Result) {
	t.Helper()

	values := make([]float64, 120)
	for i := range values {
		values[i] = math.Exp(4.6 + 0.003*float64(i) +
			0.02*math.Sin(2*math.Pi*float64(i%12)/12) +
			float64(i%7-3)/500)
	}
	start := time.Date(1998, time.January, 1, 0, 0, 0, 0, time.UTC)
	series := timeseries.NewMonthly(start, values)

	prov, err := transform.Log(series)
	require.NoError(t, err)

	m, err := sarima.Fit(prov.Series, sarima.Spec{P: 1, D: 1, Q: 1, SD: 1, SQ: 1, Period: 12})
	require.NoError(t, err)
	return m, prov
}

func TestProject(t *testing.T) {
	m, prov := fitLogModel(t)

	result, err := Project(m, prov, 36, []float64{80, 95})
	require.NoError(t, err)

	require.Len(t, result.Months, 36)
	require.Len(t, result.Points, 36)
	require.Len(t, result.Intervals, 2)
	assert.Equal(t, 80.0, result.Intervals[0].Level)
	assert.Equal(t, 95.0, result.Intervals[1].Level)

	// Months continue the history without a gap.
	wantFirst := time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantFirst, result.Months[0])
	for i := 1; i < len(result.Months); i++ {
		assert.Equal(t, result.Months[i-1].AddDate(0, 1, 0), result.Months[i])
	}

	band80, band95 := result.Interval(80), result.Interval(95)
	require.NotNil(t, band80)
	require.NotNil(t, band95)
	for i := range result.Points {
		p := result.Points[i]
		assert.Greater(t, p, 0.0, "index values stay positive")
		assert.Less(t, band80.Lower[i], p, "t=%d", i)
		assert.Greater(t, band80.Upper[i], p, "t=%d", i)
		// The wider level contains the narrower one.
		assert.LessOrEqual(t, band95.Lower[i], band80.Lower[i], "t=%d", i)
		assert.GreaterOrEqual(t, band95.Upper[i], band80.Upper[i], "t=%d", i)
	}

	// On the model scale the interval width never shrinks with the horizon.
	for i := 1; i < 36; i++ {
		assert.GreaterOrEqual(t, result.FittedSE[i], result.FittedSE[i-1], "t=%d", i)
	}
}

func TestProjectBackTransform(t *testing.T) {
	m, prov := fitLogModel(t)

	result, err := Project(m, prov, 12, nil)
	require.NoError(t, err)

	// The only transform is the log, so the original-scale point is exactly
	// the exponential of the model-scale point.
	for i := range result.Points {
		assert.InDelta(t, math.Exp(result.FittedPoints[i]), result.Points[i], 1e-9)
	}

	// Default levels.
	require.Len(t, result.Intervals, 2)
	assert.Equal(t, 80.0, result.Intervals[0].Level)
	assert.Equal(t, 95.0, result.Intervals[1].Level)
}

func TestProjectValidation(t *testing.T) {
	m, prov := fitLogModel(t)

	_, err := Project(m, prov, 0, nil)
	assert.Error(t, err)

	_, err = Project(m, prov, 12, []float64{120})
	assert.Error(t, err)

	// Provenance of a different series length is rejected.
	truncated := &transform.Result{
		Series:   prov.Series.Slice(0, 100),
		Steps:    prov.Steps,
		Original: prov.Original,
	}
	_, err = Project(m, truncated, 12, nil)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	m, prov := fitLogModel(t)

	result, err := Project(m, prov, 6, []float64{80, 95})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, []string{"month", "point", "lo80", "hi80", "lo95", "hi95"}, records[0])
	assert.Equal(t, "2008-01", records[1][0])
	assert.Equal(t, "2008-06", records[6][0])
}

func TestWriteTable(t *testing.T) {
	m, prov := fitLogModel(t)

	result, err := Project(m, prov, 3, []float64{95})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteTable(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "month"))
	assert.Contains(t, out, "2008-01")
	assert.Contains(t, out, "lo95")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
}
