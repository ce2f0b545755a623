package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Series is a monthly time series. Timestamps are normalized to the first of
// the month in UTC and strictly increasing, with exactly one value per month.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// defaultEpoch anchors synthetic series built from bare values.
var defaultEpoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// MonthStart truncates a timestamp to the first of its month in UTC.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// New creates a series with a synthetic monthly index starting at January 1990.
func New(values []float64) *Series {
	return NewMonthly(defaultEpoch, values)
}

// NewMonthly creates a series of consecutive months starting at start.
func NewMonthly(start time.Time, values []float64) *Series {
	start = MonthStart(start)
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.AddDate(0, i, 0)
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return &Series{Timestamps: timestamps, Values: vals}
}

// FromObservations builds a series from unordered (timestamp, value) pairs.
// Timestamps are normalized to month granularity and sorted; a duplicate
// month is an error.
func FromObservations(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, fmt.Errorf("timeseries: %d timestamps for %d values", len(timestamps), len(values))
	}

	type obs struct {
		t time.Time
		v float64
	}
	rows := make([]obs, len(values))
	for i := range values {
		rows[i] = obs{t: MonthStart(timestamps[i]), v: values[i]}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].t.Before(rows[j].t) })

	s := &Series{
		Timestamps: make([]time.Time, len(rows)),
		Values:     make([]float64, len(rows)),
	}
	for i, r := range rows {
		if i > 0 && !rows[i-1].t.Before(r.t) {
			return nil, fmt.Errorf("timeseries: duplicate month %s", r.t.Format("2006-01"))
		}
		s.Timestamps[i] = r.t
		s.Values[i] = r.v
	}
	return s, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Start returns the first month of the series.
func (s *Series) Start() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[0]
}

// End returns the last month of the series.
func (s *Series) End() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[len(s.Timestamps)-1]
}

// FutureMonths returns the h months following the end of the series.
func (s *Series) FutureMonths(h int) []time.Time {
	end := s.End()
	months := make([]time.Time, h)
	for i := 0; i < h; i++ {
		months[i] = end.AddDate(0, i+1, 0)
	}
	return months
}

// Mean returns the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance returns the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std returns the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the smallest value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Diff returns the first difference: value[t] - value[t-1] for t >= 1. The
// result is lag observations shorter; the leading entries are dropped, not
// zero-filled.
func (s *Series) Diff() *Series {
	return s.lagDiff(1, "_diff")
}

// SeasonalDiff returns the seasonal difference with the given period:
// value[t] - value[t-period] for t >= period.
func (s *Series) SeasonalDiff(period int) *Series {
	return s.lagDiff(period, "_sdiff")
}

func (s *Series) lagDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Name: s.Name + suffix}
	}

	values := make([]float64, len(s.Values)-lag)
	timestamps := make([]time.Time, len(values))
	for i := lag; i < len(s.Values); i++ {
		values[i-lag] = s.Values[i] - s.Values[i-lag]
		timestamps[i-lag] = s.Timestamps[i]
	}

	return &Series{Timestamps: timestamps, Values: values, Name: s.Name + suffix}
}

// Slice returns a copy of the series restricted to [start, end).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])
	timestamps := make([]time.Time, end-start)
	copy(timestamps, s.Timestamps[start:end])

	return &Series{Timestamps: timestamps, Values: values, Name: s.Name}
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)
	return &Series{Timestamps: timestamps, Values: values, Name: s.Name}
}
