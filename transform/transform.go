package transform

import (
	"fmt"
	"math"

	"github.com/sgauthier/cpicast/timeseries"
)

// Kind identifies a transform step.
type Kind int

const (
	// KindLog is the natural log transform.
	KindLog Kind = iota
	// KindDiff is a difference at lag 1.
	KindDiff
	// KindSeasonalDiff is a difference at the seasonal lag.
	KindSeasonalDiff
)

// String returns the step name used in errors and logs.
func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindDiff:
		return "diff"
	case KindSeasonalDiff:
		return "seasonal_diff"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Step records one applied transform. Lag is 0 for the log transform, 1 for
// first differencing, and the seasonal period for seasonal differencing.
type Step struct {
	Kind Kind
	Lag  int
}

// DomainError reports a value outside the domain of a transform.
type DomainError struct {
	Step  Kind
	Index int
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("transform %s: value %g at index %d outside domain", e.Step, e.Value, e.Index)
}

// Result is an immutable transformed series with the provenance needed to
// invert it. Original is the untransformed input of the whole chain.
type Result struct {
	Series   *timeseries.Series
	Steps    []Step
	Original *timeseries.Series
}

// From starts a transform chain without applying anything.
func From(s *timeseries.Series) *Result {
	return &Result{Series: s, Original: s}
}

// Log applies the natural log to every value. Values must be strictly
// positive; the first offending value is reported as a DomainError.
func Log(s *timeseries.Series) (*Result, error) {
	return From(s).Log()
}

// Log appends a natural log step to the chain.
func (r *Result) Log() (*Result, error) {
	for i, v := range r.Series.Values {
		if v <= 0 {
			return nil, &DomainError{Step: KindLog, Index: i, Value: v}
		}
	}

	values := make([]float64, r.Series.Len())
	for i, v := range r.Series.Values {
		values[i] = math.Log(v)
	}

	derived := r.Series.Copy()
	derived.Values = values
	derived.Name = r.Series.Name + "_log"
	return r.extend(derived, Step{Kind: KindLog}), nil
}

// Diff appends a first-difference step. The derived series is one observation
// shorter; the undefined leading entry is dropped.
func (r *Result) Diff() *Result {
	return r.extend(r.Series.Diff(), Step{Kind: KindDiff, Lag: 1})
}

// SeasonalDiff appends a seasonal difference at the given period. The derived
// series is period observations shorter.
func (r *Result) SeasonalDiff(period int) *Result {
	return r.extend(r.Series.SeasonalDiff(period), Step{Kind: KindSeasonalDiff, Lag: period})
}

func (r *Result) extend(derived *timeseries.Series, step Step) *Result {
	steps := make([]Step, len(r.Steps), len(r.Steps)+1)
	copy(steps, r.Steps)
	return &Result{
		Series:   derived,
		Steps:    append(steps, step),
		Original: r.Original,
	}
}

// levels recomputes the forward chain, returning the series before each step:
// levels[i] is the input to Steps[i].
func (r *Result) levels() []*timeseries.Series {
	out := make([]*timeseries.Series, len(r.Steps))
	cur := r.Original
	for i, step := range r.Steps {
		out[i] = cur
		switch step.Kind {
		case KindLog:
			next := cur.Copy()
			for j, v := range cur.Values {
				next.Values[j] = math.Log(v)
			}
			cur = next
		default:
			cur = diffAt(cur, step.Lag)
		}
	}
	return out
}

func diffAt(s *timeseries.Series, lag int) *timeseries.Series {
	if lag == 1 {
		return s.Diff()
	}
	return s.SeasonalDiff(lag)
}

// Invert reconstructs the original series from the derived values, seeding
// each differencing level with the leading values it consumed. The returned
// series equals Original up to floating-point error.
func (r *Result) Invert() (*timeseries.Series, error) {
	levels := r.levels()
	cur := r.Series.Values

	for i := len(r.Steps) - 1; i >= 0; i-- {
		step := r.Steps[i]
		switch step.Kind {
		case KindLog:
			next := make([]float64, len(cur))
			for j, v := range cur {
				next[j] = math.Exp(v)
			}
			cur = next
		default:
			pre := levels[i]
			if pre.Len() != len(cur)+step.Lag {
				return nil, fmt.Errorf("transform: invert %s lag %d: have %d values, want %d",
					step.Kind, step.Lag, len(cur), pre.Len()-step.Lag)
			}
			next := make([]float64, pre.Len())
			copy(next[:step.Lag], pre.Values[:step.Lag])
			for t := step.Lag; t < pre.Len(); t++ {
				next[t] = cur[t-step.Lag] + next[t-step.Lag]
			}
			cur = next
		}
	}

	out := r.Original.Copy()
	out.Values = cur
	return out, nil
}

// InvertForecast maps h future values produced on the transformed scale back
// to the original scale. Differencing steps integrate against the tail of the
// corresponding forward level; the log step exponentiates, which maps interval
// bounds directly since exp is monotonic.
func (r *Result) InvertForecast(points []float64) []float64 {
	levels := r.levels()
	cur := make([]float64, len(points))
	copy(cur, points)

	for i := len(r.Steps) - 1; i >= 0; i-- {
		step := r.Steps[i]
		switch step.Kind {
		case KindLog:
			for j, v := range cur {
				cur[j] = math.Exp(v)
			}
		default:
			pre := levels[i]
			n := pre.Len()
			for j := range cur {
				if j < step.Lag {
					cur[j] += pre.Values[n-step.Lag+j]
				} else {
					cur[j] += cur[j-step.Lag]
				}
			}
		}
	}

	return cur
}
