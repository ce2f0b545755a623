package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sgauthier/cpicast/sarima"
	"github.com/sgauthier/cpicast/timeseries"
)

// Criterion selects the information criterion models are ranked by.
type Criterion string

const (
	// CriterionAICc is the small-sample corrected AIC, the default.
	CriterionAICc Criterion = "aicc"
	// CriterionAIC is the Akaike information criterion.
	CriterionAIC Criterion = "aic"
	// CriterionBIC is the Bayesian information criterion.
	CriterionBIC Criterion = "bic"
)

// ParseCriterion maps a configuration string to a Criterion.
func ParseCriterion(s string) (Criterion, error) {
	switch Criterion(s) {
	case CriterionAICc, CriterionAIC, CriterionBIC:
		return Criterion(s), nil
	case "":
		return CriterionAICc, nil
	default:
		return "", fmt.Errorf("search: unknown criterion %q", s)
	}
}

func (c Criterion) value(m *sarima.Model) float64 {
	switch c {
	case CriterionAIC:
		return m.AIC
	case CriterionBIC:
		return m.BIC
	default:
		return m.AICc
	}
}

// Fitter estimates a model for one specification. Implementations must be
// safe for concurrent use; the search may fit specs in parallel.
type Fitter interface {
	Fit(series *timeseries.Series, spec sarima.Spec) (*sarima.Model, error)
}

// FitterFunc adapts a function to the Fitter interface.
type FitterFunc func(series *timeseries.Series, spec sarima.Spec) (*sarima.Model, error)

// Fit calls the wrapped function.
func (f FitterFunc) Fit(series *timeseries.Series, spec sarima.Spec) (*sarima.Model, error) {
	return f(series, spec)
}

// CSS is the default fitter, the conditional-sum-of-squares estimator.
var CSS Fitter = FitterFunc(sarima.Fit)

// Candidate records the outcome of fitting one specification.
type Candidate struct {
	Spec   sarima.Spec
	Model  *sarima.Model // nil when the fit failed
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
	Err    error // non-nil when the fit failed
}

// Ranking is the full outcome of a grid search. Candidates holds the
// converged fits sorted best-first; Failed holds the specs whose fit errored,
// in grid order.
type Ranking struct {
	Candidates []Candidate
	Failed     []Candidate
	Criterion  Criterion
}

// Best returns the top-ranked fitted model.
func (r *Ranking) Best() *sarima.Model {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].Model
}

// FitExhaustedError reports a search in which no specification converged.
type FitExhaustedError struct {
	Attempted int
}

func (e *FitExhaustedError) Error() string {
	return fmt.Sprintf("search: none of %d specifications converged", e.Attempted)
}

// Options configures a grid search. The zero value ranks by AICc, fits
// sequentially with the CSS estimator, and logs nothing.
type Options struct {
	Criterion Criterion
	Fitter    Fitter
	Workers   int // parallel fits; values below 2 mean sequential
	Logger    zerolog.Logger
}

// Run fits every spec in the grid against the series and returns the ranking.
// The series should already be on the scale the models are meant for (the log
// scale here); differencing is each spec's own business. Results are
// deterministic regardless of worker count or completion order.
func Run(ctx context.Context, series *timeseries.Series, grid []sarima.Spec, opts Options) (*Ranking, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("search: empty specification grid")
	}
	if opts.Criterion == "" {
		opts.Criterion = CriterionAICc
	}
	if opts.Fitter == nil {
		opts.Fitter = CSS
	}

	// Index-addressed results keep the outcome independent of completion order.
	results := make([]Candidate, len(grid))

	g, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, spec := range grid {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			model, err := opts.Fitter.Fit(series, spec)
			if err != nil {
				opts.Logger.Debug().Stringer("spec", spec).Err(err).Msg("candidate failed")
				results[i] = Candidate{Spec: spec, Err: err}
				return nil
			}

			opts.Logger.Debug().
				Stringer("spec", spec).
				Float64("aicc", model.AICc).
				Float64("bic", model.BIC).
				Msg("candidate fit")
			results[i] = Candidate{
				Spec:   spec,
				Model:  model,
				AIC:    model.AIC,
				AICc:   model.AICc,
				BIC:    model.BIC,
				LogLik: model.LogLik,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ranking := &Ranking{Criterion: opts.Criterion}
	for _, c := range results {
		if c.Err != nil {
			ranking.Failed = append(ranking.Failed, c)
			continue
		}
		ranking.Candidates = append(ranking.Candidates, c)
	}

	if len(ranking.Candidates) == 0 {
		return nil, &FitExhaustedError{Attempted: len(grid)}
	}

	crit := opts.Criterion
	sort.SliceStable(ranking.Candidates, func(i, j int) bool {
		a, b := ranking.Candidates[i], ranking.Candidates[j]
		av, bv := crit.value(a.Model), crit.value(b.Model)
		if av != bv {
			return av < bv
		}
		if a.BIC != b.BIC {
			return a.BIC < b.BIC
		}
		// Stable sort falls back to grid order for full ties.
		return a.Spec.NumCoeffs() < b.Spec.NumCoeffs()
	})

	return ranking, nil
}

// DefaultGrid enumerates the fixed candidate set used for monthly CPI: one
// regular and one seasonal difference, p and q up to 2, seasonal P and Q up
// to 1.
func DefaultGrid(period int) []sarima.Spec {
	var grid []sarima.Spec
	for p := 0; p <= 2; p++ {
		for q := 0; q <= 2; q++ {
			for sp := 0; sp <= 1; sp++ {
				for sq := 0; sq <= 1; sq++ {
					grid = append(grid, sarima.Spec{
						P: p, D: 1, Q: q,
						SP: sp, SD: 1, SQ: sq,
						Period: period,
					})
				}
			}
		}
	}
	return grid
}
