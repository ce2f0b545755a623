package sarima

import "fmt"

// Spec is a SARIMA order tuple (p,d,q)(P,D,Q)[s]. Period is the seasonal
// period s; a spec with zero seasonal orders is a plain ARIMA model. Specs are
// value types and never mutated after construction.
type Spec struct {
	P, D, Q    int // non-seasonal AR, differencing, MA orders
	SP, SD, SQ int // seasonal AR, differencing, MA orders
	Period     int
}

// String renders the conventional SARIMA(p,d,q)(P,D,Q)[s] notation.
func (s Spec) String() string {
	if s.SP == 0 && s.SD == 0 && s.SQ == 0 {
		return fmt.Sprintf("ARIMA(%d,%d,%d)", s.P, s.D, s.Q)
	}
	return fmt.Sprintf("SARIMA(%d,%d,%d)(%d,%d,%d)[%d]", s.P, s.D, s.Q, s.SP, s.SD, s.SQ, s.Period)
}

// NumCoeffs is the number of AR and MA coefficients, seasonal included. It is
// the tie-break parameter count used by model selection.
func (s Spec) NumCoeffs() int {
	return s.P + s.Q + s.SP + s.SQ
}

// Validate rejects negative orders and seasonal orders without a period.
func (s Spec) Validate() error {
	if s.P < 0 || s.D < 0 || s.Q < 0 || s.SP < 0 || s.SD < 0 || s.SQ < 0 {
		return fmt.Errorf("sarima: %s: orders must be non-negative", s)
	}
	if (s.SP > 0 || s.SD > 0 || s.SQ > 0) && s.Period < 2 {
		return fmt.Errorf("sarima: %s: seasonal orders require period >= 2", s)
	}
	return nil
}

// MinObservations is the shortest series the spec can be fit on.
func (s Spec) MinObservations() int {
	return s.P + s.Q + s.D + (s.SP+s.SD+s.SQ)*s.Period + 20
}

// ConvergenceError reports a fit that failed to converge for a given spec.
type ConvergenceError struct {
	Spec   Spec
	Reason string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("sarima: %s did not converge: %s", e.Spec, e.Reason)
}
