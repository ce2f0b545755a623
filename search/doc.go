// Package search fits an explicit grid of SARIMA specifications and ranks the
// results by information criteria.
//
// The grid is enumerated up front, every spec is fit independently (optionally
// in parallel), and the converged candidates are sorted ascending by the
// configured criterion with deterministic tie-breaks: lower BIC, then fewer
// coefficients, then grid order. Failed fits are recorded with their error and
// excluded from the ranking; if nothing converges, Run returns
// *FitExhaustedError rather than falling back to a default model.
//
//	ranking, err := search.Run(ctx, logSeries, search.DefaultGrid(12), search.Options{})
//	best := ranking.Best()
//
// The Fitter interface decouples ranking from estimation, so the search logic
// can be exercised against a stub backend.
package search
