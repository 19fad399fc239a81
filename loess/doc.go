// Package loess implements locally weighted regression (LOESS) smoothing.
//
// For every input point, the r = round(frac*N) nearest neighbors are
// selected and a degree 0 or 1 polynomial is fitted by weighted least
// squares, with kernel weights decreasing in distance from the point.
// Additional passes refit with bisquare robustness weights computed from the
// residuals, which suppresses outliers.
//
// # Smoothing a series
//
//	opts := loess.DefaultOptions()
//	opts.Frac = 0.3
//	smoothed, err := loess.Smooth(x, y, opts)
//
// The first and last frac/2*N points are fitted against one-sided
// neighborhoods and carry a systematic boundary bias. This is a property of
// the method, not an error; discard those points when an unbiased trend is
// required near the edges.
package loess
