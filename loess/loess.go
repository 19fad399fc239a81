// Package loess implements locally weighted regression smoothing.
package loess

import (
	"math"
	"sort"

	"github.com/sartorproj/gosdba"
)

// Kernel selects the distance weighting function.
type Kernel string

const (
	Tricube  Kernel = "tricube"
	Gaussian Kernel = "gaussian"
)

// Options holds LOESS smoothing parameters.
type Options struct {
	Degree int     // Local polynomial degree: 0 (weighted mean) or 1 (weighted line)
	Kernel Kernel  // Distance weighting kernel
	Frac   float64 // Fraction of points in each local neighborhood, in (0, 1]
	Iter   int     // Total fitting passes; passes beyond the first are robustifying
}

// DefaultOptions returns LOESS defaults: locally linear, tricube weights,
// half the points per neighborhood, one robustifying pass.
func DefaultOptions() *Options {
	return &Options{
		Degree: 1,
		Kernel: Tricube,
		Frac:   0.5,
		Iter:   2,
	}
}

// Smooth computes the LOESS smoothed value at every input point. The x
// values must be sorted ascending. Points within frac/2 of either edge of
// the domain are fitted against one-sided neighborhoods and are
// systematically biased; callers needing boundary-free trends must discard
// them.
func Smooth(x, y []float64, opts *Options) ([]float64, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(x) != len(y) {
		return nil, &gosdba.ShapeError{Param: "y", Want: len(x), Got: len(y)}
	}
	if len(x) == 0 {
		return nil, &gosdba.ShapeError{Param: "x", Want: 1, Got: 0}
	}
	if opts.Degree != 0 && opts.Degree != 1 {
		return nil, &gosdba.ConfigurationError{Param: "degree", Value: opts.Degree,
			Msg: "degree must be 0 or 1"}
	}
	if opts.Kernel != Tricube && opts.Kernel != Gaussian {
		return nil, &gosdba.ConfigurationError{Param: "kernel", Value: string(opts.Kernel),
			Msg: "kernel must be tricube or gaussian"}
	}
	if opts.Frac <= 0 || opts.Frac > 1 {
		return nil, &gosdba.ConfigurationError{Param: "frac", Value: opts.Frac,
			Msg: "frac must be in (0, 1]"}
	}
	if opts.Iter < 1 {
		return nil, &gosdba.ConfigurationError{Param: "iter", Value: opts.Iter,
			Msg: "iter must be at least 1"}
	}

	n := len(x)
	r := int(math.Round(opts.Frac * float64(n)))
	if r < 2 {
		r = 2
	}
	if r > n {
		r = n
	}

	// Scale x to [0, 1] for numerical stability.
	xs := scaleUnit(x)

	fitted := make([]float64, n)
	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1
	}

	for pass := 0; pass < opts.Iter; pass++ {
		for i := 0; i < n; i++ {
			lo, hi := neighborhood(xs, i, r)
			fitted[i] = fitLocal(xs, y, robust, i, lo, hi, opts)
		}
		if pass == opts.Iter-1 {
			break
		}
		updateRobustWeights(y, fitted, robust)
	}

	return fitted, nil
}

// neighborhood returns the half-open index range [lo, hi) of the r nearest
// points to xs[i]. Since xs is sorted the neighborhood is contiguous.
func neighborhood(xs []float64, i, r int) (int, int) {
	lo, hi := i, i+1
	for hi-lo < r {
		switch {
		case lo == 0:
			hi++
		case hi == len(xs):
			lo--
		case xs[i]-xs[lo-1] <= xs[hi]-xs[i]:
			lo--
		default:
			hi++
		}
	}
	return lo, hi
}

// fitLocal evaluates the locally weighted fit at xs[i] over [lo, hi).
func fitLocal(xs, y, robust []float64, i, lo, hi int, opts *Options) float64 {
	// Bandwidth is the distance to the farthest neighbor.
	h := math.Max(xs[i]-xs[lo], xs[hi-1]-xs[i])

	w := make([]float64, hi-lo)
	for j := lo; j < hi; j++ {
		d := math.Abs(xs[j] - xs[i])
		var kw float64
		if h == 0 {
			// Degenerate bandwidth from repeated x: weight the coincident
			// point fully, everything else not at all.
			if d == 0 {
				kw = 1
			}
		} else {
			kw = kernelWeight(d/h, opts.Kernel)
		}
		w[j-lo] = kw * robust[j]
	}

	if opts.Degree == 0 {
		return weightedMean(y[lo:hi], w)
	}
	return weightedLine(xs[lo:hi], y[lo:hi], w, xs[i])
}

// kernelWeight evaluates the kernel at normalized distance u.
func kernelWeight(u float64, k Kernel) float64 {
	if k == Gaussian {
		return math.Exp(-u * u / 2)
	}
	if u >= 1 {
		return 0
	}
	c := 1 - u*u*u
	return c * c * c
}

// weightedMean returns the w-weighted mean of y, falling back to the plain
// mean when all weights vanish.
func weightedMean(y, w []float64) float64 {
	var sw, swy float64
	for i := range y {
		sw += w[i]
		swy += w[i] * y[i]
	}
	if sw == 0 {
		var sum float64
		for _, v := range y {
			sum += v
		}
		return sum / float64(len(y))
	}
	return swy / sw
}

// weightedLine fits a weighted least-squares line and evaluates it at x0.
func weightedLine(x, y, w []float64, x0 float64) float64 {
	var sw, swx, swy, swxx, swxy float64
	for i := range x {
		sw += w[i]
		swx += w[i] * x[i]
		swy += w[i] * y[i]
		swxx += w[i] * x[i] * x[i]
		swxy += w[i] * x[i] * y[i]
	}
	if sw == 0 {
		return weightedMean(y, w)
	}
	det := sw*swxx - swx*swx
	if math.Abs(det) < 1e-12*sw*sw {
		// Collinear or single-point neighborhood: fall back to the mean.
		return swy / sw
	}
	a := (swxx*swy - swx*swxy) / det
	b := (sw*swxy - swx*swy) / det
	return a + b*x0
}

// updateRobustWeights recomputes bisquare robustness weights from residuals,
// zeroing out points more than six median absolute residuals away.
func updateRobustWeights(y, fitted, robust []float64) {
	n := len(y)
	resid := make([]float64, n)
	for i := range y {
		resid[i] = math.Abs(y[i] - fitted[i])
	}
	sorted := make([]float64, n)
	copy(sorted, resid)
	sort.Float64s(sorted)
	var s float64
	if n%2 == 0 {
		s = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		s = sorted[n/2]
	}
	if s == 0 {
		for i := range robust {
			robust[i] = 1
		}
		return
	}
	for i := range robust {
		u := resid[i] / (6 * s)
		if u >= 1 {
			robust[i] = 0
			continue
		}
		c := 1 - u*u
		robust[i] = c * c
	}
}

// scaleUnit maps x affinely onto [0, 1]; constant axes map to all zeros.
func scaleUnit(x []float64) []float64 {
	min, max := x[0], x[0]
	for _, v := range x {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(x))
	if max == min {
		return out
	}
	for i, v := range x {
		out[i] = (v - min) / (max - min)
	}
	return out
}
