package adjust

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

// quantileNodes returns n cumulative probabilities at bin midpoints,
// (2i+1)/(2n), symmetric about 0.5.
func quantileNodes(n int) []float64 {
	nodes := make([]float64, n)
	for i := range nodes {
		nodes[i] = (2*float64(i) + 1) / (2 * float64(n))
	}
	return nodes
}

// forEachGroup runs fn once per group label, in parallel. Group
// computations are pure functions of their data slice, so they are
// embarrassingly parallel; fn receives the position k of the label so it
// can write results without synchronization.
func forEachGroup(ctx context.Context, labels []int, fn func(k, label int) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for k, label := range labels {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(k, label)
		})
	}
	return eg.Wait()
}

// trainingGroups validates ref and hist against the grouper and returns the
// sorted group labels with their windowed member indices. Every group seen
// in ref must also be populated in hist, and vice versa.
func trainingGroups(op string, cfg *Config, ref, hist *timeseries.Series) (labels []int, refIdx, histIdx map[int][]int, err error) {
	if ref.Len() == 0 {
		return nil, nil, nil, &gosdba.ShapeError{Param: "ref", Want: 1, Got: 0}
	}
	if hist.Len() == 0 {
		return nil, nil, nil, &gosdba.ShapeError{Param: "hist", Want: 1, Got: 0}
	}

	refIdx = cfg.Grouper.WindowedIndices(ref.Timestamps)
	histIdx = cfg.Grouper.WindowedIndices(hist.Timestamps)
	for label := range refIdx {
		if len(histIdx[label]) == 0 {
			return nil, nil, nil, &gosdba.DomainError{Op: op,
				Msg: "hist is missing a group present in ref"}
		}
	}
	for label := range histIdx {
		if len(refIdx[label]) == 0 {
			return nil, nil, nil, &gosdba.DomainError{Op: op,
				Msg: "ref is missing a group present in hist"}
		}
	}

	labels = make([]int, 0, len(refIdx))
	for label := range refIdx {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return labels, refIdx, histIdx, nil
}

// sortedCopy returns an ascending copy of values.
func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// gather copies the values at the given indices.
func gather(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = values[i]
	}
	return out
}

// groupMean returns the mean of the values at the given indices.
func groupMean(values []float64, idx []int) float64 {
	return stat.Mean(gather(values, idx), nil)
}

// interpFactor interpolates the factor at position x over ascending node
// positions xs. Out-of-range positions follow the extrapolation policy:
// constant clips to the nearest trained factor, error fails.
func interpFactor(op string, xs, fs []float64, x float64, interp Interp, extrap Extrapolation) (float64, error) {
	if x < xs[0] || x > xs[len(xs)-1] {
		if extrap == ExtrapError {
			return 0, &gosdba.DomainError{Op: op,
				Msg: "value outside the trained quantile range"}
		}
		if x < xs[0] {
			return fs[0], nil
		}
		return fs[len(fs)-1], nil
	}

	hi := sort.SearchFloat64s(xs, x)
	if hi == 0 {
		return fs[0], nil
	}
	lo := hi - 1
	if hi == len(xs) {
		return fs[len(fs)-1], nil
	}
	dx := xs[hi] - xs[lo]
	if dx == 0 {
		return (fs[lo] + fs[hi]) / 2, nil
	}
	w := (x - xs[lo]) / dx
	if interp == InterpNearest {
		if w < 0.5 {
			return fs[lo], nil
		}
		return fs[hi], nil
	}
	return (1-w)*fs[lo] + w*fs[hi], nil
}

// blendedFactor resolves the adjustment factor for a point at time t.
// Under linear interpolation with periodic grouping the factors of the two
// labels adjacent to t are blended linearly in label space, wrapping at
// period boundaries, so a point exactly at a group boundary receives the
// mean of both groups' factors. lookup reports whether the label is known.
func blendedFactor(op string, cfg *Config, t time.Time, lookup func(label int) (float64, bool, error)) (float64, error) {
	if cfg.Interp == InterpLinear && cfg.Grouper.Period() > 0 {
		lo, hi, w := cfg.Grouper.Blend(t)
		flo, okLo, err := lookup(lo)
		if err != nil {
			return 0, err
		}
		fhi, okHi, err := lookup(hi)
		if err != nil {
			return 0, err
		}
		switch {
		case okLo && okHi:
			return (1-w)*flo + w*fhi, nil
		case okLo:
			return flo, nil
		case okHi:
			return fhi, nil
		}
		return 0, &gosdba.DomainError{Op: op,
			Msg: "simulation contains a group absent from training"}
	}

	f, ok, err := lookup(cfg.Grouper.Label(t))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &gosdba.DomainError{Op: op,
			Msg: "simulation contains a group absent from training"}
	}
	return f, nil
}

// rankWithin returns the empirical quantile rank of v among the sorted
// group values, using the midpoint convention (k-0.5)/n for the k-th order
// statistic.
func rankWithin(sorted []float64, v float64) float64 {
	k := sort.SearchFloat64s(sorted, v)
	// Count ties at v so equal values share one rank; for a v absent from
	// the sample hi == k and the rank is the fraction of values below it.
	hi := k
	for hi < len(sorted) && sorted[hi] == v {
		hi++
	}
	return (float64(k) + float64(hi)) / (2 * float64(len(sorted)))
}
