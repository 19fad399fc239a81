// Package npdf implements the multivariate N-pdf transform (MBCn).
package npdf

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/adjust"
	"github.com/sartorproj/gosdba/processing"
	"github.com/sartorproj/gosdba/timeseries"
)

// Options configures the N-pdf transform.
type Options struct {
	// NIter is the number of rotation iterations.
	NIter int

	// NEscore is the subsample size of the energy-distance diagnostic
	// computed after each iteration; it is clipped to the available
	// sample size. 0 disables the diagnostic.
	NEscore int

	// Base returns a fresh untrained univariate adjuster; one is trained
	// per rotated component per iteration.
	Base func() (adjust.Adjuster, error)

	// Source drives the random rotations and the escore subsampling.
	// Runs with the same seed are reproducible.
	Source *rand.Rand
}

// DefaultOptions returns 20 iterations, a 1000-point escore subsample, a
// whole-series additive QDM base and a fixed-seed random source.
func DefaultOptions() *Options {
	return &Options{
		NIter:   20,
		NEscore: 1000,
		Base:    defaultBase,
		Source:  rand.New(rand.NewPCG(0x5dba, 0x5dba)),
	}
}

func defaultBase() (adjust.Adjuster, error) {
	return adjust.NewQDM(adjust.DefaultConfig())
}

// Result carries the transformed working arrays and the per-iteration
// energy-distance diagnostic. The escore sequence is expected to decrease
// on average; single iterations may regress because of the random
// rotation.
type Result struct {
	Hist    *processing.Dataset
	Sim     *processing.Dataset
	Escores []float64
}

// Transform runs the iterative random-rotation N-pdf transform, converging
// the joint distribution of sim (and hist) toward that of ref while
// preserving rank structure for later reordering. Inputs are expected to be
// standardized and are never mutated. With NIter = 0 the inputs are
// returned unchanged.
//
// Iterations are strictly ordered, but the per-component univariate
// adjustments within one iteration run in parallel. Cancelling the context
// stops the transform between iterations; the returned result then holds
// the arrays of the last completed iteration together with the context's
// error.
func Transform(ctx context.Context, ref, hist, sim *processing.Dataset, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NIter < 0 {
		return nil, &gosdba.ConfigurationError{Param: "niter", Value: opts.NIter,
			Msg: "iteration count cannot be negative"}
	}
	if opts.NEscore < 0 {
		return nil, &gosdba.ConfigurationError{Param: "nescore", Value: opts.NEscore,
			Msg: "escore subsample size cannot be negative"}
	}
	if opts.Source == nil {
		return nil, &gosdba.ConfigurationError{Param: "source", Value: nil,
			Msg: "a random source is required"}
	}
	if opts.Base == nil {
		opts.Base = defaultBase
	}
	nvar := ref.NVars()
	if hist.NVars() != nvar {
		return nil, &gosdba.ShapeError{Param: "hist", Want: nvar, Got: hist.NVars()}
	}
	if sim.NVars() != nvar {
		return nil, &gosdba.ShapeError{Param: "sim", Want: nvar, Got: sim.NVars()}
	}

	res := &Result{
		Hist: hist.Copy(),
		Sim:  sim.Copy(),
	}

	for iter := 0; iter < opts.NIter; iter++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rot := randomOrthogonal(nvar, opts.Source)

		refRot := rotate(ref.Data, rot)
		histRot := rotate(res.Hist.Data, rot)
		simRot := rotate(res.Sim.Data, rot)

		if err := adjustComponents(ctx, ref, res.Hist, res.Sim, refRot, histRot, simRot, opts.Base); err != nil {
			return nil, err
		}

		// Back-rotation with the transpose inverts the orthogonal map.
		res.Hist.Data = rotate(histRot, rot.T())
		res.Sim.Data = rotate(simRot, rot.T())

		if opts.NEscore > 0 {
			res.Escores = append(res.Escores,
				subsampledEscore(res.Sim.Data, ref.Data, opts.NEscore, opts.Source))
		}
	}
	return res, nil
}

// adjustComponents trains the base adjuster per rotated component and
// overwrites histRot and simRot columns with their adjusted values.
func adjustComponents(ctx context.Context, ref, hist, sim *processing.Dataset, refRot, histRot, simRot *mat.Dense, base func() (adjust.Adjuster, error)) error {
	_, nvar := refRot.Dims()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for j := 0; j < nvar; j++ {
		eg.Go(func() error {
			refC := columnSeries(ref, refRot, j)
			histC := columnSeries(hist, histRot, j)
			simC := columnSeries(sim, simRot, j)

			a, err := base()
			if err != nil {
				return err
			}
			if err := a.Train(ctx, refC, histC); err != nil {
				return err
			}
			histAdj, err := a.Adjust(ctx, histC)
			if err != nil {
				return err
			}
			simAdj, err := a.Adjust(ctx, simC)
			if err != nil {
				return err
			}
			setColumn(histRot, j, histAdj.Scen.Values)
			setColumn(simRot, j, simAdj.Scen.Values)
			return nil
		})
	}
	return eg.Wait()
}

// rotate returns data * rot as a new matrix.
func rotate(data *mat.Dense, rot mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(data, rot)
	return &out
}

// randomOrthogonal draws a random orthogonal matrix, uniform over the
// orthogonal group: QR of a Gaussian matrix with the Q columns' signs fixed
// by the diagonal of R.
func randomOrthogonal(n int, rng *rand.Rand) *mat.Dense {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rng.NormFloat64())
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	q := mat.NewDense(n, n, nil)
	r := mat.NewDense(n, n, nil)
	qr.QTo(q)
	qr.RTo(r)

	for j := 0; j < n; j++ {
		if r.At(j, j) < 0 {
			for i := 0; i < n; i++ {
				q.Set(i, j, -q.At(i, j))
			}
		}
	}
	return q
}

// columnSeries copies column j of data into a series on d's time axis.
func columnSeries(d *processing.Dataset, data *mat.Dense, j int) *timeseries.Series {
	values := make([]float64, d.Len())
	mat.Col(values, j, data)
	return &timeseries.Series{
		Timestamps: d.Times,
		Values:     values,
		Name:       d.Names[j],
		Units:      d.Units[j],
	}
}

func setColumn(data *mat.Dense, j int, values []float64) {
	for i, v := range values {
		data.Set(i, j, v)
	}
}
