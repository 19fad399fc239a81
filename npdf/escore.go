package npdf

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/gosdba"
)

// Escore computes the energy distance between two multivariate samples
// with observations as rows: 2*E||X-Y|| - E||X-X'|| - E||Y-Y'||. It is
// zero for identical samples and grows with the divergence of the joint
// distributions.
func Escore(x, y mat.Matrix) (float64, error) {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xc != yc {
		return 0, &gosdba.ShapeError{Param: "y", Want: xc, Got: yc}
	}
	if xr == 0 || yr == 0 {
		return 0, &gosdba.ShapeError{Param: "samples", Want: 1, Got: 0}
	}

	ab := meanCrossDistance(x, y)
	aa := meanCrossDistance(x, x)
	bb := meanCrossDistance(y, y)
	return 2*ab - aa - bb, nil
}

// meanCrossDistance averages the Euclidean distance over all row pairs.
func meanCrossDistance(x, y mat.Matrix) float64 {
	xr, nc := x.Dims()
	yr, _ := y.Dims()

	var sum float64
	for i := 0; i < xr; i++ {
		for j := 0; j < yr; j++ {
			var d2 float64
			for c := 0; c < nc; c++ {
				d := x.At(i, c) - y.At(j, c)
				d2 += d * d
			}
			sum += math.Sqrt(d2)
		}
	}
	return sum / float64(xr*yr)
}

// subsampledEscore computes the energy distance between fixed-size random
// subsamples of sim and ref, clipping the subsample size to what is
// available.
func subsampledEscore(sim, ref *mat.Dense, n int, rng *rand.Rand) float64 {
	e, err := Escore(subsampleRows(sim, n, rng), subsampleRows(ref, n, rng))
	if err != nil {
		return math.NaN()
	}
	return e
}

// subsampleRows draws n rows without replacement, or all rows when the
// matrix is smaller.
func subsampleRows(m *mat.Dense, n int, rng *rand.Rand) mat.Matrix {
	rows, cols := m.Dims()
	if n >= rows {
		return m
	}
	idx := rng.Perm(rows)[:n]
	out := mat.NewDense(n, cols, nil)
	for k, i := range idx {
		for c := 0; c < cols; c++ {
			out.Set(k, c, m.At(i, c))
		}
	}
	return out
}
