// Package detrend fits and removes trends from time series.
package detrend

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/grouping"
	"github.com/sartorproj/gosdba/loess"
	"github.com/sartorproj/gosdba/timeseries"
)

// Detrender fits a per-group trend to a series, then removes it from or
// restores it onto series sharing the fitted time axis. A Detrender starts
// unfit; Fit returns a new fitted instance and never mutates the receiver,
// so fitted state held by downstream code stays valid.
type Detrender struct {
	grouper   *grouping.Grouper
	kind      gosdba.Kind
	degree    int
	loessOpts *loess.Options // nil selects the polynomial trend

	fitted bool
	axis   []time.Time
	trend  []float64
}

// NewPoly creates an unfit Detrender using per-group polynomial least
// squares of the given degree.
func NewPoly(g *grouping.Grouper, degree int, kind gosdba.Kind) (*Detrender, error) {
	if degree < 0 {
		return nil, &gosdba.ConfigurationError{Param: "degree", Value: degree,
			Msg: "degree cannot be negative"}
	}
	if !kind.Valid() {
		return nil, &gosdba.ConfigurationError{Param: "kind", Value: string(kind),
			Msg: "kind must be additive or multiplicative"}
	}
	if g == nil {
		g, _ = grouping.New(grouping.KeyTime, 0)
	}
	return &Detrender{grouper: g, kind: kind, degree: degree}, nil
}

// NewLoess creates an unfit Detrender using a per-group LOESS trend.
func NewLoess(g *grouping.Grouper, opts *loess.Options, kind gosdba.Kind) (*Detrender, error) {
	if !kind.Valid() {
		return nil, &gosdba.ConfigurationError{Param: "kind", Value: string(kind),
			Msg: "kind must be additive or multiplicative"}
	}
	if opts == nil {
		opts = loess.DefaultOptions()
	}
	if g == nil {
		g, _ = grouping.New(grouping.KeyTime, 0)
	}
	return &Detrender{grouper: g, kind: kind, loessOpts: opts}, nil
}

// Fit estimates the trend of the series and returns a new, fitted
// Detrender. The receiver is left untouched.
func (d *Detrender) Fit(s *timeseries.Series) (*Detrender, error) {
	if s.Len() == 0 {
		return nil, &gosdba.ShapeError{Param: "series", Want: 1, Got: 0}
	}

	x := timeCoords(s.Timestamps)
	trend := make([]float64, s.Len())

	groups := d.grouper.WindowedIndices(s.Timestamps)
	core := d.grouper.Indices(s.Timestamps)
	for label, members := range groups {
		sort.Ints(members)
		gx := make([]float64, len(members))
		gy := make([]float64, len(members))
		for k, i := range members {
			gx[k] = x[i]
			gy[k] = s.Values[i]
		}

		var fit []float64
		var err error
		if d.loessOpts != nil {
			fit, err = loess.Smooth(gx, gy, d.loessOpts)
			if err != nil {
				return nil, err
			}
		} else {
			coeffs := polyfit(gx, gy, d.degree)
			fit = make([]float64, len(gx))
			for k := range gx {
				fit[k] = polyval(coeffs, gx[k])
			}
		}

		// Windowed groups overlap; each member keeps only the fit of the
		// group it belongs to exactly.
		own := make(map[int]bool, len(core[label]))
		for _, i := range core[label] {
			own[i] = true
		}
		for k, i := range members {
			if own[i] {
				trend[i] = fit[k]
			}
		}
	}

	axis := make([]time.Time, len(s.Timestamps))
	copy(axis, s.Timestamps)

	return &Detrender{
		grouper:   d.grouper,
		kind:      d.kind,
		degree:    d.degree,
		loessOpts: d.loessOpts,
		fitted:    true,
		axis:      axis,
		trend:     trend,
	}, nil
}

// Detrend removes the fitted trend: anomaly = series - trend for additive,
// series / trend for multiplicative.
func (d *Detrender) Detrend(s *timeseries.Series) (*timeseries.Series, error) {
	if err := d.checkTarget("detrend", s); err != nil {
		return nil, err
	}
	out := make([]float64, s.Len())
	for i, v := range s.Values {
		out[i] = d.kind.Invert(v, d.trend[i])
	}
	return s.WithValues(out)
}

// Retrend restores the fitted trend, exactly inverting Detrend.
func (d *Detrender) Retrend(s *timeseries.Series) (*timeseries.Series, error) {
	if err := d.checkTarget("retrend", s); err != nil {
		return nil, err
	}
	out := make([]float64, s.Len())
	for i, v := range s.Values {
		out[i] = d.kind.Apply(v, d.trend[i])
	}
	return s.WithValues(out)
}

// Trend returns the fitted trend as a series on the fit-time axis, or nil
// when the Detrender is unfit.
func (d *Detrender) Trend() *timeseries.Series {
	if !d.fitted {
		return nil
	}
	trend := make([]float64, len(d.trend))
	copy(trend, d.trend)
	out, _ := (&timeseries.Series{Timestamps: d.axis}).WithValues(trend)
	out.Name = "trend"
	return out
}

func (d *Detrender) checkTarget(op string, s *timeseries.Series) error {
	if !d.fitted {
		return &gosdba.DomainError{Op: "detrend." + op, Msg: "detrender is not fitted"}
	}
	if len(s.Timestamps) != len(d.axis) {
		return &gosdba.DomainError{Op: "detrend." + op,
			Msg: "target series time axis does not match the fitted axis"}
	}
	for i := range d.axis {
		if !s.Timestamps[i].Equal(d.axis[i]) {
			return &gosdba.DomainError{Op: "detrend." + op,
				Msg: "target series time axis does not match the fitted axis"}
		}
	}
	return nil
}

// timeCoords converts a time axis to fractional days since its first
// timestamp.
func timeCoords(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = t.Sub(ts[0]).Hours() / 24
	}
	return out
}

// polyfit computes least-squares polynomial coefficients, constant term
// first, via QR factorization of the Vandermonde matrix.
func polyfit(x, y []float64, degree int) []float64 {
	if degree >= len(x) {
		degree = len(x) - 1
	}
	// Scale to [0, 1] to keep the Vandermonde matrix well conditioned.
	min, max := x[0], x[0]
	for _, v := range x {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	span := max - min
	if span == 0 || degree == 0 {
		var sum float64
		for _, v := range y {
			sum += v
		}
		return []float64{sum / float64(len(y))}
	}

	a := mat.NewDense(len(x), degree+1, nil)
	for i, v := range x {
		u := (v - min) / span
		p := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, p)
			p *= u
		}
	}
	b := mat.NewDense(len(y), 1, y)

	var qr mat.QR
	qr.Factorize(a)
	var c mat.Dense
	if err := qr.SolveTo(&c, false, b); err != nil {
		// Rank-deficient fit: fall back to the group mean.
		var sum float64
		for _, v := range y {
			sum += v
		}
		return []float64{sum / float64(len(y))}
	}

	// Expand scaled coefficients back to the original x domain lazily: keep
	// them in scaled space and record the transform instead.
	coeffs := make([]float64, degree+3)
	for j := 0; j <= degree; j++ {
		coeffs[j] = c.At(j, 0)
	}
	coeffs[degree+1] = min
	coeffs[degree+2] = span
	return coeffs
}

// polyval evaluates polyfit coefficients at x.
func polyval(coeffs []float64, x float64) float64 {
	if len(coeffs) < 3 {
		return coeffs[0]
	}
	deg := len(coeffs) - 3
	min, span := coeffs[deg+1], coeffs[deg+2]
	u := x
	if span != 0 {
		u = (x - min) / span
	}
	v := 0.0
	for j := deg; j >= 0; j-- {
		v = v*u + coeffs[j]
	}
	return v
}
