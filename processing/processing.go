// Package processing provides preprocessing utilities for bias adjustment.
package processing

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

// Dataset is a joint array of several variables sharing one time axis, with
// time as rows and variables as columns. It is the input shape of the
// multivariate N-pdf transform.
type Dataset struct {
	Names []string
	Units []string
	Times []time.Time
	Data  *mat.Dense
}

// Stack concatenates separate series into a joint dataset. All series must
// share the same length; the time axis of the first series is used.
func Stack(series ...*timeseries.Series) (*Dataset, error) {
	if len(series) == 0 {
		return nil, &gosdba.ShapeError{Param: "series", Want: 1, Got: 0}
	}
	n := series[0].Len()
	for _, s := range series[1:] {
		if s.Len() != n {
			return nil, &gosdba.ShapeError{Param: s.Name, Want: n, Got: s.Len()}
		}
	}

	d := &Dataset{
		Names: make([]string, len(series)),
		Units: make([]string, len(series)),
		Times: make([]time.Time, n),
		Data:  mat.NewDense(n, len(series), nil),
	}
	copy(d.Times, series[0].Timestamps)
	for j, s := range series {
		d.Names[j] = s.Name
		d.Units[j] = s.Units
		for i, v := range s.Values {
			d.Data.Set(i, j, v)
		}
	}
	return d, nil
}

// Unstack splits the dataset back into one series per variable.
func (d *Dataset) Unstack() []*timeseries.Series {
	out := make([]*timeseries.Series, d.NVars())
	for j := range out {
		out[j] = d.Column(j)
	}
	return out
}

// Len returns the number of time steps.
func (d *Dataset) Len() int {
	r, _ := d.Data.Dims()
	return r
}

// NVars returns the number of variables.
func (d *Dataset) NVars() int {
	_, c := d.Data.Dims()
	return c
}

// Column returns variable j as a series on the dataset's time axis.
func (d *Dataset) Column(j int) *timeseries.Series {
	n := d.Len()
	ts := make([]time.Time, n)
	copy(ts, d.Times)
	values := make([]float64, n)
	mat.Col(values, j, d.Data)
	return &timeseries.Series{
		Timestamps: ts,
		Values:     values,
		Name:       d.Names[j],
		Units:      d.Units[j],
	}
}

// Copy returns a deep copy of the dataset.
func (d *Dataset) Copy() *Dataset {
	out := &Dataset{
		Names: append([]string(nil), d.Names...),
		Units: append([]string(nil), d.Units...),
		Times: append([]time.Time(nil), d.Times...),
		Data:  mat.DenseCopyOf(d.Data),
	}
	return out
}

// Standardize returns a standardized copy of the dataset along with the
// per-variable means and standard deviations needed for exact
// reconstruction. Variables with zero variance are left centered only.
func Standardize(d *Dataset) (*Dataset, []float64, []float64) {
	out := d.Copy()
	nvar := d.NVars()
	means := make([]float64, nvar)
	stds := make([]float64, nvar)

	col := make([]float64, d.Len())
	for j := 0; j < nvar; j++ {
		mat.Col(col, j, d.Data)
		mean, std := stat.MeanStdDev(col, nil)
		means[j] = mean
		stds[j] = std
		for i := range col {
			v := col[i] - mean
			if std > 0 {
				v /= std
			}
			out.Data.Set(i, j, v)
		}
	}
	return out, means, stds
}

// Destandardize inverts Standardize given the retained means and standard
// deviations.
func Destandardize(d *Dataset, means, stds []float64) (*Dataset, error) {
	if len(means) != d.NVars() {
		return nil, &gosdba.ShapeError{Param: "means", Want: d.NVars(), Got: len(means)}
	}
	if len(stds) != d.NVars() {
		return nil, &gosdba.ShapeError{Param: "stds", Want: d.NVars(), Got: len(stds)}
	}
	out := d.Copy()
	for j := 0; j < d.NVars(); j++ {
		for i := 0; i < d.Len(); i++ {
			v := d.Data.At(i, j)
			if stds[j] > 0 {
				v *= stds[j]
			}
			out.Data.Set(i, j, v+means[j])
		}
	}
	return out, nil
}

// JitterUnderThresh replaces values strictly under thresh by uniform noise
// in (0, thresh), making multiplicative adjustment safe for zero-inflated
// variables such as precipitation. The random source is injected for
// reproducibility.
func JitterUnderThresh(s *timeseries.Series, thresh float64, rng *rand.Rand) (*timeseries.Series, error) {
	if thresh <= 0 {
		return nil, &gosdba.ConfigurationError{Param: "thresh", Value: thresh,
			Msg: "threshold must be positive"}
	}
	out := make([]float64, s.Len())
	for i, v := range s.Values {
		if v < thresh {
			u := rng.Float64()
			for u == 0 {
				u = rng.Float64()
			}
			out[i] = u * thresh
		} else {
			out[i] = v
		}
	}
	return s.WithValues(out)
}
