// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gosdba"
)

// Series represents a time series with timestamps and values. The time axis
// is sorted ascending with no duplicate timestamps; values may carry a
// physical unit tag.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
	Units      string
}

// New creates a daily series starting at 2000-01-01 UTC. The synthetic axis
// uses uniform 24h steps, so every year spans exactly 365 samples.
func New(values []float64) *Series {
	return NewDaily(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), values)
}

// NewDaily creates a daily series with uniform 24h steps from start.
func NewDaily(start time.Time, values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.Add(time.Duration(i) * 24 * time.Hour)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps. The
// timestamps must be sorted ascending without duplicates.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, &gosdba.ShapeError{Param: "values", Want: len(timestamps), Got: len(values)}
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, &gosdba.DomainError{Op: "timeseries.NewWithTimestamps",
				Msg: "time axis must be sorted ascending without duplicates"}
		}
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.StdDev(s.Values, nil)
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Quantiles returns the empirical quantiles of the series at the given
// cumulative probabilities, each in [0, 1].
func (s *Series) Quantiles(ps []float64) []float64 {
	return Quantiles(s.Values, ps)
}

// Quantiles returns the empirical quantiles of values at the given
// cumulative probabilities.
func Quantiles(values, ps []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return out
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name, Units: s.Units}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, end-start)
	copy(timestamps, s.Timestamps[start:end])

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
		Units:      s.Units,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
		Units:      s.Units,
	}
}

// WithValues returns a new series sharing this series' time axis, name and
// units but carrying the given values.
func (s *Series) WithValues(values []float64) (*Series, error) {
	if len(values) != len(s.Timestamps) {
		return nil, &gosdba.ShapeError{Param: "values", Want: len(s.Timestamps), Got: len(values)}
	}
	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
		Units:      s.Units,
	}, nil
}

// UniformStep returns the sampling step of the series and whether the time
// axis is uniformly spaced. Series shorter than two samples report a zero
// step and true.
func (s *Series) UniformStep() (time.Duration, bool) {
	if len(s.Timestamps) < 2 {
		return 0, true
	}
	step := s.Timestamps[1].Sub(s.Timestamps[0])
	for i := 2; i < len(s.Timestamps); i++ {
		if s.Timestamps[i].Sub(s.Timestamps[i-1]) != step {
			return 0, false
		}
	}
	return step, true
}

// SameAxis reports whether the two series share an identical time axis.
func (s *Series) SameAxis(other *Series) bool {
	if len(s.Timestamps) != len(other.Timestamps) {
		return false
	}
	for i := range s.Timestamps {
		if !s.Timestamps[i].Equal(other.Timestamps[i]) {
			return false
		}
	}
	return true
}
