// Package window implements moving yearly window transforms.
package window

import (
	"time"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

// Stack is a series cut into overlapping yearly windows. Each instance is
// re-indexed onto a common synthetic time axis, so the absolute year of a
// sample is not observable from inside an instance and adjustment
// algorithms cannot depend on it. A Stack is ephemeral: it exists between
// Construct and Unpack.
type Stack struct {
	Window         int // window length in years
	Step           int // years between successive window starts
	SamplesPerYear int
	Instances      []*timeseries.Series

	start time.Time // real timestamp of the first sample of the series
	step  time.Duration
	name  string
	units string
}

// Construct cuts a series into overlapping windows of `window` years whose
// starts are `step` years apart. The series must have a uniformly spaced
// time axis with fixed-length years of samplesPerYear samples; calendars
// with variable year lengths are rejected. Trailing years beyond the last
// full window do not form an instance and are lost at Unpack.
func Construct(s *timeseries.Series, window, step, samplesPerYear int) (*Stack, error) {
	if window < 1 {
		return nil, &gosdba.ConfigurationError{Param: "window", Value: window,
			Msg: "window must be at least one year"}
	}
	if step < 1 {
		return nil, &gosdba.ConfigurationError{Param: "step", Value: step,
			Msg: "step must be at least one year"}
	}
	if step > window {
		return nil, &gosdba.ConfigurationError{Param: "step", Value: step,
			Msg: "step cannot exceed window"}
	}
	if samplesPerYear < 1 {
		return nil, &gosdba.ConfigurationError{Param: "samplesPerYear", Value: samplesPerYear,
			Msg: "samplesPerYear must be positive"}
	}
	dt, uniform := s.UniformStep()
	if !uniform {
		return nil, &gosdba.ConfigurationError{Param: "series", Value: s.Name,
			Msg: "moving windows require a uniform calendar with fixed-length years"}
	}

	years := s.Len() / samplesPerYear
	if years < window {
		return nil, &gosdba.ConfigurationError{Param: "window", Value: window,
			Msg: "series spans fewer years than one window"}
	}

	// Synthetic axis shared by all instances.
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	var instances []*timeseries.Series
	for startYear := 0; startYear+window <= years; startYear += step {
		lo := startYear * samplesPerYear
		hi := lo + window*samplesPerYear
		values := make([]float64, hi-lo)
		copy(values, s.Values[lo:hi])
		inst := &timeseries.Series{
			Timestamps: syntheticAxis(base, dt, hi-lo),
			Values:     values,
			Name:       s.Name,
			Units:      s.Units,
		}
		instances = append(instances, inst)
	}

	return &Stack{
		Window:         window,
		Step:           step,
		SamplesPerYear: samplesPerYear,
		Instances:      instances,
		start:          s.Timestamps[0],
		step:           dt,
		name:           s.Name,
		units:          s.Units,
	}, nil
}

// Unpack keeps the central `step` years of every window instance and
// concatenates them back onto the real time axis. The result is shorter
// than the constructed span by ceil((window-step)/2) years at the start and
// floor((window-step)/2) years at the end; the odd year of an uneven
// overlap is lost on the end side.
func (st *Stack) Unpack() (*timeseries.Series, error) {
	if len(st.Instances) == 0 {
		return nil, &gosdba.DomainError{Op: "window.unpack", Msg: "stack holds no instances"}
	}

	spy := st.SamplesPerYear
	startDrop := (st.Window - st.Step + 1) / 2
	lo := startDrop * spy
	hi := lo + st.Step*spy

	var values []float64
	for _, inst := range st.Instances {
		if inst.Len() != st.Window*spy {
			return nil, &gosdba.DomainError{Op: "window.unpack",
				Msg: "instance length does not match the stack geometry"}
		}
		values = append(values, inst.Values[lo:hi]...)
	}

	// The output starts startDrop years into the original series.
	first := st.start.Add(time.Duration(startDrop*spy) * st.step)
	out := &timeseries.Series{
		Timestamps: syntheticAxis(first, st.step, len(values)),
		Values:     values,
		Name:       st.name,
		Units:      st.units,
	}
	return out, nil
}

func syntheticAxis(start time.Time, step time.Duration, n int) []time.Time {
	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = start.Add(time.Duration(i) * step)
	}
	return ts
}
