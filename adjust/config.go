// Package adjust implements train-adjust bias correction algorithms.
package adjust

import (
	"context"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/grouping"
	"github.com/sartorproj/gosdba/timeseries"
)

// Interp selects how adjustment factors are interpolated between trained
// quantile nodes and, for periodic grouping, between adjacent group labels.
type Interp string

const (
	InterpNearest Interp = "nearest"
	InterpLinear  Interp = "linear"
)

// Extrapolation selects the policy for simulated values outside the trained
// quantile range. Constant clips to the nearest trained factor; Error fails
// the adjustment on the first out-of-range value. Any other policy is
// unsupported.
type Extrapolation string

const (
	ExtrapConstant Extrapolation = "constant"
	ExtrapError    Extrapolation = "error"
)

// Config holds the shared configuration of all adjustment algorithms.
type Config struct {
	Grouper       *grouping.Grouper
	Kind          gosdba.Kind
	NQuantiles    int // quantile node count; ignored by Scaling
	Interp        Interp
	Extrapolation Extrapolation
	Verbose       bool // attach per-point quantile ranks to results
}

// DefaultConfig returns additive whole-series adjustment with 50 quantile
// nodes, linear interpolation and constant extrapolation.
func DefaultConfig() *Config {
	g, _ := grouping.New(grouping.KeyTime, 0)
	return &Config{
		Grouper:       g,
		Kind:          gosdba.Additive,
		NQuantiles:    50,
		Interp:        InterpLinear,
		Extrapolation: ExtrapConstant,
	}
}

func (c *Config) validate(needQuantiles bool) error {
	if c.Grouper == nil {
		return &gosdba.ConfigurationError{Param: "grouper", Value: nil,
			Msg: "a grouper is required"}
	}
	if !c.Kind.Valid() {
		return &gosdba.ConfigurationError{Param: "kind", Value: string(c.Kind),
			Msg: "kind must be additive or multiplicative"}
	}
	if needQuantiles && c.NQuantiles < 1 {
		return &gosdba.ConfigurationError{Param: "nquantiles", Value: c.NQuantiles,
			Msg: "at least one quantile node is required"}
	}
	if c.Interp != InterpNearest && c.Interp != InterpLinear {
		return &gosdba.ConfigurationError{Param: "interp", Value: string(c.Interp),
			Msg: "interp must be nearest or linear"}
	}
	if c.Extrapolation != ExtrapConstant && c.Extrapolation != ExtrapError {
		return &gosdba.UnsupportedExtrapolationError{Method: string(c.Extrapolation)}
	}
	return nil
}

func (c *Config) clone() *Config {
	cc := *c
	return &cc
}

// Result carries an adjusted series and, when verbose diagnostics are
// enabled, the per-point quantile rank used for the factor lookup.
type Result struct {
	Scen  *timeseries.Series
	Ranks []float64
}

// Adjuster is the train-adjust state machine shared by all algorithms. An
// Adjuster is created untrained; Train transitions it to trained exactly
// once, after which Adjust may be called repeatedly. Inputs are never
// mutated.
type Adjuster interface {
	// Train estimates adjustment factors between a reference and a
	// historical simulation. It either fully succeeds or leaves the
	// adjuster untrained.
	Train(ctx context.Context, ref, hist *timeseries.Series) error

	// Adjust applies the trained factors to a simulation.
	Adjust(ctx context.Context, sim *timeseries.Series) (*Result, error)

	// Dataset exports the trained state, or nil when untrained.
	Dataset() *Dataset
}
