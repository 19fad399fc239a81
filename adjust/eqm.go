package adjust

import (
	"context"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

// EQM is empirical quantile mapping: simulated values are placed on the
// historical quantile curve and shifted by the quantile-wise factor between
// reference and historical distributions.
type EQM struct {
	cfg *Config
	ds  *Dataset
}

// NewEQM creates an untrained empirical quantile mapping.
func NewEQM(cfg *Config) (*EQM, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.clone()
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return &EQM{cfg: cfg}, nil
}

// Train computes per-group empirical quantiles of ref and hist and the
// quantile-wise adjustment factors between them.
func (a *EQM) Train(ctx context.Context, ref, hist *timeseries.Series) error {
	if a.ds != nil {
		return &gosdba.DomainError{Op: "eqm.train", Msg: "already trained"}
	}
	qt, err := trainQuantileFactors(ctx, "eqm.train", a.cfg, ref, hist, false)
	if err != nil {
		return err
	}
	a.ds = &Dataset{
		Algorithm:     "EQM",
		Version:       SchemaVersion,
		Kind:          a.cfg.Kind,
		Group:         a.cfg.Grouper.Key,
		Window:        a.cfg.Grouper.Window,
		Interp:        a.cfg.Interp,
		Extrapolation: a.cfg.Extrapolation,
		Quantiles:     qt.nodes,
		Factors:       qt.factors,
		HistQuantiles: qt.histQ,
	}
	return nil
}

// Adjust maps each simulated value onto the trained historical quantile
// curve of its group and applies the interpolated factor.
func (a *EQM) Adjust(ctx context.Context, sim *timeseries.Series) (*Result, error) {
	if a.ds == nil {
		return nil, &gosdba.NotTrainedError{Algorithm: "EQM"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]float64, sim.Len())
	for i, v := range sim.Values {
		f, err := blendedFactor("eqm.adjust", a.cfg, sim.Timestamps[i],
			func(label int) (float64, bool, error) {
				xs, ok := a.ds.HistQuantiles[label]
				if !ok {
					return 0, false, nil
				}
				f, err := interpFactor("eqm.adjust", xs, a.ds.Factors[label], v,
					a.cfg.Interp, a.cfg.Extrapolation)
				return f, true, err
			})
		if err != nil {
			return nil, err
		}
		out[i] = a.cfg.Kind.Apply(v, f)
	}

	scen, err := sim.WithValues(out)
	if err != nil {
		return nil, err
	}
	return &Result{Scen: scen}, nil
}

// Dataset exports the trained state, or nil when untrained.
func (a *EQM) Dataset() *Dataset {
	return a.ds.Copy()
}
