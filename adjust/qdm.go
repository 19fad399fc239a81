package adjust

import (
	"context"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

// QDM is quantile delta mapping. Unlike EQM, the factor applied to a
// simulated value is conditioned on the value's quantile rank within the
// simulation itself rather than within hist, which preserves the simulated
// trend in each quantile instead of re-mapping it onto the historical
// distribution.
type QDM struct {
	cfg *Config
	ds  *Dataset
}

// NewQDM creates an untrained quantile delta mapping.
func NewQDM(cfg *Config) (*QDM, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.clone()
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return &QDM{cfg: cfg}, nil
}

// Train computes per-group quantile-wise factors between ref and hist.
func (a *QDM) Train(ctx context.Context, ref, hist *timeseries.Series) error {
	if a.ds != nil {
		return &gosdba.DomainError{Op: "qdm.train", Msg: "already trained"}
	}
	qt, err := trainQuantileFactors(ctx, "qdm.train", a.cfg, ref, hist, false)
	if err != nil {
		return err
	}
	a.ds = &Dataset{
		Algorithm:     "QDM",
		Version:       SchemaVersion,
		Kind:          a.cfg.Kind,
		Group:         a.cfg.Grouper.Key,
		Window:        a.cfg.Grouper.Window,
		Interp:        a.cfg.Interp,
		Extrapolation: a.cfg.Extrapolation,
		Quantiles:     qt.nodes,
		Factors:       qt.factors,
	}
	return nil
}

// Adjust computes each simulated value's quantile rank within its own
// group and applies the factor interpolated at that rank.
func (a *QDM) Adjust(ctx context.Context, sim *timeseries.Series) (*Result, error) {
	if a.ds == nil {
		return nil, &gosdba.NotTrainedError{Algorithm: "QDM"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	simGroups := sortedGroupValues(a.cfg, sim)

	out := make([]float64, sim.Len())
	var ranks []float64
	if a.cfg.Verbose {
		ranks = make([]float64, sim.Len())
	}
	for i, v := range sim.Values {
		rank := rankWithin(simGroups[a.cfg.Grouper.Label(sim.Timestamps[i])], v)
		if ranks != nil {
			ranks[i] = rank
		}
		f, err := blendedFactor("qdm.adjust", a.cfg, sim.Timestamps[i],
			func(label int) (float64, bool, error) {
				af, ok := a.ds.Factors[label]
				if !ok {
					return 0, false, nil
				}
				f, err := interpFactor("qdm.adjust", a.ds.Quantiles, af, rank,
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
	return &Result{Scen: scen, Ranks: ranks}, nil
}

// Dataset exports the trained state, or nil when untrained.
func (a *QDM) Dataset() *Dataset {
	return a.ds.Copy()
}
