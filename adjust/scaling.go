package adjust

import (
	"context"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

// Scaling adjusts a simulation by the per-group difference (additive) or
// ratio (multiplicative) between the reference and historical means.
type Scaling struct {
	cfg *Config
	ds  *Dataset
}

// NewScaling creates an untrained mean-scaling adjustment.
func NewScaling(cfg *Config) (*Scaling, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.clone()
	if err := cfg.validate(false); err != nil {
		return nil, err
	}
	return &Scaling{cfg: cfg}, nil
}

// Train computes the per-group mean scaling factor between ref and hist.
func (a *Scaling) Train(ctx context.Context, ref, hist *timeseries.Series) error {
	if a.ds != nil {
		return &gosdba.DomainError{Op: "scaling.train", Msg: "already trained"}
	}
	labels, refIdx, histIdx, err := trainingGroups("scaling.train", a.cfg, ref, hist)
	if err != nil {
		return err
	}

	factors := make([]float64, len(labels))
	err = forEachGroup(ctx, labels, func(k, label int) error {
		factors[k] = a.cfg.Kind.Factor(
			groupMean(ref.Values, refIdx[label]),
			groupMean(hist.Values, histIdx[label]),
		)
		return nil
	})
	if err != nil {
		return err
	}

	ds := &Dataset{
		Algorithm:     "Scaling",
		Version:       SchemaVersion,
		Kind:          a.cfg.Kind,
		Group:         a.cfg.Grouper.Key,
		Window:        a.cfg.Grouper.Window,
		Interp:        a.cfg.Interp,
		Extrapolation: a.cfg.Extrapolation,
		Factors:       make(map[int][]float64, len(labels)),
	}
	for k, label := range labels {
		ds.Factors[label] = []float64{factors[k]}
	}
	a.ds = ds
	return nil
}

// Adjust applies the trained scaling factors to sim.
func (a *Scaling) Adjust(ctx context.Context, sim *timeseries.Series) (*Result, error) {
	if a.ds == nil {
		return nil, &gosdba.NotTrainedError{Algorithm: "Scaling"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]float64, sim.Len())
	for i, v := range sim.Values {
		f, err := blendedFactor("scaling.adjust", a.cfg, sim.Timestamps[i],
			func(label int) (float64, bool, error) {
				fs, ok := a.ds.Factors[label]
				if !ok {
					return 0, false, nil
				}
				return fs[0], true, nil
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
func (a *Scaling) Dataset() *Dataset {
	return a.ds.Copy()
}
