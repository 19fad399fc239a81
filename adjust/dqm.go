package adjust

import (
	"context"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/detrend"
	"github.com/sartorproj/gosdba/grouping"
	"github.com/sartorproj/gosdba/timeseries"
)

// DQM is detrended quantile mapping. Factors are trained between anomalies
// of ref and hist relative to their group means; at adjust time the
// simulation is mean-scaled, detrended with a polynomial fit, mapped by
// quantile rank like QDM, and retrended.
type DQM struct {
	cfg         *Config
	trendDegree int
	ds          *Dataset
}

// NewDQM creates an untrained detrended quantile mapping. trendDegree is
// the degree of the polynomial removed from the simulation before mapping;
// degree 1 removes a linear trend.
func NewDQM(cfg *Config, trendDegree int) (*DQM, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.clone()
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	if trendDegree < 0 {
		return nil, &gosdba.ConfigurationError{Param: "trendDegree", Value: trendDegree,
			Msg: "trend degree cannot be negative"}
	}
	return &DQM{cfg: cfg, trendDegree: trendDegree}, nil
}

// Train computes per-group mean scaling factors and quantile-wise factors
// between the anomalies of ref and hist.
func (a *DQM) Train(ctx context.Context, ref, hist *timeseries.Series) error {
	if a.ds != nil {
		return &gosdba.DomainError{Op: "dqm.train", Msg: "already trained"}
	}
	qt, err := trainQuantileFactors(ctx, "dqm.train", a.cfg, ref, hist, true)
	if err != nil {
		return err
	}
	a.ds = &Dataset{
		Algorithm:      "DQM",
		Version:        SchemaVersion,
		Kind:           a.cfg.Kind,
		Group:          a.cfg.Grouper.Key,
		Window:         a.cfg.Grouper.Window,
		Interp:         a.cfg.Interp,
		Extrapolation:  a.cfg.Extrapolation,
		Quantiles:      qt.nodes,
		Factors:        qt.factors,
		ScalingFactors: qt.scaling,
		TrendDegree:    a.trendDegree,
	}
	return nil
}

// Adjust mean-scales sim onto the reference level, removes its polynomial
// trend, maps the anomalies by quantile rank and restores the trend.
func (a *DQM) Adjust(ctx context.Context, sim *timeseries.Series) (*Result, error) {
	if a.ds == nil {
		return nil, &gosdba.NotTrainedError{Algorithm: "DQM"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Scale the simulation onto the reference level group by group.
	scaled := make([]float64, sim.Len())
	for i, v := range sim.Values {
		f, err := blendedFactor("dqm.adjust", a.cfg, sim.Timestamps[i],
			func(label int) (float64, bool, error) {
				sf, ok := a.ds.ScalingFactors[label]
				return sf, ok, nil
			})
		if err != nil {
			return nil, err
		}
		scaled[i] = a.cfg.Kind.Apply(v, f)
	}
	scaledSeries, err := sim.WithValues(scaled)
	if err != nil {
		return nil, err
	}

	// Remove the long-term polynomial trend so the mapping sees anomalies
	// on the same footing as the training data.
	wholeSeries, _ := grouping.New(grouping.KeyTime, 0)
	det, err := detrend.NewPoly(wholeSeries, a.ds.TrendDegree, a.cfg.Kind)
	if err != nil {
		return nil, err
	}
	det, err = det.Fit(scaledSeries)
	if err != nil {
		return nil, err
	}
	anoms, err := det.Detrend(scaledSeries)
	if err != nil {
		return nil, err
	}

	anomGroups := sortedGroupValues(a.cfg, anoms)

	out := make([]float64, anoms.Len())
	var ranks []float64
	if a.cfg.Verbose {
		ranks = make([]float64, anoms.Len())
	}
	for i, v := range anoms.Values {
		rank := rankWithin(anomGroups[a.cfg.Grouper.Label(anoms.Timestamps[i])], v)
		if ranks != nil {
			ranks[i] = rank
		}
		f, err := blendedFactor("dqm.adjust", a.cfg, anoms.Timestamps[i],
			func(label int) (float64, bool, error) {
				af, ok := a.ds.Factors[label]
				if !ok {
					return 0, false, nil
				}
				f, err := interpFactor("dqm.adjust", a.ds.Quantiles, af, rank,
					a.cfg.Interp, a.cfg.Extrapolation)
				return f, true, err
			})
		if err != nil {
			return nil, err
		}
		out[i] = a.cfg.Kind.Apply(v, f)
	}

	mapped, err := anoms.WithValues(out)
	if err != nil {
		return nil, err
	}
	scen, err := det.Retrend(mapped)
	if err != nil {
		return nil, err
	}
	return &Result{Scen: scen, Ranks: ranks}, nil
}

// Dataset exports the trained state, or nil when untrained.
func (a *DQM) Dataset() *Dataset {
	return a.ds.Copy()
}
