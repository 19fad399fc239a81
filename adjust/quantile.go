package adjust

import (
	"context"

	"github.com/sartorproj/gosdba/timeseries"
)

// quantileTraining holds the per-group results of quantile-factor training.
type quantileTraining struct {
	nodes   []float64
	factors map[int][]float64
	histQ   map[int][]float64
	scaling map[int]float64
}

// trainQuantileFactors computes, per group, nquantiles empirical quantiles
// of ref and hist and the quantile-wise factor mapping hist onto ref. With
// normalize set, both series are first reduced to anomalies from their
// group mean and the mean scaling factors are returned alongside.
func trainQuantileFactors(ctx context.Context, op string, cfg *Config, ref, hist *timeseries.Series, normalize bool) (*quantileTraining, error) {
	labels, refIdx, histIdx, err := trainingGroups(op, cfg, ref, hist)
	if err != nil {
		return nil, err
	}

	nodes := quantileNodes(cfg.NQuantiles)
	factors := make([][]float64, len(labels))
	histQs := make([][]float64, len(labels))
	scalings := make([]float64, len(labels))

	err = forEachGroup(ctx, labels, func(k, label int) error {
		refV := gather(ref.Values, refIdx[label])
		histV := gather(hist.Values, histIdx[label])

		if normalize {
			refMean := groupMean(ref.Values, refIdx[label])
			histMean := groupMean(hist.Values, histIdx[label])
			scalings[k] = cfg.Kind.Factor(refMean, histMean)
			for i := range refV {
				refV[i] = cfg.Kind.Invert(refV[i], refMean)
			}
			for i := range histV {
				histV[i] = cfg.Kind.Invert(histV[i], histMean)
			}
		}

		refQ := timeseries.Quantiles(refV, nodes)
		histQ := timeseries.Quantiles(histV, nodes)
		af := make([]float64, len(nodes))
		for i := range nodes {
			af[i] = cfg.Kind.Factor(refQ[i], histQ[i])
		}
		factors[k] = af
		histQs[k] = histQ
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &quantileTraining{
		nodes:   nodes,
		factors: make(map[int][]float64, len(labels)),
		histQ:   make(map[int][]float64, len(labels)),
	}
	if normalize {
		out.scaling = make(map[int]float64, len(labels))
	}
	for k, label := range labels {
		out.factors[label] = factors[k]
		out.histQ[label] = histQs[k]
		if normalize {
			out.scaling[label] = scalings[k]
		}
	}
	return out, nil
}

// sortedGroupValues returns, for each group label, the ascending values of
// the group's windowed members, for quantile rank lookups.
func sortedGroupValues(cfg *Config, s *timeseries.Series) map[int][]float64 {
	idx := cfg.Grouper.WindowedIndices(s.Timestamps)
	out := make(map[int][]float64, len(idx))
	for label, members := range idx {
		out[label] = sortedCopy(gather(s.Values, members))
	}
	return out
}
