package adjust

import (
	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/grouping"
)

// SchemaVersion is the current layout version of exported training
// datasets. Reconstruction from a dataset written by a different version
// fails fast; there is no cross-version migration, callers must re-train.
const SchemaVersion = 1

// Dataset is the exported training state of an adjustment algorithm: the
// per-group factors plus the scalar attributes needed to reconstruct a
// trained adjuster. It is immutable once trained; accessors return copies.
type Dataset struct {
	Algorithm     string
	Version       int
	Kind          gosdba.Kind
	Group         grouping.Key
	Window        int
	Interp        Interp
	Extrapolation Extrapolation

	// Quantiles holds the cumulative probabilities of the factor nodes;
	// nil for Scaling.
	Quantiles []float64

	// Factors maps each group label to its per-quantile adjustment
	// factors (a single element for Scaling).
	Factors map[int][]float64

	// HistQuantiles maps each group label to the trained quantile values
	// of hist, used by EQM to place simulated values. Nil otherwise.
	HistQuantiles map[int][]float64

	// ScalingFactors maps each group label to the mean scaling applied
	// before quantile mapping by DQM. Nil otherwise.
	ScalingFactors map[int]float64

	// TrendDegree is the polynomial degree DQM uses to detrend the
	// simulation at adjust time.
	TrendDegree int
}

// Copy returns a deep copy of the dataset.
func (d *Dataset) Copy() *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	out.Quantiles = append([]float64(nil), d.Quantiles...)
	out.Factors = copyFactorMap(d.Factors)
	out.HistQuantiles = copyFactorMap(d.HistQuantiles)
	if d.ScalingFactors != nil {
		out.ScalingFactors = make(map[int]float64, len(d.ScalingFactors))
		for k, v := range d.ScalingFactors {
			out.ScalingFactors[k] = v
		}
	}
	return &out
}

func copyFactorMap(m map[int][]float64) map[int][]float64 {
	if m == nil {
		return nil
	}
	out := make(map[int][]float64, len(m))
	for k, v := range m {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

// FromDataset reconstructs a trained adjuster from an exported dataset.
// The dataset's schema version and algorithm tag must match a known
// revision; on mismatch reconstruction fails with a ConfigurationError
// rather than silently producing wrong results.
func FromDataset(ds *Dataset) (Adjuster, error) {
	if ds == nil {
		return nil, &gosdba.ConfigurationError{Param: "dataset", Value: nil,
			Msg: "a dataset is required"}
	}
	if ds.Version != SchemaVersion {
		return nil, &gosdba.ConfigurationError{Param: "version", Value: ds.Version,
			Msg: "dataset schema version mismatch; re-train with this revision"}
	}

	g, err := grouping.New(ds.Group, ds.Window)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Grouper:       g,
		Kind:          ds.Kind,
		NQuantiles:    len(ds.Quantiles),
		Interp:        ds.Interp,
		Extrapolation: ds.Extrapolation,
	}

	switch ds.Algorithm {
	case "Scaling":
		a, err := NewScaling(cfg)
		if err != nil {
			return nil, err
		}
		a.ds = ds.Copy()
		return a, nil
	case "EQM":
		a, err := NewEQM(cfg)
		if err != nil {
			return nil, err
		}
		a.ds = ds.Copy()
		return a, nil
	case "DQM":
		a, err := NewDQM(cfg, ds.TrendDegree)
		if err != nil {
			return nil, err
		}
		a.ds = ds.Copy()
		return a, nil
	case "QDM":
		a, err := NewQDM(cfg)
		if err != nil {
			return nil, err
		}
		a.ds = ds.Copy()
		return a, nil
	}
	return nil, &gosdba.ConfigurationError{Param: "algorithm", Value: ds.Algorithm,
		Msg: "unknown adjustment algorithm"}
}
