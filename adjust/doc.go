// Package adjust implements train-adjust bias correction algorithms.
//
// Every algorithm follows the same two-step scheme: Train estimates
// adjustment factors between a reference series (ref) and a historical
// simulation (hist), independently for each temporal group; Adjust applies
// the trained factors to a simulation (sim), which may be a future period.
// An adjuster trains exactly once and can adjust repeatedly; Adjust before
// Train fails with NotTrainedError.
//
// # Algorithms
//
//   - Scaling: per-group difference or ratio of means
//   - EQM: empirical quantile mapping, factors indexed by the historical
//     quantile curve
//   - DQM: detrended quantile mapping, EQM on anomalies with the
//     simulated trend removed and restored
//   - QDM: quantile delta mapping, factors indexed by the simulated
//     quantile rank, preserving the simulated trend per quantile
//
// # Usage
//
//	cfg := adjust.DefaultConfig()
//	cfg.Grouper, _ = grouping.New(grouping.KeyMonth, 0)
//	cfg.Kind = gosdba.Multiplicative
//	qdm, err := adjust.NewQDM(cfg)
//	if err := qdm.Train(ctx, ref, hist); err != nil { ... }
//	res, err := qdm.Adjust(ctx, sim)
//
// Factors between trained quantile nodes are interpolated (nearest or
// linear); with linear interpolation and periodic grouping, factors are
// additionally blended between adjacent group labels so the adjusted series
// has no discontinuities at group boundaries. Values outside the trained
// quantile range follow the configured extrapolation policy.
//
// # Persistence
//
// The trained state is exported as a Dataset and can be reconstructed with
// FromDataset. Datasets embed a schema version; reconstruction from a
// different revision fails with a ConfigurationError, there is no
// cross-version migration.
package adjust
