// Package gosdba provides statistical downscaling and bias adjustment of
// climate model simulations against observational references.
//
// GoSDBA implements the train-adjust scheme used in bias correction: given a
// reference series (ref), a historical simulation (hist) and a simulation to
// be adjusted (sim), adjustment factors are first estimated between hist and
// ref, then applied to sim. All adjustment methods estimate their factors
// independently per temporal group (months, seasons, days of the year or the
// whole series) and can interpolate factors between groups to avoid
// discontinuities in the adjusted output.
//
// # Features
//
//   - Mean scaling, empirical quantile mapping (EQM), detrended quantile
//     mapping (DQM) and quantile delta mapping (QDM)
//   - Temporal grouping with circular windows (day-of-year, month, season)
//   - Polynomial and LOESS detrending
//   - Moving yearly windows for adjusting long simulations piecewise
//   - Multivariate bias adjustment (MBCn) with an energy-distance
//     convergence diagnostic
//   - Preprocessing utilities: jittering, standardization, variable stacking
//
// # Quick Start
//
// Train a quantile delta mapping on monthly groups and adjust a simulation:
//
//	cfg := adjust.DefaultConfig()
//	cfg.Grouper, _ = grouping.New(grouping.KeyMonth, 0)
//	qdm, _ := adjust.NewQDM(cfg)
//	qdm.Train(ctx, ref, hist)
//	res, _ := qdm.Adjust(ctx, sim)
//	scen := res.Scen
//
// Run the multivariate MBCn transform on two stacked variables:
//
//	refD, _ := processing.Stack(refTas, refPr)
//	histD, _ := processing.Stack(histTas, histPr)
//	simD, _ := processing.Stack(simTas, simPr)
//	out, _ := npdf.Transform(ctx, refD, histD, simD, npdf.DefaultOptions())
//
// # Packages
//
// The library is organized into the following packages:
//
//   - adjust: Scaling, EQM, DQM and QDM trainer-adjusters
//   - grouping: temporal grouping keys and circular windows
//   - detrend: polynomial and LOESS detrending
//   - loess: locally weighted regression smoother
//   - window: moving yearly window construction and unpacking
//   - npdf: multivariate N-pdf transform (MBCn) and rank reordering
//   - processing: jittering, standardization and variable stacking
//   - timeseries: time series data structures and utilities
//
// # References
//
//   - Cannon, A.J., Sobie, S.R., & Murdock, T.Q. (2015). Bias correction of
//     GCM precipitation by quantile mapping. Journal of Climate, 28(17)
//   - Cannon, A.J. (2018). Multivariate quantile mapping bias correction.
//     Climate Dynamics, 50
package gosdba
