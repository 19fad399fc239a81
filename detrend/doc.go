// Package detrend fits, removes and restores trends in time series.
//
// Quantile mapping assumes a stationary relationship between reference and
// simulation; removing the long-term trend before adjustment and restoring
// it afterwards keeps the mapping from confusing trend with bias. Trends are
// estimated per temporal group and removed additively (series - trend) or
// multiplicatively (series / trend).
//
// # Fitting and removing a trend
//
//	g, _ := grouping.New(grouping.KeyTime, 0)
//	det, _ := detrend.NewPoly(g, 1, gosdba.Additive)
//	det, err := det.Fit(series)
//	anoms, err := det.Detrend(series)
//	// ... adjust anoms ...
//	restored, err := det.Retrend(anoms)
//
// Fit returns a new fitted instance and never mutates in place, so a fitted
// Detrender can be shared safely. For any series on the fitted time axis,
// Retrend(Detrend(s)) reproduces s to numerical precision. Calling Detrend
// or Retrend on an unfit instance, or with a series on a different time
// axis, fails with a DomainError.
//
// LOESS trends follow the same contract:
//
//	det, _ = detrend.NewLoess(g, loess.DefaultOptions(), gosdba.Additive)
package detrend
