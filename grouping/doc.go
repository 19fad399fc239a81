// Package grouping partitions time-indexed data into temporal groups.
//
// Adjustment factors in bias correction are estimated independently per
// group of timestamps sharing a discrete temporal label: the calendar month,
// the season, the day of the year, or a single global group covering the
// whole series. A Grouper owns the grouping key and an optional window width
// that pads each group with members of adjacent labels, wrapping circularly
// at period boundaries (day 366 windows wrap to day 1).
//
// # Grouping timestamps
//
// Partition a time axis by calendar month:
//
//	g, err := grouping.New(grouping.KeyMonth, 0)
//	idx := g.Indices(series.Timestamps) // label -> member indices
//
// Pad day-of-year groups with a 31-day circular window:
//
//	g, err = grouping.New(grouping.KeyDayOfYear, 31)
//	idx = g.WindowedIndices(series.Timestamps)
//
// # Interpolating between groups
//
// Linear interpolation of per-group factors treats each label as the center
// of its group; Blend locates a timestamp between the two nearest label
// centers:
//
//	lo, hi, w := g.Blend(t)
//	f := (1-w)*factors[lo] + w*factors[hi]
//
// A timestamp exactly at a group boundary (for instance May 1st under
// monthly grouping) receives the mean of the two adjacent groups' factors.
package grouping
