// Package grouping partitions time series into temporal groups.
package grouping

import (
	"math"
	"time"

	"github.com/sartorproj/gosdba"
)

// Key identifies a temporal grouping. Periodic keys (month, season, day of
// year) wrap around at period boundaries; KeyTime places the whole series in
// a single group.
type Key string

const (
	KeyTime      Key = "time"
	KeyMonth     Key = "time.month"
	KeySeason    Key = "time.season"
	KeyDayOfYear Key = "time.dayofyear"
)

// periods holds the label period of each supported key; 0 means a single
// global group.
var periods = map[Key]int{
	KeyTime:      0,
	KeyMonth:     12,
	KeySeason:    4,
	KeyDayOfYear: 366,
}

// Grouper maps timestamps to discrete group labels and, when a window is
// configured, pads each group with members of adjacent labels.
type Grouper struct {
	Key    Key
	Window int // full window width in label units; 0 selects exact matches only
}

// New creates a Grouper for the given key and window width.
func New(key Key, window int) (*Grouper, error) {
	period, ok := periods[key]
	if !ok {
		return nil, &gosdba.ConfigurationError{Param: "group", Value: string(key),
			Msg: "unsupported grouping key"}
	}
	if window < 0 {
		return nil, &gosdba.ConfigurationError{Param: "window", Value: window,
			Msg: "window cannot be negative"}
	}
	if window > 0 && period == 0 {
		return nil, &gosdba.ConfigurationError{Param: "window", Value: window,
			Msg: "windowing requires a periodic grouping key"}
	}
	if window > 0 && window >= period {
		return nil, &gosdba.ConfigurationError{Param: "window", Value: window,
			Msg: "window must be smaller than the key period"}
	}
	return &Grouper{Key: key, Window: window}, nil
}

// Period returns the number of distinct labels of the grouping key, or 0 for
// the whole-series key.
func (g *Grouper) Period() int {
	return periods[g.Key]
}

// Label returns the group label of a timestamp: 1-12 for months, 1-4 for
// seasons (DJF=1), 1-366 for days of the year, 0 for the whole-series key.
func (g *Grouper) Label(t time.Time) int {
	switch g.Key {
	case KeyMonth:
		return int(t.Month())
	case KeySeason:
		return (int(t.Month())%12)/3 + 1
	case KeyDayOfYear:
		return t.YearDay()
	default:
		return 0
	}
}

// Labels returns the group label of every timestamp.
func (g *Grouper) Labels(ts []time.Time) []int {
	labels := make([]int, len(ts))
	for i, t := range ts {
		labels[i] = g.Label(t)
	}
	return labels
}

// Indices returns, for each group label present in the time axis, the
// indices of its members. With no window this is an exact partition.
func (g *Grouper) Indices(ts []time.Time) map[int][]int {
	out := make(map[int][]int)
	for i, t := range ts {
		l := g.Label(t)
		out[l] = append(out[l], i)
	}
	return out
}

// WindowedIndices returns, for each group label present in the time axis,
// the indices of all timestamps whose label lies within half the window
// width of it, wrapping circularly at period boundaries. With window 0 it
// equals Indices.
func (g *Grouper) WindowedIndices(ts []time.Time) map[int][]int {
	exact := g.Indices(ts)
	if g.Window == 0 {
		return exact
	}

	period := g.Period()
	half := g.Window / 2
	out := make(map[int][]int, len(exact))
	for label := range exact {
		var members []int
		for d := -half; d <= half; d++ {
			l := wrapLabel(label+d, period)
			members = append(members, exact[l]...)
		}
		out[label] = members
	}
	return out
}

// Blend returns the two labels adjacent to t in continuous label space and
// the weight of the upper one, for linear interpolation of per-group
// factors. A timestamp exactly at a group boundary weighs both groups
// equally; labels wrap at period boundaries. For the whole-series key the
// weight is 0 and both labels are 0.
func (g *Grouper) Blend(t time.Time) (lo, hi int, w float64) {
	period := g.Period()
	if period == 0 {
		return 0, 0, 0
	}

	// Continuous coordinate with the label's midpoint at the label value.
	c := float64(g.Label(t)) + g.labelFrac(t) - 0.5
	lof := math.Floor(c)
	w = c - lof
	lo = wrapLabel(int(lof), period)
	hi = wrapLabel(int(lof)+1, period)
	return lo, hi, w
}

// labelFrac returns the position of t inside its own group, in [0, 1).
func (g *Grouper) labelFrac(t time.Time) float64 {
	dayFrac := (float64(t.Hour()) + float64(t.Minute())/60) / 24
	switch g.Key {
	case KeyMonth:
		return (float64(t.Day()-1) + dayFrac) / float64(daysInMonth(t))
	case KeySeason:
		monthsIn := (int(t.Month()) % 12) % 3
		return (float64(monthsIn) + (float64(t.Day()-1)+dayFrac)/float64(daysInMonth(t))) / 3
	case KeyDayOfYear:
		return dayFrac
	default:
		return 0
	}
}

// wrapLabel wraps a 1-based label into [1, period].
func wrapLabel(label, period int) int {
	label = (label - 1) % period
	if label < 0 {
		label += period
	}
	return label + 1
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, 1, -1).Day()
}
