package npdf

import (
	"sort"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/grouping"
	"github.com/sartorproj/gosdba/timeseries"
)

// Reorder rearranges the values of scen, per group, into the relative rank
// order of the values of like. This is the MBCn post-step: the converged
// working arrays supply the joint-dependency structure through their ranks,
// while the univariate-adjusted scenario supplies the values and keeps its
// trend. Ties in like are broken by original index order.
func Reorder(scen, like *timeseries.Series, g *grouping.Grouper) (*timeseries.Series, error) {
	if like.Len() != scen.Len() {
		return nil, &gosdba.ShapeError{Param: "like", Want: scen.Len(), Got: like.Len()}
	}
	if !scen.SameAxis(like) {
		return nil, &gosdba.DomainError{Op: "npdf.reorder",
			Msg: "scen and like must share one time axis"}
	}
	if g == nil {
		g, _ = grouping.New(grouping.KeyTime, 0)
	}

	out := make([]float64, scen.Len())
	for _, members := range g.Indices(scen.Timestamps) {
		// Positions within the group ordered by the like values, stable in
		// the original index order.
		order := make([]int, len(members))
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(a, b int) bool {
			return like.Values[members[order[a]]] < like.Values[members[order[b]]]
		})

		vals := make([]float64, len(members))
		for k, i := range members {
			vals[k] = scen.Values[i]
		}
		sort.Float64s(vals)

		for r, k := range order {
			out[members[k]] = vals[r]
		}
	}
	return scen.WithValues(out)
}
