// Package window implements the moving yearly window transform.
//
// Adjusting a long simulation against a shorter reference in one pass
// distorts long-range statistics. The moving yearly window scheme instead
// cuts the simulation into overlapping windows of whole years, adjusts each
// window independently, and reassembles the result from the central years of
// each window, where the adjustment is least affected by window edges.
//
// # Construct and Unpack
//
//	stack, err := window.Construct(sim, 31, 5, 365) // 31-year windows, 5 years apart
//	for _, inst := range stack.Instances {
//	    // adjust inst in place of its values; the synthetic axis hides
//	    // the absolute year
//	}
//	scen, err := stack.Unpack()
//
// Construct requires a uniformly spaced axis with fixed-length years; with
// daily data use 365 samples per year on a no-leap calendar. Unpack keeps
// the central step years of every instance, so the output is shorter than
// the input span by window-step years split across both ends. Trailing
// years that do not complete a window are dropped.
package window
