// Package processing provides preprocessing utilities for bias adjustment.
//
// These transforms run before and after the adjustment proper: jittering
// makes zero-inflated variables safe for multiplicative mapping,
// standardization puts variables on a common scale for the multivariate
// transform, and stacking concatenates separate variables into the joint
// time-by-variable dataset that the N-pdf transform consumes.
//
//	pr, _ := processing.JitterUnderThresh(pr, 0.1, rng)
//	joint, _ := processing.Stack(tas, pr)
//	std, means, stds := processing.Standardize(joint)
//	// ... npdf.Transform on std ...
//	back, _ := processing.Destandardize(std, means, stds)
//
// Standardization statistics are returned to the caller so the
// reconstruction is exact.
package processing
