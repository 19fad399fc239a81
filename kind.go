package gosdba

// Kind selects between additive and multiplicative adjustment. Additive
// suits unbounded variables such as temperature; multiplicative suits
// variables bounded below by zero such as precipitation.
type Kind string

const (
	Additive       Kind = "+"
	Multiplicative Kind = "*"
)

// Valid reports whether k is a recognized adjustment kind.
func (k Kind) Valid() bool {
	return k == Additive || k == Multiplicative
}

// Factor returns the adjustment factor mapping hist onto ref:
// ref-hist for additive, ref/hist for multiplicative.
func (k Kind) Factor(ref, hist float64) float64 {
	if k == Multiplicative {
		return ref / hist
	}
	return ref - hist
}

// Apply applies an adjustment factor to x.
func (k Kind) Apply(x, factor float64) float64 {
	if k == Multiplicative {
		return x * factor
	}
	return x + factor
}

// Invert undoes Apply: Invert(Apply(x, f), f) == x.
func (k Kind) Invert(x, factor float64) float64 {
	if k == Multiplicative {
		return x / factor
	}
	return x - factor
}
