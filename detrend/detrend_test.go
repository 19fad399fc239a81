package detrend

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/grouping"
	"github.com/sartorproj/gosdba/loess"
	"github.com/sartorproj/gosdba/timeseries"
)

func TestPolyFitRecoversLinearTrend(t *testing.T) {
	n := 365 * 4
	values := make([]float64, n)
	for i := range values {
		values[i] = 10 + 0.01*float64(i)
	}
	s := timeseries.New(values)

	d, err := NewPoly(nil, 1, gosdba.Additive)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	fitted, err := d.Fit(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	trend := fitted.Trend()
	for i := range values {
		if math.Abs(trend.Values[i]-values[i]) > 1e-6 {
			t.Fatalf("trend[%d] = %f, want %f", i, trend.Values[i], values[i])
		}
	}

	anom, err := fitted.Detrend(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range anom.Values {
		if math.Abs(v) > 1e-6 {
			t.Fatalf("anomaly[%d] = %f, want 0", i, v)
		}
	}
}

func TestRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	n := 365 * 3
	values := make([]float64, n)
	for i := range values {
		values[i] = 5 + 0.002*float64(i) + rng.NormFloat64()
	}
	s := timeseries.New(values)

	kinds := []gosdba.Kind{gosdba.Additive, gosdba.Multiplicative}
	for _, kind := range kinds {
		in := s
		if kind == gosdba.Multiplicative {
			// Strictly positive data for ratio trends.
			pos := make([]float64, n)
			for i, v := range values {
				pos[i] = math.Abs(v) + 1
			}
			in = timeseries.New(pos)
		}

		d, err := NewPoly(nil, 2, kind)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		fitted, err := d.Fit(in)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		anom, err := fitted.Detrend(in)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		back, err := fitted.Retrend(anom)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for i := range in.Values {
			if math.Abs(back.Values[i]-in.Values[i]) > 1e-9 {
				t.Fatalf("%s roundtrip drifted at %d: %f vs %f",
					kind, i, back.Values[i], in.Values[i])
			}
		}
	}
}

func TestFitDoesNotMutateReceiver(t *testing.T) {
	s := timeseries.New([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	d, err := NewPoly(nil, 1, gosdba.Additive)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	fitted, err := d.Fit(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fitted == d {
		t.Fatal("Fit must return a new instance")
	}
	if d.Trend() != nil {
		t.Error("Fitting must leave the receiver unfit")
	}
	if fitted.Trend() == nil {
		t.Error("The returned instance must be fitted")
	}

	// The unfit receiver still rejects detrending.
	if _, err := d.Detrend(s); err == nil {
		t.Error("Expected an error from an unfit detrender")
	}
}

func TestGroupedTrend(t *testing.T) {
	// Different slopes per month must be fitted independently.
	n := 365 * 4
	s := timeseries.New(make([]float64, n))
	for i, ts := range s.Timestamps {
		slope := 0.01
		if ts.Month() == 7 {
			slope = 0.05
		}
		s.Values[i] = slope * float64(i)
	}

	g, err := grouping.New(grouping.KeyMonth, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	d, err := NewPoly(g, 1, gosdba.Additive)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	fitted, err := d.Fit(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	trend := fitted.Trend()

	for i, ts := range s.Timestamps {
		if math.Abs(trend.Values[i]-s.Values[i]) > 1e-6 {
			t.Fatalf("trend[%d] (%v) = %f, want %f", i, ts, trend.Values[i], s.Values[i])
		}
	}
}

func TestLoessTrend(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	n := 500
	values := make([]float64, n)
	for i := range values {
		values[i] = 20 + 0.01*float64(i) + 0.5*rng.NormFloat64()
	}
	s := timeseries.New(values)

	opts := loess.DefaultOptions()
	opts.Frac = 0.3
	d, err := NewLoess(nil, opts, gosdba.Additive)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	fitted, err := d.Fit(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	trend := fitted.Trend()

	// Interior trend tracks the underlying line.
	for i := n / 5; i < n-n/5; i++ {
		want := 20 + 0.01*float64(i)
		if math.Abs(trend.Values[i]-want) > 0.5 {
			t.Fatalf("trend[%d] = %f, want about %f", i, trend.Values[i], want)
		}
	}
}

func TestAxisMismatch(t *testing.T) {
	s := timeseries.New([]float64{1, 2, 3, 4, 5, 6})
	d, err := NewPoly(nil, 1, gosdba.Additive)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	fitted, err := d.Fit(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	other := s.Slice(0, 4)
	if _, err := fitted.Detrend(other); err == nil {
		t.Error("Expected an error for a foreign time axis")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := NewPoly(nil, -1, gosdba.Additive); err == nil {
		t.Error("Expected an error for a negative degree")
	}
	if _, err := NewPoly(nil, 1, gosdba.Kind("^")); err == nil {
		t.Error("Expected an error for an invalid kind")
	}
	if _, err := NewLoess(nil, nil, gosdba.Kind("")); err == nil {
		t.Error("Expected an error for an invalid kind")
	}
}
