package timeseries

import (
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}

	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}

	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !s.Timestamps[0].Equal(want) {
		t.Errorf("Expected first timestamp %v, got %v", want, s.Timestamps[0])
	}
	if !s.Timestamps[1].Equal(want.AddDate(0, 0, 1)) {
		t.Errorf("Expected daily steps, got %v", s.Timestamps[1])
	}
}

func TestNewWithTimestamps(t *testing.T) {
	base := time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)}

	s, err := NewWithTimestamps(ts, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Expected length 3, got %d", s.Len())
	}

	// Length mismatch.
	if _, err := NewWithTimestamps(ts, []float64{1, 2}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}

	// Out of order.
	bad := []time.Time{base.AddDate(0, 0, 1), base, base.AddDate(0, 0, 2)}
	if _, err := NewWithTimestamps(bad, []float64{1, 2, 3}); err == nil {
		t.Error("Expected error for unsorted timestamps")
	}

	// Duplicates.
	dup := []time.Time{base, base, base.AddDate(0, 0, 1)}
	if _, err := NewWithTimestamps(dup, []float64{1, 2, 3}); err == nil {
		t.Error("Expected error for duplicate timestamps")
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"single", []float64{5}, 5.0},
		{"negative", []float64{-1, -2, -3}, -2.0},
		{"mixed", []float64{-1, 0, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			result := s.Mean()
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Expected mean %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestStd(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	expected := math.Sqrt(4.571428571428571)

	result := s.Std()
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Expected std %f, got %f", expected, result)
	}
}

func TestMinMax(t *testing.T) {
	s := New([]float64{5, 2, 8, 1, 9, 3})

	if s.Min() != 1 {
		t.Errorf("Expected min 1, got %f", s.Min())
	}

	if s.Max() != 9 {
		t.Errorf("Expected max 9, got %f", s.Max())
	}
}

func TestQuantiles(t *testing.T) {
	s := New([]float64{5, 1, 3, 2, 4})
	ps := []float64{0.1, 0.5, 0.9}
	q := s.Quantiles(ps)

	// Empirical quantiles of {1..5}.
	expected := []float64{1, 3, 5}
	for i := range expected {
		if math.Abs(q[i]-expected[i]) > 1e-10 {
			t.Errorf("Quantile %f: expected %f, got %f", ps[i], expected[i], q[i])
		}
	}

	// Input order must be preserved.
	if s.Values[0] != 5 {
		t.Error("Quantiles must not reorder the series values")
	}
}

func TestSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})
	sliced := s.Slice(1, 4)

	expected := []float64{2, 3, 4}
	if len(sliced.Values) != len(expected) {
		t.Errorf("Expected length %d, got %d", len(expected), len(sliced.Values))
	}

	for i, v := range sliced.Values {
		if math.Abs(v-expected[i]) > 1e-10 {
			t.Errorf("Expected %f at index %d, got %f", expected[i], i, v)
		}
	}

	if !sliced.Timestamps[0].Equal(s.Timestamps[1]) {
		t.Error("Slice must keep the matching timestamps")
	}
}

func TestCopy(t *testing.T) {
	s := New([]float64{1, 2, 3})
	copied := s.Copy()

	// Modify original
	s.Values[0] = 100

	// Copy should be unchanged
	if copied.Values[0] != 1 {
		t.Errorf("Copy was modified when original changed")
	}
}

func TestWithValues(t *testing.T) {
	s := New([]float64{1, 2, 3})
	s.Name = "tas"
	s.Units = "degC"

	out, err := s.WithValues([]float64{4, 5, 6})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.SameAxis(s) {
		t.Error("WithValues must keep the time axis")
	}
	if out.Name != "tas" || out.Units != "degC" {
		t.Error("WithValues must keep name and units")
	}

	if _, err := s.WithValues([]float64{1, 2}); err == nil {
		t.Error("Expected error for mismatched length")
	}
}

func TestUniformStep(t *testing.T) {
	s := New([]float64{1, 2, 3, 4})
	step, ok := s.UniformStep()
	if !ok {
		t.Fatal("Expected uniform axis")
	}
	if step != 24*time.Hour {
		t.Errorf("Expected 24h step, got %v", step)
	}

	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)}
	irregular, err := NewWithTimestamps(ts, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := irregular.UniformStep(); ok {
		t.Error("Expected non-uniform axis to be reported")
	}
}

func TestSameAxis(t *testing.T) {
	a := New([]float64{1, 2, 3})
	b := New([]float64{4, 5, 6})
	if !a.SameAxis(b) {
		t.Error("Expected identical default axes to match")
	}

	c := NewDaily(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2, 3})
	if a.SameAxis(c) {
		t.Error("Expected shifted axes to differ")
	}
}
