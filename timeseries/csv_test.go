package timeseries

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	// Test basic CSV loading
	csvData := `time,tas
2020-01-01,100
2020-01-02,101
2020-01-03,102
2020-01-04,103
2020-01-05,104`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()
	opts.ValueColumn = "tas"

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 5 {
		t.Errorf("Expected 5 observations, got %d", series.Len())
	}

	// Check values
	expected := []float64{100, 101, 102, 103, 104}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	// Check timestamps were parsed
	if series.Timestamps[0].Format("2006-01-02") != "2020-01-01" {
		t.Errorf("Expected first timestamp 2020-01-01, got %v", series.Timestamps[0])
	}
}

func TestLoadCSVWithNAValues(t *testing.T) {
	// Test handling of NA values
	csvData := `time,pr
2020-01-01,100
2020-01-02,NA
2020-01-03,102
2020-01-04,NaN
2020-01-05,104`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	// NA and NaN values should be skipped
	if series.Len() != 3 {
		t.Errorf("Expected 3 observations (NA values skipped), got %d", series.Len())
	}

	expected := []float64{100, 102, 104}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}
}

func TestLoadCSVMultipleColumns(t *testing.T) {
	// Test loading specific column
	csvData := `time,tas,pr,huss
2020-01-01,100,200,50
2020-01-02,110,210,55
2020-01-03,120,220,60`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()
	opts.ValueColumn = "pr"
	opts.Units = "mm/d"

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []float64{200, 210, 220}
	for i, v := range expected {
		if series.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, series.Values[i])
		}
	}

	if series.Name != "pr" || series.Units != "mm/d" {
		t.Errorf("Expected name pr and units mm/d, got %q %q", series.Name, series.Units)
	}
}

func TestLoadCSVQuotedFields(t *testing.T) {
	// Test handling of quoted fields
	csvData := `"time","tas"
"2020-01-01","1000000"
"2020-01-02","1000100"
"2020-01-03","1000200"`

	reader := strings.NewReader(csvData)
	opts := DefaultCSVOptions()

	series, err := LoadCSVFromReader(reader, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if series.Len() != 3 {
		t.Errorf("Expected 3 observations, got %d", series.Len())
	}
}

func TestLoadCSVNoData(t *testing.T) {
	reader := strings.NewReader("time,tas\n")
	if _, err := LoadCSVFromReader(reader, DefaultCSVOptions()); err == nil {
		t.Error("Expected error for CSV without data rows")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "series.csv")

	s := New([]float64{1.5, 2.25, 3})
	s.Name = "tas"
	s.Units = "degC"

	if err := SaveCSV(s, path); err != nil {
		t.Fatalf("Failed to save CSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if !strings.HasPrefix(string(data), "time,tas [degC]\n") {
		t.Errorf("Unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	opts := DefaultCSVOptions()
	opts.ValueColumn = "tas [degC]"
	loaded, err := LoadCSV(path, opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if loaded.Len() != s.Len() {
		t.Fatalf("Expected %d values, got %d", s.Len(), loaded.Len())
	}
	for i := range s.Values {
		if loaded.Values[i] != s.Values[i] {
			t.Errorf("Value at index %d: expected %f, got %f", i, s.Values[i], loaded.Values[i])
		}
	}
	if !loaded.SameAxis(s) {
		t.Error("Expected the time axis to survive the roundtrip")
	}
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	if opts.DateColumn != "time" {
		t.Errorf("Expected default date column 'time', got '%s'", opts.DateColumn)
	}

	if opts.DateFormat != "2006-01-02" {
		t.Errorf("Expected default date format '2006-01-02', got '%s'", opts.DateFormat)
	}

	if !opts.HasHeader {
		t.Error("Expected HasHeader to be true by default")
	}

	if opts.Delimiter != ',' {
		t.Errorf("Expected default delimiter ',', got '%c'", opts.Delimiter)
	}
}
