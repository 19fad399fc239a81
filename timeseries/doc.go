// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for representing unit-tagged climate
// time series, along with functions for data loading and basic statistics.
//
// # Creating a Series
//
// Create a daily time series from a slice:
//
//	values := []float64{12.1, 11.8, 13.2, 12.9}
//	series := timeseries.New(values)
//
//	// Or anchored at an explicit start date
//	series = timeseries.NewDaily(start, values)
//
// # Basic Statistics
//
// Calculate summary statistics:
//
//	mean := series.Mean()
//	std := series.Std()
//	qs := series.Quantiles([]float64{0.1, 0.5, 0.9})
//
// # Slicing and Manipulation
//
// Work with subsets of the data:
//
//	subset := series.Slice(10, 50)
//	clone := series.Copy()
//	anoms, err := series.WithValues(anomalyValues)
//
// # Loading from CSV
//
// Load time series data from CSV files:
//
//	opts := &timeseries.CSVOptions{
//	    DateColumn:  "time",
//	    ValueColumn: "tas",
//	    Units:       "K",
//	    DateFormat:  "2006-01-02",
//	    HasHeader:   true,
//	}
//	series, err := timeseries.LoadCSV("tas.csv", opts)
package timeseries
