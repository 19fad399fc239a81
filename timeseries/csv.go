package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: "time")
	ValueColumn string // Column name for values (default: last column)
	Units       string // Unit tag attached to the loaded series
	DateFormat  string // Date format (default: "2006-01-02")
	HasHeader   bool   // Whether CSV has header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn: "time",
		DateFormat: "2006-01-02",
		HasHeader:  true,
		Delimiter:  ',',
	}
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader. Rows with empty
// or non-numeric values are skipped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.TrimLeadingSpace = true

	valueIdx, dateIdx := -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case opts.ValueColumn != "" && h == opts.ValueColumn:
				valueIdx = i
			case h == opts.DateColumn || h == "time" || h == "date" || h == "ds":
				if dateIdx == -1 {
					dateIdx = i
				}
			}
		}
		if valueIdx == -1 {
			valueIdx = len(header) - 1
		}
	} else {
		dateIdx = 0
		valueIdx = 1
	}

	var values []float64
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if valueIdx >= len(record) {
			continue
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}

		if dateIdx >= 0 && dateIdx < len(record) {
			dateStr := strings.TrimSpace(strings.Trim(record[dateIdx], "\""))
			ts, err := time.Parse(opts.DateFormat, dateStr)
			if err != nil {
				continue
			}
			timestamps = append(timestamps, ts)
		}
		values = append(values, val)
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	var series *Series
	if len(timestamps) == len(values) {
		series = &Series{Timestamps: timestamps, Values: values}
	} else {
		series = New(values)
	}
	series.Name = opts.ValueColumn
	series.Units = opts.Units
	return series, nil
}

// SaveCSV saves a time series to a CSV file with a "time,<name>" header.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	name := series.Name
	if name == "" {
		name = "value"
	}
	if series.Units != "" {
		name += " [" + series.Units + "]"
	}
	writer.WriteString("time," + name + "\n")

	for i, v := range series.Values {
		writer.WriteString(series.Timestamps[i].Format("2006-01-02"))
		writer.WriteString(",")
		writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		writer.WriteString("\n")
	}

	return nil
}
