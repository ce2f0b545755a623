package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions controls how the CPI input file is read.
type CSVOptions struct {
	TimeColumn  string // header name of the date column (default "time")
	ValueColumn string // header name of the value column (default "cpi")
	Delimiter   rune   // field delimiter (default ',')
	DateFormats []string
}

// DefaultCSVOptions returns options matching the expected input contract:
// a header row with "time" and "cpi" columns, comma-delimited.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeColumn:  "time",
		ValueColumn: "cpi",
		Delimiter:   ',',
		DateFormats: []string{"2006-01-02", "2006-01", "2006-01-02T15:04:05", "2006/01/02"},
	}
}

// LoadCSV reads a monthly series from a delimited file. Rows need not be
// pre-sorted; the loader orders them by time and rejects duplicate months.
func LoadCSV(path string, opts *CSVOptions) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("timeseries: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := LoadCSVFromReader(f, opts)
	if err != nil {
		return nil, fmt.Errorf("timeseries: load %s: %w", path, err)
	}
	s.Name = strings.TrimSuffix(path, ".csv")
	return s, nil
}

// LoadCSVFromReader reads a monthly series from r.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	timeIdx, valueIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case strings.ToLower(opts.TimeColumn):
			timeIdx = i
		case strings.ToLower(opts.ValueColumn):
			valueIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", opts.TimeColumn, header)
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", opts.ValueColumn, header)
	}

	var (
		timestamps []time.Time
		values     []float64
		row        = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		row++

		ts, err := parseDate(record[timeIdx], opts.DateFormats)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		raw := strings.TrimSpace(record[valueIdx])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s value %q: %w", row, opts.ValueColumn, raw, err)
		}
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("row %d: %s value %v is not a positive number", row, opts.ValueColumn, v)
		}

		timestamps = append(timestamps, ts)
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	return FromObservations(timestamps, values)
}

func parseDate(raw string, formats []string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range formats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// SaveCSV writes the series as a two-column time,value file.
func SaveCSV(s *Series, path string, valueColumn string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("timeseries: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if valueColumn == "" {
		valueColumn = "cpi"
	}
	if err := w.Write([]string{"time", valueColumn}); err != nil {
		return err
	}
	for i, v := range s.Values {
		rec := []string{
			s.Timestamps[i].Format("2006-01-02"),
			strconv.FormatFloat(v, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
