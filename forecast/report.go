package forecast

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// WriteCSV writes the forecast as a table keyed by month with one point
// column and a lower/upper pair per confidence level, in original units.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"month", "point"}
	for _, iv := range r.Intervals {
		level := strconv.FormatFloat(iv.Level, 'f', -1, 64)
		header = append(header, "lo"+level, "hi"+level)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("forecast: write header: %w", err)
	}

	for t := range r.Points {
		rec := []string{
			r.Months[t].Format("2006-01"),
			strconv.FormatFloat(r.Points[t], 'f', 4, 64),
		}
		for _, iv := range r.Intervals {
			rec = append(rec,
				strconv.FormatFloat(iv.Lower[t], 'f', 4, 64),
				strconv.FormatFloat(iv.Upper[t], 'f', 4, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("forecast: write row %d: %w", t, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTable writes an aligned, human-readable version of the same report.
func (r *Result) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "month\tpoint")
	for _, iv := range r.Intervals {
		fmt.Fprintf(tw, "\tlo%g\thi%g", iv.Level, iv.Level)
	}
	fmt.Fprintln(tw)

	for t := range r.Points {
		fmt.Fprintf(tw, "%s\t%.2f", r.Months[t].Format("2006-01"), r.Points[t])
		for _, iv := range r.Intervals {
			fmt.Fprintf(tw, "\t%.2f\t%.2f", iv.Lower[t], iv.Upper[t])
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
