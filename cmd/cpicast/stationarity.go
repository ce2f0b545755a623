package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sgauthier/cpicast/stats"
	"github.com/sgauthier/cpicast/timeseries"
	"github.com/sgauthier/cpicast/transform"
)

var stationarityCmd = &cobra.Command{
	Use:   "stationarity",
	Short: "Print stationarity test results for the series and its differenced forms",
	RunE:  runStationarity,
}

func init() {
	stationarityCmd.Flags().String("input", "", "path to the CPI CSV file")
}

func runStationarity(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	series, err := loadSeries(cfg, log)
	if err != nil {
		return err
	}

	prov, err := transform.Log(series)
	if err != nil {
		return err
	}
	period := cfg.Search.SeasonalPeriod

	stages := []struct {
		name   string
		series *timeseries.Series
	}{
		{"raw", series},
		{"log", prov.Series},
		{"log diff", prov.Series.Diff()},
		{"log sdiff", prov.Series.SeasonalDiff(period)},
		{"log diff sdiff", prov.Series.Diff().SeasonalDiff(period)},
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "stage\tn\tadf\tadf p\tkpss\tkpss p\tpp\tpp p\tverdict")
	for _, st := range stages {
		adf, err := stats.ADF(st.series, 0)
		if err != nil {
			return err
		}
		kpss, err := stats.KPSS(st.series, "c", 0)
		if err != nil {
			return err
		}
		pp, err := stats.PhillipsPerron(st.series, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			st.name, st.series.Len(),
			adf.Statistic, adf.PValue,
			kpss.Statistic, kpss.PValue,
			pp.Statistic, pp.PValue,
			verdict(adf, kpss))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nsuggested d: %d  suggested seasonal D: %d  seasonal strength: %.2f\n",
		stats.NDiffs(prov.Series, 2, "kpss"),
		stats.NSDiffs(prov.Series, period, 1),
		stats.SeasonalStrength(prov.Series, period))
	return nil
}

// verdict reconciles the two tests: ADF's null is a unit root, KPSS's null is
// stationarity. Agreement gives a clear answer; disagreement is inconclusive.
func verdict(adf *stats.ADFResult, kpss *stats.KPSSResult) string {
	switch {
	case adf.IsStationary && kpss.IsStationary:
		return "stationary"
	case !adf.IsStationary && !kpss.IsStationary:
		return "non-stationary"
	default:
		return "inconclusive"
	}
}
