package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sgauthier/cpicast/diagnose"
	"github.com/sgauthier/cpicast/forecast"
	"github.com/sgauthier/cpicast/plot"
	"github.com/sgauthier/cpicast/search"
	"github.com/sgauthier/cpicast/stats"
	"github.com/sgauthier/cpicast/timeseries"
	"github.com/sgauthier/cpicast/transform"
)

var (
	analyzeOutput  string
	analyzePlotDir string
	analyzeTop     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full pipeline: load, transform, search, diagnose, forecast",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("input", "", "path to the CPI CSV file")
	f.StringVar(&analyzeOutput, "output", "", "write the forecast as CSV to this path")
	f.StringVar(&analyzePlotDir, "plot-dir", "", "write PNG charts into this directory")
	f.IntVar(&analyzeTop, "top", 5, "number of ranked candidates to print")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	assessStationarity(log, prov, cfg.Search.SeasonalPeriod)

	crit, err := search.ParseCriterion(cfg.Search.Criterion)
	if err != nil {
		return err
	}
	grid := cfg.Search.Grid()
	log.Info().
		Int("candidates", len(grid)).
		Str("criterion", string(crit)).
		Int("workers", cfg.Search.Workers).
		Msg("starting model search")

	ranking, err := search.Run(cmd.Context(), prov.Series, grid, search.Options{
		Criterion: crit,
		Workers:   cfg.Search.Workers,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	log.Info().
		Int("converged", len(ranking.Candidates)).
		Int("failed", len(ranking.Failed)).
		Stringer("best", ranking.Candidates[0].Spec).
		Msg("search complete")
	for _, c := range ranking.Failed {
		log.Warn().Stringer("spec", c.Spec).Err(c.Err).Msg("candidate did not converge")
	}

	printRanking(ranking, analyzeTop)

	best := ranking.Candidates[0]
	report, err := diagnose.Residuals(best.Model, diagnose.Options{
		Lags:        cfg.Diagnostics.Lags,
		Alpha:       cfg.Diagnostics.Alpha,
		Portmanteau: cfg.Diagnostics.Portmanteau,
	})
	if err != nil {
		return err
	}
	lvl := zerolog.InfoLevel
	if !report.Clean {
		lvl = zerolog.WarnLevel
	}
	log.WithLevel(lvl).
		Stringer("spec", report.Spec).
		Str("test", report.Portmanteau.Test).
		Float64("statistic", report.Portmanteau.Statistic).
		Float64("p_value", report.Portmanteau.PValue).
		Float64("durbin_watson", report.DurbinWatson).
		Bool("clean", report.Clean).
		Msg("residual diagnostics")

	result, err := forecast.Project(best.Model, prov, cfg.Forecast.Horizon, cfg.Forecast.Levels)
	if err != nil {
		return err
	}

	fmt.Println()
	if err := result.WriteTable(os.Stdout); err != nil {
		return err
	}

	if analyzeOutput != "" {
		if err := writeForecastCSV(result, analyzeOutput); err != nil {
			return err
		}
		log.Info().Str("path", analyzeOutput).Msg("wrote forecast CSV")
	}

	if analyzePlotDir != "" {
		if err := writePlots(log, series, result, cfg.Search.SeasonalPeriod); err != nil {
			return err
		}
	}
	return nil
}

// assessStationarity runs ADF and KPSS on the log series and its differenced
// forms. The verdicts are informational; the grid fixes d and D regardless.
func assessStationarity(log zerolog.Logger, prov *transform.Result, period int) {
	stages := []struct {
		name   string
		series *timeseries.Series
	}{
		{"log", prov.Series},
		{"log diff", prov.Series.Diff()},
		{"log diff sdiff", prov.Series.Diff().SeasonalDiff(period)},
	}

	for _, st := range stages {
		adf, err := stats.ADF(st.series, 0)
		if err != nil {
			log.Warn().Str("stage", st.name).Err(err).Msg("adf test failed")
			continue
		}
		kpss, err := stats.KPSS(st.series, "c", 0)
		if err != nil {
			log.Warn().Str("stage", st.name).Err(err).Msg("kpss test failed")
			continue
		}
		lvl := zerolog.InfoLevel
		if adf.IsStationary != kpss.IsStationary {
			lvl = zerolog.WarnLevel
		}
		log.WithLevel(lvl).
			Str("stage", st.name).
			Float64("adf_stat", adf.Statistic).
			Float64("adf_p", adf.PValue).
			Bool("adf_stationary", adf.IsStationary).
			Float64("kpss_stat", kpss.Statistic).
			Float64("kpss_p", kpss.PValue).
			Bool("kpss_stationary", kpss.IsStationary).
			Msg("stationarity")
	}

	log.Info().
		Int("suggested_d", stats.NDiffs(prov.Series, 2, "kpss")).
		Int("suggested_seasonal_d", stats.NSDiffs(prov.Series, period, 1)).
		Msg("suggested differencing")
}

func printRanking(ranking *search.Ranking, top int) {
	if top > len(ranking.Candidates) {
		top = len(ranking.Candidates)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\tmodel\tloglik\taic\taicc\tbic")
	for i := 0; i < top; i++ {
		c := ranking.Candidates[i]
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			i+1, c.Spec, c.LogLik, c.AIC, c.AICc, c.BIC)
	}
	tw.Flush()
}

func writeForecastCSV(result *forecast.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := result.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePlots(log zerolog.Logger, series *timeseries.Series, result *forecast.Result, period int) error {
	if err := os.MkdirAll(analyzePlotDir, 0o755); err != nil {
		return err
	}

	historyPath := filepath.Join(analyzePlotDir, "history.png")
	if err := plot.Series(series, "French CPI", historyPath); err != nil {
		return err
	}
	log.Info().Str("path", historyPath).Msg("wrote history chart")

	fanPath := filepath.Join(analyzePlotDir, "forecast.png")
	if err := plot.Fan(series, result, "French CPI forecast", fanPath); err != nil {
		return err
	}
	log.Info().Str("path", fanPath).Msg("wrote forecast chart")

	dec, err := stats.Decompose(series, period, "multiplicative")
	if err != nil {
		log.Warn().Err(err).Msg("decomposition failed, skipping chart")
		return nil
	}
	decPath := filepath.Join(analyzePlotDir, "decomposition.png")
	if err := plot.Decomposition(dec, decPath); err != nil {
		return err
	}
	log.Info().Str("path", decPath).Msg("wrote decomposition chart")
	return nil
}
