package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sgauthier/cpicast/internal/config"
	"github.com/sgauthier/cpicast/internal/logging"
	"github.com/sgauthier/cpicast/timeseries"
)

var (
	cfgPath   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:           "cpicast",
	Short:         "Seasonal ARIMA analysis and forecasting for the French CPI",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to a config file (optional)")
	pf.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(stationarityCmd)
}

// setup loads the layered configuration, applies command-line overrides, and
// builds the logger.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if f := cmd.Flags().Lookup("input"); f != nil && f.Changed {
		cfg.Input.Path = f.Value.String()
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, log, nil
}

// loadSeries reads the CPI series named by the configuration.
func loadSeries(cfg *config.Config, log zerolog.Logger) (*timeseries.Series, error) {
	opts := timeseries.DefaultCSVOptions()
	opts.TimeColumn = cfg.Input.TimeColumn
	opts.ValueColumn = cfg.Input.ValueColumn

	series, err := timeseries.LoadCSV(cfg.Input.Path, opts)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", cfg.Input.Path).
		Int("observations", series.Len()).
		Str("start", series.Start().Format("2006-01")).
		Str("end", series.End().Format("2006-01")).
		Msg("loaded series")
	return series, nil
}
