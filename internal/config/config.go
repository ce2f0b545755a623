package config

import (
	"fmt"

	"github.com/sgauthier/cpicast/sarima"
)

// Config is the complete application configuration.
type Config struct {
	Input       InputConfig       `mapstructure:"input"`
	Search      SearchConfig      `mapstructure:"search"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Forecast    ForecastConfig    `mapstructure:"forecast"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// InputConfig describes the CPI input file.
type InputConfig struct {
	Path        string `mapstructure:"path"`
	TimeColumn  string `mapstructure:"time_column"`
	ValueColumn string `mapstructure:"value_column"`
}

// SearchConfig bounds the fixed candidate grid and configures ranking.
type SearchConfig struct {
	SeasonalPeriod int    `mapstructure:"seasonal_period"`
	MaxP           int    `mapstructure:"max_p"`
	MaxQ           int    `mapstructure:"max_q"`
	MaxSeasonalP   int    `mapstructure:"max_seasonal_p"`
	MaxSeasonalQ   int    `mapstructure:"max_seasonal_q"`
	D              int    `mapstructure:"d"`
	SeasonalD      int    `mapstructure:"seasonal_d"`
	Criterion      string `mapstructure:"criterion"` // aicc, aic, or bic
	Workers        int    `mapstructure:"workers"`
}

// DiagnosticsConfig configures the residual checks.
type DiagnosticsConfig struct {
	Lags        int     `mapstructure:"lags"`
	Alpha       float64 `mapstructure:"alpha"`
	Portmanteau string  `mapstructure:"portmanteau"` // ljung-box or box-pierce
}

// ForecastConfig configures the projection.
type ForecastConfig struct {
	Horizon int       `mapstructure:"horizon"`
	Levels  []float64 `mapstructure:"levels"` // confidence levels in percent
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// Grid enumerates the candidate specifications the search configuration
// describes, in a fixed deterministic order.
func (c SearchConfig) Grid() []sarima.Spec {
	var grid []sarima.Spec
	for p := 0; p <= c.MaxP; p++ {
		for q := 0; q <= c.MaxQ; q++ {
			for sp := 0; sp <= c.MaxSeasonalP; sp++ {
				for sq := 0; sq <= c.MaxSeasonalQ; sq++ {
					grid = append(grid, sarima.Spec{
						P: p, D: c.D, Q: q,
						SP: sp, SD: c.SeasonalD, SQ: sq,
						Period: c.SeasonalPeriod,
					})
				}
			}
		}
	}
	return grid
}

// Validate checks invariants the pipeline relies on.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("config: input.path is required")
	}
	if c.Search.SeasonalPeriod < 2 {
		return fmt.Errorf("config: search.seasonal_period must be at least 2, got %d", c.Search.SeasonalPeriod)
	}
	if c.Search.MaxP < 0 || c.Search.MaxQ < 0 || c.Search.MaxSeasonalP < 0 || c.Search.MaxSeasonalQ < 0 {
		return fmt.Errorf("config: search order bounds must be non-negative")
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("config: forecast.horizon must be positive, got %d", c.Forecast.Horizon)
	}
	for _, l := range c.Forecast.Levels {
		if l <= 0 || l >= 100 {
			return fmt.Errorf("config: forecast level %g outside (0, 100)", l)
		}
	}
	if a := c.Diagnostics.Alpha; a <= 0 || a >= 1 {
		return fmt.Errorf("config: diagnostics.alpha must be in (0, 1), got %g", a)
	}
	return nil
}
