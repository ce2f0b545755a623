package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the optional file at path, layered over
// built-in defaults and CPICAST_* environment variables. An empty path
// loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CPICAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.time_column", "time")
	v.SetDefault("input.value_column", "cpi")

	v.SetDefault("search.seasonal_period", 12)
	v.SetDefault("search.max_p", 2)
	v.SetDefault("search.max_q", 2)
	v.SetDefault("search.max_seasonal_p", 1)
	v.SetDefault("search.max_seasonal_q", 1)
	v.SetDefault("search.d", 1)
	v.SetDefault("search.seasonal_d", 1)
	v.SetDefault("search.criterion", "aicc")
	v.SetDefault("search.workers", runtime.NumCPU())

	v.SetDefault("diagnostics.lags", 24)
	v.SetDefault("diagnostics.alpha", 0.05)
	v.SetDefault("diagnostics.portmanteau", "ljung-box")

	v.SetDefault("forecast.horizon", 36)
	v.SetDefault("forecast.levels", []float64{80, 95})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
