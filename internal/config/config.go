// Package config loads runtime settings from defaults, an optional YAML
// file and THERMOGUARD_* environment variables, in that order of
// precedence (later wins).
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: simulation.interval is read
// from THERMOGUARD_SIMULATION_INTERVAL.
const EnvPrefix = "THERMOGUARD"

type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Journal    JournalConfig    `mapstructure:"journal"`
	Log        LogConfig        `mapstructure:"log"`
}

type SimulationConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// Seed drives the simulator RNG. Zero seeds from the wall clock.
	Seed          uint64 `mapstructure:"seed"`
	AmbientAlerts bool   `mapstructure:"ambient_alerts"`
	RearmOnReset  bool   `mapstructure:"rearm_on_reset"`
}

type SeedConfig struct {
	// Path of a seed dataset. Empty selects the embedded default.
	Path string `mapstructure:"path"`
}

type JournalConfig struct {
	// Path of the SQLite journal. Empty disables journalling.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.interval", "3s")
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.ambient_alerts", false)
	v.SetDefault("simulation.rearm_on_reset", false)
	v.SetDefault("seed.path", "")
	v.SetDefault("journal.path", "")
	v.SetDefault("log.level", "info")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment apply; a named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		slog.Debug("config file loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Simulation.Interval <= 0 {
		return fmt.Errorf("simulation.interval must be positive, got %s", c.Simulation.Interval)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps log.level onto a slog level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Level)
	}
}
