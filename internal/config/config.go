// Package config loads daemon settings from flags, environment
// variables and an optional TOML file, in that order of precedence.
package config

import (
	"strings"
	"time"

	"codeberg.org/mutker/sysmond/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultIntervalMS = 1000
	minIntervalMS     = 100
	defaultLogLevel   = "info"

	configName    = "sysmond"
	configType    = "toml"
	configPathEnv = "SYSMOND_CONFIG"
	envPrefix     = "SYSMOND"
)

type Config struct {
	Interval  int    `mapstructure:"interval"`
	LogLevel  string `mapstructure:"log_level"`
	Recording bool   `mapstructure:"recording"`
	Database  string `mapstructure:"database"`
}

func defaults() *Config {
	return &Config{
		Interval: defaultIntervalMS,
		LogLevel: defaultLogLevel,
	}
}

// Load builds the effective configuration from defaults, an optional
// config file, SYSMOND_* environment variables and command-line flags.
// A fresh flag set is created per call so Load stays reentrant.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()
	cfg := defaults()

	v.SetDefault("interval", cfg.Interval)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("recording", cfg.Recording)
	v.SetDefault("database", cfg.Database)

	flags := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	flags.Int("interval", cfg.Interval, "Sampling interval in milliseconds")
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Bool("recording", cfg.Recording, "Record samples to the local database")
	flags.String("database", cfg.Database, "Path to the sample database")
	configFile := flags.String("config", "", "Path to config file")

	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := resolveConfigPath(*configFile, v); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Flags override file and environment values
	flags.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		v.Set(key, f.Value.String())
	})

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func resolveConfigPath(flagPath string, v *viper.Viper) string {
	if flagPath != "" {
		return flagPath
	}
	return v.GetString("config")
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval < minIntervalMS {
		return errFactory.WithData(errors.ErrInvalidInterval, struct {
			Interval int
			Minimum  int
		}{
			Interval: c.Interval,
			Minimum:  minIntervalMS,
		})
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// SamplingInterval returns the interval as a duration.
func (c *Config) SamplingInterval() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}
