package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/spf13/viper"
)

const (
	defaultLoadTimeout  = model.DefaultLoadTimeout
	defaultDateColumn   = model.DefaultDateColumn
	defaultPalette      = model.DefaultPaletteSource
	defaultCurveTension = model.DefaultCurveTension
	defaultFlattenSteps = model.DefaultFlattenSteps
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	Source       string        `mapstructure:"source"`
	Sheet        string        `mapstructure:"sheet"`
	DateColumn   string        `mapstructure:"date-column"`
	DBPath       string        `mapstructure:"db-path"`
	LoadTimeout  time.Duration `mapstructure:"load-timeout"`
	Palette      string        `mapstructure:"palette"`
	CurveTension float64       `mapstructure:"curve-tension"`
	FlattenSteps int           `mapstructure:"flatten-steps"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("STREAMGRAPH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("source", "")
	v.SetDefault("sheet", "")
	v.SetDefault("date-column", defaultDateColumn)
	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "streamgraph", "streamgraph.duckdb"))
	v.SetDefault("load-timeout", defaultLoadTimeout)
	v.SetDefault("palette", defaultPalette)
	v.SetDefault("curve-tension", defaultCurveTension)
	v.SetDefault("flatten-steps", defaultFlattenSteps)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "streamgraph", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.CurveTension < 0 || cfg.CurveTension > 1 {
		return cfg, fmt.Errorf("invalid curve-tension: %v (want 0..1)", cfg.CurveTension)
	}

	for _, p := range []*string{&cfg.Source, &cfg.DBPath, &cfg.Palette} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}

	return cfg, nil
}
