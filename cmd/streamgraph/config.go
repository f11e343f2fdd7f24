package main

import (
	"time"

	"github.com/tinytelemetry/streamgraph/internal/httpserver"
	"github.com/tinytelemetry/streamgraph/internal/model"
)

const (
	defaultBindHost       = "127.0.0.1"
	defaultAPIPort        = 3000
	defaultQueryTimeout   = 30 * time.Second
	defaultLoadTimeout    = model.DefaultLoadTimeout
	defaultDateColumn     = model.DefaultDateColumn
	defaultPalette        = model.DefaultPaletteSource
	defaultCurveTension   = model.DefaultCurveTension
	defaultFlattenSteps   = model.DefaultFlattenSteps
	defaultMaxUploadBytes = httpserver.DefaultMaxUploadBytes
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Host           string        `mapstructure:"host"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	DBPath         string        `mapstructure:"db-path"`
	QueryTimeout   time.Duration `mapstructure:"query-timeout"`
	Source         string        `mapstructure:"source"`
	Sheet          string        `mapstructure:"sheet"`
	DateColumn     string        `mapstructure:"date-column"`
	LoadTimeout    time.Duration `mapstructure:"load-timeout"`
	Palette        string        `mapstructure:"palette"`
	CurveTension   float64       `mapstructure:"curve-tension"`
	FlattenSteps   int           `mapstructure:"flatten-steps"`
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes"`
	ConfigPath     string        `mapstructure:"-"` // not from config file
}
