package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gogpu/ggedit"
)

const (
	envPrefix     = "GGEDIT_"
	envConfigPath = "GGEDIT_CONFIG"
)

// Config holds the CLI settings.
type Config struct {
	// LogLevel is debug, info, warn or error.
	LogLevel string `koanf:"log_level"`

	// Rasterizer names the registered rasterizer used for PNG output.
	Rasterizer string `koanf:"rasterizer"`

	// MaxDimension downscales imported images whose longer side exceeds it.
	// Zero keeps the native size.
	MaxDimension int `koanf:"max_dimension"`

	// BrushSize and Color are the session defaults before any script step.
	BrushSize float64 `koanf:"brush_size"`
	Color     string  `koanf:"color"`

	// PixelRatio is the device pixel ratio used when a project does not
	// set one.
	PixelRatio float64 `koanf:"pixel_ratio"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:   "info",
		Rasterizer: ggedit.DefaultRasterizer,
		BrushSize:  10,
		Color:      ggedit.DefaultColor,
		PixelRatio: 1,
	}
}

// loadConfig layers, from low to high precedence: defaults, the YAML file
// at path (or $GGEDIT_CONFIG when path is empty), and GGEDIT_* variables.
func loadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// GGEDIT_BRUSH_SIZE -> brush_size
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := defaultConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if _, err := charmlog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Rasterizer == "" {
		errs = append(errs, errors.New("rasterizer must not be empty"))
	}
	if c.MaxDimension < 0 {
		errs = append(errs, errors.New("max_dimension must not be negative"))
	}
	if c.BrushSize <= 0 {
		errs = append(errs, errors.New("brush_size must be positive"))
	}
	if _, ok := ggedit.ParseColor(c.Color); !ok {
		errs = append(errs, fmt.Errorf("color %q is not a hex color", c.Color))
	}
	if c.PixelRatio <= 0 {
		errs = append(errs, errors.New("pixel_ratio must be positive"))
	}
	return errors.Join(errs...)
}

// level returns the configured log level.
func (c Config) level() charmlog.Level {
	l, err := charmlog.ParseLevel(c.LogLevel)
	if err != nil {
		return charmlog.InfoLevel
	}
	return l
}

func withConfig(ctx context.Context, c Config) context.Context {
	return context.WithValue(ctx, configKey, c)
}

// configFromContext returns the config attached to ctx, or the defaults.
func configFromContext(ctx context.Context) Config {
	if c, ok := ctx.Value(configKey).(Config); ok {
		return c
	}
	return defaultConfig()
}
