// Package config loads the minimage settings from a YAML file.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/minimage/internal/logging"
	"github.com/askiada/minimage/pkg/chain"
	"github.com/askiada/minimage/pkg/imageio"
	"github.com/askiada/minimage/pkg/progress"
)

var (
	ErrInvalidBarSize = errors.New("bar_size must be at least 1")
	ErrInvalidQuality = errors.New("jpeg_quality must be between 1 and 100")
	ErrInvalidFormat  = errors.New("unknown log format")
	ErrEmptySaveDir   = errors.New("save_dir must be set")
	ErrInvalidLimit   = errors.New("limit must be at least 1")
)

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Config struct {
	Log            Log    `yaml:"log"`
	SaveDir        string `yaml:"save_dir"`
	DefaultPrefix  string `yaml:"default_prefix"`
	HistoryDB      string `yaml:"history_db"`
	BarSize        int    `yaml:"bar_size"`
	JPEGQuality    int    `yaml:"jpeg_quality"`
	MaxImages      int    `yaml:"max_images"`
	MaxPixels      int    `yaml:"max_pixels"`
	MaxBatchPixels int    `yaml:"max_batch_pixels"`
	ClearScreen    bool   `yaml:"clear_screen"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		SaveDir:        ".",
		DefaultPrefix:  imageio.DefaultPrefix,
		HistoryDB:      ".minimage/history.db",
		BarSize:        progress.DefaultBarSize,
		JPEGQuality:    imageio.DefaultQuality,
		MaxImages:      chain.DefaultLimits.MaxImages,
		MaxPixels:      chain.DefaultLimits.MaxPixels,
		MaxBatchPixels: chain.DefaultLimits.MaxBatchPixels,
		ClearScreen:    true,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

// Validate checks every value a run depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SaveDir) == "" {
		return ErrEmptySaveDir
	}

	if c.BarSize < 1 {
		return ErrInvalidBarSize
	}

	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return ErrInvalidQuality
	}

	limits := []struct {
		name  string
		value int
	}{
		{name: "max_images", value: c.MaxImages},
		{name: "max_pixels", value: c.MaxPixels},
		{name: "max_batch_pixels", value: c.MaxBatchPixels},
	}
	for _, limit := range limits {
		if limit.value < 1 {
			return errors.Wrap(ErrInvalidLimit, limit.name)
		}
	}

	_, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.Wrapf(ErrInvalidFormat, "%q", c.Log.Format)
	}

	return nil
}

// Limits returns the sizes a command chain may ask for.
func (c *Config) Limits() chain.Limits {
	return chain.Limits{
		MaxImages:      c.MaxImages,
		MaxPixels:      c.MaxPixels,
		MaxBatchPixels: c.MaxBatchPixels,
	}
}
