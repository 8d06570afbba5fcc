// Package config loads engine and host settings from an optional YAML file
// and DETAILIST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"detailist/internal/compare"
	"detailist/internal/viewport"
	"detailist/pkg/geometry"

	"github.com/spf13/viper"
)

const (
	fileName  = "detailist"
	envPrefix = "DETAILIST"
)

type Size struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Nudge struct {
	Step     int `mapstructure:"step"`
	FastStep int `mapstructure:"fast_step"`
}

type Compare struct {
	Mode     string `mapstructure:"mode"`
	Strength int    `mapstructure:"strength"`
}

type OCR struct {
	Language string `mapstructure:"language"`
}

type Dev struct {
	HotReload bool `mapstructure:"hot_reload"`
}

// Config is the complete application configuration.
type Config struct {
	Canvas   Size          `mapstructure:"canvas"`
	Window   Size          `mapstructure:"window"`
	Debounce time.Duration `mapstructure:"debounce"`
	Nudge    Nudge         `mapstructure:"nudge"`
	Compare  Compare       `mapstructure:"compare"`
	LogLevel string        `mapstructure:"log_level"`
	OCR      OCR           `mapstructure:"ocr"`
	Dev      Dev           `mapstructure:"dev"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("canvas.width", viewport.DefaultCanvasWidth)
	v.SetDefault("canvas.height", viewport.DefaultCanvasHeight)
	v.SetDefault("window.width", viewport.DefaultWindowWidth)
	v.SetDefault("window.height", viewport.DefaultWindowHeight)
	v.SetDefault("debounce", "50ms")
	v.SetDefault("nudge.step", 1)
	v.SetDefault("nudge.fast_step", 10)
	v.SetDefault("compare.mode", compare.ModeHeatmap.String())
	v.SetDefault("compare.strength", compare.DefaultStrength)
	v.SetDefault("log_level", "info")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("dev.hot_reload", false)
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

// Load reads the configuration. An explicit path must exist; with an empty
// path detailist.yaml is looked up in the working directory and then in the
// user config directory, and its absence is not an error. Environment
// variables such as DETAILIST_WINDOW_WIDTH override file values.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, fileName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects sizes and comparison settings the engine cannot use.
func (c Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("config: %w: %w", compare.ErrInvalidConfig, err)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("config: negative debounce %s: %w", c.Debounce, compare.ErrInvalidConfig)
	}
	if c.Nudge.Step <= 0 || c.Nudge.FastStep <= 0 {
		return fmt.Errorf("config: nudge steps must be positive: %w", compare.ErrInvalidConfig)
	}
	if _, err := c.CompareConfig(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Bounds returns the canvas and window sizes.
func (c Config) Bounds() viewport.Bounds {
	return viewport.Bounds{
		Canvas: geometry.SizeInt{Width: c.Canvas.Width, Height: c.Canvas.Height},
		Window: geometry.SizeInt{Width: c.Window.Width, Height: c.Window.Height},
	}
}

// Steps returns the nudge distances.
func (c Config) Steps() viewport.Steps {
	return viewport.Steps{Normal: c.Nudge.Step, Fast: c.Nudge.FastStep}
}

// CompareConfig parses the comparison settings.
func (c Config) CompareConfig() (compare.Config, error) {
	mode, err := compare.ParseMode(c.Compare.Mode)
	if err != nil {
		return compare.Config{}, err
	}
	cc := compare.Config{Mode: mode, Strength: c.Compare.Strength}
	return cc, cc.Validate()
}
