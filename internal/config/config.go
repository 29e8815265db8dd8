// Package config loads the sticker server configuration from YAML, defaults
// and STICKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ironsheep/sticker-tools-mcp/internal/imaging"
	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

// EnvPrefix prefixes every environment override, e.g. STICKER_SERVER_PORT or
// STICKER_STICKER_BORDER_SIZE.
const EnvPrefix = "STICKER"

type Config struct {
	Server  ServerConfig    `mapstructure:"server"`
	Redis   RedisConfig     `mapstructure:"redis"`
	Upload  UploadConfig    `mapstructure:"upload"`
	Sticker StickerSettings `mapstructure:"sticker"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	LogLevel     string        `mapstructure:"log_level"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// MaxConcurrent caps simultaneous renders; QueueTimeout bounds the wait
	// for a free slot.
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	QueueTimeout  time.Duration `mapstructure:"queue_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`

	// MaxPixels caps width*height of a decoded upload.
	MaxPixels int `mapstructure:"max_pixels"`
}

// StickerSettings is the textual form of sticker.Config used in files, form
// fields and flags. Colors are hex strings.
type StickerSettings struct {
	AlphaThreshold int     `mapstructure:"alpha_threshold"`
	BorderSize     int     `mapstructure:"border_size"`
	BorderColor    string  `mapstructure:"border_color"`
	BorderBlur     float64 `mapstructure:"border_blur"`
	ShadowColor    string  `mapstructure:"shadow_color"`
	ShadowBlur     float64 `mapstructure:"shadow_blur_strength"`
	Padding        int     `mapstructure:"padding"`
	BgColor        string  `mapstructure:"bg_color"`
	BgTransparent  bool    `mapstructure:"bg_transparent"`
	Crop           bool    `mapstructure:"crop"`
	Kernel         string  `mapstructure:"kernel"`
}

// DefaultStickerSettings mirrors sticker.DefaultConfig.
func DefaultStickerSettings() StickerSettings {
	d := sticker.DefaultConfig()
	return StickerSettings{
		AlphaThreshold: d.AlphaThreshold,
		BorderSize:     d.BorderSize,
		BorderColor:    imaging.FormatColor(d.BorderColor),
		BorderBlur:     d.BorderBlur,
		ShadowColor:    imaging.FormatColor(d.ShadowColor),
		ShadowBlur:     d.ShadowBlur,
		Padding:        d.Padding,
		BgColor:        imaging.FormatColor(d.BackgroundColor),
		BgTransparent:  d.TransparentBackground,
		Crop:           d.Crop,
		Kernel:         d.Kernel.String(),
	}
}

// Build converts the settings into a validated sticker.Config. Errors match
// sticker.ErrConfig.
func (s StickerSettings) Build() (sticker.Config, error) {
	cfg := sticker.Config{
		AlphaThreshold:        s.AlphaThreshold,
		BorderSize:            s.BorderSize,
		BorderBlur:            s.BorderBlur,
		ShadowBlur:            s.ShadowBlur,
		Padding:               s.Padding,
		TransparentBackground: s.BgTransparent,
		Crop:                  s.Crop,
	}

	colors := []struct {
		field string
		value string
		dst   *color.NRGBA
	}{
		{"border_color", s.BorderColor, &cfg.BorderColor},
		{"shadow_color", s.ShadowColor, &cfg.ShadowColor},
		{"bg_color", s.BgColor, &cfg.BackgroundColor},
	}
	for _, c := range colors {
		parsed, err := imaging.ParseColor(c.value)
		if err != nil {
			return sticker.Config{}, &sticker.ConfigError{Field: c.field, Value: c.value, Reason: err.Error()}
		}
		*c.dst = parsed
	}

	kernel, err := sticker.ParseKernel(s.Kernel)
	if err != nil {
		return sticker.Config{}, err
	}
	cfg.Kernel = kernel

	if err := cfg.Validate(); err != nil {
		return sticker.Config{}, err
	}
	return cfg, nil
}

// Load reads configuration from a YAML file. An empty path skips the file and
// uses defaults and environment overrides only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.MaxConcurrent < 1 {
		return errors.New("server.max_concurrent must be at least 1")
	}
	if c.Upload.MaxSize <= 0 {
		return errors.New("upload.max_size must be positive")
	}
	if c.Upload.MaxPixels <= 0 {
		return errors.New("upload.max_pixels must be positive")
	}
	if _, err := c.Sticker.Build(); err != nil {
		return fmt.Errorf("invalid sticker settings: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.log_level", "")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_concurrent", 4)
	v.SetDefault("server.queue_timeout", 30*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.allowed_types", []string{})
	v.SetDefault("upload.max_pixels", sticker.DefaultMaxPixels)

	d := DefaultStickerSettings()
	v.SetDefault("sticker.alpha_threshold", d.AlphaThreshold)
	v.SetDefault("sticker.border_size", d.BorderSize)
	v.SetDefault("sticker.border_color", d.BorderColor)
	v.SetDefault("sticker.border_blur", d.BorderBlur)
	v.SetDefault("sticker.shadow_color", d.ShadowColor)
	v.SetDefault("sticker.shadow_blur_strength", d.ShadowBlur)
	v.SetDefault("sticker.padding", d.Padding)
	v.SetDefault("sticker.bg_color", d.BgColor)
	v.SetDefault("sticker.bg_transparent", d.BgTransparent)
	v.SetDefault("sticker.crop", d.Crop)
	v.SetDefault("sticker.kernel", d.Kernel)
}
