package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	FontSize       float64 `envconfig:"FONT_SIZE" default:"12"`
	FontFamily     string  `envconfig:"FONT_FAMILY"`
	ChartWidth     int     `envconfig:"CHART_WIDTH" default:"800"`
	ChartHeight    int     `envconfig:"CHART_HEIGHT" default:"400"`
	JWTSecret      string  `envconfig:"JWT_SECRET"`
	APIKeyHash     string  `envconfig:"API_KEY_HASH"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	SampleChart    string  `envconfig:"SAMPLE_CHART" default:"chart_sample"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.ChartWidth <= 0 || cfg.ChartHeight <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", cfg.ChartWidth, cfg.ChartHeight)
	}
	if cfg.FontSize <= 0 {
		return nil, fmt.Errorf("invalid font size %v", cfg.FontSize)
	}
	return &cfg, nil
}

// Level maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Origins splits ALLOWED_ORIGINS into host patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
