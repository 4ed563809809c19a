package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	FPL    FPLConfig    `toml:"fpl"`
	Table  TableConfig  `toml:"table"`
	Plot   PlotConfig   `toml:"plot"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type FPLConfig struct {
	URL string `toml:"url"`
	// CacheTTL of 0 keeps the first payload until a manual refresh.
	CacheTTL Duration `toml:"cache_ttl"`
	Timeout  Duration `toml:"timeout"`
}

type TableConfig struct {
	MinMinutes float64 `toml:"min_minutes"`
}

type PlotConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	X      string `toml:"x"`
	Y      string `toml:"y"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

// Duration reads "90s" style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		FPL: FPLConfig{
			URL:      FPL_BOOTSTRAP_URL,
			CacheTTL: Duration{time.Hour},
			Timeout:  Duration{30 * time.Second},
		},
		Table: TableConfig{MinMinutes: DEFAULT_MIN_MINUTES},
		Plot: PlotConfig{
			Width:  DEFAULT_PLOT_WIDTH,
			Height: DEFAULT_PLOT_HEIGHT,
			X:      DEFAULT_X,
			Y:      DEFAULT_Y,
		},
		Log: LogConfig{Level: slog.LevelInfo},
	}
}

// LoadConfig starts from DefaultConfig, overlays the TOML file at path when
// path is set, then applies PORT and FPL_URL from the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	if port := getEnv("PORT", ""); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.FPL.URL = getEnv("FPL_URL", cfg.FPL.URL)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.FPL.URL == "":
		return fmt.Errorf("fpl.url is required")
	case c.FPL.CacheTTL.Duration < 0:
		return fmt.Errorf("fpl.cache_ttl must not be negative")
	case c.Plot.Width <= 0 || c.Plot.Height <= 0:
		return fmt.Errorf("plot.width and plot.height must be positive")
	case c.Table.MinMinutes < 0:
		return fmt.Errorf("table.min_minutes must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
