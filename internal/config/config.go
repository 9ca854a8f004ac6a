package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rota-engine/internal/fare"
	"rota-engine/internal/streak"
)

// DefaultPath is where serve looks for its config when --config is not given.
const DefaultPath = "rota.toml"

type AppConfig struct {
	Server  ServerConfig          `toml:"server"`
	Fares   FaresConfig           `toml:"fares"`
	Streaks streak.RiskThresholds `toml:"streaks"`
	Log     LogConfig             `toml:"log"`
}

type ServerConfig struct {
	Port int `toml:"port"`
	// Workers bounds per-employee fan-out inside one analysis. 0 means unbounded.
	Workers int `toml:"workers"`
}

type FaresConfig struct {
	// Catalog is the path to a .toml or .yaml fare catalog. Empty disables fares.
	Catalog      string     `toml:"catalog"`
	DiscountRate float64    `toml:"discount_rate"`
	Bands        fare.Bands `toml:"bands"`
	Watch        bool       `toml:"watch"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func DefaultConfig() *AppConfig {
	policy := fare.DefaultPolicy()
	return &AppConfig{
		Server: ServerConfig{Port: 8080},
		Fares: FaresConfig{
			DiscountRate: policy.DiscountRate,
			Bands:        policy.Bands,
			Watch:        true,
		},
		Streaks: streak.DefaultRiskThresholds(),
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// FarePolicy is the fare calculator policy described by the config.
func (c *AppConfig) FarePolicy() fare.Policy {
	return fare.Policy{DiscountRate: c.Fares.DiscountRate, Bands: c.Fares.Bands}
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.Workers < 0 {
		errs = append(errs, errors.New("server.workers must not be negative"))
	}
	if c.Fares.DiscountRate <= 0 || c.Fares.DiscountRate > 1 {
		errs = append(errs, fmt.Errorf("fares.discount_rate %v must be in (0, 1]", c.Fares.DiscountRate))
	}
	if c.Fares.Bands.Consider < 0 || c.Fares.Bands.Marginal < c.Fares.Bands.Consider {
		errs = append(errs, errors.New("fares.bands must satisfy 0 <= consider <= marginal"))
	}
	if c.Streaks.Medium <= 0 || c.Streaks.High < c.Streaks.Medium {
		errs = append(errs, errors.New("streaks must satisfy 0 < medium <= high"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Load reads path over the defaults, then applies PORT and ROTA_FARE_CATALOG.
// A missing file is not an error when the path was not asked for explicitly.
func Load(path string, required bool) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("ROTA_FARE_CATALOG"); v != "" {
		cfg.Fares.Catalog = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger from the [log] section.
func NewLogger(w io.Writer, c LogConfig) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q unknown", s)
}
