package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
)

const (
	transportFiber = "fiber"
	transportHTTP  = "http"
)

// Config is the on-disk salesdash configuration.
type Config struct {
	Listen     string       `yaml:"listen" json:"listen"`
	BasePath   string       `yaml:"base_path" json:"base_path"`
	Transport  string       `yaml:"transport" json:"transport"`
	Templates  string       `yaml:"templates_dir" json:"templates_dir,omitempty"`
	Log        LogConfig    `yaml:"log" json:"log"`
	Charts     ChartsConfig `yaml:"charts" json:"charts"`
	SeedOrders []seedOrder  `yaml:"seed_orders" json:"seed_orders,omitempty"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ChartsConfig tunes the go-echarts renderer.
type ChartsConfig struct {
	AssetsHost string `yaml:"assets_host" json:"assets_host"`
	CacheTTL   string `yaml:"cache_ttl" json:"cache_ttl"`
	Height     string `yaml:"height" json:"height"`
}

type seedOrder struct {
	ID      string `yaml:"id" json:"id"`
	Product string `yaml:"product" json:"product"`
	Amount  string `yaml:"amount" json:"amount"`
	Status  string `yaml:"status" json:"status"`
	Date    string `yaml:"date" json:"date"`
}

func defaultConfig() Config {
	return Config{
		Listen:    ":9876",
		BasePath:  "/admin",
		Transport: transportFiber,
		Log:       LogConfig{Level: "info", Format: "text"},
		Charts:    ChartsConfig{CacheTTL: "5m"},
	}
}

var configSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"listen":        map[string]any{"type": "string", "minLength": 1},
		"base_path":     map[string]any{"type": "string", "pattern": "^(/[^/]+)*$"},
		"transport":     map[string]any{"enum": []any{transportFiber, transportHTTP}},
		"templates_dir": map[string]any{"type": "string"},
		"log": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"level":  map[string]any{"enum": []any{"debug", "info", "warn", "error"}},
				"format": map[string]any{"enum": []any{"text", "json"}},
			},
		},
		"charts": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"assets_host": map[string]any{"type": "string"},
				"cache_ttl":   map[string]any{"type": "string"},
				"height":      map[string]any{"type": "string"},
			},
		},
		"seed_orders": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"id", "product", "amount", "status", "date"},
				"properties": map[string]any{
					"id":      map[string]any{"type": "string", "minLength": 1},
					"product": map[string]any{"type": "string"},
					"amount":  map[string]any{"type": []any{"string", "number"}},
					"status":  map[string]any{"type": "string"},
					"date":    map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
				},
			},
		},
	},
}

// LoadConfig reads path over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("salesdash: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates the YAML document against the config schema and decodes it.
func ParseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("salesdash: parse config: %w", err)
	}
	if doc == nil {
		return cfg, nil
	}
	if err := dashboard.NewSchemaValidator().Validate("salesdash.config", configSchema, doc); err != nil {
		return Config{}, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("salesdash: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the schema cannot express.
func (c Config) Validate() error {
	switch c.Transport {
	case transportFiber, transportHTTP:
	default:
		return fmt.Errorf("salesdash: unknown transport %q", c.Transport)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.Orders(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses charts.cache_ttl; empty disables the chart cache.
func (c Config) CacheTTL() (time.Duration, error) {
	if strings.TrimSpace(c.Charts.CacheTTL) == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Charts.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("salesdash: charts.cache_ttl: %w", err)
	}
	return ttl, nil
}

// Orders returns the seed override, or the built-in orders when none is set.
func (c Config) Orders() ([]dashboard.Order, error) {
	if len(c.SeedOrders) == 0 {
		return dashboard.DefaultOrders(), nil
	}
	orders := make([]dashboard.Order, len(c.SeedOrders))
	for i, seed := range c.SeedOrders {
		amount, err := decimal.NewFromString(strings.TrimSpace(seed.Amount))
		if err != nil {
			return nil, fmt.Errorf("salesdash: seed order %s amount: %w", seed.ID, err)
		}
		orders[i] = dashboard.Order{
			ID:      seed.ID,
			Product: seed.Product,
			Amount:  amount,
			Status:  dashboard.OrderStatus(seed.Status),
			Date:    seed.Date,
		}
	}
	if err := dashboard.ValidateSeedOrders(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// LogLevel maps log.level onto slog.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	name := c.Log.Level
	if name == "" {
		name = "info"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, fmt.Errorf("salesdash: log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger for the config.
func (c Config) NewLogger(out io.Writer) (*slog.Logger, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}
	return slog.New(slog.NewTextHandler(out, opts)), nil
}
