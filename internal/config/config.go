// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} references expanded from the environment
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	specA, err := cfg.Vouchers.PartyA.Spec()
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitticket/internal/calculator"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Vouchers      VouchersConfig      `yaml:"vouchers"`
	Optimizer     OptimizerConfig     `yaml:"optimizer"`
	ProductLookup ProductLookupConfig `yaml:"product_lookup"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port       int    `yaml:"port"`
	StaticPath string `yaml:"static_path"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// VouchersConfig holds the default voucher terms used when a household has
// not saved its own.
type VouchersConfig struct {
	PartyA               VoucherConfig `yaml:"party_a"`
	PartyB               VoucherConfig `yaml:"party_b"`
	NonVoucherCategories []string      `yaml:"non_voucher_categories"`
}

// VoucherConfig describes one partner's vouchers. UnitValue is a decimal
// string such as "7.50".
type VoucherConfig struct {
	UnitValue string `yaml:"unit_value"`
	MaxUnits  int64  `yaml:"max_units"`
}

// OptimizerConfig bounds the exact search
type OptimizerConfig struct {
	// ExactItemLimit is the largest number of voucher-eligible unit items
	// solved exactly; larger carts use the greedy heuristic.
	ExactItemLimit int           `yaml:"exact_item_limit"`
	SearchTimeout  time.Duration `yaml:"search_timeout"`
}

// ProductLookupConfig holds Open Food Facts client settings
type ProductLookupConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	RetryMax int           `yaml:"retry_max"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Spec parses the voucher terms.
func (v VoucherConfig) Spec() (calculator.VoucherSpec, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(v.UnitValue))
	if err != nil {
		return calculator.VoucherSpec{}, fmt.Errorf("invalid voucher unit value %q: %w", v.UnitValue, err)
	}
	return calculator.VoucherSpec{UnitValue: value, MaxUnits: v.MaxUnits}, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       8080,
			StaticPath: "../frontend/static",
		},
		Storage: StorageConfig{
			DatabasePath: "./data/splitticket.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Vouchers: VouchersConfig{
			PartyA: VoucherConfig{UnitValue: "7.50", MaxUnits: 6},
			PartyB: VoucherConfig{UnitValue: "7.00", MaxUnits: 6},
		},
		Optimizer: OptimizerConfig{
			ExactItemLimit: 20,
			SearchTimeout:  5 * time.Second,
		},
		ProductLookup: ProductLookupConfig{
			BaseURL:  "https://world.openfoodfacts.org",
			Timeout:  10 * time.Second,
			RetryMax: 2,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
			Metrics: MetricsConfig{Enabled: true, Namespace: "splitticket"},
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SPLITTICKET_JWT_SECRET})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	def := Defaults()
	return &Config{
		Server: ServerConfig{
			Port:       getEnvInt("PORT", def.Server.Port),
			StaticPath: getEnv("STATIC_PATH", def.Server.StaticPath),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("DB_PATH", def.Storage.DatabasePath),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", def.Auth.TokenTTL),
		},
		Vouchers: VouchersConfig{
			PartyA: VoucherConfig{
				UnitValue: getEnv("VOUCHER_A_VALUE", def.Vouchers.PartyA.UnitValue),
				MaxUnits:  int64(getEnvInt("VOUCHER_A_COUNT", int(def.Vouchers.PartyA.MaxUnits))),
			},
			PartyB: VoucherConfig{
				UnitValue: getEnv("VOUCHER_B_VALUE", def.Vouchers.PartyB.UnitValue),
				MaxUnits:  int64(getEnvInt("VOUCHER_B_COUNT", int(def.Vouchers.PartyB.MaxUnits))),
			},
			NonVoucherCategories: getEnvList("NON_VOUCHER_CATEGORIES"),
		},
		Optimizer: OptimizerConfig{
			ExactItemLimit: getEnvInt("OPTIMIZER_EXACT_THRESHOLD", def.Optimizer.ExactItemLimit),
			SearchTimeout:  getEnvDuration("OPTIMIZER_TIMEOUT", def.Optimizer.SearchTimeout),
		},
		ProductLookup: ProductLookupConfig{
			BaseURL:  getEnv("PRODUCT_LOOKUP_URL", def.ProductLookup.BaseURL),
			Timeout:  getEnvDuration("PRODUCT_LOOKUP_TIMEOUT", def.ProductLookup.Timeout),
			RetryMax: getEnvInt("PRODUCT_LOOKUP_RETRIES", def.ProductLookup.RetryMax),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
			Metrics: MetricsConfig{
				Enabled:   getEnv("METRICS_ENABLED", "true") != "false",
				Namespace: getEnv("METRICS_NAMESPACE", def.Observability.Metrics.Namespace),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate reports the first problem that would make the server misbehave.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	for name, v := range map[string]VoucherConfig{"party_a": c.Vouchers.PartyA, "party_b": c.Vouchers.PartyB} {
		spec, err := v.Spec()
		if err != nil {
			errs = append(errs, fmt.Errorf("vouchers.%s: %w", name, err))
			continue
		}
		if spec.UnitValue.IsNegative() || spec.MaxUnits < 0 {
			errs = append(errs, fmt.Errorf("vouchers.%s: unit value and max units must not be negative", name))
		}
	}
	if c.Optimizer.ExactItemLimit <= 0 {
		errs = append(errs, errors.New("optimizer.exact_item_limit must be positive"))
	}
	if c.Optimizer.SearchTimeout <= 0 {
		errs = append(errs, errors.New("optimizer.search_timeout must be positive"))
	}
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("server.port must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvDuration retrieves a duration such as "5s" with a fallback default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
