package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig           `yaml:"app"`
	Storage  StorageConfig       `yaml:"storage"`
	Observ   ObservabilityConfig `yaml:"observability"`
	Business BusinessConfig      `yaml:"business"`
}

type AppConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

type StorageConfig struct {
	OrdersDir string `yaml:"orders_dir"`
	DataDir   string `yaml:"data_dir"`
	BackupDir string `yaml:"backup_dir"`
	AuditFile string `yaml:"audit_file"`
}

type ObservabilityConfig struct {
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
	MetricsFile    string `yaml:"metrics_file"`
}

type BusinessConfig struct {
	MinOrderArea string `yaml:"min_order_area"`
	ExportFormat string `yaml:"export_format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:      "development",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			OrdersDir: "Orders",
			DataDir:   "Data",
			BackupDir: "Backup",
			AuditFile: "audit.txt",
		},
		Business: BusinessConfig{
			MinOrderArea: "100",
			ExportFormat: "text",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when it does not exist), then environment variables, which may
// also come from a .env file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.App.Env = getEnv("ENV", cfg.App.Env)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.Storage.OrdersDir = getEnv("ORDERS_DIR", cfg.Storage.OrdersDir)
	cfg.Storage.DataDir = getEnv("DATA_DIR", cfg.Storage.DataDir)
	cfg.Storage.BackupDir = getEnv("BACKUP_DIR", cfg.Storage.BackupDir)
	cfg.Storage.AuditFile = getEnv("AUDIT_FILE", cfg.Storage.AuditFile)
	cfg.Observ.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", cfg.Observ.JaegerEndpoint)
	cfg.Observ.MetricsFile = getEnv("METRICS_FILE", cfg.Observ.MetricsFile)
	cfg.Business.MinOrderArea = getEnv("MIN_ORDER_AREA", cfg.Business.MinOrderArea)
	cfg.Business.ExportFormat = getEnv("EXPORT_FORMAT", cfg.Business.ExportFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be used as loaded
func (c *Config) Validate() error {
	if _, err := c.MinArea(); err != nil {
		return fmt.Errorf("invalid min_order_area %q: %w", c.Business.MinOrderArea, err)
	}
	switch c.Business.ExportFormat {
	case "text", "xlsx":
	default:
		return fmt.Errorf("invalid export_format %q", c.Business.ExportFormat)
	}
	return nil
}

// MinArea returns the smallest order area accepted
func (c *Config) MinArea() (decimal.Decimal, error) {
	return decimal.NewFromString(c.Business.MinOrderArea)
}

// ProductsFile returns the product catalog path
func (c *Config) ProductsFile() string {
	return filepath.Join(c.Storage.DataDir, "Products.txt")
}

// TaxesFile returns the tax catalog path
func (c *Config) TaxesFile() string {
	return filepath.Join(c.Storage.DataDir, "Taxes.txt")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
