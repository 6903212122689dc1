package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig
	Dataset   DatasetConfig
	Logger    LoggerConfig
	Security  SecurityConfig
	Telemetry TelemetryConfig
	Dashboard DashboardConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatasetConfig struct {
	CSVFile          string
	Encoding         string
	FallbackEncoding string
	LoadTimeout      time.Duration
	ParseWorkers     int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

type TelemetryConfig struct {
	TracingEnabled bool
	MetricsEnabled bool
	ServiceName    string
}

// DashboardConfig sizes the summary tables. It can be overridden from a YAML
// file named by DASHBOARD_CONFIG_FILE.
type DashboardConfig struct {
	TopN          int   `yaml:"top_n"`
	SampleSize    int   `yaml:"sample_size"`
	SampleSeed    int64 `yaml:"sample_seed"`
	HistogramBins int   `yaml:"histogram_bins"`
	MarginBands   int   `yaml:"margin_bands"`
	DetailRows    int   `yaml:"detail_rows"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8501),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Dataset: DatasetConfig{
			CSVFile:          getEnvString("DATASET_FILE", "Sample - Superstore.csv"),
			Encoding:         getEnvString("DATASET_ENCODING", "ISO-8859-1"),
			FallbackEncoding: getEnvString("DATASET_FALLBACK_ENCODING", "UTF-8"),
			LoadTimeout:      getEnvDuration("DATASET_LOAD_TIMEOUT", 30*time.Second),
			ParseWorkers:     getEnvInt("DATASET_PARSE_WORKERS", 8),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 50),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 20),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8501"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Telemetry: TelemetryConfig{
			TracingEnabled: getEnvBool("TELEMETRY_TRACING_ENABLED", false),
			MetricsEnabled: getEnvBool("TELEMETRY_METRICS_ENABLED", true),
			ServiceName:    getEnvString("TELEMETRY_SERVICE_NAME", "superstore-dashboard"),
		},
		Dashboard: DefaultDashboard(),
	}

	if path := os.Getenv("DASHBOARD_CONFIG_FILE"); path != "" {
		if err := loadDashboardFile(path, &cfg.Dashboard); err != nil {
			return nil, fmt.Errorf("load dashboard config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultDashboard returns the stock table sizes.
func DefaultDashboard() DashboardConfig {
	return DashboardConfig{
		TopN:          10,
		SampleSize:    1000,
		SampleSeed:    0,
		HistogramBins: 50,
		MarginBands:   5,
		DetailRows:    100,
	}
}

// loadDashboardFile overlays the non-zero fields of a YAML document onto dst.
func loadDashboardFile(path string, dst *DashboardConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file DashboardConfig
	if err := yaml.Unmarshal(b, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if file.TopN != 0 {
		dst.TopN = file.TopN
	}
	if file.SampleSize != 0 {
		dst.SampleSize = file.SampleSize
	}
	if file.SampleSeed != 0 {
		dst.SampleSeed = file.SampleSeed
	}
	if file.HistogramBins != 0 {
		dst.HistogramBins = file.HistogramBins
	}
	if file.MarginBands != 0 {
		dst.MarginBands = file.MarginBands
	}
	if file.DetailRows != 0 {
		dst.DetailRows = file.DetailRows
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.CSVFile == "" {
		return fmt.Errorf("dataset file path cannot be empty")
	}

	if c.Dataset.Encoding == "" || c.Dataset.FallbackEncoding == "" {
		return fmt.Errorf("dataset encodings cannot be empty")
	}

	if c.Dataset.ParseWorkers <= 0 {
		return fmt.Errorf("dataset parse workers must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	d := c.Dashboard
	if d.TopN <= 0 || d.SampleSize <= 0 || d.HistogramBins <= 0 || d.MarginBands <= 0 || d.DetailRows <= 0 {
		return fmt.Errorf("dashboard sizes must be positive: %+v", d)
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
