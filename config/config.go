package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Proximity ProximityConfig `mapstructure:"proximity"`
	Location  LocationConfig  `mapstructure:"location"`
	Scan      ScanConfig      `mapstructure:"scan"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// CatalogConfig holds supermarket catalog configuration
type CatalogConfig struct {
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	WarmupConcurrency int           `mapstructure:"warmup_concurrency"`
}

// ProximityConfig holds the two proximity radii.
// NearbyRadiusKm is the broad "stores around you" radius; VeryCloseRadiusKm
// drives the near-supermarket notification. They are deliberately separate
// knobs and must not be collapsed.
type ProximityConfig struct {
	NearbyRadiusKm    float64 `mapstructure:"nearby_radius_km"`
	VeryCloseRadiusKm float64 `mapstructure:"very_close_radius_km"`
}

// LocationConfig holds the location acquisition fallback policy
type LocationConfig struct {
	HighAccuracyTimeout time.Duration `mapstructure:"high_accuracy_timeout"`
	HighAccuracyMaxAge  time.Duration `mapstructure:"high_accuracy_max_age"`
	LowAccuracyTimeout  time.Duration `mapstructure:"low_accuracy_timeout"`
	LowAccuracyMaxAge   time.Duration `mapstructure:"low_accuracy_max_age"`
}

// ScanConfig holds the vision endpoint configuration
type ScanConfig struct {
	VisionEndpoint      string        `mapstructure:"vision_endpoint"`
	VisionAPIKey        string        `mapstructure:"vision_api_key"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional, log but don't fail
	if err := loadEnvFile(); err != nil {
		log.Warn().Err(err).Msg("Warning: .env file not loaded")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("COMPANION")
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads .env from the usual locations
func loadEnvFile() error {
	for _, path := range []string{".", "./config"} {
		envFile := fmt.Sprintf("%s/.env", path)
		if _, err := os.Stat(envFile); err == nil {
			if err := loadDotEnvFile(envFile); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("no .env file found")
}

// loadDotEnvFile reads a .env file and sets environment variables
func loadDotEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("scan.vision_endpoint", "VISION_ENDPOINT")
	v.BindEnv("scan.vision_api_key", "VISION_API_KEY")
	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	// Catalog defaults
	v.SetDefault("catalog.cache_ttl", 1*time.Hour)
	v.SetDefault("catalog.warmup_concurrency", 3)

	// Proximity defaults
	v.SetDefault("proximity.nearby_radius_km", 1.0)
	v.SetDefault("proximity.very_close_radius_km", 0.5)

	// Location acquisition defaults
	v.SetDefault("location.high_accuracy_timeout", 8*time.Second)
	v.SetDefault("location.high_accuracy_max_age", 60*time.Second)
	v.SetDefault("location.low_accuracy_timeout", 15*time.Second)
	v.SetDefault("location.low_accuracy_max_age", 300*time.Second)

	// Scan defaults
	v.SetDefault("scan.confidence_threshold", 0.6)
	v.SetDefault("scan.timeout", 30*time.Second)

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst_size", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}
