package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	OpenMeteo OpenMeteoConfig `mapstructure:"openmeteo"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Store     StoreConfig     `mapstructure:"store"`
	Google    GoogleConfig    `mapstructure:"google"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// FallbackConfig is the city used when a request carries no coordinates.
type FallbackConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Label     string  `mapstructure:"label"`
}

type OpenMeteoConfig struct {
	ForecastURL  string `mapstructure:"forecasturl"`
	GeocodingURL string `mapstructure:"geocodingurl"`
	ForecastDays int    `mapstructure:"forecastdays"`

	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit float64 `mapstructure:"ratelimit"`
	Burst     int     `mapstructure:"burst"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type SnapshotConfig struct {
	MaxAge time.Duration `mapstructure:"maxage"`
}

type SchedulerConfig struct {
	// Interval between fallback refreshes; 0 disables the job.
	Interval time.Duration `mapstructure:"interval"`
}

type QuizConfig struct {
	SessionTTL time.Duration `mapstructure:"sessionttl"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory, sqlite, postgres
	DSN    string `mapstructure:"dsn"`
}

type GoogleConfig struct {
	APIKey string `mapstructure:"apikey"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("fallback.latitude", 22.5726)
	v.SetDefault("fallback.longitude", 88.3639)
	v.SetDefault("fallback.label", "Kolkata, West Bengal, India")

	v.SetDefault("openmeteo.forecasturl", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("openmeteo.geocodingurl", "https://geocoding-api.open-meteo.com/v1/reverse")
	v.SetDefault("openmeteo.forecastdays", 7)
	v.SetDefault("openmeteo.ratelimit", 5)
	v.SetDefault("openmeteo.burst", 5)

	v.SetDefault("http.timeout", "8s")
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("snapshot.maxage", "10m")
	v.SetDefault("scheduler.interval", "15m")
	v.SetDefault("quiz.sessionttl", "2h")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("google.apikey", "")
}

// Load reads configuration from .env, an optional config.yaml, and
// SKYPULSE_* environment variables, in increasing precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	return load(v)
}

func load(v *viper.Viper) (*AppConfig, error) {
	setDefaults(v)

	// SKYPULSE_OPENMETEO_FORECASTDAYS -> openmeteo.forecastdays
	v.SetEnvPrefix("SKYPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Fallback.Latitude < -90 || c.Fallback.Latitude > 90 {
		return fmt.Errorf("invalid fallback.latitude %v", c.Fallback.Latitude)
	}
	if c.Fallback.Longitude < -180 || c.Fallback.Longitude > 180 {
		return fmt.Errorf("invalid fallback.longitude %v", c.Fallback.Longitude)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *AppConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
