package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	API     APIConfig     `mapstructure:"api"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `mapstructure:"version"`
}

type OAuthConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	ClientID        string `mapstructure:"client_id" validate:"required"`
	ClientSecret    string `mapstructure:"client_secret" validate:"required"`
	DefaultUsername string `mapstructure:"default_username"`
	DefaultPassword string `mapstructure:"default_password"`
}

type APIConfig struct {
	BaseURLDev      string        `mapstructure:"base_url_dev"`
	BaseURLStaging  string        `mapstructure:"base_url_staging"`
	BaseURLProd     string        `mapstructure:"base_url_prod"`
	Timeout         time.Duration `mapstructure:"timeout"`
	UploadTimeout   time.Duration `mapstructure:"upload_timeout"`
	DefaultDriverID int           `mapstructure:"default_driver_id"`
}

type TrackerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Distance float64       `mapstructure:"distance"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=pretty json"`
}

// Load config data from file
func LoadConfig(configPath ...string) (*Config, error) {
	viper.AddConfigPath(".")
	for _, p := range configPath {
		viper.AddConfigPath(p)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("DRIVEMATE")

	setDefaults()
	bindEnvVars()

	// try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Println("Config file not found. Using environment variables and defaults.")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// DataBaseURL resolves the data API base for the active environment.
// The data API lives under the OAuth host with an /api prefix unless an
// explicit per-environment base is configured.
func (c *Config) DataBaseURL() string {
	var base string
	switch c.App.Environment {
	case "production":
		base = c.API.BaseURLProd
	case "staging":
		base = c.API.BaseURLStaging
	default:
		base = c.API.BaseURLDev
	}
	if base == "" {
		base = c.OAuth.BaseURL + "/api"
	}
	return strings.TrimRight(base, "/")
}

// set defaults data for config
func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "drivemate")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.version", "1.0.0")

	// OAuth defaults
	viper.SetDefault("oauth.base_url", "https://devtrans.transend.ca")

	// API defaults
	viper.SetDefault("api.timeout", "60s")
	viper.SetDefault("api.upload_timeout", "120s")
	viper.SetDefault("api.default_driver_id", 1)

	// Tracker defaults
	viper.SetDefault("tracker.interval", "12s")
	viper.SetDefault("tracker.distance", 10.0)

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.dial_timeout", "5s")
	viper.SetDefault("redis.read_timeout", "3s")
	viper.SetDefault("redis.write_timeout", "3s")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "pretty")
}

// bind Env variables to config fields
func bindEnvVars() {
	envBindings := map[string]string{
		// App
		"app.name":        "APP_NAME",
		"app.environment": "APP_ENV",
		"app.version":     "APP_VERSION",

		// OAuth
		"oauth.base_url":         "OAUTH_BASE_URL",
		"oauth.client_id":        "OAUTH_CLIENT_ID",
		"oauth.client_secret":    "OAUTH_CLIENT_SECRET",
		"oauth.default_username": "OAUTH_DEFAULT_USERNAME",
		"oauth.default_password": "OAUTH_DEFAULT_PASSWORD",

		// API
		"api.base_url_dev":      "API_BASE_URL_DEV",
		"api.base_url_staging":  "API_BASE_URL_STAGING",
		"api.base_url_prod":     "API_BASE_URL_PROD",
		"api.default_driver_id": "API_DEFAULT_DRIVER_ID",

		// Tracker
		"tracker.interval": "TRACKER_INTERVAL",
		"tracker.distance": "TRACKER_DISTANCE",

		// Redis
		"redis.enabled":  "REDIS_ENABLED",
		"redis.host":     "REDIS_HOST",
		"redis.port":     "REDIS_PORT",
		"redis.password": "REDIS_PASSWORD",
		"redis.db":       "REDIS_DB",

		// Log
		"log.level":  "LOG_LEVEL",
		"log.format": "LOG_FORMAT",
	}

	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}
}

// validate data for config
func validateConfig(cfg *Config) error {
	if cfg.OAuth.BaseURL == "" {
		return fmt.Errorf("oauth base URL is required")
	}

	switch cfg.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("unknown environment %q", cfg.App.Environment)
	}

	// client credentials must come from the environment, never from source
	if cfg.App.Environment == "production" {
		if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
			return fmt.Errorf("OAuth client credentials are required in production")
		}
		if cfg.OAuth.DefaultUsername != "" || cfg.OAuth.DefaultPassword != "" {
			return fmt.Errorf("default credentials must not be set in production")
		}
	}

	if cfg.Tracker.Interval <= 0 {
		return fmt.Errorf("tracker interval must be positive")
	}

	return nil
}
