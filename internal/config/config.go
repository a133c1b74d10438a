package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	View    ViewConfig    `mapstructure:"view"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	TimeoutSeconds    int           `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	LookupCacheTTL    time.Duration `mapstructure:"lookup_cache_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ViewConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// envOverrides are applied on top of the config file, so a token or base
// URL can be injected without editing yaml (CLINIC_BASE_URL, CLINIC_TOKEN).
type envOverrides struct {
	BaseURL  string `envconfig:"BASE_URL"`
	Token    string `envconfig:"TOKEN"`
	LogLevel string `envconfig:"LOG_LEVEL"`
}

// Token is carried outside Config proper: it is session state, not
// configuration, and only flows from the environment into the session store.
type Loaded struct {
	Config
	Token string
}

func LoadConfig() (*Loaded, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.clinic")

	viper.SetDefault("api.base_url", "https://fed-medical-clinic-api.vercel.app")
	viper.SetDefault("api.timeout_seconds", 15)
	viper.SetDefault("api.requests_per_second", 10.0)
	viper.SetDefault("api.burst", 5)
	viper.SetDefault("api.lookup_cache_ttl", 30*time.Second)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("view.page_size", 10)
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.addr", ":9095")

	if err := viper.ReadInConfig(); err != nil {
		// The CLI must work with defaults alone; only a malformed file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("clinic", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if env.BaseURL != "" {
		config.API.BaseURL = env.BaseURL
	}
	if env.LogLevel != "" {
		config.Log.Level = env.LogLevel
	}

	return &Loaded{Config: config, Token: env.Token}, nil
}

func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
