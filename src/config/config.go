package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Quotes          QuotesConfig         `mapstructure:"quotes"`
	Worker          WorkerConfig         `mapstructure:"worker"`
	AWS             AWSConfig            `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type           ServiceType `mapstructure:"type"`
	Port           string      `mapstructure:"port"`
	LogLevel       string      `mapstructure:"logLevel"`
	LogFormat      string      `mapstructure:"logFormat"`
	LogFile        string      `mapstructure:"logFile"`
	AllowedOrigins []string    `mapstructure:"allowedOrigins"`
}

type Backend string

const (
	SQLite   Backend = "sqlite"
	Postgres Backend = "postgres"
	Redis    Backend = "redis"
)

type DatabasesConfig struct {
	Backend Backend      `mapstructure:"backend"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	SQL     SQLConfig    `mapstructure:"sql"`
	Redis   RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	TLS       bool   `mapstructure:"tls"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

type ExternalClientConfig struct {
	Finnhub      ProviderConfig `mapstructure:"finnhub"`
	AlphaVantage ProviderConfig `mapstructure:"alphaVantage"`
}

type ProviderConfig struct {
	BaseURL        string        `mapstructure:"baseUrl"`
	APIKey         string        `mapstructure:"apiKey"`
	APIKeySecretID string        `mapstructure:"apiKeySecretId"`
	DailyLimit     int           `mapstructure:"dailyLimit"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the provider has a key or a way to resolve one.
func (p ProviderConfig) Enabled() bool {
	return p.BaseURL != "" && (p.APIKey != "" || p.APIKeySecretID != "")
}

type QuotesConfig struct {
	MinRefreshInterval time.Duration `mapstructure:"minRefreshInterval"`
	Sources            []string      `mapstructure:"sources"`
}

type WorkerConfig struct {
	RefreshCron string `mapstructure:"refreshCron"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// LoadConfig reads appsettings.yaml from path and, when env is set, merges
// appsettings.<env>.yaml on top of it. A .env file in path is loaded first so
// provider keys can be kept out of the yaml.
func LoadConfig(path string, env ...string) (*Config, error) {
	var cfg Config

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if len(env) > 0 && env[0] != "" {
		v.SetConfigName("appsettings." + env[0])
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	_ = v.BindEnv("service.type", "SERVICE_TYPE")
	_ = v.BindEnv("databases.backend", "DATABASE_BACKEND")
	_ = v.BindEnv("externalClients.finnhub.apiKey", "FINNHUB_API_KEY")
	_ = v.BindEnv("externalClients.alphaVantage.apiKey", "ALPHAVANTAGE_API_KEY")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.logLevel", "info")
	v.SetDefault("service.logFormat", "json")
	v.SetDefault("databases.backend", string(SQLite))
	v.SetDefault("databases.sqlite.path", "data/portfolio.db")
	v.SetDefault("databases.redis.keyPrefix", "dividendtracker:")
	v.SetDefault("externalClients.alphaVantage.dailyLimit", 25)
	v.SetDefault("externalClients.finnhub.timeout", 10*time.Second)
	v.SetDefault("externalClients.alphaVantage.timeout", 10*time.Second)
	v.SetDefault("quotes.minRefreshInterval", time.Minute)
	v.SetDefault("quotes.sources", []string{"finnhub", "alphavantage"})
	v.SetDefault("worker.refreshCron", "*/15 * * * *")
}
