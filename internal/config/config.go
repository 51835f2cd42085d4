package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	APIURL         string `mapstructure:"api_url"`
	APIKey         string `mapstructure:"api_key" json:"-"`
	TransactionFee string `mapstructure:"transaction_fee"`
	NotifiersFile  string `mapstructure:"notifiers_file"`
	MetricsAddr    string `mapstructure:"metrics_addr"`

	HTTPTimeoutSeconds   int64           `mapstructure:"http_timeout_seconds"`
	TokenRenewalSeconds  int64           `mapstructure:"token_renewal_seconds"`
	WatchIntervalSeconds int64           `mapstructure:"watch_interval_seconds"`
	HTTPTimeout          time.Duration   `mapstructure:"-"`
	TokenRenewal         time.Duration   `mapstructure:"-"`
	WatchInterval        time.Duration   `mapstructure:"-"`
	Fee                  decimal.Decimal `mapstructure:"-" json:"-"`

	SessionStore           string        `mapstructure:"session_store"`
	SessionPath            string        `mapstructure:"session_path"`
	SessionCleanupSeconds  int64         `mapstructure:"session_cleanup_interval_seconds"`
	SessionCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	v.SetEnvPrefix("playergold")

	v.SetDefault("app_name", "playergold")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_url", "http://localhost:18080/api/v1")
	v.SetDefault("api_key", "")
	v.SetDefault("transaction_fee", "0.01")
	v.SetDefault("notifiers_file", "")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("token_renewal_seconds", 300)
	v.SetDefault("watch_interval_seconds", 30)
	v.SetDefault("session_store", "none")
	v.SetDefault("session_path", "./data/session.db")
	v.SetDefault("session_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates raw values and derives the typed fields.
func (cfg *Config) normalize() error {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.TokenRenewalSeconds < 0 {
		return fmt.Errorf("invalid token_renewal_seconds (must not be negative)")
	}
	cfg.TokenRenewal = time.Duration(cfg.TokenRenewalSeconds) * time.Second

	if cfg.WatchIntervalSeconds <= 0 {
		return fmt.Errorf("invalid watch_interval_seconds (must be positive seconds)")
	}
	cfg.WatchInterval = time.Duration(cfg.WatchIntervalSeconds) * time.Second

	if cfg.SessionCleanupSeconds <= 0 {
		return fmt.Errorf("invalid session_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.SessionCleanupInterval = time.Duration(cfg.SessionCleanupSeconds) * time.Second

	fee, err := decimal.NewFromString(strings.TrimSpace(cfg.TransactionFee))
	if err != nil {
		return fmt.Errorf("invalid transaction_fee %q: %w", cfg.TransactionFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("invalid transaction_fee (must not be negative)")
	}
	cfg.Fee = fee

	return nil
}
