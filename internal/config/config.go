package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API   APIConfig
	Cache CacheConfig
	UI    UIConfig
}

// APIConfig holds remote service settings.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig holds local sqlite cache settings.
type CacheConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string
	CurrencySymbol string
	RecentDays     int
}

// Load reads configuration from file and env. Env var overrides use prefix OUTLAY_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("cache.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "outlay", "cache.db"))
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.recent_days", 7)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("OUTLAY_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "outlay"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OUTLAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.RecentDays <= 0 {
		c.UI.RecentDays = 7
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory
// if needed. Used by the TUI when the recent window is adjusted; only
// non-sensitive preferences live here, the auth token never does.
func Save(cfg Config) error {
	path := os.Getenv("OUTLAY_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "outlay", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("cache.path", cfg.Cache.Path)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.recent_days", cfg.UI.RecentDays)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
