package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/spf13/viper"
)

const appName = "bookstore"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Browser BrowserConfig `mapstructure:"browser"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds remote catalog configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Query             string        `mapstructure:"query"`   // Search terms for the browsed list
	APIKey            string        `mapstructure:"api_key"` // Optional; raises quota
	PageSize          int           `mapstructure:"page_size"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// StoreConfig holds the favorites database location
type StoreConfig struct {
	Path string `mapstructure:"path"` // Empty keeps favorites in memory only
}

// BrowserConfig selects how links are opened
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty uses the system default
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	GridColumns int    `mapstructure:"grid_columns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://www.googleapis.com/books/v1",
			Query:             "ios",
			PageSize:          domain.PageSize,
			CacheTTL:          10 * time.Minute,
			RequestsPerSecond: 2,
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultDataPath(), "favorites.db"),
		},
		UI: UIConfig{
			Theme:       "default",
			GridColumns: 2,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), appName+".log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// ConfigExists reports whether a config file has been written
func ConfigExists() bool {
	return configExists(defaultConfigPath())
}

func configExists(configDir string) bool {
	_, err := os.Stat(filepath.Join(configDir, "config.yaml"))
	return err == nil
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, configDir string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. BOOKSTORE_CATALOG_API_KEY
	v.SetEnvPrefix("BOOKSTORE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv overrides reach Unmarshal
// even when the config file does not mention them.
func bindEnvKeys(v *viper.Viper) {
	for _, k := range []string{
		"catalog.base_url", "catalog.query", "catalog.api_key", "catalog.page_size",
		"catalog.cache_ttl", "catalog.requests_per_second",
		"store.path",
		"browser.command", "browser.args",
		"ui.theme", "ui.grid_columns",
		"logging.file", "logging.level",
	} {
		_ = v.BindEnv(k)
	}
}

// normalize clamps values the UI depends on
func (c *Config) normalize() {
	// The catalog serves at most domain.MaxPageSize books per page
	c.Catalog.PageSize = domain.ClampPageSize(c.Catalog.PageSize)
	if c.UI.GridColumns <= 0 {
		c.UI.GridColumns = 2
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		c.Catalog.RequestsPerSecond = 2
	}
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.query", cfg.Catalog.Query)
	v.Set("catalog.api_key", cfg.Catalog.APIKey)
	v.Set("catalog.page_size", cfg.Catalog.PageSize)
	v.Set("catalog.cache_ttl", cfg.Catalog.CacheTTL.String())
	v.Set("catalog.requests_per_second", cfg.Catalog.RequestsPerSecond)

	v.Set("store.path", cfg.Store.Path)

	v.Set("browser.command", cfg.Browser.Command)
	v.Set("browser.args", cfg.Browser.Args)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.grid_columns", cfg.UI.GridColumns)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
