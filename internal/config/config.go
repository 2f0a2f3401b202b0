package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config defines server and CLI configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Catalog CatalogConfig `yaml:"catalog"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreConfig struct {
	Driver   string `yaml:"driver"`
	DBPath   string `yaml:"db_path"`
	DecksDir string `yaml:"decks_dir"`
}

// CatalogConfig points at the directory holding cards.json and
// custom_cards.csv used to seed the default deck.
type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

type ExportConfig struct {
	IncludeBacks bool `yaml:"include_backs"`
	// LogoDir resolves relative logo paths.
	LogoDir string `yaml:"logo_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Driver:   DriverSQLite,
			DBPath:   "cahdeck.db",
			DecksDir: "decks",
		},
		Catalog: CatalogConfig{
			Dir: "data",
		},
		Export: ExportConfig{
			LogoDir: ".",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CAHDECK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CAHDECK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	for _, name := range []string{"PORT", "CAHDECK_SERVER_PORT"} {
		portStr := os.Getenv(name)
		if portStr == "" {
			continue
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", name, err)
		}
		cfg.Server.Port = port
	}
	if driver := os.Getenv("CAHDECK_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if dbPath := os.Getenv("CAHDECK_DB_PATH"); dbPath != "" {
		cfg.Store.DBPath = dbPath
	}
	if dir := os.Getenv("CAHDECK_DECKS_DIR"); dir != "" {
		cfg.Store.DecksDir = dir
	}
	if dir := os.Getenv("CAHDECK_CATALOG_DIR"); dir != "" {
		cfg.Catalog.Dir = dir
	}
	if dir := os.Getenv("CAHDECK_LOGO_DIR"); dir != "" {
		cfg.Export.LogoDir = dir
	}
	if backs := os.Getenv("CAHDECK_INCLUDE_BACKS"); backs != "" {
		v, err := strconv.ParseBool(backs)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CAHDECK_INCLUDE_BACKS: %w", err)
		}
		cfg.Export.IncludeBacks = v
	}
	if level := os.Getenv("CAHDECK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
