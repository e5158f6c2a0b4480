// Package config resolves runtime configuration for the newsstand CLI
// and server. Precedence, lowest to highest: built-in defaults, the
// optional ~/.newsstand/config.yaml, then NEWSSTAND_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	// DBPath is the SQLite database holding custom recipes and defaults.
	DBPath string
	// RecipesDir holds *.recipe.yaml documents for file-based authoring.
	RecipesDir string
	// Addr is the listen address for the HTTP API.
	Addr string
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string
}

// FileConfig represents the structure of ~/.newsstand/config.yaml.
type FileConfig struct {
	Storage struct {
		DSN string `yaml:"dsn"`
	} `yaml:"storage"`
	RecipesDir string `yaml:"recipes_dir"`
	Server     struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	LogLevel string `yaml:"log_level"`
}

// DataDir returns the per-user newsstand data directory.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsstand"), nil
}

// ConfigFilePath returns the path of the optional config file.
func ConfigFilePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfigFile loads ~/.newsstand/config.yaml. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but
// cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Load resolves the runtime configuration from defaults, the optional
// config file, and the environment.
func Load() (*Config, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:     filepath.Join(dataDir, "recipes.db"),
		RecipesDir: filepath.Join(dataDir, "recipes"),
		Addr:       "localhost:8080",
		LogLevel:   "info",
	}

	fileCfg, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		if fileCfg.Storage.DSN != "" {
			cfg.DBPath = fileCfg.Storage.DSN
		}
		if fileCfg.RecipesDir != "" {
			cfg.RecipesDir = fileCfg.RecipesDir
		}
		if fileCfg.Server.Addr != "" {
			cfg.Addr = fileCfg.Server.Addr
		}
		if fileCfg.LogLevel != "" {
			cfg.LogLevel = fileCfg.LogLevel
		}
	}

	cfg.DBPath = getenv("NEWSSTAND_DB", cfg.DBPath)
	cfg.RecipesDir = getenv("NEWSSTAND_RECIPES_DIR", cfg.RecipesDir)
	cfg.Addr = getenv("NEWSSTAND_ADDR", cfg.Addr)
	cfg.LogLevel = getenv("NEWSSTAND_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
