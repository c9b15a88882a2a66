// Package config loads the client configuration from the config file,
// environment, and defaults, in that order of increasing precedence for the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved client configuration.
type Config struct {
	// APIURL is the backend base URL.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// DataDir is where the board and task collections live. Defaults to
	// ~/.taskdeck.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// SeedBoards seeds sample boards on first run.
	SeedBoards bool `mapstructure:"seed_boards" yaml:"seed_boards"`

	// LogFile receives the rotated activity log. Empty means stderr only.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// DashboardPort is where `td dashboard` listens.
	DashboardPort int `mapstructure:"dashboard_port" yaml:"dashboard_port"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		APIURL:        "http://localhost:3000",
		DataDir:       filepath.Join(home, ".taskdeck"),
		SeedBoards:    true,
		DashboardPort: 8484,
	}
}

// File returns the path of the config file under the data directory.
func File(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// Load resolves the configuration. The config file is looked up in path when
// given, otherwise in the default data directory; a missing file is fine.
// Every key can be overridden with a TASKDECK_* environment variable
// (TASKDECK_API_URL, TASKDECK_DATA_DIR, ...).
func Load(path string) (Config, error) {
	defaults := Defaults()

	v := viper.New()
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("seed_boards", defaults.SeedBoards)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("dashboard_port", defaults.DashboardPort)

	v.SetEnvPrefix("TASKDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaults.DataDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// WriteDefault writes the built-in configuration to path as YAML, creating
// parent directories as needed. Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
