package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ghenv/internal/models"
)

const (
	configEnv      = "GHENV_CONFIG"
	configDirName  = "ghenv"
	configFileName = "ghenv.yaml"
)

func Load(path string) (models.Config, error) {
	var cfg models.Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Owner = strings.TrimSpace(cfg.Owner)
	cfg.Repo = strings.TrimSpace(cfg.Repo)
	cfg.Environment = strings.TrimSpace(cfg.Environment)
	if strings.ContainsAny(cfg.Owner, "/") {
		return cfg, fmt.Errorf("owner %q must not contain '/'", cfg.Owner)
	}
	if strings.ContainsAny(cfg.Repo, "/") {
		return cfg, fmt.Errorf("repo %q must not contain '/'", cfg.Repo)
	}
	cfg.ConfigPath = path
	return cfg, nil
}

// WithDefaults fills every unset field from the demo configuration.
// Variables are only defaulted when the file did not declare the key at all.
func WithDefaults(cfg models.Config) models.Config {
	demo := models.DemoConfig()
	if cfg.Owner == "" {
		cfg.Owner = demo.Owner
	}
	if cfg.Repo == "" {
		cfg.Repo = demo.Repo
	}
	if cfg.Environment == "" {
		cfg.Environment = demo.Environment
	}
	if cfg.Variables == nil {
		cfg.Variables = demo.Variables
	}
	return cfg
}

func ResolvePath(flagPath string) (string, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(configEnv))
	}
	if path != "" {
		if !filepath.IsAbs(path) {
			return "", fmt.Errorf("config path must be absolute: %s", path)
		}
		return path, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}
