package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Coffer"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Vault struct {
		// Path to the encrypted vault file. Empty means the default
		// location under the user config directory.
		Path string `envconfig:"VAULT_PATH" default:""`
	}

	Auth struct {
		Secret string        `envconfig:"AUTH_SECRET" default:""`
		TTL    time.Duration `envconfig:"AUTH_TTL" default:"24h"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

// VaultPath resolves the configured vault file, falling back to
// coffer/vault.dat under the OS user config directory.
func (c *Config) VaultPath() (string, error) {
	if c.Vault.Path != "" {
		return c.Vault.Path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}

	return filepath.Join(dir, "coffer", "vault.dat"), nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
