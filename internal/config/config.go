// Package config provides configuration management for Aurum.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aurumwallet/aurum/internal/cryptobox"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Storage  StorageConfig  `yaml:"storage"`
	Security SecurityConfig `yaml:"security"`
	Device   DeviceConfig   `yaml:"device"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig defines where the vault and backups live.
type StorageConfig struct {
	VaultFile string `yaml:"vault_file"`
	BackupDir string `yaml:"backup_dir"`
}

// SecurityConfig defines key-derivation and session settings.
type SecurityConfig struct {
	// KDFIterations is the PBKDF2 iteration count for password
	// encryption. Values below the built-in floor are ignored.
	KDFIterations int `yaml:"kdf_iterations"`

	AutoLockSeconds int  `yaml:"auto_lock_seconds"`
	MemoryLock      bool `yaml:"memory_lock"`

	// Biometric selects the escrow backend: keyring, webauthn or off.
	Biometric string `yaml:"biometric"`
}

// DeviceConfig defines backend registration settings.
type DeviceConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	Register   bool   `yaml:"register"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file, layering it over the
// defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default aurum home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aurum"
	}
	return filepath.Join(home, ".aurum")
}

// KDFIterations returns the effective PBKDF2 iteration count, never below
// the cryptobox floor.
func (c *Config) KDFIterations() int {
	if c.Security.KDFIterations < cryptobox.MinIterations {
		return cryptobox.MinIterations
	}
	return c.Security.KDFIterations
}

// VaultPath resolves the vault file against the home directory.
func (c *Config) VaultPath() string {
	return c.resolve(c.Storage.VaultFile)
}

// BackupPath resolves the backup directory against the home directory.
func (c *Config) BackupPath() string {
	return c.resolve(c.Storage.BackupDir)
}

// LogPath resolves the log file against the home directory. Empty when
// file logging is disabled.
func (c *Config) LogPath() string {
	if c.Logging.File == "" {
		return ""
	}
	return c.resolve(c.Logging.File)
}

// resolve expands ~ and joins relative paths under Home.
func (c *Config) resolve(path string) string {
	path = ExpandHome(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ExpandHome(c.Home), path)
}

// ExpandHome expands a leading ~/ to the user home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func (c *Config) normalize() {
	if c.Home == "" {
		c.Home = DefaultHome()
	}
	if c.Storage.VaultFile == "" {
		c.Storage.VaultFile = "vault.json"
	}
	if c.Storage.BackupDir == "" {
		c.Storage.BackupDir = "backups"
	}
	switch strings.ToLower(c.Security.Biometric) {
	case "keyring", "webauthn", "off":
		c.Security.Biometric = strings.ToLower(c.Security.Biometric)
	default:
		c.Security.Biometric = "keyring"
	}
}
