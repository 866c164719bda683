package config

import "github.com/aurumwallet/aurum/internal/cryptobox"

// DefaultAPIBaseURL is the default wallet backend endpoint for device
// registration.
const DefaultAPIBaseURL = "https://api.aurumwallet.io"

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.aurum",
		Storage: StorageConfig{
			VaultFile: "vault.json",
			BackupDir: "backups",
		},
		Security: SecurityConfig{
			KDFIterations:   cryptobox.DefaultIterations,
			AutoLockSeconds: 0,
			MemoryLock:      true,
			Biometric:       "keyring",
		},
		Device: DeviceConfig{
			APIBaseURL: DefaultAPIBaseURL,
			Register:   false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "aurum.log",
		},
	}
}
