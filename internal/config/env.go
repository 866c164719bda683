package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome       = "AURUM_HOME"
	EnvAPIBaseURL = "AURUM_API_BASE_URL"
	EnvLogLevel   = "AURUM_LOG_LEVEL"
	EnvAutoLock   = "AURUM_AUTO_LOCK_SECONDS"
	EnvBiometric  = "AURUM_BIOMETRIC"
	EnvRegister   = "AURUM_DEVICE_REGISTER"
	EnvIterations = "AURUM_KDF_ITERATIONS"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.Device.APIBaseURL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvAutoLock); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.Security.AutoLockSeconds = secs
		}
	}

	if v := os.Getenv(EnvBiometric); v != "" {
		cfg.Security.Biometric = strings.ToLower(v)
	}

	if v := os.Getenv(EnvRegister); v != "" {
		cfg.Device.Register = parseBool(v)
	}

	// Iterations can only be raised from the environment; the cryptobox
	// floor still applies on read.
	if v := os.Getenv(EnvIterations); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > cfg.Security.KDFIterations {
			cfg.Security.KDFIterations = n
		}
	}

	cfg.normalize()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
