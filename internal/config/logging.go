package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLogLevel maps a config string to a zap level. Unknown values fall
// back to error; "off" and "none" disable logging entirely.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return zapcore.InvalidLevel, false
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error", "":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.ErrorLevel, true
	}
}

// NewLogger builds the application logger from the logging configuration.
// Logs go to the configured file; a missing file path or an off level
// yields a no-op logger. The caller owns Sync.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, enabled := ParseLogLevel(c.Logging.Level)
	path := c.LogPath()
	if !enabled || path == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	// #nosec G304 -- log path comes from the operator's own config
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(file),
		level,
	)
	return zap.New(core), nil
}
