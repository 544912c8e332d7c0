package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultBaseDir        = "."
	DefaultLogPattern     = `^(\S+) - (\S+) \[(.*?)\] "(.*?)" (\d{3}) (\d+) "-" "(.*?)"`
	DefaultTimeLayout     = "02/Jan/2006:15:04:05 -0700"
	DefaultDayLayout      = "02/Jan/2006"
	DefaultTopLimit       = 15
	DefaultLogLevel       = "warn"
	DefaultUserAgent      = "logreport"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvConfigFile = "LOGREPORT_CONFIG"
	EnvBaseDir    = "LOGREPORT_BASE_DIR"
	EnvLogLevel   = "LOGREPORT_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir,
		Grammar: GrammarConfig{
			Pattern:    DefaultLogPattern,
			TimeLayout: DefaultTimeLayout,
			DayLayout:  DefaultDayLayout,
		},
		Report: ReportConfig{
			TopLimit: DefaultTopLimit,
		},
		HTTP: HTTPConfig{
			UserAgent: DefaultUserAgent,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvBaseDir); dir != "" {
		c.BaseDir = dir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}
