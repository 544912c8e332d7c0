// Package config provides configuration loading and validation for logreport.
package config

import (
	"regexp"
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// BaseDir anchors every local path specification.
	BaseDir  string          `yaml:"base_dir" validate:"required"`
	Grammar  GrammarConfig   `yaml:"grammar"`
	Report   ReportConfig    `yaml:"report"`
	HTTP     HTTPConfig      `yaml:"http"`
	Log      LogConfig       `yaml:"log"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" validate:"dive"`
}

// GrammarConfig defines how access log lines are matched and parsed.
type GrammarConfig struct {
	// Pattern is a regex with exactly seven capture groups:
	// remote address, remote user, timestamp, request, status, bytes, agent.
	Pattern string `yaml:"pattern" validate:"required"`

	// TimeLayout is the Go time layout of the timestamp capture group.
	TimeLayout string `yaml:"time_layout" validate:"required"`

	// DayLayout is the Go time layout of the requests-per-day bucket key.
	DayLayout string `yaml:"day_layout" validate:"required"`

	// compiledPattern is the pre-compiled regex (populated during validation).
	compiledPattern *regexp.Regexp
}

// CompiledPattern returns the pre-compiled regex pattern.
func (g *GrammarConfig) CompiledPattern() *regexp.Regexp {
	return g.compiledPattern
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	// TopLimit is the number of rows in the top IP and top day tables.
	TopLimit int `yaml:"top_limit" validate:"min=1"`
}

// HTTPConfig controls URL sources.
type HTTPConfig struct {
	// Timeout bounds a whole URL download. Zero means no timeout.
	Timeout   time.Duration `yaml:"timeout" validate:"min=0"`
	UserAgent string        `yaml:"user_agent"`
}

// LogConfig controls diagnostic logging. The report itself is never logged.
type LogConfig struct {
	Level      string `yaml:"level" validate:"required,oneof=trace debug info warn error disabled"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
	Compress   bool   `yaml:"compress"`
}

// WebhookConfig defines a webhook endpoint the rendered report is posted to.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" validate:"required"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
