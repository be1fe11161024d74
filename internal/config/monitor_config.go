package config

import (
	"time"

	"webwatch/internal/models"
)

// MonitorConfig defines configuration for the change-detection pipeline.
type MonitorConfig struct {
	Targets             []models.Target `json:"targets,omitempty" yaml:"targets,omitempty" validate:"omitempty,dive"`
	ExcludePatterns     []string        `json:"exclude_patterns,omitempty" yaml:"exclude_patterns,omitempty"`
	CooldownHours       int             `json:"cooldown_hours" yaml:"cooldown_hours" validate:"min=0"`
	UserAgent           string          `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	HTTPTimeoutSeconds  int             `json:"http_timeout_seconds,omitempty" yaml:"http_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	MaxConcurrentChecks int             `json:"max_concurrent_checks,omitempty" yaml:"max_concurrent_checks,omitempty" validate:"omitempty,min=1"`
	MaxContentSize      int             `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"`
	RequestsPerSecond   float64         `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" validate:"omitempty,gt=0"`
}

// NewDefaultMonitorConfig creates default monitor configuration.
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Targets:             []models.Target{},
		ExcludePatterns:     []string{},
		CooldownHours:       0,
		UserAgent:           "webwatch/1.0",
		HTTPTimeoutSeconds:  10,
		MaxConcurrentChecks: 5,
		MaxContentSize:      1048576, // 1MB
		RequestsPerSecond:   0,       // 0 disables outbound rate limiting
	}
}

// HTTPTimeout returns the fetch timeout as a duration.
func (c MonitorConfig) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
