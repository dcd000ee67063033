// Package config provides service configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds tracelight service configuration.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"tracelight"`

	// Subject overrides (empty = package defaults)
	DiagnosticSubject  string `envconfig:"DIAGNOSTIC_SUBJECT"`
	EntryStreamSubject string `envconfig:"ENTRY_STREAM_SUBJECT"`

	// EntryStream turns on publishing of dispatched entries to COMMS.
	EntryStream bool `envconfig:"ENTRY_STREAM" default:"false"`

	// Timeouts
	RequestTimeout time.Duration `envconfig:"DIAGNOSTIC_REQUEST_TIMEOUT" default:"10s"`

	// Channel definitions
	ChannelsFile string `envconfig:"TRACELIGHT_CHANNELS_FILE"`

	// HTTP status endpoint
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8080"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForServe checks required config when running the service.
func (c *Config) ValidateForServe() error {
	if c.COMMSURL == "" {
		return fmt.Errorf("%s - COMMS_URL is required for serve", logPrefix)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - DIAGNOSTIC_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	return nil
}
