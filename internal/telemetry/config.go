// Package telemetry wires OpenTelemetry tracing and metrics for the readiness
// server. Metrics are pushed over OTLP or exposed for Prometheus scraping.
package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultServiceName is reported when serviceName is unset
	DefaultServiceName = "readiness-api"

	// DefaultEndpoint is the OTLP/HTTP collector address
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling traces 5% of sync cycles and API requests
	DefaultSampling = 0.05
)

// Config is the telemetry block of the server configuration
type Config struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName,omitempty"`
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is host:port of the OTLP/HTTP collector, without a scheme
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the parent-based trace ratio; 0 means DefaultSampling
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls sync and notification metrics
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Prometheus serves /metrics for scraping instead of pushing over OTLP
	Prometheus bool `yaml:"prometheus,omitempty"`
}

// GetServiceName returns ServiceName or DefaultServiceName
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns ServiceVersion or "unknown"
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return "unknown"
	}
	return c.ServiceVersion
}

// GetEndpoint returns Endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetInsecure reports whether the exporter uses plain HTTP
func (c *Config) GetInsecure() bool {
	return c.Insecure
}

// GetSampling returns the configured ratio. YAML cannot tell an explicit 0
// from an absent key, so 0 falls back to DefaultSampling.
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// Validate checks the telemetry block. A nil or disabled block is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if strings.Contains(c.Endpoint, "://") {
		errs = append(errs, fmt.Errorf("endpoint must be host:port without a scheme, got %q", c.Endpoint))
	}
	if c.Tracing != nil {
		if err := c.Tracing.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the sampling ratio of an enabled tracing block
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if !(c.Sampling >= 0 && c.Sampling <= 1.0) {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}
	return nil
}
