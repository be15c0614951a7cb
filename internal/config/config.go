package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Correios
	CorreiosUsername    string        `envconfig:"CORREIOS_USERNAME"`
	CorreiosPassword    string        `envconfig:"CORREIOS_PASSWORD"`
	CorreiosEndpoint    string        `envconfig:"CORREIOS_ENDPOINT" default:"http://webservice.correios.com.br:80/service/rastro"`
	CorreiosResultScope string        `envconfig:"CORREIOS_RESULT_SCOPE" default:"all"`
	CorreiosLanguage    string        `envconfig:"CORREIOS_LANGUAGE" default:"pt"`
	CorreiosTimeout     time.Duration `envconfig:"CORREIOS_TIMEOUT" default:"30s"`
	CorreiosEnabled     bool          `envconfig:"CORREIOS_ENABLED" default:"true"`
	CorreiosUseMock     bool          `envconfig:"CORREIOS_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"rastro"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("correios.enabled", c.CorreiosEnabled),
		attribute.Bool("correios.mock", c.CorreiosUseMock),
		attribute.String("correios.result_scope", c.CorreiosResultScope),
		attribute.String("correios.language", c.CorreiosLanguage),
	}
}
