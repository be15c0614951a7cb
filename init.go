package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tournevent/rastro/internal/config"
	"github.com/tournevent/rastro/internal/telemetry"
	"github.com/tournevent/rastro/pkg/tracking"
	"github.com/tournevent/rastro/pkg/tracking/correios"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string, outputs ...string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level, outputs...)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return noop.NewTracerProvider().Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
}

func queryParameters(cfg *config.Config) (correios.ResultScope, correios.Language, error) {
	scope, err := correios.ParseResultScope(cfg.CorreiosResultScope)
	if err != nil {
		return 0, 0, fmt.Errorf("CORREIOS_RESULT_SCOPE: %w", err)
	}
	lang, err := correios.ParseLanguage(cfg.CorreiosLanguage)
	if err != nil {
		return 0, 0, fmt.Errorf("CORREIOS_LANGUAGE: %w", err)
	}
	return scope, lang, nil
}

func initTrackerRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*tracking.Registry, error) {
	registry := tracking.NewRegistry()

	// Register enabled carriers
	if cfg.CorreiosEnabled {
		scope, lang, err := queryParameters(cfg)
		if err != nil {
			return nil, err
		}

		registry.Register(correios.New(correios.Config{
			Username:    cfg.CorreiosUsername,
			Password:    cfg.CorreiosPassword,
			Endpoint:    cfg.CorreiosEndpoint,
			ResultScope: scope,
			Language:    lang,
			Timeout:     cfg.CorreiosTimeout,
			UseMock:     cfg.CorreiosUseMock,
		}, logger, tracer))
	}

	return registry, nil
}

func newSOAPClient(cfg *config.Config, logger *otelzap.Logger) (*correios.SOAPAPIClient, error) {
	scope, lang, err := queryParameters(cfg)
	if err != nil {
		return nil, err
	}

	return correios.NewSOAPAPIClient(correios.SOAPAPIClientConfig{
		Endpoint: cfg.CorreiosEndpoint,
		HTTPClient: &http.Client{
			Timeout: cfg.CorreiosTimeout,
		},
		Logger: logger,
	}).
		SetCredentials(cfg.CorreiosUsername, cfg.CorreiosPassword).
		SetQueryParameters(correios.QueryList, scope, lang), nil
}
