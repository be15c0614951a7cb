// Package correios provides integration with the Correios tracking (rastro) SOAP service.
package correios

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tournevent/rastro/pkg/tracking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "correios"

// Config holds Correios configuration.
type Config struct {
	Username    string
	Password    string
	Endpoint    string
	ResultScope ResultScope
	Language    Language
	Timeout     time.Duration
	UseMock     bool
}

// Client is the Correios tracker.
// It implements the tracking.Tracker interface and delegates
// API calls to the underlying APIClient (mock or SOAP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Correios client.
// If cfg.UseMock is true, it uses a mock API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			Endpoint:   cfg.Endpoint,
			HTTPClient: &http.Client{Timeout: timeout},
			Logger:     logger,
		}).
			SetCredentials(cfg.Username, cfg.Password).
			SetQueryParameters(QueryList, cfg.ResultScope, cfg.Language)
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Correios client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// Track returns the tracking history of the requested codes. A single code is
// looked up with buscaEventos, several with one buscaEventosLista call.
func (c *Client) Track(ctx context.Context, req *tracking.TrackRequest) (*tracking.TrackResponse, error) {
	objects := make([]string, 0, len(req.Codes))
	for _, code := range req.Codes {
		if code = NormalizeCode(code); code != "" {
			objects = append(objects, code)
		}
	}
	if len(objects) == 0 {
		return nil, tracking.NewTrackerError(carrierName, "INVALID_CODE", "no tracking code given").
			WithCause(tracking.ErrInvalidCode)
	}

	// buscaEventosLista splits objetos every 13 characters
	if len(objects) > 1 {
		for _, code := range objects {
			if !ValidCode(code) {
				return nil, tracking.NewTrackerError(carrierName, "INVALID_CODE", "invalid tracking code "+code).
					WithCause(tracking.ErrInvalidCode)
			}
		}
	}

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "correios.Track",
			trace.WithAttributes(attribute.StringSlice("correios.codes", objects)))
		defer span.End()
	}

	c.logger.Ctx(ctx).Info("Tracking Correios objects",
		zap.Strings("codes", objects),
	)

	var (
		apiResp *TrackingResponse
		err     error
	)
	if len(objects) == 1 {
		apiResp, err = c.apiClient.FetchEvents(ctx, objects[0])
	} else {
		apiResp, err = c.apiClient.FetchEventsList(ctx, JoinCodes(objects...))
	}
	if err != nil {
		c.logger.Ctx(ctx).Error("Correios API error", zap.Error(err))
		recordSpanError(ctx, err)
		return nil, apiErrorToTracker(err)
	}

	resp := trackingResponseToTracker(apiResp)
	if len(objects) == 1 && len(resp.Shipments) == 1 && resp.Shipments[0].Error != "" {
		return nil, tracking.NewTrackerError(carrierName, "NOT_FOUND", resp.Shipments[0].Error).
			WithCause(tracking.ErrTrackingNotFound)
	}

	return resp, nil
}

func recordSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ============================================================================
// Conversion helpers
// ============================================================================

func apiErrorToTracker(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		te := tracking.NewTrackerError(carrierName, apiErr.Code, apiErr.Description).
			WithStatusCode(apiErr.StatusCode)
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return te.WithCause(tracking.ErrAuthenticationFailed)
		case apiErr.StatusCode >= http.StatusInternalServerError && strings.HasPrefix(apiErr.Code, "HTTP_"):
			return te.WithCause(tracking.ErrServiceUnavailable)
		}
		return te.WithCause(err)
	}

	if errors.Is(err, ErrTransport) {
		return tracking.NewTrackerError(carrierName, "TRANSPORT_ERROR", "request failed").
			WithCause(err)
	}
	return tracking.NewTrackerError(carrierName, "PARSE_ERROR", "invalid response").WithCause(err)
}

func trackingResponseToTracker(resp *TrackingResponse) *tracking.TrackResponse {
	shipments := make([]tracking.Shipment, len(resp.Objects))
	for i, obj := range resp.Objects {
		events := make([]tracking.TrackingEvent, len(obj.Events))
		for j, ev := range obj.Events {
			events[j] = eventToTracker(ev)
		}

		status := tracking.StatusUnknown
		if len(events) > 0 {
			status = events[0].Status
		}

		shipments[i] = tracking.Shipment{
			TrackingNumber: obj.Number,
			Status:         status,
			Description:    strings.TrimSpace(obj.Name),
			Error:          strings.TrimSpace(obj.Error),
			Events:         events,
		}
	}

	return &tracking.TrackResponse{
		Carrier:   carrierName,
		Shipments: shipments,
	}
}

func eventToTracker(ev Event) tracking.TrackingEvent {
	// Unparseable dates are left zero rather than failing the whole response
	ts, _ := ev.OccurredAt()

	description := ev.Description
	if ev.Detail != "" {
		description += " - " + ev.Detail
	}

	return tracking.TrackingEvent{
		Timestamp:   ts,
		Description: description,
		Location:    formatLocation(ev.Location, ev.City, ev.State),
		Status:      mapEventStatus(ev.Type, ev.Status),
		CarrierCode: ev.Type + "/" + ev.Status,
	}
}

func formatLocation(unit, city, state string) string {
	location := strings.TrimSpace(unit)
	place := strings.TrimSpace(city)
	if state = strings.TrimSpace(state); state != "" {
		if place != "" {
			place += " - "
		}
		place += state
	}
	if place == "" {
		return location
	}
	if location == "" {
		return place
	}
	return location + ", " + place
}
