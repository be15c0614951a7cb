package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/tournevent/rastro/internal/telemetry"
	"github.com/tournevent/rastro/pkg/tracking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Registry *tracking.Registry
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *tracking.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Health resolves Query.health.
func (r *Resolver) Health(ctx context.Context) (string, error) {
	return "ok", nil
}

// Carriers resolves Query.carriers.
func (r *Resolver) Carriers(ctx context.Context) ([]string, error) {
	return r.Registry.Names(), nil
}

// Track resolves Query.track. An empty carrier selects the only registered one.
func (r *Resolver) Track(ctx context.Context, carrier string, codes []string) (*tracking.TrackResponse, error) {
	start := time.Now()

	var (
		tracker tracking.Tracker
		err     error
	)
	if carrier == "" {
		tracker, err = r.Registry.Default()
	} else {
		tracker, err = r.Registry.Get(carrier)
	}
	if err != nil {
		r.Metrics.RecordRequest("track", carrier, "error", time.Since(start).Seconds())
		return nil, err
	}

	r.Logger.Ctx(ctx).Info("Tracking objects",
		zap.String("carrier", tracker.Name()),
		zap.Int("codes", len(codes)),
	)

	resp, err := tracker.Track(ctx, &tracking.TrackRequest{
		Carrier: tracker.Name(),
		Codes:   codes,
	})
	duration := time.Since(start).Seconds()
	if err != nil {
		r.Logger.Ctx(ctx).Error("Tracking failed",
			zap.String("carrier", tracker.Name()),
			zap.Error(err),
		)
		r.Metrics.RecordRequest("track", tracker.Name(), "error", duration)
		r.Metrics.RecordError(tracker.Name(), errorType(err))
		return nil, err
	}

	r.Metrics.RecordRequest("track", tracker.Name(), "success", duration)
	r.Metrics.RecordCodes(tracker.Name(), len(codes))
	return resp, nil
}

func errorType(err error) string {
	var te *tracking.TrackerError
	if errors.As(err, &te) {
		return te.Code
	}
	return "unknown"
}
