// Package tracking provides an abstraction layer for parcel tracking carriers.
package tracking

import (
	"context"
)

// Tracker defines the interface that all tracking carriers must implement.
type Tracker interface {
	// Name returns the carrier identifier (e.g., "correios").
	Name() string

	// Track returns the tracking history of one or more tracking codes.
	Track(ctx context.Context, req *TrackRequest) (*TrackResponse, error)
}
