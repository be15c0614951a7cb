// Package mock provides a mock tracker implementation for testing.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/tournevent/rastro/pkg/tracking"
)

// Client is a mock tracker for testing.
type Client struct {
	name string

	// Err, when set, is returned by every Track call.
	Err error
}

// New creates a new mock tracker.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// Track returns a two-event history for every requested code.
func (c *Client) Track(ctx context.Context, req *tracking.TrackRequest) (*tracking.TrackResponse, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	now := time.Now().UTC().Truncate(time.Minute)
	shipments := make([]tracking.Shipment, 0, len(req.Codes))
	for _, code := range req.Codes {
		shipments = append(shipments, tracking.Shipment{
			TrackingNumber: code,
			Status:         tracking.StatusInTransit,
			Description:    fmt.Sprintf("%s parcel", c.name),
			Events: []tracking.TrackingEvent{
				{
					Timestamp:   now,
					Description: "In transit",
					Location:    "Sao Paulo - SP",
					Status:      tracking.StatusInTransit,
					CarrierCode: "RO/01",
				},
				{
					Timestamp:   now.Add(-24 * time.Hour),
					Description: "Posted",
					Location:    "Curitiba - PR",
					Status:      tracking.StatusPosted,
					CarrierCode: "PO/01",
				},
			},
		})
	}

	return &tracking.TrackResponse{
		Carrier:   c.name,
		Shipments: shipments,
	}, nil
}

var _ tracking.Tracker = (*Client)(nil)
