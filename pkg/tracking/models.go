package tracking

import (
	"time"
)

// ShipmentStatus represents the normalized status of a shipment.
type ShipmentStatus string

const (
	StatusPosted         ShipmentStatus = "posted"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusAwaitingPickup ShipmentStatus = "awaiting_pickup"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusReturned       ShipmentStatus = "returned"
	StatusException      ShipmentStatus = "exception"
	StatusUnknown        ShipmentStatus = "unknown"
)

// TrackingEvent represents a tracking event.
type TrackingEvent struct {
	Timestamp   time.Time
	Description string
	Location    string
	Status      ShipmentStatus
	CarrierCode string // e.g. "BDE/01"
}

// Shipment is the tracking state of a single tracking code.
type Shipment struct {
	TrackingNumber string
	Status         ShipmentStatus
	Description    string
	Error          string // Carrier message when the code is unknown
	Events         []TrackingEvent
}

// ============================================================================
// Request/Response Types
// ============================================================================

// TrackRequest is the request for tracking shipments.
type TrackRequest struct {
	Carrier string
	Codes   []string
}

// TrackResponse is the response from tracking shipments.
type TrackResponse struct {
	Carrier   string
	Shipments []Shipment
}
