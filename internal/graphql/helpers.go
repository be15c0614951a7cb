package graphql

import (
	"strings"
	"time"

	"github.com/tournevent/rastro/pkg/tracking"
)

func trackResponseToMap(resp *tracking.TrackResponse) map[string]any {
	shipments := make([]map[string]any, len(resp.Shipments))
	for i, s := range resp.Shipments {
		shipments[i] = shipmentToMap(s)
	}
	return map[string]any{
		"__typename": "TrackResult",
		"carrier":    resp.Carrier,
		"shipments":  shipments,
	}
}

func shipmentToMap(s tracking.Shipment) map[string]any {
	events := make([]map[string]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = eventToMap(e)
	}
	return map[string]any{
		"__typename":     "Shipment",
		"trackingNumber": s.TrackingNumber,
		"status":         statusToEnum(s.Status),
		"description":    optionalString(s.Description),
		"error":          optionalString(s.Error),
		"events":         events,
	}
}

func eventToMap(e tracking.TrackingEvent) map[string]any {
	return map[string]any{
		"__typename":  "TrackingEvent",
		"timestamp":   formatTimestamp(e.Timestamp),
		"description": e.Description,
		"location":    optionalString(e.Location),
		"status":      statusToEnum(e.Status),
		"carrierCode": e.CarrierCode,
	}
}

// statusToEnum converts a status to its ShipmentStatus enum value.
func statusToEnum(s tracking.ShipmentStatus) string {
	if s == "" {
		s = tracking.StatusUnknown
	}
	return strings.ToUpper(string(s))
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
