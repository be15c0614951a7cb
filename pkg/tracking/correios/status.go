package correios

import (
	"github.com/tournevent/rastro/pkg/tracking"
)

// Event status codes of the BDE/BDI/BDR ("baixa") event types.
const (
	statusDelivered = "01"
	statusReturned  = "23"
)

// mapEventStatus maps a Correios event type and status to a normalized status.
func mapEventStatus(eventType, status string) tracking.ShipmentStatus {
	switch eventType {
	case "BDE", "BDI", "BDR":
		switch status {
		case statusDelivered:
			return tracking.StatusDelivered
		case statusReturned:
			return tracking.StatusReturned
		default:
			return tracking.StatusException
		}
	case "OEC":
		return tracking.StatusOutForDelivery
	case "LDI":
		return tracking.StatusAwaitingPickup
	case "PO":
		return tracking.StatusPosted
	case "RO", "DO", "TRI", "PAR", "FC":
		return tracking.StatusInTransit
	default:
		return tracking.StatusUnknown
	}
}
