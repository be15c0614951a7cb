package graphql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rastro/pkg/tracking"
)

func TestStatusToEnum(t *testing.T) {
	tests := []struct {
		input    tracking.ShipmentStatus
		expected string
	}{
		{tracking.StatusPosted, "POSTED"},
		{tracking.StatusInTransit, "IN_TRANSIT"},
		{tracking.StatusOutForDelivery, "OUT_FOR_DELIVERY"},
		{tracking.StatusAwaitingPickup, "AWAITING_PICKUP"},
		{tracking.StatusDelivered, "DELIVERED"},
		{tracking.StatusReturned, "RETURNED"},
		{tracking.StatusException, "EXCEPTION"},
		{tracking.StatusUnknown, "UNKNOWN"},
		{"", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusToEnum(tt.input))
		})
	}
}

func TestStatusToEnum_MatchesSchema(t *testing.T) {
	enum := Schema.Types["ShipmentStatus"]
	require.NotNil(t, enum)

	for _, s := range []tracking.ShipmentStatus{
		tracking.StatusPosted, tracking.StatusInTransit, tracking.StatusOutForDelivery,
		tracking.StatusAwaitingPickup, tracking.StatusDelivered, tracking.StatusReturned,
		tracking.StatusException, tracking.StatusUnknown,
	} {
		assert.NotNil(t, enum.EnumValues.ForName(statusToEnum(s)), s)
	}
}

func TestShipmentToMap(t *testing.T) {
	ts := time.Date(2024, 3, 18, 14, 32, 0, 0, time.FixedZone("BRT", -3*60*60))

	m := shipmentToMap(tracking.Shipment{
		TrackingNumber: "AA123456785BR",
		Status:         tracking.StatusDelivered,
		Events: []tracking.TrackingEvent{
			{Timestamp: ts, Description: "Objeto entregue", Status: tracking.StatusDelivered, CarrierCode: "BDE/01"},
			{Description: "Sem data", Status: tracking.StatusUnknown},
		},
	})

	assert.Equal(t, "AA123456785BR", m["trackingNumber"])
	assert.Equal(t, "DELIVERED", m["status"])
	assert.Nil(t, m["description"])
	assert.Nil(t, m["error"])

	events := m["events"].([]map[string]any)
	require.Len(t, events, 2)
	require.NotNil(t, events[0]["timestamp"])
	assert.Equal(t, "2024-03-18T14:32:00-03:00", *events[0]["timestamp"].(*string))
	assert.Nil(t, events[0]["location"])
	assert.Nil(t, events[1]["timestamp"])
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, optionalString(""))
	require.NotNil(t, optionalString("x"))
	assert.Equal(t, "x", *optionalString("x"))
}
