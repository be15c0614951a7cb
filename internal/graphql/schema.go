package graphql

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const schemaSource = `
type Query {
  health: String!
  carriers: [String!]!
  track(carrier: String, codes: [String!]!): TrackResult!
}

enum ShipmentStatus {
  POSTED
  IN_TRANSIT
  OUT_FOR_DELIVERY
  AWAITING_PICKUP
  DELIVERED
  RETURNED
  EXCEPTION
  UNKNOWN
}

type TrackResult {
  carrier: String!
  shipments: [Shipment!]!
}

type Shipment {
  trackingNumber: String!
  status: ShipmentStatus!
  description: String
  error: String
  events: [TrackingEvent!]!
}

type TrackingEvent {
  timestamp: String
  description: String!
  location: String
  status: ShipmentStatus!
  carrierCode: String!
}
`

// Schema is the parsed and validated service schema.
var Schema = gqlparser.MustLoadSchema(&ast.Source{
	Name:  "schema.graphqls",
	Input: schemaSource,
})
