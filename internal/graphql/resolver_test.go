package graphql_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rastro/internal/graphql"
	"github.com/tournevent/rastro/internal/telemetry"
	"github.com/tournevent/rastro/pkg/tracking"
	"github.com/tournevent/rastro/pkg/tracking/mock"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestResolver(trackers ...tracking.Tracker) (*graphql.Resolver, *telemetry.Metrics) {
	registry := tracking.NewRegistry()
	for _, t := range trackers {
		registry.Register(t)
	}

	logger := otelzap.New(zap.NewNop())
	metrics := telemetry.NewMetricsWith(prometheus.NewRegistry())

	return graphql.NewResolver(registry, logger, metrics), metrics
}

func execute(t *testing.T, r *graphql.Resolver, req graphql.Request) map[string]any {
	t.Helper()

	data, err := json.Marshal(r.Execute(context.Background(), req))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestQuery_Health(t *testing.T) {
	resolver, _ := newTestResolver()

	health, err := resolver.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health)

	out := execute(t, resolver, graphql.Request{Query: "{ health }"})
	assert.Equal(t, map[string]any{"health": "ok"}, out["data"])
	assert.Nil(t, out["errors"])
}

func TestQuery_Carriers(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"), mock.New("jadlog"))

	out := execute(t, resolver, graphql.Request{Query: "query { carriers __typename }"})

	data := out["data"].(map[string]any)
	assert.Equal(t, []any{"correios", "jadlog"}, data["carriers"])
	assert.Equal(t, "Query", data["__typename"])
}

func TestQuery_Track_DefaultCarrier(t *testing.T) {
	resolver, metrics := newTestResolver(mock.New("correios"))

	out := execute(t, resolver, graphql.Request{
		Query: `query Track($codes: [String!]!) {
  track(codes: $codes) {
    carrier
    shipments { trackingNumber status events { status carrierCode location } }
  }
}`,
		Variables: map[string]any{"codes": []any{"AA123456785BR"}},
	})
	require.Nil(t, out["errors"])

	track := out["data"].(map[string]any)["track"].(map[string]any)
	assert.Equal(t, "correios", track["carrier"])

	shipments := track["shipments"].([]any)
	require.Len(t, shipments, 1)

	shipment := shipments[0].(map[string]any)
	assert.Equal(t, "AA123456785BR", shipment["trackingNumber"])
	assert.Equal(t, "IN_TRANSIT", shipment["status"])
	assert.NotContains(t, shipment, "description")

	events := shipment["events"].([]any)
	require.Len(t, events, 2)
	assert.Equal(t, map[string]any{
		"status":      "POSTED",
		"carrierCode": "PO/01",
		"location":    "Curitiba - PR",
	}, events[1])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("track", "correios", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CodesTracked.WithLabelValues("correios")))
}

func TestQuery_Track_NamedCarrierAndAliases(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"), mock.New("jadlog"))

	out := execute(t, resolver, graphql.Request{
		Query: `{ result: track(carrier: "jadlog", codes: ["A", "B"]) { carrier kind: __typename shipments { ...ship } } }
fragment ship on Shipment { trackingNumber }`,
	})
	require.Nil(t, out["errors"])

	result := out["data"].(map[string]any)["result"].(map[string]any)
	assert.Equal(t, "jadlog", result["carrier"])
	assert.Equal(t, "TrackResult", result["kind"])
	assert.Equal(t, []any{
		map[string]any{"trackingNumber": "A"},
		map[string]any{"trackingNumber": "B"},
	}, result["shipments"])
}

func TestQuery_Track_AmbiguousCarrier(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"), mock.New("jadlog"))

	_, err := resolver.Track(context.Background(), "", []string{"AA123456785BR"})
	assert.ErrorIs(t, err, tracking.ErrCarrierNotFound)
}

func TestQuery_Track_UnknownCarrier(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	out := execute(t, resolver, graphql.Request{
		Query: `{ track(carrier: "dhl", codes: ["X"]) { carrier } }`,
	})

	assert.Nil(t, out["data"])
	errs := out["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].(map[string]any)["message"], "carrier not found")
	assert.Equal(t, []any{"track"}, errs[0].(map[string]any)["path"])
}

func TestQuery_Track_TrackerError(t *testing.T) {
	failing := mock.New("correios")
	failing.Err = tracking.NewTrackerError("correios", "NOT_FOUND", "Objeto não encontrado").
		WithCause(tracking.ErrTrackingNotFound)
	resolver, metrics := newTestResolver(failing)

	_, err := resolver.Track(context.Background(), "correios", []string{"AA123456785BR"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tracking.ErrTrackingNotFound))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CarrierErrors.WithLabelValues("correios", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("track", "correios", "error")))
}

func TestExecute_ValidationError(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	out := execute(t, resolver, graphql.Request{Query: "{ track { carrier } }"})

	assert.Nil(t, out["data"])
	assert.NotEmpty(t, out["errors"])
}

func TestExecute_SyntaxError(t *testing.T) {
	resolver, _ := newTestResolver()

	out := execute(t, resolver, graphql.Request{Query: "{ health"})

	assert.NotEmpty(t, out["errors"])
}

func TestExecute_MissingVariable(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	out := execute(t, resolver, graphql.Request{
		Query: `query Track($codes: [String!]!) { track(codes: $codes) { carrier } }`,
	})

	assert.Nil(t, out["data"])
	assert.NotEmpty(t, out["errors"])
}

func TestExecute_OperationName(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	req := graphql.Request{
		Query:         "query A { health } query B { carriers }",
		OperationName: "B",
	}
	out := execute(t, resolver, req)
	assert.Equal(t, map[string]any{"carriers": []any{"correios"}}, out["data"])

	req.OperationName = "C"
	out = execute(t, resolver, req)
	assert.NotEmpty(t, out["errors"])
}

func TestExecute_PreservesSelectionOrder(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	data, err := json.Marshal(resolver.Execute(context.Background(), graphql.Request{Query: "{ carriers health }"}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":{"carriers":["correios"],"health":"ok"}}`, string(data))
	assert.Contains(t, string(data), `{"carriers":["correios"],"health":"ok"}`)
}

func TestExecute_SkipAndIncludeDirectives(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	out := execute(t, resolver, graphql.Request{Query: "{ health @skip(if: true) carriers }"})
	assert.Equal(t, map[string]any{"carriers": []any{"correios"}}, out["data"])

	out = execute(t, resolver, graphql.Request{
		Query:     "query Q($withHealth: Boolean!) { health @include(if: $withHealth) carriers @include(if: true) }",
		Variables: map[string]any{"withHealth": false},
	})
	assert.Equal(t, map[string]any{"carriers": []any{"correios"}}, out["data"])

	out = execute(t, resolver, graphql.Request{
		Query:     "query Q($skip: Boolean!) { health ... @skip(if: $skip) { carriers } ...extra @include(if: false) }\nfragment extra on Query { carriers }",
		Variables: map[string]any{"skip": true},
	})
	assert.Equal(t, map[string]any{"health": "ok"}, out["data"])
}

func TestQuery_Track_SkipNestedSelections(t *testing.T) {
	resolver, _ := newTestResolver(mock.New("correios"))

	out := execute(t, resolver, graphql.Request{
		Query: `query Track($full: Boolean!) {
  track(codes: ["AA123456785BR"]) {
    carrier @skip(if: true)
    shipments { trackingNumber ...detail @include(if: $full) }
  }
}
fragment detail on Shipment { status }`,
		Variables: map[string]any{"full": false},
	})
	require.Nil(t, out["errors"])

	track := out["data"].(map[string]any)["track"].(map[string]any)
	assert.NotContains(t, track, "carrier")
	assert.Equal(t, []any{map[string]any{"trackingNumber": "AA123456785BR"}}, track["shipments"])
}
