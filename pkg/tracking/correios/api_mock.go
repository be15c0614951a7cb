package correios

import (
	"context"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnFetchEvents     func(ctx context.Context, code string) (*TrackingResponse, error)
	OnFetchEventsList func(ctx context.Context, code string) (*TrackingResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// FetchEvents returns a mock history for code.
func (m *MockAPIClient) FetchEvents(ctx context.Context, code string) (*TrackingResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnFetchEvents != nil {
		return m.OnFetchEvents(ctx, code)
	}

	return mockResponse(code), nil
}

// FetchEventsList returns a mock history for every S10-sized chunk of code.
func (m *MockAPIClient) FetchEventsList(ctx context.Context, code string) (*TrackingResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnFetchEventsList != nil {
		return m.OnFetchEventsList(ctx, code)
	}

	resp := &TrackingResponse{Version: "2.0"}
	for len(code) >= codeLength {
		resp.Objects = append(resp.Objects, mockResponse(code[:codeLength]).Objects...)
		code = code[codeLength:]
	}
	resp.Quantity = len(resp.Objects)
	return resp, nil
}

func (m *MockAPIClient) simulate(ctx context.Context) error {
	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return transportError(ctx.Err())
		}
	}

	if m.SimulateErrors {
		return &APIError{Code: "MOCK_ERROR", Description: "Simulated API error", StatusCode: 500}
	}
	return nil
}

func mockResponse(code string) *TrackingResponse {
	now := time.Now().In(brasilia)
	yesterday := now.AddDate(0, 0, -1)

	return &TrackingResponse{
		Version:  "2.0",
		Quantity: 1,
		Objects: []Object{
			{
				Number:   code,
				Initials: code[:min(2, len(code))],
				Name:     "ETIQUETA LOGICA SEDEX",
				Category: "SEDEX",
				Events: []Event{
					{
						Type:        "RO",
						Status:      "01",
						Date:        now.Format("02/01/2006"),
						Time:        now.Format("15:04"),
						Description: "Objeto encaminhado",
						Location:    "CTE SAO PAULO",
						Code:        "05314970",
						City:        "SAO PAULO",
						State:       "SP",
						Destinations: []Destination{
							{Location: "CTE CURITIBA", Code: "81010970", City: "CURITIBA", District: "CIC", State: "PR"},
						},
					},
					{
						Type:        "PO",
						Status:      "01",
						Date:        yesterday.Format("02/01/2006"),
						Time:        yesterday.Format("15:04"),
						Description: "Objeto postado",
						Location:    "AGF VILA MARIANA",
						Code:        "04101970",
						City:        "SAO PAULO",
						State:       "SP",
					},
				},
			},
		},
	}
}

var _ APIClient = (*MockAPIClient)(nil)
