package correios

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultEndpoint is the rastro service address.
const DefaultEndpoint = "http://webservice.correios.com.br:80/service/rastro"

// HTTPDoer sends an HTTP request and returns its response.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SOAPAPIClient is the production implementation of APIClient using SOAP.
//
// Credentials and query parameters are configured with the fluent setters and
// copied at the start of every call, so changing them does not affect requests
// already in flight.
type SOAPAPIClient struct {
	endpoint   string
	httpClient HTTPDoer
	logger     *otelzap.Logger

	mu     sync.RWMutex
	creds  Credentials
	params QueryParameters
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	Endpoint   string   // Defaults to DefaultEndpoint
	HTTPClient HTTPDoer // Defaults to http.DefaultClient
	Logger     *otelzap.Logger
}

// NewSOAPAPIClient creates a SOAP client with the default query parameters
// and empty credentials.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &SOAPAPIClient{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
		params:     DefaultQueryParameters(),
	}
}

// SetCredentials replaces the service credentials and returns c.
func (c *SOAPAPIClient) SetCredentials(username, password string) *SOAPAPIClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = Credentials{Username: username, Password: password}
	return c
}

// SetQueryParameters replaces the query parameters and returns c.
func (c *SOAPAPIClient) SetQueryParameters(queryType QueryType, scope ResultScope, language Language) *SOAPAPIClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = QueryParameters{Type: queryType, Scope: scope, Language: language}
	return c
}

// Username returns the configured user (usuario).
func (c *SOAPAPIClient) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.Username
}

// Password returns the configured password (senha).
func (c *SOAPAPIClient) Password() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.Password
}

// QueryType returns the configured query type (tipo).
func (c *SOAPAPIClient) QueryType() QueryType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params.Type
}

// ResultScope returns the configured result scope (resultado).
func (c *SOAPAPIClient) ResultScope() ResultScope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params.Scope
}

// Language returns the configured language (lingua).
func (c *SOAPAPIClient) Language() Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params.Language
}

// Endpoint returns the service URL requests are posted to.
func (c *SOAPAPIClient) Endpoint() string {
	return c.endpoint
}

// FetchEvents returns the events of code using buscaEventos.
func (c *SOAPAPIClient) FetchEvents(ctx context.Context, code string) (*TrackingResponse, error) {
	req, err := c.newRequest(ctx, ActionFetchEvents, code)
	if err != nil {
		return nil, err
	}
	return c.do(req, ActionFetchEvents)
}

// FetchEventsAsync is FetchEvents without blocking the caller.
func (c *SOAPAPIClient) FetchEventsAsync(ctx context.Context, code string) *Future {
	return c.goDo(ctx, ActionFetchEvents, code)
}

// FetchEventsList returns the events of code using buscaEventosLista.
func (c *SOAPAPIClient) FetchEventsList(ctx context.Context, code string) (*TrackingResponse, error) {
	req, err := c.newRequest(ctx, ActionFetchEventsList, code)
	if err != nil {
		return nil, err
	}
	return c.do(req, ActionFetchEventsList)
}

// FetchEventsListAsync is FetchEventsList without blocking the caller.
func (c *SOAPAPIClient) FetchEventsListAsync(ctx context.Context, code string) *Future {
	return c.goDo(ctx, ActionFetchEventsList, code)
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

func (c *SOAPAPIClient) snapshot() (Credentials, QueryParameters) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, c.params
}

func (c *SOAPAPIClient) newRequest(ctx context.Context, action, code string) (*http.Request, error) {
	creds, params := c.snapshot()

	body, err := BuildEnvelope(action, creds, params, code)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("Accept", "text/xml")

	return req, nil
}

// goDo builds the request on the caller's goroutine so the parameters are
// captured at call time, then runs the exchange in the background.
func (c *SOAPAPIClient) goDo(ctx context.Context, action, code string) *Future {
	f := newFuture()

	req, err := c.newRequest(ctx, action, code)
	if err != nil {
		f.resolve(nil, err)
		return f
	}

	go func() {
		f.resolve(c.do(req, action))
	}()
	return f
}

func (c *SOAPAPIClient) do(req *http.Request, action string) (*TrackingResponse, error) {
	c.logger.Ctx(req.Context()).Debug("Sending Correios request",
		zap.String("action", action),
		zap.String("endpoint", c.endpoint),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Ctx(req.Context()).Debug("Received Correios response",
		zap.String("action", action),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseSOAPError(resp.StatusCode, data)
	}

	return parseTrackingResponse(data)
}

// ============================================================================
// SOAP Response Parsers
// ============================================================================

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Fault    *soapFault    `xml:"Fault"`
	Response *soapResponse `xml:",any"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// soapResponse matches buscaEventosResponse and buscaEventosListaResponse.
type soapResponse struct {
	XMLName xml.Name
	Return  *TrackingResponse `xml:"return"`
}

func parseSOAPError(status int, body []byte) error {
	var env soapEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Body.Fault != nil {
		return &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
			StatusCode:  status,
		}
	}

	return &APIError{
		Code:        fmt.Sprintf("HTTP_%d", status),
		Description: string(body),
		StatusCode:  status,
	}
}

func parseTrackingResponse(body []byte) (*TrackingResponse, error) {
	var env soapEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, decodeError(err)
	}

	if env.Body.Fault != nil {
		return nil, &APIError{
			Code:        env.Body.Fault.Code,
			Description: env.Body.Fault.String,
			StatusCode:  http.StatusOK,
		}
	}

	if env.Body.Response == nil || env.Body.Response.Return == nil {
		return nil, decodeError(errors.New("no tracking data in response"))
	}

	return env.Body.Response.Return, nil
}

var _ APIClient = (*SOAPAPIClient)(nil)
