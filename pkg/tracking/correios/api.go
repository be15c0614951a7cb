package correios

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// APIClient defines the interface for Correios tracking operations.
// This abstraction allows for mock implementations during testing
// and the SOAP implementation in production.
type APIClient interface {
	// FetchEvents calls buscaEventos for code.
	FetchEvents(ctx context.Context, code string) (*TrackingResponse, error)

	// FetchEventsList calls buscaEventosLista for code, which may hold several
	// concatenated tracking codes.
	FetchEventsList(ctx context.Context, code string) (*TrackingResponse, error)
}

// ============================================================================
// API Response Types (match the rastro service return element)
// ============================================================================

// TrackingResponse is the return element of a buscaEventos or
// buscaEventosLista response.
type TrackingResponse struct {
	Version  string   `xml:"versao" json:"version"`
	Quantity int      `xml:"qtd" json:"quantity"`
	Objects  []Object `xml:"objeto" json:"objects"`
}

// Object is the tracking history of a single code.
type Object struct {
	Number   string  `xml:"numero" json:"number"`
	Initials string  `xml:"sigla" json:"initials,omitempty"`
	Name     string  `xml:"nome" json:"name,omitempty"`
	Category string  `xml:"categoria" json:"category,omitempty"`
	Error    string  `xml:"erro" json:"error,omitempty"`
	Events   []Event `xml:"evento" json:"events,omitempty"`
}

// Event is a single tracking event, most recent first.
type Event struct {
	Type         string        `xml:"tipo" json:"type"`
	Status       string        `xml:"status" json:"status"`
	Date         string        `xml:"data" json:"date"`
	Time         string        `xml:"hora" json:"time"`
	Description  string        `xml:"descricao" json:"description"`
	Detail       string        `xml:"detalhe" json:"detail,omitempty"`
	Receiver     string        `xml:"recebedor" json:"receiver,omitempty"`
	Document     string        `xml:"documento" json:"document,omitempty"`
	Comment      string        `xml:"comentario" json:"comment,omitempty"`
	Location     string        `xml:"local" json:"location"`
	Code         string        `xml:"codigo" json:"code,omitempty"`
	City         string        `xml:"cidade" json:"city"`
	State        string        `xml:"uf" json:"state"`
	Destinations []Destination `xml:"destino" json:"destinations,omitempty"`
}

// Destination is the next unit an object was forwarded to.
type Destination struct {
	Location string `xml:"local" json:"location"`
	Code     string `xml:"codigo" json:"code,omitempty"`
	City     string `xml:"cidade" json:"city"`
	District string `xml:"bairro" json:"district,omitempty"`
	State    string `xml:"uf" json:"state"`
}

// brasilia is the service's local time. Brazil has no DST since 2019.
var brasilia = time.FixedZone("BRT", -3*60*60)

// OccurredAt parses the event date and time, reported in Brasília time.
func (e Event) OccurredAt() (time.Time, error) {
	return time.ParseInLocation("02/01/2006 15:04",
		strings.TrimSpace(e.Date)+" "+strings.TrimSpace(e.Time), brasilia)
}

// ============================================================================
// Errors
// ============================================================================

var (
	// ErrTransport is matched by every failure to complete the HTTP exchange:
	// connection errors, non-2xx statuses and SOAP faults.
	ErrTransport = errors.New("correios request failed")

	// ErrDecode is matched when the response body is not a tracking response.
	ErrDecode = errors.New("failed to decode correios response")
)

// APIError represents an error status or SOAP fault from the service.
type APIError struct {
	Code        string
	Description string
	StatusCode  int
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Description
}

// Is reports APIError as a transport failure.
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

func transportError(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func decodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}
