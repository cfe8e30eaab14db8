package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery     = errors.New("query is required")
	ErrPrecondition     = errors.New("run the query first")
	ErrTransport        = errors.New("transport failure")
	ErrMalformedEvent   = errors.New("malformed event")
	ErrInBand           = errors.New("backend reported an error")
	ErrSessionCancelled = errors.New("session cancelled")
	ErrSecretNotFound   = errors.New("secret not found")
)

// TransportError reports a connection or HTTP-level failure of the stream.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("transport: status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("transport: %v", e.Err)
	default:
		return ErrTransport.Error()
	}
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// MalformedEventError carries the record that could not be decoded.
type MalformedEventError struct {
	Record string
	Err    error
}

func (e *MalformedEventError) Error() string {
	record := e.Record
	if len(record) > 120 {
		record = record[:120] + "..."
	}
	if e.Err == nil {
		return fmt.Sprintf("malformed event %q", record)
	}
	return fmt.Sprintf("malformed event %q: %v", record, e.Err)
}

func (e *MalformedEventError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedEvent}
	}
	return []error{ErrMalformedEvent, e.Err}
}

// InBandError is a failure the backend reported inside the stream.
type InBandError struct {
	Message string
}

func (e *InBandError) Error() string {
	return e.Message
}

func (e *InBandError) Unwrap() error {
	return ErrInBand
}
