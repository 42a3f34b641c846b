package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches transport failures, timeouts and non-2xx replies.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse matches payloads missing required fields.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidQuery marks a query that fails its precondition. It is
	// resolved locally and never sent to the network.
	ErrInvalidQuery = errors.New("invalid query")
)

// ErrorKind classifies a FetchError.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindMalformedResponse
)

// String returns the wire name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// FetchError is returned by page fetchers. It matches ErrNetwork or
// ErrMalformedResponse under errors.Is depending on Kind.
type FetchError struct {
	Kind   ErrorKind
	Op     string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

// NewNetworkError wraps a transport failure or an unexpected status.
func NewNetworkError(op string, status int, err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Op: op, Status: status, Err: err}
}

// NewMalformedError wraps a payload that could not be normalized.
func NewMalformedError(op string, err error) *FetchError {
	return &FetchError{Kind: KindMalformedResponse, Op: op, Err: err}
}

func (e *FetchError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the taxonomy sentinels.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrMalformedResponse:
		return e.Kind == KindMalformedResponse
	}
	return false
}

// ErrorKindOf returns the kind of a fetch error, or 0 when err is not one.
func ErrorKindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
