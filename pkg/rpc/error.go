package rpc

import (
	"errors"
	"fmt"
)

var (
	// Request errors
	ErrUnknownMethod      = errors.New("unknown method")
	ErrInvalidRequestData = errors.New("invalid request data")
	ErrNilRequest         = errors.New("nil request")
	ErrAlreadySent        = errors.New("request already sent")
	ErrNotSigned          = errors.New("request is not signed")

	// Envelope errors
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrInvalidStatus     = errors.New("invalid notification status")
)

// RejectReason says why an envelope with a well-formed signature was not trusted.
type RejectReason string

const (
	// RejectSignature means the signature does not match the payload.
	RejectSignature RejectReason = "signature"
	// RejectUUIDMismatch means the envelope answers a different request.
	RejectUUIDMismatch RejectReason = "uuid_mismatch"
	// RejectMethodMismatch means the envelope names a different method than the request.
	RejectMethodMismatch RejectReason = "method_mismatch"
)

// UntrustedResponseError is returned when an inbound envelope fails signature
// verification or does not correlate with its request. The envelope must be
// treated as never received; none of its data is exposed.
type UntrustedResponseError struct {
	Reason RejectReason
	Method Method
	// UUID is the uuid claimed by the envelope.
	UUID string
	// Expected is the uuid or method that correlation required, if any.
	Expected string
	Cause    error
}

func (e *UntrustedResponseError) Error() string {
	switch e.Reason {
	case RejectUUIDMismatch:
		return fmt.Sprintf("untrusted response: uuid %s does not match request %s", e.UUID, e.Expected)
	case RejectMethodMismatch:
		return fmt.Sprintf("untrusted response: method %s does not match request method %s", e.Method, e.Expected)
	default:
		return fmt.Sprintf("untrusted response: %s check failed for %s %s", e.Reason, e.Method, e.UUID)
	}
}

func (e *UntrustedResponseError) Unwrap() error { return e.Cause }

// APIError is a verified error envelope: the API rejected the call and
// signed the rejection.
type APIError struct {
	Name    string
	Code    int
	Message string
	Method  Method
	UUID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with %d: %s", e.Method, e.UUID, e.Code, e.Message)
}
