package sign

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey         = errors.New("invalid key handle")
	ErrEmptySignature     = errors.New("empty signature")
	ErrMalformedSignature = errors.New("malformed signature")
)

// SigningError is returned when a payload cannot be signed.
type SigningError struct {
	Cause error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Cause)
}

func (e *SigningError) Unwrap() error { return e.Cause }

// VerificationError is returned when a signature check cannot be carried out
// at all. A well-formed signature that does not match is not an error.
type VerificationError struct {
	Reason string
	Cause  error
}

func (e *VerificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("verification failed: %s: %v", e.Reason, e.Cause)
	}
	return "verification failed: " + e.Reason
}

func (e *VerificationError) Unwrap() error { return e.Cause }
