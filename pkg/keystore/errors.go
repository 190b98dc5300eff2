package keystore

import "fmt"

// KeyLoadError is returned when key material cannot be read, decoded or is
// not an RSA key. Once returned for a source, the same error is returned for
// every later load of that source.
type KeyLoadError struct {
	Source string
	Cause  error
}

func (e *KeyLoadError) Error() string {
	return fmt.Sprintf("failed to load key from %s: %v", e.Source, e.Cause)
}

func (e *KeyLoadError) Unwrap() error { return e.Cause }
