package canonical

import "fmt"

// Error reports a value that has no canonical form. Path locates it inside
// the data, e.g. "data.Attributes.Amount".
type Error struct {
	Path   string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("canonical: %s at %s: %v", e.Reason, e.Path, e.Cause)
	}
	return fmt.Sprintf("canonical: %s at %s", e.Reason, e.Path)
}

func (e *Error) Unwrap() error { return e.Cause }
