package rpc

import (
	"fmt"

	"github.com/shaunb-optile/trustly-client-go/pkg/canonical"
)

// BuildResult signs data as the result of the call identified by method and
// uuid. It is how notifications are acknowledged, and how a stand-in for the
// API answers requests in tests.
func (b *Builder) BuildResult(method Method, id string, data any) (*Response, error) {
	normalized, err := canonical.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequestData, err)
	}
	sig, err := b.sign(method, id, normalized)
	if err != nil {
		return nil, err
	}
	return &Response{method: method, uuid: id, data: normalized, signature: sig}, nil
}

// BuildError signs an error envelope for the call identified by method and
// uuid.
func (b *Builder) BuildError(method Method, id string, code int, message string) (*Response, error) {
	data := map[string]any{"code": code, "message": message}
	resp, err := b.BuildResult(method, id, data)
	if err != nil {
		return nil, err
	}
	resp.apiErr = &APIError{Name: "JSONRPCError", Code: code, Message: message, Method: method, UUID: id}
	return resp, nil
}
