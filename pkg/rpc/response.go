package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// responseWire is an inbound response. Exactly one of Result and Error is set.
type responseWire struct {
	Version string     `json:"version"`
	Result  *partWire  `json:"result,omitempty"`
	Error   *errorWire `json:"error,omitempty"`
}

// partWire is the signed part of a response: result, inner error or
// notification acknowledgement.
type partWire struct {
	Signature string          `json:"signature"`
	UUID      string          `json:"uuid"`
	Method    Method          `json:"method"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type errorWire struct {
	Name    string    `json:"name"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Error   *partWire `json:"error"`
}

// errorData is the signed data of an error envelope.
type errorData struct {
	Code    json.Number `json:"code"`
	Message string      `json:"message"`
}

// VerifiedResponse is the data of a response whose signature verified and
// whose uuid and method match the originating request.
type VerifiedResponse struct {
	Method Method
	UUID   string
	// Data is the decoded data. Numbers are json.Number.
	Data any

	raw json.RawMessage
}

// State is always StateVerified; rejected responses are never returned.
func (r *VerifiedResponse) State() State { return StateVerified }

// DataMap returns Data as a mapping, or nil when the data is not an object.
func (r *VerifiedResponse) DataMap() map[string]any {
	m, _ := r.Data.(map[string]any)
	return m
}

// Decode unmarshals the verified data into v.
func (r *VerifiedResponse) Decode(v any) error {
	if len(r.raw) == 0 {
		return fmt.Errorf("%w: response has no data", ErrMalformedEnvelope)
	}
	return json.Unmarshal(r.raw, v)
}

// Response is a signed envelope answering a call: a result, or an API error.
// Builder.BuildResult and Builder.BuildError create them; notification
// acknowledgements are results.
type Response struct {
	method    Method
	uuid      string
	data      any
	signature sign.Signature
	apiErr    *APIError
}

func (r *Response) Method() Method { return r.method }

func (r *Response) UUID() string { return r.uuid }

func (r *Response) Data() any { return r.data }

// IsError reports whether this is an error envelope.
func (r *Response) IsError() bool { return r.apiErr != nil }

func (r *Response) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(r.data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	part := &partWire{
		Signature: r.signature.String(),
		UUID:      r.uuid,
		Method:    r.method,
		Data:      data,
	}

	wire := responseWire{Version: Version}
	if r.apiErr != nil {
		wire.Error = &errorWire{
			Name:    r.apiErr.Name,
			Code:    r.apiErr.Code,
			Message: r.apiErr.Message,
			Error:   part,
		}
	} else {
		wire.Result = part
	}
	return json.Marshal(wire)
}
