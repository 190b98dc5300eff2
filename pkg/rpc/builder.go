package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/shaunb-optile/trustly-client-go/pkg/canonical"
	"github.com/shaunb-optile/trustly-client-go/pkg/keystore"
	"github.com/shaunb-optile/trustly-client-go/pkg/log"
	"github.com/shaunb-optile/trustly-client-go/pkg/metrics"
	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// Data keys carrying the merchant credentials.
const (
	UsernameKey = "Username"
	PasswordKey = "Password"
)

// BuilderConfig holds everything a Builder needs. It is read once by
// NewBuilder.
type BuilderConfig struct {
	// PrivateKey signs outbound requests and acknowledgements.
	PrivateKey keystore.PrivateKeyHandle
	// PublicKey is the counterparty key inbound envelopes are verified with.
	PublicKey keystore.PublicKeyHandle

	// Signer and Verifier replace the RSA implementations built from the
	// key handles when set.
	Signer   sign.Signer
	Verifier sign.Verifier

	// Username and Password are added to the data of every request that does
	// not carry them already.
	Username string
	Password string

	Canonical canonical.Options
	Logger    log.Logger
	Metrics   *metrics.Metrics
}

// Builder turns method and data into signed requests and verifies what comes
// back. It holds no mutable state and is safe for concurrent use.
type Builder struct {
	signer     sign.Signer
	verifier   sign.Verifier
	username   string
	password   string
	serializer canonical.Serializer
	lg         log.Logger
	metrics    *metrics.Metrics
}

// NewBuilder validates cfg and creates a Builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	b := &Builder{
		signer:     cfg.Signer,
		verifier:   cfg.Verifier,
		username:   cfg.Username,
		password:   cfg.Password,
		serializer: canonical.NewSerializer(cfg.Canonical),
		lg:         log.OrNoop(cfg.Logger).WithName("rpc"),
		metrics:    cfg.Metrics,
	}

	if b.signer == nil {
		signer, err := sign.NewRSASigner(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		b.signer = signer
	}
	if b.verifier == nil {
		verifier, err := sign.NewRSAVerifier(cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		b.verifier = verifier
	}

	b.lg.Debug("builder ready",
		"signingKey", b.signer.PublicKey().Fingerprint(),
		"format", cfg.Canonical.Format.String())
	return b, nil
}

// BuildRequest creates a signed request for method. A fresh uuid is
// generated, credentials are merged into a copy of data, and the canonical
// form of the result is signed. data is not modified.
func (b *Builder) BuildRequest(method Method, data map[string]any) (*Request, error) {
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	merged := make(map[string]any, len(data)+2)
	maps.Copy(merged, data)
	if b.username != "" {
		if _, ok := merged[UsernameKey]; !ok {
			merged[UsernameKey] = b.username
		}
	}
	if b.password != "" {
		if _, ok := merged[PasswordKey]; !ok {
			merged[PasswordKey] = b.password
		}
	}

	// The signed form must match what goes on the wire, so data is reduced
	// to its JSON shape first.
	normalized, err := canonical.Normalize(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequestData, err)
	}
	wireData, _ := normalized.(map[string]any)

	req := &Request{
		method: method,
		uuid:   uuid.NewString(),
		data:   wireData,
	}
	req.state.Store(uint32(StateBuilt))

	start := time.Now()
	sig, err := b.sign(method, req.uuid, wireData)
	if err != nil {
		b.metrics.RecordSigningError(method.String())
		b.lg.Error("failed to sign request", "method", method, "uuid", req.uuid, "error", err)
		return nil, err
	}
	b.metrics.RecordSigned(method.String(), time.Since(start).Seconds())

	req.signature = sig
	req.advance(StateSigned)

	b.lg.Debug("signed request", "method", method, "uuid", req.uuid)
	return req, nil
}

// BuildTypedRequest validates data and builds a request from it.
func (b *Builder) BuildTypedRequest(data RequestData) (*Request, error) {
	if err := ValidateRequestData(data); err != nil {
		return nil, err
	}

	normalized, err := canonical.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequestData, err)
	}
	m, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not encode to an object", ErrInvalidRequestData, data)
	}
	return b.BuildRequest(data.Method(), m)
}

// ParseResponse verifies a raw response envelope against the request it
// answers.
//
// Malformed envelopes and signatures yield a *sign.VerificationError. A
// signature that does not match, or a uuid or method that does not correlate
// with req, yields an *UntrustedResponseError. A verified error envelope
// yields an *APIError. Only a verified result returns data.
func (b *Builder) ParseResponse(raw []byte, req *Request) (*VerifiedResponse, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	return b.VerifyResponse(raw, req.method, req.uuid)
}

// VerifyResponse is ParseResponse for callers that kept only the method and
// uuid of the request, for example because another process sent it.
func (b *Builder) VerifyResponse(raw []byte, method Method, id string) (*VerifiedResponse, error) {
	in := b.receive("response")

	var wire responseWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, in.reject(method.String(), "malformed", malformed("response is not a JSON-RPC envelope", err))
	}

	part, isError := wire.Result, false
	if part == nil && wire.Error != nil {
		part, isError = wire.Error.Error, true
	}
	if part == nil {
		return nil, in.reject(method.String(), "malformed", malformed("response has neither result nor signed error", nil))
	}
	in.advance(StateParsed)

	data, err := b.verifyPart(part)
	if err != nil {
		return nil, in.reject(method.String(), rejectLabel(err), err)
	}

	if part.UUID != id {
		return nil, in.reject(method.String(), string(RejectUUIDMismatch), &UntrustedResponseError{
			Reason:   RejectUUIDMismatch,
			Method:   part.Method,
			UUID:     part.UUID,
			Expected: id,
		})
	}
	if part.Method != method {
		return nil, in.reject(method.String(), string(RejectMethodMismatch), &UntrustedResponseError{
			Reason:   RejectMethodMismatch,
			Method:   part.Method,
			UUID:     part.UUID,
			Expected: method.String(),
		})
	}

	in.advance(StateVerified)
	b.metrics.RecordVerified(method.String())

	if isError {
		apiErr := &APIError{Name: wire.Error.Name, Method: part.Method, UUID: part.UUID}
		var ed errorData
		if err := json.Unmarshal(part.Data, &ed); err == nil {
			code, _ := ed.Code.Int64()
			apiErr.Code = int(code)
			apiErr.Message = ed.Message
		}
		if apiErr.Code == 0 {
			apiErr.Code = wire.Error.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = wire.Error.Message
		}
		b.lg.Warn("api returned an error", "method", part.Method, "uuid", part.UUID, "code", apiErr.Code, "message", apiErr.Message)
		return nil, apiErr
	}

	return &VerifiedResponse{
		Method: part.Method,
		UUID:   part.UUID,
		Data:   data,
		raw:    part.Data,
	}, nil
}

// verifyPart checks the signature of a signed part and returns its decoded
// data.
func (b *Builder) verifyPart(part *partWire) (any, error) {
	sig, err := sign.DecodeSignature(part.Signature)
	if err != nil {
		return nil, err
	}

	var data any
	if len(part.Data) > 0 {
		if data, err = canonical.Decode(part.Data); err != nil {
			return nil, malformed("data is not valid JSON", err)
		}
	}

	payload, err := b.serializer.Serialize(part.Method.String(), part.UUID, data)
	if err != nil {
		return nil, malformed("data has no canonical form", err)
	}

	ok, err := b.verifier.Verify(payload, sig)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UntrustedResponseError{Reason: RejectSignature, Method: part.Method, UUID: part.UUID}
	}
	return data, nil
}

func (b *Builder) sign(method Method, id string, data any) (sign.Signature, error) {
	payload, err := b.serializer.Serialize(method.String(), id, data)
	if err != nil {
		return nil, &sign.SigningError{Cause: err}
	}
	sig, err := b.signer.Sign(payload)
	if err != nil {
		var serr *sign.SigningError
		if errors.As(err, &serr) {
			return nil, err
		}
		return nil, &sign.SigningError{Cause: err}
	}
	return sig, nil
}

// inbound tracks the lifecycle of one inbound envelope.
type inbound struct {
	b     *Builder
	kind  string
	state State
}

func (b *Builder) receive(kind string) *inbound {
	return &inbound{b: b, kind: kind, state: StateReceived}
}

func (in *inbound) advance(to State) {
	if !in.state.CanTransition(to) {
		panic("rpc: invalid " + in.kind + " transition from " + in.state.String() + " to " + to.String())
	}
	in.state = to
}

func (in *inbound) reject(method, reason string, err error) error {
	in.advance(StateRejected)
	if in.kind == "response" {
		in.b.metrics.RecordRejected(method, reason)
	}
	in.b.lg.Warn("rejected "+in.kind, "method", method, "reason", reason, "error", err)
	return err
}

func malformed(reason string, cause error) error {
	if cause == nil {
		cause = ErrMalformedEnvelope
	} else {
		cause = fmt.Errorf("%w: %w", ErrMalformedEnvelope, cause)
	}
	return &sign.VerificationError{Reason: reason, Cause: cause}
}

func rejectLabel(err error) string {
	var untrusted *UntrustedResponseError
	if errors.As(err, &untrusted) {
		return string(untrusted.Reason)
	}
	return "malformed"
}
