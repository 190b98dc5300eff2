package rpc

import (
	"encoding/json"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// Request is a signed call, ready for transport. It is created by
// Builder.BuildRequest and never modified afterwards, apart from its state.
//
// On the wire a Request is
//
//	{"method": "...", "params": {"Signature": "...", "UUID": "...", "Data": {...}}, "version": "1.1"}
type Request struct {
	method    Method
	uuid      string
	data      map[string]any
	signature sign.Signature

	state atomic.Uint32
}

type requestWire struct {
	Method  Method     `json:"method"`
	Params  paramsWire `json:"params"`
	Version string     `json:"version"`
}

type paramsWire struct {
	Signature sign.Signature `json:"Signature"`
	UUID      string         `json:"UUID"`
	Data      map[string]any `json:"Data"`
}

func (r *Request) Method() Method { return r.method }

// UUID returns the correlation id generated for this request.
func (r *Request) UUID() string { return r.uuid }

// Signature returns a copy of the request signature.
func (r *Request) Signature() sign.Signature { return slices.Clone(r.signature) }

// Data returns a shallow copy of the signed data, credentials included.
func (r *Request) Data() map[string]any { return maps.Clone(r.data) }

func (r *Request) State() State { return State(r.state.Load()) }

// MarkSent records that the request was handed to the transport. It succeeds
// once; later calls return ErrAlreadySent.
func (r *Request) MarkSent() error {
	if r.state.CompareAndSwap(uint32(StateSigned), uint32(StateSent)) {
		return nil
	}
	if r.State() == StateSent {
		return ErrAlreadySent
	}
	return ErrNotSigned
}

func (r *Request) MarshalJSON() ([]byte, error) {
	if r.State() == StateBuilt || len(r.signature) == 0 {
		return nil, ErrNotSigned
	}
	return json.Marshal(requestWire{
		Method:  r.method,
		Version: Version,
		Params: paramsWire{
			Signature: r.signature,
			UUID:      r.uuid,
			Data:      r.data,
		},
	})
}

func (r *Request) advance(to State) {
	from := r.State()
	if !from.CanTransition(to) || !r.state.CompareAndSwap(uint32(from), uint32(to)) {
		panic("rpc: invalid request transition from " + from.String() + " to " + to.String())
	}
}
