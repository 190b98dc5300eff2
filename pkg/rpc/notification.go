package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// NotificationStatus is the merchant's answer to a notification.
type NotificationStatus string

const (
	// StatusOK acknowledges the notification.
	StatusOK NotificationStatus = "OK"
	// StatusFailed asks the API to deliver the notification again later.
	StatusFailed NotificationStatus = "FAILED"
)

// notificationWire is an inbound notification. Unlike merchant requests its
// parameter names are lower case.
type notificationWire struct {
	Method  Method   `json:"method"`
	Params  partWire `json:"params"`
	Version string   `json:"version"`
}

// Notification is a verified call from the API to the merchant.
type Notification struct {
	Method Method
	UUID   string
	// Data is the decoded data. Numbers are json.Number.
	Data map[string]any

	raw json.RawMessage
}

// NotificationData holds the fields common to payment notifications.
type NotificationData struct {
	NotificationID string         `json:"notificationid"`
	MessageID      string         `json:"messageid"`
	OrderID        string         `json:"orderid"`
	EndUserID      string         `json:"enduserid,omitempty"`
	Amount         *Amount        `json:"amount,omitempty"`
	Currency       string         `json:"currency,omitempty"`
	Timestamp      string         `json:"timestamp,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"`
}

// Decode unmarshals the verified data into v.
func (n *Notification) Decode(v any) error {
	if len(n.raw) == 0 {
		return fmt.Errorf("%w: notification has no data", ErrMalformedEnvelope)
	}
	return json.Unmarshal(n.raw, v)
}

// ParseNotification verifies an inbound notification with the counterparty
// key. Errors follow ParseResponse; there is no request to correlate with.
func (b *Builder) ParseNotification(raw []byte) (*Notification, error) {
	in := b.receive("notification")

	var wire notificationWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		err = malformed("notification is not a JSON-RPC envelope", err)
		b.metrics.RecordNotification("unknown", err)
		return nil, in.reject("unknown", "malformed", err)
	}
	method := wire.Method.String()
	if !wire.Method.IsNotification() {
		// Unverified names must not become metric labels.
		err := &sign.VerificationError{Reason: "not a notification", Cause: fmt.Errorf("%w: %q", ErrUnknownMethod, method)}
		b.metrics.RecordNotification("unknown", err)
		return nil, in.reject("unknown", "malformed", err)
	}
	// The outer method is the signed one; params may repeat it.
	if wire.Params.Method == "" {
		wire.Params.Method = wire.Method
	}
	in.advance(StateParsed)

	data, err := b.verifyPart(&wire.Params)
	if err == nil && wire.Params.Method != wire.Method {
		err = &UntrustedResponseError{
			Reason:   RejectMethodMismatch,
			Method:   wire.Params.Method,
			UUID:     wire.Params.UUID,
			Expected: method,
		}
	}
	b.metrics.RecordNotification(method, err)
	if err != nil {
		return nil, in.reject(method, rejectLabel(err), err)
	}
	in.advance(StateVerified)

	m, _ := data.(map[string]any)
	b.lg.Info("verified notification", "method", method, "uuid", wire.Params.UUID)
	return &Notification{
		Method: wire.Method,
		UUID:   wire.Params.UUID,
		Data:   m,
		raw:    wire.Params.Data,
	}, nil
}

// BuildNotificationResponse signs the acknowledgement of n.
func (b *Builder) BuildNotificationResponse(n *Notification, status NotificationStatus) (*Response, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil notification", ErrMalformedEnvelope)
	}
	if status != StatusOK && status != StatusFailed {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return b.BuildResult(n.Method, n.UUID, map[string]any{"status": string(status)})
}
