package sign

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Signer produces signatures over canonical payloads.
type Signer interface {
	PublicKey() PublicKey                // Public key matching the signing key.
	Sign(data []byte) (Signature, error) // Sign signs the exact bytes given.
}

// Verifier checks signatures produced by the counterparty's Signer.
type Verifier interface {
	// Verify reports whether sig is a valid signature over data. A mismatch
	// is (false, nil); an error means the check could not be performed.
	Verify(data []byte, sig Signature) (bool, error)
}

// PublicKey is the part of a public key that is safe to share and log.
type PublicKey interface {
	Fingerprint() string
}

// Signature is a raw signature. Its text and JSON form is standard base64.
type Signature []byte

// Type represents the signature scheme.
type Type uint8

const (
	TypeRSASHA1 Type = iota
	TypeUnknown      = 255
)

// String returns the string representation of the scheme.
func (t Type) String() string {
	switch t {
	case TypeRSASHA1:
		return "RSA-SHA1"
	default:
		return "Unknown"
	}
}

// Type guesses the scheme from the signature length. RSA signatures are as
// long as the modulus, which is at least 1024 bits for any usable key.
func (s Signature) Type() Type {
	switch len(s) {
	case 128, 256, 384, 512:
		return TypeRSASHA1
	}
	return TypeUnknown
}

// MarshalJSON implements the json.Marshaler interface, encoding the signature as base64.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("signature is not a JSON string: %w", err)
	}
	decoded, err := DecodeSignature(text)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// String implements the fmt.Stringer interface
func (s Signature) String() string {
	return base64.StdEncoding.EncodeToString(s)
}

// DecodeSignature parses the base64 text form of a signature. Malformed or
// empty input yields a *VerificationError.
func DecodeSignature(text string) (Signature, error) {
	if text == "" {
		return nil, &VerificationError{Reason: "signature is empty", Cause: ErrEmptySignature}
	}
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, &VerificationError{Reason: "signature is not valid base64", Cause: fmt.Errorf("%w: %v", ErrMalformedSignature, err)}
	}
	return Signature(decoded), nil
}
