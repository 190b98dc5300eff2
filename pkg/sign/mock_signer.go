package sign

import (
	"bytes"
	"fmt"
)

var (
	_ Signer   = (*MockSigner)(nil)
	_ Verifier = (*MockSigner)(nil)
)

// MockSigner is a mock implementation of Signer and Verifier for testing
// purposes. It generates predictable signatures by appending a suffix to the
// data and accepts exactly those signatures back.
type MockSigner struct {
	publicKey *MockPublicKey
}

// NewMockSigner creates a new MockSigner with the given ID.
func NewMockSigner(id string) *MockSigner {
	return &MockSigner{publicKey: NewMockPublicKey(id)}
}

// Sign generates a mock signature by appending a suffix containing the signer's ID.
func (m *MockSigner) Sign(data []byte) (Signature, error) {
	sig := make([]byte, 0, len(data)+len(m.suffix()))
	sig = append(sig, data...)
	sig = append(sig, m.suffix()...)
	return Signature(sig), nil
}

// Verify accepts signatures that this signer would have produced for data.
func (m *MockSigner) Verify(data []byte, sig Signature) (bool, error) {
	if len(sig) == 0 {
		return false, &VerificationError{Reason: "signature is empty", Cause: ErrEmptySignature}
	}
	expected, _ := m.Sign(data)
	return bytes.Equal(expected, sig), nil
}

// PublicKey returns the mock public key associated with this signer.
func (m *MockSigner) PublicKey() PublicKey {
	return m.publicKey
}

func (m *MockSigner) suffix() string {
	return fmt.Sprintf("-signed-by-%s", m.publicKey.id)
}

var _ PublicKey = (*MockPublicKey)(nil)

// MockPublicKey is a mock implementation of the PublicKey interface for testing.
type MockPublicKey struct {
	id string
}

// NewMockPublicKey creates a new MockPublicKey with the given ID.
func NewMockPublicKey(id string) *MockPublicKey {
	return &MockPublicKey{id: id}
}

// Fingerprint returns the ID.
func (m *MockPublicKey) Fingerprint() string {
	return m.id
}
