package sign

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // the payment API mandates SHA-1
	"errors"

	"github.com/shaunb-optile/trustly-client-go/pkg/keystore"
)

var (
	_ Signer   = (*RSASigner)(nil)
	_ Verifier = (*RSAVerifier)(nil)
)

// RSASigner signs with RSASSA-PKCS1-v1_5 over SHA-1.
type RSASigner struct {
	key keystore.PrivateKeyHandle
}

// NewRSASigner creates a signer for key.
func NewRSASigner(key keystore.PrivateKeyHandle) (*RSASigner, error) {
	if !key.IsValid() {
		return nil, &SigningError{Cause: ErrInvalidKey}
	}
	return &RSASigner{key: key}, nil
}

// Sign hashes data with SHA-1 and signs the digest.
func (s *RSASigner) Sign(data []byte) (Signature, error) {
	return Sign(s.key, data)
}

// PublicKey returns the handle of the matching public key.
func (s *RSASigner) PublicKey() PublicKey {
	return s.key.Public()
}

// Sign signs payload with key without constructing an RSASigner.
func Sign(key keystore.PrivateKeyHandle, payload []byte) (Signature, error) {
	signer := key.Signer()
	if signer == nil {
		return nil, &SigningError{Cause: ErrInvalidKey}
	}
	digest := sha1.Sum(payload) //nolint:gosec
	sig, err := signer.Sign(rand.Reader, digest[:], crypto.SHA1)
	if err != nil {
		return nil, &SigningError{Cause: err}
	}
	return Signature(sig), nil
}

// RSAVerifier checks RSASSA-PKCS1-v1_5 SHA-1 signatures.
type RSAVerifier struct {
	key keystore.PublicKeyHandle
}

// NewRSAVerifier creates a verifier for key.
func NewRSAVerifier(key keystore.PublicKeyHandle) (*RSAVerifier, error) {
	if !key.IsValid() {
		return nil, &VerificationError{Reason: "no public key", Cause: ErrInvalidKey}
	}
	return &RSAVerifier{key: key}, nil
}

func (v *RSAVerifier) Verify(data []byte, sig Signature) (bool, error) {
	return Verify(v.key, data, sig)
}

// PublicKey returns the key signatures are checked against.
func (v *RSAVerifier) PublicKey() PublicKey {
	return v.key
}

// Verify reports whether sig is key's signature over payload.
func Verify(key keystore.PublicKeyHandle, payload []byte, sig Signature) (bool, error) {
	pub := key.RSA()
	if pub == nil {
		return false, &VerificationError{Reason: "no public key", Cause: ErrInvalidKey}
	}
	if len(sig) == 0 {
		return false, &VerificationError{Reason: "signature is empty", Cause: ErrEmptySignature}
	}

	digest := sha1.Sum(payload) //nolint:gosec
	err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig)
	if errors.Is(err, rsa.ErrVerification) {
		return false, nil
	}
	if err != nil {
		return false, &VerificationError{Reason: "signature check failed", Cause: err}
	}
	return true, nil
}
