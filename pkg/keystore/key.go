package keystore

import (
	"crypto"
	"crypto/rsa"
	"io"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
)

// PrivateKeyHandle is an opaque reference to a loaded RSA private key. The
// zero value is invalid.
type PrivateKeyHandle struct {
	key    *rsa.PrivateKey
	source string
}

// IsValid reports whether the handle refers to a key.
func (h PrivateKeyHandle) IsValid() bool { return h.key != nil }

// Source names the source the key was loaded from.
func (h PrivateKeyHandle) Source() string { return h.source }

// Public returns the handle of the matching public key.
func (h PrivateKeyHandle) Public() PublicKeyHandle {
	if h.key == nil {
		return PublicKeyHandle{}
	}
	return PublicKeyHandle{key: &h.key.PublicKey, source: h.source}
}

// Signer exposes the key as a crypto.Signer. The returned value only signs;
// it cannot be converted back into the private key.
func (h PrivateKeyHandle) Signer() crypto.Signer {
	if h.key == nil {
		return nil
	}
	return keySigner{key: h.key}
}

type keySigner struct {
	key *rsa.PrivateKey
}

func (s keySigner) Public() crypto.PublicKey { return &s.key.PublicKey }

func (s keySigner) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return s.key.Sign(rand, digest, opts)
}

// Size returns the modulus size in bytes, which is also the signature length.
func (h PrivateKeyHandle) Size() int {
	if h.key == nil {
		return 0
	}
	return h.key.Size()
}

// PublicKeyHandle is an opaque reference to a loaded RSA public key. The zero
// value is invalid.
type PublicKeyHandle struct {
	key    *rsa.PublicKey
	source string
}

func (h PublicKeyHandle) IsValid() bool { return h.key != nil }

func (h PublicKeyHandle) Source() string { return h.source }

// RSA returns the underlying public key, or nil for an invalid handle.
func (h PublicKeyHandle) RSA() *rsa.PublicKey { return h.key }

// Fingerprint returns the hex SHA-256 of the key's PKIX DER encoding. It is
// stable across encodings of the same key and safe to log.
func (h PublicKeyHandle) Fingerprint() string {
	if h.key == nil {
		return ""
	}
	der, err := x509.MarshalPKIXPublicKey(h.key)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:])
}

// Equal reports whether both handles refer to the same key material.
func (h PublicKeyHandle) Equal(other PublicKeyHandle) bool {
	if h.key == nil || other.key == nil {
		return h.key == other.key
	}
	return h.key.Equal(other.key)
}
