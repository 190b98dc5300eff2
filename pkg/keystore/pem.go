package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/pkg/errors"
)

// PEM block types accepted by the loaders.
const (
	blockRSAPrivateKey = "RSA PRIVATE KEY"
	blockPrivateKey    = "PRIVATE KEY"
	blockPublicKey     = "PUBLIC KEY"
	blockRSAPublicKey  = "RSA PUBLIC KEY"
	blockCertificate   = "CERTIFICATE"
)

// MinKeyBits is the smallest modulus GenerateKeyPair accepts.
const MinKeyBits = 2048

func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case blockRSAPrivateKey:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse PKCS#1 private key")
		}
		return key, nil
	case blockPrivateKey:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse PKCS#8 private key")
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.Errorf("PKCS#8 key is %T, not RSA", parsed)
		}
		return key, nil
	default:
		return nil, errors.Errorf("unexpected PEM block %q for a private key", block.Type)
	}
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, err := decodePEM(data)
	if err != nil {
		return nil, err
	}

	switch block.Type {
	case blockPublicKey:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse PKIX public key")
		}
		return asRSAPublic(parsed)
	case blockRSAPublicKey:
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse PKCS#1 public key")
		}
		return key, nil
	case blockCertificate:
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse certificate")
		}
		return asRSAPublic(cert.PublicKey)
	default:
		return nil, errors.Errorf("unexpected PEM block %q for a public key", block.Type)
	}
}

func decodePEM(data []byte) (*pem.Block, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return block, nil
}

func asRSAPublic(key any) (*rsa.PublicKey, error) {
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Errorf("public key is %T, not RSA", key)
	}
	return rsaKey, nil
}

// GenerateKeyPair creates a fresh RSA key pair and returns its PEM encodings:
// PKCS#1 for the private key and PKIX for the public key.
func GenerateKeyPair(bits int) (privatePEM, publicPEM []byte, err error) {
	if bits < MinKeyBits {
		return nil, nil, fmt.Errorf("key size %d is below the minimum of %d bits", bits, MinKeyBits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key: %w", err)
	}

	publicPEM, err = EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	return EncodePrivateKeyPEM(key), publicPEM, nil
}

// EncodePrivateKeyPEM encodes key as a PKCS#1 "RSA PRIVATE KEY" block.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  blockRSAPrivateKey,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// EncodePublicKeyPEM encodes key as a PKIX "PUBLIC KEY" block.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: blockPublicKey, Bytes: der}), nil
}
