package sign_test

import (
	"fmt"
	"log"

	"github.com/shaunb-optile/trustly-client-go/pkg/keystore"
	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// ExampleNewRSASigner demonstrates signing a canonical payload and checking
// the signature with the matching public key.
func ExampleNewRSASigner() {
	privPEM, _, err := keystore.GenerateKeyPair(2048)
	if err != nil {
		log.Fatal(err)
	}

	store := keystore.NewStore()
	priv, err := store.LoadPrivateKey(keystore.BytesSource{ID: "example", PEM: privPEM})
	if err != nil {
		log.Fatal(err)
	}

	signer, err := sign.NewRSASigner(priv)
	if err != nil {
		log.Fatal(err)
	}

	payload := []byte("Balance4fd4bd1e-4a35-4e4e-9a67-5d6a4b0fc0d4merchantsecret")
	sig, err := signer.Sign(payload)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Signature length:", len(sig))

	ok, err := sign.Verify(priv.Public(), payload, sig)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Verified:", ok)
	// Output:
	// Signature length: 256
	// Verified: true
}

// ExampleSignature_String demonstrates the wire form of a Signature.
func ExampleSignature_String() {
	sig := sign.Signature([]byte{0x01, 0x02, 0x03, 0x04})
	fmt.Println(sig.String())
	// Output:
	// AQIDBA==
}
