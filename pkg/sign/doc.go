// Package sign provides the signing and verification primitives used for
// request and response envelopes.
//
// The payment API signs with RSASSA-PKCS1-v1_5 over a SHA-1 digest of the
// canonical payload and transports signatures as standard base64. The
// algorithm is fixed; there is no negotiation.
//
// The primary interfaces are:
//
//   - Signer: signs outbound payloads with the merchant's private key
//   - Verifier: checks inbound payloads against the counterparty's public key
//   - PublicKey: the shareable identity of a key
//
// Private key material never leaves the keystore handles; signers only hold
// a handle.
//
// Usage
//
//	priv, err := store.LoadPrivateKey(keystore.FileSource("merchant.pem"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	signer, err := sign.NewRSASigner(priv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sig, err := signer.Sign(payload)
//	fmt.Println(sig) // base64
package sign
