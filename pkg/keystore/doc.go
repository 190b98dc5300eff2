// Package keystore loads RSA key material from PEM sources and hands out
// opaque handles to it.
//
// A Store loads each source at most once. Private keys may be PKCS#1 or
// PKCS#8; public keys may be PKIX, PKCS#1 or an X.509 certificate.
//
//	store := keystore.NewStore(keystore.WithLogger(lg))
//	priv, err := store.LoadPrivateKey(keystore.FileSource("merchant.pem"))
//	if err != nil {
//	    return err
//	}
//	pub, err := store.LoadPublicKey(keystore.FileSource("trustly_public.pem"))
package keystore
