// Package rpc builds signed JSON-RPC 1.1 requests for the payment API and
// verifies the envelopes it sends back.
//
// A Builder is constructed once from the merchant private key, the API public
// key and optional credentials:
//
//	b, err := rpc.NewBuilder(rpc.BuilderConfig{
//		PrivateKey: priv,
//		PublicKey:  apiKey,
//		Username:   cfg.Username,
//		Password:   cfg.Password,
//	})
//
// Outbound, BuildRequest generates a uuid, serializes method, uuid and data
// into canonical form and signs it:
//
//	req, err := b.BuildTypedRequest(rpc.AccountLedgerData{
//		FromDate: "2024-01-01",
//		ToDate:   "2024-01-31",
//		Currency: "EUR",
//	})
//	body, err := json.Marshal(req)
//	// send body, then
//	req.MarkSent()
//
// Inbound, ParseResponse decodes the envelope, reserializes it, verifies the
// signature and checks that uuid and method match the request. Anything that
// fails is returned as an error and none of its data is exposed:
//
//	resp, err := b.ParseResponse(raw, req)
//	var untrusted *rpc.UntrustedResponseError
//	if errors.As(err, &untrusted) {
//		// treat as never received
//	}
//
// Notifications are verified with ParseNotification and acknowledged with a
// signed BuildNotificationResponse.
package rpc
