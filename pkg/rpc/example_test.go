package rpc_test

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// ExampleBuilder_BuildTypedRequest demonstrates the outbound half of a call.
func ExampleBuilder_BuildTypedRequest() {
	b, err := rpc.NewBuilder(rpc.BuilderConfig{
		// Mock keys keep the example deterministic; real code passes key handles.
		Signer:   sign.NewMockSigner("merchant"),
		Verifier: sign.NewMockSigner("api"),
		Username: "merchant_user",
		Password: "s3cret",
	})
	if err != nil {
		log.Fatal(err)
	}

	req, err := b.BuildTypedRequest(rpc.AccountLedgerData{
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
		Currency: "EUR",
	})
	if err != nil {
		log.Fatal(err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Fatal(err)
	}
	if err := req.MarkSent(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Method:", req.Method())
	fmt.Println("State:", req.State())
	fmt.Println("Body is JSON:", json.Valid(body))
	// Output:
	// Method: AccountLedger
	// State: sent
	// Body is JSON: true
}
