package rpc_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

func validDeposit() rpc.DepositData {
	return rpc.DepositData{
		NotificationURL: "https://merchant.example/notify",
		EndUserID:       "user-1",
		MessageID:       "msg-1",
		Attributes: rpc.DepositAttributes{
			EndUserAttributes: rpc.EndUserAttributes{
				Locale:     "sv_SE",
				Country:    "SE",
				Email:      "steve@example.se",
				SuccessURL: "https://merchant.example/ok",
				FailURL:    "https://merchant.example/fail",
			},
			Currency: "SEK",
		},
	}
}

func TestMethods(t *testing.T) {
	t.Parallel()

	api := []rpc.Method{
		rpc.AccountLedgerMethod, rpc.DepositMethod, rpc.RefundMethod, rpc.WithdrawMethod,
		rpc.ChargeMethod, rpc.BalanceMethod, rpc.GetWithdrawalsMethod, rpc.ApproveWithdrawalMethod,
		rpc.DenyWithdrawalMethod, rpc.SelectAccountMethod, rpc.ViewAutomaticSettlementDetailsMethod,
	}
	for _, m := range api {
		assert.True(t, m.IsValid(), m.String())
		assert.False(t, m.IsNotification(), m.String())
	}

	notifications := []rpc.Method{
		rpc.CreditNotification, rpc.DebitNotification, rpc.PendingNotification, rpc.CancelNotification,
		rpc.AccountNotification, rpc.PayoutConfirmationNotification, rpc.KYCNotification,
	}
	for _, m := range notifications {
		assert.True(t, m.IsNotification(), m.String())
		assert.False(t, m.IsValid(), m.String())
	}

	m, err := rpc.ParseMethod("AccountLedger")
	require.NoError(t, err)
	assert.Equal(t, rpc.AccountLedgerMethod, m)

	_, err = rpc.ParseMethod("accountledger")
	assert.ErrorIs(t, err, rpc.ErrUnknownMethod)
}

func TestAmount(t *testing.T) {
	t.Parallel()

	a := rpc.MustAmount("100")
	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `"100.00"`, string(raw))

	var decoded rpc.Amount
	require.NoError(t, json.Unmarshal([]byte(`"12.5"`), &decoded))
	assert.Equal(t, "12.50", decoded.String())
	require.NoError(t, json.Unmarshal([]byte(`99.95`), &decoded))
	assert.True(t, decoded.Decimal().Equal(rpc.MustAmount("99.95").Decimal()))

	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &decoded))
	_, err = rpc.NewAmount("ten")
	assert.Error(t, err)
	assert.Panics(t, func() { rpc.MustAmount("ten") })
}

func TestValidateRequestData(t *testing.T) {
	t.Parallel()

	zero := rpc.MustAmount("0")
	tcs := []struct {
		name    string
		data    rpc.RequestData
		wantErr bool
	}{
		{name: "ledger", data: rpc.AccountLedgerData{FromDate: "2024-01-01", ToDate: "2024-01-31", Currency: "EUR"}},
		{name: "ledger all currencies", data: rpc.AccountLedgerData{FromDate: "2024-01-01", ToDate: "2024-01-01"}},
		{name: "ledger bad date", data: rpc.AccountLedgerData{FromDate: "2024-13-01", ToDate: "2024-01-31"}, wantErr: true},
		{name: "ledger reversed", data: rpc.AccountLedgerData{FromDate: "2024-02-01", ToDate: "2024-01-31"}, wantErr: true},
		{name: "ledger bad currency", data: rpc.AccountLedgerData{FromDate: "2024-01-01", ToDate: "2024-01-31", Currency: "EURO"}, wantErr: true},
		{name: "refund", data: rpc.RefundData{OrderID: "1", Amount: rpc.MustAmount("10.5"), Currency: "EUR"}},
		{name: "refund zero", data: rpc.RefundData{OrderID: "1", Amount: zero, Currency: "EUR"}, wantErr: true},
		{name: "refund sub cent", data: rpc.RefundData{OrderID: "1", Amount: rpc.MustAmount("10.005"), Currency: "EUR"}, wantErr: true},
		{name: "refund no order", data: rpc.RefundData{Amount: rpc.MustAmount("1"), Currency: "EUR"}, wantErr: true},
		{name: "deposit", data: validDeposit()},
		{name: "deposit no success url", data: func() rpc.DepositData {
			d := validDeposit()
			d.Attributes.SuccessURL = ""
			return d
		}(), wantErr: true},
		{name: "deposit bad country", data: func() rpc.DepositData {
			d := validDeposit()
			d.Attributes.Country = "Sweden"
			return d
		}(), wantErr: true},
		{name: "deposit zero amount", data: func() rpc.DepositData {
			d := validDeposit()
			d.Attributes.Amount = &zero
			return d
		}(), wantErr: true},
		{name: "balance", data: rpc.BalanceData{}},
		{name: "approve", data: rpc.ApproveWithdrawalData{OrderID: "1"}},
		{name: "deny empty", data: rpc.DenyWithdrawalData{}, wantErr: true},
		{name: "settlement", data: rpc.ViewAutomaticSettlementDetailsData{Currency: "SEK"}},
		{name: "charge no statement", data: rpc.ChargeData{
			AccountID:       "1",
			NotificationURL: "https://merchant.example/notify",
			EndUserID:       "u",
			MessageID:       "m",
			Amount:          rpc.MustAmount("5"),
			Currency:        "EUR",
		}, wantErr: true},
		{name: "nil", data: nil, wantErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := rpc.ValidateRequestData(tc.data)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, rpc.ErrInvalidRequestData)
			if tc.data != nil {
				var verrs validator.ValidationErrors
				assert.True(t, errors.As(err, &verrs))
			}
		})
	}
}

func TestBuildTypedRequest(t *testing.T) {
	t.Parallel()

	merchant, _ := newPair(t, withCredentials)

	t.Run("nested attributes", func(t *testing.T) {
		d := validDeposit()
		amount := rpc.MustAmount("100")
		d.Attributes.Amount = &amount

		req, err := merchant.BuildTypedRequest(d)
		require.NoError(t, err)
		assert.Equal(t, rpc.DepositMethod, req.Method())

		data := req.Data()
		assert.Equal(t, "merchant_user", data[rpc.UsernameKey])
		assert.Equal(t, "msg-1", data["MessageID"])

		attrs, ok := data["Attributes"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "sv_SE", attrs["Locale"])
		assert.Equal(t, "100.00", attrs["Amount"])
		assert.NotContains(t, attrs, "Firstname")
		assert.NotContains(t, attrs, "EndUserAttributes")
	})

	t.Run("invalid", func(t *testing.T) {
		req, err := merchant.BuildTypedRequest(rpc.GetWithdrawalsData{})
		assert.Nil(t, req)
		assert.ErrorIs(t, err, rpc.ErrInvalidRequestData)
	})
}
