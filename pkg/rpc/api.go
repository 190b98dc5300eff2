package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Protocol Versioning
// ============================================================================

// Version is the JSON-RPC version carried by every envelope.
const Version = "1.1"

// ============================================================================
// RPC Method Constants
// ============================================================================

// Method represents an API method name. The set is closed: BuildRequest
// rejects anything not listed here.
type Method string

const (
	// AccountLedgerMethod lists ledger entries for a date range.
	AccountLedgerMethod Method = "AccountLedger"
	// DepositMethod initiates a deposit and returns the URL to send the end user to.
	DepositMethod Method = "Deposit"
	// RefundMethod refunds all or part of a deposit.
	RefundMethod Method = "Refund"
	// WithdrawMethod initiates a withdrawal to the end user's account.
	WithdrawMethod Method = "Withdraw"
	// ChargeMethod charges a previously selected account.
	ChargeMethod Method = "Charge"
	// BalanceMethod returns the merchant balance per currency.
	BalanceMethod Method = "Balance"
	// GetWithdrawalsMethod returns the withdrawals made for an order.
	GetWithdrawalsMethod Method = "GetWithdrawals"
	// ApproveWithdrawalMethod approves a withdrawal awaiting merchant approval.
	ApproveWithdrawalMethod Method = "ApproveWithdrawal"
	// DenyWithdrawalMethod denies a withdrawal awaiting merchant approval.
	DenyWithdrawalMethod Method = "DenyWithdrawal"
	// SelectAccountMethod lets the end user pick a bank account.
	SelectAccountMethod Method = "SelectAccount"
	// ViewAutomaticSettlementDetailsMethod returns the settlement configuration for a currency.
	ViewAutomaticSettlementDetailsMethod Method = "ViewAutomaticSettlementDetails"
)

// Notification methods are called by the API on the merchant.
const (
	CreditNotification             Method = "credit"
	DebitNotification              Method = "debit"
	PendingNotification            Method = "pending"
	CancelNotification             Method = "cancel"
	AccountNotification            Method = "account"
	PayoutConfirmationNotification Method = "payoutconfirmation"
	KYCNotification                Method = "kyc"
)

var (
	apiMethods = map[Method]bool{
		AccountLedgerMethod:                  true,
		DepositMethod:                        true,
		RefundMethod:                         true,
		WithdrawMethod:                       true,
		ChargeMethod:                         true,
		BalanceMethod:                        true,
		GetWithdrawalsMethod:                 true,
		ApproveWithdrawalMethod:              true,
		DenyWithdrawalMethod:                 true,
		SelectAccountMethod:                  true,
		ViewAutomaticSettlementDetailsMethod: true,
	}

	notificationMethods = map[Method]bool{
		CreditNotification:             true,
		DebitNotification:              true,
		PendingNotification:            true,
		CancelNotification:             true,
		AccountNotification:            true,
		PayoutConfirmationNotification: true,
		KYCNotification:                true,
	}
)

// String returns the string representation of the method.
func (m Method) String() string {
	return string(m)
}

// IsValid reports whether m is a method the merchant can call.
func (m Method) IsValid() bool {
	return apiMethods[m]
}

// IsNotification reports whether m is a method the API calls on the merchant.
func (m Method) IsNotification() bool {
	return notificationMethods[m]
}

// ParseMethod looks up an API or notification method by name.
func ParseMethod(name string) (Method, error) {
	m := Method(name)
	if !m.IsValid() && !m.IsNotification() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// ============================================================================
// Amounts
// ============================================================================

// Amount is a monetary amount. It is sent as a string with exactly two
// decimals, e.g. "100.00".
type Amount decimal.Decimal

// NewAmount parses a decimal amount.
func NewAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount(d), nil
}

// MustAmount is like NewAmount but panics on malformed input.
func MustAmount(s string) Amount {
	a, err := NewAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the amount as a decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal { return decimal.Decimal(a) }

// String renders the amount with two decimals.
func (a Amount) String() string { return decimal.Decimal(a).StringFixed(2) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = Amount(d)
	return nil
}

// ============================================================================
// Request Data
// ============================================================================

// RequestData is a typed request body. Field names follow the wire names and
// are validated before the request is signed.
type RequestData interface {
	Method() Method
}

var (
	_ RequestData = AccountLedgerData{}
	_ RequestData = DepositData{}
	_ RequestData = RefundData{}
	_ RequestData = WithdrawData{}
	_ RequestData = ChargeData{}
	_ RequestData = BalanceData{}
	_ RequestData = GetWithdrawalsData{}
	_ RequestData = ApproveWithdrawalData{}
	_ RequestData = DenyWithdrawalData{}
	_ RequestData = SelectAccountData{}
	_ RequestData = ViewAutomaticSettlementDetailsData{}
)

// AccountLedgerData selects ledger entries between two dates, both inclusive.
type AccountLedgerData struct {
	FromDate string `json:"FromDate" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"ToDate" validate:"required,datetime=2006-01-02"`
	// Currency limits the ledger to one currency. All currencies when empty.
	Currency string `json:"Currency,omitempty" validate:"omitempty,iso4217"`
}

func (AccountLedgerData) Method() Method { return AccountLedgerMethod }

// EndUserAttributes are the end user details shared by the flows that
// redirect a user to the bank selection page.
type EndUserAttributes struct {
	Locale      string `json:"Locale" validate:"required"`
	Country     string `json:"Country" validate:"required,iso3166_1_alpha2"`
	Firstname   string `json:"Firstname,omitempty"`
	Lastname    string `json:"Lastname,omitempty"`
	Email       string `json:"Email,omitempty" validate:"omitempty,email"`
	MobilePhone string `json:"MobilePhone,omitempty" validate:"omitempty,e164"`
	SuccessURL  string `json:"SuccessURL" validate:"required,url"`
	FailURL     string `json:"FailURL" validate:"required,url"`
	IP          string `json:"IP,omitempty" validate:"omitempty,ip"`
}

// DepositAttributes extends EndUserAttributes with the suggested amount.
type DepositAttributes struct {
	EndUserAttributes
	Currency         string  `json:"Currency" validate:"required,iso4217"`
	Amount           *Amount `json:"Amount,omitempty" validate:"omitempty,amount"`
	ShopperStatement string  `json:"ShopperStatement,omitempty"`
}

type DepositData struct {
	NotificationURL string            `json:"NotificationURL" validate:"required,url"`
	EndUserID       string            `json:"EndUserID" validate:"required"`
	MessageID       string            `json:"MessageID" validate:"required"`
	Attributes      DepositAttributes `json:"Attributes"`
}

func (DepositData) Method() Method { return DepositMethod }

type RefundData struct {
	OrderID  string `json:"OrderID" validate:"required"`
	Amount   Amount `json:"Amount" validate:"amount"`
	Currency string `json:"Currency" validate:"required,iso4217"`
}

func (RefundData) Method() Method { return RefundMethod }

type WithdrawAttributes struct {
	EndUserAttributes
	DateOfBirth   string `json:"DateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClearingHouse string `json:"ClearingHouse,omitempty"`
}

type WithdrawData struct {
	NotificationURL string             `json:"NotificationURL" validate:"required,url"`
	EndUserID       string             `json:"EndUserID" validate:"required"`
	MessageID       string             `json:"MessageID" validate:"required"`
	Currency        string             `json:"Currency" validate:"required,iso4217"`
	Attributes      WithdrawAttributes `json:"Attributes"`
}

func (WithdrawData) Method() Method { return WithdrawMethod }

type ChargeAttributes struct {
	ShopperStatement string `json:"ShopperStatement" validate:"required"`
	Email            string `json:"Email,omitempty" validate:"omitempty,email"`
}

type ChargeData struct {
	AccountID       string           `json:"AccountID" validate:"required"`
	NotificationURL string           `json:"NotificationURL" validate:"required,url"`
	EndUserID       string           `json:"EndUserID" validate:"required"`
	MessageID       string           `json:"MessageID" validate:"required"`
	Amount          Amount           `json:"Amount" validate:"amount"`
	Currency        string           `json:"Currency" validate:"required,iso4217"`
	Attributes      ChargeAttributes `json:"Attributes"`
}

func (ChargeData) Method() Method { return ChargeMethod }

// BalanceData has no fields; the balance is returned for every currency.
type BalanceData struct{}

func (BalanceData) Method() Method { return BalanceMethod }

type GetWithdrawalsData struct {
	OrderID string `json:"OrderID" validate:"required"`
}

func (GetWithdrawalsData) Method() Method { return GetWithdrawalsMethod }

type ApproveWithdrawalData struct {
	OrderID string `json:"OrderID" validate:"required"`
}

func (ApproveWithdrawalData) Method() Method { return ApproveWithdrawalMethod }

type DenyWithdrawalData struct {
	OrderID string `json:"OrderID" validate:"required"`
}

func (DenyWithdrawalData) Method() Method { return DenyWithdrawalMethod }

type SelectAccountData struct {
	NotificationURL string            `json:"NotificationURL" validate:"required,url"`
	EndUserID       string            `json:"EndUserID" validate:"required"`
	MessageID       string            `json:"MessageID" validate:"required"`
	Attributes      EndUserAttributes `json:"Attributes"`
}

func (SelectAccountData) Method() Method { return SelectAccountMethod }

type ViewAutomaticSettlementDetailsData struct {
	Currency string `json:"Currency" validate:"required,iso4217"`
}

func (ViewAutomaticSettlementDetailsData) Method() Method { return ViewAutomaticSettlementDetailsMethod }
