// Package models contains the domain records held by the stores.
package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// AccountType is the kind of an account as the client knows it.
type AccountType string

const (
	AccountTypeCash        AccountType = "cash"
	AccountTypeChecking    AccountType = "checking"
	AccountTypeSavings     AccountType = "savings"
	AccountTypeTermDeposit AccountType = "term-deposit"
	AccountTypeCredit      AccountType = "credit"
	AccountTypeBNPL        AccountType = "buy-now-pay-later"
	AccountTypeLoan        AccountType = "loan"
	AccountTypeMortgage    AccountType = "mortgage"
	AccountTypeInvestment  AccountType = "investment"
	AccountTypeBrokerage   AccountType = "brokerage"
	AccountTypePension     AccountType = "pension"
	AccountTypeCrypto      AccountType = "crypto"
	AccountTypeEWallet     AccountType = "e-wallet"
	AccountTypePrepaid     AccountType = "prepaid"
)

var ErrUnknownAccountType = errors.New("unknown account type")

// Account represents a named money container with a type and a balance.
//
// Balance is authoritative only from the gateway. The store never sums it
// from local transactions.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
	Color   string          `json:"color"`
}

// accountTypeNames maps every account type to the name of its row in the
// gateway's lookup table. Order matters: when a gateway name resolves to
// more than one entry, the first match wins. Entries after the canonical 14
// are legacy aliases kept for records written by earlier releases.
var accountTypeNames = []struct {
	Type AccountType
	Name string
}{
	{AccountTypeCash, "Cash"},
	{AccountTypeChecking, "Checking Account"},
	{AccountTypeSavings, "Savings Account"},
	{AccountTypeTermDeposit, "Term Deposit"},
	{AccountTypeCredit, "Credit Card"},
	{AccountTypeBNPL, "Buy Now Pay Later"},
	{AccountTypeLoan, "Loan"},
	{AccountTypeMortgage, "Mortgage"},
	{AccountTypeInvestment, "Investment"},
	{AccountTypeBrokerage, "Brokerage"},
	{AccountTypePension, "Pension"},
	{AccountTypeCrypto, "Crypto"},
	{AccountTypeEWallet, "E-Wallet"},
	{AccountTypePrepaid, "Prepaid Card"},

	// Legacy aliases
	{AccountTypeChecking, "Bank Account"},
	{AccountTypeCredit, "Credit"},
	{AccountTypeEWallet, "Digital Wallet"},
}

// GatewayName translates an account type into the gateway's lookup table
// name. The translation is total: unknown values fall back to the cash name
// so that a record can always be written.
func (t AccountType) GatewayName() string {
	for _, entry := range accountTypeNames {
		if entry.Type == t {
			return entry.Name
		}
	}

	return accountTypeNames[0].Name
}

// AccountTypeFromName resolves a gateway lookup table name back to the
// client-side account type. The first matching entry in the priority order
// wins.
func AccountTypeFromName(name string) (AccountType, error) {
	for _, entry := range accountTypeNames {
		if entry.Name == name {
			return entry.Type, nil
		}
	}

	return AccountTypeCash, ErrUnknownAccountType
}

// accountTypeColors holds the display color for each account type. Colors
// are derived from the type, so two accounts of the same kind always render
// the same.
var accountTypeColors = map[AccountType]string{
	AccountTypeCash:        "#2e7d32",
	AccountTypeChecking:    "#1565c0",
	AccountTypeSavings:     "#00838f",
	AccountTypeTermDeposit: "#00695c",
	AccountTypeCredit:      "#c62828",
	AccountTypeBNPL:        "#ad1457",
	AccountTypeLoan:        "#ef6c00",
	AccountTypeMortgage:    "#4e342e",
	AccountTypeInvestment:  "#6a1b9a",
	AccountTypeBrokerage:   "#283593",
	AccountTypePension:     "#37474f",
	AccountTypeCrypto:      "#f9a825",
	AccountTypeEWallet:     "#0277bd",
	AccountTypePrepaid:     "#558b2f",
}

// Color returns the display color for the account type.
func (t AccountType) Color() string {
	if color, ok := accountTypeColors[t]; ok {
		return color
	}

	return accountTypeColors[AccountTypeCash]
}

// AccountTypes returns all account types in their fixed priority order.
func AccountTypes() []AccountType {
	seen := make(map[AccountType]bool, len(accountTypeNames))
	var all []AccountType
	for _, entry := range accountTypeNames {
		if seen[entry.Type] {
			continue
		}
		seen[entry.Type] = true
		all = append(all, entry.Type)
	}

	return all
}
