package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType determines the sign of a transaction. The amount itself is
// always a positive magnitude.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the two known kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single dated income or expense event linked to
// one account and optionally one budget category.
//
// CategoryLabel is a display snapshot resolved from the budget category at
// creation time. Renaming the category later does not rewrite it.
type Transaction struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	CategoryLabel string          `json:"categoryLabel,omitempty"`
	Date          time.Time       `json:"date"`
	AccountID     string          `json:"accountId"`
	GroupID       string          `json:"groupId,omitempty"`
	CategoryID    string          `json:"categoryId,omitempty"`
}

// Signed returns the amount with the sign implied by the type: positive for
// income, negative for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}
