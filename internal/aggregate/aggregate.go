// Package aggregate computes the read-side numbers derived from store
// snapshots.
//
// Everything here is a pure function recomputed on every read. Nothing is
// cached: the snapshots are the single source of truth.
package aggregate

import (
	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/shopspring/decimal"
)

// Filter optionally scopes transaction sums to one account and/or one
// calendar month. Zero values mean "no scoping".
type Filter struct {
	AccountID string
	Month     types.Month
}

func (f Filter) matches(transaction models.Transaction) bool {
	if f.AccountID != "" && transaction.AccountID != f.AccountID {
		return false
	}
	if !f.Month.IsZero() && !f.Month.Contains(transaction.Date) {
		return false
	}

	return true
}

// TotalBalance sums all account balances.
func TotalBalance(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}

	return total
}

// TotalIncome sums the amounts of income transactions matching the filter.
func TotalIncome(transactions []models.Transaction, filter Filter) decimal.Decimal {
	return sumByType(transactions, models.TransactionTypeIncome, filter)
}

// TotalExpenses sums the amounts of expense transactions matching the
// filter.
func TotalExpenses(transactions []models.Transaction, filter Filter) decimal.Decimal {
	return sumByType(transactions, models.TransactionTypeExpense, filter)
}

func sumByType(transactions []models.Transaction, kind models.TransactionType, filter Filter) decimal.Decimal {
	total := decimal.Zero
	for _, transaction := range transactions {
		if transaction.Type != kind || !filter.matches(transaction) {
			continue
		}
		total = total.Add(transaction.Amount)
	}

	return total
}

// TotalAssigned sums the planned limits of all categories across all
// groups.
func TotalAssigned(groups []models.BudgetGroup) decimal.Decimal {
	total := decimal.Zero
	for _, group := range groups {
		for _, category := range group.Categories {
			total = total.Add(category.Limit)
		}
	}

	return total
}

// AssignStatus classifies the available-to-assign amount. It is a
// budgeting-status indicator, not an error state.
type AssignStatus string

const (
	// AssignPositive means there are funds left to assign.
	AssignPositive AssignStatus = "positive"
	// AssignBalanced means assigned budget and expenses match exactly.
	AssignBalanced AssignStatus = "balanced"
	// AssignNegative means more was spent than assigned.
	AssignNegative AssignStatus = "negative"
)

// Classify returns the three-way status for an available-to-assign amount.
func Classify(available decimal.Decimal) AssignStatus {
	switch available.Sign() {
	case 1:
		return AssignPositive
	case -1:
		return AssignNegative
	default:
		return AssignBalanced
	}
}

// AvailableToAssign returns the total assigned budget minus the total
// expenses matching the filter, with its classification.
func AvailableToAssign(groups []models.BudgetGroup, transactions []models.Transaction, filter Filter) (decimal.Decimal, AssignStatus) {
	available := TotalAssigned(groups).Sub(TotalExpenses(transactions, filter))
	return available, Classify(available)
}
