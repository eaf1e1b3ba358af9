package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription represents a recurring monthly charge against an account.
type Subscription struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	BillingDay int             `json:"billingDay"`
	AccountID  string          `json:"accountId"`
	Active     bool            `json:"active"`
}

// NextBilling returns the first billing date strictly after the given time.
// Billing days beyond the end of a month clamp to that month's last day.
func (s Subscription) NextBilling(after time.Time) time.Time {
	year, month, _ := after.Date()

	for i := 0; i < 2; i++ {
		day := s.BillingDay
		if last := lastDayOfMonth(year, month); day > last {
			day = last
		}

		billing := time.Date(year, month, day, 0, 0, 0, 0, after.Location())
		if billing.After(after) {
			return billing
		}

		year, month, _ = time.Date(year, month, 1, 0, 0, 0, 0, after.Location()).AddDate(0, 1, 0).Date()
	}

	return time.Time{}
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
