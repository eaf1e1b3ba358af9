package models

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// BudgetGroup represents a named collection of budget categories, e.g.
// "Housing". Categories keep their insertion order.
type BudgetGroup struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Categories []BudgetCategory `json:"categories"`
}

// BudgetCategory represents a planned-spending bucket within a group.
//
// Spent is authoritative from the gateway, never summed from the local
// transaction list. Over-budget (Spent > Limit) is a valid, displayed state.
type BudgetCategory struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Limit decimal.Decimal `json:"limit"`
	Spent decimal.Decimal `json:"spent"`
	Color string          `json:"color"`
}

// Remaining returns limit minus spent. The result may be negative.
func (c BudgetCategory) Remaining() decimal.Decimal {
	return c.Limit.Sub(c.Spent)
}

// Progress returns how much of the category's limit has been spent, as a
// percentage clamped to [0, 100]. A category without a limit that has spend
// counts as fully used.
func (c BudgetCategory) Progress() decimal.Decimal {
	hundred := decimal.NewFromInt(100)

	if !c.Limit.IsPositive() {
		if c.Spent.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}

	progress := c.Spent.Div(c.Limit).Mul(hundred)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	if progress.IsNegative() {
		return decimal.Zero
	}

	return progress
}

// categoryPalette holds the colors a new budget category can be assigned.
// The pick is random, but the assigned color is persisted by the gateway so
// it stays stable across reloads.
var categoryPalette = []string{
	"#e53935", "#d81b60", "#8e24aa", "#5e35b1", "#3949ab",
	"#1e88e5", "#039be5", "#00acc1", "#00897b", "#43a047",
	"#7cb342", "#c0ca33", "#fdd835", "#ffb300", "#fb8c00",
	"#f4511e", "#6d4c41", "#546e7a",
}

// RandomCategoryColor picks a color from the category palette.
func RandomCategoryColor() string {
	return categoryPalette[rand.Intn(len(categoryPalette))]
}
