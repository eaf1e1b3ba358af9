package models

import (
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/shopspring/decimal"
)

// Goal represents a savings goal with a target amount and an optional
// deadline month.
type Goal struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Target   decimal.Decimal `json:"target"`
	Saved    decimal.Decimal `json:"saved"`
	Deadline types.Month     `json:"deadline,omitempty"`
}

// Progress returns how much of the goal's target has been saved, as a
// percentage clamped to [0, 100].
func (g Goal) Progress() decimal.Decimal {
	hundred := decimal.NewFromInt(100)

	if !g.Target.IsPositive() {
		if g.Saved.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}

	progress := g.Saved.Div(g.Target).Mul(hundred)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	if progress.IsNegative() {
		return decimal.Zero
	}

	return progress
}
