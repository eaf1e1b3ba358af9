package models_test

import (
	"testing"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBudgetCategoryRemaining(t *testing.T) {
	category := models.BudgetCategory{
		Limit: decimal.NewFromInt(100),
		Spent: decimal.NewFromInt(30),
	}
	assert.True(t, category.Remaining().Equal(decimal.NewFromInt(70)))

	// Over-budget is a valid state and stays visible as a negative remainder.
	category.Spent = decimal.NewFromInt(130)
	assert.True(t, category.Remaining().Equal(decimal.NewFromInt(-30)))
}

func TestBudgetCategoryProgress(t *testing.T) {
	tests := []struct {
		name     string
		limit    int64
		spent    int64
		expected int64
	}{
		{"half used", 200, 100, 50},
		{"untouched", 200, 0, 0},
		{"exactly at limit", 200, 200, 100},
		{"over budget clamps", 200, 500, 100},
		{"no limit with spend", 0, 25, 100},
		{"no limit no spend", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category := models.BudgetCategory{
				Limit: decimal.NewFromInt(tt.limit),
				Spent: decimal.NewFromInt(tt.spent),
			}
			assert.True(t, category.Progress().Equal(decimal.NewFromInt(tt.expected)),
				"got %s", category.Progress())
		})
	}
}

func TestRandomCategoryColor(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, "^#[0-9a-f]{6}$", models.RandomCategoryColor())
	}
}
