package aggregate_test

import (
	"testing"
	"time"

	"github.com/GreekTheDev/mybudget/internal/aggregate"
	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(day int) time.Time {
	return time.Date(2026, 6, day, 12, 0, 0, 0, time.UTC)
}

func transactions() []models.Transaction {
	return []models.Transaction{
		{ID: "t1", Amount: decimal.NewFromInt(3000), Type: models.TransactionTypeIncome, Date: date(1), AccountID: "a1"},
		{ID: "t2", Amount: decimal.NewFromInt(120), Type: models.TransactionTypeExpense, Date: date(3), AccountID: "a1"},
		{ID: "t3", Amount: decimal.NewFromInt(80), Type: models.TransactionTypeExpense, Date: date(5), AccountID: "a2"},
		{ID: "t4", Amount: decimal.NewFromInt(500), Type: models.TransactionTypeIncome, Date: time.Date(2026, 5, 28, 0, 0, 0, 0, time.UTC), AccountID: "a2"},
	}
}

func TestTotalBalance(t *testing.T) {
	accounts := []models.Account{
		{ID: "a1", Balance: decimal.NewFromInt(100)},
		{ID: "a2", Balance: decimal.NewFromInt(-40)},
	}

	assert.True(t, aggregate.TotalBalance(accounts).Equal(decimal.NewFromInt(60)))
	assert.True(t, aggregate.TotalBalance(nil).IsZero())
}

func TestTotalIncomeAndExpenses(t *testing.T) {
	all := aggregate.Filter{}
	assert.True(t, aggregate.TotalIncome(transactions(), all).Equal(decimal.NewFromInt(3500)))
	assert.True(t, aggregate.TotalExpenses(transactions(), all).Equal(decimal.NewFromInt(200)))
}

func TestFilterByAccount(t *testing.T) {
	filter := aggregate.Filter{AccountID: "a1"}
	assert.True(t, aggregate.TotalIncome(transactions(), filter).Equal(decimal.NewFromInt(3000)))
	assert.True(t, aggregate.TotalExpenses(transactions(), filter).Equal(decimal.NewFromInt(120)))
}

func TestFilterByMonth(t *testing.T) {
	filter := aggregate.Filter{Month: types.NewMonth(2026, 6)}
	assert.True(t, aggregate.TotalIncome(transactions(), filter).Equal(decimal.NewFromInt(3000)))
	assert.True(t, aggregate.TotalExpenses(transactions(), filter).Equal(decimal.NewFromInt(200)))

	may := aggregate.Filter{Month: types.NewMonth(2026, 5)}
	assert.True(t, aggregate.TotalIncome(transactions(), may).Equal(decimal.NewFromInt(500)))
	assert.True(t, aggregate.TotalExpenses(transactions(), may).IsZero())
}

func TestTotalAssigned(t *testing.T) {
	groups := []models.BudgetGroup{
		{ID: "g1", Categories: []models.BudgetCategory{
			{ID: "c1", Limit: decimal.NewFromInt(300)},
			{ID: "c2", Limit: decimal.NewFromInt(150)},
		}},
		{ID: "g2", Categories: []models.BudgetCategory{
			{ID: "c3", Limit: decimal.NewFromInt(50)},
		}},
	}

	assert.True(t, aggregate.TotalAssigned(groups).Equal(decimal.NewFromInt(500)))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, aggregate.AssignPositive, aggregate.Classify(decimal.NewFromInt(1)))
	assert.Equal(t, aggregate.AssignBalanced, aggregate.Classify(decimal.Zero))
	assert.Equal(t, aggregate.AssignNegative, aggregate.Classify(decimal.NewFromInt(-1)))
}

func TestAvailableToAssign(t *testing.T) {
	groups := []models.BudgetGroup{
		{ID: "g1", Categories: []models.BudgetCategory{
			{ID: "c1", Limit: decimal.NewFromInt(250)},
		}},
	}

	// 250 assigned, 200 spent overall.
	available, status := aggregate.AvailableToAssign(groups, transactions(), aggregate.Filter{})
	assert.True(t, available.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, aggregate.AssignPositive, status)

	// Restricting to a2 leaves 250 - 80.
	available, status = aggregate.AvailableToAssign(groups, transactions(), aggregate.Filter{AccountID: "a2"})
	assert.True(t, available.Equal(decimal.NewFromInt(170)))
	assert.Equal(t, aggregate.AssignPositive, status)

	// Overspending flips negative; the amount stays exact.
	groups[0].Categories[0].Limit = decimal.NewFromInt(150)
	available, status = aggregate.AvailableToAssign(groups, transactions(), aggregate.Filter{})
	assert.True(t, available.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, aggregate.AssignNegative, status)

	// An exact match is balanced, not positive.
	groups[0].Categories[0].Limit = decimal.NewFromInt(200)
	available, status = aggregate.AvailableToAssign(groups, transactions(), aggregate.Filter{})
	assert.True(t, available.IsZero())
	assert.Equal(t, aggregate.AssignBalanced, status)
}
