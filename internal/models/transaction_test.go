package models_test

import (
	"testing"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTypeValid(t *testing.T) {
	assert.True(t, models.TransactionTypeIncome.Valid())
	assert.True(t, models.TransactionTypeExpense.Valid())
	assert.False(t, models.TransactionType("transfer").Valid())
	assert.False(t, models.TransactionType("").Valid())
}

func TestTransactionSigned(t *testing.T) {
	income := models.Transaction{Amount: decimal.NewFromInt(42), Type: models.TransactionTypeIncome}
	assert.True(t, income.Signed().Equal(decimal.NewFromInt(42)))

	expense := models.Transaction{Amount: decimal.NewFromInt(42), Type: models.TransactionTypeExpense}
	assert.True(t, expense.Signed().Equal(decimal.NewFromInt(-42)))
}
