package db

import (
	"context"
	"fmt"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Accounts lists all accounts for the current user, ordered by creation
// time ascending and joined with their lookup table type name.
func (g *Gateway) Accounts(ctx context.Context) ([]gateway.Account, error) {
	user, err := g.user(ctx)
	if err != nil {
		return nil, err
	}

	var results []struct {
		ID       string
		Name     string
		TypeName string
		Balance  decimal.Decimal
	}

	err = g.db.WithContext(ctx).
		Table("accounts").
		Select("accounts.id, accounts.name, account_types.name AS type_name, accounts.balance").
		Joins("JOIN account_types ON account_types.id = accounts.type_id").
		Where("accounts.user_id = ?", user).
		Order("accounts.created_at ASC, accounts.id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("listing accounts failed: %w", err)
	}

	sums, err := g.transactionSums(ctx, user)
	if err != nil {
		return nil, err
	}

	accounts := make([]gateway.Account, 0, len(results))
	for _, result := range results {
		accounts = append(accounts, gateway.Account{
			ID:       result.ID,
			Name:     result.Name,
			TypeName: result.TypeName,
			Balance:  result.Balance.Add(sums[result.ID]),
		})
	}

	return accounts, nil
}

// CreateAccount inserts an account and returns its assigned identifier.
func (g *Gateway) CreateAccount(ctx context.Context, name, typeName string, balance decimal.Decimal) (string, error) {
	user, err := g.user(ctx)
	if err != nil {
		return "", err
	}

	typeID, err := g.accountTypeID(ctx, typeName)
	if err != nil {
		return "", err
	}

	row := accountRow{
		ID:      uuid.NewString(),
		UserID:  user,
		Name:    name,
		TypeID:  typeID,
		Balance: balance,
	}

	err = g.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("creating account failed: %w", err)
	}

	return row.ID, nil
}

// UpdateAccount changes name and type. The balance is untouched.
func (g *Gateway) UpdateAccount(ctx context.Context, id, name, typeName string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	typeID, err := g.accountTypeID(ctx, typeName)
	if err != nil {
		return err
	}

	var row accountRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Model(&row).Updates(map[string]any{
		"name":    name,
		"type_id": typeID,
	}).Error
}

// UpdateAccountBalance overwrites the effective balance. The stored base is
// rebased so that base plus the transaction sum equals the requested value.
func (g *Gateway) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row accountRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	sum, err := g.transactionSum(ctx, user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Model(&row).Update("balance", balance.Sub(sum)).Error
}

// DeleteAccount removes the account and all of its transactions.
func (g *Gateway) DeleteAccount(ctx context.Context, id string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row accountRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND account_id = ?", user, id).Delete(&transactionRow{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&row).Error
	})
}

// accountTypeID resolves a lookup table name to its row.
func (g *Gateway) accountTypeID(ctx context.Context, name string) (uint, error) {
	var row accountTypeRow
	err := first(g.db.WithContext(ctx), &row, "name = ?", name)
	if err != nil {
		return 0, fmt.Errorf("account type %q: %w", name, err)
	}

	return row.ID, nil
}

// transactionSums returns the signed transaction sum per account, in one
// grouped query.
func (g *Gateway) transactionSums(ctx context.Context, user string) (map[string]decimal.Decimal, error) {
	var results []struct {
		AccountID string
		Sum       decimal.NullDecimal
	}

	err := g.db.WithContext(ctx).
		Table("transactions").
		Select("account_id, SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END) AS sum").
		Where("user_id = ?", user).
		Group("account_id").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("summing transactions failed: %w", err)
	}

	sums := make(map[string]decimal.Decimal, len(results))
	for _, result := range results {
		sums[result.AccountID] = sumOrZero(result.Sum)
	}

	return sums, nil
}

// transactionSum returns the signed sum of an account's transactions.
func (g *Gateway) transactionSum(ctx context.Context, user, accountID string) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := g.db.WithContext(ctx).
		Table("transactions").
		Select("SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END)").
		Where("user_id = ? AND account_id = ?", user, accountID).
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing transactions for account %s failed: %w", accountID, err)
	}

	return sumOrZero(sum), nil
}
