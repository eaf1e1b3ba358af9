package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	sqlite3 "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

// sqlite extended result code for foreign key constraint failures.
const sqliteConstraintForeignKey = 787

// isForeignKeyViolation reports whether an insert or update was rejected
// because a referenced row does not exist.
func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqliteConstraintForeignKey
}

// Transactions lists all transactions for the current user, most recent
// first.
func (g *Gateway) Transactions(ctx context.Context) ([]gateway.Transaction, error) {
	user, err := g.user(ctx)
	if err != nil {
		return nil, err
	}

	var rows []transactionRow
	err = g.db.WithContext(ctx).
		Where("user_id = ?", user).
		Order("date DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing transactions failed: %w", err)
	}

	transactions := make([]gateway.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, gateway.Transaction{
			ID:            row.ID,
			Description:   row.Description,
			Amount:        row.Amount,
			Type:          row.Type,
			CategoryLabel: row.CategoryLabel,
			Date:          row.Date.In(time.UTC),
			AccountID:     row.AccountID,
			GroupID:       row.GroupID,
			CategoryID:    row.CategoryID,
		})
	}

	return transactions, nil
}

// CreateTransaction inserts a transaction and returns its assigned
// identifier. The account must exist; a foreign key rejection is reported
// as ErrNotFound.
func (g *Gateway) CreateTransaction(ctx context.Context, data gateway.TransactionCreate) (string, error) {
	user, err := g.user(ctx)
	if err != nil {
		return "", err
	}

	var account accountRow
	err = first(g.db.WithContext(ctx), &account, "user_id = ? AND id = ?", user, data.AccountID)
	if err != nil {
		return "", fmt.Errorf("account %s: %w", data.AccountID, err)
	}

	date := data.Date
	if date.IsZero() {
		date = time.Now().In(time.UTC)
	}

	row := transactionRow{
		ID:            uuid.NewString(),
		UserID:        user,
		Description:   data.Description,
		Amount:        data.Amount,
		Type:          data.Type,
		CategoryLabel: data.CategoryLabel,
		Date:          date.In(time.UTC),
		AccountID:     data.AccountID,
		GroupID:       data.GroupID,
		CategoryID:    data.CategoryID,
	}

	err = g.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("account %s: %w", data.AccountID, gateway.ErrNotFound)
		}
		return "", fmt.Errorf("creating transaction failed: %w", err)
	}

	return row.ID, nil
}

// UpdateTransaction applies the non-nil fields of the update to the
// transaction.
func (g *Gateway) UpdateTransaction(ctx context.Context, id string, update gateway.TransactionUpdate) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row transactionRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	changes := map[string]any{}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.Amount != nil {
		changes["amount"] = *update.Amount
	}
	if update.Type != nil {
		changes["type"] = *update.Type
	}
	if update.CategoryLabel != nil {
		changes["category_label"] = *update.CategoryLabel
	}
	if update.Date != nil {
		changes["date"] = update.Date.In(time.UTC)
	}
	if update.AccountID != nil {
		var account accountRow
		err = first(g.db.WithContext(ctx), &account, "user_id = ? AND id = ?", user, *update.AccountID)
		if err != nil {
			return fmt.Errorf("account %s: %w", *update.AccountID, err)
		}
		changes["account_id"] = *update.AccountID
	}
	if update.GroupID != nil {
		changes["group_id"] = *update.GroupID
	}
	if update.CategoryID != nil {
		changes["category_id"] = *update.CategoryID
	}

	if len(changes) == 0 {
		return nil
	}

	err = g.db.WithContext(ctx).Model(&row).Updates(changes).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return gateway.ErrNotFound
		}
		return fmt.Errorf("updating transaction %s failed: %w", id, err)
	}

	return nil
}

// DeleteTransaction removes a transaction.
func (g *Gateway) DeleteTransaction(ctx context.Context, id string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row transactionRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Delete(&row).Error
}
