package db

import (
	"context"
	"fmt"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetGroups lists all groups with their categories nested, both ordered
// by creation time ascending. Spent amounts are computed from the expense
// transactions referencing each category.
func (g *Gateway) BudgetGroups(ctx context.Context) ([]gateway.BudgetGroup, error) {
	user, err := g.user(ctx)
	if err != nil {
		return nil, err
	}

	var groupRows []budgetGroupRow
	err = g.db.WithContext(ctx).
		Where("user_id = ?", user).
		Order("created_at ASC, id ASC").
		Find(&groupRows).Error
	if err != nil {
		return nil, fmt.Errorf("listing budget groups failed: %w", err)
	}

	var categoryRows []budgetCategoryRow
	err = g.db.WithContext(ctx).
		Where("user_id = ?", user).
		Order("created_at ASC, id ASC").
		Find(&categoryRows).Error
	if err != nil {
		return nil, fmt.Errorf("listing budget categories failed: %w", err)
	}

	spent, err := g.spentByCategory(ctx, user)
	if err != nil {
		return nil, err
	}

	groups := make([]gateway.BudgetGroup, 0, len(groupRows))
	for _, groupRow := range groupRows {
		group := gateway.BudgetGroup{
			ID:         groupRow.ID,
			Name:       groupRow.Name,
			Categories: []gateway.BudgetCategory{},
		}

		for _, categoryRow := range categoryRows {
			if categoryRow.GroupID != groupRow.ID {
				continue
			}

			group.Categories = append(group.Categories, gateway.BudgetCategory{
				ID:    categoryRow.ID,
				Name:  categoryRow.Name,
				Limit: categoryRow.Limit,
				Spent: spent[categoryRow.ID],
				Color: categoryRow.Color,
			})
		}

		groups = append(groups, group)
	}

	return groups, nil
}

// CreateBudgetGroup inserts a group and returns its assigned identifier.
func (g *Gateway) CreateBudgetGroup(ctx context.Context, name string) (string, error) {
	user, err := g.user(ctx)
	if err != nil {
		return "", err
	}

	row := budgetGroupRow{
		ID:     uuid.NewString(),
		UserID: user,
		Name:   name,
	}

	err = g.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("creating budget group failed: %w", err)
	}

	return row.ID, nil
}

// UpdateBudgetGroup renames a group.
func (g *Gateway) UpdateBudgetGroup(ctx context.Context, id, name string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row budgetGroupRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Model(&row).Update("name", name).Error
}

// DeleteBudgetGroup removes the group and all of its categories.
func (g *Gateway) DeleteBudgetGroup(ctx context.Context, id string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row budgetGroupRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND group_id = ?", user, id).Delete(&budgetCategoryRow{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&row).Error
	})
}

// CreateBudgetCategory inserts a category into a group. The display color is
// picked once here and persisted, so it is stable across reloads.
func (g *Gateway) CreateBudgetCategory(ctx context.Context, groupID, name string, limit decimal.Decimal) (gateway.BudgetCategory, error) {
	user, err := g.user(ctx)
	if err != nil {
		return gateway.BudgetCategory{}, err
	}

	var group budgetGroupRow
	err = first(g.db.WithContext(ctx), &group, "user_id = ? AND id = ?", user, groupID)
	if err != nil {
		return gateway.BudgetCategory{}, fmt.Errorf("budget group %s: %w", groupID, err)
	}

	row := budgetCategoryRow{
		ID:      uuid.NewString(),
		UserID:  user,
		GroupID: groupID,
		Name:    name,
		Limit:   limit,
		Color:   models.RandomCategoryColor(),
	}

	err = g.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return gateway.BudgetCategory{}, fmt.Errorf("creating budget category failed: %w", err)
	}

	return gateway.BudgetCategory{
		ID:    row.ID,
		Name:  row.Name,
		Limit: row.Limit,
		Spent: decimal.Zero,
		Color: row.Color,
	}, nil
}

// UpdateBudgetCategory changes a category's name and planned limit.
func (g *Gateway) UpdateBudgetCategory(ctx context.Context, groupID, id, name string, limit decimal.Decimal) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row budgetCategoryRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND group_id = ? AND id = ?", user, groupID, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Model(&row).Updates(map[string]any{
		"name":           name,
		"spending_limit": limit,
	}).Error
}

// DeleteBudgetCategory removes a category. Transactions referencing it keep
// their creation-time label.
func (g *Gateway) DeleteBudgetCategory(ctx context.Context, groupID, id string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row budgetCategoryRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND group_id = ? AND id = ?", user, groupID, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Delete(&row).Error
}

// spentByCategory sums expense transactions per budget category.
func (g *Gateway) spentByCategory(ctx context.Context, user string) (map[string]decimal.Decimal, error) {
	var results []struct {
		CategoryID string
		Spent      decimal.NullDecimal
	}

	err := g.db.WithContext(ctx).
		Table("transactions").
		Select("category_id, SUM(amount) AS spent").
		Where("user_id = ? AND type = ? AND category_id <> ''", user, "expense").
		Group("category_id").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("summing category spend failed: %w", err)
	}

	spent := make(map[string]decimal.Decimal, len(results))
	for _, result := range results {
		spent[result.CategoryID] = sumOrZero(result.Spent)
	}

	return spent, nil
}
