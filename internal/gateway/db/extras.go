package db

import (
	"context"
	"fmt"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goals lists all savings goals, ordered by creation time ascending.
func (g *Gateway) Goals(ctx context.Context) ([]gateway.Goal, error) {
	user, err := g.user(ctx)
	if err != nil {
		return nil, err
	}

	var rows []goalRow
	err = g.db.WithContext(ctx).
		Where("user_id = ?", user).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing goals failed: %w", err)
	}

	goals := make([]gateway.Goal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, gateway.Goal{
			ID:       row.ID,
			Name:     row.Name,
			Target:   row.Target,
			Saved:    row.Saved,
			Deadline: row.Deadline,
		})
	}

	return goals, nil
}

// CreateGoal inserts a goal with nothing saved yet.
func (g *Gateway) CreateGoal(ctx context.Context, name string, target decimal.Decimal, deadline types.Month) (string, error) {
	user, err := g.user(ctx)
	if err != nil {
		return "", err
	}

	row := goalRow{
		ID:       uuid.NewString(),
		UserID:   user,
		Name:     name,
		Target:   target,
		Saved:    decimal.Zero,
		Deadline: deadline,
	}

	err = g.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("creating goal failed: %w", err)
	}

	return row.ID, nil
}

// UpdateGoal overwrites a goal's fields.
func (g *Gateway) UpdateGoal(ctx context.Context, id string, goal gateway.Goal) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row goalRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Model(&row).Updates(map[string]any{
		"name":     goal.Name,
		"target":   goal.Target,
		"saved":    goal.Saved,
		"deadline": goal.Deadline,
	}).Error
}

// DeleteGoal removes a goal.
func (g *Gateway) DeleteGoal(ctx context.Context, id string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row goalRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Delete(&row).Error
}

// Subscriptions lists all subscriptions, ordered by creation time ascending.
func (g *Gateway) Subscriptions(ctx context.Context) ([]gateway.Subscription, error) {
	user, err := g.user(ctx)
	if err != nil {
		return nil, err
	}

	var rows []subscriptionRow
	err = g.db.WithContext(ctx).
		Where("user_id = ?", user).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions failed: %w", err)
	}

	subscriptions := make([]gateway.Subscription, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, gateway.Subscription{
			ID:         row.ID,
			Name:       row.Name,
			Amount:     row.Amount,
			BillingDay: row.BillingDay,
			AccountID:  row.AccountID,
			Active:     row.Active,
		})
	}

	return subscriptions, nil
}

// CreateSubscription inserts a subscription. The account must exist.
func (g *Gateway) CreateSubscription(ctx context.Context, sub gateway.Subscription) (string, error) {
	user, err := g.user(ctx)
	if err != nil {
		return "", err
	}

	if sub.AccountID != "" {
		var account accountRow
		err = first(g.db.WithContext(ctx), &account, "user_id = ? AND id = ?", user, sub.AccountID)
		if err != nil {
			return "", fmt.Errorf("account %s: %w", sub.AccountID, err)
		}
	}

	row := subscriptionRow{
		ID:         uuid.NewString(),
		UserID:     user,
		Name:       sub.Name,
		Amount:     sub.Amount,
		BillingDay: sub.BillingDay,
		AccountID:  sub.AccountID,
		Active:     sub.Active,
	}

	err = g.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("creating subscription failed: %w", err)
	}

	return row.ID, nil
}

// UpdateSubscription overwrites a subscription's fields.
func (g *Gateway) UpdateSubscription(ctx context.Context, id string, sub gateway.Subscription) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row subscriptionRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Model(&row).Updates(map[string]any{
		"name":        sub.Name,
		"amount":      sub.Amount,
		"billing_day": sub.BillingDay,
		"account_id":  sub.AccountID,
		"active":      sub.Active,
	}).Error
}

// DeleteSubscription removes a subscription.
func (g *Gateway) DeleteSubscription(ctx context.Context, id string) error {
	user, err := g.user(ctx)
	if err != nil {
		return err
	}

	var row subscriptionRow
	err = first(g.db.WithContext(ctx), &row, "user_id = ? AND id = ?", user, id)
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Delete(&row).Error
}
