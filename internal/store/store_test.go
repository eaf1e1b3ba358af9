package store_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GreekTheDev/mybudget/internal/events"
	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/GreekTheDev/mybudget/internal/store"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// fakeGateway is an in-memory gateway implementation for store tests. It
// mimics the server-computed parts of the real gateway: account balances and
// category spend are derived from the stored transactions on every list
// call, never taken from the client.
type fakeGateway struct {
	mu sync.Mutex

	// sessionErr, when set, is returned from every operation.
	sessionErr error
	// failing maps an operation name to an injected error.
	failing map[string]error

	// createEntered is closed when CreateTransaction is reached, and
	// createRelease is then waited on. Used to hold a mutation in flight.
	createEntered chan struct{}
	createRelease chan struct{}

	nextID        int
	accounts      []gateway.Account // Balance holds the base amount
	groups        []gateway.BudgetGroup
	transactions  []gateway.Transaction
	goals         []gateway.Goal
	subscriptions []gateway.Subscription

	accountLoads int
	budgetLoads  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failing: make(map[string]error)}
}

func (g *fakeGateway) fail(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing[op] = err
}

func (g *fakeGateway) opErr(op string) error {
	if g.sessionErr != nil {
		return g.sessionErr
	}
	return g.failing[op]
}

func (g *fakeGateway) id() string {
	g.nextID++
	return fmt.Sprintf("id-%d", g.nextID)
}

func (g *fakeGateway) CurrentUser(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CurrentUser"); err != nil {
		return "", err
	}
	return "user-1", nil
}

func (g *fakeGateway) Accounts(ctx context.Context) ([]gateway.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("Accounts"); err != nil {
		return nil, err
	}

	g.accountLoads++

	rows := make([]gateway.Account, len(g.accounts))
	for i, account := range g.accounts {
		rows[i] = account
		rows[i].Balance = account.Balance.Add(g.signedSum(account.ID))
	}
	return rows, nil
}

// signedSum must be called with the mutex held.
func (g *fakeGateway) signedSum(accountID string) decimal.Decimal {
	sum := decimal.Zero
	for _, transaction := range g.transactions {
		if transaction.AccountID != accountID {
			continue
		}
		if transaction.Type == "expense" {
			sum = sum.Sub(transaction.Amount)
		} else {
			sum = sum.Add(transaction.Amount)
		}
	}
	return sum
}

func (g *fakeGateway) CreateAccount(ctx context.Context, name, typeName string, balance decimal.Decimal) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CreateAccount"); err != nil {
		return "", err
	}

	id := g.id()
	g.accounts = append(g.accounts, gateway.Account{ID: id, Name: name, TypeName: typeName, Balance: balance})
	return id, nil
}

func (g *fakeGateway) UpdateAccount(ctx context.Context, id, name, typeName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateAccount"); err != nil {
		return err
	}

	for i := range g.accounts {
		if g.accounts[i].ID == id {
			g.accounts[i].Name = name
			g.accounts[i].TypeName = typeName
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateAccountBalance"); err != nil {
		return err
	}

	for i := range g.accounts {
		if g.accounts[i].ID == id {
			// Rebase so that base + transaction sum equals the requested value.
			g.accounts[i].Balance = balance.Sub(g.signedSum(id))
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) DeleteAccount(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("DeleteAccount"); err != nil {
		return err
	}

	kept := g.transactions[:0]
	for _, transaction := range g.transactions {
		if transaction.AccountID != id {
			kept = append(kept, transaction)
		}
	}
	g.transactions = kept

	for i := range g.accounts {
		if g.accounts[i].ID == id {
			g.accounts = append(g.accounts[:i], g.accounts[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) BudgetGroups(ctx context.Context) ([]gateway.BudgetGroup, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("BudgetGroups"); err != nil {
		return nil, err
	}

	g.budgetLoads++

	rows := make([]gateway.BudgetGroup, len(g.groups))
	for i, group := range g.groups {
		rows[i] = group
		rows[i].Categories = make([]gateway.BudgetCategory, len(group.Categories))
		for j, category := range group.Categories {
			rows[i].Categories[j] = category
			rows[i].Categories[j].Spent = g.spent(category.ID)
		}
	}
	return rows, nil
}

// spent must be called with the mutex held.
func (g *fakeGateway) spent(categoryID string) decimal.Decimal {
	sum := decimal.Zero
	for _, transaction := range g.transactions {
		if transaction.CategoryID == categoryID && transaction.Type == "expense" {
			sum = sum.Add(transaction.Amount)
		}
	}
	return sum
}

func (g *fakeGateway) CreateBudgetGroup(ctx context.Context, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CreateBudgetGroup"); err != nil {
		return "", err
	}

	id := g.id()
	g.groups = append(g.groups, gateway.BudgetGroup{ID: id, Name: name})
	return id, nil
}

func (g *fakeGateway) UpdateBudgetGroup(ctx context.Context, id, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateBudgetGroup"); err != nil {
		return err
	}

	for i := range g.groups {
		if g.groups[i].ID == id {
			g.groups[i].Name = name
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) DeleteBudgetGroup(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("DeleteBudgetGroup"); err != nil {
		return err
	}

	for i := range g.groups {
		if g.groups[i].ID == id {
			g.groups = append(g.groups[:i], g.groups[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) CreateBudgetCategory(ctx context.Context, groupID, name string, limit decimal.Decimal) (gateway.BudgetCategory, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CreateBudgetCategory"); err != nil {
		return gateway.BudgetCategory{}, err
	}

	for i := range g.groups {
		if g.groups[i].ID == groupID {
			category := gateway.BudgetCategory{ID: g.id(), Name: name, Limit: limit, Color: "#e53935"}
			g.groups[i].Categories = append(g.groups[i].Categories, category)
			return category, nil
		}
	}
	return gateway.BudgetCategory{}, gateway.ErrNotFound
}

func (g *fakeGateway) UpdateBudgetCategory(ctx context.Context, groupID, id, name string, limit decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateBudgetCategory"); err != nil {
		return err
	}

	for i := range g.groups {
		if g.groups[i].ID != groupID {
			continue
		}
		for j := range g.groups[i].Categories {
			if g.groups[i].Categories[j].ID == id {
				g.groups[i].Categories[j].Name = name
				g.groups[i].Categories[j].Limit = limit
				return nil
			}
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) DeleteBudgetCategory(ctx context.Context, groupID, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("DeleteBudgetCategory"); err != nil {
		return err
	}

	for i := range g.groups {
		if g.groups[i].ID != groupID {
			continue
		}
		for j := range g.groups[i].Categories {
			if g.groups[i].Categories[j].ID == id {
				g.groups[i].Categories = append(g.groups[i].Categories[:j], g.groups[i].Categories[j+1:]...)
				return nil
			}
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) Transactions(ctx context.Context) ([]gateway.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("Transactions"); err != nil {
		return nil, err
	}

	rows := make([]gateway.Transaction, len(g.transactions))
	copy(rows, g.transactions)
	return rows, nil
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, data gateway.TransactionCreate) (string, error) {
	if g.createEntered != nil {
		close(g.createEntered)
		g.createEntered = nil
		<-g.createRelease
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CreateTransaction"); err != nil {
		return "", err
	}

	id := g.id()
	g.transactions = append(g.transactions, gateway.Transaction{
		ID:            id,
		Description:   data.Description,
		Amount:        data.Amount,
		Type:          data.Type,
		CategoryLabel: data.CategoryLabel,
		Date:          data.Date,
		AccountID:     data.AccountID,
		GroupID:       data.GroupID,
		CategoryID:    data.CategoryID,
	})
	return id, nil
}

func (g *fakeGateway) UpdateTransaction(ctx context.Context, id string, update gateway.TransactionUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateTransaction"); err != nil {
		return err
	}

	for i := range g.transactions {
		if g.transactions[i].ID != id {
			continue
		}
		if update.Description != nil {
			g.transactions[i].Description = *update.Description
		}
		if update.Amount != nil {
			g.transactions[i].Amount = *update.Amount
		}
		if update.Type != nil {
			g.transactions[i].Type = *update.Type
		}
		if update.CategoryLabel != nil {
			g.transactions[i].CategoryLabel = *update.CategoryLabel
		}
		if update.Date != nil {
			g.transactions[i].Date = *update.Date
		}
		if update.AccountID != nil {
			g.transactions[i].AccountID = *update.AccountID
		}
		if update.GroupID != nil {
			g.transactions[i].GroupID = *update.GroupID
		}
		if update.CategoryID != nil {
			g.transactions[i].CategoryID = *update.CategoryID
		}
		return nil
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) DeleteTransaction(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("DeleteTransaction"); err != nil {
		return err
	}

	for i := range g.transactions {
		if g.transactions[i].ID == id {
			g.transactions = append(g.transactions[:i], g.transactions[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) Goals(ctx context.Context) ([]gateway.Goal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("Goals"); err != nil {
		return nil, err
	}

	rows := make([]gateway.Goal, len(g.goals))
	copy(rows, g.goals)
	return rows, nil
}

func (g *fakeGateway) CreateGoal(ctx context.Context, name string, target decimal.Decimal, deadline types.Month) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CreateGoal"); err != nil {
		return "", err
	}

	id := g.id()
	g.goals = append(g.goals, gateway.Goal{ID: id, Name: name, Target: target, Deadline: deadline})
	return id, nil
}

func (g *fakeGateway) UpdateGoal(ctx context.Context, id string, goal gateway.Goal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateGoal"); err != nil {
		return err
	}

	for i := range g.goals {
		if g.goals[i].ID == id {
			goal.ID = id
			g.goals[i] = goal
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) DeleteGoal(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("DeleteGoal"); err != nil {
		return err
	}

	for i := range g.goals {
		if g.goals[i].ID == id {
			g.goals = append(g.goals[:i], g.goals[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) Subscriptions(ctx context.Context) ([]gateway.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("Subscriptions"); err != nil {
		return nil, err
	}

	rows := make([]gateway.Subscription, len(g.subscriptions))
	copy(rows, g.subscriptions)
	return rows, nil
}

func (g *fakeGateway) CreateSubscription(ctx context.Context, sub gateway.Subscription) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("CreateSubscription"); err != nil {
		return "", err
	}

	id := g.id()
	sub.ID = id
	g.subscriptions = append(g.subscriptions, sub)
	return id, nil
}

func (g *fakeGateway) UpdateSubscription(ctx context.Context, id string, sub gateway.Subscription) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("UpdateSubscription"); err != nil {
		return err
	}

	for i := range g.subscriptions {
		if g.subscriptions[i].ID == id {
			sub.ID = id
			g.subscriptions[i] = sub
			return nil
		}
	}
	return gateway.ErrNotFound
}

func (g *fakeGateway) DeleteSubscription(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.opErr("DeleteSubscription"); err != nil {
		return err
	}

	for i := range g.subscriptions {
		if g.subscriptions[i].ID == id {
			g.subscriptions = append(g.subscriptions[:i], g.subscriptions[i+1:]...)
			return nil
		}
	}
	return gateway.ErrNotFound
}

var _ gateway.Gateway = (*fakeGateway)(nil)

// fixture is a fully wired set of stores over a fake gateway, with the
// refresh cascade bound like in production.
type fixture struct {
	gw            *fakeGateway
	bus           *events.Bus
	accounts      *store.AccountStore
	budgets       *store.BudgetStore
	transactions  *store.TransactionStore
	goals         *store.GoalStore
	subscriptions *store.SubscriptionStore
}

func newFixture() *fixture {
	gw := newFakeGateway()
	bus := events.NewBus()
	log := zerolog.Nop()

	accounts := store.NewAccountStore(gw, log, time.Second)
	budgets := store.NewBudgetStore(gw, log, time.Second)
	transactions := store.NewTransactionStore(gw, bus, accounts, budgets, log, time.Second)
	goals := store.NewGoalStore(gw, log, time.Second)
	subscriptions := store.NewSubscriptionStore(gw, accounts, log, time.Second)
	store.BindRefresh(bus, accounts, budgets)

	return &fixture{
		gw:            gw,
		bus:           bus,
		accounts:      accounts,
		budgets:       budgets,
		transactions:  transactions,
		goals:         goals,
		subscriptions: subscriptions,
	}
}
