// Package gateway defines the persistence boundary the stores talk to.
//
// A gateway provides row-level CRUD for the record families of the
// application, implicitly scoped to the current authenticated user. The
// record shapes here are the gateway's wire shapes: account types are lookup
// table names, not the client-side enum.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoSession is returned when no user is authenticated.
	ErrNoSession = errors.New("no active session")

	// ErrNotFound is returned when a referenced record does not exist for
	// the current user.
	ErrNotFound = errors.New("record not found")
)

// Account is an account row as the gateway stores it. Balance is computed
// server-side and includes all of the account's transactions.
type Account struct {
	ID       string
	Name     string
	TypeName string
	Balance  decimal.Decimal
}

// BudgetGroup is a group row with its categories nested in creation order.
type BudgetGroup struct {
	ID         string
	Name       string
	Categories []BudgetCategory
}

// BudgetCategory is a category row. Spent is computed server-side from the
// category's expense transactions. Color is assigned at insert and persisted.
type BudgetCategory struct {
	ID    string
	Name  string
	Limit decimal.Decimal
	Spent decimal.Decimal
	Color string
}

// Transaction is a transaction row, denormalized with the display label of
// its budget category as captured at creation time.
type Transaction struct {
	ID            string
	Description   string
	Amount        decimal.Decimal
	Type          string
	CategoryLabel string
	Date          time.Time
	AccountID     string
	GroupID       string
	CategoryID    string
}

// TransactionCreate holds all values needed to insert a transaction.
type TransactionCreate struct {
	Description   string
	Amount        decimal.Decimal
	Type          string
	CategoryLabel string
	Date          time.Time
	AccountID     string
	GroupID       string
	CategoryID    string
}

// TransactionUpdate is a partial update. Nil fields are left untouched.
type TransactionUpdate struct {
	Description   *string
	Amount        *decimal.Decimal
	Type          *string
	CategoryLabel *string
	Date          *time.Time
	AccountID     *string
	GroupID       *string
	CategoryID    *string
}

// Goal is a savings goal row.
type Goal struct {
	ID       string
	Name     string
	Target   decimal.Decimal
	Saved    decimal.Decimal
	Deadline types.Month
}

// Subscription is a recurring charge row.
type Subscription struct {
	ID         string
	Name       string
	Amount     decimal.Decimal
	BillingDay int
	AccountID  string
	Active     bool
}

// Gateway is the persistence and authentication service the stores depend
// on. All operations are scoped to the user returned by CurrentUser;
// implementations must return ErrNoSession from every operation when no
// user is authenticated.
type Gateway interface {
	// CurrentUser returns the opaque identifier of the authenticated user,
	// or ErrNoSession.
	CurrentUser(ctx context.Context) (string, error)

	// Accounts lists all accounts ordered by creation time ascending.
	Accounts(ctx context.Context) ([]Account, error)
	CreateAccount(ctx context.Context, name, typeName string, balance decimal.Decimal) (string, error)
	UpdateAccount(ctx context.Context, id, name, typeName string) error
	// UpdateAccountBalance overwrites the account's effective balance
	// without recording a transaction.
	UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error
	// DeleteAccount removes the account and cascades to its transactions.
	DeleteAccount(ctx context.Context, id string) error

	// BudgetGroups lists all groups with nested categories, both ordered by
	// creation time ascending.
	BudgetGroups(ctx context.Context) ([]BudgetGroup, error)
	CreateBudgetGroup(ctx context.Context, name string) (string, error)
	UpdateBudgetGroup(ctx context.Context, id, name string) error
	// DeleteBudgetGroup removes the group and cascades to its categories.
	DeleteBudgetGroup(ctx context.Context, id string) error
	// CreateBudgetCategory inserts a category with spent defaulted to zero
	// and a freshly assigned, persisted color.
	CreateBudgetCategory(ctx context.Context, groupID, name string, limit decimal.Decimal) (BudgetCategory, error)
	UpdateBudgetCategory(ctx context.Context, groupID, id, name string, limit decimal.Decimal) error
	DeleteBudgetCategory(ctx context.Context, groupID, id string) error

	// Transactions lists all transactions ordered by date descending.
	Transactions(ctx context.Context) ([]Transaction, error)
	CreateTransaction(ctx context.Context, data TransactionCreate) (string, error)
	UpdateTransaction(ctx context.Context, id string, update TransactionUpdate) error
	DeleteTransaction(ctx context.Context, id string) error

	Goals(ctx context.Context) ([]Goal, error)
	CreateGoal(ctx context.Context, name string, target decimal.Decimal, deadline types.Month) (string, error)
	UpdateGoal(ctx context.Context, id string, goal Goal) error
	DeleteGoal(ctx context.Context, id string) error

	Subscriptions(ctx context.Context) ([]Subscription, error)
	CreateSubscription(ctx context.Context, sub Subscription) (string, error)
	UpdateSubscription(ctx context.Context, id string, sub Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
}
