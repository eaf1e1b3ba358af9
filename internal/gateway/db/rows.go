package db

import (
	"time"

	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/shopspring/decimal"
)

// accountTypeNames is the fixed lookup table for account kinds. The client
// translates between these names and its own enum; the first 14 are the
// canonical names, the rest are aliases from earlier releases.
var accountTypeNames = []string{
	"Cash",
	"Checking Account",
	"Savings Account",
	"Term Deposit",
	"Credit Card",
	"Buy Now Pay Later",
	"Loan",
	"Mortgage",
	"Investment",
	"Brokerage",
	"Pension",
	"Crypto",
	"E-Wallet",
	"Prepaid Card",
	"Bank Account",
	"Credit",
	"Digital Wallet",
}

type accountTypeRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func (accountTypeRow) TableName() string { return "account_types" }

// accountRow stores the base balance. The effective balance returned to
// clients is the base plus the signed sum of the account's transactions.
type accountRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Name      string
	TypeID    uint
	Balance   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CreatedAt time.Time
}

func (accountRow) TableName() string { return "accounts" }

type budgetGroupRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Name      string
	CreatedAt time.Time
}

func (budgetGroupRow) TableName() string { return "budget_groups" }

type budgetCategoryRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	GroupID   string `gorm:"index"`
	Name      string
	Limit     decimal.Decimal `gorm:"column:spending_limit;type:DECIMAL(20,8)"`
	Color     string
	CreatedAt time.Time
}

func (budgetCategoryRow) TableName() string { return "budget_categories" }

// transactionRow keeps the budget category label as captured at creation
// time. GroupID and CategoryID are plain references on purpose: deleting a
// category leaves historical transactions with their snapshot label.
type transactionRow struct {
	ID            string `gorm:"primaryKey"`
	UserID        string `gorm:"index"`
	Description   string
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Type          string
	CategoryLabel string
	Date          time.Time
	AccountID     string     `gorm:"index"`
	Account       accountRow `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	GroupID       string
	CategoryID    string
	CreatedAt     time.Time
}

func (transactionRow) TableName() string { return "transactions" }

type goalRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Name      string
	Target    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Saved     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Deadline  types.Month
	CreatedAt time.Time
}

func (goalRow) TableName() string { return "goals" }

type subscriptionRow struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index"`
	Name       string
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	BillingDay int
	AccountID  string
	Active     bool
	CreatedAt  time.Time
}

func (subscriptionRow) TableName() string { return "subscriptions" }
