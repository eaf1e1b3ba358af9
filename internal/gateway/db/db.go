// Package db implements the persistence gateway on top of gorm and sqlite.
//
// Account balances and category spent amounts are computed on read from the
// stored transactions, so they are always consistent with the row data. The
// stores treat both as authoritative and never recompute them locally.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SessionFunc returns the identifier of the authenticated user, or the
// empty string when no session is active.
type SessionFunc func(ctx context.Context) string

// Gateway implements gateway.Gateway against a gorm database.
type Gateway struct {
	db      *gorm.DB
	session SessionFunc
}

var _ gateway.Gateway = (*Gateway)(nil)

// New returns a gateway backed by the given database connection.
func New(db *gorm.DB, session SessionFunc) *Gateway {
	return &Gateway{db: db, session: session}
}

// Connect opens the sqlite database at path, migrates the schema and seeds
// the account type lookup table.
func Connect(path string) (*gorm.DB, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(accountTypeRow{}, accountRow{}, budgetGroupRow{}, budgetCategoryRow{}, transactionRow{}, goalRow{}, subscriptionRow{})
	if err != nil {
		return nil, err
	}

	if err := seedAccountTypes(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedAccountTypes ensures every known lookup table name exists.
func seedAccountTypes(db *gorm.DB) error {
	for _, name := range accountTypeNames {
		err := db.Where(accountTypeRow{Name: name}).FirstOrCreate(&accountTypeRow{Name: name}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// CurrentUser returns the authenticated user's identifier.
func (g *Gateway) CurrentUser(ctx context.Context) (string, error) {
	user := g.session(ctx)
	if user == "" {
		return "", gateway.ErrNoSession
	}

	return user, nil
}

// user is the session check every operation starts with.
func (g *Gateway) user(ctx context.Context) (string, error) {
	return g.CurrentUser(ctx)
}

// first fetches a single row scoped to the user, translating gorm's
// not-found error to the gateway sentinel.
func first(tx *gorm.DB, dest any, query string, args ...any) error {
	err := tx.Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gateway.ErrNotFound
	}

	return err
}

// sumOrZero unwraps a nullable SQL aggregate.
func sumOrZero(sum decimal.NullDecimal) decimal.Decimal {
	if sum.Valid {
		return sum.Decimal
	}

	return decimal.Zero
}
