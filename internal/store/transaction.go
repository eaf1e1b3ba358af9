package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GreekTheDev/mybudget/internal/events"
	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/GreekTheDev/mybudget/internal/metrics"
	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AccountDirectory is the read surface of the account store that the
// transaction store validates references against. Cross-store reads go
// through this surface, never through another store's internals.
type AccountDirectory interface {
	Empty() bool
	Exists(id string) bool
}

// CategoryResolver resolves a budget category's display name for the label
// snapshot taken at transaction creation time.
type CategoryResolver interface {
	CategoryName(groupID, categoryID string) (string, bool)
}

// TransactionStore owns the transaction list.
//
// Every successful mutation publishes a TransactionsChanged event and waits
// for all subscribers before the mutation is considered complete. The
// account and budget stores subscribe with their refresh, because a
// transaction changes an account's balance and a category's spend, both of
// which are server-computed. The store never corrects those aggregates with
// a locally computed delta.
type TransactionStore struct {
	gw         gateway.Gateway
	bus        *events.Bus
	accounts   AccountDirectory
	categories CategoryResolver
	log        zerolog.Logger
	timeout    time.Duration
	inflight   *inflightSet

	mu           sync.RWMutex
	transactions []models.Transaction
}

// NewTransactionStore returns an empty transaction store publishing to the
// given bus.
func NewTransactionStore(gw gateway.Gateway, bus *events.Bus, accounts AccountDirectory, categories CategoryResolver, log zerolog.Logger, timeout time.Duration) *TransactionStore {
	return &TransactionStore{
		gw:         gw,
		bus:        bus,
		accounts:   accounts,
		categories: categories,
		log:        log.With().Str("store", "transactions").Logger(),
		timeout:    timeout,
		inflight:   newInflightSet(),
	}
}

// BindRefresh subscribes the account and budget stores to transaction
// mutations. Both refreshes run concurrently on every publish; the
// publisher waits for both.
func BindRefresh(bus *events.Bus, accounts *AccountStore, budgets *BudgetStore) {
	bus.Subscribe("accounts", func(ctx context.Context, event events.Event) error {
		if event.Kind != events.TransactionsChanged {
			return nil
		}
		return accounts.Refresh(ctx)
	})
	bus.Subscribe("budget", func(ctx context.Context, event events.Event) error {
		if event.Kind != events.TransactionsChanged {
			return nil
		}
		return budgets.Refresh(ctx)
	})
}

// TransactionData holds all values needed to add a transaction.
type TransactionData struct {
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Date        time.Time
	AccountID   string
	GroupID     string
	CategoryID  string
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *models.TransactionType
	Date        *time.Time
	AccountID   *string
	GroupID     *string
	CategoryID  *string
}

// transactionCommand is the closed set of state changes the store can
// apply.
type transactionCommand interface{ isTransactionCommand() }

type transactionsReplaced struct{ transactions []models.Transaction }
type transactionUpserted struct{ transaction models.Transaction }
type transactionRemoved struct{ id string }

func (transactionsReplaced) isTransactionCommand() {}
func (transactionUpserted) isTransactionCommand()  {}
func (transactionRemoved) isTransactionCommand()   {}

// apply is the store's reducer and the only place local state changes. The
// list is kept ordered by date descending, matching the gateway's order.
func (s *TransactionStore) apply(cmd transactionCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c := cmd.(type) {
	case transactionsReplaced:
		s.transactions = c.transactions
	case transactionUpserted:
		s.transactions = slices.DeleteFunc(s.transactions, func(transaction models.Transaction) bool {
			return transaction.ID == c.transaction.ID
		})
		at := len(s.transactions)
		for i, transaction := range s.transactions {
			if transaction.Date.Before(c.transaction.Date) {
				at = i
				break
			}
		}
		s.transactions = slices.Insert(s.transactions, at, c.transaction)
	case transactionRemoved:
		s.transactions = slices.DeleteFunc(s.transactions, func(transaction models.Transaction) bool {
			return transaction.ID == c.id
		})
	}
}

// Snapshot returns a copy of the current transaction list, most recent
// first.
func (s *TransactionStore) Snapshot() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.transactions)
}

// get returns the local record with the given identifier.
func (s *TransactionStore) get(id string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, transaction := range s.transactions {
		if transaction.ID == id {
			return transaction, true
		}
	}

	return models.Transaction{}, false
}

// Load fetches all transactions and replaces local state wholesale.
func (s *TransactionStore) Load(ctx context.Context) error {
	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	rows, err := s.gw.Transactions(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNoSession) {
			s.log.Warn().Msg("load skipped, no active session")
			return ErrNoActiveSession
		}

		return fmt.Errorf("loading transactions: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, models.Transaction{
			ID:            row.ID,
			Description:   row.Description,
			Amount:        row.Amount,
			Type:          models.TransactionType(row.Type),
			CategoryLabel: row.CategoryLabel,
			Date:          row.Date,
			AccountID:     row.AccountID,
			GroupID:       row.GroupID,
			CategoryID:    row.CategoryID,
		})
	}

	s.apply(transactionsReplaced{transactions: transactions})
	return nil
}

// Add creates a transaction. Steps, in order: remote create, local append,
// then the mandatory dual refresh via the bus. If the remote create fails
// there is no local mutation and no refresh. If the create succeeds but a
// refresh fails, the commit stands and ErrPartialCascade is returned.
func (s *TransactionStore) Add(ctx context.Context, data TransactionData) (transaction models.Transaction, err error) {
	defer func() { observe("transactions", "add", err) }()

	if !data.Type.Valid() {
		err = fmt.Errorf("%w: transaction type %q", ErrInvalidInput, data.Type)
		return
	}
	if !data.Amount.IsPositive() {
		err = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		return
	}
	if s.accounts.Empty() {
		if s.noSession(ctx) {
			err = ErrNoActiveSession
			return
		}
		err = fmt.Errorf("%w: no accounts exist", ErrInvalidReference)
		return
	}
	if !s.accounts.Exists(data.AccountID) {
		err = fmt.Errorf("%w: account %s", ErrInvalidReference, data.AccountID)
		return
	}

	// The category label is snapshotted from the live budget state now;
	// later renames do not rewrite it.
	var label string
	if data.CategoryID != "" {
		name, ok := s.categories.CategoryName(data.GroupID, data.CategoryID)
		if !ok {
			err = fmt.Errorf("%w: budget category %s", ErrInvalidReference, data.CategoryID)
			return
		}
		label = name
	}

	key := "add:" + data.AccountID + ":" + data.Description + ":" + data.Amount.String()
	if !s.inflight.begin(key) {
		err = ErrMutationInFlight
		return
	}
	defer s.inflight.end(key)

	cctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	id, gerr := s.gw.CreateTransaction(cctx, gateway.TransactionCreate{
		Description:   data.Description,
		Amount:        data.Amount,
		Type:          string(data.Type),
		CategoryLabel: label,
		Date:          data.Date,
		AccountID:     data.AccountID,
		GroupID:       data.GroupID,
		CategoryID:    data.CategoryID,
	})
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("accountId", data.AccountID).Msg("transaction create rejected")
		return
	}

	transaction = models.Transaction{
		ID:            id,
		Description:   data.Description,
		Amount:        data.Amount,
		Type:          data.Type,
		CategoryLabel: label,
		Date:          data.Date,
		AccountID:     data.AccountID,
		GroupID:       data.GroupID,
		CategoryID:    data.CategoryID,
	}

	s.apply(transactionUpserted{transaction: transaction})

	err = s.cascade(ctx, id)
	return transaction, err
}

// Edit updates only the supplied fields. The same dual refresh as Add runs
// afterwards; when amount, type, account or category change, the refresh is
// what corrects the affected balances and spend.
func (s *TransactionStore) Edit(ctx context.Context, id string, patch TransactionPatch) (err error) {
	defer func() { observe("transactions", "edit", err) }()

	current, ok := s.get(id)
	if !ok {
		if s.noSession(ctx) {
			return ErrNoActiveSession
		}
		return fmt.Errorf("%w: transaction %s", ErrInvalidReference, id)
	}

	if patch.Type != nil && !patch.Type.Valid() {
		return fmt.Errorf("%w: transaction type %q", ErrInvalidInput, *patch.Type)
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if patch.AccountID != nil && !s.accounts.Exists(*patch.AccountID) {
		return fmt.Errorf("%w: account %s", ErrInvalidReference, *patch.AccountID)
	}

	update := gateway.TransactionUpdate{
		Description: patch.Description,
		Amount:      patch.Amount,
		Date:        patch.Date,
		AccountID:   patch.AccountID,
		GroupID:     patch.GroupID,
		CategoryID:  patch.CategoryID,
	}
	if patch.Type != nil {
		kind := string(*patch.Type)
		update.Type = &kind
	}

	// Changing the category re-snapshots the label; clearing it clears the
	// label too.
	var label *string
	if patch.CategoryID != nil {
		groupID := current.GroupID
		if patch.GroupID != nil {
			groupID = *patch.GroupID
		}

		switch *patch.CategoryID {
		case "":
			empty := ""
			label = &empty
		default:
			name, ok := s.categories.CategoryName(groupID, *patch.CategoryID)
			if !ok {
				return fmt.Errorf("%w: budget category %s", ErrInvalidReference, *patch.CategoryID)
			}
			label = &name
		}
		update.CategoryLabel = label
	}

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	cctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.UpdateTransaction(cctx, id, update); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("transaction update rejected")
		return
	}

	merged := current
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.AccountID != nil {
		merged.AccountID = *patch.AccountID
	}
	if patch.GroupID != nil {
		merged.GroupID = *patch.GroupID
	}
	if patch.CategoryID != nil {
		merged.CategoryID = *patch.CategoryID
	}
	if label != nil {
		merged.CategoryLabel = *label
	}

	s.apply(transactionUpserted{transaction: merged})

	err = s.cascade(ctx, id)
	return err
}

// Delete removes a transaction and runs the dual refresh, because the
// removed transaction no longer contributes to balance and spend.
func (s *TransactionStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("transactions", "delete", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	cctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.DeleteTransaction(cctx, id); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("transaction delete rejected")
		return
	}

	s.apply(transactionRemoved{id: id})

	err = s.cascade(ctx, id)
	return err
}

// noSession reports whether the gateway has no authenticated user. The
// local reference checks run against snapshots that are empty without a
// session, so the session failure must take precedence over
// InvalidReference.
func (s *TransactionStore) noSession(ctx context.Context) bool {
	_, err := s.gw.CurrentUser(ctx)
	return errors.Is(err, gateway.ErrNoSession)
}

// cascade publishes the mutation and waits for all subscribed refreshes.
// It runs only after the local commit, so an observer sees the mutated
// transaction list strictly before or concurrently with the corrected
// aggregates, never after.
func (s *TransactionStore) cascade(ctx context.Context, id string) error {
	err := s.bus.Publish(ctx, events.Event{Kind: events.TransactionsChanged, ID: id})
	if err != nil {
		metrics.CascadeFailures.WithLabelValues("transactions").Inc()
		s.log.Error().Err(err).Str("id", id).Msg("dependent refresh failed, aggregates may be stale")
		return fmt.Errorf("%w: %v", ErrPartialCascade, err)
	}

	return nil
}
