package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// AccountStore owns the in-memory list of accounts and their balances.
//
// Balances are authoritative only from the gateway: after any
// transaction-affecting mutation the store re-pulls them instead of
// recomputing locally.
type AccountStore struct {
	gw       gateway.Gateway
	log      zerolog.Logger
	timeout  time.Duration
	inflight *inflightSet

	mu       sync.RWMutex
	accounts []models.Account
}

// NewAccountStore returns an empty account store. A timeout of zero uses
// the default gateway call timeout.
func NewAccountStore(gw gateway.Gateway, log zerolog.Logger, timeout time.Duration) *AccountStore {
	return &AccountStore{
		gw:       gw,
		log:      log.With().Str("store", "accounts").Logger(),
		timeout:  timeout,
		inflight: newInflightSet(),
	}
}

// accountCommand is the closed set of state changes the store can apply.
type accountCommand interface{ isAccountCommand() }

type accountsReplaced struct{ accounts []models.Account }
type accountAdded struct{ account models.Account }
type accountEdited struct {
	id   string
	name string
	kind models.AccountType
}
type accountBalanceSet struct {
	id      string
	balance decimal.Decimal
}
type accountRemoved struct{ id string }

func (accountsReplaced) isAccountCommand()  {}
func (accountAdded) isAccountCommand()      {}
func (accountEdited) isAccountCommand()     {}
func (accountBalanceSet) isAccountCommand() {}
func (accountRemoved) isAccountCommand()    {}

// apply is the store's reducer and the only place local state changes.
func (s *AccountStore) apply(cmd accountCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c := cmd.(type) {
	case accountsReplaced:
		s.accounts = c.accounts
	case accountAdded:
		s.accounts = append(s.accounts, c.account)
	case accountEdited:
		for i := range s.accounts {
			if s.accounts[i].ID == c.id {
				s.accounts[i].Name = c.name
				s.accounts[i].Type = c.kind
				s.accounts[i].Color = c.kind.Color()
			}
		}
	case accountBalanceSet:
		for i := range s.accounts {
			if s.accounts[i].ID == c.id {
				s.accounts[i].Balance = c.balance
			}
		}
	case accountRemoved:
		s.accounts = slices.DeleteFunc(s.accounts, func(account models.Account) bool {
			return account.ID == c.id
		})
	}
}

// Snapshot returns a copy of the current account list.
func (s *AccountStore) Snapshot() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.accounts)
}

// Empty reports whether the store holds no accounts.
func (s *AccountStore) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.accounts) == 0
}

// Exists reports whether an account with the given identifier is present.
func (s *AccountStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.accounts, func(account models.Account) bool {
		return account.ID == id
	})
}

// Load fetches all accounts from the gateway and replaces local state
// wholesale. It is idempotent with respect to the then-current server
// state.
func (s *AccountStore) Load(ctx context.Context) error {
	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	rows, err := s.gw.Accounts(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNoSession) {
			s.log.Warn().Msg("load skipped, no active session")
			return ErrNoActiveSession
		}

		return fmt.Errorf("loading accounts: %w", err)
	}

	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		kind, err := models.AccountTypeFromName(row.TypeName)
		if err != nil {
			s.log.Warn().Str("typeName", row.TypeName).Str("id", row.ID).Msg("unknown account type, using fallback")
		}

		accounts = append(accounts, models.Account{
			ID:      row.ID,
			Name:    row.Name,
			Type:    kind,
			Balance: row.Balance,
			Color:   kind.Color(),
		})
	}

	s.apply(accountsReplaced{accounts: accounts})
	return nil
}

// Refresh re-pulls the account list. Subscribed to transaction mutations.
func (s *AccountStore) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// Add creates an account at the gateway and appends it to local state with
// the gateway-assigned identifier. The supplied balance is echoed; the
// gateway owns it from here on.
func (s *AccountStore) Add(ctx context.Context, name string, kind models.AccountType, initialBalance decimal.Decimal) (account models.Account, err error) {
	defer func() { observe("accounts", "add", err) }()

	key := "add:" + name
	if !s.inflight.begin(key) {
		err = ErrMutationInFlight
		return
	}
	defer s.inflight.end(key)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	id, gerr := s.gw.CreateAccount(ctx, name, kind.GatewayName(), initialBalance)
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("name", name).Msg("account create rejected")
		return
	}

	account = models.Account{
		ID:      id,
		Name:    name,
		Type:    kind,
		Balance: initialBalance,
		Color:   kind.Color(),
	}

	s.apply(accountAdded{account: account})
	return account, nil
}

// Edit updates an account's name and type. The balance is untouched.
func (s *AccountStore) Edit(ctx context.Context, id, name string, kind models.AccountType) (err error) {
	defer func() { observe("accounts", "edit", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.UpdateAccount(ctx, id, name, kind.GatewayName()); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("account update rejected")
		return
	}

	s.apply(accountEdited{id: id, name: name, kind: kind})
	return nil
}

// UpdateBalance overwrites an account's balance at the gateway without
// recording a transaction, then mirrors the value locally.
func (s *AccountStore) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) (err error) {
	defer func() { observe("accounts", "update_balance", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.UpdateAccountBalance(ctx, id, balance); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("balance update rejected")
		return
	}

	s.apply(accountBalanceSet{id: id, balance: balance})
	return nil
}

// Delete removes an account. The gateway cascades the delete to the
// account's transactions; the deletion is unconditional once authorized.
func (s *AccountStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("accounts", "delete", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.DeleteAccount(ctx, id); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("account delete rejected")
		return
	}

	s.apply(accountRemoved{id: id})
	return nil
}
