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
	"golang.org/x/exp/slices"
)

// SubscriptionStore owns the recurring charges. Like goals, subscriptions
// do not participate in the transaction cascade.
type SubscriptionStore struct {
	gw       gateway.Gateway
	accounts AccountDirectory
	log      zerolog.Logger
	timeout  time.Duration
	inflight *inflightSet

	mu            sync.RWMutex
	subscriptions []models.Subscription
}

// NewSubscriptionStore returns an empty subscription store.
func NewSubscriptionStore(gw gateway.Gateway, accounts AccountDirectory, log zerolog.Logger, timeout time.Duration) *SubscriptionStore {
	return &SubscriptionStore{
		gw:       gw,
		accounts: accounts,
		log:      log.With().Str("store", "subscriptions").Logger(),
		timeout:  timeout,
		inflight: newInflightSet(),
	}
}

// Snapshot returns a copy of the current subscription list.
func (s *SubscriptionStore) Snapshot() []models.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.subscriptions)
}

// Load fetches all subscriptions and replaces local state wholesale.
func (s *SubscriptionStore) Load(ctx context.Context) error {
	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	rows, err := s.gw.Subscriptions(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNoSession) {
			s.log.Warn().Msg("load skipped, no active session")
			return ErrNoActiveSession
		}

		return fmt.Errorf("loading subscriptions: %w", err)
	}

	subscriptions := make([]models.Subscription, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, models.Subscription{
			ID:         row.ID,
			Name:       row.Name,
			Amount:     row.Amount,
			BillingDay: row.BillingDay,
			AccountID:  row.AccountID,
			Active:     row.Active,
		})
	}

	s.mu.Lock()
	s.subscriptions = subscriptions
	s.mu.Unlock()

	return nil
}

// Add creates a subscription. The billed account must exist in the account
// store when one is referenced.
func (s *SubscriptionStore) Add(ctx context.Context, sub models.Subscription) (created models.Subscription, err error) {
	defer func() { observe("subscriptions", "add", err) }()

	if !sub.Amount.IsPositive() {
		err = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		return
	}
	if sub.BillingDay < 1 || sub.BillingDay > 31 {
		err = fmt.Errorf("%w: billing day %d", ErrInvalidInput, sub.BillingDay)
		return
	}
	if sub.AccountID != "" && !s.accounts.Exists(sub.AccountID) {
		err = fmt.Errorf("%w: account %s", ErrInvalidReference, sub.AccountID)
		return
	}

	key := "add:" + sub.Name
	if !s.inflight.begin(key) {
		err = ErrMutationInFlight
		return
	}
	defer s.inflight.end(key)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	id, gerr := s.gw.CreateSubscription(ctx, gateway.Subscription{
		Name:       sub.Name,
		Amount:     sub.Amount,
		BillingDay: sub.BillingDay,
		AccountID:  sub.AccountID,
		Active:     sub.Active,
	})
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("name", sub.Name).Msg("subscription create rejected")
		return
	}

	created = sub
	created.ID = id

	s.mu.Lock()
	s.subscriptions = append(s.subscriptions, created)
	s.mu.Unlock()

	return created, nil
}

// Edit overwrites a subscription's fields.
func (s *SubscriptionStore) Edit(ctx context.Context, id string, sub models.Subscription) (err error) {
	defer func() { observe("subscriptions", "edit", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	gerr := s.gw.UpdateSubscription(ctx, id, gateway.Subscription{
		Name:       sub.Name,
		Amount:     sub.Amount,
		BillingDay: sub.BillingDay,
		AccountID:  sub.AccountID,
		Active:     sub.Active,
	})
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("subscription update rejected")
		return
	}

	s.mu.Lock()
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == id {
			sub.ID = id
			s.subscriptions[i] = sub
		}
	}
	s.mu.Unlock()

	return nil
}

// Delete removes a subscription.
func (s *SubscriptionStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("subscriptions", "delete", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.DeleteSubscription(ctx, id); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("subscription delete rejected")
		return
	}

	s.mu.Lock()
	s.subscriptions = slices.DeleteFunc(s.subscriptions, func(sub models.Subscription) bool { return sub.ID == id })
	s.mu.Unlock()

	return nil
}
