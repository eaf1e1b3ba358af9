// Package events implements the notification channel between the stores.
//
// The transaction store publishes an event after every successful local
// commit; the account and budget stores subscribe and refresh themselves.
// This keeps the stores decoupled while preserving the mandatory-refresh
// contract: Publish dispatches to all subscribers concurrently and waits
// for every one of them before returning.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Kind identifies what changed.
type Kind string

// TransactionsChanged is published after any transaction mutation has been
// committed locally.
const TransactionsChanged Kind = "transactions-changed"

// Event carries the kind of change and the identifier of the affected
// record, if any.
type Event struct {
	Kind Kind
	ID   string
}

// Handler reacts to a published event.
type Handler func(ctx context.Context, event Event) error

type subscriber struct {
	name    string
	handler Handler
}

// Bus is a synchronous publish/subscribe channel.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriber
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler under a name. The name identifies the
// subscriber in dispatch errors.
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers = append(b.subscribers, subscriber{name: name, handler: handler})
}

// Publish dispatches the event to all subscribers concurrently and waits
// for all of them. Every subscriber runs to completion even if another one
// fails; the returned error joins all individual failures.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subscribers := make([]subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	var group errgroup.Group
	errs := make([]error, len(subscribers))

	for i, sub := range subscribers {
		i, sub := i, sub
		group.Go(func() error {
			if err := sub.handler(ctx, event); err != nil {
				errs[i] = fmt.Errorf("%s: %w", sub.name, err)
			}
			return nil
		})
	}

	_ = group.Wait()

	return errors.Join(errs...)
}
