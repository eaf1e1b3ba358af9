// Package store implements the client-side state containers that mirror the
// gateway's records.
//
// Each store exclusively owns its in-memory collection and is its sole
// mutator. Cross-store consistency is achieved only through the
// refresh-on-mutation protocol: the transaction store publishes an event
// after every successful local commit and the account and budget stores
// re-pull their state from the gateway, because balances and category spend
// are server-computed and never derived locally.
package store

import (
	"context"
	"time"

	"github.com/GreekTheDev/mybudget/internal/metrics"
)

// defaultTimeout bounds gateway calls when no timeout is configured.
const defaultTimeout = 10 * time.Second

// callCtx bounds a single gateway call. Hitting the deadline surfaces as a
// remote failure, never as silent success.
func callCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// observe records the outcome of a mutation.
func observe(store, operation string, err error) {
	metrics.Mutations.WithLabelValues(store, operation, result(err)).Inc()
}
