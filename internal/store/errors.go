package store

import (
	"errors"
	"fmt"

	"github.com/GreekTheDev/mybudget/internal/gateway"
)

var (
	// ErrNoActiveSession is returned when no user is authenticated at call
	// time. The operation is a no-op.
	ErrNoActiveSession = errors.New("no active session")

	// ErrRemoteWriteFailed is returned when the gateway rejected a create,
	// update or delete. Local state is left unchanged.
	ErrRemoteWriteFailed = errors.New("remote write failed")

	// ErrInvalidReference is returned when a mutation references a record
	// that does not exist, e.g. a category added to an unknown group.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidInput is returned when a mutation violates a record
	// invariant, e.g. a non-positive transaction amount.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMutationInFlight is returned when the same entity already has a
	// mutation in flight. The duplicate submission is a no-op.
	ErrMutationInFlight = errors.New("mutation already in flight")

	// ErrPartialCascade is returned when a transaction mutation was
	// committed but one of the dependent store refreshes failed. The
	// transaction state is valid; the other store may be stale until its
	// next successful refresh.
	ErrPartialCascade = errors.New("dependent refresh failed after commit")
)

// remoteErr translates a gateway failure into the store error taxonomy.
func remoteErr(err error) error {
	switch {
	case errors.Is(err, gateway.ErrNoSession):
		return ErrNoActiveSession
	case errors.Is(err, gateway.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	default:
		return fmt.Errorf("%w: %v", ErrRemoteWriteFailed, err)
	}
}

// result maps an error to the label used on the mutation counter.
func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoActiveSession):
		return "no_session"
	case errors.Is(err, ErrMutationInFlight):
		return "in_flight"
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrPartialCascade):
		return "partial_cascade"
	default:
		return "remote_failed"
	}
}
