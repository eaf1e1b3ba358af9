package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GreekTheDev/mybudget/internal/gateway"
	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// GoalStore owns the savings goals. Goals do not participate in the
// transaction cascade; their saved amounts are written explicitly.
type GoalStore struct {
	gw       gateway.Gateway
	log      zerolog.Logger
	timeout  time.Duration
	inflight *inflightSet

	mu    sync.RWMutex
	goals []models.Goal
}

// NewGoalStore returns an empty goal store.
func NewGoalStore(gw gateway.Gateway, log zerolog.Logger, timeout time.Duration) *GoalStore {
	return &GoalStore{
		gw:       gw,
		log:      log.With().Str("store", "goals").Logger(),
		timeout:  timeout,
		inflight: newInflightSet(),
	}
}

// Snapshot returns a copy of the current goal list.
func (s *GoalStore) Snapshot() []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.goals)
}

// Load fetches all goals and replaces local state wholesale.
func (s *GoalStore) Load(ctx context.Context) error {
	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	rows, err := s.gw.Goals(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNoSession) {
			s.log.Warn().Msg("load skipped, no active session")
			return ErrNoActiveSession
		}

		return fmt.Errorf("loading goals: %w", err)
	}

	goals := make([]models.Goal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, models.Goal{
			ID:       row.ID,
			Name:     row.Name,
			Target:   row.Target,
			Saved:    row.Saved,
			Deadline: row.Deadline,
		})
	}

	s.mu.Lock()
	s.goals = goals
	s.mu.Unlock()

	return nil
}

// Add creates a goal with nothing saved yet.
func (s *GoalStore) Add(ctx context.Context, name string, target decimal.Decimal, deadline types.Month) (goal models.Goal, err error) {
	defer func() { observe("goals", "add", err) }()

	if !target.IsPositive() {
		err = fmt.Errorf("%w: target must be positive", ErrInvalidInput)
		return
	}

	key := "add:" + name
	if !s.inflight.begin(key) {
		err = ErrMutationInFlight
		return
	}
	defer s.inflight.end(key)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	id, gerr := s.gw.CreateGoal(ctx, name, target, deadline)
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("name", name).Msg("goal create rejected")
		return
	}

	goal = models.Goal{ID: id, Name: name, Target: target, Saved: decimal.Zero, Deadline: deadline}

	s.mu.Lock()
	s.goals = append(s.goals, goal)
	s.mu.Unlock()

	return goal, nil
}

// Edit overwrites a goal's fields.
func (s *GoalStore) Edit(ctx context.Context, id string, goal models.Goal) (err error) {
	defer func() { observe("goals", "edit", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	gerr := s.gw.UpdateGoal(ctx, id, gateway.Goal{
		Name:     goal.Name,
		Target:   goal.Target,
		Saved:    goal.Saved,
		Deadline: goal.Deadline,
	})
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("goal update rejected")
		return
	}

	s.mu.Lock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			goal.ID = id
			s.goals[i] = goal
		}
	}
	s.mu.Unlock()

	return nil
}

// Delete removes a goal.
func (s *GoalStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("goals", "delete", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.DeleteGoal(ctx, id); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("goal delete rejected")
		return
	}

	s.mu.Lock()
	s.goals = slices.DeleteFunc(s.goals, func(goal models.Goal) bool { return goal.ID == id })
	s.mu.Unlock()

	return nil
}
