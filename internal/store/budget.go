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

// BudgetStore owns the budget groups and their categories.
//
// A category's spent amount is strictly server-computed. The store never
// accumulates it from the local transaction list, so there is no drift
// between two independently summed totals.
type BudgetStore struct {
	gw       gateway.Gateway
	log      zerolog.Logger
	timeout  time.Duration
	inflight *inflightSet

	mu     sync.RWMutex
	groups []models.BudgetGroup
}

// NewBudgetStore returns an empty budget store.
func NewBudgetStore(gw gateway.Gateway, log zerolog.Logger, timeout time.Duration) *BudgetStore {
	return &BudgetStore{
		gw:       gw,
		log:      log.With().Str("store", "budget").Logger(),
		timeout:  timeout,
		inflight: newInflightSet(),
	}
}

// budgetCommand is the closed set of state changes the store can apply.
type budgetCommand interface{ isBudgetCommand() }

type budgetsReplaced struct{ groups []models.BudgetGroup }
type groupAdded struct{ group models.BudgetGroup }
type groupRenamed struct{ id, name string }
type groupRemoved struct{ id string }
type categoryAdded struct {
	groupID  string
	category models.BudgetCategory
}
type categoryEdited struct {
	groupID string
	id      string
	name    string
	limit   decimal.Decimal
}
type categoryRemoved struct {
	groupID string
	id      string
}

func (budgetsReplaced) isBudgetCommand() {}
func (groupAdded) isBudgetCommand()      {}
func (groupRenamed) isBudgetCommand()    {}
func (groupRemoved) isBudgetCommand()    {}
func (categoryAdded) isBudgetCommand()   {}
func (categoryEdited) isBudgetCommand()  {}
func (categoryRemoved) isBudgetCommand() {}

// apply is the store's reducer and the only place local state changes.
func (s *BudgetStore) apply(cmd budgetCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c := cmd.(type) {
	case budgetsReplaced:
		s.groups = c.groups
	case groupAdded:
		s.groups = append(s.groups, c.group)
	case groupRenamed:
		for i := range s.groups {
			if s.groups[i].ID == c.id {
				s.groups[i].Name = c.name
			}
		}
	case groupRemoved:
		s.groups = slices.DeleteFunc(s.groups, func(group models.BudgetGroup) bool {
			return group.ID == c.id
		})
	case categoryAdded:
		for i := range s.groups {
			if s.groups[i].ID == c.groupID {
				s.groups[i].Categories = append(s.groups[i].Categories, c.category)
			}
		}
	case categoryEdited:
		for i := range s.groups {
			if s.groups[i].ID != c.groupID {
				continue
			}
			for j := range s.groups[i].Categories {
				if s.groups[i].Categories[j].ID == c.id {
					s.groups[i].Categories[j].Name = c.name
					s.groups[i].Categories[j].Limit = c.limit
				}
			}
		}
	case categoryRemoved:
		for i := range s.groups {
			if s.groups[i].ID != c.groupID {
				continue
			}
			s.groups[i].Categories = slices.DeleteFunc(s.groups[i].Categories, func(category models.BudgetCategory) bool {
				return category.ID == c.id
			})
		}
	}
}

// Snapshot returns a deep copy of the current budget groups.
func (s *BudgetStore) Snapshot() []models.BudgetGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.BudgetGroup, len(s.groups))
	for i, group := range s.groups {
		groups[i] = group
		groups[i].Categories = slices.Clone(group.Categories)
	}

	return groups
}

// CategoryName resolves the display name of a category by its (group,
// category) pair. Used to snapshot the label onto a transaction at
// creation time.
func (s *BudgetStore) CategoryName(groupID, categoryID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, group := range s.groups {
		if group.ID != groupID {
			continue
		}
		for _, category := range group.Categories {
			if category.ID == categoryID {
				return category.Name, true
			}
		}
	}

	return "", false
}

// groupExists reports whether a group is present locally.
func (s *BudgetStore) groupExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.groups, func(group models.BudgetGroup) bool {
		return group.ID == id
	})
}

// Load fetches all groups with nested categories and replaces local state
// wholesale.
func (s *BudgetStore) Load(ctx context.Context) error {
	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	rows, err := s.gw.BudgetGroups(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNoSession) {
			s.log.Warn().Msg("load skipped, no active session")
			return ErrNoActiveSession
		}

		return fmt.Errorf("loading budget groups: %w", err)
	}

	groups := make([]models.BudgetGroup, 0, len(rows))
	for _, row := range rows {
		group := models.BudgetGroup{
			ID:         row.ID,
			Name:       row.Name,
			Categories: make([]models.BudgetCategory, 0, len(row.Categories)),
		}

		for _, category := range row.Categories {
			group.Categories = append(group.Categories, models.BudgetCategory{
				ID:    category.ID,
				Name:  category.Name,
				Limit: category.Limit,
				Spent: category.Spent,
				Color: category.Color,
			})
		}

		groups = append(groups, group)
	}

	s.apply(budgetsReplaced{groups: groups})
	return nil
}

// Refresh re-pulls the budget state. Subscribed to transaction mutations,
// since transaction amounts change category spend.
func (s *BudgetStore) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// AddGroup creates a group at the gateway and appends it locally with an
// empty category collection.
func (s *BudgetStore) AddGroup(ctx context.Context, name string) (group models.BudgetGroup, err error) {
	defer func() { observe("budget", "add_group", err) }()

	key := "add-group:" + name
	if !s.inflight.begin(key) {
		err = ErrMutationInFlight
		return
	}
	defer s.inflight.end(key)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	id, gerr := s.gw.CreateBudgetGroup(ctx, name)
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("name", name).Msg("budget group create rejected")
		return
	}

	group = models.BudgetGroup{ID: id, Name: name, Categories: []models.BudgetCategory{}}
	s.apply(groupAdded{group: group})
	return group, nil
}

// EditGroup renames a group.
func (s *BudgetStore) EditGroup(ctx context.Context, id, name string) (err error) {
	defer func() { observe("budget", "edit_group", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.UpdateBudgetGroup(ctx, id, name); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("budget group update rejected")
		return
	}

	s.apply(groupRenamed{id: id, name: name})
	return nil
}

// DeleteGroup removes a group. The gateway cascades the delete to the
// group's categories; locally, exactly the categories nested under the
// group disappear with it.
func (s *BudgetStore) DeleteGroup(ctx context.Context, id string) (err error) {
	defer func() { observe("budget", "delete_group", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.DeleteBudgetGroup(ctx, id); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("id", id).Msg("budget group delete rejected")
		return
	}

	s.apply(groupRemoved{id: id})
	return nil
}

// AddCategory creates a category in the given group with spent initialized
// to zero and the color assigned by the gateway.
func (s *BudgetStore) AddCategory(ctx context.Context, groupID, name string, limit decimal.Decimal) (category models.BudgetCategory, err error) {
	defer func() { observe("budget", "add_category", err) }()

	if !s.groupExists(groupID) {
		err = fmt.Errorf("%w: budget group %s", ErrInvalidReference, groupID)
		return
	}

	key := "add-category:" + groupID + ":" + name
	if !s.inflight.begin(key) {
		err = ErrMutationInFlight
		return
	}
	defer s.inflight.end(key)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	row, gerr := s.gw.CreateBudgetCategory(ctx, groupID, name, limit)
	if gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("groupId", groupID).Str("name", name).Msg("budget category create rejected")
		return
	}

	category = models.BudgetCategory{
		ID:    row.ID,
		Name:  row.Name,
		Limit: row.Limit,
		Spent: decimal.Zero,
		Color: row.Color,
	}

	s.apply(categoryAdded{groupID: groupID, category: category})
	return category, nil
}

// EditCategory updates a category's name and planned limit in place. Spent
// and color are untouched.
func (s *BudgetStore) EditCategory(ctx context.Context, groupID, id, name string, limit decimal.Decimal) (err error) {
	defer func() { observe("budget", "edit_category", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.UpdateBudgetCategory(ctx, groupID, id, name, limit); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("groupId", groupID).Str("id", id).Msg("budget category update rejected")
		return
	}

	s.apply(categoryEdited{groupID: groupID, id: id, name: name, limit: limit})
	return nil
}

// DeleteCategory removes a category from its group.
func (s *BudgetStore) DeleteCategory(ctx context.Context, groupID, id string) (err error) {
	defer func() { observe("budget", "delete_category", err) }()

	if !s.inflight.begin(id) {
		return ErrMutationInFlight
	}
	defer s.inflight.end(id)

	ctx, cancel := callCtx(ctx, s.timeout)
	defer cancel()

	if gerr := s.gw.DeleteBudgetCategory(ctx, groupID, id); gerr != nil {
		err = remoteErr(gerr)
		s.log.Error().Err(gerr).Str("groupId", groupID).Str("id", id).Msg("budget category delete rejected")
		return
	}

	s.apply(categoryRemoved{groupID: groupID, id: id})
	return nil
}
