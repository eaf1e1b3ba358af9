package store_test

import (
	"context"
	"testing"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/GreekTheDev/mybudget/internal/store"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoalAdd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	goal, err := f.goals.Add(ctx, "Vacation", decimal.NewFromInt(2000), types.NewMonth(2027, 7))
	assert.Nil(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.True(t, goal.Saved.IsZero(), "a new goal starts with nothing saved")

	assert.Nil(t, f.goals.Load(ctx))
	goals := f.goals.Snapshot()
	assert.Len(t, goals, 1)
	assert.Equal(t, "Vacation", goals[0].Name)
}

func TestGoalAddRequiresPositiveTarget(t *testing.T) {
	f := newFixture()

	_, err := f.goals.Add(context.Background(), "Nothing", decimal.Zero, types.Month{})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestGoalEdit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	goal, err := f.goals.Add(ctx, "Vacation", decimal.NewFromInt(2000), types.NewMonth(2027, 7))
	assert.Nil(t, err)

	assert.Nil(t, f.goals.Edit(ctx, goal.ID, models.Goal{
		Name:     "Vacation",
		Target:   decimal.NewFromInt(2500),
		Saved:    decimal.NewFromInt(300),
		Deadline: types.NewMonth(2027, 9),
	}))

	goals := f.goals.Snapshot()
	assert.Len(t, goals, 1)
	assert.True(t, goals[0].Target.Equal(decimal.NewFromInt(2500)))
	assert.True(t, goals[0].Saved.Equal(decimal.NewFromInt(300)))
}

func TestGoalEditUnknownID(t *testing.T) {
	f := newFixture()

	err := f.goals.Edit(context.Background(), "nope", models.Goal{Name: "x", Target: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, store.ErrInvalidReference)
}

func TestGoalDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	goal, err := f.goals.Add(ctx, "Vacation", decimal.NewFromInt(2000), types.Month{})
	assert.Nil(t, err)

	assert.Nil(t, f.goals.Delete(ctx, goal.ID))
	assert.Empty(t, f.goals.Snapshot())
}
