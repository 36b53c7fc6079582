package squad

import (
	"testing"

	planner "github.com/samclaus/squadplanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlanDefaults(t *testing.T) {
	p := NewPlan(0)
	assert.Equal(t, DefaultBudget, p.Budget)
	assert.Equal(t, DefaultBudget, p.Remaining())
	assert.Empty(t, p.Targets(planner.RoleForward))
}

func TestAddAndRemoveTargets(t *testing.T) {
	p := NewPlan(300)

	require.NoError(t, p.AddTarget(planner.RoleForward, Target{Name: "Lautaro", Team: "Inter", Price: 120}))
	require.NoError(t, p.AddTarget(planner.RoleForward, Target{Name: " Kean ", Price: 60}))
	require.NoError(t, p.AddTarget(planner.RoleGoalkeeper, Target{Name: "Sommer", Price: 15}))

	err := p.AddTarget(planner.RoleForward, Target{Name: "lautaro", Price: 1})
	assert.ErrorIs(t, err, ErrDuplicateTarget)

	// The same player may be targeted for another role.
	require.NoError(t, p.AddTarget(planner.RoleMidfielder, Target{Name: "Lautaro", Price: 1}))

	assert.ErrorIs(t, p.AddTarget(planner.RoleForward, Target{Name: "X", Price: -1}), ErrInvalidPrice)
	assert.ErrorIs(t, p.AddTarget(planner.Role('Q'), Target{Name: "X"}), planner.ErrUnknownRole)
	assert.Error(t, p.AddTarget(planner.RoleForward, Target{Name: "  "}))

	assert.Equal(t, []Target{
		{Name: "Lautaro", Team: "Inter", Price: 120},
		{Name: "Kean", Price: 60},
	}, p.Targets(planner.RoleForward))
	assert.Equal(t, 180, p.Spent(planner.RoleForward))
	assert.Equal(t, 196, p.TotalSpent())
	assert.Equal(t, 104, p.Remaining())

	assert.True(t, p.RemoveTarget(planner.RoleForward, "LAUTARO"))
	assert.False(t, p.RemoveTarget(planner.RoleForward, "Lautaro"))
	assert.Equal(t, []Target{{Name: "Kean", Price: 60}}, p.Targets(planner.RoleForward))
}

func TestTargetsReturnsCopy(t *testing.T) {
	p := NewPlan(0)
	require.NoError(t, p.AddTarget(planner.RoleDefender, Target{Name: "Bastoni", Price: 20}))

	ts := p.Targets(planner.RoleDefender)
	ts[0].Price = 999
	assert.Equal(t, 20, p.Spent(planner.RoleDefender))
}

func TestOverBudgetIsAllowed(t *testing.T) {
	p := NewPlan(100)
	require.NoError(t, p.AddTarget(planner.RoleForward, Target{Name: "Vlahovic", Price: 150}))
	assert.Equal(t, -50, p.Remaining())
}

func TestSetBudget(t *testing.T) {
	p := NewPlan(500)
	require.NoError(t, p.AddTarget(planner.RoleMidfielder, Target{Name: "Barella", Price: 40}))

	require.NoError(t, p.SetBudget(40))
	assert.Equal(t, 40, p.Budget)

	assert.ErrorIs(t, p.SetBudget(39), ErrBudgetBelowSpent)
	assert.ErrorIs(t, p.SetBudget(-1), ErrInvalidPrice)
	assert.Equal(t, 40, p.Budget)
}

func TestSummary(t *testing.T) {
	p := NewPlan(500)
	for _, name := range []string{"Sommer", "Di Gregorio", "Meret", "Maignan"} {
		require.NoError(t, p.AddTarget(planner.RoleGoalkeeper, Target{Name: name, Price: 10}))
	}
	require.NoError(t, p.AddTarget(planner.RoleForward, Target{Name: "Kean", Price: 60}))

	assert.Equal(t, Budget{
		Role:        planner.RoleGoalkeeper,
		Total:       500,
		Spent:       100,
		Remaining:   400,
		RoleSpent:   40,
		RoleTargets: 4,
		RoleQuota:   3,
		OpenSlots:   0,
	}, p.Summary(planner.RoleGoalkeeper))

	s := p.Summary(planner.RoleDefender)
	assert.Equal(t, 8, s.OpenSlots)
	assert.Equal(t, 0, s.RoleSpent)
}
