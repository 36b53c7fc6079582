package verify

import (
	"context"
	"errors"
	"testing"

	planner "github.com/samclaus/squadplanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reverseOrder = []planner.Role{
	planner.RoleForward, planner.RoleMidfielder, planner.RoleDefender, planner.RoleGoalkeeper,
}

func TestRunOnFixture(t *testing.T) {
	page, err := NewFixturePage(nil)
	require.NoError(t, err)

	rep, err := New(page, nil).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Report{Clicks: 4, Final: planner.RoleForward}, rep)
}

func TestRunReverseOrder(t *testing.T) {
	page, err := NewFixturePage(nil)
	require.NoError(t, err)

	rep, err := New(page, nil).Run(context.Background(), reverseOrder)
	require.NoError(t, err)
	assert.Equal(t, planner.RoleGoalkeeper, rep.Final)

	active, err := page.ActiveButtons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []planner.Role{planner.RoleGoalkeeper}, active)
}

func TestRunRepeatedClicks(t *testing.T) {
	page, err := NewFixturePage(nil)
	require.NoError(t, err)

	order := []planner.Role{planner.RoleDefender, planner.RoleDefender, planner.RoleMidfielder, planner.RoleForward}
	rep, err := New(page, nil).Run(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Clicks)
	assert.Equal(t, planner.RoleForward, page.Switcher().Active())
}

func TestRunWithRefreshers(t *testing.T) {
	counter := &countingRefresher{}
	page, err := NewFixturePage(nil, counter)
	require.NoError(t, err)

	_, err = New(page, nil).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 16, counter.calls)
}

func TestRunUnknownRole(t *testing.T) {
	page, err := NewFixturePage(nil)
	require.NoError(t, err)

	_, err = New(page, nil).Run(context.Background(), []planner.Role{planner.Role('Z')})
	assert.ErrorIs(t, err, planner.ErrUnknownRole)

	var ae *AssertionError
	assert.False(t, errors.As(err, &ae), "a missing button is not an assertion failure")
}

func TestStaleMarkerIsReported(t *testing.T) {
	page := &fakePage{markers: map[planner.Role]bool{}, keepMarkers: true}

	rep, err := New(page, nil).Run(context.Background(), []planner.Role{planner.RoleGoalkeeper, planner.RoleDefender, planner.RoleMidfielder})

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, planner.RoleDefender, ae.Role)
	assert.Equal(t, CheckButton, ae.Check)
	assert.Equal(t, "button D should be active (active: [P D])", err.Error())
	assert.Equal(t, Report{Clicks: 1, Final: planner.RoleGoalkeeper}, rep)
	assert.Equal(t, 2, page.clicks, "run halts on the first failure")
}

func TestStaleStateIsReported(t *testing.T) {
	page := &fakePage{markers: map[planner.Role]bool{}, frozenState: planner.RoleGoalkeeper}

	_, err := New(page, nil).Run(context.Background(), []planner.Role{planner.RoleGoalkeeper, planner.RoleForward})

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, planner.RoleForward, ae.Role)
	assert.Equal(t, CheckState, ae.Check)
	assert.Equal(t, "activePlannerRole should be A, got P", err.Error())
}

func TestPageErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	page := &fakePage{markers: map[planner.Role]bool{}, rolesErr: boom}

	_, err := New(page, nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

type countingRefresher struct {
	calls int
}

func (c *countingRefresher) Render(planner.Role)         { c.calls++ }
func (c *countingRefresher) Setup(planner.Role)          { c.calls++ }
func (c *countingRefresher) RefreshBudget(planner.Role)  { c.calls++ }
func (c *countingRefresher) RefreshTargets(planner.Role) { c.calls++ }

// fakePage is a deliberately broken role menu.
type fakePage struct {
	markers     map[planner.Role]bool
	state       planner.Role
	clicks      int
	keepMarkers bool         // never clear markers of other buttons
	frozenState planner.Role // state never changes from this value when set
	rolesErr    error
}

func (p *fakePage) Roles(context.Context) ([]planner.Role, error) {
	if p.rolesErr != nil {
		return nil, p.rolesErr
	}
	return planner.Roles[:], nil
}

func (p *fakePage) Click(_ context.Context, r planner.Role) error {
	p.clicks++
	if !p.keepMarkers {
		p.markers = map[planner.Role]bool{}
	}
	p.markers[r] = true
	if p.frozenState != 0 {
		p.state = p.frozenState
	} else {
		p.state = r
	}
	return nil
}

func (p *fakePage) ActiveButtons(context.Context) ([]planner.Role, error) {
	var active []planner.Role
	for _, r := range planner.Roles {
		if p.markers[r] {
			active = append(active, r)
		}
	}
	return active, nil
}

func (p *fakePage) ActiveRole(context.Context) (planner.Role, error) {
	return p.state, nil
}
