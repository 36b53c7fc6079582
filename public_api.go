// Package planner implements the role switcher of the squad planner: a button
// group with one button per squad role, where clicking a button makes its role
// the active one and refreshes every view that depends on it.
package planner

// Refresher is implemented by anything that renders views depending on the
// active role. A Switcher calls the hooks in the order they are declared here,
// once per click, after the active role has been updated. Hooks run on the
// switcher's goroutine and must not call back into the switcher.
type Refresher interface {
	// Render redraws the planner for the newly active role.
	Render(active Role)
	// Setup prepares the planner's inputs (player pool, slots) for the role.
	Setup(active Role)
	// RefreshBudget recomputes the budget summary.
	RefreshBudget(active Role)
	// RefreshTargets redraws the list of target players.
	RefreshTargets(active Role)
}

// NopRefresher does nothing; it stands in for views that are not wired up.
type NopRefresher struct{}

func (NopRefresher) Render(Role)         {}
func (NopRefresher) Setup(Role)          {}
func (NopRefresher) RefreshBudget(Role)  {}
func (NopRefresher) RefreshTargets(Role) {}

// Button is one selectable role in a button group. Whether it is active is
// derived from its active marker (e.g. a CSS class), which the Switcher owns.
type Button interface {
	Role() Role
	Active() bool
	SetActive(active bool)
}

type memoryButton struct {
	role   Role
	active bool
}

func (b *memoryButton) Role() Role            { return b.role }
func (b *memoryButton) Active() bool          { return b.active }
func (b *memoryButton) SetActive(active bool) { b.active = active }

// NewButtons returns in-memory buttons for the given roles, none of them
// active. Without arguments it returns one button per role in menu order.
func NewButtons(roles ...Role) []Button {
	if len(roles) == 0 {
		roles = Roles[:]
	}

	buttons := make([]Button, len(roles))
	for i, r := range roles {
		buttons[i] = &memoryButton{role: r}
	}
	return buttons
}
