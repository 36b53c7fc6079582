// Package fixture holds the role menu markup shared by the in-memory and the
// browser-backed role switch checks.
package fixture

import _ "embed"

const (
	MenuID      = "planner-role-menu"
	ButtonClass = "nav-btn"
	ActiveClass = "active"

	// StateVariable is the global the inline script keeps the active role in.
	StateVariable = "activePlannerRole"
)

// RoleMenu is the planner's role menu: four buttons, one per role, followed by
// the inline script a browser runs to wire them up. The in-memory DOM ignores
// the script and binds the buttons to a planner.Switcher instead.
//
//go:embed role_menu.html
var RoleMenu string
