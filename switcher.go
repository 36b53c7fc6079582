package planner

import (
	"fmt"

	"go.uber.org/zap"
)

// Switcher owns the active role of a button group. It is not safe for
// concurrent use; whoever dispatches clicks (a session goroutine, a verifier)
// owns it.
type Switcher struct {
	active     Role
	buttons    []Button
	refreshers []Refresher
	logger     *zap.Logger
}

// NewSwitcher creates a switcher over the given buttons. A zero initial role
// means RoleGoalkeeper. No button is marked active until the first click, even
// though the active role already has its initial value.
func NewSwitcher(initial Role, buttons []Button, logger *zap.Logger, refreshers ...Refresher) (*Switcher, error) {
	if initial == 0 {
		initial = RoleGoalkeeper
	}
	if !initial.Valid() {
		return nil, fmt.Errorf("initial role: %w: %d", ErrUnknownRole, byte(initial))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[Role]struct{}, len(buttons))
	for _, b := range buttons {
		r := b.Role()
		if !r.Valid() {
			return nil, fmt.Errorf("button: %w: %d", ErrUnknownRole, byte(r))
		}
		if _, dup := seen[r]; dup {
			return nil, fmt.Errorf("duplicate button for role %s", r)
		}
		seen[r] = struct{}{}
	}

	return &Switcher{
		active:     initial,
		buttons:    buttons,
		refreshers: refreshers,
		logger:     logger,
	}, nil
}

// Active returns the currently selected role.
func (s *Switcher) Active() Role {
	return s.active
}

// ActiveButtons returns the roles of every button carrying the active marker,
// in button order. After at least one click it holds exactly one role.
func (s *Switcher) ActiveButtons() []Role {
	var active []Role
	for _, b := range s.buttons {
		if b.Active() {
			active = append(active, b.Role())
		}
	}
	return active
}

// Buttons returns the roles of the switcher's buttons in order.
func (s *Switcher) Buttons() []Role {
	roles := make([]Role, len(s.buttons))
	for i, b := range s.buttons {
		roles[i] = b.Role()
	}
	return roles
}

// Click activates the button for r: every marker is cleared, the marker is
// set on r's button, the active role becomes r and the refreshers run. Clicking
// a role without a button changes nothing and returns ErrUnknownRole.
func (s *Switcher) Click(r Role) error {
	var target Button
	for _, b := range s.buttons {
		if b.Role() == r {
			target = b
			break
		}
	}
	if target == nil {
		return fmt.Errorf("click %s: %w", r, ErrUnknownRole)
	}

	for _, b := range s.buttons {
		b.SetActive(false)
	}
	target.SetActive(true)

	prev := s.active
	s.active = r
	s.logger.Debug("Role switched", zap.Stringer("from", prev), zap.Stringer("to", r))

	for _, rf := range s.refreshers {
		rf.Render(r)
		rf.Setup(r)
		rf.RefreshBudget(r)
		rf.RefreshTargets(r)
	}

	return nil
}
