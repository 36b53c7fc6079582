// Package squad models the squad plan the role switcher's views render: the
// auction budget and, per role, the players the user is targeting.
package squad

import (
	"errors"
	"fmt"
	"strings"

	planner "github.com/samclaus/squadplanner"
)

// DefaultBudget is the classic fantasy auction budget in credits.
const DefaultBudget = 500

var (
	ErrDuplicateTarget  = errors.New("player already targeted for this role")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrBudgetBelowSpent = errors.New("budget lower than credits already allocated")
)

// quotas is how many players of each role a squad holds.
var quotas = map[planner.Role]int{
	planner.RoleGoalkeeper: 3,
	planner.RoleDefender:   8,
	planner.RoleMidfielder: 8,
	planner.RoleForward:    6,
}

// Quota returns the number of squad slots for r, or 0 for invalid roles.
func Quota(r planner.Role) int {
	return quotas[r]
}

// Target is a player the user plans to buy, with the price they expect to pay.
type Target struct {
	Name  string `json:"name"`
	Team  string `json:"team,omitempty"`
	Price int    `json:"price"`
}

// Plan is not safe for concurrent use; a session goroutine owns it.
type Plan struct {
	Budget  int
	targets map[planner.Role][]Target
}

// NewPlan returns an empty plan. A non-positive budget means DefaultBudget.
func NewPlan(budget int) *Plan {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Plan{
		Budget:  budget,
		targets: make(map[planner.Role][]Target),
	}
}

// AddTarget appends t to r's targets. Targets are a wishlist, so going over
// budget is allowed and simply shows up as a negative Remaining.
func (p *Plan) AddTarget(r planner.Role, t Target) error {
	if !r.Valid() {
		return fmt.Errorf("add target: %w: %d", planner.ErrUnknownRole, byte(r))
	}
	if t.Price < 0 {
		return fmt.Errorf("add target %q: %w", t.Name, ErrInvalidPrice)
	}

	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return errors.New("add target: empty player name")
	}
	if p.indexOf(r, t.Name) >= 0 {
		return fmt.Errorf("add target %q: %w", t.Name, ErrDuplicateTarget)
	}

	p.targets[r] = append(p.targets[r], t)
	return nil
}

// RemoveTarget drops the named player from r's targets and reports whether it
// was there.
func (p *Plan) RemoveTarget(r planner.Role, name string) bool {
	i := p.indexOf(r, strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	ts := p.targets[r]
	p.targets[r] = append(ts[:i:i], ts[i+1:]...)
	return true
}

func (p *Plan) indexOf(r planner.Role, name string) int {
	for i, t := range p.targets[r] {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}

// Targets returns a copy of r's targets in the order they were added.
func (p *Plan) Targets(r planner.Role) []Target {
	return append([]Target{}, p.targets[r]...)
}

func (p *Plan) Spent(r planner.Role) int {
	total := 0
	for _, t := range p.targets[r] {
		total += t.Price
	}
	return total
}

func (p *Plan) TotalSpent() int {
	total := 0
	for _, r := range planner.Roles {
		total += p.Spent(r)
	}
	return total
}

func (p *Plan) Remaining() int {
	return p.Budget - p.TotalSpent()
}

// SetBudget changes the budget; it may not drop below what the targets
// already cost.
func (p *Plan) SetBudget(budget int) error {
	if budget < 0 {
		return ErrInvalidPrice
	}
	if spent := p.TotalSpent(); budget < spent {
		return fmt.Errorf("%w: %d < %d", ErrBudgetBelowSpent, budget, spent)
	}
	p.Budget = budget
	return nil
}

// Budget is the budget view for one focused role.
type Budget struct {
	Role        planner.Role `json:"role"`
	Total       int          `json:"total"`
	Spent       int          `json:"spent"`
	Remaining   int          `json:"remaining"`
	RoleSpent   int          `json:"role_spent"`
	RoleTargets int          `json:"role_targets"`
	RoleQuota   int          `json:"role_quota"`
	OpenSlots   int          `json:"open_slots"`
}

// Summary computes the budget view with focus on r.
func (p *Plan) Summary(r planner.Role) Budget {
	spent := p.TotalSpent()
	n := len(p.targets[r])

	open := Quota(r) - n
	if open < 0 {
		open = 0
	}

	return Budget{
		Role:        r,
		Total:       p.Budget,
		Spent:       spent,
		Remaining:   p.Budget - spent,
		RoleSpent:   p.Spent(r),
		RoleTargets: n,
		RoleQuota:   Quota(r),
		OpenSlots:   open,
	}
}
