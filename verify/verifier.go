// Package verify checks the role switcher's click behaviour: after every
// click exactly one button carries the active marker, it is the clicked one,
// and the active-role state matches it.
package verify

import (
	"context"
	"fmt"

	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/fixture"
	"go.uber.org/zap"
)

// SuccessMessage is printed after a passing run.
const SuccessMessage = "Role switch test passed."

// Page is a rendered role menu the verifier can click on and observe.
type Page interface {
	// Roles returns the roles of the menu buttons in document order.
	Roles(ctx context.Context) ([]planner.Role, error)
	// Click activates the button for r the way a user would.
	Click(ctx context.Context, r planner.Role) error
	// ActiveButtons returns the roles of the buttons carrying the active marker.
	ActiveButtons(ctx context.Context) ([]planner.Role, error)
	// ActiveRole returns the page's active-role state.
	ActiveRole(ctx context.Context) (planner.Role, error)
}

const (
	CheckButton = "button"
	CheckState  = "state"
)

// AssertionError reports a click after which the page was inconsistent.
type AssertionError struct {
	Role  planner.Role
	Check string // CheckButton or CheckState
	Want  string
	Got   string
}

func (e *AssertionError) Error() string {
	if e.Check == CheckState {
		return fmt.Sprintf("%s should be %s, got %s", fixture.StateVariable, e.Want, e.Got)
	}
	return fmt.Sprintf("button %s should be active (active: %s)", e.Role, e.Got)
}

// Report summarises a passing run.
type Report struct {
	Clicks int
	Final  planner.Role
}

type Verifier struct {
	page   Page
	logger *zap.Logger
}

func New(page Page, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{page: page, logger: logger}
}

// Run clicks every role in order (the page's button order when order is
// empty) and checks the page after each click. It stops at the first
// inconsistency, returning an *AssertionError naming the role.
func (v *Verifier) Run(ctx context.Context, order []planner.Role) (Report, error) {
	if len(order) == 0 {
		roles, err := v.page.Roles(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("list role buttons: %w", err)
		}
		order = roles
	}

	var rep Report
	for _, r := range order {
		if err := v.Check(ctx, r); err != nil {
			return rep, err
		}
		rep.Clicks++
		rep.Final = r
	}

	v.logger.Info("Role switch verified", zap.Int("clicks", rep.Clicks), zap.Stringer("final", rep.Final))
	return rep, nil
}

// Check clicks r and asserts the page is consistent afterwards.
func (v *Verifier) Check(ctx context.Context, r planner.Role) error {
	if err := v.page.Click(ctx, r); err != nil {
		return fmt.Errorf("click %s: %w", r, err)
	}

	active, err := v.page.ActiveButtons(ctx)
	if err != nil {
		return fmt.Errorf("read active buttons after clicking %s: %w", r, err)
	}
	if len(active) != 1 || active[0] != r {
		return &AssertionError{Role: r, Check: CheckButton, Want: r.String(), Got: fmt.Sprint(active)}
	}

	state, err := v.page.ActiveRole(ctx)
	if err != nil {
		return fmt.Errorf("read active role after clicking %s: %w", r, err)
	}
	if state != r {
		return &AssertionError{Role: r, Check: CheckState, Want: r.String(), Got: state.String()}
	}

	v.logger.Debug("Click verified", zap.Stringer("role", r))
	return nil
}
