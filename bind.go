package planner

import (
	"fmt"

	"github.com/samclaus/squadplanner/dom"
	"github.com/samclaus/squadplanner/fixture"
	"go.uber.org/zap"
)

// domButton is a Button backed by a DOM element: its role comes from the
// data-role attribute and its active marker is the "active" class.
type domButton struct {
	el   *dom.Element
	role Role
}

func (b *domButton) Role() Role {
	return b.role
}

func (b *domButton) Active() bool {
	return b.el.ClassList().Contains(fixture.ActiveClass)
}

func (b *domButton) SetActive(active bool) {
	if active {
		b.el.ClassList().Add(fixture.ActiveClass)
	} else {
		b.el.ClassList().Remove(fixture.ActiveClass)
	}
}

// BindMenu wires the .nav-btn buttons inside the element with id menuID to a
// new Switcher. Every button gets a click listener that activates its role, so
// clicks dispatched through the document drive the switcher exactly like the
// planner page's own script does in a browser.
func BindMenu(doc *dom.Document, menuID string, initial Role, logger *zap.Logger, refreshers ...Refresher) (*Switcher, error) {
	menu := doc.GetElementByID(menuID)
	if menu == nil {
		return nil, fmt.Errorf("role menu #%s not found", menuID)
	}

	els, err := menu.QuerySelectorAll("." + fixture.ButtonClass)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("role menu #%s has no .%s buttons", menuID, fixture.ButtonClass)
	}

	buttons := make([]Button, len(els))
	for i, el := range els {
		r, err := ParseRole(el.Dataset("role"))
		if err != nil {
			return nil, fmt.Errorf("button %d of #%s: %w", i, menuID, err)
		}
		buttons[i] = &domButton{el: el, role: r}
	}

	sw, err := NewSwitcher(initial, buttons, logger, refreshers...)
	if err != nil {
		return nil, err
	}

	for _, b := range buttons {
		r := b.Role()
		b.(*domButton).el.AddEventListener("click", func(*dom.Event) {
			if err := sw.Click(r); err != nil {
				sw.logger.Error("Role click failed", zap.Stringer("role", r), zap.Error(err))
			}
		})
	}

	return sw, nil
}
