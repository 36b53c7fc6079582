package verify

import (
	"context"
	"fmt"

	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/dom"
	"github.com/samclaus/squadplanner/fixture"
	"go.uber.org/zap"
)

// DOMPage renders the role menu in the in-memory DOM and binds it to a
// planner.Switcher. Clicks are synthetic DOM events.
type DOMPage struct {
	doc      *dom.Document
	menuID   string
	switcher *planner.Switcher
}

// NewDOMPage parses markup and binds the menu with id menuID. Without
// refreshers the four refresh hooks are no-ops.
func NewDOMPage(markup, menuID string, logger *zap.Logger, refreshers ...planner.Refresher) (*DOMPage, error) {
	doc, err := dom.Parse(markup)
	if err != nil {
		return nil, err
	}
	if len(refreshers) == 0 {
		refreshers = []planner.Refresher{planner.NopRefresher{}}
	}

	sw, err := planner.BindMenu(doc, menuID, planner.RoleGoalkeeper, logger, refreshers...)
	if err != nil {
		return nil, err
	}
	return &DOMPage{doc: doc, menuID: menuID, switcher: sw}, nil
}

// NewFixturePage is NewDOMPage over the embedded role menu.
func NewFixturePage(logger *zap.Logger, refreshers ...planner.Refresher) (*DOMPage, error) {
	return NewDOMPage(fixture.RoleMenu, fixture.MenuID, logger, refreshers...)
}

func (p *DOMPage) Document() *dom.Document {
	return p.doc
}

func (p *DOMPage) Switcher() *planner.Switcher {
	return p.switcher
}

func (p *DOMPage) buttons(selector string) ([]*dom.Element, error) {
	return p.doc.QuerySelectorAll("#" + p.menuID + " " + selector)
}

func (p *DOMPage) Roles(context.Context) ([]planner.Role, error) {
	els, err := p.buttons("." + fixture.ButtonClass)
	if err != nil {
		return nil, err
	}
	return rolesOf(els)
}

func (p *DOMPage) Click(_ context.Context, r planner.Role) error {
	els, err := p.buttons(fmt.Sprintf(`.%s[data-role="%s"]`, fixture.ButtonClass, r))
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return fmt.Errorf("no button for role %s: %w", r, planner.ErrUnknownRole)
	}
	els[0].Click()
	return nil
}

func (p *DOMPage) ActiveButtons(context.Context) ([]planner.Role, error) {
	els, err := p.buttons("." + fixture.ButtonClass + "." + fixture.ActiveClass)
	if err != nil {
		return nil, err
	}
	return rolesOf(els)
}

func (p *DOMPage) ActiveRole(context.Context) (planner.Role, error) {
	return p.switcher.Active(), nil
}

func rolesOf(els []*dom.Element) ([]planner.Role, error) {
	roles := make([]planner.Role, 0, len(els))
	for _, el := range els {
		r, err := planner.ParseRole(el.Dataset("role"))
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}
