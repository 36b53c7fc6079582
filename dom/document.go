// Package dom is a small in-memory document object model built on
// golang.org/x/net/html. It supports the parts of the browser DOM the planner
// widgets rely on: element lookup by id and CSS selector, class lists, data
// attributes and synchronous event dispatch. Scripts in the markup are parsed
// but never executed.
package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML document together with the event listeners
// registered on its elements.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Listener
}

// Parse builds a document from markup. Fragments are accepted; the parser
// wraps them in html/head/body like a browser would.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Listener),
	}, nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

// GetElementByID returns the first element whose id attribute equals id, or
// nil.
func (d *Document) GetElementByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// Body returns the body element.
func (d *Document) Body() *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "body" {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// QuerySelector returns the first element matching selector in document order,
// or nil if nothing matches.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return d.wrap(sel.MatchFirst(d.root)), nil
}

// QuerySelectorAll returns every element matching selector in document order.
func (d *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return d.wrapAll(sel.MatchAll(d.root)), nil
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	els := make([]*Element, len(nodes))
	for i, n := range nodes {
		els[i] = d.wrap(n)
	}
	return els
}

// Render serializes the current state of the document, including any class or
// attribute changes made since parsing.
func (d *Document) Render() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, d.root); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return sb.String(), nil
}

func compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// walk visits n and its descendants depth-first in document order until visit
// returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
