package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle to an element node. Handles are cheap; two handles refer
// to the same element when Is reports true.
type Element struct {
	doc  *Document
	node *html.Node
}

// Is reports whether e and other refer to the same element.
func (e *Element) Is(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.node == other.node
}

func (e *Element) TagName() string {
	return e.node.Data
}

func (e *Element) ID() string {
	return attr(e.node, "id")
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

func (e *Element) RemoveAttr(key string) {
	kept := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	e.node.Attr = kept
}

// Dataset returns the value of the data-<key> attribute. Keys are given in
// their attribute form, e.g. "role" for data-role.
func (e *Element) Dataset(key string) string {
	return attr(e.node, "data-"+key)
}

// TextContent concatenates every text node below the element.
func (e *Element) TextContent() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// QuerySelector returns the first descendant of e matching selector, or nil.
// Like the browser API, the selector is matched against the whole document, so
// it may mention ancestors of e.
func (e *Element) QuerySelector(selector string) (*Element, error) {
	els, err := e.QuerySelectorAll(selector)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

// QuerySelectorAll returns every descendant of e matching selector in document
// order. The element itself is never part of the result.
func (e *Element) QuerySelectorAll(selector string) ([]*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}

	var nodes []*html.Node
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, sel.MatchAll(c)...)
	}
	return e.doc.wrapAll(nodes), nil
}

// ClassList gives access to the element's class attribute as a token set.
func (e *Element) ClassList() ClassList {
	return ClassList{el: e}
}

// ClassList mirrors DOMTokenList for the class attribute.
type ClassList struct {
	el *Element
}

func (cl ClassList) Values() []string {
	return strings.Fields(attr(cl.el.node, "class"))
}

func (cl ClassList) Contains(token string) bool {
	for _, t := range cl.Values() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends tokens that are not present yet, keeping existing order.
func (cl ClassList) Add(tokens ...string) {
	values := cl.Values()
	for _, tok := range tokens {
		if !containsToken(values, tok) {
			values = append(values, tok)
		}
	}
	cl.set(values)
}

func (cl ClassList) Remove(tokens ...string) {
	values := cl.Values()
	kept := values[:0]
	for _, v := range values {
		if !containsToken(tokens, v) {
			kept = append(kept, v)
		}
	}
	cl.set(kept)
}

// Toggle removes token if present and adds it otherwise. It reports whether
// the token is present afterwards.
func (cl ClassList) Toggle(token string) bool {
	if cl.Contains(token) {
		cl.Remove(token)
		return false
	}
	cl.Add(token)
	return true
}

func (cl ClassList) set(values []string) {
	if len(values) == 0 {
		// Browsers keep an empty class attribute around, and so do we.
		cl.el.SetAttr("class", "")
		return
	}
	cl.el.SetAttr("class", strings.Join(values, " "))
}

func containsToken(tokens []string, tok string) bool {
	for _, t := range tokens {
		if t == tok {
			return true
		}
	}
	return false
}
