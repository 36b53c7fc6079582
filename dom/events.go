package dom

import "golang.org/x/net/html"

// Event is a synthetic DOM event. Dispatch is synchronous: by the time
// DispatchEvent returns, every listener has run.
type Event struct {
	Type string

	// Target is the element the event was dispatched on; CurrentTarget is the
	// element whose listeners are currently running.
	Target        *Element
	CurrentTarget *Element

	stopped bool
}

// StopPropagation prevents the event from bubbling further up. Remaining
// listeners on the current element still run.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Listener handles an event.
type Listener func(ev *Event)

// AddEventListener registers l for events of type typ on e. Listeners run in
// registration order.
func (e *Element) AddEventListener(typ string, l Listener) {
	byType := e.doc.listeners[e.node]
	if byType == nil {
		byType = make(map[string][]Listener)
		e.doc.listeners[e.node] = byType
	}
	byType[typ] = append(byType[typ], l)
}

// DispatchEvent delivers ev to e and then bubbles it to every ancestor up to the
// document root.
func (e *Element) DispatchEvent(ev *Event) {
	ev.Target = e

	for n := e.node; n != nil && !ev.stopped; n = n.Parent {
		listeners := e.doc.listeners[n][ev.Type]
		if len(listeners) == 0 {
			continue
		}

		ev.CurrentTarget = e.doc.wrap(n)
		// Copy so that listeners registered during dispatch do not run for this
		// event.
		for _, l := range append([]Listener(nil), listeners...) {
			l(ev)
		}
	}

	ev.CurrentTarget = nil
}

// Click simulates a user activating e: a click event is dispatched on it. Like
// HTMLElement.click(), disabled form controls ignore it.
func (e *Element) Click() {
	if e.node.Type == html.ElementNode && isFormControl(e.node.Data) {
		if _, disabled := e.Attr("disabled"); disabled {
			return
		}
	}
	e.DispatchEvent(&Event{Type: "click"})
}

func isFormControl(tag string) bool {
	switch tag {
	case "button", "input", "select", "textarea":
		return true
	}
	return false
}
