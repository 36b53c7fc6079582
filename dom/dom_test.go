package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const menuMarkup = `
<div id="menu" class="menu">
  <button class="nav-btn" data-role="P">P</button>
  <button class="nav-btn primary" data-role="D">D</button>
  <button class="nav-btn" data-role="C" disabled>C</button>
</div>
<p id="note">outside <b>the</b> menu</p>
`

func parseMenu(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(menuMarkup)
	require.NoError(t, err)
	return doc
}

func TestGetElementByID(t *testing.T) {
	doc := parseMenu(t)

	menu := doc.GetElementByID("menu")
	require.NotNil(t, menu)
	assert.Equal(t, "div", menu.TagName())
	assert.Equal(t, "menu", menu.ID())

	assert.Nil(t, doc.GetElementByID("missing"))
	assert.Equal(t, "outside the menu", doc.GetElementByID("note").TextContent())
}

func TestQuerySelectorAll(t *testing.T) {
	doc := parseMenu(t)

	buttons, err := doc.QuerySelectorAll(".nav-btn")
	require.NoError(t, err)
	require.Len(t, buttons, 3)

	var roles []string
	for _, b := range buttons {
		roles = append(roles, b.Dataset("role"))
	}
	assert.Equal(t, []string{"P", "D", "C"}, roles)

	primary, err := doc.QuerySelector(".nav-btn.primary")
	require.NoError(t, err)
	assert.True(t, primary.Is(buttons[1]))

	none, err := doc.QuerySelector(".nav-btn.active")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = doc.QuerySelectorAll("..broken")
	assert.Error(t, err)
}

func TestElementQuerySelectorExcludesSelf(t *testing.T) {
	doc := parseMenu(t)
	menu := doc.GetElementByID("menu")

	divs, err := menu.QuerySelectorAll("div")
	require.NoError(t, err)
	assert.Empty(t, divs)

	// Selectors may reference ancestors of the scope element.
	scoped, err := menu.QuerySelectorAll("#menu > .nav-btn")
	require.NoError(t, err)
	assert.Len(t, scoped, 3)

	first, err := menu.QuerySelector("[data-role=D]")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "D", first.TextContent())
}

func TestClassList(t *testing.T) {
	doc := parseMenu(t)
	btn, err := doc.QuerySelector("[data-role=P]")
	require.NoError(t, err)

	cl := btn.ClassList()
	assert.Equal(t, []string{"nav-btn"}, cl.Values())

	cl.Add("active", "nav-btn")
	assert.Equal(t, []string{"nav-btn", "active"}, cl.Values())
	assert.True(t, cl.Contains("active"))

	active, err := doc.QuerySelectorAll(".nav-btn.active")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].Is(btn))

	cl.Remove("active")
	assert.False(t, cl.Contains("active"))
	cl.Remove("active")
	assert.Equal(t, []string{"nav-btn"}, cl.Values())

	assert.True(t, cl.Toggle("active"))
	assert.False(t, cl.Toggle("active"))

	cl.Remove("nav-btn")
	assert.Empty(t, cl.Values())
	val, ok := btn.Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "", val)
}

func TestAttributes(t *testing.T) {
	doc := parseMenu(t)
	btn, err := doc.QuerySelector("[data-role=D]")
	require.NoError(t, err)

	btn.SetAttr("data-role", "A")
	assert.Equal(t, "A", btn.Dataset("role"))

	btn.SetAttr("title", "forwards")
	v, ok := btn.Attr("title")
	assert.True(t, ok)
	assert.Equal(t, "forwards", v)

	btn.RemoveAttr("title")
	_, ok = btn.Attr("title")
	assert.False(t, ok)

	assert.Equal(t, "menu", btn.Parent().ID())
}

func TestClickBubbles(t *testing.T) {
	doc := parseMenu(t)
	menu := doc.GetElementByID("menu")
	btn, err := doc.QuerySelector("[data-role=P]")
	require.NoError(t, err)

	var calls []string
	btn.AddEventListener("click", func(ev *Event) {
		calls = append(calls, "button")
		assert.True(t, ev.Target.Is(btn))
		assert.True(t, ev.CurrentTarget.Is(btn))
	})
	btn.AddEventListener("click", func(ev *Event) { calls = append(calls, "button-2") })
	menu.AddEventListener("click", func(ev *Event) {
		calls = append(calls, "menu")
		assert.True(t, ev.Target.Is(btn))
		assert.True(t, ev.CurrentTarget.Is(menu))
	})
	doc.Body().AddEventListener("focus", func(ev *Event) { calls = append(calls, "focus") })

	btn.Click()
	assert.Equal(t, []string{"button", "button-2", "menu"}, calls)
}

func TestStopPropagation(t *testing.T) {
	doc := parseMenu(t)
	menu := doc.GetElementByID("menu")
	btn, err := doc.QuerySelector("[data-role=D]")
	require.NoError(t, err)

	var calls []string
	btn.AddEventListener("click", func(ev *Event) {
		calls = append(calls, "first")
		ev.StopPropagation()
	})
	btn.AddEventListener("click", func(ev *Event) { calls = append(calls, "second") })
	menu.AddEventListener("click", func(ev *Event) { calls = append(calls, "menu") })

	btn.Click()
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDisabledButtonIgnoresClick(t *testing.T) {
	doc := parseMenu(t)
	btn, err := doc.QuerySelector("[data-role=C]")
	require.NoError(t, err)

	clicked := false
	btn.AddEventListener("click", func(*Event) { clicked = true })
	btn.Click()
	assert.False(t, clicked)
}

func TestRenderReflectsChanges(t *testing.T) {
	doc := parseMenu(t)
	btn, err := doc.QuerySelector("[data-role=P]")
	require.NoError(t, err)
	btn.ClassList().Add("active")

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, out, `class="nav-btn active"`)
}
