package modal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestShowAppliesDefaults(t *testing.T) {
	m := NewManager()
	m.Show(Config{Title: "Hello", Body: "world"})

	assert.True(t, m.Visible())
	assert.Equal(t, SizeMedium, m.size)
	assert.True(t, m.dismissible)
	if assert.Len(t, m.buttons, 1) {
		assert.Equal(t, "Close", m.buttons[0].Label)
	}
}

func TestDoubleShowKeepsSecondConfig(t *testing.T) {
	var hidden int
	m := NewManager()
	m.Show(Config{Title: "First", Body: "one", OnHide: func() { hidden++ }})
	m.Show(Config{
		Title:   "Second",
		Body:    "two",
		Size:    SizeLarge,
		Buttons: []Button{{Label: "OK"}, {Label: "Maybe"}},
	})

	assert.True(t, m.Visible())
	assert.Equal(t, "Second", m.title)
	assert.Equal(t, "two", m.body)
	assert.Equal(t, SizeLarge, m.size)
	assert.Len(t, m.buttons, 2)

	// dismissing once closes everything; the first dialog is gone
	m.Hide()
	assert.False(t, m.Visible())
	assert.Equal(t, 0, hidden) // first dialog's handler was replaced
}

func TestConfirmInvokesCallbackExactlyOnce(t *testing.T) {
	var calls int
	m := NewManager()
	m.Confirm("Sure?", func() tea.Cmd {
		calls++
		return nil
	})

	assert.True(t, m.Visible())
	assert.Equal(t, 1, m.focus) // Confirm is pre-focused

	_, handled := m.Update(keyMsg("enter"))
	assert.True(t, handled)
	assert.False(t, m.Visible())
	assert.Equal(t, 1, calls)

	// further key presses reach nothing
	_, handled = m.Update(keyMsg("enter"))
	assert.False(t, handled)
	assert.Equal(t, 1, calls)
}

func TestConfirmCancelOnlyHides(t *testing.T) {
	var calls int
	m := NewManager()
	m.Confirm("Sure?", func() tea.Cmd {
		calls++
		return nil
	})

	_, handled := m.Update(keyMsg("left")) // move focus to Cancel
	assert.True(t, handled)
	_, handled = m.Update(keyMsg("enter"))
	assert.True(t, handled)

	assert.False(t, m.Visible())
	assert.Equal(t, 0, calls)
}

func TestEscDismissesOnlyWhenDismissible(t *testing.T) {
	no := false
	m := NewManager()
	m.Show(Config{Title: "Stuck", Dismissible: &no})

	_, handled := m.Update(keyMsg("esc"))
	assert.True(t, handled)
	assert.True(t, m.Visible())

	m.Hide()
	m.Show(Config{Title: "Free"})
	_, _ = m.Update(keyMsg("esc"))
	assert.False(t, m.Visible())
}

func TestButtonFocusCycling(t *testing.T) {
	m := NewManager()
	m.Show(Config{Buttons: []Button{{Label: "A"}, {Label: "B"}, {Label: "C"}}})

	assert.Equal(t, 0, m.focus)
	m.Update(keyMsg("right"))
	m.Update(keyMsg("tab"))
	assert.Equal(t, 2, m.focus)
	m.Update(keyMsg("right")) // stays on the last button
	assert.Equal(t, 2, m.focus)
	m.Update(keyMsg("left"))
	assert.Equal(t, 1, m.focus)
}

func TestOverlayRendering(t *testing.T) {
	m := NewManager()
	assert.Empty(t, m.Overlay(80, 24))

	m.Show(Config{Title: "Notice", Body: "saved"})
	out := m.Overlay(80, 24)
	assert.Contains(t, out, "Notice")
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "Close")
}

func TestOnPressCommandPropagates(t *testing.T) {
	fired := func() tea.Msg { return "done" }
	m := NewManager()
	m.Show(Config{Buttons: []Button{{Label: "Go", OnPress: func() tea.Cmd { return fired }}}})

	cmd, handled := m.Update(keyMsg("enter"))
	assert.True(t, handled)
	if assert.NotNil(t, cmd) {
		assert.Equal(t, "done", cmd())
	}
	assert.False(t, m.Visible())
}
