package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyEventFrom(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want KeyEvent
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, KeyEvent{Key: "z", Ctrl: true}},
		{tea.KeyMsg{Type: tea.KeyShiftLeft}, KeyEvent{Key: "left", Shift: true}},
		{tea.KeyMsg{Type: tea.KeyCtrlShiftUp}, KeyEvent{Key: "up", Ctrl: true, Shift: true}},
		{tea.KeyMsg{Type: tea.KeyDelete}, KeyEvent{Key: "delete"}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é")}, KeyEvent{Key: "é", Text: "é"}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, KeyEvent{Key: "x", Text: "x", Alt: true}},
		{tea.KeyMsg{Type: tea.KeySpace}, KeyEvent{Key: "space", Text: " "}},
	}
	for _, tc := range cases {
		if got := keyEventFrom(tc.msg); got != tc.want {
			t.Fatalf("%q: expected %+v, got %+v", tc.msg.String(), tc.want, got)
		}
	}
}

func testModel(els ...Element) model {
	m := newModel(NewEditor(400, 400, els), defaultConfig(), "")
	m.width, m.height = 80, 25
	return m
}

func press(m *model, typ tea.MouseEventType, x, y int) {
	m.handleMouse(tea.MouseMsg{X: x, Y: y, Type: typ})
}

func TestHandleMouseDragsSelection(t *testing.T) {
	m := testModel(shapeAt("a", 0, 0, 0))

	press(&m, tea.MouseLeft, 1, 1)
	if m.controller.State() != StateDragging || !m.capture.held {
		t.Fatalf("expected a captured drag, got %s", m.controller.State())
	}
	press(&m, tea.MouseLeft, 3, 1)
	press(&m, tea.MouseRelease, 3, 1)

	el, _ := m.editor.Scene().Element("a")
	if el.X != 2*CellWidth || el.Y != 0 {
		t.Fatalf("expected move by two cells, got (%v,%v)", el.X, el.Y)
	}
	if m.controller.State() != StateIdle || m.capture.held {
		t.Fatalf("expected release to end the drag")
	}
}

func TestHandleMouseDoubleClickEditsText(t *testing.T) {
	text := NewElement(TextProps{Content: "hi"})
	text.ID, text.Width, text.Height = "t", 200, 100
	m := testModel(text)

	press(&m, tea.MouseLeft, 2, 2)
	press(&m, tea.MouseRelease, 2, 2)
	press(&m, tea.MouseLeft, 2, 2)

	if m.controller.State() != StateTextEditing {
		t.Fatalf("expected text editing after a double click, got %s", m.controller.State())
	}
	if m.pressed {
		t.Fatalf("expected the double click to release the button")
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	el, _ := m.editor.Scene().Element("t")
	if got := el.Props.(TextProps).Content; got != "hi!" {
		t.Fatalf("expected committed text, got %q", got)
	}
}

func TestHandleMouseWheelZooms(t *testing.T) {
	m := testModel()
	press(&m, tea.MouseWheelUp, 10, 10)
	if z := m.editor.Scene().Zoom; z != defaultZoomStep {
		t.Fatalf("expected zoom %v, got %v", defaultZoomStep, z)
	}
}

func TestHandleKeyModes(t *testing.T) {
	m := testModel(shapeAt("a", 0, 0, 0))

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.controller.Tool() != ToolRectangle {
		t.Fatalf("expected rectangle tool, got %s", m.controller.Tool())
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	if m.mode != ModePan {
		t.Fatalf("expected pan mode")
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if pan := m.editor.Scene().Pan; pan.X != CellWidth {
		t.Fatalf("expected pan by one cell, got %+v", pan)
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeNormal {
		t.Fatalf("expected normal mode after esc")
	}

	m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlA})
	if len(m.editor.Scene().Selected) != 1 {
		t.Fatalf("expected ctrl+a to select all")
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyDelete})
	if len(m.editor.Scene().Elements) != 0 {
		t.Fatalf("expected delete to remove the selection")
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	if len(m.editor.Scene().Elements) != 1 {
		t.Fatalf("expected undo to restore the element")
	}
}

func TestViewRendersCanvasAndStatus(t *testing.T) {
	m := testModel(shapeAt("a", 0, 0, 0))
	lines := strings.Split(m.View(), "\n")
	if len(lines) != m.height {
		t.Fatalf("expected %d lines, got %d", m.height, len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "tool:select") {
		t.Fatalf("expected status line, got %q", lines[len(lines)-1])
	}

	m.mode = ModeHelp
	if !strings.Contains(m.View(), "Poster Help") {
		t.Fatalf("expected help view")
	}
}

func TestHandleMouseGrabsDrawnHandle(t *testing.T) {
	el := shapeAt("a", 0, 0, 0)
	el.Width, el.Height = 100, 110
	m := testModel(el)
	m.editor.Dispatch(SelectElement{ID: "a"})

	rows := plainRows(RenderCells(m.editor.Scene(), m.width, m.canvasRows(), nil))
	if got := []rune(rows[6])[6]; got != '■' {
		t.Fatalf("expected the S handle drawn at (6,6), got %q", got)
	}

	press(&m, tea.MouseLeft, 6, 6)
	if m.controller.State() != StateTransforming {
		t.Fatalf("expected clicking the drawn handle to transform, got %s", m.controller.State())
	}
	press(&m, tea.MouseMotion, 6, 8)
	press(&m, tea.MouseRelease, 6, 8)
	if a, _ := m.editor.Scene().Element("a"); a.Height != 110+2*CellHeight {
		t.Fatalf("expected height to grow by two rows, got %v", a.Height)
	}
}
