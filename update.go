package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb")).Background(lipgloss.Color("#1f2937"))
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827")).Background(lipgloss.Color("#93c5fd")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#86efac"))
	helpStyle   = lipgloss.NewStyle().Padding(1, 2)
)

// toolKeys maps single keys to insertion tools.
var toolKeys = map[string]Tool{
	"s": ToolSelect,
	"t": ToolText,
	"r": ToolRectangle,
	"o": ToolCircle,
	"v": ToolTriangle,
	"l": ToolLine,
	"*": ToolStar,
	"d": ToolDecorative,
}

func newModel(editor *Editor, config *Config, source string) model {
	capture := &pointerCapture{}
	return model{
		editor:     editor,
		controller: NewController(editor, capture, WithHandleHitSize(math.Max(HandleSize, CellHeight))),
		assets:     NewAssetCache(nil),
		config:     config,
		source:     source,
		capture:    capture,
	}
}

func (m model) Init() tea.Cmd {
	return m.requestAssets()
}

// requestAssets issues one load command per image source not seen yet.
func (m model) requestAssets() tea.Cmd {
	var cmds []tea.Cmd
	for _, src := range ImageSources(m.editor.Scene()) {
		if status, _ := m.assets.Lookup(src); status != AssetMissing {
			continue
		}
		assets, src := m.assets, src
		cmds = append(cmds, func() tea.Msg {
			return assetLoadedMsg{src: src, status: assets.Load(src)}
		})
	}
	return tea.Batch(cmds...)
}

func (m model) canvasRows() int {
	if m.height < 2 {
		return 1
	}
	return m.height - 1
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case assetLoadedMsg:
		if msg.status == AssetBroken {
			m.errorMessage = fmt.Sprintf("could not load %s", msg.src)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
		} else {
			m.successMessage = "exported " + msg.path
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.requestAssets()

	case tea.KeyMsg:
		m.errorMessage, m.successMessage = "", ""
		cmd := m.handleKey(msg)
		return m, tea.Batch(cmd, m.requestAssets())
	}
	return m, nil
}

// pointerAt converts a mouse cell into the screen pixel at its middle.
func pointerAt(msg tea.MouseMsg) PointerEvent {
	return PointerEvent{
		Pos: Point{
			X: (float64(msg.X) + 0.5) * CellWidth,
			Y: (float64(msg.Y) + 0.5) * CellHeight,
		},
		Shift: msg.Shift,
		Ctrl:  msg.Ctrl,
		Alt:   msg.Alt,
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.mode == ModeHelp {
		return
	}
	ev := pointerAt(msg)

	switch msg.Type {
	case tea.MouseLeft:
		// Some terminals report drags as repeated presses.
		if m.pressed {
			m.controller.PointerMove(ev)
			return
		}
		if msg.Y >= m.canvasRows() {
			return
		}
		m.pressed = true
		now := time.Now()
		cell := [2]int{msg.X, msg.Y}
		double := cell == m.lastCell && now.Sub(m.lastClick) <= doubleClickInterval
		m.lastCell, m.lastClick = cell, now

		m.controller.PointerDown(ev)
		if double {
			m.controller.PointerUp(ev)
			m.pressed = false
			m.lastClick = time.Time{}
			m.controller.DoubleClick(ev)
		}
	case tea.MouseMotion:
		if m.pressed {
			m.controller.PointerMove(ev)
		}
	case tea.MouseRelease:
		if m.pressed {
			m.pressed = false
			m.controller.PointerUp(ev)
		}
	case tea.MouseWheelUp:
		m.controller.Zoom(ev, m.config.ZoomStep)
	case tea.MouseWheelDown:
		m.controller.Zoom(ev, 1/m.config.ZoomStep)
	}
}

// keyEventFrom splits a bubbletea key into a key name and modifiers.
func keyEventFrom(msg tea.KeyMsg) KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		text := string(msg.Runes)
		return KeyEvent{Key: text, Text: text, Alt: msg.Alt}
	case tea.KeySpace:
		return KeyEvent{Key: "space", Text: " ", Alt: msg.Alt}
	}

	ev := KeyEvent{Alt: msg.Alt}
	name := strings.TrimPrefix(msg.String(), "alt+")
	for {
		if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
			ev.Ctrl, name = true, rest
			continue
		}
		if rest, ok := strings.CutPrefix(name, "shift+"); ok {
			ev.Shift, name = true, rest
			continue
		}
		break
	}
	ev.Key = name
	return ev
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		switch key {
		case "j", "down":
			m.helpScroll++
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		default:
			m.mode = ModeNormal
			m.helpScroll = 0
		}
		return nil
	case ModePan:
		switch key {
		case "z", "esc", "enter":
			m.mode = ModeNormal
		default:
			m.handlePan(key, m.getMoveSpeed(key))
		}
		return nil
	}

	if m.controller.State() == StateTextEditing {
		m.controller.KeyDown(keyEventFrom(msg))
		return nil
	}

	if tool, ok := toolKeys[key]; ok {
		m.controller.SetTool(tool)
		return nil
	}

	switch key {
	case "q":
		return tea.Quit
	case "?":
		m.mode = ModeHelp
	case "z":
		m.mode = ModePan
	case "+", "=":
		m.handleZoom(true)
	case "-", "_":
		m.handleZoom(false)
	case "0":
		m.editor.Dispatch(SetZoom{Zoom: 1})
		m.editor.Dispatch(SetPan{})
	case "u":
		m.editor.Dispatch(Undo{})
	case "U":
		m.editor.Dispatch(Redo{})
	case "e", "enter":
		m.editSelectedText()
	case "c":
		m.copySelection()
	case "p":
		m.paste()
	case "S":
		return m.exportCmd()
	default:
		m.controller.KeyDown(keyEventFrom(msg))
	}
	return nil
}

// editSelectedText opens the text editor on the last selected text element,
// as if it had been double-clicked at its center.
func (m *model) editSelectedText() {
	scene := m.editor.Scene()
	id, ok := scene.LastSelected()
	if !ok {
		return
	}
	el, _ := scene.Element(id)
	if _, ok := el.Props.(TextProps); !ok {
		return
	}
	pos := CanvasToScreen(el.Bounds().Center(), Point{}, scene.Zoom, scene.Pan)
	m.controller.DoubleClick(PointerEvent{Pos: pos})
}

func (m *model) copySelection() {
	selected := m.editor.Scene().SelectedElements()
	if len(selected) == 0 {
		m.errorMessage = "nothing selected"
		return
	}
	if err := copyElements(selected); err != nil {
		m.errorMessage = err.Error()
		Logger().Warn("copy failed", "err", err)
		return
	}
	m.successMessage = fmt.Sprintf("copied %d element(s)", len(selected))
}

func (m *model) paste() {
	els, err := pastedElements()
	if err != nil {
		m.errorMessage = err.Error()
		Logger().Warn("paste failed", "err", err)
		return
	}
	if len(els) == 0 {
		m.errorMessage = "clipboard is empty"
		return
	}
	m.editor.Dispatch(PasteElements{Elements: els, Offset: Point{X: pasteOffset, Y: pasteOffset}})
}

func (m *model) exportCmd() tea.Cmd {
	path := m.exportName()
	scene := m.editor.Scene()
	assets := m.assets
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: exportPNG(context.Background(), path, scene, assets, 1)}
	}
}

func (m model) modeString() string {
	switch {
	case m.mode == ModeHelp:
		return "HELP"
	case m.mode == ModePan:
		return "PAN"
	default:
		return m.controller.State().String()
	}
}

func (m model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}

	width := m.width
	if width < 1 {
		width = 1
	}
	var overlay *TextOverlay
	if o, ok := m.controller.EditOverlay(); ok {
		overlay = &o
	}
	lines := RenderCells(m.editor.Scene(), width, m.canvasRows(), overlay)
	return strings.Join(lines, "\n") + "\n" + m.statusLine(width)
}

func (m model) statusLine(width int) string {
	scene := m.editor.Scene()
	parts := []string{
		fmt.Sprintf("tool:%s", m.controller.Tool()),
		fmt.Sprintf("zoom:%.0f%%", scene.Zoom*100),
		fmt.Sprintf("sel:%d/%d", len(scene.Selected), len(scene.Elements)),
	}
	if m.editor.CanUndo() {
		parts = append(parts, "u:undo")
	}
	if m.editor.CanRedo() {
		parts = append(parts, "U:redo")
	}
	if m.capture.held {
		parts = append(parts, "grab")
	}
	if m.source != "" {
		parts = append(parts, m.source)
	}

	line := modeStyle.Render(m.modeString()) + " " + strings.Join(parts, "  ")
	switch {
	case m.errorMessage != "":
		line += "  " + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		line += "  " + okStyle.Render(m.successMessage)
	default:
		line += "  ? help"
	}
	return statusStyle.Width(width).MaxWidth(width).MaxHeight(1).Render(line)
}

func (m model) helpView() string {
	helpLines := []string{
		"Poster Help",
		"===========",
		"",
		"Mouse:",
		"------",
		"  click            Select element (ctrl+click adds to selection)",
		"  drag             Move selection, or resize/rotate from a handle",
		"  alt+drag handle  Keep aspect ratio / snap rotation to 15°",
		"  double-click     Edit text",
		"  wheel            Zoom around the pointer",
		"",
		"Tools (next click places the element):",
		"--------------------------------------",
		"  s select  t text  r rectangle  o circle  v triangle",
		"  l line    * star  d decorative",
		"",
		"Editing:",
		"--------",
		"  arrows           Nudge selection (shift for 10px)",
		"  delete           Delete selection",
		"  ] [ } {          Forward, backward, to front, to back",
		"  ctrl+a           Select all",
		"  ctrl+d           Duplicate selection",
		"  e / enter        Edit selected text (enter commits, esc cancels)",
		"  u / ctrl+z       Undo",
		"  U / ctrl+y       Redo",
		"  c / p            Copy / paste through the system clipboard",
		"  esc              Clear selection and tool",
		"",
		"View:",
		"-----",
		"  + / -            Zoom in / out",
		"  0                Reset zoom and pan",
		"  z                Pan mode (h/j/k/l or arrows, z to leave)",
		"",
		"Files:",
		"------",
		"  S                Export PNG to the save directory",
		"  q                Quit",
	}

	rows := m.height - 2
	if rows < 1 {
		rows = len(helpLines)
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	end := start + rows
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return helpStyle.Render(strings.Join(helpLines[start:end], "\n"))
}
