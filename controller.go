package main

import (
	"strings"
)

// PointerEvent is a pointer position in screen pixels plus held modifiers.
type PointerEvent struct {
	Pos   Point
	Shift bool
	Ctrl  bool
	Meta  bool
	Alt   bool
}

// multiSelect reports whether the event toggles selection membership.
func (ev PointerEvent) multiSelect() bool { return ev.Shift || ev.Ctrl || ev.Meta }

// constrain reports whether resizes keep their ratio and rotations snap.
func (ev PointerEvent) constrain() bool { return ev.Shift || ev.Alt }

// KeyEvent is a key press. Key names a key ("delete", "left", "z"); Text
// carries typed characters.
type KeyEvent struct {
	Key   string
	Text  string
	Shift bool
	Ctrl  bool
	Meta  bool
	Alt   bool
}

// PointerCapture is the host side of a gesture: while captured, pointer
// moves and releases must reach the controller even outside the canvas.
type PointerCapture interface {
	Capture()
	Release()
}

// gesture is the session of one pointer-down to pointer-up interaction.
type gesture struct {
	state         InteractionState
	ids           []string
	handle        Handle
	start         Rect
	startRotation float64
	startPointer  Point
	last          Point
}

// TextOverlay is the in-progress text of an element being edited.
type TextOverlay struct {
	ID     string
	Text   string
	Cursor int
}

// Controller turns pointer and keyboard events into editor actions.
type Controller struct {
	editor  *Editor
	origin  Point
	tool    Tool
	state   InteractionState
	session *gesture
	edit    *TextOverlay
	capture PointerCapture
	// handleHit is the handle hit box width in screen pixels.
	handleHit float64
}

type ControllerOption func(*Controller)

// WithHandleHitSize widens handle hit boxes to px screen pixels for hosts
// whose pointer is coarser than a handle. Sizes below HandleSize are ignored.
func WithHandleHitSize(px float64) ControllerOption {
	return func(c *Controller) {
		if px > HandleSize && isFinite(px) {
			c.handleHit = px
		}
	}
}

func NewController(editor *Editor, capture PointerCapture, opts ...ControllerOption) *Controller {
	c := &Controller{editor: editor, capture: capture, handleHit: HandleSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() InteractionState { return c.state }
func (c *Controller) Tool() Tool              { return c.tool }

// SetOrigin moves the canvas origin on screen.
func (c *Controller) SetOrigin(p Point) { c.origin = p }

func (c *Controller) SetTool(t Tool) {
	if c.state == StateIdle {
		c.tool = t
	}
}

// EditOverlay returns the text being edited, if any.
func (c *Controller) EditOverlay() (TextOverlay, bool) {
	if c.edit == nil {
		return TextOverlay{}, false
	}
	return *c.edit, true
}

func (c *Controller) toCanvas(screen Point) Point {
	s := c.editor.Scene()
	return ScreenToCanvas(screen, c.origin, s.Zoom, s.Pan)
}

func (c *Controller) begin(g *gesture) {
	c.session = g
	c.state = g.state
	if c.capture != nil {
		c.capture.Capture()
	}
}

// release ends the active gesture, if any, and returns to Idle.
func (c *Controller) release() {
	if c.session == nil {
		return
	}
	c.session = nil
	c.state = StateIdle
	if c.capture != nil {
		c.capture.Release()
	}
}

func (c *Controller) PointerDown(ev PointerEvent) {
	if c.state == StateTextEditing {
		c.CommitText()
	}
	if c.state != StateIdle {
		return
	}

	p := c.toCanvas(ev.Pos)
	if c.tool != ToolSelect {
		c.insert(p)
		return
	}

	scene := c.editor.Scene()
	if id, h := handleAtSize(scene, p, c.handleHit); id != "" {
		el, _ := scene.Element(id)
		c.begin(&gesture{
			state:         StateTransforming,
			ids:           []string{id},
			handle:        h,
			start:         el.Bounds(),
			startRotation: el.Rotation,
			startPointer:  p,
			last:          ev.Pos,
		})
		return
	}

	id := HitTest(scene, p)
	if id == "" {
		if !ev.multiSelect() {
			c.editor.Dispatch(ClearSelection{})
		}
		return
	}
	if !scene.IsSelected(id) {
		c.editor.Dispatch(SelectElement{ID: id, Toggle: ev.multiSelect()})
	}

	var ids []string
	for _, el := range c.editor.Scene().SelectedElements() {
		if !el.Locked {
			ids = append(ids, el.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	c.begin(&gesture{state: StateDragging, ids: ids, last: ev.Pos})
}

func (c *Controller) PointerMove(ev PointerEvent) {
	g := c.session
	if g == nil {
		return
	}
	scene := c.editor.Scene()

	switch g.state {
	case StateDragging:
		dx, dy := DragDelta(g.last, ev.Pos, scene.Zoom)
		g.last = ev.Pos
		if dx != 0 || dy != 0 {
			c.editor.Dispatch(MoveElement{IDs: g.ids, DX: dx, DY: dy})
		}
	case StateTransforming:
		g.last = ev.Pos
		p := c.toCanvas(ev.Pos)
		id := g.ids[0]
		if g.handle == HandleRotate {
			rot := RotationAngle(g.start.Center(), g.startPointer, p, g.startRotation, ev.constrain())
			c.editor.Dispatch(RotateElement{ID: id, Rotation: rot})
			return
		}
		r := ResizeRotated(g.start, g.handle, g.startPointer, p, g.startRotation, ev.constrain())
		c.editor.Dispatch(ResizeElement{ID: id, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
	}
}

// PointerUp ends any drag or transform.
func (c *Controller) PointerUp(PointerEvent) {
	c.release()
}

// Cancel handles a lost pointer: the gesture ends as if released.
func (c *Controller) Cancel() {
	c.release()
}

func (c *Controller) DoubleClick(ev PointerEvent) {
	if c.state != StateIdle || c.tool != ToolSelect {
		return
	}
	scene := c.editor.Scene()
	id := HitTest(scene, c.toCanvas(ev.Pos))
	if id == "" {
		return
	}
	el, _ := scene.Element(id)
	text, ok := el.Props.(TextProps)
	if !ok {
		return
	}
	if !scene.IsSelected(id) {
		c.editor.Dispatch(SelectElement{ID: id})
	}
	c.edit = &TextOverlay{ID: id, Text: text.Content, Cursor: len([]rune(text.Content))}
	c.state = StateTextEditing
}

// CommitText writes the overlay text back into its element.
func (c *Controller) CommitText() {
	if c.edit == nil {
		return
	}
	edit := *c.edit
	c.edit = nil
	c.state = StateIdle

	el, ok := c.editor.Scene().Element(edit.ID)
	if !ok {
		return
	}
	text, ok := el.Props.(TextProps)
	if !ok || text.Content == edit.Text {
		return
	}
	text.Content = edit.Text
	c.editor.Dispatch(UpdateElement{ID: edit.ID, Patch: Patch{Props: text}})
}

// CancelText drops the overlay without touching the element.
func (c *Controller) CancelText() {
	if c.edit == nil {
		return
	}
	c.edit = nil
	c.state = StateIdle
}

func (c *Controller) KeyDown(ev KeyEvent) {
	if c.state == StateTextEditing {
		c.editKey(ev)
		return
	}

	scene := c.editor.Scene()
	mod := ev.Ctrl || ev.Meta
	key := strings.ToLower(ev.Key)

	switch {
	case mod && key == "z" && ev.Shift:
		c.editor.Dispatch(Redo{})
	case mod && key == "z":
		c.editor.Dispatch(Undo{})
	case mod && key == "y":
		c.editor.Dispatch(Redo{})
	case mod && key == "a":
		c.editor.Dispatch(SelectAll{})
	case mod && key == "d":
		c.editor.Dispatch(DuplicateSelection{Offset: Point{X: pasteOffset, Y: pasteOffset}})
	case key == "delete" || key == "backspace":
		if len(scene.Selected) > 0 {
			c.editor.Dispatch(DeleteElement{IDs: append([]string(nil), scene.Selected...)})
		}
	case key == "escape" || key == "esc":
		c.tool = ToolSelect
		c.editor.Dispatch(ClearSelection{})
	case key == "left" || key == "right" || key == "up" || key == "down":
		c.nudge(key, ev.Shift)
	case key == "]" || key == "[" || key == "}" || key == "{":
		c.reorder(key)
	}
}

func (c *Controller) nudge(key string, large bool) {
	scene := c.editor.Scene()
	if len(scene.Selected) == 0 || c.state != StateIdle {
		return
	}
	step := nudgeStep
	if large {
		step = nudgeStepLarge
	}
	var dx, dy float64
	switch key {
	case "left":
		dx = -step
	case "right":
		dx = step
	case "up":
		dy = -step
	case "down":
		dy = step
	}
	var ids []string
	for _, el := range scene.SelectedElements() {
		if !el.Locked {
			ids = append(ids, el.ID)
		}
	}
	c.editor.Dispatch(MoveElement{IDs: ids, DX: dx, DY: dy})
}

func (c *Controller) reorder(key string) {
	id, ok := c.editor.Scene().LastSelected()
	if !ok {
		return
	}
	switch key {
	case "]":
		c.editor.Dispatch(BringForward{ID: id})
	case "[":
		c.editor.Dispatch(SendBackward{ID: id})
	case "}":
		c.editor.Dispatch(BringToFront{ID: id})
	case "{":
		c.editor.Dispatch(SendToBack{ID: id})
	}
}

func (c *Controller) editKey(ev KeyEvent) {
	e := c.edit
	runes := []rune(e.Text)
	switch strings.ToLower(ev.Key) {
	case "enter":
		if ev.Alt || ev.Shift {
			c.insertText("\n")
			return
		}
		c.CommitText()
	case "escape", "esc":
		c.CancelText()
	case "backspace":
		if e.Cursor > 0 {
			e.Text = string(append(runes[:e.Cursor-1:e.Cursor-1], runes[e.Cursor:]...))
			e.Cursor--
		}
	case "delete":
		if e.Cursor < len(runes) {
			e.Text = string(append(runes[:e.Cursor:e.Cursor], runes[e.Cursor+1:]...))
		}
	case "left":
		if e.Cursor > 0 {
			e.Cursor--
		}
	case "right":
		if e.Cursor < len(runes) {
			e.Cursor++
		}
	case "home":
		e.Cursor = 0
	case "end":
		e.Cursor = len(runes)
	default:
		if ev.Text != "" && !ev.Ctrl && !ev.Meta {
			c.insertText(ev.Text)
		}
	}
}

func (c *Controller) insertText(s string) {
	e := c.edit
	runes := []rune(e.Text)
	ins := []rune(s)
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:e.Cursor]...)
	out = append(out, ins...)
	out = append(out, runes[e.Cursor:]...)
	e.Text = string(out)
	e.Cursor += len(ins)
}

// Zoom scales the view by factor around the pointer.
func (c *Controller) Zoom(ev PointerEvent, factor float64) {
	scene := c.editor.Scene()
	next := clamp(scene.Zoom*factor, MinZoom, MaxZoom)
	if next == scene.Zoom {
		return
	}
	pan := ZoomAt(scene.Zoom, next, ev.Pos, c.origin, scene.Pan)
	c.editor.Dispatch(SetZoom{Zoom: next})
	c.editor.Dispatch(SetPan{X: pan.X, Y: pan.Y})
}

// insert places a new element for the active tool at p, then goes back to
// the select tool.
func (c *Controller) insert(p Point) {
	el, ok := elementForTool(c.tool, p)
	c.tool = ToolSelect
	if ok {
		c.editor.Dispatch(AddElement{Element: el})
	}
}

func elementForTool(t Tool, p Point) (Element, bool) {
	var el Element
	switch t {
	case ToolText:
		el = NewElement(TextProps{Content: "Text", FontSize: 32, Color: "#111111", Align: "left"})
		el.Width, el.Height = 240, 48
	case ToolRectangle:
		el = NewElement(ShapeProps{Variant: ShapeRectangle, Fill: "#4f46e5"})
		el.Width, el.Height = 160, 100
	case ToolCircle:
		el = NewElement(ShapeProps{Variant: ShapeCircle, Fill: "#f59e0b"})
	case ToolTriangle:
		el = NewElement(ShapeProps{Variant: ShapeTriangle, Fill: "#10b981"})
	case ToolLine:
		el = NewElement(ShapeProps{Variant: ShapeLine, Stroke: "#111111", StrokeWidth: 4})
		el.Width, el.Height = 200, MinSize
	case ToolStar:
		el = NewElement(ShapeProps{Variant: ShapeStar, Fill: "#ef4444", StarPoints: 5})
	case ToolDecorative:
		el = NewElement(DecorativeProps{Pattern: "confetti", Density: 0.5})
		el.Width, el.Height = 200, 200
	default:
		return Element{}, false
	}
	el.X, el.Y = p.X, p.Y
	el.Normalize()
	return el, true
}
