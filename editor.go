package main

import "fmt"

// Editor is the host-facing boundary of the poster core: it owns the
// current State and funnels every change through Reduce.
type Editor struct {
	state State
}

type EditorOption func(*Editor)

// WithHistoryLimit caps the number of undo entries. Zero keeps them all.
func WithHistoryLimit(n int) EditorOption {
	return func(e *Editor) {
		if n > 0 {
			e.state.History.Limit = n
		}
	}
}

// NewEditor creates an editor for a width x height canvas holding initial.
// Initial elements keep their zIndex; ids are generated where missing or
// duplicated, and elements without props are dropped.
func NewEditor(width, height float64, initial []Element, opts ...EditorOption) *Editor {
	if !(width > 0) || !isFinite(width) {
		width = defaultCanvasWidth
	}
	if !(height > 0) || !isFinite(height) {
		height = defaultCanvasHeight
	}
	scene := NewScene(width, height)
	seen := make(map[string]bool, len(initial))
	for _, el := range initial {
		if el.Props == nil {
			Logger().Warn("dropping initial element without props", "id", el.ID)
			continue
		}
		el = el.Clone()
		if el.ID == "" || seen[el.ID] {
			el.ID = newElementID()
		}
		seen[el.ID] = true
		el.Normalize()
		scene.Elements = append(scene.Elements, el)
	}

	e := &Editor{state: State{Scene: scene}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) State() State { return e.state }
func (e *Editor) Scene() Scene { return e.state.Scene }

func (e *Editor) CanUndo() bool { return e.state.History.CanUndo() }
func (e *Editor) CanRedo() bool { return e.state.History.CanRedo() }

// Dispatch runs a through the reducer. A panicking transition leaves the
// state untouched and is logged; Dispatch itself never panics.
func (e *Editor) Dispatch(a Action) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("action failed", "action", fmt.Sprintf("%T", a), "panic", r)
		}
	}()
	e.state = Reduce(e.state, a)
}
