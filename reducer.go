package main

import (
	"reflect"
	"sort"
)

// State is everything the reducer owns: the live scene and its history.
type State struct {
	Scene   Scene
	History History
}

// Action is a scene transition. Every action type implements apply, so a new
// action cannot be dispatched until its transition exists.
type Action interface {
	apply(st State) State
}

// Reduce returns the state after a. It never mutates st; when a changes
// nothing, st itself is returned.
func Reduce(st State, a Action) State {
	if a == nil {
		return st
	}
	return a.apply(st)
}

// record pushes a snapshot of the current scene and returns a state whose
// element and selection slices are private copies, ready to be mutated.
func (st State) record() State {
	st.History = st.History.push(snapshot(st.Scene))
	st.Scene = st.Scene.withElements()
	return st
}

type AddElement struct {
	Element Element
}

type UpdateElement struct {
	ID    string
	Patch Patch
}

type DeleteElement struct {
	IDs []string
}

type MoveElement struct {
	IDs    []string
	DX, DY float64
}

// ResizeElement replaces the box of an element; the caller computes it.
type ResizeElement struct {
	ID            string
	Width, Height float64
	X, Y          float64
}

type RotateElement struct {
	ID       string
	Rotation float64
}

type BringForward struct{ ID string }
type SendBackward struct{ ID string }
type BringToFront struct{ ID string }
type SendToBack struct{ ID string }

// SelectElement replaces the selection with ID, or toggles ID's membership
// when Toggle is set.
type SelectElement struct {
	ID     string
	Toggle bool
}

type ClearSelection struct{}
type SelectAll struct{}

type SetZoom struct{ Zoom float64 }
type SetPan struct{ X, Y float64 }

type Undo struct{}
type Redo struct{}

// PasteElements adds copies of Elements with fresh ids, shifted by Offset,
// stacked above everything else and selected.
type PasteElements struct {
	Elements []Element
	Offset   Point
}

// DuplicateSelection pastes copies of the selected elements.
type DuplicateSelection struct {
	Offset Point
}

// Patch is a shallow update. Nil fields are left alone; Props replaces the
// whole props value when its kind matches the element's.
type Patch struct {
	X, Y          *float64
	Width, Height *float64
	Rotation      *float64
	Opacity       *float64
	Locked        *bool
	Visible       *bool
	ZIndex        *int
	Props         Props
}

func (p Patch) applyTo(el Element) Element {
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.Opacity != nil {
		el.Opacity = *p.Opacity
	}
	if p.Locked != nil {
		el.Locked = *p.Locked
	}
	if p.Visible != nil {
		el.Visible = *p.Visible
	}
	if p.ZIndex != nil {
		el.ZIndex = *p.ZIndex
	}
	if p.Props != nil && el.Props != nil && p.Props.Kind() == el.Props.Kind() {
		el.Props = p.Props.cloneProps()
	}
	el.Normalize()
	return el
}

func (a AddElement) apply(st State) State {
	if a.Element.Props == nil {
		Logger().Warn("add element without props ignored", "id", a.Element.ID)
		return st
	}
	el := a.Element.Clone()
	if el.ID == "" || st.Scene.index(el.ID) >= 0 {
		el.ID = newElementID()
	}
	el.ZIndex = st.Scene.nextZ()
	el.Normalize()

	next := st.record()
	next.Scene.Elements = append(next.Scene.Elements, el)
	next.Scene.Selected = []string{el.ID}
	return next
}

func (a UpdateElement) apply(st State) State {
	i := st.Scene.index(a.ID)
	if i < 0 {
		return st
	}
	updated := a.Patch.applyTo(st.Scene.Elements[i].Clone())
	if reflect.DeepEqual(updated, st.Scene.Elements[i]) {
		return st
	}
	next := st.record()
	next.Scene.Elements[i] = updated
	return next
}

func (a DeleteElement) apply(st State) State {
	doomed := idSet(a.IDs)
	kept := make([]Element, 0, len(st.Scene.Elements))
	for _, el := range st.Scene.Elements {
		if !doomed[el.ID] {
			kept = append(kept, el)
		}
	}
	if len(kept) == len(st.Scene.Elements) {
		return st
	}
	next := st.record()
	next.Scene.Elements = kept
	selected := next.Scene.Selected[:0]
	for _, id := range next.Scene.Selected {
		if !doomed[id] {
			selected = append(selected, id)
		}
	}
	next.Scene.Selected = selected
	return next
}

func (a MoveElement) apply(st State) State {
	if a.DX == 0 && a.DY == 0 || !isFinite(a.DX) || !isFinite(a.DY) {
		return st
	}
	targets := idSet(a.IDs)
	var hit []int
	for i, el := range st.Scene.Elements {
		if targets[el.ID] {
			hit = append(hit, i)
		}
	}
	if len(hit) == 0 {
		return st
	}
	next := st.record()
	for _, i := range hit {
		el := &next.Scene.Elements[i]
		el.X += a.DX
		el.Y += a.DY
		el.Normalize()
	}
	return next
}

func (a ResizeElement) apply(st State) State {
	i := st.Scene.index(a.ID)
	if i < 0 {
		return st
	}
	el := st.Scene.Elements[i]
	el.X, el.Y, el.Width, el.Height = a.X, a.Y, a.Width, a.Height
	el.Normalize()
	if el.Bounds() == st.Scene.Elements[i].Bounds() {
		return st
	}
	next := st.record()
	next.Scene.Elements[i] = el
	return next
}

func (a RotateElement) apply(st State) State {
	i := st.Scene.index(a.ID)
	if i < 0 || !isFinite(a.Rotation) || st.Scene.Elements[i].Rotation == a.Rotation {
		return st
	}
	next := st.record()
	next.Scene.Elements[i].Rotation = a.Rotation
	return next
}

// neighbor finds the element whose zIndex is the closest one strictly above
// (dir > 0) or below (dir < 0) the element at i.
func (s Scene) neighbor(i, dir int) int {
	z := s.Elements[i].ZIndex
	found := -1
	for j, el := range s.Elements {
		if j == i {
			continue
		}
		if dir > 0 && el.ZIndex > z && (found < 0 || el.ZIndex < s.Elements[found].ZIndex) {
			found = j
		}
		if dir < 0 && el.ZIndex < z && (found < 0 || el.ZIndex > s.Elements[found].ZIndex) {
			found = j
		}
	}
	return found
}

func swapZ(st State, id string, dir int) State {
	i := st.Scene.index(id)
	if i < 0 {
		return st
	}
	j := st.Scene.neighbor(i, dir)
	if j < 0 {
		return st
	}
	next := st.record()
	els := next.Scene.Elements
	els[i].ZIndex, els[j].ZIndex = els[j].ZIndex, els[i].ZIndex
	return next
}

func (a BringForward) apply(st State) State { return swapZ(st, a.ID, 1) }
func (a SendBackward) apply(st State) State { return swapZ(st, a.ID, -1) }

func (a BringToFront) apply(st State) State {
	i := st.Scene.index(a.ID)
	if i < 0 {
		return st
	}
	z := st.Scene.Elements[i].ZIndex
	_, hi, _ := st.Scene.zRange()
	if z == hi && !st.Scene.zTaken(i, z) {
		return st
	}
	next := st.record()
	next.Scene.Elements[i].ZIndex = hi + 1
	return next
}

func (a SendToBack) apply(st State) State {
	i := st.Scene.index(a.ID)
	if i < 0 {
		return st
	}
	z := st.Scene.Elements[i].ZIndex
	lo, _, _ := st.Scene.zRange()
	if z == lo && !st.Scene.zTaken(i, z) {
		return st
	}
	next := st.record()
	next.Scene.Elements[i].ZIndex = lo - 1
	return next
}

// zTaken reports whether another element shares zIndex z with the element at i.
func (s Scene) zTaken(i, z int) bool {
	for j, el := range s.Elements {
		if j != i && el.ZIndex == z {
			return true
		}
	}
	return false
}

func (a SelectElement) apply(st State) State {
	if st.Scene.index(a.ID) < 0 {
		return st
	}
	if !a.Toggle {
		if len(st.Scene.Selected) == 1 && st.Scene.Selected[0] == a.ID {
			return st
		}
		st.Scene.Selected = []string{a.ID}
		return st
	}
	selected := make([]string, 0, len(st.Scene.Selected)+1)
	removed := false
	for _, id := range st.Scene.Selected {
		if id == a.ID {
			removed = true
			continue
		}
		selected = append(selected, id)
	}
	if !removed {
		selected = append(selected, a.ID)
	}
	st.Scene.Selected = selected
	return st
}

func (ClearSelection) apply(st State) State {
	if len(st.Scene.Selected) == 0 {
		return st
	}
	st.Scene.Selected = nil
	return st
}

func (SelectAll) apply(st State) State {
	var selected []string
	for _, el := range paintOrder(st.Scene.Elements) {
		if el.Visible && !el.Locked {
			selected = append(selected, el.ID)
		}
	}
	st.Scene.Selected = selected
	return st
}

func (a SetZoom) apply(st State) State {
	if !(a.Zoom > 0) || !isFinite(a.Zoom) {
		return st
	}
	st.Scene.Zoom = clamp(a.Zoom, MinZoom, MaxZoom)
	return st
}

func (a SetPan) apply(st State) State {
	if !isFinite(a.X) || !isFinite(a.Y) {
		return st
	}
	st.Scene.Pan = Point{X: a.X, Y: a.Y}
	return st
}

func (Undo) apply(st State) State { return undo(st) }
func (Redo) apply(st State) State { return redo(st) }

func (a PasteElements) apply(st State) State {
	var incoming []Element
	for _, el := range a.Elements {
		if el.Props != nil {
			incoming = append(incoming, el.Clone())
		}
	}
	if len(incoming) == 0 {
		return st
	}
	sort.SliceStable(incoming, func(i, j int) bool {
		return incoming[i].ZIndex < incoming[j].ZIndex
	})
	z := st.Scene.nextZ()

	next := st.record()
	next.Scene.Selected = make([]string, 0, len(incoming))
	for _, el := range incoming {
		el.ID = newElementID()
		el.X += a.Offset.X
		el.Y += a.Offset.Y
		el.ZIndex = z
		z++
		el.Normalize()
		next.Scene.Elements = append(next.Scene.Elements, el)
		next.Scene.Selected = append(next.Scene.Selected, el.ID)
	}
	return next
}

func (a DuplicateSelection) apply(st State) State {
	return PasteElements{Elements: st.Scene.SelectedElements(), Offset: a.Offset}.apply(st)
}
