package main

import "sort"

// Scene is the editable document: canvas bounds, elements in insertion
// order, the selection (oldest first) and the viewport.
type Scene struct {
	Width    float64
	Height   float64
	Elements []Element
	Selected []string
	Zoom     float64
	Pan      Point
}

func NewScene(width, height float64) Scene {
	return Scene{
		Width:  width,
		Height: height,
		Zoom:   1,
	}
}

func (s Scene) index(id string) int {
	for i, el := range s.Elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

func (s Scene) Element(id string) (Element, bool) {
	if i := s.index(id); i >= 0 {
		return s.Elements[i], true
	}
	return Element{}, false
}

func (s Scene) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// LastSelected returns the most recently selected id.
func (s Scene) LastSelected() (string, bool) {
	if len(s.Selected) == 0 {
		return "", false
	}
	return s.Selected[len(s.Selected)-1], true
}

func (s Scene) SelectedElements() []Element {
	out := make([]Element, 0, len(s.Selected))
	for _, id := range s.Selected {
		if el, ok := s.Element(id); ok {
			out = append(out, el)
		}
	}
	return out
}

// SelectionBounds returns the union of the selected elements' boxes.
func (s Scene) SelectionBounds() Rect {
	var r Rect
	for _, el := range s.SelectedElements() {
		r = r.Union(el.Bounds())
	}
	return r
}

func (s Scene) zRange() (lo, hi int, ok bool) {
	for i, el := range s.Elements {
		if i == 0 || el.ZIndex < lo {
			lo = el.ZIndex
		}
		if i == 0 || el.ZIndex > hi {
			hi = el.ZIndex
		}
	}
	return lo, hi, len(s.Elements) > 0
}

// nextZ is the zIndex that stacks a new element above the rest: 0 in an
// empty scene, otherwise one above the highest zIndex and never below 1.
func (s Scene) nextZ() int {
	_, hi, ok := s.zRange()
	if !ok {
		return 0
	}
	return max(hi, 0) + 1
}

// withElements returns a copy of s whose element and selection slices can be
// written without touching s.
func (s Scene) withElements() Scene {
	s.Elements = append([]Element(nil), s.Elements...)
	s.Selected = append([]string(nil), s.Selected...)
	return s
}

// paintOrder sorts a copy of elements ascending by zIndex, ties kept in
// insertion order.
func paintOrder(elements []Element) []Element {
	order := append([]Element(nil), elements...)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].ZIndex < order[j].ZIndex
	})
	return order
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
