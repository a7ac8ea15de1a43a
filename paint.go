package main

// HandleMark is one transform handle placed in canvas space.
type HandleMark struct {
	Handle Handle
	Rect   Rect
}

// PaintItem is an element ready to be painted.
type PaintItem struct {
	Element     Element
	Selected    bool
	Interactive bool
	Handles     []HandleMark
}

// Frame is the renderer-independent projection of a scene: what to paint
// and in which order.
type Frame struct {
	Width  float64
	Height float64
	Zoom   float64
	Pan    Point
	Items  []PaintItem
}

// Project lists the visible elements of s back to front. Selected, unlocked
// elements carry their handles, sized for the scene zoom.
func Project(s Scene) Frame {
	frame := Frame{Width: s.Width, Height: s.Height, Zoom: s.Zoom, Pan: s.Pan}
	for _, el := range paintOrder(s.Elements) {
		if !el.Visible {
			continue
		}
		item := PaintItem{
			Element:     el,
			Selected:    s.IsSelected(el.ID),
			Interactive: !el.Locked,
		}
		if item.Selected && item.Interactive {
			item.Handles = HandleRects(el.Bounds(), s.Zoom)
		}
		frame.Items = append(frame.Items, item)
	}
	return frame
}

// ImageSources lists every image reference in s that a renderer may need.
func ImageSources(s Scene) []string {
	var srcs []string
	seen := map[string]bool{}
	add := func(src string) {
		if src != "" && !seen[src] {
			seen[src] = true
			srcs = append(srcs, src)
		}
	}
	for _, el := range s.Elements {
		switch p := el.Props.(type) {
		case ImageProps:
			add(p.Src)
		case BackgroundProps:
			add(p.ImageSrc)
		}
	}
	return srcs
}
