package main

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ScreenToCanvas converts a pointer position to canvas space:
// canvas = (screen - origin) / zoom - pan.
func ScreenToCanvas(screen, origin Point, zoom float64, pan Point) Point {
	return Point{
		X: (screen.X-origin.X)/zoom - pan.X,
		Y: (screen.Y-origin.Y)/zoom - pan.Y,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func CanvasToScreen(canvas, origin Point, zoom float64, pan Point) Point {
	return Point{
		X: (canvas.X+pan.X)*zoom + origin.X,
		Y: (canvas.Y+pan.Y)*zoom + origin.Y,
	}
}

// DragDelta converts the screen movement between two consecutive pointer
// positions into a canvas-space delta.
func DragDelta(prev, cur Point, zoom float64) (dx, dy float64) {
	return (cur.X - prev.X) / zoom, (cur.Y - prev.Y) / zoom
}

// ZoomAt returns the pan that keeps the canvas point under pointer fixed
// when the zoom changes to newZoom.
func ZoomAt(zoom, newZoom float64, pointer, origin, pan Point) Point {
	anchor := ScreenToCanvas(pointer, origin, zoom, pan)
	return Point{
		X: (pointer.X-origin.X)/newZoom - anchor.X,
		Y: (pointer.Y-origin.Y)/newZoom - anchor.Y,
	}
}

// handleAxes says how each resize handle moves the box: -1 drags the
// leading edge (x or y), +1 drags the trailing edge, 0 leaves the axis alone.
var handleAxes = map[Handle][2]int{
	HandleNW: {-1, -1},
	HandleN:  {0, -1},
	HandleNE: {1, -1},
	HandleE:  {1, 0},
	HandleSE: {1, 1},
	HandleS:  {0, 1},
	HandleSW: {-1, 1},
	HandleW:  {-1, 0},
}

// Resize computes the box produced by dragging handle h by (dx, dy) canvas
// units from the gesture start. The edges not attached to the handle stay
// where they were at gesture start. With keepRatio the start aspect ratio is
// preserved: corner handles follow the dominant axis of movement, edge
// handles their own axis. Width and height are floored at MinSize.
func Resize(start Rect, h Handle, dx, dy float64, keepRatio bool) Rect {
	axes, ok := handleAxes[h]
	if !ok {
		return start
	}
	sx, sy := axes[0], axes[1]

	w := start.Width + float64(sx)*dx
	ht := start.Height + float64(sy)*dy

	if keepRatio && start.Width > 0 && start.Height > 0 {
		ratio := start.Width / start.Height
		switch {
		case sx != 0 && sy != 0:
			if math.Abs(dx) >= math.Abs(dy) {
				ht = w / ratio
			} else {
				w = ht * ratio
			}
		case sx != 0:
			ht = w / ratio
		case sy != 0:
			w = ht * ratio
		}
		// Floor the shorter side so the ratio survives the minimum.
		if minW := MinSize * math.Max(1, ratio); !(w >= minW) {
			w, ht = minW, minW/ratio
		}
	}

	w = math.Max(finiteOr(w, MinSize), MinSize)
	ht = math.Max(finiteOr(ht, MinSize), MinSize)

	out := Rect{X: start.X, Y: start.Y, Width: w, Height: ht}
	if sx < 0 {
		out.X = start.X + start.Width - w
	}
	if sy < 0 {
		out.Y = start.Y + start.Height - ht
	}
	return out
}

// ResizeRotated is Resize for a box turned by rotation degrees about its
// centre. from and to are canvas points of the drag; the point the handle
// pulls away from keeps its place on the canvas.
func ResizeRotated(start Rect, h Handle, from, to Point, rotation float64, keepRatio bool) Rect {
	if rotation == 0 {
		return Resize(start, h, to.X-from.X, to.Y-from.Y, keepRatio)
	}
	c := start.Center()
	a := rotateAround(from, c, -rotation)
	b := rotateAround(to, c, -rotation)
	r := Resize(start, h, b.X-a.X, b.Y-a.Y, keepRatio)

	before := rotateAround(resizeAnchor(start, h), c, rotation)
	after := rotateAround(resizeAnchor(r, h), r.Center(), rotation)
	r.X += before.X - after.X
	r.Y += before.Y - after.Y
	return r
}

// resizeAnchor is the point of r opposite handle h.
func resizeAnchor(r Rect, h Handle) Point {
	axes := handleAxes[h]
	p := r.Center()
	switch axes[0] {
	case 1:
		p.X = r.X
	case -1:
		p.X = r.X + r.Width
	}
	switch axes[1] {
	case 1:
		p.Y = r.Y
	case -1:
		p.Y = r.Y + r.Height
	}
	return p
}

// RotationAngle returns the rotation in degrees after the pointer moved from
// start to cur around center, relative to startRotation. With snap the
// result is rounded to the nearest SnapDegrees.
func RotationAngle(center, start, cur Point, startRotation float64, snap bool) float64 {
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	a1 := math.Atan2(cur.Y-center.Y, cur.X-center.X)
	deg := startRotation + (a1-a0)*180/math.Pi
	if snap {
		deg = math.Round(deg/SnapDegrees) * SnapDegrees
	}
	return deg
}

// NormalizeDegrees maps an angle into [0, 360) for display.
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func rotateAround(p, c Point, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// HandleRects places the eight resize handles and the rotation handle around
// the unrotated box r. Each handle is HandleSize screen pixels wide.
func HandleRects(r Rect, zoom float64) []HandleMark {
	return handleRectsSized(r, zoom, HandleSize)
}

// handleRectsSized is HandleRects with handles px screen pixels wide.
func handleRectsSized(r Rect, zoom, px float64) []HandleMark {
	if zoom <= 0 {
		zoom = 1
	}
	size := px / zoom
	half := size / 2
	left, top := r.X, r.Y
	right, bottom := r.X+r.Width, r.Y+r.Height
	midX, midY := r.X+r.Width/2, r.Y+r.Height/2

	at := func(h Handle, x, y float64) HandleMark {
		return HandleMark{Handle: h, Rect: Rect{X: x - half, Y: y - half, Width: size, Height: size}}
	}
	return []HandleMark{
		at(HandleNW, left, top),
		at(HandleN, midX, top),
		at(HandleNE, right, top),
		at(HandleE, right, midY),
		at(HandleSE, right, bottom),
		at(HandleS, midX, bottom),
		at(HandleSW, left, bottom),
		at(HandleW, left, midY),
		at(HandleRotate, midX, top-RotateHandleOffset/zoom),
	}
}

// HitTest returns the id of the topmost visible, unlocked element under p.
func HitTest(s Scene, p Point) string {
	order := paintOrder(s.Elements)
	for i := len(order) - 1; i >= 0; i-- {
		el := order[i]
		if !el.Visible || el.Locked {
			continue
		}
		if el.ContainsPoint(p) {
			return el.ID
		}
	}
	return ""
}

// HandleAt finds a transform handle of a selected element under p. Handles
// turn with their element; those of elements painted later win.
func HandleAt(s Scene, p Point) (string, Handle) {
	return handleAtSize(s, p, HandleSize)
}

// handleAtSize is HandleAt with hit boxes px screen pixels wide.
func handleAtSize(s Scene, p Point, px float64) (string, Handle) {
	order := paintOrder(s.Elements)
	for i := len(order) - 1; i >= 0; i-- {
		el := order[i]
		if !el.Visible || el.Locked || !s.IsSelected(el.ID) {
			continue
		}
		local := p
		if el.Rotation != 0 {
			local = rotateAround(p, el.Bounds().Center(), -el.Rotation)
		}
		for _, mark := range handleRectsSized(el.Bounds(), s.Zoom, px) {
			if mark.Rect.Contains(local) {
				return el.ID, mark.Handle
			}
		}
	}
	return "", HandleNone
}
