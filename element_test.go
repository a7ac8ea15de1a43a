package main

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestNewElementDefaults(t *testing.T) {
	el := NewElement(TextProps{Content: "hello"})
	if el.Width != 100 || el.Height != 100 || el.Opacity != 1 || !el.Visible {
		t.Fatalf("unexpected defaults: %+v", el)
	}
	p := el.Props.(TextProps)
	if p.FontSize != 16 || p.LineHeight != 1.2 {
		t.Fatalf("expected font defaults, got size=%v lineHeight=%v", p.FontSize, p.LineHeight)
	}
	if el.Kind() != KindText {
		t.Fatalf("expected text kind, got %q", el.Kind())
	}
}

func TestNormalizeRepairsGeometry(t *testing.T) {
	el := Element{
		X:        math.NaN(),
		Y:        math.Inf(-1),
		Width:    2,
		Height:   math.NaN(),
		Rotation: math.Inf(1),
		Opacity:  -1,
		Props:    ShapeProps{StrokeWidth: -3},
	}
	el.Normalize()

	if el.X != 0 || el.Y != 0 || el.Rotation != 0 {
		t.Fatalf("expected finite position, got %+v", el)
	}
	if el.Width != MinSize || el.Height != MinSize {
		t.Fatalf("expected size floored at %v, got %vx%v", MinSize, el.Width, el.Height)
	}
	if el.Opacity != 0 {
		t.Fatalf("expected opacity clamped to 0, got %v", el.Opacity)
	}
	p := el.Props.(ShapeProps)
	if p.Variant != ShapeRectangle || p.StrokeWidth != 0 || p.StarPoints != 5 {
		t.Fatalf("unexpected shape defaults: %+v", p)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	el := NewElement(ShapeProps{Variant: ShapePolygon, Points: []Vertex{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 50, Y: 100}}})
	cp := el.Clone()
	cp.Props.(ShapeProps).Points[0].X = 42
	if el.Props.(ShapeProps).Points[0].X != 0 {
		t.Fatalf("expected clone to own its points")
	}

	bg := NewElement(BackgroundProps{Gradient: &Gradient{Type: "linear", Stops: []GradientStop{{Offset: 0, Color: "#000"}}}})
	bgCopy := bg.Clone()
	bgCopy.Props.(BackgroundProps).Gradient.Stops[0].Color = "#fff"
	if bg.Props.(BackgroundProps).Gradient.Stops[0].Color != "#000" {
		t.Fatalf("expected clone to own its gradient")
	}
}

func TestElementJSONRoundTrip(t *testing.T) {
	el := NewElement(ImageProps{Src: "cat.png", Fit: "cover", Crop: &Rect{X: 1, Y: 2, Width: 30, Height: 40}})
	el.ID, el.X, el.Y, el.Rotation, el.ZIndex = "img", 10, 20, 45, 3

	data, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"image"`) {
		t.Fatalf("expected kind tag in %s", data)
	}

	var back Element
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p, ok := back.Props.(ImageProps)
	if !ok {
		t.Fatalf("expected ImageProps, got %T", back.Props)
	}
	if back.ID != "img" || back.ZIndex != 3 || back.Rotation != 45 || p.Crop == nil || p.Crop.Width != 30 {
		t.Fatalf("round trip lost data: %+v %+v", back, p)
	}
}

func TestElementJSONDefaultsAndErrors(t *testing.T) {
	var el Element
	if err := json.Unmarshal([]byte(`{"kind":"shape","x":1,"y":2,"width":30,"height":40,"zIndex":0}`), &el); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if el.Opacity != 1 || !el.Visible {
		t.Fatalf("expected omitted opacity/visible to default on, got %v %v", el.Opacity, el.Visible)
	}
	if _, ok := el.Props.(ShapeProps); !ok {
		t.Fatalf("expected ShapeProps, got %T", el.Props)
	}

	if err := json.Unmarshal([]byte(`{"kind":"hologram"}`), &el); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := json.Marshal(Element{ID: "x"}); err == nil {
		t.Fatalf("expected error marshaling an element without props")
	}
}

func TestNewEditorSanitizesInitialElements(t *testing.T) {
	initial := []Element{
		shapeAt("dup", 0, 0, 4),
		shapeAt("dup", 0, 0, 2),
		shapeAt("", 0, 0, 1),
		{ID: "bare", Width: 10, Height: 10},
	}
	initial[0].Width = -5

	e := NewEditor(0, math.NaN(), initial)
	s := e.Scene()
	if s.Width != defaultCanvasWidth || s.Height != defaultCanvasHeight {
		t.Fatalf("expected default canvas size, got %vx%v", s.Width, s.Height)
	}
	if len(s.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(s.Elements))
	}
	seen := map[string]bool{}
	for _, el := range s.Elements {
		if el.ID == "" || seen[el.ID] {
			t.Fatalf("expected unique ids, got %q", el.ID)
		}
		seen[el.ID] = true
	}
	if s.Elements[0].Width != MinSize || s.Elements[1].ZIndex != 2 {
		t.Fatalf("expected geometry normalized and zIndex kept, got %+v", s.Elements[:2])
	}
	if s.Zoom != 1 || len(s.Selected) != 0 || e.CanUndo() {
		t.Fatalf("expected fresh viewport and history")
	}

	initial[1].X = 999
	if e.Scene().Elements[1].X == 999 {
		t.Fatalf("expected editor to copy initial elements")
	}
}
