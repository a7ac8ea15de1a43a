package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

type Kind string

const (
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindShape      Kind = "shape"
	KindDecorative Kind = "decorative"
	KindBackground Kind = "background"
)

// Props holds the kind-specific attributes of an element. The set of
// implementations is closed: TextProps, ImageProps, ShapeProps,
// DecorativeProps and BackgroundProps.
type Props interface {
	Kind() Kind
	cloneProps() Props
	normalized() Props
}

type Element struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	Opacity  float64
	Locked   bool
	Visible  bool
	ZIndex   int
	Props    Props
}

type TextProps struct {
	Content       string  `json:"content"`
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	FontWeight    string  `json:"fontWeight,omitempty"`
	FontStyle     string  `json:"fontStyle,omitempty"`
	Align         string  `json:"align,omitempty"`
	Color         string  `json:"color,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strike        bool    `json:"strike,omitempty"`
}

type ImageProps struct {
	Src    string `json:"src"`
	Fit    string `json:"fit,omitempty"`
	Crop   *Rect  `json:"crop,omitempty"`
	Filter string `json:"filter,omitempty"`
}

type ShapeVariant string

const (
	ShapeRectangle ShapeVariant = "rectangle"
	ShapeCircle    ShapeVariant = "circle"
	ShapeTriangle  ShapeVariant = "triangle"
	ShapeLine      ShapeVariant = "line"
	ShapePolygon   ShapeVariant = "polygon"
	ShapeStar      ShapeVariant = "star"
)

// Vertex is a polygon corner expressed as percentages of the element box.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ShapeProps struct {
	Variant      ShapeVariant `json:"variant"`
	Fill         string       `json:"fill,omitempty"`
	Stroke       string       `json:"stroke,omitempty"`
	StrokeWidth  float64      `json:"strokeWidth,omitempty"`
	CornerRadius float64      `json:"cornerRadius,omitempty"`
	Points       []Vertex     `json:"points,omitempty"`
	StarPoints   int          `json:"starPoints,omitempty"`
}

type DecorativeProps struct {
	Pattern string  `json:"pattern"`
	Density float64 `json:"density"`
	Color   string  `json:"color,omitempty"`
}

type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

type Gradient struct {
	Type  string         `json:"type"`
	Angle float64        `json:"angle,omitempty"`
	Stops []GradientStop `json:"stops"`
}

type BackgroundProps struct {
	Color    string    `json:"color,omitempty"`
	ImageSrc string    `json:"imageSrc,omitempty"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

func (TextProps) Kind() Kind       { return KindText }
func (ImageProps) Kind() Kind      { return KindImage }
func (ShapeProps) Kind() Kind      { return KindShape }
func (DecorativeProps) Kind() Kind { return KindDecorative }
func (BackgroundProps) Kind() Kind { return KindBackground }

func (p TextProps) cloneProps() Props { return p }

func (p ImageProps) cloneProps() Props {
	if p.Crop != nil {
		crop := *p.Crop
		p.Crop = &crop
	}
	return p
}

func (p ShapeProps) cloneProps() Props {
	if p.Points != nil {
		p.Points = append([]Vertex(nil), p.Points...)
	}
	return p
}

func (p DecorativeProps) cloneProps() Props { return p }

func (p BackgroundProps) cloneProps() Props {
	if p.Gradient != nil {
		g := *p.Gradient
		g.Stops = append([]GradientStop(nil), g.Stops...)
		p.Gradient = &g
	}
	return p
}

func (p TextProps) normalized() Props {
	if !(p.FontSize > 0) || math.IsInf(p.FontSize, 0) {
		p.FontSize = 16
	}
	if !(p.LineHeight > 0) || math.IsInf(p.LineHeight, 0) {
		p.LineHeight = 1.2
	}
	p.LetterSpacing = finiteOr(p.LetterSpacing, 0)
	return p
}

func (p ImageProps) normalized() Props {
	if p.Crop != nil {
		c := *p.Crop
		c.X, c.Y = finiteOr(c.X, 0), finiteOr(c.Y, 0)
		c.Width, c.Height = finiteOr(c.Width, 0), finiteOr(c.Height, 0)
		if c.Width <= 0 || c.Height <= 0 {
			p.Crop = nil
		} else {
			p.Crop = &c
		}
	}
	return p
}

func (p ShapeProps) normalized() Props {
	if p.Variant == "" {
		p.Variant = ShapeRectangle
	}
	p.StrokeWidth = math.Max(finiteOr(p.StrokeWidth, 0), 0)
	p.CornerRadius = math.Max(finiteOr(p.CornerRadius, 0), 0)
	if p.StarPoints < 3 {
		p.StarPoints = 5
	}
	return p
}

func (p DecorativeProps) normalized() Props {
	p.Density = clamp(finiteOr(p.Density, 0.5), 0, 1)
	return p
}

func (p BackgroundProps) normalized() Props {
	if p.Gradient != nil && !isFinite(p.Gradient.Angle) {
		g := *p.Gradient
		g.Angle = 0
		p.Gradient = &g
	}
	return p
}

// NewElement returns a visible, fully opaque element of the given props with
// a default 100x100 box at the origin.
func NewElement(props Props) Element {
	el := Element{
		Width:   100,
		Height:  100,
		Opacity: 1,
		Visible: true,
		Props:   props,
	}
	el.Normalize()
	return el
}

func (e Element) Kind() Kind {
	if e.Props == nil {
		return ""
	}
	return e.Props.Kind()
}

func (e Element) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Clone returns a copy that shares no mutable state with e.
func (e Element) Clone() Element {
	if e.Props != nil {
		e.Props = e.Props.cloneProps()
	}
	return e
}

// Normalize makes every geometry field finite, floors the size at MinSize
// and clamps opacity into [0,1].
func (e *Element) Normalize() {
	e.X = finiteOr(e.X, 0)
	e.Y = finiteOr(e.Y, 0)
	e.Width = math.Max(finiteOr(e.Width, MinSize), MinSize)
	e.Height = math.Max(finiteOr(e.Height, MinSize), MinSize)
	e.Rotation = finiteOr(e.Rotation, 0)
	e.Opacity = clamp(finiteOr(e.Opacity, 1), 0, 1)
	if e.Props != nil {
		e.Props = e.Props.normalized()
	}
}

// ContainsPoint reports whether p falls inside the element's rotated box.
func (e Element) ContainsPoint(p Point) bool {
	r := e.Bounds()
	if e.Rotation != 0 {
		p = rotateAround(p, r.Center(), -e.Rotation)
	}
	return r.Contains(p)
}

func newElementID() string {
	return "el-" + uuid.NewString()
}

type elementJSON struct {
	ID       string          `json:"id,omitempty"`
	Kind     Kind            `json:"kind"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Rotation float64         `json:"rotation,omitempty"`
	Opacity  *float64        `json:"opacity,omitempty"`
	Locked   bool            `json:"locked,omitempty"`
	Visible  *bool           `json:"visible,omitempty"`
	ZIndex   int             `json:"zIndex"`
	Props    json.RawMessage `json:"props,omitempty"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	if e.Props == nil {
		return nil, fmt.Errorf("element %q has no props", e.ID)
	}
	props, err := json.Marshal(e.Props)
	if err != nil {
		return nil, err
	}
	opacity, visible := e.Opacity, e.Visible
	return json.Marshal(elementJSON{
		ID:       e.ID,
		Kind:     e.Kind(),
		X:        e.X,
		Y:        e.Y,
		Width:    e.Width,
		Height:   e.Height,
		Rotation: e.Rotation,
		Opacity:  &opacity,
		Locked:   e.Locked,
		Visible:  &visible,
		ZIndex:   e.ZIndex,
		Props:    props,
	})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props, err := decodeProps(raw.Kind, raw.Props)
	if err != nil {
		return err
	}
	*e = Element{
		ID:       raw.ID,
		X:        raw.X,
		Y:        raw.Y,
		Width:    raw.Width,
		Height:   raw.Height,
		Rotation: raw.Rotation,
		Opacity:  1,
		Visible:  true,
		Locked:   raw.Locked,
		ZIndex:   raw.ZIndex,
		Props:    props,
	}
	if raw.Opacity != nil {
		e.Opacity = *raw.Opacity
	}
	if raw.Visible != nil {
		e.Visible = *raw.Visible
	}
	return nil
}

func decodeProps(kind Kind, data json.RawMessage) (Props, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	var (
		props Props
		err   error
	)
	switch kind {
	case KindText:
		var p TextProps
		err = json.Unmarshal(data, &p)
		props = p
	case KindImage:
		var p ImageProps
		err = json.Unmarshal(data, &p)
		props = p
	case KindShape:
		var p ShapeProps
		err = json.Unmarshal(data, &p)
		props = p
	case KindDecorative:
		var p DecorativeProps
		err = json.Unmarshal(data, &p)
		props = p
	case KindBackground:
		var p BackgroundProps
		err = json.Unmarshal(data, &p)
		props = p
	default:
		return nil, fmt.Errorf("unknown element kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s props: %w", kind, err)
	}
	return props, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOr(v, fallback float64) float64 {
	if !isFinite(v) {
		return fallback
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
