package main

import (
	"hash/fnv"
	"image"
	"image/color"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

type RasterOptions struct {
	// Scale is output pixels per canvas unit; zero means 1.
	Scale float64
	// Handles paints selection outlines and transform handles.
	Handles bool
	// Background fills the canvas before painting; nil means white.
	Background color.Color
}

type rasterizer struct {
	assets *AssetCache
	scale  float64
	width  int
	height int
}

// Rasterize paints s into an image of the canvas size times opts.Scale.
func Rasterize(s Scene, assets *AssetCache, opts RasterOptions) image.Image {
	return renderContext(s, assets, opts).Image()
}

// ExportPNG writes the scene as a PNG without selection handles.
func ExportPNG(w io.Writer, s Scene, assets *AssetCache, scale float64) error {
	return renderContext(s, assets, RasterOptions{Scale: scale}).EncodePNG(w)
}

func renderContext(s Scene, assets *AssetCache, opts RasterOptions) *gg.Context {
	scale := opts.Scale
	if !(scale > 0) || !isFinite(scale) {
		scale = 1
	}
	r := &rasterizer{
		assets: assets,
		scale:  scale,
		width:  int(math.Max(1, math.Ceil(s.Width*scale))),
		height: int(math.Max(1, math.Ceil(s.Height*scale))),
	}

	dc := gg.NewContext(r.width, r.height)
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()
	dc.Scale(scale, scale)

	frame := Project(s)
	for _, item := range frame.Items {
		r.paint(dc, item.Element)
	}
	if opts.Handles {
		for _, item := range frame.Items {
			if !item.Selected {
				continue
			}
			// Handles are sized for the output, not the editor zoom.
			var handles []HandleMark
			if item.Handles != nil {
				handles = HandleRects(item.Element.Bounds(), scale)
			}
			r.paintSelection(dc, item.Element, handles)
		}
	}
	return dc
}

// paint draws one element, going through an offscreen layer when the
// element is translucent.
func (r *rasterizer) paint(dc *gg.Context, el Element) {
	if el.Opacity <= 0 {
		return
	}
	if el.Opacity >= 1 {
		r.paintElement(dc, el)
		return
	}

	layer := gg.NewContext(r.width, r.height)
	layer.Scale(r.scale, r.scale)
	r.paintElement(layer, el)

	dst, ok := dc.Image().(xdraw.Image)
	if !ok {
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(el.Opacity * 255))})
	xdraw.DrawMask(dst, dst.Bounds(), layer.Image(), image.Point{}, mask, image.Point{}, xdraw.Over)
}

func (r *rasterizer) paintElement(dc *gg.Context, el Element) {
	dc.Push()
	defer dc.Pop()

	if el.Rotation != 0 {
		c := el.Bounds().Center()
		dc.RotateAbout(gg.Radians(el.Rotation), c.X, c.Y)
	}

	switch p := el.Props.(type) {
	case BackgroundProps:
		r.paintBackground(dc, el, p)
	case ShapeProps:
		r.paintShape(dc, el, p)
	case TextProps:
		r.paintText(dc, el, p)
	case ImageProps:
		r.paintImage(dc, el, p)
	case DecorativeProps:
		r.paintDecorative(dc, el, p)
	default:
		Logger().Warn("no painter for element", "id", el.ID, "kind", el.Kind())
	}
}

func (r *rasterizer) lookup(src string) (AssetStatus, image.Image) {
	if r.assets == nil || src == "" {
		return AssetMissing, nil
	}
	return r.assets.Lookup(src)
}

func (r *rasterizer) paintBackground(dc *gg.Context, el Element, p BackgroundProps) {
	b := el.Bounds()
	filled := false
	if g := p.Gradient; g != nil && len(g.Stops) >= 2 {
		dc.SetFillStyle(gradientPattern(b, g, r.scale))
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		dc.Fill()
		filled = true
	} else if p.Color != "" {
		dc.SetColor(parseColor(p.Color, color.White))
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		dc.Fill()
		filled = true
	}

	if p.ImageSrc == "" {
		return
	}
	status, img := r.lookup(p.ImageSrc)
	switch {
	case status == AssetLoaded:
		drawFitted(dc, img, b, "cover")
	case !filled:
		r.paintPlaceholder(dc, b, status == AssetBroken)
	}
}

// gradientPattern builds a gradient in device pixels; gg samples patterns
// without applying the current matrix.
func gradientPattern(b Rect, g *Gradient, scale float64) gg.Pattern {
	b = Rect{X: b.X * scale, Y: b.Y * scale, Width: b.Width * scale, Height: b.Height * scale}
	c := b.Center()
	var grad gg.Gradient
	if strings.EqualFold(g.Type, "radial") {
		grad = gg.NewRadialGradient(c.X, c.Y, 0, c.X, c.Y, math.Max(b.Width, b.Height)/2)
	} else {
		// 0 degrees points up, angles grow clockwise.
		sin, cos := math.Sincos(gg.Radians(g.Angle))
		half := math.Abs(b.Width/2*sin) + math.Abs(b.Height/2*cos)
		grad = gg.NewLinearGradient(c.X-sin*half, c.Y+cos*half, c.X+sin*half, c.Y-cos*half)
	}
	for _, stop := range g.Stops {
		grad.AddColorStop(clamp(stop.Offset, 0, 1), parseColor(stop.Color, color.Black))
	}
	return grad
}

func (r *rasterizer) paintShape(dc *gg.Context, el Element, p ShapeProps) {
	b := el.Bounds()
	c := b.Center()
	switch p.Variant {
	case ShapeCircle:
		dc.DrawEllipse(c.X, c.Y, b.Width/2, b.Height/2)
	case ShapeTriangle:
		polygonPath(dc, b, []Vertex{{X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}})
	case ShapeLine:
		stroke := p.Stroke
		if stroke == "" {
			stroke = p.Fill
		}
		width := p.StrokeWidth
		if width <= 0 {
			width = 2
		}
		dc.SetColor(parseColor(stroke, color.Black))
		dc.SetLineWidth(width * r.scale)
		dc.DrawLine(b.X, c.Y, b.X+b.Width, c.Y)
		dc.Stroke()
		return
	case ShapePolygon:
		pts := p.Points
		if len(pts) < 3 {
			pts = regularVertices(6)
		}
		polygonPath(dc, b, pts)
	case ShapeStar:
		polygonPath(dc, b, starVertices(p.StarPoints, 0.5))
	default:
		if p.CornerRadius > 0 {
			radius := math.Min(p.CornerRadius, math.Min(b.Width, b.Height)/2)
			dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, radius)
		} else {
			dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		}
	}

	if p.Fill != "" {
		dc.SetColor(parseColor(p.Fill, color.Black))
		dc.FillPreserve()
	}
	if p.Stroke != "" && p.StrokeWidth > 0 {
		dc.SetColor(parseColor(p.Stroke, color.Black))
		dc.SetLineWidth(p.StrokeWidth * r.scale)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func polygonPath(dc *gg.Context, b Rect, pts []Vertex) {
	for i, v := range pts {
		x := b.X + b.Width*v.X/100
		y := b.Y + b.Height*v.Y/100
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

// regularVertices returns an n-gon inscribed in the unit box, in percent.
func regularVertices(n int) []Vertex {
	pts := make([]Vertex, n)
	for i := range pts {
		a := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		pts[i] = Vertex{X: 50 + 50*math.Cos(a), Y: 50 + 50*math.Sin(a)}
	}
	return pts
}

func starVertices(points int, inner float64) []Vertex {
	pts := make([]Vertex, 0, points*2)
	for i := 0; i < points*2; i++ {
		radius := 50.0
		if i%2 == 1 {
			radius *= inner
		}
		a := math.Pi*float64(i)/float64(points) - math.Pi/2
		pts = append(pts, Vertex{X: 50 + radius*math.Cos(a), Y: 50 + radius*math.Sin(a)})
	}
	return pts
}

func (r *rasterizer) paintText(dc *gg.Context, el Element, p TextProps) {
	face := fonts.face(p)
	if face == nil {
		return
	}
	dc.SetFontFace(face)

	lines := wrapText(dc, p.Content, el.Width, p.LetterSpacing)
	step := p.FontSize * p.LineHeight
	ascent := float64(face.Metrics().Ascent) / 64
	ink := parseColor(p.Color, color.Black)

	for i, line := range lines {
		w := measureLine(dc, line, p.LetterSpacing)
		x := el.X
		switch strings.ToLower(p.Align) {
		case "center":
			x += (el.Width - w) / 2
		case "right":
			x += el.Width - w
		}
		baseline := el.Y + float64(i)*step + (step-p.FontSize)/2 + ascent

		dc.SetColor(ink)
		drawLine(dc, line, x, baseline, p.LetterSpacing)

		if p.Underline || p.Strike {
			dc.SetLineWidth(math.Max(1, p.FontSize/15) * r.scale)
			if p.Underline {
				y := baseline + p.FontSize*0.1
				dc.DrawLine(x, y, x+w, y)
				dc.Stroke()
			}
			if p.Strike {
				y := baseline - p.FontSize*0.3
				dc.DrawLine(x, y, x+w, y)
				dc.Stroke()
			}
		}
	}
}

// wrapText splits content on newlines and wraps each paragraph to width.
func wrapText(dc *gg.Context, content string, width, spacing float64) []string {
	var lines []string
	for _, para := range strings.Split(content, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		words := strings.Fields(para)
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if line != "" && measureLine(dc, candidate, spacing) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func measureLine(dc *gg.Context, s string, spacing float64) float64 {
	w, _ := dc.MeasureString(s)
	if n := len([]rune(s)); spacing != 0 && n > 1 {
		w += spacing * float64(n-1)
	}
	return w
}

func drawLine(dc *gg.Context, s string, x, baseline, spacing float64) {
	if spacing == 0 {
		dc.DrawString(s, x, baseline)
		return
	}
	for _, ch := range s {
		glyph := string(ch)
		dc.DrawString(glyph, x, baseline)
		w, _ := dc.MeasureString(glyph)
		x += w + spacing
	}
}

func (r *rasterizer) paintImage(dc *gg.Context, el Element, p ImageProps) {
	status, img := r.lookup(p.Src)
	if status != AssetLoaded {
		r.paintPlaceholder(dc, el.Bounds(), status == AssetBroken)
		return
	}
	img = cropImage(img, p.Crop)
	img = applyFilter(img, p.Filter)
	drawFitted(dc, img, el.Bounds(), p.Fit)
}

func cropImage(img image.Image, crop *Rect) image.Image {
	if crop == nil {
		return img
	}
	b := img.Bounds()
	rect := image.Rect(
		b.Min.X+int(crop.X), b.Min.Y+int(crop.Y),
		b.Min.X+int(crop.X+crop.Width), b.Min.Y+int(crop.Y+crop.Height),
	).Intersect(b)
	if rect.Empty() {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(out, image.Point{}, img, rect, xdraw.Src, nil)
	return out
}

// applyFilter understands space separated grayscale, sepia, invert and
// brightness(n) filters.
func applyFilter(img image.Image, filter string) image.Image {
	filter = strings.TrimSpace(strings.ToLower(filter))
	if filter == "" || filter == "none" {
		return img
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(out, image.Point{}, img, b, xdraw.Src, nil)

	for _, f := range strings.Fields(filter) {
		name, arg := f, 1.0
		if open := strings.IndexByte(f, '('); open > 0 && strings.HasSuffix(f, ")") {
			name = f[:open]
			raw := strings.TrimSuffix(f[open+1:len(f)-1], "%")
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				arg = v
				if strings.HasSuffix(f, "%)") {
					arg /= 100
				}
			}
		}
		mapPixels(out, pixelFilter(name, arg))
	}
	return out
}

func pixelFilter(name string, amount float64) func(r, g, b float64) (float64, float64, float64) {
	mix := func(a, b float64) float64 { return a + (b-a)*clamp(amount, 0, 1) }
	switch name {
	case "grayscale":
		return func(r, g, b float64) (float64, float64, float64) {
			y := 0.2126*r + 0.7152*g + 0.0722*b
			return mix(r, y), mix(g, y), mix(b, y)
		}
	case "sepia":
		return func(r, g, b float64) (float64, float64, float64) {
			sr := 0.393*r + 0.769*g + 0.189*b
			sg := 0.349*r + 0.686*g + 0.168*b
			sb := 0.272*r + 0.534*g + 0.131*b
			return mix(r, sr), mix(g, sg), mix(b, sb)
		}
	case "invert":
		return func(r, g, b float64) (float64, float64, float64) {
			return mix(r, 255-r), mix(g, 255-g), mix(b, 255-b)
		}
	case "brightness":
		return func(r, g, b float64) (float64, float64, float64) {
			return r * amount, g * amount, b * amount
		}
	default:
		Logger().Debug("unknown image filter", "filter", name)
		return nil
	}
}

func mapPixels(img *image.NRGBA, fn func(r, g, b float64) (float64, float64, float64)) {
	if fn == nil {
		return
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b := fn(float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2]))
		img.Pix[i] = uint8(clamp(r, 0, 255))
		img.Pix[i+1] = uint8(clamp(g, 0, 255))
		img.Pix[i+2] = uint8(clamp(b, 0, 255))
	}
}

// drawFitted places img inside box following the object-fit mode.
func drawFitted(dc *gg.Context, img image.Image, box Rect, fit string) {
	ib := img.Bounds()
	iw, ih := float64(ib.Dx()), float64(ib.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	sx, sy := box.Width/iw, box.Height/ih
	switch strings.ToLower(fit) {
	case "contain":
		s := math.Min(sx, sy)
		sx, sy = s, s
	case "cover":
		s := math.Max(sx, sy)
		sx, sy = s, s
	case "none":
		sx, sy = 1, 1
	}

	dc.Push()
	defer dc.Pop()
	dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	dc.Clip()
	dc.Translate(box.X+(box.Width-iw*sx)/2, box.Y+(box.Height-ih*sy)/2)
	dc.Scale(sx, sy)
	dc.DrawImage(img, -ib.Min.X, -ib.Min.Y)
}

func (r *rasterizer) paintPlaceholder(dc *gg.Context, b Rect, broken bool) {
	dc.SetColor(color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff})
	dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	dc.Fill()
	if !broken {
		return
	}
	dc.SetColor(color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff})
	dc.SetLineWidth(r.scale)
	dc.DrawLine(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
	dc.DrawLine(b.X+b.Width, b.Y, b.X, b.Y+b.Height)
	dc.Stroke()
}

// elementSeed gives decorative patterns a layout that is stable per element.
func elementSeed(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}

func (r *rasterizer) paintDecorative(dc *gg.Context, el Element, p DecorativeProps) {
	b := el.Bounds()
	dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	dc.Clip()

	ink := parseColor(p.Color, color.NRGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff})
	spacing := 48 - 40*p.Density
	seed := elementSeed(el.ID)
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	switch strings.ToLower(p.Pattern) {
	case "stripes":
		dc.SetColor(ink)
		dc.SetLineWidth(spacing * 0.3 * r.scale)
		for t := -b.Height; t < b.Width; t += spacing {
			dc.DrawLine(b.X+t, b.Y+b.Height, b.X+t+b.Height, b.Y)
			dc.Stroke()
		}
	case "grid":
		dc.SetColor(ink)
		dc.SetLineWidth(r.scale)
		for x := b.X; x <= b.X+b.Width; x += spacing {
			dc.DrawLine(x, b.Y, x, b.Y+b.Height)
			dc.Stroke()
		}
		for y := b.Y; y <= b.Y+b.Height; y += spacing {
			dc.DrawLine(b.X, y, b.X+b.Width, y)
			dc.Stroke()
		}
	case "confetti":
		n := int(p.Density*b.Width*b.Height/600) + 1
		for i := 0; i < n; i++ {
			x := b.X + rng.Float64()*b.Width
			y := b.Y + rng.Float64()*b.Height
			size := 4 + rng.Float64()*6
			if p.Color != "" {
				dc.SetColor(ink)
			} else {
				dc.SetColor(confettiColor(rng.Float64() * 360))
			}
			dc.Push()
			dc.RotateAbout(rng.Float64()*math.Pi, x, y)
			dc.DrawRectangle(x-size/2, y-size/4, size, size/2)
			dc.Fill()
			dc.Pop()
		}
	default:
		dc.SetColor(ink)
		radius := spacing * 0.18
		for y := b.Y + spacing/2; y < b.Y+b.Height; y += spacing {
			for x := b.X + spacing/2; x < b.X+b.Width; x += spacing {
				dc.DrawCircle(x, y, radius)
			}
		}
		dc.Fill()
	}
}

func (r *rasterizer) paintSelection(dc *gg.Context, el Element, handles []HandleMark) {
	accent := color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	b := el.Bounds()

	dc.Push()
	defer dc.Pop()
	if el.Rotation != 0 {
		c := b.Center()
		dc.RotateAbout(gg.Radians(el.Rotation), c.X, c.Y)
	}

	dc.SetColor(accent)
	dc.SetLineWidth(1)
	dc.SetDash(4, 3)
	dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	dc.Stroke()
	dc.SetDash()

	for _, h := range handles {
		hr := h.Rect
		if h.Handle == HandleRotate {
			c := hr.Center()
			dc.SetColor(withAlpha(accent, 0.6))
			dc.DrawLine(c.X, c.Y+hr.Height/2, c.X, b.Y)
			dc.Stroke()
			dc.DrawCircle(c.X, c.Y, hr.Width/2)
		} else {
			dc.DrawRectangle(hr.X, hr.Y, hr.Width, hr.Height)
		}
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(accent)
		dc.Stroke()
	}
}
