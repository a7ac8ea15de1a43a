package main

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type cell struct {
	ch rune
	fg string
	bg string
}

// cellGrid is a terminal sized raster. Each cell samples the canvas at the
// screen pixel in its middle.
type cellGrid struct {
	cols, rows int
	zoom       float64
	pan        Point
	cells      [][]cell
}

func newCellGrid(cols, rows int, zoom float64, pan Point) *cellGrid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if zoom <= 0 {
		zoom = 1
	}
	g := &cellGrid{cols: cols, rows: rows, zoom: zoom, pan: pan}
	g.cells = make([][]cell, rows)
	for y := range g.cells {
		g.cells[y] = make([]cell, cols)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{ch: ' '}
		}
	}
	return g
}

func (g *cellGrid) sample(col, row int) Point {
	screen := Point{X: (float64(col) + 0.5) * CellWidth, Y: (float64(row) + 0.5) * CellHeight}
	return ScreenToCanvas(screen, Point{}, g.zoom, g.pan)
}

func (g *cellGrid) cellAt(p Point) (col, row int) {
	s := CanvasToScreen(p, Point{}, g.zoom, g.pan)
	return int(math.Floor(s.X / CellWidth)), int(math.Floor(s.Y / CellHeight))
}

func (g *cellGrid) set(col, row int, c cell) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	if c.bg == "" {
		c.bg = g.cells[row][col].bg
	}
	g.cells[row][col] = c
}

// span returns the cell range covering r after rotation by deg.
func (g *cellGrid) span(r Rect, deg float64) (c0, r0, c1, r1 int) {
	c := r.Center()
	corners := []Point{
		{X: r.X, Y: r.Y}, {X: r.X + r.Width, Y: r.Y},
		{X: r.X, Y: r.Y + r.Height}, {X: r.X + r.Width, Y: r.Y + r.Height},
	}
	c0, r0 = math.MaxInt, math.MaxInt
	c1, r1 = math.MinInt, math.MinInt
	for _, p := range corners {
		col, row := g.cellAt(rotateAround(p, c, deg))
		c0, r0 = min(c0, col), min(r0, row)
		c1, r1 = max(c1, col), max(r1, row)
	}
	return max(c0, 0), max(r0, 0), min(c1, g.cols-1), min(r1, g.rows-1)
}

// cellColor converts a CSS-ish color into a hex string lipgloss understands.
// Transparent or unknown colors yield "".
func cellColor(s string) string {
	c, ok := colorful.MakeColor(parseColor(s, color.Transparent))
	if !ok {
		return ""
	}
	return c.Hex()
}

// RenderCells draws s as rows of styled terminal text. overlay, when non-nil,
// replaces the content of the text element being edited and shows a cursor.
func RenderCells(s Scene, cols, rows int, overlay *TextOverlay) []string {
	g := newCellGrid(cols, rows, s.Zoom, s.Pan)
	g.drawPage(s.Width, s.Height)

	frame := Project(s)
	for _, item := range frame.Items {
		g.drawElement(item.Element, overlay)
	}
	for _, item := range frame.Items {
		if item.Selected {
			g.drawSelection(item.Element, item.Handles)
		}
	}
	return g.lines()
}

func (g *cellGrid) drawPage(w, h float64) {
	c0, r0 := g.cellAt(Point{})
	c1, r1 := g.cellAt(Point{X: w, Y: h})
	c0, r0 = c0-1, r0-1
	frame := "#4b5563"
	for x := c0; x <= c1; x++ {
		g.set(x, r0, cell{ch: '-', fg: frame})
		g.set(x, r1, cell{ch: '-', fg: frame})
	}
	for y := r0; y <= r1; y++ {
		g.set(c0, y, cell{ch: '|', fg: frame})
		g.set(c1, y, cell{ch: '|', fg: frame})
	}
	for _, corner := range [][2]int{{c0, r0}, {c1, r0}, {c0, r1}, {c1, r1}} {
		g.set(corner[0], corner[1], cell{ch: '+', fg: frame})
	}
}

func (g *cellGrid) drawElement(el Element, overlay *TextOverlay) {
	if el.Opacity <= 0 {
		return
	}
	if p, ok := el.Props.(TextProps); ok {
		g.drawText(el, p, overlay)
		return
	}

	c0, r0, c1, r1 := g.span(el.Bounds(), el.Rotation)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			p := g.sample(col, row)
			if !el.ContainsPoint(p) {
				continue
			}
			if c, ok := g.glyph(el, p, col, row); ok {
				g.set(col, row, c)
			}
		}
	}
}

// glyph picks the cell for canvas point p inside el.
func (g *cellGrid) glyph(el Element, p Point, col, row int) (cell, bool) {
	switch props := el.Props.(type) {
	case BackgroundProps:
		bg := cellColor(props.Color)
		if props.Gradient != nil && len(props.Gradient.Stops) > 0 {
			bg = cellColor(props.Gradient.Stops[0].Color)
		}
		return cell{ch: ' ', bg: bg}, true
	case ShapeProps:
		return g.shapeGlyph(el, props, p)
	case ImageProps:
		return cell{ch: '▒', fg: "#9ca3af"}, true
	case DecorativeProps:
		fg := cellColor(props.Color)
		if fg == "" {
			fg = "#334155"
		}
		switch strings.ToLower(props.Pattern) {
		case "stripes":
			return cell{ch: '╱', fg: fg}, true
		case "grid":
			return cell{ch: '┼', fg: fg}, true
		case "confetti":
			if props.Color == "" {
				if c, ok := colorful.MakeColor(confettiColor(float64((col*37 + row*91) % 360))); ok {
					fg = c.Hex()
				}
			}
			return cell{ch: '*', fg: fg}, (col+row)%2 == 0
		default:
			return cell{ch: '·', fg: fg}, true
		}
	}
	return cell{}, false
}

func (g *cellGrid) shapeGlyph(el Element, p ShapeProps, at Point) (cell, bool) {
	fill, stroke := cellColor(p.Fill), cellColor(p.Stroke)
	b := el.Bounds()
	c := b.Center()
	local := rotateAround(at, c, -el.Rotation)

	switch p.Variant {
	case ShapeLine:
		if stroke == "" {
			stroke = fill
		}
		if math.Abs(local.Y-c.Y) > CellHeight/(2*g.zoom) {
			return cell{}, false
		}
		return cell{ch: '─', fg: stroke}, true
	case ShapeCircle:
		dx := (local.X - c.X) / (b.Width / 2)
		dy := (local.Y - c.Y) / (b.Height / 2)
		if dx*dx+dy*dy > 1 {
			return cell{}, false
		}
	case ShapeTriangle:
		// Apex at the top middle, base along the bottom edge.
		t := (local.Y - b.Y) / b.Height
		if math.Abs(local.X-c.X) > t*b.Width/2 {
			return cell{}, false
		}
	}

	switch {
	case fill != "":
		return cell{ch: '█', fg: fill}, true
	case stroke != "":
		return cell{ch: '░', fg: stroke}, true
	}
	return cell{}, false
}

func (g *cellGrid) drawText(el Element, p TextProps, overlay *TextOverlay) {
	content := p.Content
	cursor := -1
	if overlay != nil && overlay.ID == el.ID {
		content, cursor = overlay.Text, overlay.Cursor
	}

	c0, r0 := g.cellAt(Point{X: el.X, Y: el.Y})
	c1, r1 := g.cellAt(Point{X: el.X + el.Width, Y: el.Y + el.Height})
	width := max(c1-c0, 1)
	lines, curLine, curCol := layoutCells(content, width, cursor)

	fg := cellColor(p.Color)
	if fg == "" {
		fg = "#111827"
	}
	for i, line := range lines {
		if r0+i > r1 && cursor < 0 {
			break
		}
		offset := 0
		switch strings.ToLower(p.Align) {
		case "center":
			offset = (width - len(line)) / 2
		case "right":
			offset = width - len(line)
		}
		for j, ch := range line {
			g.set(c0+offset+j, r0+i, cell{ch: ch, fg: fg})
		}
		if i == curLine {
			g.set(c0+offset+curCol, r0+i, cell{ch: '█', fg: "#2563eb"})
		}
	}
}

// layoutCells hard-wraps text at width columns and locates the rune index
// cursor in the wrapped lines. A negative cursor yields (-1, -1).
func layoutCells(text string, width, cursor int) (lines [][]rune, curLine, curCol int) {
	curLine, curCol = -1, -1
	line := []rune{}
	idx := 0
	for _, ch := range text {
		if ch != '\n' && len(line) == width {
			lines = append(lines, line)
			line = []rune{}
		}
		if idx == cursor {
			curLine, curCol = len(lines), len(line)
		}
		idx++
		if ch == '\n' {
			lines = append(lines, line)
			line = []rune{}
			continue
		}
		line = append(line, ch)
	}
	if idx == cursor {
		if len(line) == width {
			lines = append(lines, line)
			line = []rune{}
		}
		curLine, curCol = len(lines), len(line)
	}
	lines = append(lines, line)
	return lines, curLine, curCol
}

func (g *cellGrid) drawSelection(el Element, handles []HandleMark) {
	const accent = "#2563eb"
	if el.Rotation != 0 {
		g.traceOutline(el, cell{ch: '#', fg: accent})
	} else {
		g.drawOutline(el, cell{ch: '#', fg: accent})
	}

	center := el.Bounds().Center()
	for _, h := range handles {
		col, row := g.cellAt(rotateAround(h.Rect.Center(), center, el.Rotation))
		switch h.Handle {
		case HandleRotate:
			g.set(col, row, cell{ch: '●', fg: accent})
		case HandleNW, HandleNE, HandleSE, HandleSW:
			// Corners already sit on the outline.
		default:
			g.set(col, row, cell{ch: '■', fg: accent})
		}
	}
}

// drawOutline frames an unrotated element one cell outside its box.
func (g *cellGrid) drawOutline(el Element, mark cell) {
	c0, r0 := g.cellAt(Point{X: el.X, Y: el.Y})
	c1, r1 := g.cellAt(Point{X: el.X + el.Width, Y: el.Y + el.Height})
	c0, r0 = c0-1, r0-1
	for x := c0; x <= c1; x++ {
		g.set(x, r0, mark)
		g.set(x, r1, mark)
	}
	for y := r0; y <= r1; y++ {
		g.set(c0, y, mark)
		g.set(c1, y, mark)
	}
}

// traceOutline marks the cells under the edges of a rotated element.
func (g *cellGrid) traceOutline(el Element, mark cell) {
	b := el.Bounds()
	c := b.Center()
	corners := []Point{
		{X: b.X, Y: b.Y}, {X: b.X + b.Width, Y: b.Y},
		{X: b.X + b.Width, Y: b.Y + b.Height}, {X: b.X, Y: b.Y + b.Height},
	}
	step := CellWidth / (2 * g.zoom)
	for i, from := range corners {
		to := corners[(i+1)%len(corners)]
		n := int(math.Ceil(math.Hypot(to.X-from.X, to.Y-from.Y) / step))
		for k := 0; k <= n; k++ {
			t := float64(k) / float64(max(n, 1))
			p := Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
			col, row := g.cellAt(rotateAround(p, c, el.Rotation))
			g.set(col, row, mark)
		}
	}
}

// lines flattens the grid into one string per row, styling runs of cells
// that share colors.
func (g *cellGrid) lines() []string {
	out := make([]string, g.rows)
	for y, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bg == row[start].bg {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.ch)
			}
			b.WriteString(styleFor(row[start]).Render(string(run)))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

func styleFor(c cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.fg != "" {
		style = style.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		style = style.Background(lipgloss.Color(c.bg))
	}
	return style
}
