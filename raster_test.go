package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func rgbAt(img image.Image, x, y int) (r, g, b uint8) {
	cr, cg, cb, _ := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}

func closeTo(got, want uint8, tol int) bool {
	d := int(got) - int(want)
	return d >= -tol && d <= tol
}

func sceneOf(w, h float64, els ...Element) Scene {
	s := NewScene(w, h)
	s.Elements = els
	return s
}

func rect(id, fill string, x, y, w, h float64, z int) Element {
	el := NewElement(ShapeProps{Variant: ShapeRectangle, Fill: fill})
	el.ID, el.X, el.Y, el.Width, el.Height, el.ZIndex = id, x, y, w, h, z
	return el
}

func TestRasterizeShapesInZOrder(t *testing.T) {
	s := sceneOf(100, 100,
		rect("blue", "#0000ff", 30, 30, 40, 40, 2),
		rect("red", "#ff0000", 10, 10, 50, 50, 1),
	)
	img := Rasterize(s, nil, RasterOptions{})

	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("expected 100x100, got %v", b)
	}
	if r, g, b := rgbAt(img, 20, 20); r != 255 || g != 0 || b != 0 {
		t.Fatalf("expected red at (20,20), got %d,%d,%d", r, g, b)
	}
	if r, g, b := rgbAt(img, 50, 50); r != 0 || g != 0 || b != 255 {
		t.Fatalf("expected blue on top at (50,50), got %d,%d,%d", r, g, b)
	}
	if r, g, b := rgbAt(img, 90, 90); r != 255 || g != 255 || b != 255 {
		t.Fatalf("expected white background at (90,90), got %d,%d,%d", r, g, b)
	}
}

func TestRasterizeScale(t *testing.T) {
	s := sceneOf(100, 50, rect("red", "#ff0000", 10, 10, 20, 20, 0))
	img := Rasterize(s, nil, RasterOptions{Scale: 2})
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("expected 200x100, got %v", b)
	}
	if r, _, _ := rgbAt(img, 50, 50); r != 255 {
		t.Fatalf("expected red at scaled (50,50)")
	}
	if _, g, _ := rgbAt(img, 70, 70); g != 255 {
		t.Fatalf("expected white outside the scaled rect at (70,70)")
	}
}

func TestRasterizeOpacityAndVisibility(t *testing.T) {
	half := rect("half", "#ff0000", 0, 0, 50, 100, 0)
	half.Opacity = 0.5
	hidden := rect("hidden", "#000000", 50, 0, 50, 100, 1)
	hidden.Visible = false

	img := Rasterize(sceneOf(100, 100, half, hidden), nil, RasterOptions{})
	r, g, b := rgbAt(img, 25, 50)
	if r != 255 || !closeTo(g, 128, 3) || !closeTo(b, 128, 3) {
		t.Fatalf("expected half-transparent red, got %d,%d,%d", r, g, b)
	}
	if r, g, b := rgbAt(img, 75, 50); r != 255 || g != 255 || b != 255 {
		t.Fatalf("expected hidden element skipped, got %d,%d,%d", r, g, b)
	}
}

func TestRasterizeRotation(t *testing.T) {
	bar := rect("bar", "#ff0000", 0, 40, 100, 20, 0)
	bar.Rotation = 90
	img := Rasterize(sceneOf(100, 100, bar), nil, RasterOptions{})

	if r, g, _ := rgbAt(img, 50, 10); r != 255 || g != 0 {
		t.Fatalf("expected rotated bar at (50,10)")
	}
	if _, g, _ := rgbAt(img, 10, 50); g != 255 {
		t.Fatalf("expected background at (10,50) after rotation")
	}
}

func TestRasterizeImages(t *testing.T) {
	green := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(green.Pix); i += 4 {
		green.Pix[i+1], green.Pix[i+3] = 255, 255
	}
	assets := NewAssetCache(func(src string) (image.Image, error) {
		if src == "green.png" {
			return green, nil
		}
		return nil, errors.New("not found")
	})

	ok := NewElement(ImageProps{Src: "green.png", Fit: "fill"})
	ok.X, ok.Y, ok.Width, ok.Height = 0, 0, 50, 50
	broken := NewElement(ImageProps{Src: "missing.png"})
	broken.X, broken.Y, broken.Width, broken.Height = 50, 50, 50, 50
	s := sceneOf(100, 100, ok, broken)

	if st := assets.Load("green.png"); st != AssetLoaded {
		t.Fatalf("expected loaded, got %s", st)
	}
	if st := assets.Load("missing.png"); st != AssetBroken {
		t.Fatalf("expected broken, got %s", st)
	}

	img := Rasterize(s, assets, RasterOptions{})
	if r, g, b := rgbAt(img, 25, 25); r != 0 || g != 255 || b != 0 {
		t.Fatalf("expected image pixels, got %d,%d,%d", r, g, b)
	}
	if r, _, _ := rgbAt(img, 60, 85); r != 0xe5 {
		t.Fatalf("expected placeholder for a broken image, got r=%d", r)
	}
}

func TestRasterizeImageFilter(t *testing.T) {
	red := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}
	assets := NewAssetCache(func(string) (image.Image, error) { return red, nil })
	el := NewElement(ImageProps{Src: "red", Filter: "grayscale"})
	el.Width, el.Height = 20, 20
	assets.Load("red")

	img := Rasterize(sceneOf(20, 20, el), assets, RasterOptions{})
	r, g, b := rgbAt(img, 10, 10)
	if r != g || g != b {
		t.Fatalf("expected gray pixel, got %d,%d,%d", r, g, b)
	}
}

func TestRasterizeGradientBackground(t *testing.T) {
	bg := NewElement(BackgroundProps{Gradient: &Gradient{
		Type:  "linear",
		Angle: 90,
		Stops: []GradientStop{{Offset: 0, Color: "#000000"}, {Offset: 1, Color: "#ffffff"}},
	}})
	bg.Width, bg.Height = 100, 20
	img := Rasterize(sceneOf(100, 20, bg), nil, RasterOptions{Scale: 2})

	left, _, _ := rgbAt(img, 10, 20)
	right, _, _ := rgbAt(img, 190, 20)
	if left >= right || left > 40 || right < 215 {
		t.Fatalf("expected dark-to-light gradient left to right, got %d -> %d", left, right)
	}
}

func TestRasterizeText(t *testing.T) {
	text := NewElement(TextProps{Content: "MMMM", FontSize: 40, Color: "#000000"})
	text.Width, text.Height = 200, 60
	img := Rasterize(sceneOf(200, 60, text), nil, RasterOptions{})

	dark := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _ := rgbAt(img, x, y); r < 64 {
				dark++
			}
		}
	}
	if dark < 100 {
		t.Fatalf("expected glyph pixels, got %d dark pixels", dark)
	}
}

func TestRasterizeHandles(t *testing.T) {
	s := sceneOf(100, 100, rect("a", "#ff0000", 10, 10, 50, 50, 0))
	s.Selected = []string{"a"}
	opts := RasterOptions{Background: color.Black}

	plain := Rasterize(s, nil, opts)
	if r, g, b := rgbAt(plain, 62, 62); r != 0 || g != 0 || b != 0 {
		t.Fatalf("expected no handles by default, got %d,%d,%d", r, g, b)
	}

	opts.Handles = true
	withHandles := Rasterize(s, nil, opts)
	if r, g, b := rgbAt(withHandles, 62, 62); r != 255 || g != 255 || b != 255 {
		t.Fatalf("expected white handle fill at (62,62), got %d,%d,%d", r, g, b)
	}
}

func TestExportPNG(t *testing.T) {
	var buf bytes.Buffer
	s := sceneOf(40, 30, rect("a", "#00ff00", 0, 0, 40, 30, 0))
	if err := ExportPNG(&buf, s, nil, 1.5); err != nil {
		t.Fatalf("export: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 45 {
		t.Fatalf("expected 60x45, got %v", b)
	}
	if _, g, _ := rgbAt(img, 30, 20); g != 255 {
		t.Fatalf("expected green export")
	}
}

func TestStarAndPolygonVertices(t *testing.T) {
	if n := len(starVertices(5, 0.5)); n != 10 {
		t.Fatalf("expected 10 star vertices, got %d", n)
	}
	for _, v := range regularVertices(6) {
		if v.X < -1e-9 || v.X > 100+1e-9 || v.Y < -1e-9 || v.Y > 100+1e-9 {
			t.Fatalf("expected vertices inside the unit box, got %+v", v)
		}
	}
}

func TestApplyFilterArguments(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Pix = []uint8{100, 100, 100, 255}

	out := applyFilter(src, "brightness(50%)").(*image.NRGBA)
	if out.Pix[0] != 50 {
		t.Fatalf("expected brightness to halve, got %d", out.Pix[0])
	}
	out = applyFilter(src, "invert").(*image.NRGBA)
	if out.Pix[0] != 155 {
		t.Fatalf("expected invert, got %d", out.Pix[0])
	}
	if applyFilter(src, "none") != image.Image(src) {
		t.Fatalf("expected none to return the source")
	}
}
