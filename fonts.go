package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

type fontKey struct {
	mono   bool
	bold   bool
	italic bool
	size   float64
}

// fontSet maps text attributes onto the Go font family, parsing each TTF
// once and caching faces per size.
type fontSet struct {
	mu    sync.Mutex
	fonts map[fontKey]*truetype.Font
	faces map[fontKey]font.Face
}

var fonts = &fontSet{
	fonts: make(map[fontKey]*truetype.Font),
	faces: make(map[fontKey]font.Face),
}

func isMonoFamily(family string) bool {
	family = strings.ToLower(family)
	for _, mono := range []string{"mono", "courier", "consolas", "menlo"} {
		if strings.Contains(family, mono) {
			return true
		}
	}
	return false
}

func isBoldWeight(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func ttfFor(k fontKey) []byte {
	switch {
	case k.mono && k.bold && k.italic:
		return gomonobolditalic.TTF
	case k.mono && k.bold:
		return gomonobold.TTF
	case k.mono && k.italic:
		return gomonoitalic.TTF
	case k.mono:
		return gomono.TTF
	case k.bold && k.italic:
		return gobolditalic.TTF
	case k.bold:
		return gobold.TTF
	case k.italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

// face returns a face for the text attributes, or nil when the embedded font
// cannot be parsed.
func (s *fontSet) face(p TextProps) font.Face {
	k := fontKey{
		mono:   isMonoFamily(p.FontFamily),
		bold:   isBoldWeight(p.FontWeight),
		italic: strings.EqualFold(p.FontStyle, "italic") || strings.EqualFold(p.FontStyle, "oblique"),
		size:   p.FontSize,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[k]; ok {
		return f
	}

	family := fontKey{mono: k.mono, bold: k.bold, italic: k.italic}
	ttf, ok := s.fonts[family]
	if !ok {
		var err error
		ttf, err = truetype.Parse(ttfFor(family))
		if err != nil {
			Logger().Error("font parse failed", "err", fmt.Errorf("parse font: %w", err))
			return nil
		}
		s.fonts[family] = ttf
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    k.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	s.faces[k] = f
	return f
}
