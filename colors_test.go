package main

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	fallback := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	cases := []struct {
		in   string
		want color.Color
	}{
		{"#ff8800", color.NRGBA{R: 0xff, G: 0x88, B: 0x00, A: 0xff}},
		{"#F80", color.NRGBA{R: 0xff, G: 0x88, B: 0x00, A: 0xff}},
		{"#ff880080", color.NRGBA{R: 0xff, G: 0x88, B: 0x00, A: 0x80}},
		{"#f808", color.NRGBA{R: 0xff, G: 0x88, B: 0x00, A: 0x88}},
		{" Navy ", color.NRGBA{R: 0, G: 0, B: 0x80, A: 0xff}},
		{"transparent", color.Transparent},
		{"", fallback},
		{"rgb(1,2,3)", fallback},
		{"#zzzzzz", fallback},
	}
	for _, tc := range cases {
		if got := parseColor(tc.in, fallback); got != tc.want {
			t.Fatalf("parseColor(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	got := withAlpha(color.NRGBA{R: 10, G: 20, B: 30, A: 200}, 0.5).(color.NRGBA)
	if got.A != 100 || got.R != 10 {
		t.Fatalf("expected alpha halved, got %+v", got)
	}
}
