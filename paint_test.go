package main

import (
	"reflect"
	"testing"
)

func TestProjectOrdersAndFilters(t *testing.T) {
	s := NewScene(800, 600)
	hidden := shapeAt("hidden", 0, 0, 1)
	hidden.Visible = false
	locked := shapeAt("locked", 0, 0, 0)
	locked.Locked = true
	s.Elements = []Element{shapeAt("top", 0, 0, 9), hidden, locked, shapeAt("mid", 0, 0, 3)}
	s.Selected = []string{"top", "locked"}

	frame := Project(s)
	var ids []string
	for _, item := range frame.Items {
		ids = append(ids, item.Element.ID)
	}
	if !reflect.DeepEqual(ids, []string{"locked", "mid", "top"}) {
		t.Fatalf("expected back-to-front [locked mid top], got %v", ids)
	}

	if frame.Items[0].Handles != nil || !frame.Items[0].Selected || frame.Items[0].Interactive {
		t.Fatalf("expected locked selection without handles: %+v", frame.Items[0])
	}
	if len(frame.Items[2].Handles) != 9 {
		t.Fatalf("expected 9 handles on top, got %d", len(frame.Items[2].Handles))
	}
	if frame.Items[1].Selected || frame.Items[1].Handles != nil {
		t.Fatalf("expected mid unselected")
	}
}

func TestImageSourcesDeduplicates(t *testing.T) {
	s := NewScene(800, 600)
	s.Elements = []Element{
		NewElement(ImageProps{Src: "a.png"}),
		NewElement(BackgroundProps{ImageSrc: "bg.png"}),
		NewElement(ImageProps{Src: "a.png"}),
		NewElement(ImageProps{}),
		NewElement(TextProps{Content: "x"}),
	}
	if got := ImageSources(s); !reflect.DeepEqual(got, []string{"a.png", "bg.png"}) {
		t.Fatalf("expected [a.png bg.png], got %v", got)
	}
}
