package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeSceneFileArray(t *testing.T) {
	sf, err := decodeSceneFile(strings.NewReader(`
		[{"id":"a","kind":"shape","x":1,"y":2,"width":30,"height":40,"zIndex":0},
		 {"id":"b","kind":"text","x":0,"y":0,"width":100,"height":20,"zIndex":1,"props":{"content":"hi"}}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sf.Elements) != 2 || sf.Width != 0 {
		t.Fatalf("expected two elements and no size, got %+v", sf)
	}
	if p, ok := sf.Elements[1].Props.(TextProps); !ok || p.Content != "hi" {
		t.Fatalf("expected text props, got %#v", sf.Elements[1].Props)
	}
}

func TestDecodeSceneFileObject(t *testing.T) {
	sf, err := decodeSceneFile(strings.NewReader(`{"width":640,"height":480,"elements":[{"kind":"background","x":0,"y":0,"width":640,"height":480,"zIndex":0}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sf.Width != 640 || sf.Height != 480 || len(sf.Elements) != 1 {
		t.Fatalf("unexpected scene file %+v", sf)
	}
}

func TestReadSceneFileErrors(t *testing.T) {
	if _, err := readSceneFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"kind":"hologram"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := readSceneFile(path)
	if err == nil || !strings.Contains(err.Error(), "bad.json") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}
