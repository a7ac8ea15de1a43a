package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	rc := strings.Join([]string{
		"# poster settings",
		"savedirectory = ~/posters",
		"canvasWidth = 1080",
		"canvas_height=1350",
		"historylimit = 50",
		"zoomstep = 1.5",
		"log = true",
		"unknown = 1",
		"not a pair",
	}, "\n")

	config := defaultConfig()
	if err := parseConfig(strings.NewReader(rc), "/home/me", config); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.SaveDirectory != filepath.Join("/home/me", "posters") {
		t.Fatalf("expected ~ expanded, got %q", config.SaveDirectory)
	}
	if config.CanvasWidth != 1080 || config.CanvasHeight != 1350 {
		t.Fatalf("expected 1080x1350, got %vx%v", config.CanvasWidth, config.CanvasHeight)
	}
	if config.HistoryLimit != 50 || config.ZoomStep != 1.5 || !config.Log {
		t.Fatalf("unexpected config %+v", config)
	}
}

func TestParseConfigKeepsDefaultsOnBadValues(t *testing.T) {
	config := defaultConfig()
	rc := "canvaswidth = wide\nzoomstep = 0.5\nhistorylimit = -3\n"
	if err := parseConfig(strings.NewReader(rc), "/home/me", config); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.CanvasWidth != defaultCanvasWidth || config.ZoomStep != defaultZoomStep || config.HistoryLimit != 0 {
		t.Fatalf("expected defaults kept, got %+v", config)
	}
}

func TestGetSavePath(t *testing.T) {
	config := defaultConfig()
	if got := config.GetSavePath("a.png"); got != "a.png" {
		t.Fatalf("expected bare name without a save directory, got %q", got)
	}
	dir := t.TempDir()
	config.SaveDirectory = filepath.Join(dir, "out")
	if got := config.GetSavePath("a.png"); got != filepath.Join(dir, "out", "a.png") {
		t.Fatalf("unexpected path %q", got)
	}
}
