package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// sceneFile is the on-disk element source: either a bare array of elements
// or an object carrying the canvas size.
type sceneFile struct {
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	Elements []Element `json:"elements"`
}

func readSceneFile(path string) (sceneFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return sceneFile{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sf, err := decodeSceneFile(f)
	if err != nil {
		return sceneFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return sf, nil
}

func decodeSceneFile(r io.Reader) (sceneFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return sceneFile{}, err
	}
	data = bytes.TrimSpace(data)

	var sf sceneFile
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &sf.Elements)
	} else {
		err = json.Unmarshal(data, &sf)
	}
	if err != nil {
		return sceneFile{}, fmt.Errorf("decode elements: %w", err)
	}
	return sf, nil
}
