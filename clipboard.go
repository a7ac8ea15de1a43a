package main

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// clipboardPayload marks element JSON on the system clipboard so pasted
// plain text is not mistaken for elements.
type clipboardPayload struct {
	Poster   int       `json:"poster"`
	Elements []Element `json:"elements"`
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// copyElements writes els to the system clipboard.
func copyElements(els []Element) error {
	data, err := json.Marshal(clipboardPayload{Poster: 1, Elements: els})
	if err != nil {
		return fmt.Errorf("encode clipboard: %w", err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// pastedElements reads the clipboard. Element JSON comes back as is; any
// other text becomes a single text element at the origin.
func pastedElements() ([]Element, error) {
	text, err := readClipboardText()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return decodeClipboard(text), nil
}

func decodeClipboard(text string) []Element {
	var payload clipboardPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil && payload.Poster > 0 {
		return payload.Elements
	}

	text = strings.TrimSpace(cleanClipboardText(text))
	if text == "" {
		return nil
	}
	el := NewElement(TextProps{Content: text, FontSize: 24, Color: "#111111", Align: "left"})
	el.Width = 320
	el.Height = float64(strings.Count(text, "\n")+1) * 24 * 1.2
	el.Normalize()
	return []Element{el}
}

// cleanClipboardText drops control characters and normalizes line endings.
func cleanClipboardText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ReplaceAll(text, "\r\n", "\n") {
		switch {
		case r == '\r':
			b.WriteRune('\n')
		case r == '\t':
			b.WriteRune(' ')
		case r == '\n' || r >= 32:
			b.WriteRune(r)
		}
	}
	return b.String()
}
