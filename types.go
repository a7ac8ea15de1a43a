package main

import "time"

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeNormal Mode = iota
	ModePan
	ModeHelp
)

// doubleClickInterval is the longest gap between two presses on the same
// cell that still counts as a double click.
const doubleClickInterval = 400 * time.Millisecond

type model struct {
	width  int
	height int
	mode   Mode

	editor     *Editor
	controller *Controller
	assets     *AssetCache
	config     *Config
	source     string

	pressed   bool
	lastClick time.Time
	lastCell  [2]int
	capture   *pointerCapture

	helpScroll     int
	errorMessage   string
	successMessage string
}

// assetLoadedMsg reports that an image source settled.
type assetLoadedMsg struct {
	src    string
	status AssetStatus
}

// exportDoneMsg reports the end of a PNG export.
type exportDoneMsg struct {
	path string
	err  error
}

// pointerCapture implements PointerCapture for the terminal. Mouse reporting
// keeps delivering motion while a button is held, so capture is only tracked
// for the status line.
type pointerCapture struct {
	held bool
}

func (p *pointerCapture) Capture() { p.held = true }
func (p *pointerCapture) Release() { p.held = false }
