package main

// Geometry floors and viewport limits, in canvas units unless noted.
const (
	MinSize = 10.0

	// HandleSize and RotateHandleOffset are screen pixels; they are divided
	// by zoom before being placed on the canvas.
	HandleSize         = 8.0
	RotateHandleOffset = 24.0

	SnapDegrees = 15.0

	MinZoom = 0.1
	MaxZoom = 10.0

	// CellWidth and CellHeight are the screen pixels covered by one terminal cell.
	CellWidth  = 8.0
	CellHeight = 16.0

	defaultCanvasWidth  = 794
	defaultCanvasHeight = 1123
	defaultZoomStep     = 1.25
	pasteOffset         = 20.0
	nudgeStep           = 1.0
	nudgeStepLarge      = 10.0
)

type InteractionState int

const (
	StateIdle InteractionState = iota
	StateDragging
	StateTransforming
	StateTextEditing
)

func (s InteractionState) String() string {
	switch s {
	case StateDragging:
		return "DRAG"
	case StateTransforming:
		return "TRANSFORM"
	case StateTextEditing:
		return "TEXT"
	default:
		return "IDLE"
	}
}

type Tool int

const (
	ToolSelect Tool = iota
	ToolText
	ToolRectangle
	ToolCircle
	ToolTriangle
	ToolLine
	ToolStar
	ToolDecorative
)

func (t Tool) String() string {
	switch t {
	case ToolText:
		return "text"
	case ToolRectangle:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolTriangle:
		return "triangle"
	case ToolLine:
		return "line"
	case ToolStar:
		return "star"
	case ToolDecorative:
		return "decorative"
	default:
		return "select"
	}
}

type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleRotate
)
