package main

// handlePan scrolls the view by speed cells. Pan is in canvas units, so the
// step shrinks as the zoom grows.
func (m *model) handlePan(key string, speed int) {
	scene := m.editor.Scene()
	dx := float64(speed) * CellWidth / scene.Zoom
	dy := float64(speed) * CellHeight / scene.Zoom
	pan := scene.Pan
	switch key {
	case "h", "left", "H", "shift+left":
		pan.X += dx
	case "l", "right", "L", "shift+right":
		pan.X -= dx
	case "k", "up", "K", "shift+up":
		pan.Y += dy
	case "j", "down", "J", "shift+down":
		pan.Y -= dy
	default:
		return
	}
	m.editor.Dispatch(SetPan{X: pan.X, Y: pan.Y})
}

// handleZoom zooms around the middle of the canvas area.
func (m *model) handleZoom(zoomIn bool) {
	factor := m.config.ZoomStep
	if !zoomIn {
		factor = 1 / factor
	}
	center := Point{
		X: float64(m.width) * CellWidth / 2,
		Y: float64(m.canvasRows()) * CellHeight / 2,
	}
	m.controller.Zoom(PointerEvent{Pos: center}, factor)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}
