package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"frameboard/internal/canvas"
)

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

func (m *model) handlePan(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX += float64(speed * cellWidth)
	case "l", "right", "L", "shift+right":
		m.panX -= float64(speed * cellWidth)
	case "k", "up", "K", "shift+up":
		m.panY += float64(speed * cellHeight)
	case "j", "down", "J", "shift+down":
		m.panY -= float64(speed * cellHeight)
	}
	return m
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	dx, dy := direction(key)
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
	return m
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	// Leave room for status line
	maxY := m.height - 2
	if maxY < 0 {
		maxY = 0
	}
	if m.cursorY > maxY {
		m.cursorY = maxY
	}
}

func direction(key string) (int, int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func isDirection(key string) bool {
	dx, dy := direction(key)
	return dx != 0 || dy != 0
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// step is the canvas distance one keypress moves or resizes by.
func (m *model) step(speed int) float64 {
	size := m.state().GridSize
	if size <= 0 {
		size = canvas.DefaultGridSize
	}
	return float64(size * speed)
}

// handleMoveKey nudges the selection in move mode.
func (m *model) handleMoveKey(key string, speed int) {
	sel, ok := m.selected()
	if !ok {
		m.mode = ModeNormal
		return
	}
	r, ok := m.rectOf(sel)
	if !ok {
		m.mode = ModeNormal
		return
	}
	dx, dy := direction(key)
	x := r.X + float64(dx)*m.step(speed)
	y := r.Y + float64(dy)*m.step(speed)
	if sel.isFrame {
		m.dispatch(canvas.MoveFrame{ID: sel.id, X: x, Y: y})
		if after, _ := m.rectOf(sel); after == r {
			m.errorMessage = "Frame would overlap another frame"
		}
		return
	}
	m.dispatch(canvas.MoveComponent{ID: sel.id, X: x, Y: y})
}

// handleResizeKey grows or shrinks the selection in resize mode.
func (m *model) handleResizeKey(key string, speed int) {
	sel, ok := m.selected()
	if !ok {
		m.mode = ModeNormal
		return
	}
	r, ok := m.rectOf(sel)
	if !ok {
		m.mode = ModeNormal
		return
	}
	dx, dy := direction(key)
	w := r.Width + float64(dx)*m.step(speed)
	h := r.Height + float64(dy)*m.step(speed)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if sel.isFrame {
		m.dispatch(canvas.UpdateFrame{ID: sel.id, Width: &w, Height: &h})
		return
	}
	m.dispatch(canvas.ResizeComponent{ID: sel.id, Width: w, Height: h})
}
