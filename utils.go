package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"frameboard/internal/canvas"
)

func (m *model) state() canvas.State {
	return m.editor.State()
}

func (m *model) viewport() canvas.Viewport {
	return canvas.Viewport{PanX: m.panX, PanY: m.panY, Zoom: m.state().ZoomLevel}
}

// canvasAt converts a screen cell to canvas coordinates.
func (m *model) canvasAt(cellX, cellY int) (float64, float64) {
	return m.viewport().ToCanvas(float64(cellX*cellWidth), float64(cellY*cellHeight))
}

func (m *model) worldCoords() (float64, float64) {
	return m.canvasAt(m.cursorX, m.cursorY)
}

// screenAt converts canvas coordinates to a screen cell.
func screenAt(v canvas.Viewport, x, y float64) (int, int) {
	cx, cy := v.ToClient(x, y)
	return floorDiv(cx, cellWidth), floorDiv(cy, cellHeight)
}

func floorDiv(v float64, d int) int {
	q := v / float64(d)
	if q < 0 && q != float64(int(q)) {
		return int(q) - 1
	}
	return int(q)
}

func pointIn(r canvas.Rect, x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// componentAt returns the topmost component under the canvas point.
func componentAt(s canvas.State, x, y float64) (canvas.Component, bool) {
	for i := len(s.Components) - 1; i >= 0; i-- {
		if pointIn(s.Components[i].Rect(), x, y) {
			return s.Components[i], true
		}
	}
	return canvas.Component{}, false
}

func frameAt(s canvas.State, x, y float64) (canvas.Frame, bool) {
	for i := len(s.Frames) - 1; i >= 0; i-- {
		if pointIn(s.Frames[i].Rect(), x, y) {
			return s.Frames[i], true
		}
	}
	return canvas.Frame{}, false
}

// entityUnderCursor treats the cursor cell as the canvas area it covers so
// small components can still be hit from the keyboard.
func (m *model) entityUnderCursor() (selection, bool) {
	x, y := m.worldCoords()
	s := m.state()
	zoom := canvas.ClampZoom(s.ZoomLevel)
	w, h := cellWidth/zoom, cellHeight/zoom
	cell := canvas.Rect{X: x, Y: y, Width: w, Height: h}

	for i := len(s.Components) - 1; i >= 0; i-- {
		if canvas.Overlaps(s.Components[i].Rect(), cell, 0) {
			return selection{id: s.Components[i].ID}, true
		}
	}
	if f, ok := frameAt(s, x+w/2, y+h/2); ok {
		return selection{id: f.ID, isFrame: true}, true
	}
	return selection{}, false
}

// selected returns the current selection from the editor state.
func (m *model) selected() (selection, bool) {
	s := m.state()
	if s.SelectedComponentID != "" {
		return selection{id: s.SelectedComponentID}, true
	}
	if s.SelectedFrameID != "" {
		return selection{id: s.SelectedFrameID, isFrame: true}, true
	}
	return selection{}, false
}

// selectUnderCursor selects what is under the cursor, falling back to the
// existing selection.
func (m *model) selectUnderCursor() (selection, bool) {
	if sel, ok := m.entityUnderCursor(); ok {
		m.selectEntity(sel)
		return sel, true
	}
	return m.selected()
}

func (m *model) selectEntity(sel selection) {
	if sel.isFrame {
		m.dispatch(canvas.SelectFrame{ID: sel.id})
		m.dispatch(canvas.SetActiveFrame{ID: sel.id})
		return
	}
	m.dispatch(canvas.SelectComponent{ID: sel.id})
}

func (m *model) rectOf(sel selection) (canvas.Rect, bool) {
	s := m.state()
	if sel.isFrame {
		f, ok := s.Frame(sel.id)
		return f.Rect(), ok
	}
	c, ok := s.Component(sel.id)
	return c.Rect(), ok
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := result.String()
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimPrefix(normalized, "\ufeff")
}
