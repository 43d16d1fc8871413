package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameboard/internal/canvas"
)

func TestScreenAtRoundTrip(t *testing.T) {
	v := canvas.Viewport{PanX: -16, PanY: 32, Zoom: 2}
	x, y := screenAt(v, 100, 50)
	assert.Equal(t, 23, x) // (100*2-16)/8
	assert.Equal(t, 8, y)  // (50*2+32)/16

	x, y = screenAt(v, -20, -40)
	assert.Equal(t, -7, x, "negative cells round down")
	assert.Equal(t, -3, y)
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 0, floorDiv(7, 8))
	assert.Equal(t, -1, floorDiv(-1, 8))
	assert.Equal(t, -1, floorDiv(-8, 8))
	assert.Equal(t, -2, floorDiv(-9, 8))
}

func TestRenderFrameAndName(t *testing.T) {
	st := canvas.NewState()
	st.Frames = []canvas.Frame{{ID: "f", Name: "Home", Width: 160, Height: 96}}

	scr := renderState(st, canvas.Viewport{Zoom: 1}, 40, 10)

	assert.Equal(t, '+', scr.at(0, 0))
	assert.Equal(t, '=', scr.at(1, 0))
	assert.Equal(t, 'H', scr.at(3, 0))
	assert.Equal(t, '|', scr.at(0, 3))
	assert.Equal(t, '+', scr.at(19, 5), "bottom-right corner at ceil(160/8)-1, ceil(96/16)-1")
	assert.Equal(t, ' ', scr.at(20, 5))
}

func TestRenderSelectionBorders(t *testing.T) {
	st := canvas.NewState()
	st.Frames = []canvas.Frame{{ID: "f", Name: "A", Width: 160, Height: 96}}
	st.Components = []canvas.Component{{ID: "c", Type: canvas.TypeCard, X: 16, Y: 16, Width: 80, Height: 48, Content: "Hi", FrameID: "f"}}

	st.SelectedFrameID = "f"
	scr := renderState(st, canvas.Viewport{Zoom: 1}, 40, 10)
	assert.Equal(t, '#', scr.at(0, 0))
	assert.Equal(t, clsFrameSelected, scr.class[0][0])
	assert.Equal(t, '+', scr.at(2, 1), "component keeps its plain border")

	st.SelectedFrameID = ""
	st.SelectedComponentID = "c"
	scr = renderState(st, canvas.Viewport{Zoom: 1}, 40, 10)
	assert.Equal(t, '+', scr.at(0, 0))
	assert.Equal(t, '#', scr.at(2, 1))
	assert.Equal(t, 'H', scr.at(3, 2))
}

func TestRenderInlineComponents(t *testing.T) {
	st := canvas.NewState()
	st.Components = []canvas.Component{
		{ID: "b", Type: canvas.TypeButton, Width: 80, Height: 16, Content: "Go"},
		{ID: "x", Type: canvas.TypeCheckbox, Y: 32, Width: 80, Height: 16, Content: "Yes", Properties: canvas.Properties{"checked": true}},
	}
	scr := renderState(st, canvas.Viewport{Zoom: 1}, 20, 4)
	lines := scr.lines()
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "[   Go   ]"), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "[x] Yes"), lines[2])
}

func TestRenderStructureGrid(t *testing.T) {
	st := canvas.NewState()
	st.StructureGrid = canvas.StructureGrid{Visible: true, Columns: 2, Rows: 1, CellWidth: 80, CellHeight: 32}
	scr := renderState(st, canvas.Viewport{Zoom: 1}, 30, 4)
	assert.Equal(t, '.', scr.at(0, 0))
	assert.Equal(t, '.', scr.at(10, 0))
	assert.Equal(t, '.', scr.at(20, 2))
	assert.Equal(t, ' ', scr.at(5, 1))
}

func TestInlineGlyph(t *testing.T) {
	tests := []struct {
		name  string
		c     canvas.Component
		width int
		want  string
	}{
		{"button centered", canvas.Component{Type: canvas.TypeButton, Content: "OK"}, 8, "[  OK  ]"},
		{"input placeholder", canvas.Component{Type: canvas.TypeInput, Properties: canvas.Properties{"placeholder": "Email"}}, 10, "[Email___]"},
		{"radio off", canvas.Component{Type: canvas.TypeRadio, Content: "A"}, 10, "( ) A"},
		{"divider", canvas.Component{Type: canvas.TypeDivider}, 4, "----"},
		{"empty text", canvas.Component{Type: canvas.TypeText}, 3, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inlineGlyph(tt.c, tt.width))
		})
	}
}

func TestCursorOverlayInView(t *testing.T) {
	m := newTestModel(t)
	m.cursorX, m.cursorY = 0, 0
	out := m.View()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, m.height)
}
