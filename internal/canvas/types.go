package canvas

// ComponentType is the closed set of component kinds.
type ComponentType string

const (
	TypeButton    ComponentType = "button"
	TypeInput     ComponentType = "input"
	TypeText      ComponentType = "text"
	TypeHeading   ComponentType = "heading"
	TypeParagraph ComponentType = "paragraph"
	TypeCheckbox  ComponentType = "checkbox"
	TypeRadio     ComponentType = "radio"
	TypeSelect    ComponentType = "select"
	TypeCard      ComponentType = "card"
	TypeImage     ComponentType = "image"
	TypeDivider   ComponentType = "divider"
	TypeTable     ComponentType = "table"
	TypeFlowShape ComponentType = "flow-shape"
)

var componentTypes = []ComponentType{
	TypeButton, TypeInput, TypeText, TypeHeading, TypeParagraph, TypeCheckbox,
	TypeRadio, TypeSelect, TypeCard, TypeImage, TypeDivider, TypeTable, TypeFlowShape,
}

// ComponentTypes returns every known component type in declaration order.
func ComponentTypes() []ComponentType {
	out := make([]ComponentType, len(componentTypes))
	copy(out, componentTypes)
	return out
}

// Valid reports whether t is one of the known component types.
func (t ComponentType) Valid() bool {
	for _, k := range componentTypes {
		if k == t {
			return true
		}
	}
	return false
}

// TextBearing reports whether the content field is meaningful for t.
func (t ComponentType) TextBearing() bool {
	switch t {
	case TypeButton, TypeText, TypeHeading, TypeParagraph, TypeCheckbox, TypeRadio, TypeCard, TypeFlowShape:
		return true
	}
	return false
}

// GridCell places a component on its frame's layout grid.
type GridCell struct {
	Column     int `json:"column"`
	Row        int `json:"row"`
	ColumnSpan int `json:"columnSpan"`
	RowSpan    int `json:"rowSpan"`
}

// Component is a positioned, sized, typed visual element. Coordinates are in
// canvas space, independent of pan and zoom.
type Component struct {
	ID         string        `json:"id"`
	Type       ComponentType `json:"type"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Content    string        `json:"content,omitempty"`
	Properties Properties    `json:"properties,omitempty"`
	FrameID    string        `json:"frameId,omitempty"`
	GridCell   *GridCell     `json:"gridCell,omitempty"`
}

// Rect returns the component's bounding rectangle.
func (c Component) Rect() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// Clone returns a deep copy; the property map and grid cell are not shared.
func (c Component) Clone() Component {
	out := c
	out.Properties = c.Properties.Clone()
	if c.GridCell != nil {
		cell := *c.GridCell
		out.GridCell = &cell
	}
	return out
}

// LayoutGrid is a column/row layout aid drawn inside a frame.
type LayoutGrid struct {
	Enabled bool    `json:"enabled"`
	Columns int     `json:"columns"`
	Rows    int     `json:"rows"`
	Gap     float64 `json:"gap"`
}

// Frame is a named rectangular artboard.
type Frame struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Grid   *LayoutGrid `json:"grid,omitempty"`
}

// Rect returns the frame's rectangle.
func (f Frame) Rect() Rect {
	return Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

func (f Frame) clone() Frame {
	out := f
	if f.Grid != nil {
		g := *f.Grid
		out.Grid = &g
	}
	return out
}

// StructureGrid is the canvas-wide structure overlay. Visible and Snap are
// toggled independently of the pixel grid.
type StructureGrid struct {
	Visible    bool    `json:"visible"`
	Snap       bool    `json:"snap"`
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	CellWidth  float64 `json:"cellWidth"`
	CellHeight float64 `json:"cellHeight"`
}

// State is the whole canvas. The engine never mutates a State it was given;
// every handler returns a fresh value with copied slices.
type State struct {
	Components []Component
	Frames     []Frame

	SelectedComponentID string
	SelectedFrameID     string
	ActiveFrameID       string
	DraggedFrameID      string
	IsDragging          bool
	IsResizing          bool

	ZoomLevel     float64
	SnapToGrid    bool
	GridSize      int
	MasterGrid    LayoutGrid
	StructureGrid StructureGrid

	Clipboard *Component
}

const (
	DefaultGridSize  = 20
	DefaultZoomLevel = 1.0
	MinZoomLevel     = 0.5
	MaxZoomLevel     = 3.0
)

// NewState returns an empty canvas with default view settings.
func NewState() State {
	return State{
		Components: []Component{},
		Frames:     []Frame{},
		ZoomLevel:  DefaultZoomLevel,
		SnapToGrid: false,
		GridSize:   DefaultGridSize,
		MasterGrid: LayoutGrid{Columns: 12, Rows: 1, Gap: 16},
		StructureGrid: StructureGrid{
			Columns:    12,
			Rows:       8,
			CellWidth:  80,
			CellHeight: 80,
		},
	}
}

// Component returns the component with the given id.
func (s State) Component(id string) (Component, bool) {
	if i := s.componentIndex(id); i >= 0 {
		return s.Components[i], true
	}
	return Component{}, false
}

// Frame returns the frame with the given id.
func (s State) Frame(id string) (Frame, bool) {
	if i := s.frameIndex(id); i >= 0 {
		return s.Frames[i], true
	}
	return Frame{}, false
}

// ComponentsIn returns the components whose frameId is frameID, in order.
func (s State) ComponentsIn(frameID string) []Component {
	var out []Component
	for _, c := range s.Components {
		if frameID != "" && c.FrameID == frameID {
			out = append(out, c)
		}
	}
	return out
}

func (s State) componentIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Components {
		if s.Components[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) frameIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Frames {
		if s.Frames[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneComponents(in []Component) []Component {
	out := make([]Component, len(in))
	copy(out, in)
	return out
}

func cloneFrames(in []Frame) []Frame {
	out := make([]Frame, len(in))
	copy(out, in)
	return out
}
