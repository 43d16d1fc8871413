package canvas

import (
	"log/slog"
	"math"
)

const (
	DefaultFrameGap          = 10.0
	DefaultEdgeSnapThreshold = 10.0
	DefaultPasteOffset       = 20.0
)

// Outcome reports what a Reduce call did. CreatedID is set by actions that
// create an entity (add component, add frame, paste).
type Outcome struct {
	CreatedID string
	Changed   bool
}

// Engine applies actions to states. It holds no canvas data itself; the only
// impurity is the id generator.
type Engine struct {
	ids               IDGenerator
	logger            *slog.Logger
	frameGap          float64
	edgeSnapThreshold float64
	pasteOffset       float64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for rejected and ignored actions.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFrameGap sets the spacing enforced between frames at creation time.
func WithFrameGap(gap float64) EngineOption {
	return func(e *Engine) { e.frameGap = gap }
}

// WithEdgeSnapThreshold sets how close, in canvas units, a moved frame's edge
// must come to another frame's edge before it snaps flush.
func WithEdgeSnapThreshold(t float64) EngineOption {
	return func(e *Engine) { e.edgeSnapThreshold = t }
}

// WithPasteOffset sets the offset applied to pastes without coordinates.
func WithPasteOffset(d float64) EngineOption {
	return func(e *Engine) { e.pasteOffset = d }
}

// NewEngine returns an Engine minting ids from ids. A nil generator falls
// back to UUIDGenerator.
func NewEngine(ids IDGenerator, opts ...EngineOption) *Engine {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	e := &Engine{
		ids:               ids,
		logger:            slog.New(slog.DiscardHandler),
		frameGap:          DefaultFrameGap,
		edgeSnapThreshold: DefaultEdgeSnapThreshold,
		pasteOffset:       DefaultPasteOffset,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Reduce applies a to s and returns the resulting state. s is never modified.
// Unknown actions and actions naming missing ids return s unchanged with
// Outcome.Changed false.
func (e *Engine) Reduce(s State, a Action) (State, Outcome) {
	switch a := a.(type) {
	case AddComponent:
		return e.addComponent(s, a)
	case MoveComponent:
		return e.moveComponent(s, a)
	case ResizeComponent:
		return e.resizeComponent(s, a)
	case UpdateComponentProperties:
		return e.updateComponentProperties(s, a)
	case UpdateComponentContent:
		return e.updateComponent(s, a.ID, func(c *Component) { c.Content = a.Content })
	case DeleteComponent:
		return e.deleteComponent(s, a)
	case SelectComponent:
		if a.ID != "" && s.componentIndex(a.ID) < 0 {
			return s, Outcome{}
		}
		s.SelectedComponentID = a.ID
		if a.ID != "" {
			s.SelectedFrameID = ""
		}
		return s, changed()

	case AddFrame:
		return e.addFrame(s, a)
	case UpdateFrame:
		return e.updateFrame(s, a)
	case DeleteFrame:
		return e.deleteFrame(s, a)
	case MoveFrame:
		return e.moveFrame(s, a)
	case SetActiveFrame:
		if a.ID != "" && s.frameIndex(a.ID) < 0 {
			return s, Outcome{}
		}
		s.ActiveFrameID = a.ID
		return s, changed()
	case SelectFrame:
		if a.ID != "" && s.frameIndex(a.ID) < 0 {
			return s, Outcome{}
		}
		s.SelectedFrameID = a.ID
		if a.ID != "" {
			s.SelectedComponentID = ""
		}
		return s, changed()
	case DeselectAll:
		s.SelectedComponentID = ""
		s.SelectedFrameID = ""
		return s, changed()

	case ToggleSnapToGrid:
		s.SnapToGrid = !s.SnapToGrid
		return s, changed()
	case SetGridSize:
		if a.Size <= 0 {
			e.logger.Debug("ignoring non-positive grid size", "size", a.Size)
			return s, Outcome{}
		}
		s.GridSize = a.Size
		return s, changed()
	case SetMasterGrid:
		s.MasterGrid = a.Grid
		return s, changed()
	case SetFrameGrid:
		return e.setFrameGrid(s, a)
	case ToggleStructureGrid:
		s.StructureGrid.Visible = !s.StructureGrid.Visible
		return s, changed()
	case SetStructureGrid:
		return setStructureGrid(s, a), changed()
	case ToggleSnapToStructureGrid:
		s.StructureGrid.Snap = !s.StructureGrid.Snap
		return s, changed()
	case SetZoomLevel:
		s.ZoomLevel = ClampZoom(a.Zoom)
		return s, changed()

	case SetClipboard:
		c := a.Component.Clone()
		s.Clipboard = &c
		return s, changed()
	case PasteComponent:
		return e.paste(s, a)

	case LoadFromStorage:
		return load(s, a.Snapshot), changed()

	case SetDragging:
		s.IsDragging = a.Dragging
		return s, changed()
	case SetResizing:
		s.IsResizing = a.Resizing
		return s, changed()
	case SetDraggedFrame:
		s.DraggedFrameID = a.ID
		return s, changed()
	}

	if a != nil {
		e.logger.Debug("ignoring unknown action", "type", a.Type())
	}
	return s, Outcome{}
}

func changed() Outcome { return Outcome{Changed: true} }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// --- components ---

func (e *Engine) addComponent(s State, a AddComponent) (State, Outcome) {
	if !finite(a.X, a.Y, a.Width, a.Height) {
		e.logger.Debug("rejecting component with non-finite geometry", "type", a.Kind)
		return s, Outcome{}
	}
	c := Component{
		ID:         e.ids.Next(),
		Type:       a.Kind,
		X:          a.X,
		Y:          a.Y,
		Width:      a.Width,
		Height:     a.Height,
		Content:    a.Content,
		Properties: e.cleanProperties(a.Kind, a.Properties).Clone(),
	}
	if a.GridCell != nil {
		cell := *a.GridCell
		c.GridCell = &cell
	}
	return e.insertComponent(s, c)
}

// insertComponent snaps c, derives its frame and appends it.
func (e *Engine) insertComponent(s State, c Component) (State, Outcome) {
	if s.SnapToGrid {
		c.X = Snap(c.X, s.GridSize)
		c.Y = Snap(c.Y, s.GridSize)
	}
	place(&c, s)
	s.Components = append(cloneComponents(s.Components), c)
	return s, Outcome{CreatedID: c.ID, Changed: true}
}

// place re-derives frameId and, when structure snapping is on, gridCell.
func place(c *Component, s State) {
	c.FrameID = frameFor(*c, s.Frames, s.ActiveFrameID)
	if !s.StructureGrid.Snap {
		return
	}
	c.GridCell = nil
	if f, ok := s.Frame(c.FrameID); ok {
		c.GridCell = cellFor(*c, f, effectiveGrid(f, s.MasterGrid))
	}
}

func (e *Engine) moveComponent(s State, a MoveComponent) (State, Outcome) {
	if !finite(a.X, a.Y) {
		return s, Outcome{}
	}
	return e.updateComponent(s, a.ID, func(c *Component) {
		c.X, c.Y = a.X, a.Y
		if s.SnapToGrid {
			c.X = Snap(c.X, s.GridSize)
			c.Y = Snap(c.Y, s.GridSize)
		}
		place(c, s)
	})
}

// resizeComponent leaves frameId alone: only position changes re-derive it.
func (e *Engine) resizeComponent(s State, a ResizeComponent) (State, Outcome) {
	if !finite(a.Width, a.Height) {
		return s, Outcome{}
	}
	return e.updateComponent(s, a.ID, func(c *Component) {
		c.Width, c.Height = a.Width, a.Height
		if s.SnapToGrid {
			c.Width = Snap(c.Width, s.GridSize)
			c.Height = Snap(c.Height, s.GridSize)
		}
	})
}

func (e *Engine) updateComponentProperties(s State, a UpdateComponentProperties) (State, Outcome) {
	i := s.componentIndex(a.ID)
	if i < 0 {
		return s, Outcome{}
	}
	patch := e.cleanProperties(s.Components[i].Type, a.Properties)
	return e.updateComponent(s, a.ID, func(c *Component) {
		c.Properties = c.Properties.Merge(patch)
	})
}

// updateComponent copies the component list and applies fn to the copy of
// the component with the given id.
func (e *Engine) updateComponent(s State, id string, fn func(*Component)) (State, Outcome) {
	i := s.componentIndex(id)
	if i < 0 {
		e.logger.Debug("component not found", "id", id)
		return s, Outcome{}
	}
	components := cloneComponents(s.Components)
	fn(&components[i])
	s.Components = components
	return s, changed()
}

func (e *Engine) deleteComponent(s State, a DeleteComponent) (State, Outcome) {
	i := s.componentIndex(a.ID)
	if i < 0 {
		return s, Outcome{}
	}
	components := make([]Component, 0, len(s.Components)-1)
	components = append(components, s.Components[:i]...)
	components = append(components, s.Components[i+1:]...)
	s.Components = components
	if s.SelectedComponentID == a.ID {
		s.SelectedComponentID = ""
	}
	return s, changed()
}

// cleanProperties drops known keys whose values have the wrong kind. The
// input map is not modified.
func (e *Engine) cleanProperties(t ComponentType, props Properties) Properties {
	errs := ValidateProperties(t, props)
	if len(errs) == 0 {
		return props
	}
	out := props.Clone()
	for _, err := range errs {
		e.logger.Warn("dropping invalid property", "component_type", t, "error", err.Error())
		delete(out, err.Key)
	}
	return out
}

// --- frames ---

func (e *Engine) addFrame(s State, a AddFrame) (State, Outcome) {
	if !finite(a.X, a.Y, a.Width, a.Height) {
		e.logger.Debug("rejecting frame with non-finite geometry", "name", a.Name)
		return s, Outcome{}
	}
	f := Frame{
		ID:     e.ids.Next(),
		Name:   a.Name,
		X:      a.X,
		Y:      a.Y,
		Width:  a.Width,
		Height: a.Height,
	}
	if a.Grid != nil {
		g := *a.Grid
		f.Grid = &g
	}

	for _, other := range s.Frames {
		if Overlaps(f.Rect(), other.Rect(), e.frameGap) {
			f.X = rightmostEdge(s.Frames) + e.frameGap
			e.logger.Debug("relocated overlapping frame", "id", f.ID, "x", f.X)
			break
		}
	}

	if len(s.Frames) == 0 {
		s.ActiveFrameID = f.ID
	}
	s.Frames = append(cloneFrames(s.Frames), f)
	s.SelectedFrameID = f.ID
	s.SelectedComponentID = ""
	return s, Outcome{CreatedID: f.ID, Changed: true}
}

func rightmostEdge(frames []Frame) float64 {
	right := math.Inf(-1)
	for _, f := range frames {
		right = math.Max(right, f.Rect().Right())
	}
	return right
}

func (e *Engine) updateFrame(s State, a UpdateFrame) (State, Outcome) {
	i := s.frameIndex(a.ID)
	if i < 0 {
		return s, Outcome{}
	}
	f := s.Frames[i].clone()
	if a.Name != nil {
		f.Name = *a.Name
	}
	if a.X != nil && finite(*a.X) {
		f.X = *a.X
	}
	if a.Y != nil && finite(*a.Y) {
		f.Y = *a.Y
	}
	if a.Width != nil && finite(*a.Width) {
		f.Width = *a.Width
	}
	if a.Height != nil && finite(*a.Height) {
		f.Height = *a.Height
	}
	frames := cloneFrames(s.Frames)
	frames[i] = f
	s.Frames = frames
	return s, changed()
}

func (e *Engine) deleteFrame(s State, a DeleteFrame) (State, Outcome) {
	i := s.frameIndex(a.ID)
	if i < 0 {
		return s, Outcome{}
	}
	frames := make([]Frame, 0, len(s.Frames)-1)
	frames = append(frames, s.Frames[:i]...)
	frames = append(frames, s.Frames[i+1:]...)
	s.Frames = frames

	components := cloneComponents(s.Components)
	for j := range components {
		if components[j].FrameID == a.ID {
			components[j].FrameID = ""
			components[j].GridCell = nil
		}
	}
	s.Components = components

	if s.ActiveFrameID == a.ID {
		s.ActiveFrameID = ""
	}
	if s.SelectedFrameID == a.ID {
		s.SelectedFrameID = ""
	}
	if s.DraggedFrameID == a.ID {
		s.DraggedFrameID = ""
	}
	return s, changed()
}

// moveFrame snaps the requested position to the grid, then to nearby frame
// edges, and commits it only if the frame would not overlap another one.
// Member components travel with the frame.
func (e *Engine) moveFrame(s State, a MoveFrame) (State, Outcome) {
	i := s.frameIndex(a.ID)
	if i < 0 || !finite(a.X, a.Y) {
		return s, Outcome{}
	}
	f := s.Frames[i]
	x, y := a.X, a.Y
	if s.SnapToGrid {
		x = Snap(x, s.GridSize)
		y = Snap(y, s.GridSize)
	}

	others := make([]Rect, 0, len(s.Frames)-1)
	for j, o := range s.Frames {
		if j != i {
			others = append(others, o.Rect())
		}
	}
	edges := NearestEdges(Rect{X: x, Y: y, Width: f.Width, Height: f.Height}, others, e.edgeSnapThreshold)
	if edges.HasX {
		x = edges.X
	}
	if edges.HasY {
		y = edges.Y
	}

	target := Rect{X: x, Y: y, Width: f.Width, Height: f.Height}
	for _, o := range others {
		if Overlaps(target, o, 0) {
			e.logger.Debug("rejecting overlapping frame move", "id", f.ID, "x", x, "y", y)
			return s, Outcome{}
		}
	}

	dx, dy := x-f.X, y-f.Y
	frames := cloneFrames(s.Frames)
	frames[i].X, frames[i].Y = x, y
	s.Frames = frames

	if dx != 0 || dy != 0 {
		components := cloneComponents(s.Components)
		for j := range components {
			if components[j].FrameID == f.ID {
				components[j].X += dx
				components[j].Y += dy
			}
		}
		s.Components = components
	}
	return s, changed()
}

func (e *Engine) setFrameGrid(s State, a SetFrameGrid) (State, Outcome) {
	i := s.frameIndex(a.FrameID)
	if i < 0 {
		return s, Outcome{}
	}
	frames := cloneFrames(s.Frames)
	if a.Grid == nil {
		frames[i].Grid = nil
	} else {
		g := *a.Grid
		frames[i].Grid = &g
	}
	s.Frames = frames
	return s, changed()
}

func setStructureGrid(s State, a SetStructureGrid) State {
	g := s.StructureGrid
	if a.Columns > 0 {
		g.Columns = a.Columns
	}
	if a.Rows > 0 {
		g.Rows = a.Rows
	}
	if a.CellWidth > 0 {
		g.CellWidth = a.CellWidth
	}
	if a.CellHeight > 0 {
		g.CellHeight = a.CellHeight
	}
	s.StructureGrid = g
	return s
}

// --- clipboard & bulk ---

func (e *Engine) paste(s State, a PasteComponent) (State, Outcome) {
	if s.Clipboard == nil {
		return s, Outcome{}
	}
	c := s.Clipboard.Clone()
	c.ID = e.ids.Next()
	c.X += e.pasteOffset
	c.Y += e.pasteOffset
	if a.X != nil && finite(*a.X) {
		c.X = *a.X
	}
	if a.Y != nil && finite(*a.Y) {
		c.Y = *a.Y
	}
	c.Properties = e.cleanProperties(c.Type, c.Properties)
	return e.insertComponent(s, c)
}

// load overlays snap onto s without snapping or re-deriving anything.
func load(s State, snap Snapshot) State {
	if snap.Components != nil {
		s.Components = cloneComponents(snap.Components)
	}
	if snap.Frames != nil {
		s.Frames = cloneFrames(snap.Frames)
	}
	if snap.SnapToGrid != nil {
		s.SnapToGrid = *snap.SnapToGrid
	}
	if snap.GridSize != nil {
		s.GridSize = *snap.GridSize
	}
	if snap.ZoomLevel != nil {
		s.ZoomLevel = *snap.ZoomLevel
	}
	if snap.MasterGrid != nil {
		s.MasterGrid = *snap.MasterGrid
	}
	if snap.StructureGrid != nil {
		s.StructureGrid = *snap.StructureGrid
	}
	return s
}
