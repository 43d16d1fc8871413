package canvas

import (
	"encoding/json"
	"fmt"
)

// ActionType is the wire tag of an action.
type ActionType string

const (
	ActionAddComponent              ActionType = "ADD_COMPONENT"
	ActionMoveComponent             ActionType = "MOVE_COMPONENT"
	ActionResizeComponent           ActionType = "RESIZE_COMPONENT"
	ActionUpdateComponentProperties ActionType = "UPDATE_COMPONENT_PROPERTIES"
	ActionUpdateComponentContent    ActionType = "UPDATE_COMPONENT_CONTENT"
	ActionDeleteComponent           ActionType = "DELETE_COMPONENT"
	ActionSelectComponent           ActionType = "SELECT_COMPONENT"

	ActionAddFrame       ActionType = "ADD_FRAME"
	ActionUpdateFrame    ActionType = "UPDATE_FRAME"
	ActionDeleteFrame    ActionType = "DELETE_FRAME"
	ActionMoveFrame      ActionType = "MOVE_FRAME"
	ActionSetActiveFrame ActionType = "SET_ACTIVE_FRAME"
	ActionSelectFrame    ActionType = "SELECT_FRAME"
	ActionDeselectAll    ActionType = "DESELECT_ALL"

	ActionToggleSnapToGrid          ActionType = "TOGGLE_SNAP_TO_GRID"
	ActionSetGridSize               ActionType = "SET_GRID_SIZE"
	ActionSetMasterGrid             ActionType = "SET_MASTER_GRID"
	ActionSetFrameGrid              ActionType = "SET_FRAME_GRID"
	ActionToggleStructureGrid       ActionType = "TOGGLE_STRUCTURE_GRID"
	ActionSetStructureGrid          ActionType = "SET_STRUCTURE_GRID"
	ActionToggleSnapToStructureGrid ActionType = "TOGGLE_SNAP_TO_STRUCTURE_GRID"
	ActionSetZoomLevel              ActionType = "SET_ZOOM_LEVEL"

	ActionSetClipboard   ActionType = "SET_CLIPBOARD"
	ActionPasteComponent ActionType = "PASTE_COMPONENT"

	ActionLoadFromStorage ActionType = "LOAD_FROM_STORAGE"

	ActionSetDragging     ActionType = "SET_DRAGGING"
	ActionSetResizing     ActionType = "SET_RESIZING"
	ActionSetDraggedFrame ActionType = "SET_DRAGGED_FRAME"
)

// Action is one mutation request. The set of implementations is closed:
// only the types in this file satisfy it.
type Action interface {
	Type() ActionType
	action()
}

type AddComponent struct {
	Kind       ComponentType `json:"type"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Content    string        `json:"content,omitempty"`
	Properties Properties    `json:"properties,omitempty"`
	GridCell   *GridCell     `json:"gridCell,omitempty"`
}

type MoveComponent struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type ResizeComponent struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type UpdateComponentProperties struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}

type UpdateComponentContent struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type DeleteComponent struct {
	ID string `json:"id"`
}

// SelectComponent selects a component; an empty ID clears the selection.
type SelectComponent struct {
	ID string `json:"id"`
}

type AddFrame struct {
	Name   string      `json:"name"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Grid   *LayoutGrid `json:"grid,omitempty"`
}

// UpdateFrame merges the non-nil fields into the frame.
type UpdateFrame struct {
	ID     string   `json:"id"`
	Name   *string  `json:"name,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

type DeleteFrame struct {
	ID string `json:"id"`
}

type MoveFrame struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// SetActiveFrame sets the frame new components attach to first. An empty ID
// clears it.
type SetActiveFrame struct {
	ID string `json:"id"`
}

// SelectFrame selects a frame; an empty ID clears the selection.
type SelectFrame struct {
	ID string `json:"id"`
}

type DeselectAll struct{}

type ToggleSnapToGrid struct{}

type SetGridSize struct {
	Size int `json:"size"`
}

type SetMasterGrid struct {
	Grid LayoutGrid `json:"grid"`
}

// SetFrameGrid replaces the frame's layout grid override. A nil Grid falls
// back to the master grid.
type SetFrameGrid struct {
	FrameID string      `json:"frameId"`
	Grid    *LayoutGrid `json:"grid"`
}

type ToggleStructureGrid struct{}

// SetStructureGrid changes the structure grid dimensions. Non-positive
// fields are left as they were.
type SetStructureGrid struct {
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	CellWidth  float64 `json:"cellWidth"`
	CellHeight float64 `json:"cellHeight"`
}

type ToggleSnapToStructureGrid struct{}

type SetZoomLevel struct {
	Zoom float64 `json:"zoom"`
}

type SetClipboard struct {
	Component Component `json:"component"`
}

// PasteComponent pastes the clipboard. Without coordinates the copy lands
// offset from the original.
type PasteComponent struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

type LoadFromStorage struct {
	Snapshot Snapshot `json:"snapshot"`
}

type SetDragging struct {
	Dragging bool `json:"dragging"`
}

type SetResizing struct {
	Resizing bool `json:"resizing"`
}

type SetDraggedFrame struct {
	ID string `json:"id"`
}

// UnknownAction carries a tag this package does not handle. The engine
// ignores it.
type UnknownAction struct {
	Tag ActionType `json:"-"`
}

// Snapshot is a partial state used for import and restore. Nil fields leave
// the current value alone.
type Snapshot struct {
	Components    []Component    `json:"components"`
	Frames        []Frame        `json:"frames"`
	SnapToGrid    *bool          `json:"snapToGrid,omitempty"`
	GridSize      *int           `json:"gridSize,omitempty"`
	ZoomLevel     *float64       `json:"zoomLevel,omitempty"`
	MasterGrid    *LayoutGrid    `json:"masterGrid,omitempty"`
	StructureGrid *StructureGrid `json:"structureGrid,omitempty"`
}

func (AddComponent) Type() ActionType              { return ActionAddComponent }
func (MoveComponent) Type() ActionType             { return ActionMoveComponent }
func (ResizeComponent) Type() ActionType           { return ActionResizeComponent }
func (UpdateComponentProperties) Type() ActionType { return ActionUpdateComponentProperties }
func (UpdateComponentContent) Type() ActionType    { return ActionUpdateComponentContent }
func (DeleteComponent) Type() ActionType           { return ActionDeleteComponent }
func (SelectComponent) Type() ActionType           { return ActionSelectComponent }
func (AddFrame) Type() ActionType                  { return ActionAddFrame }
func (UpdateFrame) Type() ActionType               { return ActionUpdateFrame }
func (DeleteFrame) Type() ActionType               { return ActionDeleteFrame }
func (MoveFrame) Type() ActionType                 { return ActionMoveFrame }
func (SetActiveFrame) Type() ActionType            { return ActionSetActiveFrame }
func (SelectFrame) Type() ActionType               { return ActionSelectFrame }
func (DeselectAll) Type() ActionType               { return ActionDeselectAll }
func (ToggleSnapToGrid) Type() ActionType          { return ActionToggleSnapToGrid }
func (SetGridSize) Type() ActionType               { return ActionSetGridSize }
func (SetMasterGrid) Type() ActionType             { return ActionSetMasterGrid }
func (SetFrameGrid) Type() ActionType              { return ActionSetFrameGrid }
func (ToggleStructureGrid) Type() ActionType       { return ActionToggleStructureGrid }
func (SetStructureGrid) Type() ActionType          { return ActionSetStructureGrid }
func (ToggleSnapToStructureGrid) Type() ActionType { return ActionToggleSnapToStructureGrid }
func (SetZoomLevel) Type() ActionType              { return ActionSetZoomLevel }
func (SetClipboard) Type() ActionType              { return ActionSetClipboard }
func (PasteComponent) Type() ActionType            { return ActionPasteComponent }
func (LoadFromStorage) Type() ActionType           { return ActionLoadFromStorage }
func (SetDragging) Type() ActionType               { return ActionSetDragging }
func (SetResizing) Type() ActionType               { return ActionSetResizing }
func (SetDraggedFrame) Type() ActionType           { return ActionSetDraggedFrame }
func (u UnknownAction) Type() ActionType           { return u.Tag }

func (AddComponent) action()              {}
func (MoveComponent) action()             {}
func (ResizeComponent) action()           {}
func (UpdateComponentProperties) action() {}
func (UpdateComponentContent) action()    {}
func (DeleteComponent) action()           {}
func (SelectComponent) action()           {}
func (AddFrame) action()                  {}
func (UpdateFrame) action()               {}
func (DeleteFrame) action()               {}
func (MoveFrame) action()                 {}
func (SetActiveFrame) action()            {}
func (SelectFrame) action()               {}
func (DeselectAll) action()               {}
func (ToggleSnapToGrid) action()          {}
func (SetGridSize) action()               {}
func (SetMasterGrid) action()             {}
func (SetFrameGrid) action()              {}
func (ToggleStructureGrid) action()       {}
func (SetStructureGrid) action()          {}
func (ToggleSnapToStructureGrid) action() {}
func (SetZoomLevel) action()              {}
func (SetClipboard) action()              {}
func (PasteComponent) action()            {}
func (LoadFromStorage) action()           {}
func (SetDragging) action()               {}
func (SetResizing) action()               {}
func (SetDraggedFrame) action()           {}
func (UnknownAction) action()             {}

type envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var decoders = map[ActionType]func(json.RawMessage) (Action, error){
	ActionAddComponent:              decodeAs[AddComponent],
	ActionMoveComponent:             decodeAs[MoveComponent],
	ActionResizeComponent:           decodeAs[ResizeComponent],
	ActionUpdateComponentProperties: decodeAs[UpdateComponentProperties],
	ActionUpdateComponentContent:    decodeAs[UpdateComponentContent],
	ActionDeleteComponent:           decodeAs[DeleteComponent],
	ActionSelectComponent:           decodeAs[SelectComponent],
	ActionAddFrame:                  decodeAs[AddFrame],
	ActionUpdateFrame:               decodeAs[UpdateFrame],
	ActionDeleteFrame:               decodeAs[DeleteFrame],
	ActionMoveFrame:                 decodeAs[MoveFrame],
	ActionSetActiveFrame:            decodeAs[SetActiveFrame],
	ActionSelectFrame:               decodeAs[SelectFrame],
	ActionDeselectAll:               decodeAs[DeselectAll],
	ActionToggleSnapToGrid:          decodeAs[ToggleSnapToGrid],
	ActionSetGridSize:               decodeAs[SetGridSize],
	ActionSetMasterGrid:             decodeAs[SetMasterGrid],
	ActionSetFrameGrid:              decodeAs[SetFrameGrid],
	ActionToggleStructureGrid:       decodeAs[ToggleStructureGrid],
	ActionSetStructureGrid:          decodeAs[SetStructureGrid],
	ActionToggleSnapToStructureGrid: decodeAs[ToggleSnapToStructureGrid],
	ActionSetZoomLevel:              decodeAs[SetZoomLevel],
	ActionSetClipboard:              decodeAs[SetClipboard],
	ActionPasteComponent:            decodeAs[PasteComponent],
	ActionLoadFromStorage:           decodeAs[LoadFromStorage],
	ActionSetDragging:               decodeAs[SetDragging],
	ActionSetResizing:               decodeAs[SetResizing],
	ActionSetDraggedFrame:           decodeAs[SetDraggedFrame],
}

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var a T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// DecodeAction parses a {"type": ..., "payload": {...}} envelope. Tags this
// package does not know decode to UnknownAction rather than an error; only
// malformed JSON fails.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding action: %w", err)
	}
	decode, ok := decoders[env.Type]
	if !ok {
		return UnknownAction{Tag: env.Type}, nil
	}
	a, err := decode(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", env.Type, err)
	}
	return a, nil
}

// EncodeAction wraps a in the envelope DecodeAction reads.
func EncodeAction(a Action) ([]byte, error) {
	if _, ok := a.(UnknownAction); ok {
		return nil, fmt.Errorf("encoding action: unknown type %q", a.Type())
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", a.Type(), err)
	}
	return json.Marshal(envelope{Type: a.Type(), Payload: payload})
}
