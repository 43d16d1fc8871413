// Package snapshot reads and writes the JSON export format of a canvas.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"frameboard/internal/canvas"
)

// ErrEmpty is returned by Parse when the input holds no JSON value or a
// bare null.
var ErrEmpty = errors.New("snapshot: empty input")

// Document is the export shape. Field order matches the written JSON.
type Document struct {
	Components []canvas.Component `json:"components"`
	Frames     []canvas.Frame     `json:"frames"`
	SnapToGrid bool               `json:"snapToGrid"`
	GridSize   int                `json:"gridSize"`
	ZoomLevel  float64            `json:"zoomLevel"`
}

// FromState builds the export document for s.
func FromState(s canvas.State) Document {
	doc := Document{
		Components: make([]canvas.Component, 0, len(s.Components)),
		Frames:     make([]canvas.Frame, 0, len(s.Frames)),
		SnapToGrid: s.SnapToGrid,
		GridSize:   s.GridSize,
		ZoomLevel:  s.ZoomLevel,
	}
	for _, c := range s.Components {
		doc.Components = append(doc.Components, c.Clone())
	}
	doc.Frames = append(doc.Frames, s.Frames...)
	return doc
}

// Export writes s as indented JSON.
func Export(w io.Writer, s canvas.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromState(s)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Marshal returns the indented JSON export of s.
func Marshal(s canvas.State) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes an export document. Fields missing from the input stay nil
// in the returned snapshot so a load leaves the current values alone.
func Parse(data []byte) (canvas.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return canvas.Snapshot{}, ErrEmpty
	}
	var snap canvas.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return canvas.Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	for _, c := range snap.Components {
		if c.ID == "" {
			return canvas.Snapshot{}, fmt.Errorf("parsing snapshot: component without id")
		}
	}
	for _, f := range snap.Frames {
		if f.ID == "" {
			return canvas.Snapshot{}, fmt.Errorf("parsing snapshot: frame without id")
		}
	}
	return snap, nil
}

// Import reads a document from r.
func Import(r io.Reader) (canvas.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return canvas.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return Parse(data)
}

// Dispatcher is the part of canvas.Editor that Load needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, a canvas.Action) string
	Notify(ctx context.Context, a canvas.Action)
}

// Load parses data, dispatches it as a bulk load and then notifies observers
// with the same action so the import is persisted. Nothing is dispatched
// when parsing fails.
func Load(ctx context.Context, d Dispatcher, data []byte) error {
	snap, err := Parse(data)
	if err != nil {
		return err
	}
	load := canvas.LoadFromStorage{Snapshot: snap}
	d.Dispatch(ctx, load)
	d.Notify(ctx, load)
	return nil
}
