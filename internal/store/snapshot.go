package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"frameboard/internal/canvas"
)

// Save encodes snap with msgpack and stores it under key. It satisfies
// canvas.Sink.
func (s *Store) Save(ctx context.Context, key string, snap canvas.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.Put(ctx, key, data); err != nil {
		return err
	}
	s.logger.Debug("saved snapshot", "key", key, "bytes", len(data),
		"components", len(snap.Components), "frames", len(snap.Frames))
	return nil
}

// Load returns the snapshot stored under key. A missing key yields
// ErrNotFound.
func (s *Store) Load(ctx context.Context, key string) (canvas.Snapshot, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return canvas.Snapshot{}, err
	}
	return decodeSnapshot(data)
}

// Snapshots reuse the JSON field names so a stored blob and an exported
// document describe fields the same way.
func encodeSnapshot(snap canvas.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (canvas.Snapshot, error) {
	var snap canvas.Snapshot
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&snap); err != nil {
		return canvas.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

var _ canvas.Sink = (*Store)(nil)
