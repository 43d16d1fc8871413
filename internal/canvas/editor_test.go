package canvas

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	saves []Snapshot
	keys  []string
	err   error
}

func (r *recordingSink) Save(_ context.Context, key string, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	r.saves = append(r.saves, snap)
	return r.err
}

func newTestEditor() *Editor {
	return NewEditor(newTestEngine(), NewState(), nil)
}

func TestEditor_DispatchReturnsCreatedID(t *testing.T) {
	ed := newTestEditor()
	ctx := context.Background()

	frameID := ed.Dispatch(ctx, AddFrame{Name: "Desktop", Width: 1440, Height: 900})
	require.NotEmpty(t, frameID)
	compID := ed.Dispatch(ctx, button(10, 10, 100, 40))
	require.NotEmpty(t, compID)

	c, ok := ed.State().Component(compID)
	require.True(t, ok)
	assert.Equal(t, frameID, c.FrameID)

	assert.Empty(t, ed.Dispatch(ctx, ToggleSnapToGrid{}))
}

func TestEditor_ObserversSeeChanges(t *testing.T) {
	ed := newTestEditor()
	var seen []ActionType
	ed.Observe(func(_ context.Context, s State, a Action) {
		seen = append(seen, a.Type())
	})

	ctx := context.Background()
	ed.Dispatch(ctx, AddFrame{Name: "A", Width: 10, Height: 10})
	ed.Dispatch(ctx, DeleteFrame{ID: "missing"})
	ed.Dispatch(ctx, LoadFromStorage{Snapshot: Snapshot{Frames: []Frame{}}})
	ed.Dispatch(ctx, ToggleSnapToGrid{})

	assert.Equal(t, []ActionType{ActionAddFrame, ActionToggleSnapToGrid}, seen)
}

func TestPersistTo_SkipsTransientActions(t *testing.T) {
	sink := &recordingSink{}
	ed := newTestEditor()
	ed.Observe(PersistTo(sink, "canvasState", nil))

	ctx := context.Background()
	id := ed.Dispatch(ctx, button(0, 0, 10, 10))
	ed.Dispatch(ctx, SelectComponent{ID: id})
	ed.Dispatch(ctx, SetDragging{Dragging: true})
	ed.Dispatch(ctx, MoveComponent{ID: id, X: 30, Y: 30})

	require.Len(t, sink.saves, 2)
	assert.Equal(t, []string{"canvasState", "canvasState"}, sink.keys)
	last := sink.saves[1]
	require.Len(t, last.Components, 1)
	assert.Equal(t, 30.0, last.Components[0].X)
	require.NotNil(t, last.GridSize)
	assert.Equal(t, DefaultGridSize, *last.GridSize)
}

func TestPersistTo_LogsSaveErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sink := &recordingSink{err: errors.New("disk full")}

	ed := newTestEditor()
	ed.Observe(PersistTo(sink, "canvasState", logger))

	id := ed.Dispatch(context.Background(), AddFrame{Name: "A", Width: 10, Height: 10})
	assert.NotEmpty(t, id, "dispatch succeeds even when persistence fails")
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), string(ActionAddFrame))
}

func TestPersisted_CopiesSlices(t *testing.T) {
	s, _ := newTestEngine().Reduce(NewState(), button(0, 0, 10, 10))
	snap := Persisted(s)
	snap.Components[0].X = 99
	assert.Equal(t, 0.0, s.Components[0].X)
}

func TestEditor_ConcurrentDispatch(t *testing.T) {
	ed := newTestEditor()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ed.Dispatch(ctx, button(float64(i*50), 0, 10, 10))
			_ = ed.State()
		}(i)
	}
	wg.Wait()
	assert.Len(t, ed.State().Components, 20)
}

func TestEditor_NotifyAfterBulkLoad(t *testing.T) {
	sink := &recordingSink{}
	ed := newTestEditor()
	ed.Observe(PersistTo(sink, "canvasState", nil))

	ctx := context.Background()
	load := LoadFromStorage{Snapshot: Snapshot{Frames: []Frame{{ID: "f1", Width: 10, Height: 10}}}}
	ed.Dispatch(ctx, load)
	assert.Empty(t, sink.saves)

	ed.Notify(ctx, load)
	require.Len(t, sink.saves, 1)
	assert.Equal(t, "f1", sink.saves[0].Frames[0].ID)
}

func TestEditor_SlowObserverKeepsPersistOrder(t *testing.T) {
	sink := &recordingSink{}
	ed := newTestEditor()
	entered := make(chan struct{})
	release := make(chan struct{})
	ed.Observe(func(_ context.Context, s State, _ Action) {
		if len(s.Frames) == 1 {
			close(entered)
			<-release
		}
	})
	ed.Observe(PersistTo(sink, "canvasState", nil))

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ed.Dispatch(ctx, AddFrame{Name: "A", Width: 100, Height: 100})
	}()
	<-entered
	go func() {
		defer wg.Done()
		ed.Dispatch(ctx, AddFrame{Name: "B", X: 500, Width: 100, Height: 100})
	}()

	require.Eventually(t, func() bool { return len(ed.State().Frames) == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.saves, 2)
	assert.Len(t, sink.saves[0].Frames, 1)
	assert.Len(t, sink.saves[1].Frames, 2, "the newest state is saved last")
}
