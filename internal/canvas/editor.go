package canvas

import (
	"context"
	"log/slog"
	"sync"
)

// Observer is called after a dispatch changed the state. It receives the new
// state and the action that produced it.
type Observer func(ctx context.Context, s State, a Action)

// Sink receives the persisted subset of the canvas after each change.
type Sink interface {
	Save(ctx context.Context, key string, snap Snapshot) error
}

// Editor owns the current canvas state. Dispatch is the only way to change
// it; observers registered with Observe see every changed state except bulk
// loads, in the order the states were committed. Observers must not call
// Dispatch or Notify themselves.
type Editor struct {
	mu        sync.RWMutex
	engine    *Engine
	state     State
	observers []Observer
	logger    *slog.Logger
	seq       uint64 // last delivery ticket handed out, guarded by mu

	deliverMu sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

// NewEditor returns an Editor starting from initial.
func NewEditor(engine *Engine, initial State, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ed := &Editor{engine: engine, state: initial, logger: logger}
	ed.turn = sync.NewCond(&ed.deliverMu)
	return ed
}

// Observe registers fn for future changes.
func (ed *Editor) Observe(fn Observer) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.observers = append(ed.observers, fn)
}

// State returns the current state. Callers must treat it as read-only.
func (ed *Editor) State() State {
	ed.mu.RLock()
	defer ed.mu.RUnlock()
	return ed.state
}

// Dispatch applies a and returns the id of any entity it created.
func (ed *Editor) Dispatch(ctx context.Context, a Action) string {
	ed.mu.Lock()
	next, out := ed.engine.Reduce(ed.state, a)
	if !out.Changed {
		ed.mu.Unlock()
		return ""
	}
	ed.state = next
	ed.seq++
	ticket := ed.seq
	observers := append([]Observer(nil), ed.observers...)
	ed.mu.Unlock()

	_, bulk := a.(LoadFromStorage)
	ed.deliver(ticket, func() {
		if bulk {
			return
		}
		for _, fn := range observers {
			fn(ctx, next, a)
		}
	})
	return out.CreatedID
}

// Notify runs the observers against the current state as if a had just been
// applied. Imports use it after a bulk load that should be persisted.
func (ed *Editor) Notify(ctx context.Context, a Action) {
	ed.mu.Lock()
	s := ed.state
	ed.seq++
	ticket := ed.seq
	observers := append([]Observer(nil), ed.observers...)
	ed.mu.Unlock()

	ed.deliver(ticket, func() {
		for _, fn := range observers {
			fn(ctx, s, a)
		}
	})
}

// deliver runs fn once every earlier ticket has been delivered, so a slow
// observer can never let an older state overwrite a newer one downstream.
func (ed *Editor) deliver(ticket uint64, fn func()) {
	ed.deliverMu.Lock()
	for ed.delivered != ticket-1 {
		ed.turn.Wait()
	}
	ed.deliverMu.Unlock()

	defer func() {
		ed.deliverMu.Lock()
		ed.delivered = ticket
		ed.deliverMu.Unlock()
		ed.turn.Broadcast()
	}()
	fn()
}

// PersistTo returns an observer writing the persisted subset to sink under
// key. Transient interaction actions are skipped. Save errors are logged and
// never reach the dispatcher.
func PersistTo(sink Sink, key string, logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(ctx context.Context, s State, a Action) {
		if transient(a) {
			return
		}
		if err := sink.Save(ctx, key, Persisted(s)); err != nil {
			logger.Error("persisting canvas failed", "key", key, "action", a.Type(), "error", err)
		}
	}
}

func transient(a Action) bool {
	switch a.(type) {
	case SetDragging, SetResizing, SetDraggedFrame, SelectComponent, SelectFrame, DeselectAll, SetClipboard:
		return true
	}
	return false
}

// Persisted extracts the fields that survive a restart.
func Persisted(s State) Snapshot {
	snap := s.SnapToGrid
	size := s.GridSize
	zoom := s.ZoomLevel
	master := s.MasterGrid
	structure := s.StructureGrid
	return Snapshot{
		Components:    cloneComponents(s.Components),
		Frames:        cloneFrames(s.Frames),
		SnapToGrid:    &snap,
		GridSize:      &size,
		ZoomLevel:     &zoom,
		MasterGrid:    &master,
		StructureGrid: &structure,
	}
}
