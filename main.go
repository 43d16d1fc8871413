package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"frameboard/internal/canvas"
	"frameboard/internal/server"
	"frameboard/internal/snapshot"
	"frameboard/internal/store"
	"frameboard/internal/templates"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "frameboard:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := "edit"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("frameboard "+cmd, flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (default ~/"+configFileName+")")
	listen := fs.String("listen", "", "address for serve mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := loadConfigAt(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		config.Listen = *listen
	}

	switch cmd {
	case "edit":
		return runTerminal(config)
	case "serve":
		return runServer(config)
	default:
		return fmt.Errorf("unknown command %q (want edit or serve)", cmd)
	}
}

func loadConfigAt(path string) (*Config, error) {
	if path == "" {
		return loadConfig()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return loadConfigFrom(path, home, os.Getenv)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// openEditor builds the editor, restores the last saved canvas and wires
// persistence. The returned func closes the store.
func openEditor(ctx context.Context, config *Config, logger *slog.Logger) (*canvas.Editor, func() error, error) {
	st, err := store.Open(config.Database, store.WithMkdirAll(), store.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	engine := canvas.NewEngine(canvas.UUIDGenerator{}, config.engineOptions(logger)...)
	editor := canvas.NewEditor(engine, config.initialState(), logger)

	snap, err := st.Load(ctx, config.StorageKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Info("starting with an empty canvas", "key", config.StorageKey)
	case err != nil:
		// A corrupt blob should not keep the editor from starting.
		logger.Warn("restoring canvas failed", "key", config.StorageKey, "error", err)
	default:
		editor.Dispatch(ctx, canvas.LoadFromStorage{Snapshot: snap})
		logger.Info("canvas restored", "components", len(snap.Components), "frames", len(snap.Frames))
	}

	editor.Observe(canvas.PersistTo(st, config.StorageKey, logger))
	return editor, st.Close, nil
}

func runTerminal(config *Config) error {
	logOut := io.Discard
	if config.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.LogFile), 0o755); err == nil {
			if f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				defer f.Close()
				logOut = f
			}
		}
	}
	logger := newLogger(logOut, config.Level())

	editor, closeStore, err := openEditor(context.Background(), config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	p := tea.NewProgram(
		newModel(editor, config, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}

func runServer(config *Config) error {
	logger := newLogger(os.Stdout, config.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	editor, closeStore, err := openEditor(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              config.Listen,
		Handler:           server.New(editor, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", config.Listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newModel(editor *canvas.Editor, config *Config, logger *slog.Logger) *model {
	mode := ModeNormal
	if config.StartMenu {
		mode = ModeStartup
	}
	return &model{editor: editor, config: config, logger: logger, mode: mode}
}

func (m *model) dispatch(a canvas.Action) string {
	return m.editor.Dispatch(context.Background(), a)
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		if m.mode != ModeNormal || m.help {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			return m.handleHelpKey(msg.String()), nil
		}

		switch m.mode {
		case ModeStartup:
			return m.handleStartupKey(msg.String())
		case ModeInput:
			return m.handleInputKey(msg), nil
		case ModeMove, ModeResize:
			return m.handleTransformKey(msg.String()), nil
		}
		return m.handleNormalKey(msg.String())
	}
	return m, nil
}

func (m *model) handleHelpKey(key string) tea.Model {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		maxScroll := len(helpLines) - max(m.height-1, 1)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m
}

func (m *model) handleStartupKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n":
		// Start over: clear the restored canvas and persist the empty one.
		empty := canvas.LoadFromStorage{Snapshot: canvas.Snapshot{
			Components: []canvas.Component{},
			Frames:     []canvas.Frame{},
		}}
		m.dispatch(empty)
		m.editor.Notify(context.Background(), empty)
		m.mode = ModeNormal
	case "o":
		m.mode = ModeNormal
		m.importFromClipboard()
	default:
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	if isDirection(key) {
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "z":
		m.zPanMode = !m.zPanMode
	case "esc":
		m.zPanMode = false
		m.dispatch(canvas.DeselectAll{})
	case "enter", " ":
		if _, ok := m.selectUnderCursor(); !ok {
			m.dispatch(canvas.DeselectAll{})
		}
	case "+", "=":
		m.zoom(zoomStep)
	case "-", "_":
		m.zoom(-zoomStep)
	case "0":
		m.dispatch(canvas.SetZoomLevel{Zoom: canvas.DefaultZoomLevel})
		m.panX, m.panY = 0, 0
	case "f":
		m.startInput(InputFrameName, "Frame")
	case "b", "i", "t", "x":
		m.addComponent(key)
	case "m", "r":
		m.startTransform(key)
	case "d":
		m.deleteSelection()
	case "c":
		m.copySelection()
	case "p":
		x, y := m.worldCoords()
		if m.state().Clipboard == nil {
			m.errorMessage = "Clipboard is empty"
		} else if id := m.dispatch(canvas.PasteComponent{X: &x, Y: &y}); id != "" {
			m.dispatch(canvas.SelectComponent{ID: id})
		}
	case "e":
		m.startEdit()
	case "g":
		m.dispatch(canvas.ToggleSnapToGrid{})
		m.successMessage = onOff("Snap to grid", m.state().SnapToGrid)
	case "G":
		m.dispatch(canvas.ToggleStructureGrid{})
		m.successMessage = onOff("Structure grid", m.state().StructureGrid.Visible)
	case "ctrl+g":
		m.dispatch(canvas.ToggleSnapToStructureGrid{})
		m.successMessage = onOff("Snap to structure grid", m.state().StructureGrid.Snap)
	case "a":
		m.startInput(InputDesignPrompt, "")
	case "s":
		m.startInput(InputExportJSON, "canvas.json")
	case "S":
		if _, ok := m.exportFrame(); !ok {
			m.errorMessage = "Select a frame to export"
			return m, nil
		}
		m.startInput(InputExportPNG, "frame.png")
	case "W":
		if _, ok := m.exportFrame(); !ok {
			m.errorMessage = "Select a frame to export"
			return m, nil
		}
		m.startInput(InputExportHTML, "frame.html")
	case "y":
		m.copyJSONToClipboard()
	case "o":
		m.importFromClipboard()
	}
	return m, nil
}

func onOff(label string, on bool) string {
	if on {
		return label + ": on"
	}
	return label + ": off"
}

// zoom changes the zoom level keeping the canvas point under the cursor
// fixed on screen.
func (m *model) zoom(delta float64) {
	before := m.viewport()
	cx, cy := float64(m.cursorX*cellWidth), float64(m.cursorY*cellHeight)
	wx, wy := before.ToCanvas(cx, cy)

	m.dispatch(canvas.SetZoomLevel{Zoom: canvas.ClampZoom(before.Zoom + delta)})

	zoom := m.state().ZoomLevel
	m.panX = cx - wx*zoom
	m.panY = cy - wy*zoom
}

func (m *model) addComponent(key string) {
	def := componentDefaults[key]
	x, y := m.worldCoords()
	id := m.dispatch(canvas.AddComponent{
		Kind:    def.kind,
		X:       x,
		Y:       y,
		Width:   def.width,
		Height:  def.height,
		Content: def.content,
	})
	if id == "" {
		m.errorMessage = "Could not add " + string(def.kind)
		return
	}
	m.dispatch(canvas.SelectComponent{ID: id})
}

func (m *model) startTransform(key string) {
	sel, ok := m.selectUnderCursor()
	if !ok {
		m.errorMessage = "Nothing selected"
		return
	}
	r, _ := m.rectOf(sel)
	m.originalX, m.originalY = r.X, r.Y
	m.originalWidth, m.originalHeight = r.Width, r.Height
	if key == "m" {
		m.mode = ModeMove
		if sel.isFrame {
			m.dispatch(canvas.SetDraggedFrame{ID: sel.id})
		}
		m.dispatch(canvas.SetDragging{Dragging: true})
		return
	}
	m.mode = ModeResize
	m.dispatch(canvas.SetResizing{Resizing: true})
}

func (m *model) handleTransformKey(key string) tea.Model {
	m.errorMessage = ""
	switch {
	case key == "esc":
		m.restoreOriginal()
		m.endTransform()
	case key == "enter":
		m.endTransform()
	case isDirection(key):
		if m.mode == ModeMove {
			m.handleMoveKey(key, m.getMoveSpeed(key))
		} else {
			m.handleResizeKey(key, m.getMoveSpeed(key))
		}
	}
	return m
}

func (m *model) restoreOriginal() {
	sel, ok := m.selected()
	if !ok {
		return
	}
	if m.mode == ModeMove {
		if sel.isFrame {
			m.dispatch(canvas.MoveFrame{ID: sel.id, X: m.originalX, Y: m.originalY})
		} else {
			m.dispatch(canvas.MoveComponent{ID: sel.id, X: m.originalX, Y: m.originalY})
		}
		return
	}
	if sel.isFrame {
		w, h := m.originalWidth, m.originalHeight
		m.dispatch(canvas.UpdateFrame{ID: sel.id, Width: &w, Height: &h})
	} else {
		m.dispatch(canvas.ResizeComponent{ID: sel.id, Width: m.originalWidth, Height: m.originalHeight})
	}
}

func (m *model) endTransform() {
	if m.mode == ModeMove {
		m.dispatch(canvas.SetDragging{Dragging: false})
		m.dispatch(canvas.SetDraggedFrame{})
	} else {
		m.dispatch(canvas.SetResizing{Resizing: false})
	}
	m.mode = ModeNormal
}

func (m *model) deleteSelection() {
	sel, ok := m.selectUnderCursor()
	if !ok {
		m.errorMessage = "Nothing to delete"
		return
	}
	if sel.isFrame {
		n := len(m.state().ComponentsIn(sel.id))
		m.dispatch(canvas.DeleteFrame{ID: sel.id})
		m.successMessage = fmt.Sprintf("Deleted frame, detached %d components", n)
		return
	}
	m.dispatch(canvas.DeleteComponent{ID: sel.id})
}

func (m *model) copySelection() {
	sel, ok := m.selectUnderCursor()
	if !ok || sel.isFrame {
		m.errorMessage = "Select a component to copy"
		return
	}
	c, _ := m.state().Component(sel.id)
	m.dispatch(canvas.SetClipboard{Component: c})
	m.successMessage = "Copied " + string(c.Type)
}

func (m *model) startEdit() {
	sel, ok := m.selectUnderCursor()
	if !ok {
		m.errorMessage = "Nothing to edit"
		return
	}
	if sel.isFrame {
		f, _ := m.state().Frame(sel.id)
		m.startInput(InputFrameName, f.Name)
		return
	}
	c, _ := m.state().Component(sel.id)
	m.startInput(InputEditContent, c.Content)
}

func (m *model) startInput(purpose InputPurpose, initial string) {
	m.mode = ModeInput
	m.inputPurpose = purpose
	m.inputText = initial
	m.inputCursor = len([]rune(initial))
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Model {
	text := []rune(m.inputText)
	switch {
	case msg.Type == tea.KeyEscape:
		m.mode = ModeNormal
		m.inputText = ""
		m.inputCursor = 0
	case msg.Type == tea.KeyEnter:
		m.mode = ModeNormal
		m.submitInput(m.inputText)
		m.inputText = ""
		m.inputCursor = 0
	case msg.Type == tea.KeyCtrlJ && m.inputPurpose == InputEditContent:
		m.inputText = string(text[:m.inputCursor]) + "\n" + string(text[m.inputCursor:])
		m.inputCursor++
	case msg.String() == "left":
		if m.inputCursor > 0 {
			m.inputCursor--
		}
	case msg.String() == "right":
		if m.inputCursor < len(text) {
			m.inputCursor++
		}
	case msg.Type == tea.KeyBackspace:
		if m.inputCursor > 0 {
			m.inputText = string(text[:m.inputCursor-1]) + string(text[m.inputCursor:])
			m.inputCursor--
		}
	case msg.Type == tea.KeyDelete:
		if m.inputCursor < len(text) {
			m.inputText = string(text[:m.inputCursor]) + string(text[m.inputCursor+1:])
		}
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		ins := msg.Runes
		if msg.Type == tea.KeySpace {
			ins = []rune{' '}
		}
		m.inputText = string(text[:m.inputCursor]) + string(ins) + string(text[m.inputCursor:])
		m.inputCursor += len(ins)
	}
	return m
}

func (m *model) submitInput(value string) {
	switch m.inputPurpose {
	case InputFrameName:
		m.submitFrameName(value)
	case InputEditContent:
		if sel, ok := m.selected(); ok && !sel.isFrame {
			m.dispatch(canvas.UpdateComponentContent{ID: sel.id, Content: value})
		}
	case InputDesignPrompt:
		res, err := templates.Design(context.Background(), m.editor, value)
		if err != nil {
			m.errorMessage = err.Error()
			return
		}
		m.dispatch(canvas.SelectFrame{ID: res.FrameID})
		m.revealFrame(res.FrameID)
		m.successMessage = fmt.Sprintf("Designed %q with %d components", res.Template, len(res.ComponentIDs))
	case InputExportJSON, InputExportPNG, InputExportHTML:
		path, err := m.export(m.inputPurpose, strings.TrimSpace(value))
		if err != nil {
			m.errorMessage = err.Error()
			m.logger.Error("export failed", "error", err)
			return
		}
		m.successMessage = "Saved " + path
	}
}

// submitFrameName renames the selected frame, or adds a new one at the
// cursor when no frame is selected.
func (m *model) submitFrameName(name string) {
	if sel, ok := m.selected(); ok && sel.isFrame {
		m.dispatch(canvas.UpdateFrame{ID: sel.id, Name: &name})
		return
	}
	x, y := m.worldCoords()
	id := m.dispatch(canvas.AddFrame{Name: name, X: x, Y: y, Width: defaultFrameWidth, Height: defaultFrameHeight})
	if id == "" {
		m.errorMessage = "Could not add frame"
		return
	}
	m.dispatch(canvas.SelectFrame{ID: id})
	m.dispatch(canvas.SetActiveFrame{ID: id})
	m.revealFrame(id)
}

// revealFrame pans so the frame's top-left corner is on screen when it was
// placed somewhere else than the cursor.
func (m *model) revealFrame(id string) {
	f, ok := m.state().Frame(id)
	if !ok {
		return
	}
	x, y := screenAt(m.viewport(), f.X, f.Y)
	if x >= 0 && y >= 0 && x < m.width && y < m.height-1 {
		return
	}
	zoom := m.state().ZoomLevel
	m.panX = float64(2*cellWidth) - f.X*zoom
	m.panY = float64(cellHeight) - f.Y*zoom
	m.cursorX, m.cursorY = 2, 1
}

func (m *model) copyJSONToClipboard() {
	data, err := snapshot.Marshal(m.state())
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if err := writeClipboardText(string(data)); err != nil {
		m.errorMessage = "Clipboard unavailable: " + err.Error()
		return
	}
	m.successMessage = "Canvas JSON copied"
}

func (m *model) importFromClipboard() {
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = "Clipboard unavailable: " + err.Error()
		return
	}
	ctx := context.Background()
	if err := snapshot.Load(ctx, m.editor, []byte(cleanClipboardText(text))); err != nil {
		m.errorMessage = err.Error()
		return
	}
	s := m.state()
	m.successMessage = fmt.Sprintf("Imported %d frames, %d components", len(s.Frames), len(s.Components))
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	m.cursorX, m.cursorY = msg.X, msg.Y
	m.ensureCursorInBounds()

	switch msg.Type {
	case tea.MouseLeft:
		if m.drag != nil {
			m.dragTo(msg.X, msg.Y)
			return
		}
		m.startDrag(msg.X, msg.Y)
	case tea.MouseMotion:
		if m.drag != nil {
			m.dragTo(msg.X, msg.Y)
		}
	case tea.MouseRelease:
		if m.drag != nil {
			m.dispatch(canvas.SetDragging{Dragging: false})
			if m.drag.isFrame {
				m.dispatch(canvas.SetDraggedFrame{})
			}
			m.drag = nil
		}
	}
}

func (m *model) startDrag(cellX, cellY int) {
	sel, ok := m.entityUnderCursor()
	if !ok {
		m.dispatch(canvas.DeselectAll{})
		return
	}
	m.selectEntity(sel)
	r, _ := m.rectOf(sel)
	x, y := m.canvasAt(cellX, cellY)
	m.drag = &dragState{id: sel.id, isFrame: sel.isFrame, offsetX: x - r.X, offsetY: y - r.Y}
	m.dispatch(canvas.SetDragging{Dragging: true})
	if sel.isFrame {
		m.dispatch(canvas.SetDraggedFrame{ID: sel.id})
	}
}

func (m *model) dragTo(cellX, cellY int) {
	x, y := m.canvasAt(cellX, cellY)
	x -= m.drag.offsetX
	y -= m.drag.offsetY
	if m.drag.isFrame {
		m.dispatch(canvas.MoveFrame{ID: m.drag.id, X: x, Y: y})
		return
	}
	m.dispatch(canvas.MoveComponent{ID: m.drag.id, X: x, Y: y})
}
