// Package server exposes the editor over HTTP for a browser front end.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"frameboard/internal/canvas"
	"frameboard/internal/codegen"
	"frameboard/internal/render"
	"frameboard/internal/snapshot"
	"frameboard/internal/templates"
)

const maxBody = 8 << 20

// Server routes HTTP requests to an editor.
type Server struct {
	editor *canvas.Editor
	logger *slog.Logger
	router chi.Router
}

// New returns a Server for ed. A nil logger discards output.
func New(ed *canvas.Editor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{editor: ed, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Post("/actions", s.postAction)
		r.Get("/export", s.getExport)
		r.Post("/import", s.postImport)
		r.Post("/design", s.postDesign)
		r.Route("/frames/{id}", func(r chi.Router) {
			r.Get("/png", s.getFramePNG)
			r.Get("/html", s.getFrameHTML)
		})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// stateView is the JSON shape of the full editor state.
type stateView struct {
	Components          []canvas.Component   `json:"components"`
	Frames              []canvas.Frame       `json:"frames"`
	SelectedComponentID string               `json:"selectedComponentId,omitempty"`
	SelectedFrameID     string               `json:"selectedFrameId,omitempty"`
	ActiveFrameID       string               `json:"activeFrameId,omitempty"`
	SnapToGrid          bool                 `json:"snapToGrid"`
	GridSize            int                  `json:"gridSize"`
	ZoomLevel           float64              `json:"zoomLevel"`
	MasterGrid          canvas.LayoutGrid    `json:"masterGrid"`
	StructureGrid       canvas.StructureGrid `json:"structureGrid"`
	Clipboard           *canvas.Component    `json:"clipboard,omitempty"`
}

func viewOf(st canvas.State) stateView {
	v := stateView{
		Components:          st.Components,
		Frames:              st.Frames,
		SelectedComponentID: st.SelectedComponentID,
		SelectedFrameID:     st.SelectedFrameID,
		ActiveFrameID:       st.ActiveFrameID,
		SnapToGrid:          st.SnapToGrid,
		GridSize:            st.GridSize,
		ZoomLevel:           st.ZoomLevel,
		MasterGrid:          st.MasterGrid,
		StructureGrid:       st.StructureGrid,
		Clipboard:           st.Clipboard,
	}
	if v.Components == nil {
		v.Components = []canvas.Component{}
	}
	if v.Frames == nil {
		v.Frames = []canvas.Frame{}
	}
	return v
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(s.editor.State()))
}

type actionResponse struct {
	CreatedID string    `json:"createdId,omitempty"`
	Applied   bool      `json:"applied"`
	State     stateView `json:"state"`
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("reading body: %w", err))
		return
	}
	a, err := canvas.DecodeAction(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if u, ok := a.(canvas.UnknownAction); ok {
		s.logger.Warn("ignoring unknown action", "type", u.Tag)
		writeJSON(w, http.StatusOK, actionResponse{State: viewOf(s.editor.State())})
		return
	}

	id := s.editor.Dispatch(r.Context(), a)
	writeJSON(w, http.StatusOK, actionResponse{CreatedID: id, Applied: true, State: viewOf(s.editor.State())})
}

func (s *Server) getExport(w http.ResponseWriter, _ *http.Request) {
	data, err := snapshot.Marshal(s.editor.State())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="canvas.json"`)
	w.Write(data)
}

func (s *Server) postImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("reading body: %w", err))
		return
	}
	if err := snapshot.Load(r.Context(), s.editor, body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st := s.editor.State()
	s.logger.Info("imported canvas", "components", len(st.Components), "frames", len(st.Frames))
	writeJSON(w, http.StatusOK, viewOf(st))
}

type designRequest struct {
	Prompt string   `json:"prompt"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

func (s *Server) postDesign(w http.ResponseWriter, r *http.Request) {
	var req designRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	var (
		res templates.Result
		err error
	)
	if req.X != nil && req.Y != nil {
		t, _ := templates.Match(req.Prompt)
		res, err = templates.Apply(r.Context(), s.editor, t, *req.X, *req.Y)
	} else {
		res, err = templates.Design(r.Context(), s.editor, req.Prompt)
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.logger.Info("applied design template", "template", res.Template, "frame", res.FrameID, "components", len(res.ComponentIDs))
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) getFramePNG(w http.ResponseWriter, r *http.Request) {
	opts := render.Options{Scale: 1}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 4 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}
	opts.ShowGrid = r.URL.Query().Get("grid") == "1"

	img, err := render.FrameImage(s.editor.State(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.Encode(w, img); err != nil {
		s.logger.Error("writing png", "error", err)
	}
}

func (s *Server) getFrameHTML(w http.ResponseWriter, r *http.Request) {
	page, err := codegen.String(s.editor.State(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, render.ErrFrameNotFound), errors.Is(err, codegen.ErrFrameNotFound):
		return http.StatusNotFound
	case errors.Is(err, render.ErrEmpty):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
