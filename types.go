package main

import (
	"log/slog"

	"frameboard/internal/canvas"
)

type model struct {
	editor *canvas.Editor
	config *Config
	logger *slog.Logger

	width      int
	height     int
	cursorX    int
	cursorY    int
	panX       float64 // client pixels
	panY       float64
	zPanMode   bool
	mode       Mode
	help       bool
	helpScroll int

	inputPurpose InputPurpose
	inputText    string
	inputCursor  int

	// move/resize keyboard modes remember where they started so Esc can
	// put things back.
	originalX      float64
	originalY      float64
	originalWidth  float64
	originalHeight float64

	drag *dragState

	errorMessage   string
	successMessage string
}

// dragState tracks a mouse drag in progress.
type dragState struct {
	id      string
	isFrame bool
	// offset from the entity's top-left corner to the grab point, canvas units
	offsetX float64
	offsetY float64
}

// selection is whatever the next move/resize/delete applies to.
type selection struct {
	id      string
	isFrame bool
}
