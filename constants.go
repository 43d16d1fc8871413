package main

import "frameboard/internal/canvas"

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeMove
	ModeResize
	ModeInput
)

type InputPurpose int

const (
	InputEditContent InputPurpose = iota
	InputFrameName
	InputDesignPrompt
	InputExportJSON
	InputExportPNG
	InputExportHTML
)

// One terminal cell stands for this many client pixels.
const (
	cellWidth  = 8
	cellHeight = 16
)

const (
	zoomStep = 0.25

	defaultFrameWidth  = 375
	defaultFrameHeight = 667
)

// Default sizes, in canvas units, of components created from the keyboard.
var componentDefaults = map[string]struct {
	kind          canvas.ComponentType
	width, height float64
	content       string
}{
	"b": {canvas.TypeButton, 120, 40, "Button"},
	"i": {canvas.TypeInput, 200, 40, ""},
	"t": {canvas.TypeText, 160, 32, "Text"},
	"x": {canvas.TypeCheckbox, 160, 32, "Checkbox"},
}
