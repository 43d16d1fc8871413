package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"frameboard/internal/codegen"
	"frameboard/internal/render"
	"frameboard/internal/snapshot"
)

// exportFrame picks the frame file exports apply to: the selected frame,
// else the frame of the selected component, else the active frame.
func (m *model) exportFrame() (string, bool) {
	s := m.state()
	if _, ok := s.Frame(s.SelectedFrameID); ok {
		return s.SelectedFrameID, true
	}
	if c, ok := s.Component(s.SelectedComponentID); ok && c.FrameID != "" {
		return c.FrameID, true
	}
	if _, ok := s.Frame(s.ActiveFrameID); ok {
		return s.ActiveFrameID, true
	}
	return "", false
}

// export writes the canvas or a frame to name in the save directory and
// returns the path written.
func (m *model) export(purpose InputPurpose, name string) (string, error) {
	if name == "" {
		return "", errors.New("no file name given")
	}
	ext := map[InputPurpose]string{InputExportJSON: ".json", InputExportPNG: ".png", InputExportHTML: ".html"}[purpose]
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}
	path := m.config.GetSavePath(name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	s := m.state()
	switch purpose {
	case InputExportJSON:
		err = snapshot.Export(file, s)
	case InputExportPNG, InputExportHTML:
		frameID, ok := m.exportFrame()
		if !ok {
			err = errors.New("no frame selected")
			break
		}
		if purpose == InputExportPNG {
			err = render.Frame(file, s, frameID, render.Options{Scale: 2})
		} else {
			err = codegen.Frame(file, s, frameID)
		}
	}
	if err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("exporting %s: %w", path, err)
	}
	m.logger.Info("exported", "path", path)
	return path, file.Close()
}
