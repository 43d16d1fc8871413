package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	modeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("39")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("244")).Padding(1, 3)
)

var helpLines = []string{
	"frameboard Help",
	"===============",
	"",
	"Navigation:",
	"-----------",
	"  h/←/j/↓/k/↑/l/→  Move cursor around the screen",
	"  Shift+h/j/k/l    Move cursor 2x faster",
	"  z                Toggle pan mode (direction keys pan the canvas)",
	"  +/-              Zoom in/out around the cursor",
	"  0                Reset zoom and pan",
	"  Enter/Space      Select what is under the cursor",
	"  Mouse            Click to select, drag to move",
	"",
	"Frames and Components:",
	"----------------------",
	"  f                New frame at cursor (or rename the selected frame)",
	"  b/i/t/x          Add button/input/text/checkbox at cursor",
	"  e                Edit content of the component under cursor",
	"  m                Move mode for the entity under cursor",
	"  r                Resize mode for the entity under cursor",
	"  d                Delete under cursor (frames take their components)",
	"  c                Copy component under cursor",
	"  p                Paste copied component at cursor",
	"",
	"Move/Resize Mode:",
	"-----------------",
	"  h/←/j/↓/k/↑/l/→  Move or resize by one grid step",
	"  Shift+h/j/k/l    Two grid steps",
	"  Enter            Keep the change",
	"  Esc              Put it back",
	"",
	"Grids:",
	"------",
	"  g                Toggle snap to grid",
	"  G                Toggle structure grid",
	"  Ctrl+g           Toggle snap to structure grid",
	"",
	"Design:",
	"-------",
	"  a                Describe a screen and get a frame filled for it",
	"",
	"Files:",
	"------",
	"  s                Export canvas JSON",
	"  S                Export selected frame as PNG",
	"  W                Export selected frame as HTML",
	"  y                Copy canvas JSON to the clipboard",
	"  o                Import canvas JSON from the clipboard",
	"",
	"General:",
	"  Esc              Clear selection",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
	"",
	"The canvas is saved automatically after every change.",
}

func (m *model) View() string {
	if m.mode == ModeStartup {
		return m.startupView()
	}
	if m.help {
		return m.helpView()
	}

	renderHeight := max(m.height-1, 1)
	scr := renderState(m.state(), m.viewport(), max(m.width, 1), renderHeight)
	if scr.isValidPos(m.cursorX, m.cursorY) {
		r := scr.at(m.cursorX, m.cursorY)
		scr.set(m.cursorX, m.cursorY, r, clsCursor)
	}

	var result strings.Builder
	result.WriteString(strings.Join(scr.lines(), "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) modeString() string {
	switch m.mode {
	case ModeStartup:
		return "STARTUP"
	case ModeNormal:
		if m.zPanMode {
			return "PAN"
		}
		return "NORMAL"
	case ModeMove:
		return "MOVE"
	case ModeResize:
		return "RESIZE"
	case ModeInput:
		return "INPUT"
	default:
		return "UNKNOWN"
	}
}

func (m *model) inputLabel() string {
	switch m.inputPurpose {
	case InputEditContent:
		return "Content"
	case InputFrameName:
		return "Frame name"
	case InputDesignPrompt:
		return "Describe the screen"
	case InputExportJSON:
		return "Save JSON as"
	case InputExportPNG:
		return "Save PNG as"
	case InputExportHTML:
		return "Save HTML as"
	}
	return "Input"
}

func (m *model) statusLine() string {
	mode := modeStyle.Render(m.modeString())

	if m.mode == ModeInput {
		text := []rune(m.inputText)
		cur := min(m.inputCursor, len(text))
		prompt := fmt.Sprintf(" %s: %s|%s", m.inputLabel(), strings.ReplaceAll(string(text[:cur]), "\n", "⏎"), strings.ReplaceAll(string(text[cur:]), "\n", "⏎"))
		return mode + statusStyle.Render(prompt) + statusStyle.Render("  (Enter to confirm, Esc to cancel)")
	}

	s := m.state()
	x, y := m.worldCoords()
	parts := []string{fmt.Sprintf("(%.0f,%.0f)", x, y), fmt.Sprintf("%.0f%%", s.ZoomLevel*100)}
	if s.SnapToGrid {
		parts = append(parts, fmt.Sprintf("snap %d", s.GridSize))
	}
	if f, ok := s.Frame(s.ActiveFrameID); ok {
		parts = append(parts, "frame: "+f.Name)
	}
	if sel, ok := m.selected(); ok {
		if sel.isFrame {
			f, _ := s.Frame(sel.id)
			parts = append(parts, fmt.Sprintf("selected: frame %q %.0fx%.0f", f.Name, f.Width, f.Height))
		} else {
			c, _ := s.Component(sel.id)
			parts = append(parts, fmt.Sprintf("selected: %s %.0fx%.0f", c.Type, c.Width, c.Height))
		}
	}

	status := mode + statusStyle.Render(" "+strings.Join(parts, " | ")+" ")
	switch {
	case m.errorMessage != "":
		status += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " " + successStyle.Render(m.successMessage)
	default:
		status += statusStyle.Render(" ? for help | q to quit ")
	}
	return status
}

func (m *model) startupView() string {
	s := m.state()
	body := strings.Join([]string{
		titleStyle.Render("frameboard"),
		"",
		fmt.Sprintf("%d frames, %d components on the canvas", len(s.Frames), len(s.Components)),
		"",
		"any key  Continue",
		"'n'      New canvas",
		"'o'      Import JSON from clipboard",
		"'q'      Quit",
	}, "\n")
	box := boxStyle.Render(body)
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *model) helpView() string {
	visibleHeight := max(m.height-1, 1)

	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = max(len(helpLines)-visibleHeight, 0)
	}
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + statusStyle.Render(fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines)))
	return result
}
