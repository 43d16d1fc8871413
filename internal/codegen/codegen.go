// Package codegen turns a frame into a standalone HTML page.
package codegen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"frameboard/internal/canvas"
)

// ErrFrameNotFound is returned when the requested frame does not exist.
var ErrFrameNotFound = errors.New("codegen: frame not found")

//go:embed page.html.tmpl
var templateFS embed.FS

var page = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"px": px,
}).ParseFS(templateFS, "page.html.tmpl"))

// inline allows the light formatting paragraphs and cards may carry. Links
// keep only http(s)/mailto targets.
var inline = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "br", "span")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}()

type pageData struct {
	Title    string
	Width    float64
	Height   float64
	Elements []element
}

type element struct {
	canvas.Component
	Style   template.CSS
	Rich    template.HTML
	Level   int
	Options []string
	Headers []string
	Rows    []int
	Columns []int
	Shape   string
}

// Frame writes an HTML page for the frame with the given id. Component
// positions are relative to the frame's top-left corner.
func Frame(w io.Writer, s canvas.State, frameID string) error {
	f, ok := s.Frame(frameID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFrameNotFound, frameID)
	}
	data := pageData{Title: f.Name, Width: f.Width, Height: f.Height}
	if data.Title == "" {
		data.Title = "Frame " + f.ID
	}
	for _, c := range s.ComponentsIn(f.ID) {
		data.Elements = append(data.Elements, newElement(c, f))
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", frameID, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}

// String is Frame into a string.
func String(s canvas.State, frameID string) (string, error) {
	var sb strings.Builder
	if err := Frame(&sb, s, frameID); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func newElement(c canvas.Component, f canvas.Frame) element {
	p := c.Properties
	el := element{Component: c, Style: style(c, f)}
	switch c.Type {
	case canvas.TypeHeading:
		el.Level = 1
		if n, ok := p.Number("level"); ok {
			el.Level = int(math.Max(1, math.Min(6, n)))
		}
	case canvas.TypeParagraph, canvas.TypeCard:
		// Sanitized above; safe to emit unescaped.
		el.Rich = template.HTML(inline.Sanitize(c.Content))
	case canvas.TypeSelect:
		el.Options = p.Strings("options")
	case canvas.TypeTable:
		el.Headers = p.Strings("headers")
		cols := len(el.Headers)
		if n, ok := p.Number("columns"); ok && int(n) > cols {
			cols = int(n)
		}
		rows := 3
		if n, ok := p.Number("rows"); ok && n >= 0 {
			rows = int(n)
		}
		el.Rows = make([]int, min(rows, 100))
		el.Columns = make([]int, min(cols, 50))
	case canvas.TypeFlowShape:
		el.Shape = p.Text("shape")
		if el.Shape == "" {
			el.Shape = "rectangle"
		}
	}
	return el
}

func style(c canvas.Component, f canvas.Frame) template.CSS {
	var sb strings.Builder
	fmt.Fprintf(&sb, "left:%spx;top:%spx;width:%spx;height:%spx;",
		px(c.X-f.X), px(c.Y-f.Y), px(c.Width), px(c.Height))

	p := c.Properties
	for _, prop := range []struct{ key, css string }{
		{"color", "color"},
		{"backgroundColor", "background-color"},
		{"borderColor", "border-color"},
	} {
		if v, ok := cssColor(p.Text(prop.key)); ok {
			fmt.Fprintf(&sb, "%s:%s;", prop.css, v)
		}
	}
	for _, prop := range []struct{ key, css, unit string }{
		{"fontSize", "font-size", "px"},
		{"borderWidth", "border-width", "px"},
		{"borderRadius", "border-radius", "px"},
		{"opacity", "opacity", ""},
	} {
		if n, ok := p.Number(prop.key); ok && n >= 0 {
			fmt.Fprintf(&sb, "%s:%s%s;", prop.css, px(n), prop.unit)
		}
	}
	if w := p.Text("fontWeight"); isWord(w) {
		fmt.Fprintf(&sb, "font-weight:%s;", w)
	}
	// The string is assembled only from numbers and checked tokens.
	return template.CSS(sb.String())
}

// px formats a coordinate without trailing zeros.
func px(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cssColor accepts hex colors and plain color names.
func cssColor(s string) (string, bool) {
	if strings.HasPrefix(s, "#") {
		switch len(s) {
		case 4, 7, 9:
		default:
			return "", false
		}
		for _, r := range s[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return "", false
			}
		}
		return s, true
	}
	if isWord(s) {
		return s, true
	}
	return "", false
}

func isWord(s string) bool {
	if s == "" || len(s) > 32 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
