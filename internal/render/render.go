// Package render draws frames and their components to PNG.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"frameboard/internal/canvas"
)

// ErrFrameNotFound is returned when the requested frame does not exist.
var ErrFrameNotFound = errors.New("render: frame not found")

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("render: nothing to draw")

// maxPixels bounds the output image so a stray coordinate cannot allocate
// gigabytes.
const maxPixels = 8192 * 8192

const defaultFontSize = 12.0

// Options controls output size and decoration.
type Options struct {
	Scale      float64 // pixels per canvas unit, default 1
	Padding    float64 // canvas units around the drawn area
	ShowGrid   bool    // draw the frame's layout grid
	FrameLabel bool    // draw frame names above frames
}

var (
	fontOnce sync.Once
	monoFont *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		monoFont, fontErr = truetype.Parse(gomono.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", fontErr)
	}
	return monoFont, nil
}

type painter struct {
	dc      *gg.Context
	font    *truetype.Font
	faces   map[float64]font.Face
	scale   float64
	originX float64
	originY float64
}

func newPainter(bounds canvas.Rect, opts Options) (*painter, error) {
	if opts.Scale <= 0 || math.IsNaN(opts.Scale) {
		opts.Scale = 1
	}
	bounds.X -= opts.Padding
	bounds.Y -= opts.Padding
	bounds.Width += 2 * opts.Padding
	bounds.Height += 2 * opts.Padding

	w := int(math.Ceil(bounds.Width * opts.Scale))
	h := int(math.Ceil(bounds.Height * opts.Scale))
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}
	if w*h > maxPixels {
		return nil, fmt.Errorf("render: %dx%d image exceeds size limit", w, h)
	}

	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	return &painter{
		dc:      dc,
		font:    f,
		faces:   make(map[float64]font.Face),
		scale:   opts.Scale,
		originX: bounds.X,
		originY: bounds.Y,
	}, nil
}

// px converts canvas coordinates to image pixels.
func (p *painter) px(x, y float64) (float64, float64) {
	return (x - p.originX) * p.scale, (y - p.originY) * p.scale
}

func (p *painter) face(size float64) font.Face {
	size *= p.scale
	if f, ok := p.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(p.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	p.faces[size] = f
	return f
}

// Frame renders one frame and the components assigned to it.
func Frame(w io.Writer, s canvas.State, frameID string, opts Options) error {
	img, err := FrameImage(s, frameID, opts)
	if err != nil {
		return err
	}
	return Encode(w, img)
}

// FrameImage is Frame without the PNG encoding.
func FrameImage(s canvas.State, frameID string, opts Options) (image.Image, error) {
	f, ok := s.Frame(frameID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFrameNotFound, frameID)
	}
	p, err := newPainter(f.Rect(), opts)
	if err != nil {
		return nil, err
	}
	p.drawFrame(f, s.MasterGrid, opts)
	for _, c := range s.ComponentsIn(f.ID) {
		p.drawComponent(c)
	}
	return p.dc.Image(), nil
}

// Canvas renders every frame and component inside their joint bounding box.
func Canvas(w io.Writer, s canvas.State, opts Options) error {
	bounds, ok := extent(s)
	if !ok {
		return ErrEmpty
	}
	if opts.FrameLabel {
		bounds.Y -= 2 * defaultFontSize
		bounds.Height += 2 * defaultFontSize
	}
	p, err := newPainter(bounds, opts)
	if err != nil {
		return err
	}
	// Frames first so components appear on top.
	for _, f := range s.Frames {
		p.drawFrame(f, s.MasterGrid, opts)
	}
	for _, c := range s.Components {
		p.drawComponent(c)
	}
	return Encode(w, p.dc.Image())
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func extent(s canvas.State) (canvas.Rect, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(r canvas.Rect) {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	for _, f := range s.Frames {
		grow(f.Rect())
	}
	for _, c := range s.Components {
		grow(c.Rect())
	}
	if math.IsInf(minX, 1) {
		return canvas.Rect{}, false
	}
	return canvas.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

func (p *painter) drawFrame(f canvas.Frame, master canvas.LayoutGrid, opts Options) {
	x, y := p.px(f.X, f.Y)
	w, h := f.Width*p.scale, f.Height*p.scale

	p.dc.SetColor(color.White)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()

	if opts.ShowGrid {
		grid := master
		if f.Grid != nil {
			grid = *f.Grid
		}
		p.drawLayoutGrid(x, y, w, h, grid)
	}

	p.dc.SetLineWidth(1)
	p.dc.SetHexColor("#9ca3af")
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Stroke()

	if opts.FrameLabel && f.Name != "" {
		p.dc.SetFontFace(p.face(defaultFontSize))
		p.dc.SetHexColor("#6b7280")
		p.dc.DrawString(f.Name, x, y-4*p.scale)
	}
}

func (p *painter) drawLayoutGrid(x, y, w, h float64, g canvas.LayoutGrid) {
	if !g.Enabled || g.Columns <= 0 {
		return
	}
	gap := g.Gap * p.scale
	colW := (w - gap*float64(g.Columns-1)) / float64(g.Columns)
	if colW <= 0 {
		return
	}
	p.dc.SetRGBA(1, 0, 0, 0.08)
	for i := 0; i < g.Columns; i++ {
		p.dc.DrawRectangle(x+float64(i)*(colW+gap), y, colW, h)
	}
	p.dc.Fill()
}

func (p *painter) drawComponent(c canvas.Component) {
	x, y := p.px(c.X, c.Y)
	w, h := c.Width*p.scale, c.Height*p.scale
	if w <= 0 && h <= 0 {
		return
	}
	props := c.Properties
	fill := hexOr(props.Text("backgroundColor"), defaultFill(c.Type))
	stroke := hexOr(props.Text("borderColor"), "#374151")
	ink := hexOr(props.Text("color"), "#111827")
	radius := 0.0
	if r, ok := props.Number("borderRadius"); ok {
		radius = r * p.scale
	}
	lineWidth := 1.0
	if bw, ok := props.Number("borderWidth"); ok && bw >= 0 {
		lineWidth = bw
	}
	p.dc.SetLineWidth(lineWidth * p.scale)

	switch c.Type {
	case canvas.TypeDivider:
		p.dc.SetHexColor(stroke)
		if props.Text("orientation") == "vertical" {
			p.dc.DrawLine(x+w/2, y, x+w/2, y+h)
		} else {
			p.dc.DrawLine(x, y+h/2, x+w, y+h/2)
		}
		p.dc.Stroke()
		return

	case canvas.TypeText, canvas.TypeHeading, canvas.TypeParagraph:
		p.label(c, x, y, w, h, ink, 0, false)
		return

	case canvas.TypeCheckbox, canvas.TypeRadio:
		box := math.Min(h, 16*p.scale)
		by := y + (h-box)/2
		p.dc.SetHexColor(stroke)
		if c.Type == canvas.TypeRadio {
			p.dc.DrawCircle(x+box/2, by+box/2, box/2)
		} else {
			p.dc.DrawRectangle(x, by, box, box)
		}
		p.dc.Stroke()
		if props.Bool("checked") {
			p.dc.SetHexColor(ink)
			if c.Type == canvas.TypeRadio {
				p.dc.DrawCircle(x+box/2, by+box/2, box/4)
			} else {
				p.dc.DrawRectangle(x+box/4, by+box/4, box/2, box/2)
			}
			p.dc.Fill()
		}
		text := c.Content
		if text == "" {
			text = props.Text("label")
		}
		p.text(text, x+box+6*p.scale, y+h/2, ink, fontSize(props, c.Type), 0)
		return

	case canvas.TypeFlowShape:
		p.shape(props.Text("shape"), x, y, w, h)
		p.dc.SetHexColor(fill)
		p.dc.FillPreserve()
		p.dc.SetHexColor(stroke)
		p.dc.Stroke()
		p.label(c, x, y, w, h, ink, 0.5, true)
		return
	}

	if radius > 0 {
		p.dc.DrawRoundedRectangle(x, y, w, h, radius)
	} else {
		p.dc.DrawRectangle(x, y, w, h)
	}
	p.dc.SetHexColor(fill)
	p.dc.FillPreserve()
	p.dc.SetHexColor(stroke)
	p.dc.Stroke()

	switch c.Type {
	case canvas.TypeButton:
		p.label(c, x, y, w, h, ink, 0.5, true)
	case canvas.TypeInput:
		text, tint := c.Content, ink
		if text == "" {
			text, tint = props.Text("placeholder"), "#9ca3af"
		}
		p.text(text, x+8*p.scale, y+h/2, tint, fontSize(props, c.Type), 0)
	case canvas.TypeSelect:
		value := props.Text("value")
		if value == "" {
			if options := props.Strings("options"); len(options) > 0 {
				value = options[0]
			}
		}
		p.text(value, x+8*p.scale, y+h/2, ink, fontSize(props, c.Type), 0)
		p.text("▾", x+w-14*p.scale, y+h/2, ink, fontSize(props, c.Type), 0)
	case canvas.TypeImage:
		p.dc.SetHexColor(stroke)
		p.dc.DrawLine(x, y, x+w, y+h)
		p.dc.DrawLine(x+w, y, x, y+h)
		p.dc.Stroke()
		if alt := props.Text("alt"); alt != "" {
			p.text(alt, x+w/2, y+h/2, ink, fontSize(props, c.Type), 0.5)
		}
	case canvas.TypeTable:
		p.table(c, x, y, w, h, stroke, ink)
	case canvas.TypeCard:
		p.label(c, x+12*p.scale, y+12*p.scale, w, h, ink, 0, false)
	}
}

func (p *painter) shape(kind string, x, y, w, h float64) {
	switch kind {
	case "ellipse", "circle", "oval":
		p.dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
	case "diamond", "decision":
		p.dc.MoveTo(x+w/2, y)
		p.dc.LineTo(x+w, y+h/2)
		p.dc.LineTo(x+w/2, y+h)
		p.dc.LineTo(x, y+h/2)
		p.dc.ClosePath()
	case "parallelogram", "io":
		skew := w / 6
		p.dc.MoveTo(x+skew, y)
		p.dc.LineTo(x+w, y)
		p.dc.LineTo(x+w-skew, y+h)
		p.dc.LineTo(x, y+h)
		p.dc.ClosePath()
	default:
		p.dc.DrawRoundedRectangle(x, y, w, h, math.Min(w, h)/8)
	}
}

func (p *painter) table(c canvas.Component, x, y, w, h float64, stroke, ink string) {
	headers := c.Properties.Strings("headers")
	cols := len(headers)
	if n, ok := c.Properties.Number("columns"); ok && int(n) > cols {
		cols = int(n)
	}
	rows := 3
	if n, ok := c.Properties.Number("rows"); ok && n >= 1 {
		rows = int(n)
	}
	if cols < 1 {
		cols = 1
	}
	rowH := h / float64(rows+1)
	colW := w / float64(cols)

	p.dc.SetHexColor(stroke)
	for i := 1; i <= rows; i++ {
		p.dc.DrawLine(x, y+float64(i)*rowH, x+w, y+float64(i)*rowH)
	}
	for i := 1; i < cols; i++ {
		p.dc.DrawLine(x+float64(i)*colW, y, x+float64(i)*colW, y+h)
	}
	p.dc.Stroke()
	for i, head := range headers {
		p.text(head, x+float64(i)*colW+6*p.scale, y+rowH/2, ink, fontSize(c.Properties, c.Type), 0)
	}
}

// label draws the component content, one line per newline.
func (p *painter) label(c canvas.Component, x, y, w, h float64, ink string, ax float64, centered bool) {
	if c.Content == "" {
		return
	}
	size := fontSize(c.Properties, c.Type)
	lines := strings.Split(c.Content, "\n")
	lineH := size * 1.3 * p.scale
	top := y + lineH/2
	if centered {
		top = y + h/2 - lineH*float64(len(lines)-1)/2
	}
	tx := x
	if ax == 0.5 {
		tx = x + w/2
	}
	for i, line := range lines {
		p.text(line, tx, top+float64(i)*lineH, ink, size, ax)
	}
}

func (p *painter) text(s string, x, y float64, hex string, size, ax float64) {
	if s == "" {
		return
	}
	p.dc.SetFontFace(p.face(size))
	p.dc.SetHexColor(hex)
	p.dc.DrawStringAnchored(s, x, y, ax, 0.35)
}

func fontSize(props canvas.Properties, t canvas.ComponentType) float64 {
	if n, ok := props.Number("fontSize"); ok && n > 0 {
		return n
	}
	if t == canvas.TypeHeading {
		level := 1.0
		if n, ok := props.Number("level"); ok && n >= 1 {
			level = n
		}
		return math.Max(defaultFontSize, 28-4*(level-1))
	}
	return defaultFontSize
}

func defaultFill(t canvas.ComponentType) string {
	switch t {
	case canvas.TypeButton:
		return "#e5e7eb"
	case canvas.TypeCard:
		return "#f9fafb"
	case canvas.TypeImage:
		return "#f3f4f6"
	case canvas.TypeFlowShape:
		return "#eff6ff"
	}
	return "#ffffff"
}

// hexOr returns s when it looks like a #rgb, #rrggbb or #rrggbbaa color.
func hexOr(s, fallback string) string {
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	switch len(s) {
	case 4, 7, 9:
	default:
		return fallback
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fallback
		}
	}
	return s
}
