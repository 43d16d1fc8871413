package canvas

import "math"

// Rect is an axis-aligned rectangle in canvas space.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Snap rounds v to the nearest multiple of gridSize. A non-positive grid size
// or a non-finite value leaves v unchanged.
func Snap(v float64, gridSize int) float64 {
	if gridSize <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	g := float64(gridSize)
	return math.Round(v/g) * g
}

// Contains reports whether inner lies fully inside outer on both axes.
func Contains(outer, inner Rect) bool {
	return inner.X >= outer.X &&
		inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() &&
		inner.Bottom() <= outer.Bottom()
}

// InFrame reports whether c's rectangle is fully inside f's rectangle.
func InFrame(c Component, f Frame) bool {
	return Contains(f.Rect(), c.Rect())
}

// Overlaps reports whether a and b intersect once each is inflated by gap.
// Rectangles exactly gap apart do not overlap.
func Overlaps(a, b Rect, gap float64) bool {
	return !(a.Right()+gap <= b.X ||
		b.Right()+gap <= a.X ||
		a.Bottom()+gap <= b.Y ||
		b.Bottom()+gap <= a.Y)
}

// EdgeSnap is the result of NearestEdges. X and Y are only meaningful when
// the matching flag is set.
type EdgeSnap struct {
	X, Y       float64
	HasX, HasY bool
}

// NearestEdges looks for frames whose edges lie strictly within threshold of
// candidate's facing edges and returns the coordinates that would place
// candidate flush against them. Each axis is resolved independently and the
// closest edge wins; on equal distance the earlier frame in others is kept.
func NearestEdges(candidate Rect, others []Rect, threshold float64) EdgeSnap {
	var out EdgeSnap
	if threshold <= 0 {
		return out
	}
	bestX, bestY := threshold, threshold
	for _, o := range others {
		// candidate left against other right
		if d := math.Abs(candidate.X - o.Right()); d < bestX {
			bestX, out.X, out.HasX = d, o.Right(), true
		}
		// candidate right against other left
		if d := math.Abs(candidate.Right() - o.X); d < bestX {
			bestX, out.X, out.HasX = d, o.X-candidate.Width, true
		}
		if d := math.Abs(candidate.Y - o.Bottom()); d < bestY {
			bestY, out.Y, out.HasY = d, o.Bottom(), true
		}
		if d := math.Abs(candidate.Bottom() - o.Y); d < bestY {
			bestY, out.Y, out.HasY = d, o.Y-candidate.Height, true
		}
	}
	return out
}

// ClampZoom bounds z to [MinZoomLevel, MaxZoomLevel]. Non-finite input
// yields the default zoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return DefaultZoomLevel
	}
	return math.Max(MinZoomLevel, math.Min(MaxZoomLevel, z))
}

// Viewport is the pan/zoom transform between pointer (client) space and
// canvas space.
type Viewport struct {
	PanX, PanY float64
	Zoom       float64
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) || math.IsInf(v.Zoom, 0) {
		return 1
	}
	return v.Zoom
}

// ToCanvas converts a client coordinate to canvas space.
func (v Viewport) ToCanvas(clientX, clientY float64) (float64, float64) {
	z := v.zoom()
	return (clientX - v.PanX) / z, (clientY - v.PanY) / z
}

// ToClient converts a canvas coordinate to client space.
func (v Viewport) ToClient(x, y float64) (float64, float64) {
	z := v.zoom()
	return x*z + v.PanX, y*z + v.PanY
}

// frameFor picks the frame that should own c: the active frame when it
// contains c, else the first containing frame in creation order.
func frameFor(c Component, frames []Frame, activeID string) string {
	if activeID != "" {
		for _, f := range frames {
			if f.ID == activeID && InFrame(c, f) {
				return f.ID
			}
		}
	}
	for _, f := range frames {
		if InFrame(c, f) {
			return f.ID
		}
	}
	return ""
}

// effectiveGrid returns the layout grid that applies inside f.
func effectiveGrid(f Frame, master LayoutGrid) LayoutGrid {
	if f.Grid != nil {
		return *f.Grid
	}
	return master
}

// cellFor maps c onto the columns and rows of grid laid out inside f. It
// returns nil when the grid cannot be used.
func cellFor(c Component, f Frame, grid LayoutGrid) *GridCell {
	if !grid.Enabled || grid.Columns <= 0 || grid.Rows <= 0 {
		return nil
	}
	colPitch := (f.Width + grid.Gap) / float64(grid.Columns)
	rowPitch := (f.Height + grid.Gap) / float64(grid.Rows)
	if colPitch <= 0 || rowPitch <= 0 {
		return nil
	}
	col := clampInt(int(math.Floor((c.X-f.X)/colPitch)), 0, grid.Columns-1)
	row := clampInt(int(math.Floor((c.Y-f.Y)/rowPitch)), 0, grid.Rows-1)
	colSpan := clampInt(int(math.Ceil((c.Width+grid.Gap)/colPitch)), 1, grid.Columns-col)
	rowSpan := clampInt(int(math.Ceil((c.Height+grid.Gap)/rowPitch)), 1, grid.Rows-row)
	return &GridCell{Column: col, Row: row, ColumnSpan: colSpan, RowSpan: rowSpan}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
