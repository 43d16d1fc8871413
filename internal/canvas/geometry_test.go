package canvas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, Snap(13, 20))
	assert.Equal(t, 20.0, Snap(27, 20))
	assert.Equal(t, 40.0, Snap(30, 20))
	assert.Equal(t, -20.0, Snap(-13, 20))
	assert.Equal(t, 0.0, Snap(4, 10))
}

func TestSnap_idempotent(t *testing.T) {
	for _, g := range []int{1, 5, 8, 20, 37} {
		for v := -250.0; v <= 250; v += 3.7 {
			once := Snap(v, g)
			assert.Equal(t, once, Snap(once, g), "v=%v g=%d", v, g)
		}
	}
}

func TestSnap_nonPositiveGrid(t *testing.T) {
	assert.Equal(t, 13.0, Snap(13, 0))
	assert.Equal(t, 13.0, Snap(13, -5))
	assert.True(t, math.IsNaN(Snap(math.NaN(), 20)))
	assert.False(t, math.IsNaN(Snap(13, 0)))
}

func TestContains(t *testing.T) {
	frame := Rect{X: 0, Y: 0, Width: 200, Height: 200}

	t.Run("fully inside", func(t *testing.T) {
		assert.True(t, Contains(frame, Rect{X: 50, Y: 50, Width: 40, Height: 40}))
	})
	t.Run("touching edges counts as inside", func(t *testing.T) {
		assert.True(t, Contains(frame, Rect{X: 0, Y: 0, Width: 200, Height: 200}))
	})
	t.Run("sticking out right", func(t *testing.T) {
		assert.False(t, Contains(frame, Rect{X: 180, Y: 10, Width: 40, Height: 40}))
	})
	t.Run("sticking out top", func(t *testing.T) {
		assert.False(t, Contains(frame, Rect{X: 10, Y: -1, Width: 40, Height: 40}))
	})
	t.Run("zero size rectangle", func(t *testing.T) {
		assert.True(t, Contains(frame, Rect{X: 10, Y: 10}))
	})
}

func TestOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	assert.True(t, Overlaps(a, Rect{X: 50, Y: 50, Width: 100, Height: 100}, 0))
	assert.False(t, Overlaps(a, Rect{X: 100, Y: 0, Width: 100, Height: 100}, 0), "flush frames do not overlap")
	assert.True(t, Overlaps(a, Rect{X: 105, Y: 0, Width: 100, Height: 100}, 10), "inside the gap")
	assert.False(t, Overlaps(a, Rect{X: 110, Y: 0, Width: 100, Height: 100}, 10), "exactly gap apart")
	assert.False(t, Overlaps(a, Rect{X: 0, Y: 300, Width: 100, Height: 100}, 10))
	assert.True(t, Overlaps(a, a, 0))
}

func TestNearestEdges(t *testing.T) {
	other := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	t.Run("left edge snaps to other right", func(t *testing.T) {
		got := NearestEdges(Rect{X: 106, Y: 300, Width: 50, Height: 50}, []Rect{other}, 10)
		assert.True(t, got.HasX)
		assert.Equal(t, 100.0, got.X)
		assert.False(t, got.HasY)
	})

	t.Run("right edge snaps to other left", func(t *testing.T) {
		got := NearestEdges(Rect{X: -55, Y: 300, Width: 50, Height: 50}, []Rect{other}, 10)
		assert.True(t, got.HasX)
		assert.Equal(t, -50.0, got.X)
	})

	t.Run("top edge snaps to other bottom", func(t *testing.T) {
		got := NearestEdges(Rect{X: 400, Y: 104, Width: 50, Height: 50}, []Rect{other}, 10)
		assert.True(t, got.HasY)
		assert.Equal(t, 100.0, got.Y)
	})

	t.Run("bottom edge snaps to other top", func(t *testing.T) {
		got := NearestEdges(Rect{X: 400, Y: -45, Width: 50, Height: 50}, []Rect{other}, 10)
		assert.True(t, got.HasY)
		assert.Equal(t, -50.0, got.Y)
	})

	t.Run("outside threshold", func(t *testing.T) {
		got := NearestEdges(Rect{X: 130, Y: 300, Width: 50, Height: 50}, []Rect{other}, 10)
		assert.False(t, got.HasX)
		assert.False(t, got.HasY)
	})

	t.Run("closest candidate wins regardless of order", func(t *testing.T) {
		near := Rect{X: 0, Y: 500, Width: 102, Height: 50}
		far := Rect{X: 0, Y: 800, Width: 97, Height: 50}
		c := Rect{X: 103, Y: 300, Width: 50, Height: 50}
		assert.Equal(t, 102.0, NearestEdges(c, []Rect{far, near}, 10).X)
		assert.Equal(t, 102.0, NearestEdges(c, []Rect{near, far}, 10).X)
	})

	t.Run("zero threshold disables", func(t *testing.T) {
		got := NearestEdges(Rect{X: 100, Y: 0, Width: 50, Height: 50}, []Rect{other}, 0)
		assert.False(t, got.HasX)
	})
}

func TestViewport(t *testing.T) {
	v := Viewport{PanX: 100, PanY: 50, Zoom: 2}

	x, y := v.ToCanvas(300, 250)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 100.0, y)

	cx, cy := v.ToClient(x, y)
	assert.Equal(t, 300.0, cx)
	assert.Equal(t, 250.0, cy)

	zero := Viewport{PanX: 10}
	x, _ = zero.ToCanvas(30, 0)
	assert.Equal(t, 20.0, x, "zero zoom treated as 1")
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, MinZoomLevel, ClampZoom(0.1))
	assert.Equal(t, MaxZoomLevel, ClampZoom(10))
	assert.Equal(t, 1.5, ClampZoom(1.5))
	assert.Equal(t, DefaultZoomLevel, ClampZoom(math.NaN()))
}

func TestCellFor(t *testing.T) {
	f := Frame{X: 100, Y: 100, Width: 400, Height: 200}
	grid := LayoutGrid{Enabled: true, Columns: 4, Rows: 2, Gap: 0}

	cell := cellFor(Component{X: 210, Y: 210, Width: 150, Height: 50}, f, grid)
	if assert.NotNil(t, cell) {
		assert.Equal(t, GridCell{Column: 1, Row: 1, ColumnSpan: 2, RowSpan: 1}, *cell)
	}

	assert.Nil(t, cellFor(Component{X: 110, Y: 110}, f, LayoutGrid{Enabled: false, Columns: 4, Rows: 2}))
	assert.Nil(t, cellFor(Component{X: 110, Y: 110}, f, LayoutGrid{Enabled: true}))
}
