package templates

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameboard/internal/canvas"
)

func newEditor() *canvas.Editor {
	return canvas.NewEditor(canvas.NewEngine(canvas.NewSequenceGenerator("id-")), canvas.NewState(), nil)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
		ok     bool
	}{
		{"a simple LOGIN screen", "Login", true},
		{"Sign up page for my app", "Sign up", true},
		{"analytics dashboard", "Dashboard", true},
		{"hero section", "Landing page", true},
		{"user preferences", "Settings", true},
		{"something unusual", "Blank page", false},
		{"", "Blank page", false},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got, ok := Match(tt.prompt)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLibrary_ElementsFitTheirFrame(t *testing.T) {
	for _, tmpl := range append(All(), fallback) {
		frame := canvas.Rect{Width: tmpl.Width, Height: tmpl.Height}
		for i, el := range tmpl.Elements {
			r := canvas.Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
			assert.True(t, canvas.Contains(frame, r), "%s element %d", tmpl.Name, i)
			assert.True(t, el.Type.Valid(), "%s element %d", tmpl.Name, i)
			assert.Empty(t, canvas.ValidateProperties(el.Type, el.Properties), "%s element %d", tmpl.Name, i)
		}
	}
}

func TestApply_ComponentsJoinNewFrame(t *testing.T) {
	ed := newEditor()
	ctx := context.Background()

	tmpl, _ := Match("login")
	res, err := Apply(ctx, ed, tmpl, 100, 100)
	require.NoError(t, err)
	require.NotEmpty(t, res.FrameID)
	assert.Len(t, res.ComponentIDs, len(tmpl.Elements))

	s := ed.State()
	assert.Equal(t, res.FrameID, s.ActiveFrameID)
	for _, id := range res.ComponentIDs {
		c, ok := s.Component(id)
		require.True(t, ok)
		assert.Equal(t, res.FrameID, c.FrameID)
	}
}

func TestApply_FollowsRelocatedFrame(t *testing.T) {
	ed := newEditor()
	ctx := context.Background()
	ed.Dispatch(ctx, canvas.AddFrame{Name: "Existing", X: 0, Y: 0, Width: 500, Height: 800})

	tmpl, _ := Match("contact")
	res, err := Apply(ctx, ed, tmpl, 0, 0)
	require.NoError(t, err)

	f, ok := ed.State().Frame(res.FrameID)
	require.True(t, ok)
	assert.Equal(t, 510.0, f.X, "pushed past the existing frame")

	first, _ := ed.State().Component(res.ComponentIDs[0])
	assert.Equal(t, f.X+tmpl.Elements[0].X, first.X)
	assert.Equal(t, res.FrameID, first.FrameID)
}

func TestDesign_PlacesAfterExistingFrames(t *testing.T) {
	ed := newEditor()
	ctx := context.Background()

	first, err := Design(ctx, ed, "dashboard")
	require.NoError(t, err)
	second, err := Design(ctx, ed, "login")
	require.NoError(t, err)

	a, _ := ed.State().Frame(first.FrameID)
	b, _ := ed.State().Frame(second.FrameID)
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, a.X+a.Width+40, b.X)
	assert.Equal(t, "Login", second.Template)
}

func TestApply_RejectedFrame(t *testing.T) {
	ed := newEditor()
	_, err := Apply(context.Background(), ed, Template{Name: "Broken", Width: 10, Height: 10}, math.Inf(1), 0)
	assert.Error(t, err)
}
