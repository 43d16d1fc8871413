package codegen

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameboard/internal/canvas"
)

func sampleState(t *testing.T) (canvas.State, string) {
	t.Helper()
	ed := canvas.NewEditor(canvas.NewEngine(canvas.NewSequenceGenerator("id-")), canvas.NewState(), nil)
	ctx := context.Background()
	frameID := ed.Dispatch(ctx, canvas.AddFrame{Name: "Login", X: 100, Y: 50, Width: 375, Height: 667})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeButton, X: 124, Y: 380, Width: 327, Height: 48.5, Content: "Sign in",
		Properties: canvas.Properties{"backgroundColor": "#2563eb", "color": "white", "fontSize": 16}})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeSelect, X: 124, Y: 200, Width: 200, Height: 40,
		Properties: canvas.Properties{"options": []string{"One", "Two"}, "value": "Two"}})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeParagraph, X: 124, Y: 100, Width: 200, Height: 40,
		Content:    `<script>alert("x")</script>Hello <b>bold</b> <a href="javascript:alert(1)">link</a> <a href="https://example.com">site</a>`,
		Properties: canvas.Properties{"color": "red;background:url(x)"}})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeText, X: 124, Y: 160, Width: 200, Height: 20, Content: "<i>raw</i>"})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeTable, X: 124, Y: 450, Width: 300, Height: 100,
		Properties: canvas.Properties{"headers": []string{"Name", "Qty"}, "rows": 2}})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeText, X: 2000, Y: 2000, Width: 10, Height: 10, Content: "elsewhere"})
	return ed.State(), frameID
}

func TestFrame_PositionsRelativeToFrame(t *testing.T) {
	s, frameID := sampleState(t)
	out, err := String(s, frameID)
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Login</title>")
	assert.Contains(t, out, "width:375px;height:667px")
	assert.Contains(t, out, "left:24px;top:330px;width:327px;height:48.5px;")
	assert.Contains(t, out, "background-color:#2563eb;")
	assert.Contains(t, out, "font-size:16px;")
	assert.Contains(t, out, ">Sign in</button>")
	assert.NotContains(t, out, "elsewhere")
}

func TestFrame_SelectAndTable(t *testing.T) {
	s, frameID := sampleState(t)
	out, err := String(s, frameID)
	require.NoError(t, err)

	assert.Contains(t, out, `<option value="One">One</option>`)
	assert.Contains(t, out, `<option value="Two" selected>Two</option>`)
	assert.Contains(t, out, "<th>Name</th><th>Qty</th>")
	assert.Equal(t, 2, strings.Count(out, "<tr><td></td><td></td></tr>"))
}

func TestFrame_EscapesContent(t *testing.T) {
	s, frameID := sampleState(t)
	out, err := String(s, frameID)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "url(x)")
	assert.Contains(t, out, "&lt;i&gt;raw&lt;/i&gt;", "plain text types are escaped")
}

func TestFrame_ParagraphKeepsInlineMarkup(t *testing.T) {
	s, frameID := sampleState(t)
	out, err := String(s, frameID)
	require.NoError(t, err)

	assert.Contains(t, out, "Hello <b>bold</b>")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `rel="nofollow"`)
}

func TestFrame_NotFound(t *testing.T) {
	s, _ := sampleState(t)
	_, err := String(s, "nope")
	assert.ErrorIs(t, err, ErrFrameNotFound)
}

func TestCSSColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#ffffff", "#ffffff80", "red", "rebeccapurple"} {
		_, valid := cssColor(ok)
		assert.True(t, valid, ok)
	}
	for _, bad := range []string{"", "#ff", "#gggggg", "red;x:y", "rgb(1,2,3)"} {
		_, valid := cssColor(bad)
		assert.False(t, valid, bad)
	}
}

func TestPx(t *testing.T) {
	assert.Equal(t, "12", px(12))
	assert.Equal(t, "12.5", px(12.5))
	assert.Equal(t, "-3", px(-3))
}
