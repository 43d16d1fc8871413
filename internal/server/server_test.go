package server

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameboard/internal/canvas"
)

func newTestServer(t *testing.T) (*httptest.Server, *canvas.Editor) {
	t.Helper()
	ed := canvas.NewEditor(canvas.NewEngine(canvas.NewSequenceGenerator("id-")), canvas.NewState(), nil)
	ts := httptest.NewServer(New(ed, nil))
	t.Cleanup(ts.Close)
	return ts, ed
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// --- actions ---

func TestPostAction_AddFrame(t *testing.T) {
	ts, ed := newTestServer(t)

	resp := post(t, ts.URL+"/api/actions", `{"type":"ADD_FRAME","payload":{"name":"Mobile","x":0,"y":0,"width":375,"height":667}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[actionResponse](t, resp)
	assert.Equal(t, "id-1", body.CreatedID)
	assert.True(t, body.Applied)
	require.Len(t, body.State.Frames, 1)
	assert.Equal(t, "id-1", body.State.ActiveFrameID)
	assert.Len(t, ed.State().Frames, 1)
}

func TestPostAction_Malformed(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := post(t, ts.URL+"/api/actions", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "decoding action")
}

func TestPostAction_UnknownIsIgnored(t *testing.T) {
	ts, ed := newTestServer(t)
	resp := post(t, ts.URL+"/api/actions", `{"type":"FLY","payload":{}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[actionResponse](t, resp).Applied)
	assert.Equal(t, canvas.NewState(), ed.State())
}

// --- state, import, export ---

func TestGetState_Empty(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := get(t, ts.URL+"/api/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, []any{}, body["components"])
	assert.Equal(t, []any{}, body["frames"])
	assert.Equal(t, 20.0, body["gridSize"])
}

func TestExportImport(t *testing.T) {
	ts, ed := newTestServer(t)
	ctx := context.Background()
	ed.Dispatch(ctx, canvas.AddFrame{Name: "A", Width: 200, Height: 200})
	ed.Dispatch(ctx, canvas.AddComponent{Kind: canvas.TypeButton, X: 10, Y: 10, Width: 50, Height: 20})

	resp := get(t, ts.URL+"/api/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "canvas.json")
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	ed.Dispatch(ctx, canvas.DeleteFrame{ID: "id-1"})
	ed.Dispatch(ctx, canvas.DeleteComponent{ID: "id-2"})
	require.Empty(t, ed.State().Frames)

	resp = post(t, ts.URL+"/api/import", string(exported))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, ed.State().Frames, 1)
	assert.Len(t, ed.State().Components, 1)
	assert.Equal(t, "id-1", ed.State().Components[0].FrameID)
}

func TestImport_MalformedLeavesState(t *testing.T) {
	ts, ed := newTestServer(t)
	ed.Dispatch(context.Background(), canvas.AddFrame{Name: "Keep", Width: 10, Height: 10})

	resp := post(t, ts.URL+"/api/import", `{"frames": [`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, ed.State().Frames, 1)
}

// --- design & frame exports ---

func TestPostDesign(t *testing.T) {
	ts, ed := newTestServer(t)
	resp := post(t, ts.URL+"/api/design", `{"prompt":"a login screen"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res struct {
		Template     string
		FrameID      string
		ComponentIDs []string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "Login", res.Template)
	assert.NotEmpty(t, res.ComponentIDs)
	for _, id := range res.ComponentIDs {
		c, ok := ed.State().Component(id)
		require.True(t, ok)
		assert.Equal(t, res.FrameID, c.FrameID)
	}

	resp = post(t, ts.URL+"/api/design", `nope`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFramePNG(t *testing.T) {
	ts, ed := newTestServer(t)
	id := ed.Dispatch(context.Background(), canvas.AddFrame{Name: "A", Width: 120, Height: 80})

	resp := get(t, ts.URL+"/api/frames/"+id+"/png?scale=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())

	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/frames/missing/png").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/api/frames/"+id+"/png?scale=abc").StatusCode)
}

func TestFrameHTML(t *testing.T) {
	ts, ed := newTestServer(t)
	id := ed.Dispatch(context.Background(), canvas.AddFrame{Name: "Page", Width: 120, Height: 80})

	resp := get(t, ts.URL+"/api/frames/"+id+"/html")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/api/frames/missing/html").StatusCode)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/health").StatusCode)
}
