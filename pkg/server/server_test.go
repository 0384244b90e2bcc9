package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/prefs"
	"github.com/matzehuels/photogrid/pkg/themes"
)

type staticSource struct{ g *gallery.Gallery }

func (s staticSource) Load(context.Context) (*gallery.Gallery, error) { return s.g, nil }

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	fsys := fstest.MapFS{
		"a.png": {Data: pngData(t, 150, 100)},
		"b.png": {Data: pngData(t, 100, 100)},
		"c.png": {Data: pngData(t, 80, 100)},
	}
	g := &gallery.Gallery{
		Collections: []gallery.Collection{{ID: "travel", Name: "Travel"}},
		Images: []gallery.Image{
			{Path: "a.png", Meta: gallery.Meta{Title: "A", Collections: []string{"travel"}}},
			{Path: "b.png", Meta: gallery.Meta{Title: "B"}},
			{Path: "c.png", Meta: gallery.Meta{Title: "C", Collections: []string{"travel"}}},
		},
	}

	imageDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(imageDir, "a.png"), fsys["a.png"].Data, 0o644))

	runner := pipeline.NewRunner(staticSource{g}, metrics.NewProber(fsys), nil)
	srv, err := New(context.Background(), Options{
		Runner:   runner,
		Prefs:    prefs.NewMemoryStore(),
		ImageDir: imageDir,
		Scripts:  []string{"/static/photogrid.js"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go srv.Hub().Run(ctx)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return srv, ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestIndex(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/?width=900")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	page := body.String()
	assert.Contains(t, page, `data-theme="warmVintage"`)
	assert.Contains(t, page, `id="photo-grid"`)
	assert.Equal(t, 3, strings.Count(page, `class="photo-item"`))
	assert.Contains(t, page, `<script src="/static/photogrid.js"></script>`)
}

func TestLayoutEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var out struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Rows   [][]int `json:"rows"`
		Boxes  []struct {
			Path string  `json:"path"`
			Left float64 `json:"left"`
		} `json:"boxes"`
	}
	resp := getJSON(t, ts.URL+"/api/layout?width=900", &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 900.0, out.Width)
	require.Len(t, out.Boxes, 3)
	assert.Equal(t, 16.0, out.Boxes[0].Left)
	assert.Len(t, out.Rows, 1)

	resp = getJSON(t, ts.URL+"/api/layout?width=900&collection=travel", &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Boxes, 2)
	assert.Equal(t, "c.png", out.Boxes[1].Path)
}

func TestLayoutErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		query  string
		status int
		code   string
	}{
		{"width=abc", http.StatusBadRequest, "INVALID_WIDTH"},
		{"width=-5", http.StatusBadRequest, "INVALID_WIDTH"},
		{"collection=nope", http.StatusNotFound, "NOT_FOUND"},
		{"collection=..%2Fx", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var e errorResponse
			resp := getJSON(t, ts.URL+"/api/layout?"+tt.query, &e)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, resp.Header.Get(RequestIDHeader), e.RequestID)
		})
	}
}

func TestGalleryEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var out galleryResponse
	resp := getJSON(t, ts.URL+"/api/gallery?collection=travel", &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, out.Collections, 1)
	assert.Equal(t, []string{"a.png", "c.png"}, gallery.Paths(out.Images))
}

func TestThemes(t *testing.T) {
	_, ts := newTestServer(t)

	var list themesResponse
	getJSON(t, ts.URL+"/api/themes", &list)
	assert.Equal(t, themes.Default, list.Default)
	assert.Equal(t, themes.All, list.Themes)

	var cur ThemeEvent
	getJSON(t, ts.URL+"/api/theme", &cur)
	assert.Equal(t, themes.Default, cur.Theme)
	assert.Equal(t, "Warm Vintage", cur.Name)
}

func putTheme(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url+"/api/theme", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestPutTheme(t *testing.T) {
	_, ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, putTheme(t, ts.URL, `{"theme":"midnight"}`).StatusCode)

	var cur ThemeEvent
	getJSON(t, ts.URL+"/api/theme", &cur)
	assert.Equal(t, "midnight", cur.Theme)

	assert.Equal(t, http.StatusBadRequest, putTheme(t, ts.URL, `{"theme":"neon"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, putTheme(t, ts.URL, `{"colour":"midnight"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, putTheme(t, ts.URL, `not json`).StatusCode)
}

func TestWebsocketBroadcast(t *testing.T) {
	srv, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev ThemeEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, ThemeEvent{Type: "theme", Theme: themes.Default, Name: "Warm Vintage"}, ev)

	require.Eventually(t, func() bool { return srv.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusOK, putTheme(t, ts.URL, `{"theme":"forest"}`).StatusCode)
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "forest", ev.Theme)
}

func TestImagesRoute(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/images/a.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/images/missing.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/static/photogrid.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestIDPassthrough(t *testing.T) {
	_, ts := newTestServer(t)

	const id = "6f1c0f52-3b8e-4a7e-9a55-2d0c8f0e9b11"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/themes", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestNewRequiresRunner(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}
