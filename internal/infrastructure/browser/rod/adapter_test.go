package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Headless)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, defaultMaxWidth, cfg.ScreenshotMaxWidth)
	assert.Equal(t, 1920, cfg.WindowWidth)
	assert.Equal(t, 1080, cfg.WindowHeight)
	assert.False(t, cfg.FullPage)
}

func TestDownscale_ResizesWideImages(t *testing.T) {
	shot, err := downscale(encodePNG(t, 2048, 1024), 1024)
	require.NoError(t, err)

	assert.Equal(t, "jpeg", shot.Format)
	assert.Equal(t, 1024, shot.Width)
	assert.Equal(t, 512, shot.Height)

	_, format, err := image.Decode(bytes.NewReader(shot.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDownscale_KeepsNarrowImages(t *testing.T) {
	shot, err := downscale(encodePNG(t, 640, 480), 1024)
	require.NoError(t, err)

	assert.Equal(t, 640, shot.Width)
	assert.Equal(t, 480, shot.Height)
}

func TestDownscale_InvalidImage(t *testing.T) {
	_, err := downscale([]byte("not an image"), 1024)
	assert.ErrorContains(t, err, "image decode failed")
}

func TestBrowserAdapter_Navigate_InvalidURL(t *testing.T) {
	adapter := &BrowserAdapter{}

	tests := []struct {
		name string
		url  string
	}{
		{"Empty URL", ""},
		{"Invalid scheme", "ftp://example.com"},
		{"JavaScript URL", "javascript:alert(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := adapter.Navigate(context.Background(), tt.url)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestBrowserAdapter_ClosedAdapter(t *testing.T) {
	adapter := &BrowserAdapter{}
	adapter.Close()
	adapter.Close()

	assert.False(t, adapter.IsReady())

	_, err := adapter.CurrentURL()
	assert.ErrorIs(t, err, ErrBrowserClosed)
	_, err = adapter.Screenshot(context.Background())
	assert.ErrorIs(t, err, ErrBrowserClosed)
	_, err = adapter.WaitElement(context.Background(), "input", time.Second)
	assert.ErrorIs(t, err, ErrBrowserClosed)
	assert.ErrorIs(t, adapter.Navigate(context.Background(), "https://example.test"), ErrBrowserClosed)
}

// The tests below drive a real Chrome and are skipped when none is installed.

const formHTML = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
	<form id="login">
		<input id="username" type="text" name="username" />
		<input id="password" type="password" name="password" />
		<button id="submit" type="submit">Sign in</button>
	</form>
	<nav><a href="/reports/sales">Sales</a><a href="#">Skip</a></nav>
</body>
</html>`

func newTestAdapter(t *testing.T) *BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, err := Available(); err != nil {
		t.Skip(err.Error())
	}

	cfg := DefaultConfig()
	cfg.Headless = true

	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(adapter.Close)
	return adapter
}

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBrowserAdapter_NavigateAndInfo(t *testing.T) {
	adapter := newTestAdapter(t)
	server := serveHTML(t, formHTML)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL))
	require.NoError(t, adapter.WaitStable(ctx, 2*time.Second))

	current, err := adapter.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/", current)

	title, err := adapter.Title()
	require.NoError(t, err)
	assert.Equal(t, "Login", title)
}

func TestBrowserAdapter_ElementsAndInput(t *testing.T) {
	adapter := newTestAdapter(t)
	server := serveHTML(t, formHTML)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL))

	user, err := adapter.WaitElement(ctx, "input[name*='user']", time.Second)
	require.NoError(t, err)
	require.NoError(t, user.Clear())
	require.NoError(t, user.Input("alice"))

	value, ok, err := user.Attribute("value")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", value)

	button, err := adapter.WaitElementText(ctx, "button", "Sign in", time.Second)
	require.NoError(t, err)
	text, err := button.Text()
	require.NoError(t, err)
	assert.Equal(t, "Sign in", text)

	_, err = adapter.WaitElement(ctx, "#missing", 200*time.Millisecond)
	assert.Error(t, err)

	links, err := adapter.Elements(ctx, "nav a")
	require.NoError(t, err)
	require.Len(t, links, 2)
	href, ok, err := links[0].Attribute("href")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, server.URL+"/reports/sales", href)
}

func TestBrowserAdapter_Screenshot(t *testing.T) {
	adapter := newTestAdapter(t)
	server := serveHTML(t, formHTML)
	ctx := context.Background()

	require.NoError(t, adapter.Navigate(ctx, server.URL))

	shot, err := adapter.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.NotEmpty(t, shot.Data)
	assert.LessOrEqual(t, shot.Width, defaultMaxWidth)
}
