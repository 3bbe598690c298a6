package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"time"

	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

var (
	ErrInvalidURL     = errors.New("invalid url")
	ErrBrowserClosed  = errors.New("browser is closed")
	ErrNoBrowserFound = errors.New("no chrome or chromium binary found")
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxWidth = 1024
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	maxWidth int
	quiet    time.Duration
	fullPage bool
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds navigation and page info calls.
	Timeout      time.Duration
	NoSandbox    bool
	DevTools     bool
	WindowWidth  int
	WindowHeight int
	// ScreenshotMaxWidth downsizes wider screenshots; zero keeps the default.
	ScreenshotMaxWidth int
	FullPage           bool
	// SettleQuiet is how long the DOM must stay unchanged to count as settled.
	SettleQuiet time.Duration
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:           false,
		Timeout:            defaultTimeout,
		NoSandbox:          true,
		WindowWidth:        1920,
		WindowHeight:       1080,
		ScreenshotMaxWidth: defaultMaxWidth,
	}
}

// Available reports whether a browser binary can be found locally.
func Available() (string, error) {
	path, ok := launcher.LookPath()
	if !ok {
		return "", ErrNoBrowserFound
	}
	return path, nil
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ScreenshotMaxWidth <= 0 {
		cfg.ScreenshotMaxWidth = defaultMaxWidth
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		Context(ctx).
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		maxWidth: cfg.ScreenshotMaxWidth,
		quiet:    cfg.SettleQuiet,
		fullPage: cfg.FullPage,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) pageFor(ctx context.Context) (*rod.Page, error) {
	if !b.IsReady() {
		return nil, ErrBrowserClosed
	}
	return b.page.Context(ctx), nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	page = page.Timeout(b.timeout)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

// WaitStable waits for network idle and DOM quiescence, up to timeout.
// Running out of time is not an error: the page is used as it is.
func (b *BrowserAdapter) WaitStable(ctx context.Context, timeout time.Duration) error {
	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return nil
	}

	quiet := b.quiet
	if quiet <= 0 || quiet > timeout {
		quiet = timeout / 4
	}

	err = page.Timeout(timeout).WaitStable(quiet)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("wait stable: %w", err)
	}
	return ctx.Err()
}

func (b *BrowserAdapter) WaitElement(ctx context.Context, selector string, timeout time.Duration) (output.Element, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}

	el, err := page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	return &element{el: el.CancelTimeout()}, nil
}

func (b *BrowserAdapter) WaitElementText(ctx context.Context, selector, pattern string, timeout time.Duration) (output.Element, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}

	el, err := page.Timeout(timeout).ElementR(selector, pattern)
	if err != nil {
		return nil, fmt.Errorf("element not found: %s matching %q: %w", selector, pattern, err)
	}
	return &element{el: el.CancelTimeout()}, nil
}

func (b *BrowserAdapter) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}

	els, err := page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}

	result := make([]output.Element, 0, len(els))
	for _, el := range els {
		result = append(result, &element{el: el})
	}
	return result, nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}

	imgBytes, err := page.Screenshot(b.fullPage, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	return downscale(imgBytes, b.maxWidth)
}

// downscale decodes img, shrinks it to maxWidth keeping the aspect ratio and
// re-encodes it as JPEG.
func downscale(imgBytes []byte, maxWidth int) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(75)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) info() (*proto.TargetTargetInfo, error) {
	if !b.IsReady() {
		return nil, ErrBrowserClosed
	}
	info, err := b.page.Timeout(b.timeout).Info()
	if err != nil {
		return nil, fmt.Errorf("page info: %w", err)
	}
	return info, nil
}

func (b *BrowserAdapter) CurrentURL() (string, error) {
	info, err := b.info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (b *BrowserAdapter) Title() (string, error) {
	info, err := b.info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// Close releases the browser and its process. Calls after the first are no-ops.
func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// Probe launches a headless browser and closes it again. It is the
// pre-flight check that a usable browser is installed.
func Probe(ctx context.Context) error {
	if _, err := Available(); err != nil {
		return err
	}

	cfg := DefaultConfig()
	cfg.Headless = true
	b, err := NewBrowserAdapter(ctx, cfg)
	if err != nil {
		return err
	}
	b.Close()
	return nil
}
