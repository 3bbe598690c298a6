package vision

import (
	"net/http"
	"time"

	"webtest-agent/internal/application/port/output"
)

// loggingTransport logs request and response lines without bodies:
// vision requests carry a whole base64 screenshot.
type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"contentLength", req.ContentLength,
	)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP Request failed",
			"url", req.URL.String(),
			"error", err,
			"duration", time.Since(start),
		)
		return nil, err
	}

	t.logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

// NewHTTPClient returns a client that logs through logger when it is set.
// A zero timeout keeps the transport default.
func NewHTTPClient(timeout time.Duration, logger output.LoggerPort) *http.Client {
	client := &http.Client{Timeout: timeout}
	if logger != nil {
		client.Transport = &loggingTransport{
			base:   http.DefaultTransport,
			logger: logger,
		}
	}
	return client
}
