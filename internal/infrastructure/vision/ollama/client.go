package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"
	"webtest-agent/internal/infrastructure/vision"

	"github.com/ollama/ollama/api"
)

var _ output.VisionPort = (*Client)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"

	noResponse = "No response"
)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  output.LoggerPort
}

func DefaultConfig(model string) Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Model:   model,
	}
}

// Client talks to the native Ollama generate API.
type Client struct {
	api     *api.Client
	baseURL string
	model   string
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		base, _ = url.Parse(DefaultBaseURL)
	}

	return &Client{
		api:     api.NewClient(base, vision.NewHTTPClient(cfg.Timeout, cfg.Logger)),
		baseURL: baseURL,
		model:   cfg.Model,
	}
}

func (c *Client) Model() string { return c.model }
func (c *Client) Mode() string  { return "ollama" }

// Analyze issues one non-streaming generate request. An error status comes
// back as a failed Analysis; only transport and decoding problems are errors.
func (c *Client) Analyze(ctx context.Context, image []byte, prompt string) (entity.Analysis, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: []api.ImageData{image},
		Stream: &stream,
	}

	var (
		text     string
		answered bool
	)
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		text += resp.Response
		answered = true
		return nil
	})
	if err != nil {
		var status api.StatusError
		if errors.As(err, &status) {
			return entity.AnalysisFailed(status.StatusCode, statusBody(status)), nil
		}
		return entity.Analysis{}, fmt.Errorf("generate request failed: %w", err)
	}

	if !answered || text == "" {
		return entity.AnalysisOK(noResponse), nil
	}
	return entity.AnalysisOK(text), nil
}

func statusBody(s api.StatusError) string {
	if s.ErrorMessage != "" {
		return s.ErrorMessage
	}
	return s.Status
}

// Ping checks that the server answers the model list endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.List(ctx); err != nil {
		return fmt.Errorf("ollama server unreachable at %s: %w", c.baseURL, err)
	}
	return nil
}
