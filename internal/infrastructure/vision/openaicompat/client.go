package openaicompat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"webtest-agent/internal/application/port/output"
	"webtest-agent/internal/domain/entity"
	"webtest-agent/internal/infrastructure/vision"

	"github.com/sashabaranov/go-openai"
)

var _ output.VisionPort = (*Client)(nil)

type Config struct {
	// BaseURL is the server root; /v1 is appended.
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  output.LoggerPort
}

func DefaultConfig(baseURL, model string) Config {
	return Config{
		BaseURL: baseURL,
		APIKey:  "ollama",
		Model:   model,
	}
}

// Client sends vision requests through an OpenAI-compatible chat endpoint,
// such as the one Ollama serves under /v1.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
	config.HTTPClient = vision.NewHTTPClient(cfg.Timeout, cfg.Logger)

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

func (c *Client) Model() string { return c.model }
func (c *Client) Mode() string  { return "openai" }

func (c *Client) Analyze(ctx context.Context, image []byte, prompt string) (entity.Analysis, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(image), base64.StdEncoding.EncodeToString(image))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		if failed, ok := statusFailure(err); ok {
			return failed, nil
		}
		return entity.Analysis{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return entity.Analysis{}, fmt.Errorf("no choices in response")
	}
	return entity.AnalysisOK(resp.Choices[0].Message.Content), nil
}

// statusFailure turns errors that carry an HTTP status into a failed analysis.
func statusFailure(err error) (entity.Analysis, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return entity.AnalysisFailed(apiErr.HTTPStatusCode, apiErr.Message), true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return entity.AnalysisFailed(reqErr.HTTPStatusCode, body), true
	}

	return entity.Analysis{}, false
}
