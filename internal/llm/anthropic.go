package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient talks to the Anthropic messages API for hosted vision
// models.
type AnthropicClient struct {
	apiURL string
	apiKey string
	client *http.Client
	logger *slog.Logger
}

func NewAnthropicClient(apiURL, apiKey string, timeout time.Duration, logger *slog.Logger) *AnthropicClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnthropicClient{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Query sends the prompt, with images as leading content blocks, and
// returns the concatenated text of the reply.
func (c *AnthropicClient) Query(ctx context.Context, model string, req QueryRequest) (string, error) {
	if c.apiKey == "" {
		return "", common.NewAppError(common.CodeInvalidInput, "anthropic api key not configured", nil)
	}

	blocks := make([]anthropicContentBlock, 0, len(req.Images)+1)
	for _, img := range req.Images {
		blocks = append(blocks, anthropicContentBlock{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.Data,
			},
		})
	}
	blocks = append(blocks, anthropicContentBlock{Type: "text", Text: req.Prompt})

	body := anthropicRequest{
		Model:     model,
		MaxTokens: 4096,
		Messages:  []anthropicMessage{{Role: "user", Content: blocks}},
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	raw, status, err := SendJSON(ctx, c.client, c.apiURL, body, headers, c.logger)
	if err != nil {
		return "", common.NewAppError(common.CodeTransport, fmt.Sprintf("anthropic request failed (status %d)", status), err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if resp.Error != nil {
		return "", common.NewAppError(common.CodeTransport, fmt.Sprintf("anthropic error: %s: %s", resp.Error.Type, resp.Error.Message), nil)
	}

	var text string
	for _, blk := range resp.Content {
		if blk.Type == "text" {
			text += blk.Text
		}
	}
	return text, nil
}
