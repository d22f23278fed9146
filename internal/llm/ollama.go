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

// OllamaClient talks to a local ollama server's generate endpoint.
type OllamaClient struct {
	apiURL string
	client *http.Client
	logger *slog.Logger
}

func NewOllamaClient(apiURL string, timeout time.Duration, logger *slog.Logger) *OllamaClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaClient{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Images  []string      `json:"images,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Query sends a single-shot generate request. Vision calls run at a low
// temperature so the model reads the page instead of inventing one.
func (c *OllamaClient) Query(ctx context.Context, model string, req QueryRequest) (string, error) {
	temp := 0.7
	if len(req.Images) > 0 {
		temp = 0.1
	}

	body := ollamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  4096,
		},
	}
	if req.ForceJSON {
		body.Format = "json"
	}
	for _, img := range req.Images {
		body.Images = append(body.Images, img.Data)
	}

	raw, status, err := SendJSON(ctx, c.client, c.apiURL, body, nil, c.logger)
	if err != nil {
		return "", common.NewAppError(common.CodeTransport, fmt.Sprintf("ollama request failed (status %d)", status), err)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if resp.Error != "" {
		return "", common.NewAppError(common.CodeTransport, "ollama error: "+resp.Error, nil)
	}
	return resp.Response, nil
}
