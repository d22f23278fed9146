package llm

import "context"

// ImageAttachment is one base64-encoded page image ready for a vision model.
type ImageAttachment struct {
	MediaType string // e.g. image/png
	Data      string // base64, no data: prefix
	FileSize  int64  // bytes on disk, pre-encoding
}

// QueryRequest is a single prompt, optionally with page images attached.
type QueryRequest struct {
	Prompt string
	Images []ImageAttachment

	// ModelHint overrides the configured default model for this call only.
	ModelHint string

	// ForceJSON asks backends that support it to constrain output to JSON.
	ForceJSON bool
}

// Gateway is the interface the pipeline depends on. It hides which backend
// a model resolves to and returns the raw text reply.
type Gateway interface {
	Query(ctx context.Context, req QueryRequest) (string, error)
}
