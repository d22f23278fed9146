package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
)

// ModelGateway routes queries to the backend a model's registry entry
// declares. The one automatic failover it performs is size-based: when an
// attached image would exceed the resolved model's byte limit, the request
// moves to the configured backup model instead of failing outright.
type ModelGateway struct {
	registry    *Registry
	anthropic   *AnthropicClient
	ollama      *OllamaClient
	model       string
	backupModel string
	logger      *slog.Logger
}

type GatewayParams struct {
	Registry    *Registry
	Anthropic   *AnthropicClient
	Ollama      *OllamaClient
	Model       string
	BackupModel string
	Logger      *slog.Logger
}

func NewModelGateway(p GatewayParams) *ModelGateway {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelGateway{
		registry:    p.Registry,
		anthropic:   p.Anthropic,
		ollama:      p.Ollama,
		model:       p.Model,
		backupModel: p.BackupModel,
		logger:      logger,
	}
}

// Model returns the default model this gateway resolves to.
func (g *ModelGateway) Model() string { return g.model }

// Query resolves the model, checks attachment sizes against the model's
// declared limit, and dispatches to the matching backend.
func (g *ModelGateway) Query(ctx context.Context, req QueryRequest) (string, error) {
	model := g.model
	if req.ModelHint != "" {
		model = req.ModelHint
	}
	spec := g.registry.Lookup(model)

	if over, size := g.oversize(spec, req.Images); over {
		if g.backupModel == "" || g.backupModel == model {
			return "", common.NewAppError(common.CodeOversize, "image too large for model and no backup configured", common.ErrOversize)
		}
		g.logger.Warn("llm.gateway.oversize_failover",
			"model", model,
			"backup_model", g.backupModel,
			"estimated_bytes", size,
			"limit_bytes", spec.MaxImageBytes,
		)
		model = g.backupModel
		spec = g.registry.Lookup(model)
		if over, size := g.oversize(spec, req.Images); over {
			g.logger.Error("llm.gateway.oversize_backup", "model", model, "estimated_bytes", size)
			return "", common.NewAppError(common.CodeOversize, "image too large for backup model", common.ErrOversize)
		}
	}

	reqID := uuid.New().String()
	start := time.Now()
	g.logger.Info("llm.gateway.query",
		"req_id", reqID,
		"model", model,
		"kind", string(spec.Kind),
		"images", len(req.Images),
		"prompt_len", len(req.Prompt),
	)

	var (
		text string
		err  error
	)
	switch spec.Kind {
	case KindHosted:
		text, err = g.anthropic.Query(ctx, model, req)
	default:
		text, err = g.ollama.Query(ctx, model, req)
	}

	if err != nil {
		g.logger.Error("llm.gateway.query_error",
			"req_id", reqID,
			"model", model,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	g.logger.Info("llm.gateway.query_ok",
		"req_id", reqID,
		"model", model,
		"reply_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// oversize reports whether any attachment's base64 footprint would exceed
// the model's declared limit. Encoding inflates the file by roughly 4/3.
func (g *ModelGateway) oversize(spec ModelSpec, images []ImageAttachment) (bool, int64) {
	if spec.MaxImageBytes <= 0 {
		return false, 0
	}
	for _, img := range images {
		est := img.FileSize * 4 / 3
		if est > spec.MaxImageBytes {
			return true, est
		}
	}
	return false, 0
}
