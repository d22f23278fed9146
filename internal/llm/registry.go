package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
)

// ModelKind tells the gateway which backend serves a model.
type ModelKind string

const (
	KindHosted ModelKind = "hosted"
	KindLocal  ModelKind = "local"
)

// ModelSpec declares a model's capabilities. Routing decisions read these
// declarations instead of sniffing model names.
type ModelSpec struct {
	Name          string    `yaml:"name"`
	Kind          ModelKind `yaml:"kind"`
	Vision        bool      `yaml:"vision"`
	MaxImageBytes int64     `yaml:"max_image_bytes,omitempty"`
}

// Registry maps model names to their declared capabilities.
type Registry struct {
	specs map[string]ModelSpec
}

type registryFile struct {
	Models []ModelSpec `yaml:"models"`
}

// defaultSpecs cover the models the cataloger ships with. A registry file
// extends or overrides these.
var defaultSpecs = []ModelSpec{
	{Name: "claude-3-haiku-20240307", Kind: KindHosted, Vision: true, MaxImageBytes: constants.MaxHostedImageBytes},
	{Name: "claude-3-5-sonnet-20241022", Kind: KindHosted, Vision: true, MaxImageBytes: constants.MaxHostedImageBytes},
	{Name: "claude-3-opus-20240229", Kind: KindHosted, Vision: true, MaxImageBytes: constants.MaxHostedImageBytes},
	{Name: "llava", Kind: KindLocal, Vision: true},
	{Name: "llava:13b", Kind: KindLocal, Vision: true},
	{Name: "bakllava", Kind: KindLocal, Vision: true},
	{Name: "llama3", Kind: KindLocal, Vision: false},
	{Name: "mistral", Kind: KindLocal, Vision: false},
}

// NewRegistry builds a registry from the built-in defaults, overlaid with
// the YAML file at path when it is non-empty and exists.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{specs: make(map[string]ModelSpec, len(defaultSpecs))}
	for _, s := range defaultSpecs {
		r.specs[s.Name] = s
	}

	if path == "" {
		return r, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read model registry: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse model registry: %w", err)
	}
	for _, s := range f.Models {
		if s.Name == "" {
			continue
		}
		if s.Kind == "" {
			s.Kind = KindLocal
		}
		r.specs[s.Name] = s
	}
	return r, nil
}

// Lookup resolves a model name to its spec. Unknown models fall back to a
// conservative guess: anthropic-style names are hosted, everything else is
// served locally.
func (r *Registry) Lookup(name string) ModelSpec {
	if s, ok := r.specs[name]; ok {
		return s
	}
	if strings.HasPrefix(name, "claude") {
		return ModelSpec{Name: name, Kind: KindHosted, Vision: true, MaxImageBytes: constants.MaxHostedImageBytes}
	}
	return ModelSpec{Name: name, Kind: KindLocal, Vision: true}
}
