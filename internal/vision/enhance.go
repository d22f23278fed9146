package vision

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

// Enhance writes a contrast-boosted, sharpened copy of the image to a
// temporary PNG and returns its attachment plus a cleanup func. Used as a
// second pass when a recipe page yields nothing on the first read.
func Enhance(path string) (llm.ImageAttachment, func(), error) {
	src, err := imaging.Open(path)
	if err != nil {
		return llm.ImageAttachment{}, nil, fmt.Errorf("open image: %w", err)
	}

	out := imaging.AdjustContrast(src, 30)
	out = imaging.Sharpen(out, 1.0)

	tmp, err := os.CreateTemp("", "cookbook-enhanced-*.png")
	if err != nil {
		return llm.ImageAttachment{}, nil, fmt.Errorf("create temp image: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return llm.ImageAttachment{}, nil, fmt.Errorf("close temp image: %w", err)
	}

	if err := imaging.Save(out, tmpPath); err != nil {
		os.Remove(tmpPath)
		return llm.ImageAttachment{}, nil, fmt.Errorf("save enhanced image %s: %w", filepath.Base(tmpPath), err)
	}

	att, err := LoadAttachment(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return llm.ImageAttachment{}, nil, err
	}
	cleanup := func() { os.Remove(tmpPath) }
	return att, cleanup, nil
}
