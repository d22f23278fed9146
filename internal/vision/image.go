package vision

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
)

// mediaTypes maps file extensions to the MIME type hosted vision APIs
// expect. Unknown extensions fall back to PNG.
var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// MediaType returns the MIME type for an image path.
func MediaType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := mediaTypes[ext]; ok {
		return mt
	}
	return "image/png"
}

// LoadAttachment reads an image file and packages it for a model call.
func LoadAttachment(path string) (llm.ImageAttachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return llm.ImageAttachment{}, fmt.Errorf("stat image: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return llm.ImageAttachment{}, fmt.Errorf("read image: %w", err)
	}
	return llm.ImageAttachment{
		MediaType: MediaType(path),
		Data:      base64.StdEncoding.EncodeToString(raw),
		FileSize:  info.Size(),
	}, nil
}

// ListImages returns the image files directly under dir, unsorted.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.IsImageFile(filepath.Ext(e.Name())) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
