package constants

import "strings"

// ImageExtensions holds the allowed file extensions for cookbook page images.
var ImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
	"gif":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageFile reports whether the extension belongs to a supported page image.
func IsImageFile(ext string) bool {
	_, ok := ImageExtensions[NormalizeExt(ext)]
	return ok
}

// MaxHostedImageBytes is the hosted backend's hard cap on a base64-encoded
// image (5 MiB post-encoding).
const MaxHostedImageBytes = 5 * 1024 * 1024
