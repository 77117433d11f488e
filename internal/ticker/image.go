package ticker

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/tickerd/internal/models"
)

// imageExtensions are the file extensions treated as image references,
// matched case-insensitively against the URL path.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImageURL reports whether a field value is an http(s) URL referencing an
// image by extension. Query strings are ignored for the match.
func IsImageURL(value string) bool {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return imageExtensions[strings.ToLower(path.Ext(u.Path))]
}

// ImageRewriter rewrites stored image URLs into local cache paths. With no
// cache path configured it passes every value through unchanged.
type ImageRewriter struct {
	cachePath string
}

// NewImageRewriter creates a rewriter for the given local cache path
// prefix. An empty prefix disables rewriting.
func NewImageRewriter(cachePath string) *ImageRewriter {
	return &ImageRewriter{cachePath: cachePath}
}

// Rewrite maps an image URL to its local cache path: the filename is taken
// from the URL path and joined onto the configured prefix. Non-image values
// pass through unchanged.
func (w *ImageRewriter) Rewrite(value string) string {
	if w.cachePath == "" || !IsImageURL(value) {
		return value
	}
	u, err := url.Parse(value)
	if err != nil {
		return value
	}
	return filepath.Join(w.cachePath, path.Base(u.Path))
}

// imageProcessor is the field-augmenting processor for declared image
// fields.
type imageProcessor struct {
	images *ImageRewriter
}

func (p *imageProcessor) Augment(_ context.Context, in AugmentInput) (Augmentation, error) {
	return Augmentation{
		Fields: []models.ElementField{{
			Name:  in.Field.Name,
			Value: p.images.Rewrite(in.Field.Value),
		}},
	}, nil
}
