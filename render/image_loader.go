package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/milk9111/threesixty/assets"
)

var (
	imagesMu sync.Mutex
	images   = map[string]image.Image{}
)

// LoadImage decodes a filmstrip from disk or the embedded assets and caches
// it by path, so re-attaching a widget does not decode the sheet again.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	imagesMu.Lock()
	img, ok := images[path]
	imagesMu.Unlock()
	if ok {
		return img, nil
	}

	img, err := loadImageFromFSOrAssets(path)
	if err != nil {
		return nil, err
	}
	imagesMu.Lock()
	images[path] = img
	imagesMu.Unlock()
	return img, nil
}

func loadImageFromFSOrAssets(path string) (image.Image, error) {
	tried := []string{path, filepath.Join("assets", path)}
	for _, p := range tried {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		im, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("render: decode %s: %w", p, err)
		}
		return im, nil
	}
	if img, err := assets.LoadImage(path); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("render: failed to load image %s", path)
}

// FileSource is a viewer source backed by LoadImage.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadImage(s.Path)
}
