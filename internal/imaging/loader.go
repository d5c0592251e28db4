package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache keeps decoded frames in memory, keyed by the path they were
// loaded from.
//
// The server measures, overlays and edge-detects the same file in separate
// tool calls, and the cache keeps the decode between them. The watch loop
// reads every frame once and goes through OpenFrame instead.
//
// Entries stay until Evict or Clear. Paths are not canonicalized, so a
// relative and an absolute path to one file are two entries.
//
// ImageCache is safe for concurrent use.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the frame at path, decoding it on first use. PNG, JPEG, GIF,
// TIFF and BMP are supported, and JPEG EXIF orientation is applied. Failed
// loads are not cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear drops every cached frame.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops the frame cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// FrameInfo contains metadata about an image file used as a frame.
type FrameInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format, based on file extension:
	// "png", "jpeg", "gif", "tiff", "bmp", or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// NeedsNormalize is true when the image is not already the frame size the
	// calibration assumes and will be resized before measuring.
	NeedsNormalize bool `json:"needs_normalize"`
}

// LoadFrameInfo loads an image through the cache and describes it relative to
// the expected frame size.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//   - frameWidth, frameHeight: The frame size measurements are calibrated for.
//
// Returns:
//   - *FrameInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadFrameInfo(cache *ImageCache, path string, frameWidth, frameHeight int) (*FrameInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".tif", ".tiff":
		format = "tiff"
	case ".bmp":
		format = "bmp"
	}

	bounds := img.Bounds()
	return &FrameInfo{
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		Format:         format,
		FileSizeBytes:  stat.Size(),
		NeedsNormalize: bounds.Dx() != frameWidth || bounds.Dy() != frameHeight,
	}, nil
}
