package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Default frame size the calibration constants are valid for.
const (
	DefaultFrameWidth  = 640
	DefaultFrameHeight = 480
)

// ImageResult contains an encoded image for tool responses.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// NormalizeFrame returns img scaled and center-cropped to width×height.
//
// The band bounds and scan row are pixel positions in a 640×480 frame, so
// captures of any other size are brought to that geometry first. An image that
// already has the right size, with its origin at (0, 0), is returned unchanged.
func NormalizeFrame(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}
	if b.Min == (image.Point{}) && b.Dx() == width && b.Dy() == height {
		return img, nil
	}
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos), nil
}

// LoadFrame loads path through the cache and normalizes it to width×height.
func LoadFrame(cache *ImageCache, path string, width, height int) (image.Image, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	frame, err := NormalizeFrame(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// OpenFrame reads path from disk, bypassing any cache, and normalizes it to
// width×height.
func OpenFrame(path string, width, height int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	frame, err := NormalizeFrame(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// EncodePNGBase64 encodes img as a base64 PNG.
func EncodePNGBase64(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveImage writes img to path. The format follows the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
