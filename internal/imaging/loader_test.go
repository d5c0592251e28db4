package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestImage writes a uniformly filled PNG into a fresh temp directory
// and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create frame file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode frame: %v", err)
	}
	return path
}

func cached(c *ImageCache, path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.images[path]
	return ok
}

func TestImageCache_LoadReusesDecodedFrame(t *testing.T) {
	cache := NewImageCache()
	path := createTestImage(t, 64, 48, color.RGBA{255, 0, 0, 255})

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", b.Dx(), b.Dy())
	}

	// Replace the file; the cached decode must still be served.
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if first != second {
		t.Error("second Load did not return the cached image")
	}

	cache.Evict(path)
	if cached(cache, path) {
		t.Error("Evict left the frame cached")
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("Load after Evict should re-read the now invalid file")
	}
}

func TestImageCache_Errors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/to/frame.png"); err == nil {
		t.Error("Load should fail for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cached(cache, bad) {
		t.Error("failed Load must not populate the cache")
	}

	// Evicting an unknown path is a no-op.
	cache.Evict("/nonexistent/path")
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache()
	a := createTestImage(t, 8, 8, color.White)
	b := createTestImage(t, 8, 8, color.Black)
	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Clear()

	if cached(cache, a) || cached(cache, b) {
		t.Error("Clear left frames cached")
	}
}

func TestImageCache_ConcurrentLoad(t *testing.T) {
	cache := NewImageCache()
	path := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadFrameInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadFrameInfo(cache, imgPath, DefaultFrameWidth, DefaultFrameHeight)
	if err != nil {
		t.Fatalf("LoadFrameInfo failed: %v", err)
	}

	if info.Width != 200 {
		t.Errorf("Width: got %d, want 200", info.Width)
	}
	if info.Height != 150 {
		t.Errorf("Height: got %d, want 150", info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
	if !info.NeedsNormalize {
		t.Error("200x150 image should need normalizing to 640x480")
	}
}

func TestLoadFrameInfo_FrameSized(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, DefaultFrameWidth, DefaultFrameHeight, color.RGBA{10, 10, 10, 255})

	info, err := LoadFrameInfo(cache, imgPath, DefaultFrameWidth, DefaultFrameHeight)
	if err != nil {
		t.Fatalf("LoadFrameInfo failed: %v", err)
	}
	if info.NeedsNormalize {
		t.Error("640x480 image should not need normalizing")
	}
}

func TestLoadFrameInfo_FormatDetection(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()

	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".jpg", "jpeg"},
		{".jpeg", "jpeg"},
		{".gif", "gif"},
		{".tiff", "tiff"},
		{".bmp", "bmp"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			tmpPath := filepath.Join(dir, "test-format"+tt.ext)

			// A PNG regardless of extension; decoding sniffs the content.
			img := image.NewRGBA(image.Rect(0, 0, 10, 10))
			f, err := os.Create(tmpPath)
			if err != nil {
				t.Fatalf("failed to create file: %v", err)
			}
			if err := png.Encode(f, img); err != nil {
				t.Fatalf("failed to encode: %v", err)
			}
			f.Close()

			info, err := LoadFrameInfo(cache, tmpPath, 10, 10)
			if err != nil {
				t.Fatalf("LoadFrameInfo failed: %v", err)
			}

			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
		})
	}
}

func TestLoadFrameInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := LoadFrameInfo(cache, "/nonexistent/image.png", DefaultFrameWidth, DefaultFrameHeight)
	if err == nil {
		t.Error("LoadFrameInfo should fail for non-existent file")
	}
}
