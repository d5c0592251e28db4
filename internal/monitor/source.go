package monitor

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/filament-gauge/internal/imaging"
)

// Frame is one image to measure.
type Frame struct {
	// Index counts frames from 0 in source order.
	Index int `json:"index"`

	// Name identifies the frame, usually its file path.
	Name string `json:"name"`

	Image image.Image `json:"-"`
}

// Source yields frames. Next returns io.EOF when there are no more.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// DirSource reads frames from image files in a fixed order.
type DirSource struct {
	paths  []string
	next   int
	width  int
	height int
}

// NewDirSource builds a source from files and directories. Directories are
// expanded to the image files they contain directly, sorted by name. Files are
// kept in the order given. Every frame is normalized to width×height.
func NewDirSource(args []string, width, height int) (*DirSource, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame directory: %w", err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames found in %s", strings.Join(args, ", "))
	}

	return &DirSource{paths: paths, width: width, height: height}, nil
}

// Len returns the total number of frames.
func (s *DirSource) Len() int { return len(s.paths) }

// Next loads the next frame from disk.
func (s *DirSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.next >= len(s.paths) {
		return Frame{}, io.EOF
	}

	path := s.paths[s.next]
	img, err := imaging.OpenFrame(path, s.width, s.height)
	if err != nil {
		return Frame{}, fmt.Errorf("frame %s: %w", path, err)
	}

	f := Frame{Index: s.next, Name: path, Image: img}
	s.next++
	return f, nil
}
