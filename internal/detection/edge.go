package detection

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Default Canny thresholds on the 0-255 scale.
const (
	DefaultCannyLow  = 140
	DefaultCannyHigh = 200

	// blurRadius is the Gaussian radius applied before gradients.
	blurRadius = 1.4
)

// EdgeMap is a binary edge image in frame coordinates (0-based).
type EdgeMap struct {
	Width  int
	Height int
	pix    []bool
}

// NewEdgeMap returns an empty edge map.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{Width: width, Height: height, pix: make([]bool, width*height)}
}

// At reports whether (x, y) is an edge pixel. Out-of-range coordinates are not.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.pix[y*m.Width+x]
}

// Set marks or clears an edge pixel. Out-of-range coordinates are ignored.
func (m *EdgeMap) Set(x, y int, edge bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.pix[y*m.Width+x] = edge
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for _, e := range m.pix {
		if e {
			n++
		}
	}
	return n
}

// Image renders the map as grayscale: edges are 255, everything else 0.
func (m *EdgeMap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.pix[y*m.Width+x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// DetectEdges performs Canny edge detection on an image.
//
// Parameters:
//   - img: Source frame (color or grayscale).
//   - thresholdLow: Weak-edge threshold (0-255). Gradients below it are dropped.
//   - thresholdHigh: Strong-edge threshold (0-255). Gradients above it are kept.
//
// # Algorithm
//
//  1. Grayscale conversion and Gaussian blur (bild)
//  2. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  3. Non-maximum suppression along the gradient direction
//  4. Hysteresis: weak pixels survive only when connected (8-neighbourhood,
//     transitively) to a strong pixel
//
// Thresholds are compared against the gradient of luminance scaled to 0-1,
// so they are divided by 255 before use.
func DetectEdges(img image.Image, thresholdLow, thresholdHigh int) *EdgeMap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	edges := NewEdgeMap(width, height)
	if width < 3 || height < 3 {
		return edges
	}

	blurred := blur.Gaussian(effect.Grayscale(img), blurRadius)
	bb := blurred.Bounds()

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v, _, _, _ := blurred.At(x+bb.Min.X, y+bb.Min.Y).RGBA()
			lum[y*width+x] = float64(v>>8) / 255.0
		}
	}
	at := func(x, y int) float64 {
		return lum[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	low := float64(thresholdLow) / 255.0
	high := float64(thresholdHigh) / 255.0

	// Seed with strong pixels, then grow into connected weak ones.
	stack := make([]int, 0, 1024)
	for i, v := range suppressed {
		if v >= high && v > 0 {
			edges.pix[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if !edges.pix[j] && suppressed[j] >= low && suppressed[j] > 0 {
					edges.pix[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return edges
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
