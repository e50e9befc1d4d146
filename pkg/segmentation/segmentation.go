// Package segmentation turns a normalized thermal field into the pattern
// marker matrix consumed by the fitting engine: the field is thresholded into
// a binary mask and its 8-connected components are numbered 1..N.
package segmentation

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/segment"
	"gonum.org/v1/gonum/mat"

	"thermalroi/internal/models"
)

// Options controls pattern detection
type Options struct {
	// Level is the normalized threshold in [0, 1]
	Level float64

	// Cold selects pixels below Level instead of pixels at or above it
	Cold bool

	// MinArea drops components with fewer pixels
	MinArea int
}

// DefaultOptions detects hot patterns above mid range
func DefaultOptions() Options {
	return Options{Level: 0.5, MinArea: 1}
}

// Threshold marks the pixels of a normalized field at or above level (or
// below it when cold is set). The field is quantized to 8 bits first, so
// levels closer than 1/255 are indistinguishable.
func Threshold(norm mat.Matrix, level float64, cold bool) (*models.Mask, error) {
	if level < 0 || level > 1 || math.IsNaN(level) {
		return nil, fmt.Errorf("threshold level must be in [0, 1], got %v", level)
	}
	rows, cols := norm.Dims()
	gray := toGray(norm)
	binary := segment.Threshold(gray, quantize(level))

	mask := models.NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			hot := binary.GrayAt(c, r).Y > 0
			mask.Set(r, c, hot != cold)
		}
	}
	return mask, nil
}

func quantize(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// toGray maps a field in [0, 1] to an 8-bit image; x runs along columns
func toGray(norm mat.Matrix) *image.Gray {
	rows, cols := norm.Dims()
	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gray.Pix[r*gray.Stride+c] = quantize(norm.At(r, c))
		}
	}
	return gray
}

// neighbours of a pixel under 8-connectivity
var neighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Label numbers the 8-connected components of mask. Components are numbered
// from 1 in raster order of their first pixel; background stays 0.
func Label(mask *models.Mask) *models.Labels {
	rows, cols := mask.Dims()
	labels := models.NewLabels(rows, cols)

	next := 0
	var stack []models.Point
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !mask.At(r, c) || labels.At(r, c) != 0 {
				continue
			}
			next++
			labels.Set(r, c, next)
			stack = append(stack[:0], models.Point{Row: r, Col: c})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				for _, d := range neighbours {
					nr, nc := p.Row+d[0], p.Col+d[1]
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					if !mask.At(nr, nc) || labels.At(nr, nc) != 0 {
						continue
					}
					labels.Set(nr, nc, next)
					stack = append(stack, models.Point{Row: nr, Col: nc})
				}
			}
		}
	}
	return labels
}

// FilterSmall clears the components with fewer than minArea pixels and
// renumbers the survivors contiguously, keeping their relative order
func FilterSmall(labels *models.Labels, minArea int) *models.Labels {
	areas := labels.Areas()
	remap := make([]int, len(areas))
	next := 0
	for k := 1; k < len(areas); k++ {
		if areas[k] >= minArea && areas[k] > 0 {
			next++
			remap[k] = next
		}
	}

	out := models.NewLabels(labels.Rows, labels.Cols)
	for i, v := range labels.Data {
		if v > 0 {
			out.Data[i] = remap[v]
		}
	}
	return out
}

// Detect thresholds norm, labels the components and drops the small ones
func Detect(norm mat.Matrix, opts Options) (*models.Labels, error) {
	mask, err := Threshold(norm, opts.Level, opts.Cold)
	if err != nil {
		return nil, err
	}
	return FilterSmall(Label(mask), opts.MinArea), nil
}
