// Package visualization renders thermal images and their ROIs: heat maps
// through a two-color scheme, ROI outlines, per-ROI crops and profile plots.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"thermalroi/internal/models"
	"thermalroi/pkg/roi"
	"thermalroi/pkg/thermal"
)

// Scheme maps normalized values to colors by blending from Cold (0) to Hot
// (1) in HCL space
type Scheme struct {
	Cold colorful.Color
	Hot  colorful.Color
}

// DefaultScheme runs from deep blue to yellow
func DefaultScheme() Scheme {
	s, _ := ParseScheme("#0b1a6e", "#ffe14d")
	return s
}

// ParseScheme builds a scheme from two hex colors such as "#ff8800"
func ParseScheme(cold, hot string) (Scheme, error) {
	c, err := colorful.Hex(cold)
	if err != nil {
		return Scheme{}, fmt.Errorf("cold color: %w", err)
	}
	h, err := colorful.Hex(hot)
	if err != nil {
		return Scheme{}, fmt.Errorf("hot color: %w", err)
	}
	return Scheme{Cold: c, Hot: h}, nil
}

// At returns the color of a normalized value; values outside [0, 1] saturate
func (s Scheme) At(v float64) color.Color {
	v = min(max(v, 0), 1)
	return s.Cold.BlendHcl(s.Hot, v).Clamped()
}

// Viewer renders a normalized thermal image
type Viewer struct {
	img    *thermal.NormalizedImage
	scheme Scheme
}

// NewViewer creates a viewer drawing img with scheme
func NewViewer(img *thermal.NormalizedImage, scheme Scheme) *Viewer {
	return &Viewer{img: img, scheme: scheme}
}

// Heatmap renders the normalized field; x runs along columns
func (v *Viewer) Heatmap() *image.NRGBA {
	rows, cols := v.img.Dims()
	norm := v.img.Normalized()
	out := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(c, r, v.scheme.At(norm.At(r, c)))
		}
	}
	return out
}

// Render draws the heat map with the outline of every shape
func (v *Viewer) Render(shapes []roi.Shape, outline color.Color) *image.NRGBA {
	out := v.Heatmap()
	DrawOutlines(out, shapes, outline)
	return out
}

// DrawOutlines paints the boundary pixels of every shape onto dst: pixels
// inside the shape with at least one 4-neighbour outside it. Only the
// drawable bounds of each shape are scanned.
func DrawOutlines(dst draw.Image, shapes []roi.Shape, c color.Color) {
	area := dst.Bounds()
	for _, s := range shapes {
		b := s.Drawable().Bounds
		for r := b.Min.Row; r <= b.Max.Row; r++ {
			for col := b.Min.Col; col <= b.Max.Col; col++ {
				if !image.Pt(col, r).In(area) || !onBoundary(s, r, col) {
					continue
				}
				dst.Set(col, r, c)
			}
		}
	}
}

func onBoundary(s roi.Shape, r, c int) bool {
	if !s.Contains(models.Point{Row: r, Col: c}) {
		return false
	}
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if !s.Contains(models.Point{Row: r + d[0], Col: c + d[1]}) {
			return true
		}
	}
	return false
}

// Crop returns the part of img under the bounds of shape
func Crop(img image.Image, s roi.Shape) image.Image {
	b := s.Bounds()
	return imaging.Crop(img, image.Rect(b.Min.Col, b.Min.Row, b.Max.Col+1, b.Max.Row+1))
}

// Save upscales img by scale with nearest-neighbour sampling, so every pixel
// stays a sharp block, and writes it in the format given by the extension
func Save(img image.Image, path string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b := img.Bounds()
	if scale > 1 {
		img = imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	}
	return imaging.Save(img, path)
}

// SaveRegions writes the crop of every shape from the rendered image to
// outputDir as roi_<n>.png
func (v *Viewer) SaveRegions(shapes []roi.Shape, outline color.Color, outputDir string, scale int) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	rendered := v.Render(shapes, outline)
	for i, s := range shapes {
		filename := filepath.Join(outputDir, fmt.Sprintf("roi_%02d.png", i+1))
		if err := Save(Crop(rendered, s), filename, scale); err != nil {
			return err
		}
	}
	return nil
}
