package thermal

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"thermalroi/internal/models"
	"thermalroi/pkg/roi"
)

// FilteredImage is a copy of an image restricted to a region: every pixel
// outside the region is zero. The reduced views cover the tight bounding
// rectangle of the region and share storage with the full image.
type FilteredImage struct {
	full   *NormalizedImage
	region *models.Mask
	bounds models.Rect
}

// Extract keeps the pixels of img selected by mask
func Extract(img *NormalizedImage, mask *models.Mask) (*FilteredImage, error) {
	return filter(img, mask.Not())
}

// ExtractROI keeps the pixels of img inside shape, or outside it when invert
// is set
func ExtractROI(img *NormalizedImage, shape roi.Shape, invert bool) (*FilteredImage, error) {
	rows, cols := img.Dims()
	mask := roi.Rasterize(shape, rows, cols)
	if invert {
		mask = mask.Not()
	}
	return Extract(img, mask)
}

// filter zeroes the pixels flagged in outside on a working copy of img
func filter(img *NormalizedImage, outside *models.Mask) (*FilteredImage, error) {
	rows, cols := img.Dims()
	mr, mc := outside.Dims()
	if mr != rows || mc != cols {
		return nil, errors.Wrapf(models.ErrShapeMismatch, "mask is %dx%d, image is %dx%d", mr, mc, rows, cols)
	}

	kept := outside.Not()
	bounds, ok := kept.Bounds()
	if !ok {
		return nil, errors.Wrap(models.ErrEmptyRegion, "no pixel selected")
	}

	work := mat.DenseCopyOf(img.Raw())
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if outside.At(r, c) {
				work.Set(r, c, 0)
			}
		}
	}

	return &FilteredImage{
		full:   withRange(work, img.Min(), img.Max()),
		region: kept,
		bounds: bounds,
	}, nil
}

// Full returns the full-size filtered image
func (f *FilteredImage) Full() *NormalizedImage { return f.full }

// Mask returns the full-size mask of kept pixels
func (f *FilteredImage) Mask() *models.Mask { return f.region }

// Bounds returns the inclusive bounding rectangle of the kept pixels
func (f *FilteredImage) Bounds() models.Rect { return f.bounds }

// Reduced returns the raw values inside the bounding rectangle. The view
// aliases Full().Raw().
func (f *FilteredImage) Reduced() *mat.Dense {
	b := f.bounds
	return f.full.Raw().Slice(b.Min.Row, b.Max.Row+1, b.Min.Col, b.Max.Col+1).(*mat.Dense)
}

// ReducedNormalized returns the normalized values inside the bounding
// rectangle. The view aliases Full().Normalized().
func (f *FilteredImage) ReducedNormalized() *mat.Dense {
	b := f.bounds
	return f.full.Normalized().Slice(b.Min.Row, b.Max.Row+1, b.Min.Col, b.Max.Col+1).(*mat.Dense)
}

// ReducedMask returns the kept-pixel mask inside the bounding rectangle. The
// view aliases Mask().
func (f *FilteredImage) ReducedMask() *models.Mask {
	b := f.bounds
	return f.region.Slice(b.Min.Row, b.Max.Row+1, b.Min.Col, b.Max.Col+1)
}

// Indices returns the kept pixels in raster order
func (f *FilteredImage) Indices() []models.Point {
	var pts []models.Point
	b := f.bounds
	for r := b.Min.Row; r <= b.Max.Row; r++ {
		for c := b.Min.Col; c <= b.Max.Col; c++ {
			if f.region.At(r, c) {
				pts = append(pts, models.Point{Row: r, Col: c})
			}
		}
	}
	return pts
}

// RegionSummary describes the raw temperatures inside a region
type RegionSummary struct {
	Pixels int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
}

// Summarize computes the statistics of the kept pixels over the reduced view
func Summarize(f *FilteredImage) RegionSummary {
	view := f.Reduced()
	mask := f.ReducedMask()
	rows, cols := view.Dims()

	values := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if mask.At(r, c) {
				values = append(values, view.At(r, c))
			}
		}
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	return RegionSummary{
		Pixels: len(values),
		Mean:   mean,
		Std:    std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}
