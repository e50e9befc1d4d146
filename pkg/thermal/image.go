// Package thermal holds temperature fields as gonum matrices: the normalized
// image wrapper, region extraction with full and reduced views, and loading
// of raw matrices from disk.
package thermal

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"thermalroi/internal/models"
)

// NormalizedImage wraps a raw temperature matrix together with its values
// rescaled to [0, 1]. Min and Max are fixed at construction; Normalized is
// recomputed from them by Renormalize after Raw has been written to.
type NormalizedImage struct {
	raw        *mat.Dense
	normalized *mat.Dense
	min        float64
	max        float64
}

// NewNormalizedImage copies raw and rescales it. Images with no dynamic range
// (max == min) cannot be normalized and are rejected.
func NewNormalizedImage(raw mat.Matrix) (*NormalizedImage, error) {
	rows, cols := raw.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(models.ErrDegenerateImage, "image has no pixels")
	}
	data := mat.DenseCopyOf(raw)
	values := data.RawMatrix().Data
	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		return nil, errors.Wrapf(models.ErrDegenerateImage, "all %d pixels equal %v", len(values), lo)
	}

	img := &NormalizedImage{
		raw:        data,
		normalized: mat.NewDense(rows, cols, nil),
		min:        lo,
		max:        hi,
	}
	img.Renormalize()
	return img, nil
}

// withRange builds an image over raw reusing an existing value range
func withRange(raw *mat.Dense, lo, hi float64) *NormalizedImage {
	rows, cols := raw.Dims()
	img := &NormalizedImage{
		raw:        raw,
		normalized: mat.NewDense(rows, cols, nil),
		min:        lo,
		max:        hi,
	}
	img.Renormalize()
	return img
}

// Renormalize recomputes the normalized matrix from the raw one
func (n *NormalizedImage) Renormalize() {
	span := n.max - n.min
	n.normalized.Apply(func(i, j int, v float64) float64 {
		return (n.raw.At(i, j) - n.min) / span
	}, n.normalized)
}

// Raw returns the raw matrix. Writes to it are visible to every view of the
// image; call Renormalize to refresh the normalized values.
func (n *NormalizedImage) Raw() *mat.Dense { return n.raw }

// Normalized returns the rescaled matrix
func (n *NormalizedImage) Normalized() *mat.Dense { return n.normalized }

// Min returns the smallest raw value seen at construction
func (n *NormalizedImage) Min() float64 { return n.min }

// Max returns the largest raw value seen at construction
func (n *NormalizedImage) Max() float64 { return n.max }

// Dims returns the number of rows and columns
func (n *NormalizedImage) Dims() (int, int) { return n.raw.Dims() }

// Denormalize maps a value in [0, 1] back to the raw scale
func (n *NormalizedImage) Denormalize(v float64) float64 {
	return n.min + v*(n.max-n.min)
}
