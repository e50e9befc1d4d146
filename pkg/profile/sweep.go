// Package profile samples ROIs along lines through their centre and reduces
// the samples to statistical temperature profiles: radial (mean over angles
// at each distance along the line) and angular (mean over distances at each
// angle), with Student's t confidence bounds.
package profile

import (
	"fmt"
	"math"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"thermalroi/internal/models"
	"thermalroi/pkg/interpolation"
	"thermalroi/pkg/roi"
	"thermalroi/pkg/sampling"
)

// Line holds the samples of one line through a ROI
type Line struct {
	// Coordinate is the signed distance of each sample from Segment.Start
	// along the line, in physical units
	Coordinate []float64
	Values     []float64
	Points     []models.Point
	Segment    models.Segment
}

// SampleAlongAngle samples img along the line through the centre of shape at
// angle degrees. length is a physical length converted to pixels with
// lengthPerPixel; the line is clipped to the shape and clamped to the image.
func SampleAlongAngle(img mat.Matrix, shape roi.Shape, angle, length, lengthPerPixel float64, useWu bool) (Line, error) {
	if lengthPerPixel <= 0 || math.IsNaN(lengthPerPixel) {
		return Line{}, fmt.Errorf("length per pixel must be positive, got %v", lengthPerPixel)
	}

	rows, cols := img.Dims()
	seg := shape.LineClip(angle, length/lengthPerPixel)
	// clamped here as well so that coordinates start at the sampled endpoint
	seg = sampling.ClampSegment(seg, rows, cols)
	dist := sampling.Sample(img, seg, useWu)
	if dist.Len() == 0 {
		return Line{}, errors.Wrapf(models.ErrEmptyRegion, "no sample along %v degrees", angle)
	}

	// unit direction of the line; a degenerate segment has every sample at 0
	dr := float64(seg.End.Row - seg.Start.Row)
	dc := float64(seg.End.Col - seg.Start.Col)
	norm := math.Hypot(dr, dc)
	if norm > 0 {
		dr /= norm
		dc /= norm
	}

	coord := make([]float64, dist.Len())
	for i, p := range dist.Points {
		along := float64(p.Row-seg.Start.Row)*dr + float64(p.Col-seg.Start.Col)*dc
		coord[i] = along * lengthPerPixel
	}

	return Line{
		Coordinate: coord,
		Values:     dist.Values,
		Points:     dist.Points,
		Segment:    seg,
	}, nil
}

// RadialSweep samples shape at every angle and resamples each line onto the
// coordinate basis of the 0 degree line. Column j of the returned matrix
// holds angles[j]. When length <= 0 the smallest dimension of shape is used.
// Angles are sampled concurrently; any failing angle fails the sweep.
func RadialSweep(img mat.Matrix, shape roi.Shape, angles []float64, length, lengthPerPixel float64, useWu bool) ([]float64, *mat.Dense, error) {
	if len(angles) == 0 {
		return nil, nil, fmt.Errorf("radial sweep needs at least one angle")
	}
	if length <= 0 {
		dims := shape.Dimensions()
		smallest := dims[0]
		for _, d := range dims[1:] {
			smallest = min(smallest, d)
		}
		length = float64(smallest) * lengthPerPixel
	}

	base, err := SampleAlongAngle(img, shape, 0, length, lengthPerPixel, useWu)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sampling the 0 degree basis")
	}
	basis := base.Coordinate

	out := mat.NewDense(len(basis), len(angles), nil)
	errs := make([]error, len(angles))

	var wg sync.WaitGroup
	for j, angle := range angles {
		wg.Add(1)
		go func(col int, angle float64) {
			defer wg.Done()

			line, err := SampleAlongAngle(img, shape, angle, length, lengthPerPixel, useWu)
			if err != nil {
				errs[col] = err
				return
			}
			column, err := interpolation.OntoBasis(line.Coordinate, line.Values, basis)
			if err != nil {
				errs[col] = errors.Wrapf(err, "angle %v", angle)
				return
			}
			// each task owns its column
			for i, v := range column {
				out.Set(i, col, v)
			}
		}(j, angle)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return basis, out, nil
}

// Angles returns 0, step, 2*step, ... below 360 degrees
func Angles(step float64) ([]float64, error) {
	if step <= 0 || step > 360 || math.IsNaN(step) {
		return nil, fmt.Errorf("angle step must be in (0, 360], got %v", step)
	}
	n := int(math.Ceil(360/step - 1e-9))
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = float64(i) * step
	}
	return angles, nil
}
