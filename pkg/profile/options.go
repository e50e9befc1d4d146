package profile

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"thermalroi/pkg/roi"
)

// Options configures the profile of one ROI
type Options struct {
	// AngleStep is the spacing in degrees of the radial sweep lines
	AngleStep float64

	// Length is the physical length of each line; <= 0 uses the smallest
	// dimension of the ROI
	Length float64

	// LengthPerPixel converts pixels to physical units
	LengthPerPixel float64

	// UseWu selects anti-aliased averaging instead of Bresenham sampling
	UseWu bool

	// UseStudent widens the bounds by the Student's t quantile
	UseStudent bool

	// Probability is the confidence level of the Student bounds
	Probability float64

	// MinLength and MaxLength window the radial coordinates; see
	// AggregateStatistics
	MinLength float64
	MaxLength float64
}

// DefaultOptions samples every 15 degrees over the whole ROI in pixel units
func DefaultOptions() Options {
	return Options{
		AngleStep:      15,
		LengthPerPixel: 1,
		UseStudent:     true,
		Probability:    ConfidenceLevel,
		MinLength:      -1,
		MaxLength:      -1,
	}
}

// Profile is the radial and angular reduction of a sweep
type Profile struct {
	Angles  []float64
	Radial  Statistics
	Angular Statistics
}

// Compute sweeps shape with opts and reduces the samples both ways. The
// length window only applies to the radial statistics.
func Compute(img mat.Matrix, shape roi.Shape, opts Options) (Profile, error) {
	angles, err := Angles(opts.AngleStep)
	if err != nil {
		return Profile{}, err
	}
	basis, values, err := RadialSweep(img, shape, angles, opts.Length, opts.LengthPerPixel, opts.UseWu)
	if err != nil {
		return Profile{}, err
	}

	radial, err := Aggregate(basis, values, opts.UseStudent, opts.Probability, opts.MinLength, opts.MaxLength)
	if err != nil {
		return Profile{}, errors.Wrap(err, "radial statistics")
	}
	angular, err := Aggregate(angles, values.T(), opts.UseStudent, opts.Probability, -1, -1)
	if err != nil {
		return Profile{}, errors.Wrap(err, "angular statistics")
	}
	return Profile{Angles: angles, Radial: radial, Angular: angular}, nil
}
