// Package fitting adjusts ROI geometry to binary patterns. A candidate shape
// is rasterized and compared with the target pattern through Discrepancy; a
// derivative-free optimizer searches the shape parameters that minimise it.
package fitting

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"thermalroi/internal/models"
	"thermalroi/pkg/roi"
)

// Discrepancy measures the disagreement between two masks of the same size.
// Cells are mapped to +1 (set) and -1 (unset) and the absolute differences
// are summed over 2N cells, so equal masks score 0 and complementary masks
// score 1.
func Discrepancy(a, b *models.Mask) (float64, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return 0, errors.Wrapf(models.ErrShapeMismatch, "masks are %dx%d and %dx%d", ar, ac, br, bc)
	}
	n := ar * ac
	if n == 0 {
		return 0, nil
	}

	total := 0.0
	for r := 0; r < ar; r++ {
		for c := 0; c < ac; c++ {
			total += math.Abs(spin(a.At(r, c)) - spin(b.At(r, c)))
		}
	}
	return total / float64(2*n), nil
}

func spin(v bool) float64 {
	if v {
		return 1
	}
	return -1
}

// FitResult is a fitted shape with the discrepancy it reached
type FitResult struct {
	Shape       roi.Shape
	Discrepancy float64
	Diagnostics Diagnostics
}

// Fit adjusts shape in place so that its rasterization matches target. When
// start is nil the optimizer starts from roi.StartingGuess(target). The
// search scale follows the starting size.
func Fit(shape roi.Shape, target *models.Mask, opt Optimizer, start []float64) (FitResult, error) {
	kind := shape.Kind()
	n, err := roi.ParamCount(kind)
	if err != nil {
		return FitResult{}, err
	}
	if start == nil {
		start, err = roi.StartingGuess(target, kind)
		if err != nil {
			return FitResult{}, err
		}
	}
	if len(start) != n {
		return FitResult{}, errors.Wrapf(models.ErrInvalidGeometry, "%s starting vector has %d parameters, expected %d", kind, len(start), n)
	}

	rows, cols := target.Dims()
	objective := func(x []float64) float64 {
		candidate, err := roi.FromVector(kind, x)
		if err != nil {
			return 1
		}
		d, err := Discrepancy(target, roi.Rasterize(candidate, rows, cols))
		if err != nil {
			return 1
		}
		return d
	}

	res, err := opt.Minimize(objective, start, searchSteps(start))
	if err != nil {
		return FitResult{}, err
	}
	if err := shape.SetVector(res.X); err != nil {
		return FitResult{}, errors.Wrapf(models.ErrOptimizerFailure, "unusable result vector: %v", err)
	}

	// res.F was measured on the same floored parameters that were stored
	return FitResult{Shape: shape, Discrepancy: res.F, Diagnostics: res.Diagnostics}, nil
}

// searchSteps scales the initial search to the starting size: a quarter of
// it for the centre and half of it for every size, never below one pixel.
func searchSteps(start []float64) []float64 {
	size := 1.0
	for _, d := range start[2:] {
		size = math.Max(size, math.Abs(d))
	}
	step := make([]float64, len(start))
	for i := range step {
		if i < 2 {
			step[i] = math.Max(1, size/4)
		} else {
			step[i] = math.Max(1, size/2)
		}
	}
	return step
}

// FitAll fits one fresh shape of the given kind to every pattern of markers.
// The pattern count is the largest label, capped at opts.MaxPatterns. Fits
// run concurrently; results are ordered by label and the first failing label
// fails the whole batch.
func FitAll(img mat.Matrix, markers *models.Labels, kind roi.Kind, opt Optimizer, opts Options) ([]FitResult, error) {
	rows, cols := img.Dims()
	if rows != markers.Rows || cols != markers.Cols {
		return nil, errors.Wrapf(models.ErrShapeMismatch, "markers are %dx%d, image is %dx%d", markers.Rows, markers.Cols, rows, cols)
	}
	if _, err := roi.ParamCount(kind); err != nil {
		return nil, err
	}

	count := markers.Max()
	if opts.MaxPatterns > 0 && count > opts.MaxPatterns {
		count = opts.MaxPatterns
	}
	if count == 0 {
		return nil, nil
	}

	workers := opts.Workers
	if workers <= 0 || workers > count {
		workers = count
	}

	type fitOutcome struct {
		index  int
		result FitResult
		err    error
	}
	jobs := make(chan int)
	outcomes := make(chan fitOutcome)

	for w := 0; w < workers; w++ {
		go func() {
			for idx := range jobs {
				label := idx + 1
				out := fitOutcome{index: idx}
				shape, err := roi.New(kind)
				if err == nil {
					out.result, err = Fit(shape, markers.Equal(label), opt, nil)
				}
				if err != nil {
					out.err = errors.Wrapf(err, "pattern %d", label)
				}
				outcomes <- out
			}
		}()
	}

	go func() {
		for idx := 0; idx < count; idx++ {
			jobs <- idx
		}
		close(jobs)
	}()

	results := make([]FitResult, count)
	errs := make([]error, count)
	for completed := 0; completed < count; completed++ {
		out := <-outcomes
		results[out.index] = out.result
		errs[out.index] = out.err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
