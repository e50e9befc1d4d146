// Package interpolation resamples sampled profiles onto a common coordinate
// basis using piecewise linear interpolation, extended linearly beyond the
// sampled domain.
package interpolation

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Linear is a piecewise linear function through a set of samples that
// extrapolates with the slope of its first and last segments.
type Linear struct {
	xs []float64
	ys []float64
	pl interp.PiecewiseLinear
}

// NewLinear fits a linear interpolator to the samples (xs[i], ys[i]).
// Samples need not be sorted; when several share an x the first one wins.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interpolation: %d coordinates but %d values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("interpolation: no samples")
	}

	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	l := &Linear{
		xs: make([]float64, 0, len(xs)),
		ys: make([]float64, 0, len(ys)),
	}
	for _, i := range idx {
		if n := len(l.xs); n > 0 && l.xs[n-1] == xs[i] {
			continue
		}
		l.xs = append(l.xs, xs[i])
		l.ys = append(l.ys, ys[i])
	}

	if len(l.xs) >= 2 {
		if err := l.pl.Fit(l.xs, l.ys); err != nil {
			return nil, fmt.Errorf("interpolation: %w", err)
		}
	}
	return l, nil
}

// Predict evaluates the interpolator at x
func (l *Linear) Predict(x float64) float64 {
	n := len(l.xs)
	switch {
	case n == 1:
		return l.ys[0]
	case x < l.xs[0]:
		return extrapolate(l.xs[0], l.ys[0], l.xs[1], l.ys[1], x)
	case x > l.xs[n-1]:
		return extrapolate(l.xs[n-2], l.ys[n-2], l.xs[n-1], l.ys[n-1], x)
	}
	return l.pl.Predict(x)
}

// Resample evaluates the interpolator at every coordinate of basis
func (l *Linear) Resample(basis []float64) []float64 {
	out := make([]float64, len(basis))
	for i, x := range basis {
		out[i] = l.Predict(x)
	}
	return out
}

// OntoBasis interpolates the samples (xs, ys) at every coordinate of basis
func OntoBasis(xs, ys, basis []float64) ([]float64, error) {
	l, err := NewLinear(xs, ys)
	if err != nil {
		return nil, err
	}
	return l.Resample(basis), nil
}

func extrapolate(x0, y0, x1, y1, x float64) float64 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}
