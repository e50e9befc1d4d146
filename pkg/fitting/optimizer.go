package fitting

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"thermalroi/internal/models"
)

// Objective is a scalar function of a parameter vector. It is not
// differentiable: membership tests make it piecewise constant.
type Objective func(x []float64) float64

// Result is the outcome of a minimization
type Result struct {
	// X is the best parameter vector found
	X []float64

	// F is the objective value at X
	F float64

	// Diagnostics carries optimizer specific details
	Diagnostics Diagnostics
}

// Diagnostics describes how a minimization ran
type Diagnostics struct {
	Status          string
	Restarts        int
	Iterations      int
	FuncEvaluations int
	Runtime         time.Duration
}

// Optimizer minimizes an objective without derivatives. step gives the
// initial search scale of every parameter; nil lets the optimizer choose.
type Optimizer interface {
	Minimize(f Objective, x0, step []float64) (Result, error)
}

// Options configures the fitting engine
type Options struct {
	// MaxIterations bounds the number of optimizer iterations per simplex run
	MaxIterations int

	// MaxEvaluations bounds the number of objective evaluations per fit
	MaxEvaluations int

	// SimplexSize is the edge length in pixels of the initial simplex when
	// no step is given
	SimplexSize float64

	// Tolerance is the objective change below which a fit is considered
	// converged
	Tolerance float64

	// Restarts bounds how many times the simplex is rebuilt around the best
	// point after a run that improved it
	Restarts int

	// MaxPatterns caps the number of patterns fitted by FitAll (0 = no cap)
	MaxPatterns int

	// Workers bounds the number of concurrent fits (0 = one per pattern)
	Workers int
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		MaxIterations:  500,
		MaxEvaluations: 5000,
		SimplexSize:    1.0,
		Tolerance:      1e-9,
		Restarts:       3,
		MaxPatterns:    10,
	}
}

// NelderMead minimizes with gonum's downhill simplex method. Every fit is
// bracketed by a lattice search over integer offsets, since shape
// parameters are floored and the objective is constant on unit cells.
type NelderMead struct {
	opts Options
}

// NewNelderMead creates a Nelder-Mead optimizer bounded by opts
func NewNelderMead(opts Options) *NelderMead {
	return &NelderMead{opts: opts}
}

// Minimize searches the lattice around x0, then runs the simplex from the
// best point found, rebuilding it at the scale of step until a run no longer
// improves, and finishes with another lattice search. Hitting an iteration,
// evaluation or runtime limit still yields the best point found; any other
// failure is reported as ErrOptimizerFailure.
func (nm *NelderMead) Minimize(f Objective, x0, step []float64) (Result, error) {
	start := time.Now()
	if step == nil {
		size := nm.opts.SimplexSize
		if size <= 0 {
			size = 1
		}
		step = make([]float64, len(x0))
		for i := range step {
			step[i] = size
		}
	}
	if len(step) != len(x0) {
		return Result{}, errors.Wrapf(models.ErrOptimizerFailure, "%d steps for %d parameters", len(step), len(x0))
	}

	x := append([]float64(nil), x0...)
	fx := f(x)
	diag := Diagnostics{FuncEvaluations: 1, Status: optimize.FunctionEvaluationLimit.String()}

	var evals int
	x, fx, evals = latticeSearch(f, x, fx, step, nm.remaining(diag.FuncEvaluations))
	diag.FuncEvaluations += evals

	for run := 0; run <= nm.opts.Restarts; run++ {
		left := nm.remaining(diag.FuncEvaluations)
		if nm.opts.MaxEvaluations > 0 && left <= 2*(len(x)+1) {
			break
		}
		res, err := nm.simplex(f, x, step, left)
		if err != nil {
			return Result{}, err
		}
		diag.Status = res.Status.String()
		diag.Iterations += res.Stats.MajorIterations
		diag.FuncEvaluations += res.Stats.FuncEvaluations + len(x) + 1
		if run > 0 {
			diag.Restarts++
		}
		if !(res.F < fx) {
			break
		}
		x, fx = append([]float64(nil), res.X...), res.F
	}

	x, fx, evals = latticeSearch(f, x, fx, step, nm.remaining(diag.FuncEvaluations))
	diag.FuncEvaluations += evals
	diag.Runtime = time.Since(start)

	return Result{X: x, F: fx, Diagnostics: diag}, nil
}

// remaining returns the evaluations left after used; 0 means no limit
func (nm *NelderMead) remaining(used int) int {
	if nm.opts.MaxEvaluations <= 0 {
		return 0
	}
	if left := nm.opts.MaxEvaluations - used; left > 0 {
		return left
	}
	return -1
}

// simplex runs one gonum Nelder-Mead search from x0 whose initial simplex
// spans step along each axis
func (nm *NelderMead) simplex(f Objective, x0, step []float64, evals int) (*optimize.Result, error) {
	dim := len(x0)
	vertices := make([][]float64, dim+1)
	values := make([]float64, dim+1)
	for i := range vertices {
		v := append([]float64(nil), x0...)
		if i > 0 {
			v[i-1] += step[i-1]
		}
		vertices[i] = v
		values[i] = f(v)
	}

	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		MajorIterations: nm.opts.MaxIterations,
		FuncEvaluations: evals,
		Converger: &optimize.FunctionConverge{
			Absolute:   nm.opts.Tolerance,
			Iterations: 50,
		},
	}
	method := &optimize.NelderMead{
		InitialVertices: vertices,
		InitialValues:   values,
	}

	res, err := optimize.Minimize(problem, x0, settings, method)
	if res == nil {
		return nil, errors.Wrapf(models.ErrOptimizerFailure, "nelder-mead: %v", err)
	}
	if err != nil && !limitReached(res.Status) {
		return nil, errors.Wrapf(models.ErrOptimizerFailure, "nelder-mead stopped with %s: %v", res.Status, err)
	}
	if res.Status == optimize.Failure {
		return nil, errors.Wrap(models.ErrOptimizerFailure, "nelder-mead reported failure")
	}
	if len(res.X) != dim {
		return nil, errors.Wrapf(models.ErrOptimizerFailure, "result has %d parameters, expected %d", len(res.X), dim)
	}
	return res, nil
}

// latticeSearch is a compass search over integer offsets. From the smallest
// power of two (at least 2) covering the largest step it moves every
// parameter by +-s and +-2s, keeps strict improvements and halves s down to
// 1. budget bounds the evaluations (0 = no limit, negative = none left).
func latticeSearch(f Objective, x []float64, fx float64, step []float64, budget int) ([]float64, float64, int) {
	if budget < 0 {
		return x, fx, 0
	}
	largest := 0.0
	for _, s := range step {
		largest = math.Max(largest, math.Abs(s))
	}
	s := 2
	for float64(s) < largest {
		s *= 2
	}

	evals := 0
	y := make([]float64, len(x))
	for ; s >= 1; s /= 2 {
		for improved := true; improved; {
			improved = false
			for i := range x {
				for _, d := range [...]int{s, -s, 2 * s, -2 * s} {
					if budget > 0 && evals >= budget {
						return x, fx, evals
					}
					copy(y, x)
					y[i] += float64(d)
					fy := f(y)
					evals++
					if fy < fx {
						x, y = y, x
						fx = fy
						improved = true
					}
				}
			}
		}
	}
	return x, fx, evals
}

func limitReached(s optimize.Status) bool {
	switch s {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
		return true
	}
	return false
}
