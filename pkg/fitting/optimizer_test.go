package fitting

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/optimize"

	"thermalroi/internal/models"
)

func TestNelderMeadQuadratic(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-3)*(x[0]-3) + (x[1]+2)*(x[1]+2)
	}

	res, err := NewNelderMead(DefaultOptions()).Minimize(f, []float64{0, 0}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, res.F, 1e-9)
	assert.InDeltaSlice(t, []float64{3, -2}, res.X, 1e-6)
	assert.Greater(t, res.Diagnostics.FuncEvaluations, 1)
}

func TestNelderMeadFlooredObjective(t *testing.T) {
	// piecewise constant on unit cells, like a rasterized shape
	f := func(x []float64) float64 {
		return math.Abs(math.Floor(x[0])-7) + math.Abs(math.Floor(x[1])+5)
	}

	res, err := NewNelderMead(DefaultOptions()).Minimize(f, []float64{0.5, 0.5}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.F)
	assert.Equal(t, 7.0, math.Floor(res.X[0]))
	assert.Equal(t, -5.0, math.Floor(res.X[1]))
}

func TestNelderMeadEvaluationBudget(t *testing.T) {
	calls := 0
	f := func(x []float64) float64 {
		calls++
		return math.Abs(x[0]-100) + math.Abs(x[1]-100)
	}

	opts := DefaultOptions()
	opts.MaxEvaluations = 10
	res, err := NewNelderMead(opts).Minimize(f, []float64{0, 0}, nil)
	require.NoError(t, err)

	assert.Equal(t, calls, res.Diagnostics.FuncEvaluations)
	assert.LessOrEqual(t, calls, 10)
	assert.Less(t, res.F, 200.0)
	assert.Equal(t, optimize.FunctionEvaluationLimit.String(), res.Diagnostics.Status)
}

func TestNelderMeadRejectsStepLength(t *testing.T) {
	f := func(x []float64) float64 { return x[0] }
	_, err := NewNelderMead(DefaultOptions()).Minimize(f, []float64{0, 0}, []float64{1})
	assert.True(t, errors.Is(err, models.ErrOptimizerFailure))
}

func TestLatticeSearchKeepsStrictImprovements(t *testing.T) {
	// flat objective: nothing moves
	flat := func([]float64) float64 { return 1 }
	x, fx, evals := latticeSearch(flat, []float64{2, 3}, 1, []float64{1, 1}, 0)
	assert.Equal(t, []float64{2, 3}, x)
	assert.Equal(t, 1.0, fx)
	assert.Greater(t, evals, 0)

	// no budget left
	x, _, evals = latticeSearch(flat, []float64{2, 3}, 1, []float64{1, 1}, -1)
	assert.Equal(t, []float64{2, 3}, x)
	assert.Equal(t, 0, evals)
}
