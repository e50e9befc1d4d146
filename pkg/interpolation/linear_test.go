package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLinearInterior verifies values between samples lie on the segments
func TestLinearInterior(t *testing.T) {
	l, err := NewLinear([]float64{0, 1, 3}, []float64{0, 2, 6})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, l.Predict(0.5), 1e-12)
	assert.InDelta(t, 4.0, l.Predict(2), 1e-12)
	assert.InDelta(t, 6.0, l.Predict(3), 1e-12)
}

// TestLinearExtrapolation verifies both edges continue with their end slopes
func TestLinearExtrapolation(t *testing.T) {
	l, err := NewLinear([]float64{0, 1, 2, 4}, []float64{1, 3, 4, 4})
	require.NoError(t, err)

	assert.InDelta(t, -3.0, l.Predict(-2), 1e-12)
	assert.InDelta(t, 4.0, l.Predict(10), 1e-12)

	l, err = NewLinear([]float64{0, 2}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, l.Predict(4), 1e-12)
}

// TestLinearUnsortedAndDuplicates verifies samples are sorted and duplicate
// coordinates collapse onto their first value
func TestLinearUnsortedAndDuplicates(t *testing.T) {
	l, err := NewLinear([]float64{2, 0, 1, 1}, []float64{4, 0, 2, 100})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2}, l.xs)
	assert.Equal(t, []float64{0, 2, 4}, l.ys)
	assert.InDelta(t, 3.0, l.Predict(1.5), 1e-12)
}

func TestLinearSingleSample(t *testing.T) {
	l, err := NewLinear([]float64{3}, []float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, l.Predict(-10))
	assert.Equal(t, 7.0, l.Predict(10))
}

func TestLinearErrors(t *testing.T) {
	_, err := NewLinear(nil, nil)
	assert.Error(t, err)

	_, err = NewLinear([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestOntoBasis(t *testing.T) {
	basis := []float64{0, 1, 2, 3}
	got, err := OntoBasis([]float64{0.5, 2.5}, []float64{1, 3}, basis)
	require.NoError(t, err)

	want := []float64{0.5, 1.5, 2.5, 3.5}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}

	// a basis equal to the samples reproduces them
	got, err = OntoBasis(basis, []float64{5, 1, 4, 2}, basis)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, 4, 2}, got)
}
