package segmentation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"thermalroi/internal/models"
)

// maskFrom builds a mask from rows of '#' (set) and '.' (unset)
func maskFrom(rows ...string) *models.Mask {
	m := models.NewMask(len(rows), len(rows[0]))
	for r, line := range rows {
		for c, ch := range line {
			m.Set(r, c, ch == '#')
		}
	}
	return m
}

func TestThreshold(t *testing.T) {
	norm := mat.NewDense(2, 3, []float64{
		0.0, 0.2, 0.9,
		1.0, 0.4, 0.7,
	})

	hot, err := Threshold(norm, 0.5, false)
	require.NoError(t, err)
	want := maskFrom("..#", "#.#")
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			assert.Equal(t, want.At(r, c), hot.At(r, c), "hot (%d,%d)", r, c)
		}
	}

	cold, err := Threshold(norm, 0.5, true)
	require.NoError(t, err)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			assert.Equal(t, !want.At(r, c), cold.At(r, c), "cold (%d,%d)", r, c)
		}
	}

	_, err = Threshold(norm, 1.5, false)
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	mask := maskFrom(
		"##...#",
		"#....#",
		"...#..",
		"..#...",
		"......",
		"#....#",
	)
	labels := Label(mask)

	want := []int{
		1, 1, 0, 0, 0, 2,
		1, 0, 0, 0, 0, 2,
		0, 0, 0, 3, 0, 0,
		0, 0, 3, 0, 0, 0,
		0, 0, 0, 0, 0, 0,
		4, 0, 0, 0, 0, 5,
	}
	if diff := cmp.Diff(want, labels.Data); diff != "" {
		t.Errorf("Label() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, labels.Max())
}

func TestLabelDiagonalChain(t *testing.T) {
	// a diagonal is one component under 8-connectivity
	labels := Label(maskFrom(
		"#...",
		".#..",
		"..#.",
		"...#",
	))
	assert.Equal(t, 1, labels.Max())
	assert.Equal(t, []int{0, 4}, labels.Areas())
}

func TestFilterSmall(t *testing.T) {
	labels := Label(maskFrom(
		"##..#",
		"##...",
		".....",
		"..###",
	))
	require.Equal(t, 3, labels.Max())

	filtered := FilterSmall(labels, 2)
	assert.Equal(t, 2, filtered.Max())
	assert.Equal(t, 1, filtered.At(0, 0))
	assert.Equal(t, 0, filtered.At(0, 4))
	assert.Equal(t, 2, filtered.At(3, 2))

	assert.Equal(t, labels.Data, FilterSmall(labels, 0).Data)
	assert.Equal(t, 0, FilterSmall(labels, 10).Max())
}

func TestDetect(t *testing.T) {
	norm := mat.NewDense(5, 5, []float64{
		1, 1, 0, 0, 0,
		1, 1, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 1,
		0, 0, 0, 1, 1,
	})

	labels, err := Detect(norm, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, labels.Max())
	assert.Equal(t, []int{0, 4, 3}, labels.Areas()[:3])

	opts := DefaultOptions()
	opts.MinArea = 4
	labels, err = Detect(norm, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, labels.Max())

	// the background is the only cold pattern
	opts = DefaultOptions()
	opts.Cold = true
	labels, err = Detect(norm, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, labels.Max())
	assert.Equal(t, 18, labels.Areas()[1])
}
