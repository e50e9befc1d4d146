package roi

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermalroi/internal/models"
)

// testShapes returns one shape of each kind, centred away from the origin
func testShapes(t *testing.T) []Shape {
	t.Helper()
	c, err := NewCircle(models.Point{Row: 10, Col: 12}, 7)
	require.NoError(t, err)
	s, err := NewSquare(models.Point{Row: 9, Col: 9}, 6)
	require.NoError(t, err)
	r, err := NewRectangle(models.Point{Row: 15, Col: 11}, 5, 9)
	require.NoError(t, err)
	return []Shape{c, s, r}
}

func TestCenterIsContained(t *testing.T) {
	for _, s := range testShapes(t) {
		assert.True(t, s.Contains(s.Center()), "%s should contain its centre", s.Kind())
	}

	// the smallest shapes still contain their centre
	for _, kind := range []Kind{KindCircle, KindSquare, KindRectangle} {
		s, err := New(kind)
		require.NoError(t, err)
		assert.True(t, s.Contains(models.Point{}), "unit %s should contain its centre", kind)
	}
}

func TestMembershipBoundary(t *testing.T) {
	c, err := NewCircle(models.Point{Row: 5, Col: 5}, 4)
	require.NoError(t, err)
	// exactly one radius away is outside a circle
	assert.False(t, c.Contains(models.Point{Row: 5, Col: 7}))
	assert.True(t, c.Contains(models.Point{Row: 6, Col: 6}))

	s, err := NewSquare(models.Point{Row: 5, Col: 5}, 4)
	require.NoError(t, err)
	// the boundary belongs to squares
	assert.True(t, s.Contains(models.Point{Row: 7, Col: 7}))
	assert.False(t, s.Contains(models.Point{Row: 8, Col: 5}))

	r, err := NewRectangle(models.Point{Row: 5, Col: 5}, 2, 6)
	require.NoError(t, err)
	assert.True(t, r.Contains(models.Point{Row: 6, Col: 8}))
	assert.False(t, r.Contains(models.Point{Row: 7, Col: 5}))
	assert.False(t, r.Contains(models.Point{Row: 5, Col: 9}))
}

func TestArea(t *testing.T) {
	c, _ := NewCircle(models.Point{}, 4)
	s, _ := NewSquare(models.Point{}, 4)
	r, _ := NewRectangle(models.Point{}, 3, 5)

	assert.InDelta(t, 4*math.Pi, c.Area(), 1e-12)
	assert.Equal(t, 16.0, s.Area())
	assert.Equal(t, 15.0, r.Area())
}

func TestParamCount(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindCircle, 3},
		{KindSquare, 3},
		{KindRectangle, 4},
	}
	for _, tt := range tests {
		n, err := ParamCount(tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n, tt.kind.String())
	}

	_, err := ParamCount(Kind(42))
	assert.True(t, errors.Is(err, models.ErrUnsupportedShape))
}

func TestVectorRoundTrip(t *testing.T) {
	for _, s := range testShapes(t) {
		t.Run(s.Kind().String(), func(t *testing.T) {
			back, err := FromVector(s.Kind(), s.Vector())
			require.NoError(t, err)
			if diff := cmp.Diff(s.Vector(), back.Vector()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, s.Center(), back.Center())
			assert.Equal(t, s.Dimensions(), back.Dimensions())
		})
	}
}

func TestFromVectorFloorsParameters(t *testing.T) {
	s, err := FromVector(KindRectangle, []float64{-1.5, 3.7, -4.2, 6.9})
	require.NoError(t, err)

	assert.Equal(t, models.Point{Row: -2, Col: 3}, s.Center())
	assert.Equal(t, []int{4, 6}, s.Dimensions())
}

func TestFromVectorRejectsBadInput(t *testing.T) {
	_, err := FromVector(KindCircle, []float64{1, 2})
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))

	_, err = FromVector(KindRectangle, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))

	_, err = FromVector(KindSquare, []float64{1, math.NaN(), 3})
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))

	_, err = FromVector(Kind(-1), []float64{1, 2, 3})
	assert.True(t, errors.Is(err, models.ErrUnsupportedShape))
}

func TestConstructorsRejectNonPositiveSizes(t *testing.T) {
	_, err := NewCircle(models.Point{}, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))
	_, err = NewSquare(models.Point{}, -3)
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))
	_, err = NewRectangle(models.Point{}, 4, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Rectangle ")
	require.NoError(t, err)
	assert.Equal(t, KindRectangle, k)

	_, err = ParseKind("hexagon")
	assert.True(t, errors.Is(err, models.ErrUnsupportedShape))
}

func TestStartingGuess(t *testing.T) {
	mask := models.NewMask(10, 10)
	mask.Set(2, 3, true)
	mask.Set(4, 4, true)
	mask.Set(6, 7, true)

	v, err := StartingGuess(mask, KindRectangle)
	require.NoError(t, err)
	require.Len(t, v, 4)

	assert.Equal(t, 4.0, v[0])
	assert.Equal(t, 5.0, v[1])
	assert.InDelta(t, math.Sqrt(32), v[2], 1e-12)
	assert.Equal(t, v[2], v[3])

	v, err = StartingGuess(mask, KindCircle)
	require.NoError(t, err)
	assert.Len(t, v, 3)

	_, err = StartingGuess(models.NewMask(4, 4), KindSquare)
	assert.True(t, errors.Is(err, models.ErrEmptyRegion))
}

func TestScaleAndDiv(t *testing.T) {
	r, err := NewRectangle(models.Point{Row: 3, Col: 4}, 5, 7)
	require.NoError(t, err)

	scaled := Scale(r, 1.5)
	assert.Equal(t, []int{7, 10}, scaled.Dimensions())
	assert.Equal(t, r.Center(), scaled.Center())
	// the original is untouched
	assert.Equal(t, []int{5, 7}, r.Dimensions())

	neg := Scale(r, -2)
	assert.Equal(t, []int{10, 14}, neg.Dimensions())

	divided, err := Div(r, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, divided.Dimensions())

	_, err = Div(r, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidGeometry))
}

func TestShiftAndClone(t *testing.T) {
	c, err := NewCircle(models.Point{Row: 1, Col: 1}, 3)
	require.NoError(t, err)

	cp := c.Clone()
	cp.Shift(2, -1)
	require.NoError(t, cp.SetVector([]float64{3, 0, 9}))

	assert.Equal(t, models.Point{Row: 1, Col: 1}, c.Center())
	assert.Equal(t, []int{3}, c.Dimensions())
	assert.Equal(t, []int{9}, cp.Dimensions())
}

func TestLineClipStaysInside(t *testing.T) {
	for _, s := range testShapes(t) {
		for angle := 0.0; angle < 360; angle += 15 {
			for _, length := range []float64{3, 100} {
				name := fmt.Sprintf("%s/%v/%v", s.Kind(), angle, length)
				seg := s.LineClip(angle, length)
				for _, p := range []models.Point{seg.Start, seg.End} {
					assert.True(t, s.Contains(p), "%s: endpoint %v outside", name, p)
				}
				assert.LessOrEqual(t, seg.Length(), length+1e-9, name)
			}
		}
	}
}

func TestLineClipDirections(t *testing.T) {
	s, err := NewSquare(models.Point{Row: 10, Col: 10}, 8)
	require.NoError(t, err)

	seg := s.LineClip(0, 100)
	assert.Equal(t, models.Segment{Start: models.Point{Row: 10, Col: 6}, End: models.Point{Row: 10, Col: 14}}, seg)

	seg = s.LineClip(90, 100)
	assert.Equal(t, models.Segment{Start: models.Point{Row: 6, Col: 10}, End: models.Point{Row: 14, Col: 10}}, seg)

	// negative angles wrap around
	assert.Equal(t, s.LineClip(270, 100), s.LineClip(-90, 100))

	r, err := NewRectangle(models.Point{Row: 10, Col: 10}, 4, 12)
	require.NoError(t, err)
	seg = r.LineClip(0, 100)
	assert.Equal(t, 12.0, seg.Length())
	seg = r.LineClip(90, 100)
	assert.Equal(t, 4.0, seg.Length())

	c, err := NewCircle(models.Point{Row: 10, Col: 10}, 10)
	require.NoError(t, err)
	seg = c.LineClip(0, 4)
	assert.Equal(t, models.Segment{Start: models.Point{Row: 10, Col: 8}, End: models.Point{Row: 10, Col: 12}}, seg)
}

func TestCircleLineClipEndpointsInside(t *testing.T) {
	c, err := NewCircle(models.Point{Row: 10, Col: 10}, 10)
	require.NoError(t, err)

	for angle := 0.0; angle < 360; angle += 15 {
		seg := c.LineClip(angle, 100)
		assert.True(t, c.Contains(seg.Start), "%v: start %v outside", angle, seg.Start)
		assert.True(t, c.Contains(seg.End), "%v: end %v outside", angle, seg.End)
	}

	// cardinal directions stop one pixel short of the boundary
	seg := c.LineClip(0, 100)
	assert.Equal(t, models.Segment{Start: models.Point{Row: 10, Col: 6}, End: models.Point{Row: 10, Col: 14}}, seg)
	seg = c.LineClip(270, 100)
	assert.Equal(t, models.Segment{Start: models.Point{Row: 14, Col: 10}, End: models.Point{Row: 6, Col: 10}}, seg)
}

func TestRasterize(t *testing.T) {
	c, err := NewCircle(models.Point{Row: 5, Col: 5}, 4)
	require.NoError(t, err)

	mask := Rasterize(c, 10, 10)
	assert.Equal(t, 9, mask.Count())
	b, ok := mask.Bounds()
	require.True(t, ok)
	assert.Equal(t, models.Rect{Min: models.Point{Row: 4, Col: 4}, Max: models.Point{Row: 6, Col: 6}}, b)

	// shapes partly off the grid are clipped
	s, err := NewSquare(models.Point{Row: 0, Col: 0}, 4)
	require.NoError(t, err)
	assert.Equal(t, 9, Rasterize(s, 10, 10).Count())

	d := s.Drawable()
	assert.Equal(t, KindSquare, d.Kind)
	assert.Equal(t, 2.0, d.HalfWidth)
}
