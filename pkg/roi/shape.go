// Package roi implements the parametric regions of interest fitted to hot and
// cold patterns of a thermal image: circles, squares and rectangles described
// by an integer centre and one or two integer sizes.
//
// Every shape exposes the same capabilities (membership, area, parameter
// vector conversion, line clipping along an angle and a drawable
// description), so the fitting engine and the radial sampler can work on any
// of them through the Shape interface.
package roi

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"thermalroi/internal/models"
)

// Kind identifies a shape variant
type Kind int

const (
	KindCircle Kind = iota
	KindSquare
	KindRectangle
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSquare:
		return "square"
	case KindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// ParseKind converts a configuration name into a Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return KindCircle, nil
	case "square":
		return KindSquare, nil
	case "rectangle", "rect":
		return KindRectangle, nil
	}
	return 0, errors.Wrapf(models.ErrUnsupportedShape, "unknown shape name %q", name)
}

// Shape is a region of interest. Implementations are mutable values owned by
// a single caller; use Clone before handing one to another goroutine.
type Shape interface {
	// Kind returns the variant of the shape
	Kind() Kind

	// Center returns the integer centre pixel
	Center() models.Point

	// Dimensions returns a copy of the sizes: the diameter of a circle, the
	// side of a square, or the height and width of a rectangle
	Dimensions() []int

	// Contains reports whether p lies inside the shape
	Contains(p models.Point) bool

	// Area returns the geometric area in square pixels
	Area() float64

	// Vector returns the parameters as [row, col, dim1, (dim2)]
	Vector() []float64

	// SetVector overwrites the parameters from a vector laid out like Vector.
	// Centre components are floored and sizes are floored after taking the
	// absolute value.
	SetVector(v []float64) error

	// LineClip returns the segment through the centre at angle degrees whose
	// endpoints stay inside the shape and whose length does not exceed length
	LineClip(angle, length float64) models.Segment

	// Bounds returns the inclusive pixel rectangle enclosing the shape
	Bounds() models.Rect

	// Drawable describes the shape boundary for renderers
	Drawable() Drawable

	// Shift moves the centre by (dr, dc)
	Shift(dr, dc int)

	// Clone returns an independent deep copy
	Clone() Shape
}

// Drawable is the boundary description handed to renderers.
type Drawable struct {
	Kind   Kind
	Center models.Point
	Bounds models.Rect

	// Radius is set for circles; HalfHeight and HalfWidth for squares and
	// rectangles.
	Radius     float64
	HalfHeight float64
	HalfWidth  float64
}

// centred holds the state shared by every shape
type centred struct {
	center models.Point
	dims   []int
}

func (c *centred) Center() models.Point { return c.center }

func (c *centred) Dimensions() []int {
	return append([]int(nil), c.dims...)
}

func (c *centred) Shift(dr, dc int) {
	c.center.Row += dr
	c.center.Col += dc
}

func (c *centred) vector() []float64 {
	v := make([]float64, 0, 2+len(c.dims))
	v = append(v, float64(c.center.Row), float64(c.center.Col))
	for _, d := range c.dims {
		v = append(v, float64(d))
	}
	return v
}

func (c *centred) setVector(v []float64, kind Kind) error {
	if len(v) != 2+len(c.dims) {
		return errors.Wrapf(models.ErrInvalidGeometry, "%s expects %d parameters, got %d", kind, 2+len(c.dims), len(v))
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Wrapf(models.ErrInvalidGeometry, "%s parameter %d is not finite", kind, i)
		}
	}
	c.center = models.Point{Row: int(math.Floor(v[0])), Col: int(math.Floor(v[1]))}
	for i := range c.dims {
		c.dims[i] = floorAbs(v[2+i])
	}
	return nil
}

func (c *centred) clone() centred {
	return centred{center: c.center, dims: append([]int(nil), c.dims...)}
}

func floorAbs(x float64) int {
	return int(math.Floor(math.Abs(x)))
}

func checkDims(kind Kind, dims ...int) error {
	for _, d := range dims {
		if d <= 0 {
			return errors.Wrapf(models.ErrInvalidGeometry, "%s size must be positive, got %v", kind, dims)
		}
	}
	return nil
}

// New creates an empty shape of the given kind: centre (0, 0) and unit sizes
func New(kind Kind) (Shape, error) {
	switch kind {
	case KindCircle:
		return &Circle{centred{dims: []int{1}}}, nil
	case KindSquare:
		return &Square{centred{dims: []int{1}}}, nil
	case KindRectangle:
		return &Rectangle{centred{dims: []int{1, 1}}}, nil
	}
	return nil, errors.Wrapf(models.ErrUnsupportedShape, "cannot create kind %d", int(kind))
}

// ParamCount returns the length of the parameter vector of a kind
func ParamCount(kind Kind) (int, error) {
	switch kind {
	case KindCircle, KindSquare:
		return 3, nil
	case KindRectangle:
		return 4, nil
	}
	return 0, errors.Wrapf(models.ErrUnsupportedShape, "no parameter layout for kind %d", int(kind))
}

// FromVector builds a shape of the given kind from a parameter vector
func FromVector(kind Kind, v []float64) (Shape, error) {
	s, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := s.SetVector(v); err != nil {
		return nil, err
	}
	return s, nil
}

// StartingGuess derives an initial parameter vector from a binary pattern.
// The first and last set cells in raster order give the centre (their
// midpoint) and every size (their Euclidean distance).
func StartingGuess(mask *models.Mask, kind Kind) ([]float64, error) {
	n, err := ParamCount(kind)
	if err != nil {
		return nil, err
	}
	first, last, ok := mask.FirstLast()
	if !ok {
		return nil, errors.Wrap(models.ErrEmptyRegion, "starting guess on an empty mask")
	}

	size := first.Distance(last)
	v := make([]float64, n)
	v[0] = float64(first.Row+last.Row) / 2
	v[1] = float64(first.Col+last.Col) / 2
	for i := 2; i < n; i++ {
		v[i] = size
	}
	return v, nil
}

// Rasterize returns the rows x cols mask of the pixels inside s
func Rasterize(s Shape, rows, cols int) *models.Mask {
	mask := models.NewMask(rows, cols)
	b, ok := s.Bounds().Intersect(rows, cols)
	if !ok {
		return mask
	}
	for r := b.Min.Row; r <= b.Max.Row; r++ {
		for c := b.Min.Col; c <= b.Max.Col; c++ {
			if s.Contains(models.Point{Row: r, Col: c}) {
				mask.Set(r, c, true)
			}
		}
	}
	return mask
}

// Scale returns a copy of s with every size multiplied by factor, floored
// after taking the absolute value. The centre is unchanged.
func Scale(s Shape, factor float64) Shape {
	out := s.Clone()
	v := out.Vector()
	for i := 2; i < len(v); i++ {
		v[i] *= factor
	}
	// the layout comes from Vector, so SetVector cannot reject it
	_ = out.SetVector(v)
	return out
}

// Div returns a copy of s with every size divided by divisor
func Div(s Shape, divisor float64) (Shape, error) {
	if divisor == 0 || math.IsNaN(divisor) {
		return nil, errors.Wrapf(models.ErrInvalidGeometry, "cannot divide %s by %v", s.Kind(), divisor)
	}
	return Scale(s, 1/divisor), nil
}

// clip truncates the offsets of a half-segment of length half at angle
// theta (radians) and returns the segment through center.
func clip(center models.Point, theta, half float64) models.Segment {
	dr := int(math.Trunc(half * math.Sin(theta)))
	dc := int(math.Trunc(half * math.Cos(theta)))
	return models.Segment{
		Start: models.Point{Row: center.Row - dr, Col: center.Col - dc},
		End:   models.Point{Row: center.Row + dr, Col: center.Col + dc},
	}
}

// normalizeAngle maps degrees into [0, 360)
func normalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// boxHalfLength returns the distance from the centre of a box with the given
// half sizes to its boundary along angle degrees. Angles within phi of the
// horizontal axis hit the left or right side, the rest hit the top or bottom.
func boxHalfLength(angle, halfHeight, halfWidth float64) float64 {
	if halfHeight <= 0 || halfWidth <= 0 {
		return 0
	}
	theta := angle * math.Pi / 180
	phi := math.Atan2(halfHeight, halfWidth) * 180 / math.Pi
	switch {
	case angle <= phi, angle >= 360-phi, angle >= 180-phi && angle <= 180+phi:
		return halfWidth / math.Abs(math.Cos(theta))
	default:
		return halfHeight / math.Abs(math.Sin(theta))
	}
}
