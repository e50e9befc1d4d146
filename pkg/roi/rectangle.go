package roi

import (
	"math"

	"thermalroi/internal/models"
)

// Rectangle is an axis-aligned rectangle given by its centre, height (rows)
// and width (columns). Pixels on the boundary are inside.
type Rectangle struct {
	centred
}

// NewRectangle creates a rectangle with positive height and width
func NewRectangle(center models.Point, height, width int) (*Rectangle, error) {
	if err := checkDims(KindRectangle, height, width); err != nil {
		return nil, err
	}
	return &Rectangle{centred{center: center, dims: []int{height, width}}}, nil
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) halfHeight() float64 { return float64(r.dims[0]) / 2 }
func (r *Rectangle) halfWidth() float64  { return float64(r.dims[1]) / 2 }

func (r *Rectangle) Contains(p models.Point) bool {
	return math.Abs(float64(p.Row-r.center.Row)) <= r.halfHeight() &&
		math.Abs(float64(p.Col-r.center.Col)) <= r.halfWidth()
}

func (r *Rectangle) Area() float64 {
	return float64(r.dims[0]) * float64(r.dims[1])
}

func (r *Rectangle) Vector() []float64 { return r.vector() }

func (r *Rectangle) SetVector(v []float64) error { return r.setVector(v, KindRectangle) }

func (r *Rectangle) LineClip(angle, length float64) models.Segment {
	a := normalizeAngle(angle)
	half := math.Min(boxHalfLength(a, r.halfHeight(), r.halfWidth()), length/2)
	if half < 0 {
		half = 0
	}
	return clip(r.center, a*math.Pi/180, half)
}

func (r *Rectangle) Bounds() models.Rect {
	hh := int(math.Floor(r.halfHeight()))
	hw := int(math.Floor(r.halfWidth()))
	return models.Rect{
		Min: models.Point{Row: r.center.Row - hh, Col: r.center.Col - hw},
		Max: models.Point{Row: r.center.Row + hh, Col: r.center.Col + hw},
	}
}

func (r *Rectangle) Drawable() Drawable {
	return Drawable{
		Kind:       KindRectangle,
		Center:     r.center,
		Bounds:     r.Bounds(),
		HalfHeight: r.halfHeight(),
		HalfWidth:  r.halfWidth(),
	}
}

func (r *Rectangle) Clone() Shape { return &Rectangle{r.clone()} }
