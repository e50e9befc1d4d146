package roi

import (
	"math"

	"thermalroi/internal/models"
)

// Circle is a disc given by its centre and diameter. Pixels exactly one
// radius away are outside.
type Circle struct {
	centred
}

// NewCircle creates a circle with a positive diameter
func NewCircle(center models.Point, diameter int) (*Circle, error) {
	if err := checkDims(KindCircle, diameter); err != nil {
		return nil, err
	}
	return &Circle{centred{center: center, dims: []int{diameter}}}, nil
}

func (c *Circle) Kind() Kind { return KindCircle }

// Radius returns half the diameter
func (c *Circle) Radius() float64 { return float64(c.dims[0]) / 2 }

func (c *Circle) Contains(p models.Point) bool {
	return p.Distance(c.center) < c.Radius()
}

func (c *Circle) Area() float64 {
	r := c.Radius()
	return math.Pi * r * r
}

func (c *Circle) Vector() []float64 { return c.vector() }

func (c *Circle) SetVector(v []float64) error { return c.setVector(v, KindCircle) }

// LineClip keeps the half-length just below the radius unless the requested
// length is already shorter, so that truncated endpoints stay strictly
// inside.
func (c *Circle) LineClip(angle, length float64) models.Segment {
	half := math.Min(math.Nextafter(c.Radius(), 0), length/2)
	if half < 0 {
		half = 0
	}
	return clip(c.center, normalizeAngle(angle)*math.Pi/180, half)
}

func (c *Circle) Bounds() models.Rect {
	r := int(math.Floor(c.Radius()))
	return models.Rect{
		Min: models.Point{Row: c.center.Row - r, Col: c.center.Col - r},
		Max: models.Point{Row: c.center.Row + r, Col: c.center.Col + r},
	}
}

func (c *Circle) Drawable() Drawable {
	return Drawable{Kind: KindCircle, Center: c.center, Bounds: c.Bounds(), Radius: c.Radius()}
}

func (c *Circle) Clone() Shape { return &Circle{c.clone()} }
