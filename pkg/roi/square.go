package roi

import (
	"math"

	"thermalroi/internal/models"
)

// Square is an axis-aligned square given by its centre and side. Pixels on
// the boundary are inside.
type Square struct {
	centred
}

// NewSquare creates a square with a positive side
func NewSquare(center models.Point, side int) (*Square, error) {
	if err := checkDims(KindSquare, side); err != nil {
		return nil, err
	}
	return &Square{centred{center: center, dims: []int{side}}}, nil
}

func (s *Square) Kind() Kind { return KindSquare }

func (s *Square) half() float64 { return float64(s.dims[0]) / 2 }

func (s *Square) Contains(p models.Point) bool {
	h := s.half()
	return math.Abs(float64(p.Row-s.center.Row)) <= h &&
		math.Abs(float64(p.Col-s.center.Col)) <= h
}

func (s *Square) Area() float64 {
	side := float64(s.dims[0])
	return side * side
}

func (s *Square) Vector() []float64 { return s.vector() }

func (s *Square) SetVector(v []float64) error { return s.setVector(v, KindSquare) }

func (s *Square) LineClip(angle, length float64) models.Segment {
	a := normalizeAngle(angle)
	half := math.Min(boxHalfLength(a, s.half(), s.half()), length/2)
	if half < 0 {
		half = 0
	}
	return clip(s.center, a*math.Pi/180, half)
}

func (s *Square) Bounds() models.Rect {
	h := int(math.Floor(s.half()))
	return models.Rect{
		Min: models.Point{Row: s.center.Row - h, Col: s.center.Col - h},
		Max: models.Point{Row: s.center.Row + h, Col: s.center.Col + h},
	}
}

func (s *Square) Drawable() Drawable {
	return Drawable{Kind: KindSquare, Center: s.center, Bounds: s.Bounds(), HalfHeight: s.half(), HalfWidth: s.half()}
}

func (s *Square) Clone() Shape { return &Square{s.clone()} }
