package models

import "math"

// Point is an integer pixel coordinate in (row, column) order.
type Point struct {
	Row int
	Col int
}

// Distance returns the Euclidean distance between two points in pixels
func (p Point) Distance(q Point) float64 {
	dr := float64(p.Row - q.Row)
	dc := float64(p.Col - q.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// Segment is a line between two pixel endpoints.
type Segment struct {
	Start Point
	End   Point
}

// Length returns the Euclidean length of the segment in pixels
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Rect is an inclusive pixel rectangle: both Min and Max belong to it.
type Rect struct {
	Min Point
	Max Point
}

// Rows returns the number of rows covered by the rectangle
func (r Rect) Rows() int { return r.Max.Row - r.Min.Row + 1 }

// Cols returns the number of columns covered by the rectangle
func (r Rect) Cols() int { return r.Max.Col - r.Min.Col + 1 }

// Intersect clips r to the rows x cols grid. The second result is false when
// nothing of r lies on the grid.
func (r Rect) Intersect(rows, cols int) (Rect, bool) {
	out := Rect{
		Min: Point{Row: max(r.Min.Row, 0), Col: max(r.Min.Col, 0)},
		Max: Point{Row: min(r.Max.Row, rows-1), Col: min(r.Max.Col, cols-1)},
	}
	if out.Min.Row > out.Max.Row || out.Min.Col > out.Max.Col {
		return Rect{}, false
	}
	return out, true
}

// Distribution is an ordered set of samples taken along a line.
// Points[i] is the pixel Values[i] was read from.
type Distribution struct {
	Points []Point
	Values []float64
}

// Len returns the number of samples
func (d Distribution) Len() int { return len(d.Values) }
