// Package sampling walks images along straight lines and returns the pixels
// visited with their values. Two traversals are available: an integer
// Bresenham walk visiting one pixel per step and a Wu-style anti-aliased walk
// that averages the two pixels straddled at each step.
package sampling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"thermalroi/internal/models"
)

// Sample clamps seg into img and walks it with the selected traversal
func Sample(img mat.Matrix, seg models.Segment, useWu bool) models.Distribution {
	rows, cols := img.Dims()
	seg = ClampSegment(seg, rows, cols)
	if useWu {
		return Wu(img, seg)
	}
	return Bresenham(img, seg)
}

// ClampSegment moves every out-of-range endpoint coordinate to the nearest
// valid row or column
func ClampSegment(seg models.Segment, rows, cols int) models.Segment {
	return models.Segment{
		Start: clampPoint(seg.Start, rows, cols),
		End:   clampPoint(seg.End, rows, cols),
	}
}

func clampPoint(p models.Point, rows, cols int) models.Point {
	return models.Point{
		Row: min(max(p.Row, 0), rows-1),
		Col: min(max(p.Col, 0), cols-1),
	}
}

// Bresenham visits every pixel from seg.Start to seg.End inclusive using an
// integer error accumulator. The endpoints must lie inside img.
func Bresenham(img mat.Matrix, seg models.Segment) models.Distribution {
	r0, c0 := seg.Start.Row, seg.Start.Col
	r1, c1 := seg.End.Row, seg.End.Col

	dr := abs(r1 - r0)
	dc := abs(c1 - c0)
	sr, sc := sign(r1-r0), sign(c1-c0)

	n := max(dr, dc) + 1
	dist := models.Distribution{
		Points: make([]models.Point, 0, n),
		Values: make([]float64, 0, n),
	}

	err := dc - dr
	r, c := r0, c0
	for {
		dist.Points = append(dist.Points, models.Point{Row: r, Col: c})
		dist.Values = append(dist.Values, img.At(r, c))
		if r == r1 && c == c1 {
			break
		}
		e2 := 2 * err
		if e2 > -dr {
			err -= dr
			c += sc
		}
		if e2 < dc {
			err += dc
			r += sr
		}
	}
	return dist
}

// Wu walks seg in sub-pixel space along its dominant axis. At each step the
// line straddles two adjacent pixels across the minor axis and the sample is
// their average (pixels falling off the image are left out). The reported
// point is the first of the two. Samples are returned ordered from seg.Start
// to seg.End.
func Wu(img mat.Matrix, seg models.Segment) models.Distribution {
	rows, cols := img.Dims()

	// x runs along columns and y along rows unless the line is steep
	x0, y0 := float64(seg.Start.Col), float64(seg.Start.Row)
	x1, y1 := float64(seg.End.Col), float64(seg.End.Row)
	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	gradient := 1.0
	if dx != 0 {
		gradient = dy / dx
	}

	var dist models.Distribution
	add := func(x int, y float64) {
		yi := int(math.Floor(y))
		a := models.Point{Row: yi, Col: x}
		b := models.Point{Row: yi + 1, Col: x}
		if steep {
			a = models.Point{Row: x, Col: yi}
			b = models.Point{Row: x, Col: yi + 1}
		}

		sum, n := 0.0, 0
		for _, p := range []models.Point{a, b} {
			if p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols {
				sum += img.At(p.Row, p.Col)
				n++
			}
		}
		if n == 0 {
			return
		}
		dist.Points = append(dist.Points, a)
		dist.Values = append(dist.Values, sum/float64(n))
	}

	xend := math.Round(x0)
	yend := y0 + gradient*(xend-x0)
	xpx1 := int(xend)
	add(xpx1, yend)
	intery := yend + gradient

	xend = math.Round(x1)
	yend = y1 + gradient*(xend-x1)
	xpx2 := int(xend)

	for x := xpx1 + 1; x < xpx2; x++ {
		add(x, intery)
		intery += gradient
	}
	if xpx2 != xpx1 {
		add(xpx2, yend)
	}

	sort.Stable(byDistance{dist: &dist, origin: seg.Start})
	return dist
}

// byDistance orders samples by their distance to origin
type byDistance struct {
	dist   *models.Distribution
	origin models.Point
}

func (s byDistance) Len() int { return len(s.dist.Points) }

func (s byDistance) Less(i, j int) bool {
	return s.dist.Points[i].Distance(s.origin) < s.dist.Points[j].Distance(s.origin)
}

func (s byDistance) Swap(i, j int) {
	s.dist.Points[i], s.dist.Points[j] = s.dist.Points[j], s.dist.Points[i]
	s.dist.Values[i], s.dist.Values[j] = s.dist.Values[j], s.dist.Values[i]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
