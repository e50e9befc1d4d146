package models

import "fmt"

// Mask is a boolean matrix marking which pixels belong to a region.
// Like mat.Dense it is stored row-major with a stride, so a sub-view
// created with Slice shares its backing data with the parent.
type Mask struct {
	rows   int
	cols   int
	stride int
	data   []bool
}

// NewMask creates an all-false mask with the given dimensions
func NewMask(rows, cols int) *Mask {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("models: negative mask dimensions %dx%d", rows, cols))
	}
	return &Mask{
		rows:   rows,
		cols:   cols,
		stride: cols,
		data:   make([]bool, rows*cols),
	}
}

// Dims returns the number of rows and columns
func (m *Mask) Dims() (int, int) { return m.rows, m.cols }

// At reports whether the cell at (r, c) is set
func (m *Mask) At(r, c int) bool {
	m.check(r, c)
	return m.data[r*m.stride+c]
}

// Set assigns the cell at (r, c)
func (m *Mask) Set(r, c int, v bool) {
	m.check(r, c)
	m.data[r*m.stride+c] = v
}

func (m *Mask) check(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("models: mask index (%d,%d) out of range %dx%d", r, c, m.rows, m.cols))
	}
}

// Slice returns a view of rows [i, k) and columns [j, l). The view aliases
// the receiver: writes through either are visible through the other.
func (m *Mask) Slice(i, k, j, l int) *Mask {
	if i < 0 || k > m.rows || i > k || j < 0 || l > m.cols || j > l {
		panic(fmt.Sprintf("models: mask slice [%d:%d, %d:%d] out of range %dx%d", i, k, j, l, m.rows, m.cols))
	}
	if i == k || j == l {
		return &Mask{rows: k - i, cols: l - j, stride: m.stride}
	}
	return &Mask{
		rows:   k - i,
		cols:   l - j,
		stride: m.stride,
		data:   m.data[i*m.stride+j : (k-1)*m.stride+l],
	}
}

// Count returns the number of set cells
func (m *Mask) Count() int {
	n := 0
	for r := 0; r < m.rows; r++ {
		row := m.data[r*m.stride : r*m.stride+m.cols]
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Not returns a new mask with every cell inverted
func (m *Mask) Not() *Mask {
	out := NewMask(m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.data[r*out.stride+c] = !m.data[r*m.stride+c]
		}
	}
	return out
}

// Clone returns a compact deep copy of the mask
func (m *Mask) Clone() *Mask {
	out := NewMask(m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		copy(out.data[r*out.cols:(r+1)*out.cols], m.data[r*m.stride:r*m.stride+m.cols])
	}
	return out
}

// Bounds returns the tight inclusive bounding rectangle of the set cells.
// The second result is false when no cell is set.
func (m *Mask) Bounds() (Rect, bool) {
	found := false
	var b Rect
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if !m.data[r*m.stride+c] {
				continue
			}
			if !found {
				b = Rect{Min: Point{Row: r, Col: c}, Max: Point{Row: r, Col: c}}
				found = true
				continue
			}
			b.Min.Row = min(b.Min.Row, r)
			b.Min.Col = min(b.Min.Col, c)
			b.Max.Row = max(b.Max.Row, r)
			b.Max.Col = max(b.Max.Col, c)
		}
	}
	return b, found
}

// FirstLast returns the first and last set cells in raster order.
// The third result is false when no cell is set.
func (m *Mask) FirstLast() (Point, Point, bool) {
	var first, last Point
	found := false
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if !m.data[r*m.stride+c] {
				continue
			}
			if !found {
				first = Point{Row: r, Col: c}
				found = true
			}
			last = Point{Row: r, Col: c}
		}
	}
	return first, last, found
}
