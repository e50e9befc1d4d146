package models

import "fmt"

// Labels is a pattern marker matrix: 0 is background and k > 0 marks the
// k-th connected pattern. It is produced by segmentation and only read by
// the fitting engine.
type Labels struct {
	Rows int
	Cols int
	Data []int
}

// NewLabels creates an all-background marker matrix
func NewLabels(rows, cols int) *Labels {
	return &Labels{Rows: rows, Cols: cols, Data: make([]int, rows*cols)}
}

// At returns the label at (r, c)
func (l *Labels) At(r, c int) int { return l.Data[r*l.Cols+c] }

// Set assigns the label at (r, c)
func (l *Labels) Set(r, c, v int) { l.Data[r*l.Cols+c] = v }

// Max returns the largest label, which is the pattern count for
// contiguously numbered labels
func (l *Labels) Max() int {
	m := 0
	for _, v := range l.Data {
		if v > m {
			m = v
		}
	}
	return m
}

// Equal returns the mask of cells carrying label k
func (l *Labels) Equal(k int) *Mask {
	m := NewMask(l.Rows, l.Cols)
	for i, v := range l.Data {
		if v == k {
			m.data[i] = true
		}
	}
	return m
}

// Areas returns the number of cells per label, indexed by label
func (l *Labels) Areas() []int {
	areas := make([]int, l.Max()+1)
	for _, v := range l.Data {
		if v > 0 {
			areas[v]++
		}
	}
	return areas
}

func (l *Labels) String() string {
	return fmt.Sprintf("Labels(%dx%d, %d patterns)", l.Rows, l.Cols, l.Max())
}
