package thermal

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// LoadMatrix reads a raw temperature matrix from path.
//
// Files ending in .csv or .txt hold one row of numbers per line separated by
// commas. Any other file is decoded as an image and its grayscale intensity
// (16-bit scale) becomes the value of each pixel.
func LoadMatrix(path string) (*mat.Dense, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image %s: %w", path, err)
		}
		return FromImage(img), nil
	}
}

// ReadCSV parses a comma separated matrix. Every row must have the same
// number of columns.
func ReadCSV(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing matrix: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("matrix is empty")
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, rec := range records {
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// FromImage converts an image to a matrix of 16-bit gray intensities
func FromImage(img image.Image) *mat.Dense {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	out := mat.NewDense(bounds.Dy(), bounds.Dx(), nil)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			g := color.Gray16Model.Convert(gray.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			out.Set(y, x, float64(g.Y))
		}
	}
	return out
}
