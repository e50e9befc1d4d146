package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceLevel is the two-sided confidence of the Student bounds
const ConfidenceLevel = 0.95

// Statistics is a profile reduced over its samples axis. All slices have one
// entry per retained coordinate.
type Statistics struct {
	Coordinate []float64
	Mean       []float64
	Std        []float64
	Lower      []float64
	Upper      []float64

	// TValue is the factor applied to Std for the bounds (1 when Student
	// bounds are disabled)
	TValue float64
}

// Len returns the number of retained coordinates
func (s Statistics) Len() int { return len(s.Coordinate) }

// StudentCoefficient returns the two-sided Student's t quantile for the
// given degrees of freedom and confidence probability, e.g. about 2.228 for
// 10 degrees of freedom at 0.95.
func StudentCoefficient(dof int, probability float64) (float64, error) {
	if dof < 1 {
		return 0, fmt.Errorf("degrees of freedom must be positive, got %d", dof)
	}
	if probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("probability must be in (0, 1), got %v", probability)
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	return t.Quantile(1 - (1-probability)/2), nil
}

// AggregateStatistics reduces values row by row: row i holds the samples at
// coordinate[i] (one column per angle or measurement). Rows containing NaN
// are dropped. When maxLength is positive and below the largest coordinate,
// only coordinates in [minLength, maxLength] are kept, minLength applying
// only when it is non-negative and above the smallest coordinate.
//
// Std is the population deviation of each row. The bounds are mean +/- t*std
// with t the Student quantile at ConfidenceLevel for as many degrees of
// freedom as there are columns, or mean +/- std when useStudent is false.
func AggregateStatistics(coordinate []float64, values mat.Matrix, useStudent bool, minLength, maxLength float64) (Statistics, error) {
	return Aggregate(coordinate, values, useStudent, ConfidenceLevel, minLength, maxLength)
}

// Aggregate is AggregateStatistics with an explicit confidence probability
func Aggregate(coordinate []float64, values mat.Matrix, useStudent bool, probability, minLength, maxLength float64) (Statistics, error) {
	rows, cols := values.Dims()
	if rows != len(coordinate) {
		return Statistics{}, fmt.Errorf("%d coordinates for %d value rows", len(coordinate), rows)
	}
	if rows == 0 || cols == 0 {
		return Statistics{}, fmt.Errorf("no values to aggregate")
	}

	tValue := 1.0
	if useStudent {
		var err error
		tValue, err = StudentCoefficient(cols, probability)
		if err != nil {
			return Statistics{}, err
		}
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	maxCoord := floats.Max(coordinate)
	minCoord := floats.Min(coordinate)
	if maxLength > 0 && maxLength < maxCoord {
		hi = maxLength
		if minLength >= 0 && minLength > minCoord {
			lo = minLength
		}
	}

	stats := Statistics{TValue: tValue}
	row := make([]float64, cols)
	for i, x := range coordinate {
		if x < lo || x > hi {
			continue
		}
		mat.Row(row, i, values)
		if floats.HasNaN(row) {
			continue
		}

		mean, std := stat.PopMeanStdDev(row, nil)
		half := tValue * std
		stats.Coordinate = append(stats.Coordinate, x)
		stats.Mean = append(stats.Mean, mean)
		stats.Std = append(stats.Std, std)
		stats.Lower = append(stats.Lower, mean-half)
		stats.Upper = append(stats.Upper, mean+half)
	}
	return stats, nil
}

// AngularStatistics reduces a radial sweep over its coordinate axis instead:
// values has one row per radial coordinate and one column per angle, and the
// result has one entry per angle. The window bounds apply to the angles.
func AngularStatistics(angles []float64, values mat.Matrix, useStudent bool, minAngle, maxAngle float64) (Statistics, error) {
	return AggregateStatistics(angles, values.T(), useStudent, minAngle, maxAngle)
}
