package models

import "github.com/pkg/errors"

// Failure classes shared by the analysis packages. Callers match them with
// errors.Is; packages attach context with errors.Wrapf.
var (
	// ErrInvalidGeometry reports malformed ROI dimensions or a parameter
	// vector of the wrong length.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrEmptyRegion reports a region or bounding box over no selected pixels.
	ErrEmptyRegion = errors.New("empty region")

	// ErrDegenerateImage reports an image with zero dynamic range.
	ErrDegenerateImage = errors.New("degenerate image")

	// ErrUnsupportedShape reports a shape kind with no implementation.
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrOptimizerFailure reports a failed minimization or a malformed result.
	ErrOptimizerFailure = errors.New("optimizer failure")

	// ErrShapeMismatch reports matrices or masks with different dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")
)
