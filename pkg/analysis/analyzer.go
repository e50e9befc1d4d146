// Package analysis drives the full ROI analysis of one thermal image:
// normalization, pattern detection, shape fitting, region extraction and the
// radial and angular temperature profiles of every fitted ROI.
package analysis

import (
	"io"
	"log"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"thermalroi/pkg/fitting"
	"thermalroi/pkg/profile"
	"thermalroi/pkg/roi"
	"thermalroi/pkg/segmentation"
	"thermalroi/pkg/thermal"
)

// Params holds the analysis parameters
type Params struct {
	// Shape is the ROI kind fitted to every detected pattern
	Shape roi.Kind

	Segmentation segmentation.Options
	Fitting      fitting.Options
	Profile      profile.Options

	// NumCores bounds how many ROIs are profiled concurrently
	NumCores int

	// Logger receives progress messages; nil discards them
	Logger *log.Logger
}

// DefaultParams fits circles with the default options of every stage
func DefaultParams() Params {
	return Params{
		Shape:        roi.KindCircle,
		Segmentation: segmentation.DefaultOptions(),
		Fitting:      fitting.DefaultOptions(),
		Profile:      profile.DefaultOptions(),
		NumCores:     runtime.NumCPU(),
	}
}

// ROIReport is the analysis of one fitted pattern
type ROIReport struct {
	ID          uuid.UUID
	Label       int
	Shape       roi.Shape
	Discrepancy float64
	Diagnostics fitting.Diagnostics
	Summary     thermal.RegionSummary
	Profile     profile.Profile
}

// Report is the analysis of one image. ROIs are ordered by pattern label.
type Report struct {
	ID       uuid.UUID
	Image    *thermal.NormalizedImage
	Patterns int
	ROIs     []ROIReport
	Elapsed  time.Duration
}

// Shapes returns the fitted shape of every ROI
func (r *Report) Shapes() []roi.Shape {
	shapes := make([]roi.Shape, len(r.ROIs))
	for i, item := range r.ROIs {
		shapes[i] = item.Shape
	}
	return shapes
}

// Analyzer runs the analysis pipeline
type Analyzer struct {
	params    Params
	optimizer fitting.Optimizer
	logger    *log.Logger
}

// NewAnalyzer creates an analyzer using gonum's Nelder-Mead optimizer
func NewAnalyzer(params Params) *Analyzer {
	logger := params.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Analyzer{
		params:    params,
		optimizer: fitting.NewNelderMead(params.Fitting),
		logger:    logger,
	}
}

// WithOptimizer replaces the optimizer used for fitting
func (a *Analyzer) WithOptimizer(opt fitting.Optimizer) *Analyzer {
	a.optimizer = opt
	return a
}

// Process runs the complete pipeline on a raw temperature matrix
func (a *Analyzer) Process(raw mat.Matrix) (*Report, error) {
	start := time.Now()
	report := &Report{ID: uuid.New()}

	// Step 1: Normalize the raw field
	img, err := thermal.NewNormalizedImage(raw)
	if err != nil {
		return nil, errors.Wrap(err, "normalizing image")
	}
	report.Image = img
	rows, cols := img.Dims()
	a.logger.Printf("image %s: %dx%d, %.3f..%.3f", report.ID, rows, cols, img.Min(), img.Max())

	// Step 2: Detect the patterns
	markers, err := segmentation.Detect(img.Normalized(), a.params.Segmentation)
	if err != nil {
		return nil, errors.Wrap(err, "detecting patterns")
	}
	report.Patterns = markers.Max()
	a.logger.Printf("detected %d patterns", report.Patterns)
	if report.Patterns == 0 {
		report.Elapsed = time.Since(start)
		return report, nil
	}

	// Step 3: Fit one shape per pattern
	fits, err := fitting.FitAll(img.Raw(), markers, a.params.Shape, a.optimizer, a.params.Fitting)
	if err != nil {
		return nil, errors.Wrap(err, "fitting patterns")
	}
	a.logger.Printf("fitted %d %s ROIs", len(fits), a.params.Shape)

	// Step 4: Extract and profile every ROI
	report.ROIs, err = a.profileAll(img, fits)
	if err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	a.logger.Printf("image %s analysed in %v", report.ID, report.Elapsed)
	return report, nil
}

// profileAll analyses the fitted ROIs concurrently, at most NumCores at a
// time, and returns them in fit order
func (a *Analyzer) profileAll(img *thermal.NormalizedImage, fits []fitting.FitResult) ([]ROIReport, error) {
	type roiResult struct {
		index  int
		report ROIReport
		err    error
	}
	resultChan := make(chan roiResult)

	cores := a.params.NumCores
	if cores < 1 {
		cores = 1
	}
	sem := make(chan struct{}, cores)

	for i, fit := range fits {
		go func(idx int, fit fitting.FitResult) {
			sem <- struct{}{}
			defer func() { <-sem }()

			rep, err := a.profileOne(img, fit)
			rep.Label = idx + 1
			if err != nil {
				err = errors.Wrapf(err, "ROI %d", idx+1)
			}
			resultChan <- roiResult{index: idx, report: rep, err: err}
		}(i, fit)
	}

	reports := make([]ROIReport, len(fits))
	errs := make([]error, len(fits))
	for completed := 0; completed < len(fits); completed++ {
		res := <-resultChan
		reports[res.index] = res.report
		errs[res.index] = res.err
		a.logger.Printf("ROI %d/%d done", completed+1, len(fits))
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (a *Analyzer) profileOne(img *thermal.NormalizedImage, fit fitting.FitResult) (ROIReport, error) {
	rep := ROIReport{
		ID:          uuid.New(),
		Shape:       fit.Shape,
		Discrepancy: fit.Discrepancy,
		Diagnostics: fit.Diagnostics,
	}

	region, err := thermal.ExtractROI(img, fit.Shape, false)
	if err != nil {
		return rep, errors.Wrap(err, "extracting region")
	}
	rep.Summary = thermal.Summarize(region)

	rep.Profile, err = profile.Compute(img.Raw(), fit.Shape, a.params.Profile)
	if err != nil {
		return rep, errors.Wrap(err, "computing profile")
	}
	return rep, nil
}
