package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"thermalroi/pkg/analysis"
	"thermalroi/pkg/config"
	"thermalroi/pkg/thermal"
	"thermalroi/pkg/visualization"
)

var outlineColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func main() {
	envConfig, envOutput := config.LoadEnv()
	if envConfig == "" {
		envConfig = "thermalroi.yaml"
	}

	// Parse command line arguments
	inputPath := flag.String("input", "", "Temperature matrix (.csv) or grayscale image")
	configPath := flag.String("config", envConfig, "YAML configuration file")
	outputDir := flag.String("output", envOutput, "Directory for heat maps and profile plots (overrides the config)")
	initConfig := flag.Bool("init-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.OutputDir = *outputDir
	}

	kind, err := cfg.ShapeKind()
	if err != nil {
		log.Fatalf("Invalid shape: %v", err)
	}

	raw, err := thermal.LoadMatrix(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *inputPath, err)
	}

	params := analysis.Params{
		Shape:        kind,
		Segmentation: cfg.SegmentationOptions(),
		Fitting:      cfg.FittingOptions(),
		Profile:      cfg.ProfileOptions(),
		NumCores:     cfg.Processing.NumCores,
	}
	if cfg.Output.Verbose {
		params.Logger = log.New(os.Stderr, "thermalroi: ", log.LstdFlags)
	}

	startTime := time.Now()
	report, err := analysis.NewAnalyzer(params).Process(raw)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printReport(*inputPath, report, time.Since(startTime))

	if cfg.Output.SaveImages {
		if err := saveImages(cfg, *inputPath, report); err != nil {
			log.Fatalf("Failed to save images: %v", err)
		}
		fmt.Printf("\nImages and plots saved to: %s\n", cfg.Output.OutputDir)
	}
}

func printReport(input string, report *analysis.Report, elapsed time.Duration) {
	rows, cols := report.Image.Dims()

	fmt.Println("================================")
	fmt.Printf("THERMAL ROI ANALYSIS: %s\n", input)
	fmt.Println("================================")
	fmt.Printf("Image: %dx%d, %.3f .. %.3f\n", rows, cols, report.Image.Min(), report.Image.Max())
	fmt.Printf("Patterns detected: %d, ROIs fitted: %d\n", report.Patterns, len(report.ROIs))
	fmt.Printf("Processing time: %.2f seconds\n", elapsed.Seconds())

	for _, r := range report.ROIs {
		c := r.Shape.Center()
		fmt.Printf("\nROI %d (%s)\n", r.Label, r.ID)
		fmt.Printf("- %s at (%d, %d), dimensions %v\n", r.Shape.Kind(), c.Row, c.Col, r.Shape.Dimensions())
		fmt.Printf("- Discrepancy: %.5f (%s, %d evaluations, %d restarts)\n",
			r.Discrepancy, r.Diagnostics.Status, r.Diagnostics.FuncEvaluations, r.Diagnostics.Restarts)
		fmt.Printf("- Region: %d pixels, mean %.3f, std %.3f, min %.3f, max %.3f\n",
			r.Summary.Pixels, r.Summary.Mean, r.Summary.Std, r.Summary.Min, r.Summary.Max)

		radial := r.Profile.Radial
		fmt.Printf("- Radial profile (t = %.3f):\n", radial.TValue)
		fmt.Printf("  %10s %10s %10s %10s %10s\n", "distance", "mean", "std", "lower", "upper")
		for i := 0; i < radial.Len(); i++ {
			fmt.Printf("  %10.3f %10.3f %10.3f %10.3f %10.3f\n",
				radial.Coordinate[i], radial.Mean[i], radial.Std[i], radial.Lower[i], radial.Upper[i])
		}
	}
}

func saveImages(cfg *config.Config, input string, report *analysis.Report) error {
	scheme, err := visualization.ParseScheme(cfg.Output.ColorScheme.Cold, cfg.Output.ColorScheme.Hot)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := filepath.Join(cfg.Output.OutputDir, base)

	viewer := visualization.NewViewer(report.Image, scheme)
	shapes := report.Shapes()
	if err := visualization.Save(viewer.Render(shapes, outlineColor), filepath.Join(dir, "heatmap.png"), cfg.Output.Scale); err != nil {
		return err
	}
	if err := viewer.SaveRegions(shapes, outlineColor, dir, cfg.Output.Scale); err != nil {
		return err
	}

	for _, r := range report.ROIs {
		if r.Profile.Radial.Len() == 0 {
			continue
		}
		radialPath := filepath.Join(dir, fmt.Sprintf("roi_%02d_radial.png", r.Label))
		if err := visualization.PlotProfile(r.Profile.Radial, fmt.Sprintf("ROI %d radial profile", r.Label), "Distance", radialPath); err != nil {
			return err
		}
		angularPath := filepath.Join(dir, fmt.Sprintf("roi_%02d_angular.png", r.Label))
		if err := visualization.PlotProfile(r.Profile.Angular, fmt.Sprintf("ROI %d angular profile", r.Label), "Angle (degrees)", angularPath); err != nil {
			return err
		}
	}
	return nil
}
