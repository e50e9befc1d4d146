// Package config provides configuration loading and management for thermalroi.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"thermalroi/pkg/fitting"
	"thermalroi/pkg/profile"
	"thermalroi/pkg/roi"
	"thermalroi/pkg/segmentation"
)

// Environment variables read by LoadEnv
const (
	EnvConfigPath = "THERMALROI_CONFIG"
	EnvOutputDir  = "THERMALROI_OUTPUT"
)

// LoadEnv reads a .env file from the working directory when one exists
// (variables already set win) and returns the config path and output
// directory found in the environment
func LoadEnv() (configPath, outputDir string) {
	_ = godotenv.Load()
	return os.Getenv(EnvConfigPath), os.Getenv(EnvOutputDir)
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores bounds how many ROIs are fitted and profiled concurrently
		NumCores int `yaml:"numCores"`

		// Shape is the ROI kind fitted to every pattern: circle, square or rectangle
		Shape string `yaml:"shape"`

		// MaxPatterns caps the number of patterns fitted per image (0 = no cap)
		MaxPatterns int `yaml:"maxPatterns"`

		// Threshold is the normalized level separating patterns from background
		Threshold float64 `yaml:"threshold"`

		// Cold segments patterns below the threshold instead of above it
		Cold bool `yaml:"cold"`

		// MinPatternArea drops patterns with fewer pixels
		MinPatternArea int `yaml:"minPatternArea"`
	} `yaml:"processing"`

	// Fitting parameters
	Fitting struct {
		MaxIterations  int     `yaml:"maxIterations"`
		MaxEvaluations int     `yaml:"maxEvaluations"`
		SimplexSize    float64 `yaml:"simplexSize"`
		Tolerance      float64 `yaml:"tolerance"`

		// Restarts bounds how often the simplex is rebuilt around the best point
		Restarts int `yaml:"restarts"`
	} `yaml:"fitting"`

	// Profile parameters
	Profile struct {
		// AngleStep is the spacing in degrees between sweep lines
		AngleStep float64 `yaml:"angleStep"`

		// Length is the physical line length (<= 0 uses the ROI size)
		Length float64 `yaml:"length"`

		// LengthPerPixel converts pixels to physical units
		LengthPerPixel float64 `yaml:"lengthPerPixel"`

		UseWu       bool    `yaml:"useWu"`
		UseStudent  bool    `yaml:"useStudent"`
		Probability float64 `yaml:"probability"`

		// MinLength and MaxLength window the radial profile (-1 disables)
		MinLength float64 `yaml:"minLength"`
		MaxLength float64 `yaml:"maxLength"`
	} `yaml:"profile"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// SaveImages writes the heat map and profile plots of every image
		SaveImages bool `yaml:"saveImages"`

		// OutputDir is where images and plots are written
		OutputDir string `yaml:"outputDir"`

		// Scale is the upscaling factor of saved heat maps
		Scale int `yaml:"scale"`

		// ColorScheme gives the hex colors of the coldest and hottest values
		ColorScheme struct {
			Cold string `yaml:"cold"`
			Hot  string `yaml:"hot"`
		} `yaml:"colorScheme"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.Shape = roi.KindCircle.String()
	cfg.Processing.MaxPatterns = 10
	cfg.Processing.Threshold = 0.5
	cfg.Processing.Cold = false
	cfg.Processing.MinPatternArea = 4

	// Set default fitting parameters
	fit := fitting.DefaultOptions()
	cfg.Fitting.MaxIterations = fit.MaxIterations
	cfg.Fitting.MaxEvaluations = fit.MaxEvaluations
	cfg.Fitting.SimplexSize = fit.SimplexSize
	cfg.Fitting.Tolerance = fit.Tolerance
	cfg.Fitting.Restarts = fit.Restarts

	// Set default profile parameters
	prof := profile.DefaultOptions()
	cfg.Profile.AngleStep = prof.AngleStep
	cfg.Profile.Length = prof.Length
	cfg.Profile.LengthPerPixel = prof.LengthPerPixel
	cfg.Profile.UseWu = prof.UseWu
	cfg.Profile.UseStudent = prof.UseStudent
	cfg.Profile.Probability = prof.Probability
	cfg.Profile.MinLength = prof.MinLength
	cfg.Profile.MaxLength = prof.MaxLength

	// Set default output parameters
	cfg.Output.Verbose = true
	cfg.Output.SaveImages = false
	cfg.Output.OutputDir = "thermalroi_output"
	cfg.Output.Scale = 4
	cfg.Output.ColorScheme.Cold = "#0b1a6e"
	cfg.Output.ColorScheme.Hot = "#ffe14d"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside the pipeline
func (c *Config) Validate() error {
	if _, err := roi.ParseKind(c.Processing.Shape); err != nil {
		return err
	}
	if c.Processing.Threshold < 0 || c.Processing.Threshold > 1 {
		return fmt.Errorf("processing.threshold must be in [0, 1], got %v", c.Processing.Threshold)
	}
	if c.Fitting.Restarts < 0 {
		return fmt.Errorf("fitting.restarts must not be negative, got %v", c.Fitting.Restarts)
	}
	if c.Profile.AngleStep <= 0 || c.Profile.AngleStep > 360 {
		return fmt.Errorf("profile.angleStep must be in (0, 360], got %v", c.Profile.AngleStep)
	}
	if c.Profile.LengthPerPixel <= 0 {
		return fmt.Errorf("profile.lengthPerPixel must be positive, got %v", c.Profile.LengthPerPixel)
	}
	if c.Profile.UseStudent && (c.Profile.Probability <= 0 || c.Profile.Probability >= 1) {
		return fmt.Errorf("profile.probability must be in (0, 1), got %v", c.Profile.Probability)
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// ShapeKind returns the configured ROI kind
func (c *Config) ShapeKind() (roi.Kind, error) {
	return roi.ParseKind(c.Processing.Shape)
}

// FittingOptions converts the fitting section
func (c *Config) FittingOptions() fitting.Options {
	return fitting.Options{
		MaxIterations:  c.Fitting.MaxIterations,
		MaxEvaluations: c.Fitting.MaxEvaluations,
		SimplexSize:    c.Fitting.SimplexSize,
		Tolerance:      c.Fitting.Tolerance,
		Restarts:       c.Fitting.Restarts,
		MaxPatterns:    c.Processing.MaxPatterns,
		Workers:        c.Processing.NumCores,
	}
}

// SegmentationOptions converts the pattern detection settings
func (c *Config) SegmentationOptions() segmentation.Options {
	return segmentation.Options{
		Level:   c.Processing.Threshold,
		Cold:    c.Processing.Cold,
		MinArea: c.Processing.MinPatternArea,
	}
}

// ProfileOptions converts the profile section
func (c *Config) ProfileOptions() profile.Options {
	return profile.Options{
		AngleStep:      c.Profile.AngleStep,
		Length:         c.Profile.Length,
		LengthPerPixel: c.Profile.LengthPerPixel,
		UseWu:          c.Profile.UseWu,
		UseStudent:     c.Profile.UseStudent,
		Probability:    c.Profile.Probability,
		MinLength:      c.Profile.MinLength,
		MaxLength:      c.Profile.MaxLength,
	}
}
