package tables

import "fmt"

// Config holds reconstruction parameters. The tolerances are in the same
// units as the zone geometry and were tuned against one scan resolution;
// re-validate them before reusing them for inputs at another DPI.
type Config struct {
	// Boundary coordinates closer than this collapse into one
	BoundaryEpsilon float64

	// Confidence given to every unit cell before text is bound (0-1)
	BaselineConfidence float64

	// Whether to infer merged cells from missing rulings
	DetectSpans bool

	// Tolerance for matching cell edges and sizes during span inference
	SpanTolerance float64

	// Fraction of a unit edge a ruling must cover to count as a separator
	RulingCoverage float64

	// Minimum fraction of a text region's area that must fall inside a cell
	OverlapThreshold float64

	// Tokens dealt to each cell when binding a flat text blob
	TokensPerCell int

	// Whether to mark row 0 as a header row when it looks like one
	DetectHeaders bool

	// Maximum vertical gap between two tables that continue each other
	MergeGapTolerance float64

	// Maximum difference between the left edges of two tables to merge
	MergeLeftTolerance float64

	// Maximum difference in column count between two tables to merge
	MergeMaxColumnDelta int

	// Number of zones reconstructed concurrently; 1 runs sequentially
	Concurrency int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BoundaryEpsilon:     0.5,
		BaselineConfidence:  0.8,
		DetectSpans:         true,
		SpanTolerance:       5.0,
		RulingCoverage:      0.5,
		OverlapThreshold:    0.3,
		TokensPerCell:       3,
		DetectHeaders:       true,
		MergeGapTolerance:   20.0,
		MergeLeftTolerance:  10.0,
		MergeMaxColumnDelta: 1,
		Concurrency:         1,
	}
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	switch {
	case c.BoundaryEpsilon <= 0:
		return fmt.Errorf("%w: boundary epsilon must be positive, got %g", ErrInvalidConfig, c.BoundaryEpsilon)
	case c.BaselineConfidence < 0 || c.BaselineConfidence > 1:
		return fmt.Errorf("%w: baseline confidence %g outside [0,1]", ErrInvalidConfig, c.BaselineConfidence)
	case c.SpanTolerance < 0:
		return fmt.Errorf("%w: span tolerance must not be negative, got %g", ErrInvalidConfig, c.SpanTolerance)
	case c.RulingCoverage <= 0 || c.RulingCoverage > 1:
		return fmt.Errorf("%w: ruling coverage %g outside (0,1]", ErrInvalidConfig, c.RulingCoverage)
	case c.OverlapThreshold < 0 || c.OverlapThreshold > 1:
		return fmt.Errorf("%w: overlap threshold %g outside [0,1]", ErrInvalidConfig, c.OverlapThreshold)
	case c.TokensPerCell < 1:
		return fmt.Errorf("%w: tokens per cell must be at least 1, got %d", ErrInvalidConfig, c.TokensPerCell)
	case c.MergeGapTolerance < 0 || c.MergeLeftTolerance < 0:
		return fmt.Errorf("%w: merge tolerances must not be negative", ErrInvalidConfig)
	case c.MergeMaxColumnDelta < 0:
		return fmt.Errorf("%w: merge column delta must not be negative, got %d", ErrInvalidConfig, c.MergeMaxColumnDelta)
	case c.Concurrency < 1:
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.Concurrency)
	}
	return nil
}
