package gridtab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/gridtab/model"
	"github.com/tsawler/gridtab/tables"
)

// Reconstructor provides a fluent interface for turning zones into tables.
// Each configuration method returns a new Reconstructor instance, making it
// safe for concurrent use and allowing method chaining.
type Reconstructor struct {
	zones []model.Zone

	// Configuration
	options ReconstructOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Reconstructor with a deep copy of options.
func (r *Reconstructor) clone() *Reconstructor {
	return &Reconstructor{
		zones:   r.zones,
		options: r.options.clone(),
		err:     r.err,
	}
}

// ============================================================================
// Configuration Methods (return new Reconstructor instance)
// ============================================================================

// WithRegions supplies positioned text from OCR. Multiple calls are
// cumulative.
//
// Example:
//
//	tables, _, err := gridtab.FromZones(zone).WithRegions(regions...).Tables()
func (r *Reconstructor) WithRegions(regions ...model.TextRegion) *Reconstructor {
	newRec := r.clone()
	newRec.options.regions = append(newRec.options.regions, regions...)
	return newRec
}

// WithText supplies one flat text blob used for every zone that has no
// positioned text. Cells receive the tokens in reading order.
//
// Example:
//
//	tables, warnings, err := gridtab.FromZones(zone).WithText("Name Qty Apple 3").Tables()
func (r *Reconstructor) WithText(blob string) *Reconstructor {
	newRec := r.clone()
	newRec.options.blob = blob
	return newRec
}

// WithZoneText supplies a flat text blob for one zone, by index.
//
// Example:
//
//	tables, _, err := gridtab.FromZones(z0, z1).WithZoneText(1, blob).Tables()
func (r *Reconstructor) WithZoneText(index int, blob string) *Reconstructor {
	newRec := r.clone()
	if index < 0 || index >= len(newRec.zones) {
		if newRec.err == nil {
			newRec.err = fmt.Errorf("zone text for index %d: only %d zones", index, len(newRec.zones))
		}
		return newRec
	}
	if newRec.options.zoneText == nil {
		newRec.options.zoneText = make(map[int]string)
	}
	newRec.options.zoneText[index] = blob
	return newRec
}

// SpanTolerance sets the tolerance for matching cell edges during merged
// cell detection.
func (r *Reconstructor) SpanTolerance(tol float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.config.SpanTolerance = tol
	return newRec
}

// BoundaryEpsilon sets the distance below which ruling positions collapse
// into one boundary.
func (r *Reconstructor) BoundaryEpsilon(eps float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.config.BoundaryEpsilon = eps
	return newRec
}

// OverlapThreshold sets the minimum share of a text region's area that a
// cell must hold to receive it.
func (r *Reconstructor) OverlapThreshold(threshold float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.config.OverlapThreshold = threshold
	return newRec
}

// MergeGapTolerance sets the maximum vertical gap between tables that
// continue each other.
func (r *Reconstructor) MergeGapTolerance(gap float64) *Reconstructor {
	newRec := r.clone()
	newRec.options.config.MergeGapTolerance = gap
	return newRec
}

// NoSpans disables merged cell detection; every grid position stays a
// cell of its own.
func (r *Reconstructor) NoSpans() *Reconstructor {
	newRec := r.clone()
	newRec.options.config.DetectSpans = false
	return newRec
}

// NoHeaders disables header row detection.
func (r *Reconstructor) NoHeaders() *Reconstructor {
	newRec := r.clone()
	newRec.options.config.DetectHeaders = false
	return newRec
}

// Strategy selects the merge strategy by name. "geometric" and
// "header-aware" are built in; other names are looked up among the
// strategies registered with tables.RegisterStrategy.
//
// Example:
//
//	tables, _, err := gridtab.FromZones(zones...).Strategy("header-aware").Tables()
func (r *Reconstructor) Strategy(name string) *Reconstructor {
	newRec := r.clone()
	newRec.options.strategy = name
	return newRec
}

// Parallel reconstructs up to n zones at a time.
func (r *Reconstructor) Parallel(n int) *Reconstructor {
	newRec := r.clone()
	newRec.options.config.Concurrency = n
	return newRec
}

// NoMerge keeps one table per zone.
func (r *Reconstructor) NoMerge() *Reconstructor {
	newRec := r.clone()
	newRec.options.noMerge = true
	return newRec
}

// Logger sets the logger that receives per-zone debug records.
func (r *Reconstructor) Logger(l *slog.Logger) *Reconstructor {
	newRec := r.clone()
	newRec.options.logger = l
	return newRec
}

// ============================================================================
// Terminal Operations (execute reconstruction and return results)
// ============================================================================

// Tables reconstructs and returns the tables found in the zones.
//
// Returns the tables, any warnings encountered during processing, and an
// error if reconstruction could not run. Zones that cannot form a grid are
// reported as warnings, not errors.
//
// Example:
//
//	tables, warnings, err := gridtab.FromZones(zones...).WithRegions(regions...).Tables()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", gridtab.FormatWarnings(warnings))
//	}
func (r *Reconstructor) Tables() ([]*model.Table, []Warning, error) {
	return r.TablesContext(context.Background())
}

// TablesContext is like Tables but stops early when ctx is cancelled.
func (r *Reconstructor) TablesContext(ctx context.Context) ([]*model.Table, []Warning, error) {
	res, warnings, err := r.resultContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res.Tables, warnings, nil
}

// Result runs reconstruction and returns the full outcome, including the
// per-zone tables and the dropped zones.
func (r *Reconstructor) Result() (*tables.Result, error) {
	res, _, err := r.resultContext(context.Background())
	return res, err
}

// Text reconstructs the tables and renders each as tab-separated rows,
// separated by blank lines.
//
// Example:
//
//	text := gridtab.MustTables(gridtab.FromZones(zone).WithRegions(regions...).Text())
func (r *Reconstructor) Text() (string, []Warning, error) {
	tbls, warnings, err := r.Tables()
	if err != nil {
		return "", nil, err
	}

	parts := make([]string, len(tbls))
	for i, t := range tbls {
		parts[i] = strings.TrimRight(t.GetText(), "\n")
	}
	return strings.Join(parts, "\n\n"), warnings, nil
}

func (r *Reconstructor) resultContext(ctx context.Context) (*tables.Result, []Warning, error) {
	if r.err != nil {
		return nil, nil, r.err
	}

	config := r.options.config
	strategy, err := r.resolveStrategy(config)
	if err != nil {
		return nil, nil, err
	}

	opts := []tables.Option{tables.WithStrategy(strategy)}
	if r.options.logger != nil {
		opts = append(opts, tables.WithLogger(r.options.logger))
	}
	asm, err := tables.NewAssembler(config, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring reconstruction: %w", err)
	}

	src := r.options.textSource()

	var res *tables.Result
	if r.options.noMerge {
		if config.Concurrency > 1 {
			res, err = asm.ReconstructParallel(ctx, r.zones, src)
		} else if err = ctx.Err(); err == nil {
			res = asm.Reconstruct(r.zones, src)
		}
	} else {
		res, err = asm.Assemble(ctx, r.zones, src)
	}
	if err != nil {
		return nil, nil, err
	}

	return res, warningsFor(res), nil
}

// resolveStrategy builds the built-in strategies from the current config so
// tolerance changes apply, and falls back to the registry for other names.
func (r *Reconstructor) resolveStrategy(config tables.Config) (tables.MergeStrategy, error) {
	switch r.options.strategy {
	case "", tables.GeometricStrategyName:
		return tables.NewGeometricStrategy(config), nil
	case tables.HeaderAwareStrategyName:
		return tables.NewHeaderAwareStrategy(config), nil
	default:
		return tables.GetStrategy(r.options.strategy)
	}
}
