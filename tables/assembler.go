package tables

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/gridtab/model"
)

// ZoneFailure records a zone left out of the output and why.
type ZoneFailure struct {
	Zone int
	Err  error
}

// Result is the outcome of reconstructing a set of zones. Dropped zones are
// an expected partial result, not a failure of the run.
type Result struct {
	// Tables after merging (equal to ZoneTables when merging is skipped)
	Tables []*model.Table

	// ZoneTables holds one table per reconstructed zone, in zone order
	ZoneTables []*model.Table

	Dropped     []ZoneFailure
	Skipped     int // zones not tagged as tables
	Ambiguities []Ambiguity
	Unplaced    int // text fragments or tokens that found no cell
}

// Assembler runs the per-zone pipeline and the cross-zone merge.
type Assembler struct {
	config   Config
	strategy MergeStrategy
	logger   *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithStrategy replaces the merge strategy.
func WithStrategy(s MergeStrategy) Option {
	return func(a *Assembler) {
		if s != nil {
			a.strategy = s
		}
	}
}

// WithLogger sets the logger used for per-zone debug records.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssembler creates an assembler. The default merge strategy is the
// geometric one built from config, and logging is discarded.
func NewAssembler(config Config, opts ...Option) (*Assembler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	a := &Assembler{
		config:   config,
		strategy: NewGeometricStrategy(config),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("module", "tables")
	return a, nil
}

// Config returns the assembler's configuration.
func (a *Assembler) Config() Config {
	return a.config
}

// Strategy returns the merge strategy in use.
func (a *Assembler) Strategy() MergeStrategy {
	return a.strategy
}

// zoneOutcome is the per-zone result collected at fan-in
type zoneOutcome struct {
	table   *model.Table
	report  BindReport
	err     error
	skipped bool
}

// ReconstructZone runs boundary indexing, grid building, span inference,
// text binding and scoring for one zone.
func (a *Assembler) ReconstructZone(index int, zone model.Zone, text ZoneText) (*model.Table, BindReport, error) {
	b, err := IndexZone(zone, a.config)
	if err != nil {
		var ge *GeometryError
		if errors.As(err, &ge) {
			ge.Zone = index
		}
		a.logger.Debug("zone dropped", "zone", index, "error", err)
		return nil, BindReport{}, err
	}

	grid := BuildGrid(b, a.config)
	a.logger.Debug("grid built", "zone", index, "rows", grid.RowCount(), "cols", grid.ColCount(), "lines", len(grid.Lines))

	if a.config.DetectSpans {
		grid = ResolveSpans(grid, a.config)
		a.logger.Debug("spans resolved", "zone", index, "spanning", countSpanning(grid))
	}

	// Without a blob there is nothing to deal out; the cells stay empty and
	// the table is not marked as approximate.
	var report BindReport
	if text.Positional() || strings.TrimSpace(text.Blob) == "" {
		grid, report = BindPositional(grid, text.Regions, a.config)
	} else {
		grid, report = BindSequential(grid, text.Blob, a.config)
	}
	a.logger.Debug("text bound", "zone", index, "method", report.Method,
		"bound", report.Bound, "unplaced", report.Unplaced, "ambiguous", len(report.Ambiguities))

	table := a.buildTable(index, grid, report.Method)
	a.logger.Debug("zone reconstructed", "zone", index, "table", table.ID, "quality", table.Quality)

	return table, report, nil
}

// Reconstruct processes the zones one after another.
func (a *Assembler) Reconstruct(zones []model.Zone, src TextSource) *Result {
	outcomes := make([]zoneOutcome, len(zones))
	for i, zone := range zones {
		outcomes[i] = a.reconstructOne(i, zone, src)
	}
	return collect(outcomes)
}

// ReconstructParallel processes zones concurrently, at most
// config.Concurrency at a time. Output order matches Reconstruct. The only
// error is the context's.
func (a *Assembler) ReconstructParallel(ctx context.Context, zones []model.Zone, src TextSource) (*Result, error) {
	outcomes := make([]zoneOutcome, len(zones))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Concurrency)

	for i, zone := range zones {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = a.reconstructOne(i, zone, src)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collect(outcomes), nil
}

// Merge runs the merge strategy over the tables to a fixed point.
func (a *Assembler) Merge(tables []*model.Table) []*model.Table {
	merged := MergeAll(tables, a.strategy)
	a.logger.Debug("tables merged", "strategy", a.strategy.Name(), "in", len(tables), "out", len(merged))
	return merged
}

// Assemble reconstructs every table zone and merges the results.
func (a *Assembler) Assemble(ctx context.Context, zones []model.Zone, src TextSource) (*Result, error) {
	var res *Result
	if a.config.Concurrency > 1 {
		var err error
		if res, err = a.ReconstructParallel(ctx, zones, src); err != nil {
			return nil, err
		}
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res = a.Reconstruct(zones, src)
	}
	res.Tables = a.Merge(res.ZoneTables)
	return res, nil
}

func (a *Assembler) reconstructOne(index int, zone model.Zone, src TextSource) zoneOutcome {
	if !zone.IsTable() {
		return zoneOutcome{skipped: true}
	}
	if src == nil {
		src = NoText{}
	}
	table, report, err := a.ReconstructZone(index, zone, src.TextFor(index, zone))
	return zoneOutcome{table: table, report: report, err: err}
}

func collect(outcomes []zoneOutcome) *Result {
	res := &Result{}
	for i, o := range outcomes {
		switch {
		case o.skipped:
			res.Skipped++
		case o.err != nil:
			res.Dropped = append(res.Dropped, ZoneFailure{Zone: i, Err: o.err})
		default:
			res.ZoneTables = append(res.ZoneTables, o.table)
			res.Ambiguities = append(res.Ambiguities, o.report.Ambiguities...)
			res.Unplaced += o.report.Unplaced
		}
	}
	res.Tables = res.ZoneTables
	return res
}

// buildTable wraps a bound grid into a scored table. The grid is owned by
// the table from here on.
func (a *Assembler) buildTable(index int, grid *Grid, method model.ExtractionMethod) *model.Table {
	t := &model.Table{
		ID:               uuid.NewString(),
		ZoneIndex:        index,
		BBox:             grid.Bounds,
		Rows:             grid.Cells,
		ExtractionMethod: method,
	}

	if a.config.DetectHeaders {
		if labels, ok := headerLabels(t.Rows); ok {
			for c := range t.Rows[0] {
				if !t.Rows[0][c].IsVoid() {
					t.Rows[0][c].IsHeader = true
				}
			}
			t.Headers = labels
		}
	}

	t.Structure = model.Structure{
		RowCount:  grid.RowCount(),
		ColCount:  grid.ColCount(),
		HasHeader: len(t.Headers) > 0,
		IsRegular: GridRegularity(t.Rows).Value == 1,
	}
	t.Confidence = meanConfidence(t.Rows)
	t.Quality = Score(t, grid.Lines).Score
	t.AdvancedQuality = AdvancedScore(t, grid.Lines).Score

	return t
}

// headerLabels returns row 0's texts when it reads as a header: the table
// has a body, and every anchor in row 0 holds non-numeric text.
func headerLabels(rows [][]model.Cell) ([]string, bool) {
	if len(rows) < 2 {
		return nil, false
	}
	var labels []string
	for _, cell := range rows[0] {
		if cell.IsVoid() {
			continue
		}
		text := strings.TrimSpace(cell.Text)
		if text == "" || IsNumeric(text) {
			return nil, false
		}
		labels = append(labels, text)
	}
	return labels, len(labels) > 0
}

func meanConfidence(rows [][]model.Cell) float64 {
	sum, n := 0.0, 0
	for _, row := range rows {
		for _, cell := range row {
			if !cell.IsVoid() {
				sum += cell.Confidence
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func countSpanning(g *Grid) int {
	n := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if cell.IsSpanning() {
				n++
			}
		}
	}
	return n
}
