package tables

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/gridtab/model"
)

// Strategy names
const (
	GeometricStrategyName   = "geometric"
	HeaderAwareStrategyName = "header-aware"
)

// MergeCheck is the outcome of the three geometric merge tests.
type MergeCheck struct {
	Gap               float64 // upper table's bottom to lower table's top
	Adjacent          bool
	ColumnsCompatible bool
	Aligned           bool
}

// OK reports whether every test passed.
func (m MergeCheck) OK() bool {
	return m.Adjacent && m.ColumnsCompatible && m.Aligned
}

// GeometricStrategy merges tables that sit directly above one another with
// compatible column counts and aligned left edges.
type GeometricStrategy struct {
	config Config
}

// NewGeometricStrategy creates a geometric strategy using the merge
// tolerances from config.
func NewGeometricStrategy(config Config) *GeometricStrategy {
	return &GeometricStrategy{config: config}
}

// Name returns the strategy's identifier ("geometric").
func (s *GeometricStrategy) Name() string {
	return GeometricStrategyName
}

// Check runs the adjacency, column and alignment tests on a pair.
func (s *GeometricStrategy) Check(a, b *model.Table) MergeCheck {
	upper, lower := orderVertically(a, b)

	gap := lower.BBox.Top() - upper.BBox.Bottom()
	colDelta := upper.Structure.ColCount - lower.Structure.ColCount
	if colDelta < 0 {
		colDelta = -colDelta
	}

	return MergeCheck{
		Gap:               gap,
		Adjacent:          math.Abs(gap) < s.config.MergeGapTolerance,
		ColumnsCompatible: colDelta <= s.config.MergeMaxColumnDelta,
		Aligned:           math.Abs(upper.BBox.Left()-lower.BBox.Left()) < s.config.MergeLeftTolerance,
	}
}

// Mergeable reports whether all three tests pass.
func (s *GeometricStrategy) Mergeable(a, b *model.Table) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	return s.Check(a, b).OK()
}

// Merge stacks the upper table's rows over the lower table's.
func (s *GeometricStrategy) Merge(a, b *model.Table) *model.Table {
	upper, lower := orderVertically(a, b)
	return stack(upper, lower, 0)
}

// HeaderAwareStrategy applies the geometric tests and drops the lower
// table's first row when it repeats the upper table's header, as happens
// when a table continues on the next page.
type HeaderAwareStrategy struct {
	geometric *GeometricStrategy
}

// NewHeaderAwareStrategy creates a header-aware strategy.
func NewHeaderAwareStrategy(config Config) *HeaderAwareStrategy {
	return &HeaderAwareStrategy{geometric: NewGeometricStrategy(config)}
}

// Name returns the strategy's identifier ("header-aware").
func (s *HeaderAwareStrategy) Name() string {
	return HeaderAwareStrategyName
}

// Mergeable reports whether the geometric tests pass.
func (s *HeaderAwareStrategy) Mergeable(a, b *model.Table) bool {
	return s.geometric.Mergeable(a, b)
}

// Merge stacks the tables, skipping a repeated header row.
func (s *HeaderAwareStrategy) Merge(a, b *model.Table) *model.Table {
	upper, lower := orderVertically(a, b)
	skip := 0
	if repeatsHeader(upper, lower) {
		skip = 1
	}
	return stack(upper, lower, skip)
}

// repeatsHeader reports whether lower's first row carries upper's header
// labels and can be removed without cutting a vertical span.
func repeatsHeader(upper, lower *model.Table) bool {
	if len(upper.Headers) == 0 || len(lower.Rows) < 2 {
		return false
	}
	var labels []string
	for _, cell := range lower.Rows[0] {
		if cell.IsVoid() {
			continue
		}
		if cell.RowSpan > 1 {
			return false
		}
		labels = append(labels, cell.Text)
	}
	if len(labels) != len(upper.Headers) {
		return false
	}
	for i := range labels {
		if !strings.EqualFold(strings.TrimSpace(labels[i]), strings.TrimSpace(upper.Headers[i])) {
			return false
		}
	}
	return true
}

// stack builds the merged table: upper's rows followed by lower's rows from
// skip on, with lower's row indices rebased.
func stack(upper, lower *model.Table, skip int) *model.Table {
	offset := upper.RowCount()

	rows := make([][]model.Cell, 0, offset+lower.RowCount()-skip)
	for _, row := range upper.Rows {
		rows = append(rows, append([]model.Cell(nil), row...))
	}
	for _, row := range lower.Rows[skip:] {
		rebased := make([]model.Cell, len(row))
		for j, cell := range row {
			cell.Row = cell.Row - skip + offset
			cell.IsHeader = false
			rebased[j] = cell
		}
		rows = append(rows, rebased)
	}

	merged := &model.Table{
		ID:               uuid.NewString(),
		ZoneIndex:        -1,
		BBox:             upper.BBox.Union(lower.BBox),
		Rows:             rows,
		Headers:          append([]string(nil), upper.Headers...),
		Quality:          (upper.Quality + lower.Quality) / 2,
		AdvancedQuality:  (upper.AdvancedQuality + lower.AdvancedQuality) / 2,
		Confidence:       (upper.Confidence + lower.Confidence) / 2,
		ExtractionMethod: mergeMethod(upper.ExtractionMethod, lower.ExtractionMethod),
		SourceIDs:        append(lineage(upper), lineage(lower)...),
		SourceZones:      append(sourceZones(upper), sourceZones(lower)...),
	}
	merged.Structure = model.Structure{
		RowCount:  len(rows),
		ColCount:  merged.ColCount(),
		HasHeader: upper.Structure.HasHeader,
		IsRegular: GridRegularity(rows).Value == 1,
	}

	return merged
}

// mergeMethod keeps the sequential marker when either side was bound
// sequentially, then records the merge.
func mergeMethod(a, b model.ExtractionMethod) model.ExtractionMethod {
	m := a
	if b.IsSequential() && !a.IsSequential() {
		m = b
	}
	if m.IsMerged() {
		return m
	}
	return m.Merged()
}

// lineage returns the per-zone table IDs a table was built from.
func lineage(t *model.Table) []string {
	if len(t.SourceIDs) > 0 {
		return append([]string(nil), t.SourceIDs...)
	}
	if t.ID == "" {
		return nil
	}
	return []string{t.ID}
}

// sourceZones returns the zone indices a table was built from.
func sourceZones(t *model.Table) []int {
	if len(t.SourceZones) > 0 {
		return append([]int(nil), t.SourceZones...)
	}
	if t.ZoneIndex < 0 {
		return nil
	}
	return []int{t.ZoneIndex}
}

// orderVertically returns the table starting higher on the page first.
// Tables sharing a top edge are ordered as sortTables orders them.
func orderVertically(a, b *model.Table) (*model.Table, *model.Table) {
	if tableBefore(b, a) {
		return b, a
	}
	return a, b
}

// MergeAll merges candidate tables until no pair qualifies. Chains of
// adjacent tables collapse into one regardless of input order. The same
// table passed twice counts once, inputs are never modified, and running
// MergeAll on its own output returns it unchanged.
func MergeAll(tables []*model.Table, strategy MergeStrategy) []*model.Table {
	if strategy == nil {
		strategy = NewGeometricStrategy(DefaultConfig())
	}

	work := dedupe(tables)
	sortTables(work)

	for {
		i, j, ok := firstMergeable(work, strategy)
		if !ok {
			return work
		}
		merged := strategy.Merge(work[i], work[j])
		next := make([]*model.Table, 0, len(work)-1)
		for k, t := range work {
			if k != i && k != j {
				next = append(next, t)
			}
		}
		work = append(next, merged)
		sortTables(work)
	}
}

func firstMergeable(tables []*model.Table, strategy MergeStrategy) (int, int, bool) {
	for i := 0; i < len(tables); i++ {
		for j := i + 1; j < len(tables); j++ {
			if strategy.Mergeable(tables[i], tables[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func dedupe(tables []*model.Table) []*model.Table {
	seen := make(map[string]bool, len(tables))
	seenPtr := make(map[*model.Table]bool, len(tables))
	out := make([]*model.Table, 0, len(tables))
	for _, t := range tables {
		if t == nil || seenPtr[t] {
			continue
		}
		seenPtr[t] = true
		if t.ID != "" {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
		}
		out = append(out, t)
	}
	return out
}

// sortTables orders by top edge, then left edge, then bottom and right
// edges, then source zones. IDs only separate tables that agree on all of
// these.
func sortTables(tables []*model.Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		return tableBefore(tables[i], tables[j])
	})
}

func tableBefore(a, b *model.Table) bool {
	ab, bb := a.BBox, b.BBox
	switch {
	case ab.Top() != bb.Top():
		return ab.Top() < bb.Top()
	case ab.Left() != bb.Left():
		return ab.Left() < bb.Left()
	case ab.Bottom() != bb.Bottom():
		return ab.Bottom() < bb.Bottom()
	case ab.Right() != bb.Right():
		return ab.Right() < bb.Right()
	}
	if c := slices.Compare(sourceZones(a), sourceZones(b)); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}
