// Package tables reconstructs table structure from a zone's detected
// rulings and recognized text.
//
// # Pipeline
//
// Each zone tagged as a table goes through five steps:
//
//  1. [IndexZone] - ordered row and column boundaries from ruling midpoints
//  2. [BuildGrid] - the dense matrix of unit cells between boundaries
//  3. [ResolveSpans] - merged cells where no ruling backs a boundary
//  4. [BindPositional] or [BindSequential] - text attached to cells
//  5. [Score] and [AdvancedScore] - quality of the result
//
// Every step returns new data and leaves its input untouched, so each can
// be exercised on its own. The [Assembler] runs the steps per zone and then
// merges tables that continue each other:
//
//	asm, err := tables.NewAssembler(tables.DefaultConfig())
//	if err != nil {
//	    // invalid configuration
//	}
//	res, err := asm.Assemble(ctx, zones, tables.PositionalText(regions))
//
// Zones that cannot form a grid are reported in [Result].Dropped and the
// run carries on with the others.
//
// # Merged cells
//
// A cell covered by another cell's span keeps its place in the grid with
// RowSpan or ColSpan set to 0, so row and column indices stay stable. Use
// [Anchor] to find the covering cell and [CheckCoverage] to verify that the
// spans tile the grid.
//
// # Merge strategies
//
// Table merging is pluggable through [MergeStrategy]. Strategies are
// registered globally and can be retrieved by name:
//
//	strategy, err := tables.GetStrategy("header-aware")
//
// The package provides:
//
//   - [GeometricStrategy] - adjacency, column count and left-edge tests
//   - [HeaderAwareStrategy] - geometric tests, dropping repeated header rows
//
// # Quality Scoring
//
// The base quality (0-1) combines, over the factors that have data:
//
//   - Grid regularity (30%)
//   - Line-detection confidence (40%)
//   - Content fill ratio (30%)
package tables
