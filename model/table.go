package model

import "strings"

// ExtractionMethod records how a table's content was produced.
type ExtractionMethod string

const (
	// MethodPositional means text was bound to cells by geometric overlap.
	MethodPositional ExtractionMethod = "ruling-grid/positional"

	// MethodSequential means a flat text blob was dealt into cells in
	// row-major order. The content is an approximation.
	MethodSequential ExtractionMethod = "ruling-grid/sequential"

	mergedSuffix = "+merged"
)

// Merged returns the method with the merge marker appended.
func (m ExtractionMethod) Merged() ExtractionMethod {
	return m + mergedSuffix
}

// IsMerged reports whether the table came out of at least one merge.
func (m ExtractionMethod) IsMerged() bool {
	return strings.Contains(string(m), mergedSuffix)
}

// IsSequential reports whether any part of the table was bound sequentially.
func (m ExtractionMethod) IsSequential() bool {
	return strings.Contains(string(m), string(MethodSequential))
}

// TextAlignment represents text alignment
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Cell represents a table cell.
//
// Row and Col index the unit grid. A RowSpan or ColSpan of 0 marks a cell
// that is covered by a spanning anchor elsewhere; such cells keep their
// place in Rows so that row and column indices stay stable.
type Cell struct {
	Row        int
	Col        int
	RowSpan    int
	ColSpan    int
	Bounds     BBox
	Text       string
	Confidence float64
	IsHeader   bool
	Alignment  TextAlignment
}

// IsVoid reports whether the cell is subsumed by another cell's span.
func (c Cell) IsVoid() bool {
	return c.RowSpan == 0 || c.ColSpan == 0
}

// IsSpanning reports whether the cell is an anchor covering more than one
// unit position.
func (c Cell) IsSpanning() bool {
	return !c.IsVoid() && (c.RowSpan > 1 || c.ColSpan > 1)
}

// Covers reports whether the anchor's span rectangle includes (row, col).
func (c Cell) Covers(row, col int) bool {
	if c.IsVoid() {
		return false
	}
	return row >= c.Row && row < c.Row+c.RowSpan &&
		col >= c.Col && col < c.Col+c.ColSpan
}

// Structure summarises the shape of a table.
type Structure struct {
	RowCount  int
	ColCount  int
	HasHeader bool
	IsRegular bool // every row has the same number of non-void cells
}

// Table represents a reconstructed table with cells organized in rows and columns
type Table struct {
	ID               string
	ZoneIndex        int // index of the source zone, -1 for merged tables
	BBox             BBox
	Rows             [][]Cell
	Headers          []string
	Structure        Structure
	Quality          float64 // base quality score (0-1)
	AdvancedQuality  float64 // quality blended with structural checks (0-1)
	Confidence       float64 // mean confidence of non-void cells (0-1)
	ExtractionMethod ExtractionMethod
	SourceIDs        []string // IDs of the per-zone tables merged into this one
	SourceZones      []int    // zone indices of those tables, in the same order
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows:      make([][]Cell, rows),
		ZoneIndex: -1,
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Rows[i][j] = Cell{
				Row:     i,
				Col:     j,
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of unit columns in the widest row
func (t *Table) ColCount() int {
	n := 0
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// Anchors returns the non-void cells in row-major order.
func (t *Table) Anchors() []Cell {
	var out []Cell
	for _, row := range t.Rows {
		for _, cell := range row {
			if !cell.IsVoid() {
				out = append(out, cell)
			}
		}
	}
	return out
}

// GetText renders the non-void cells as tab separated lines.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		first := true
		for _, cell := range row {
			if cell.IsVoid() {
				continue
			}
			if !first {
				sb.WriteString("\t")
			}
			sb.WriteString(cell.Text)
			first = false
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := *t
	c.Rows = make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		c.Rows[i] = append([]Cell(nil), row...)
	}
	c.Headers = append([]string(nil), t.Headers...)
	c.SourceIDs = append([]string(nil), t.SourceIDs...)
	c.SourceZones = append([]int(nil), t.SourceZones...)
	return &c
}
