package tables

import (
	"math"
	"sort"

	"github.com/tsawler/gridtab/model"
)

// Grid is the dense cell matrix built from a zone's boundaries.
//
// Cells[r][c] is the unit cell between Rows[r]..Rows[r+1] and
// Cols[c]..Cols[c+1]. VRuled[r][j] tells whether a detected vertical ruling
// separates the cells on either side of Cols[j] within row r, and HRuled[i][c]
// whether a horizontal ruling runs along Rows[i] within column c. Zone
// edges are always ruled.
type Grid struct {
	Bounds model.BBox
	Rows   []float64
	Cols   []float64
	Cells  [][]model.Cell
	VRuled [][]bool
	HRuled [][]bool

	// Rulings that produced the boundaries
	Lines []model.Line
}

// RowCount returns the number of unit rows
func (g *Grid) RowCount() int {
	return len(g.Cells)
}

// ColCount returns the number of unit columns
func (g *Grid) ColCount() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// Cell returns the cell at (row, col), or nil when out of range
func (g *Grid) Cell(row, col int) *model.Cell {
	if row < 0 || row >= len(g.Cells) || col < 0 || col >= len(g.Cells[row]) {
		return nil
	}
	return &g.Cells[row][col]
}

// UnitBBox returns the rectangle of the unit position, ignoring spans
func (g *Grid) UnitBBox(row, col int) model.BBox {
	if row < 0 || row >= g.RowCount() || col < 0 || col >= g.ColCount() {
		return model.BBox{}
	}
	return model.BBox{
		X:      g.Cols[col],
		Y:      g.Rows[row],
		Width:  g.Cols[col+1] - g.Cols[col],
		Height: g.Rows[row+1] - g.Rows[row],
	}
}

// Clone returns a deep copy so later stages never write into their input.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		Bounds: g.Bounds,
		Rows:   append([]float64(nil), g.Rows...),
		Cols:   append([]float64(nil), g.Cols...),
		Lines:  append([]model.Line(nil), g.Lines...),
		Cells:  make([][]model.Cell, len(g.Cells)),
		VRuled: make([][]bool, len(g.VRuled)),
		HRuled: make([][]bool, len(g.HRuled)),
	}
	for i, row := range g.Cells {
		c.Cells[i] = append([]model.Cell(nil), row...)
	}
	for i, row := range g.VRuled {
		c.VRuled[i] = append([]bool(nil), row...)
	}
	for i, row := range g.HRuled {
		c.HRuled[i] = append([]bool(nil), row...)
	}
	return c
}

// BuildGrid turns boundaries into an (N-1)x(M-1) matrix of unit cells with
// span 1, empty text and the baseline confidence.
func BuildGrid(b *Boundaries, cfg Config) *Grid {
	rows, cols := b.RowCount(), b.ColCount()

	g := &Grid{
		Bounds: b.Zone,
		Rows:   append([]float64(nil), b.Rows...),
		Cols:   append([]float64(nil), b.Cols...),
		Lines:  b.Lines(),
		Cells:  model.NewTable(rows, cols).Rows,
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := &g.Cells[r][c]
			cell.Bounds = g.UnitBBox(r, c)
			cell.Confidence = cfg.BaselineConfidence
		}
	}

	g.VRuled = make([][]bool, rows)
	for r := 0; r < rows; r++ {
		g.VRuled[r] = make([]bool, len(g.Cols))
		for j := range g.Cols {
			if j == 0 || j == len(g.Cols)-1 {
				g.VRuled[r][j] = true
				continue
			}
			g.VRuled[r][j] = isRuled(b.ColLines[j], g.Rows[r], g.Rows[r+1], cfg.RulingCoverage)
		}
	}

	g.HRuled = make([][]bool, len(g.Rows))
	for i := range g.Rows {
		g.HRuled[i] = make([]bool, cols)
		for c := 0; c < cols; c++ {
			if i == 0 || i == len(g.Rows)-1 {
				g.HRuled[i][c] = true
				continue
			}
			g.HRuled[i][c] = isRuled(b.RowLines[i], g.Cols[c], g.Cols[c+1], cfg.RulingCoverage)
		}
	}

	return g
}

// isRuled reports whether the rulings cover at least the given fraction of
// the edge running from lo to hi.
func isRuled(lines []model.Line, lo, hi, coverage float64) bool {
	length := hi - lo
	if length <= 0 || len(lines) == 0 {
		return false
	}
	return coveredLength(lines, lo, hi) >= coverage*length
}

// coveredLength measures how much of [lo, hi] the rulings' extents cover,
// counting overlapping segments once.
func coveredLength(lines []model.Line, lo, hi float64) float64 {
	type span struct{ lo, hi float64 }
	spans := make([]span, 0, len(lines))
	for _, l := range lines {
		a, b := l.Extent()
		a, b = math.Max(a, lo), math.Min(b, hi)
		if b > a {
			spans = append(spans, span{a, b})
		}
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	total := 0.0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.lo <= cur.hi {
			cur.hi = math.Max(cur.hi, s.hi)
			continue
		}
		total += cur.hi - cur.lo
		cur = s
	}
	total += cur.hi - cur.lo

	return total
}
