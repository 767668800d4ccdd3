package tables

import (
	"fmt"
	"math"

	"github.com/tsawler/gridtab/model"
)

// ResolveSpans infers merged cells from internal boundaries that no ruling
// backs. The grid from BuildGrid has every possible boundary, so a missing
// ruling between two neighbours means they are one cell.
//
// Horizontal spans are resolved first, then vertical spans over the
// resulting anchors. A region merged in both directions comes out as the
// product of the two 1-D spans; irregular L-shaped merges are not
// reconstructed. The input grid is left untouched.
func ResolveSpans(g *Grid, cfg Config) *Grid {
	out := g.Clone()
	tol := cfg.SpanTolerance

	resolveHorizontal(out, tol)
	resolveVertical(out, tol)

	for r := range out.Cells {
		for c := range out.Cells[r] {
			cell := &out.Cells[r][c]
			if cell.IsSpanning() {
				cell.Bounds = out.spanBBox(r, c, cell.RowSpan, cell.ColSpan)
			}
		}
	}

	return out
}

func resolveHorizontal(g *Grid, tol float64) {
	for r := 0; r < g.RowCount(); r++ {
		for c := 0; c < g.ColCount(); {
			if g.Cells[r][c].IsVoid() {
				c++
				continue
			}

			length := 1
			for k := c + 1; k < g.ColCount(); k++ {
				next := g.Cells[r][k]
				if next.IsVoid() || g.VRuled[r][k] {
					break
				}
				cur := g.UnitBBox(r, k-1)
				nb := g.UnitBBox(r, k)
				if !near(nb.Height, cur.Height, tol) ||
					!near(nb.Top(), cur.Top(), tol) ||
					!near(nb.Left(), cur.Right(), tol) {
					break
				}
				length++
			}

			if length > 1 {
				g.Cells[r][c].ColSpan = length
				for k := c + 1; k < c+length; k++ {
					g.Cells[r][k].ColSpan = 0
				}
			}
			c += length
		}
	}
}

func resolveVertical(g *Grid, tol float64) {
	for c := 0; c < g.ColCount(); c++ {
		for r := 0; r < g.RowCount(); {
			anchor := g.Cells[r][c]
			if anchor.IsVoid() {
				r++
				continue
			}

			width := anchor.ColSpan
			length := 1
			for k := r + 1; k < g.RowCount(); k++ {
				next := g.Cells[k][c]
				if next.IsVoid() || next.ColSpan != width || g.ruledAcross(k, c, width) {
					break
				}
				cur := g.spanBBox(k-1, c, 1, width)
				nb := g.spanBBox(k, c, 1, width)
				if !near(nb.Width, cur.Width, tol) ||
					!near(nb.Left(), cur.Left(), tol) ||
					!near(nb.Top(), cur.Bottom(), tol) {
					break
				}
				length++
			}

			if length > 1 {
				g.Cells[r][c].RowSpan = length
				for k := r + 1; k < r+length; k++ {
					for cc := c; cc < c+width; cc++ {
						g.Cells[k][cc].RowSpan = 0
					}
					// The covered row anchor no longer carries a span of its own
					g.Cells[k][c].ColSpan = 1
				}
			}
			r += length
		}
	}
}

// ruledAcross reports whether any unit edge along Rows[row] between columns
// col and col+width-1 carries a ruling.
func (g *Grid) ruledAcross(row, col, width int) bool {
	for cc := col; cc < col+width && cc < g.ColCount(); cc++ {
		if g.HRuled[row][cc] {
			return true
		}
	}
	return false
}

// spanBBox returns the rectangle covered by a span anchored at (row, col)
func (g *Grid) spanBBox(row, col, rowSpan, colSpan int) model.BBox {
	r2 := row + rowSpan
	c2 := col + colSpan
	if r2 > g.RowCount() {
		r2 = g.RowCount()
	}
	if c2 > g.ColCount() {
		c2 = g.ColCount()
	}
	return model.BBox{
		X:      g.Cols[col],
		Y:      g.Rows[row],
		Width:  g.Cols[c2] - g.Cols[col],
		Height: g.Rows[r2] - g.Rows[row],
	}
}

// Anchor returns the position of the non-void cell whose span covers the
// unit position (row, col).
func Anchor(rows [][]model.Cell, row, col int) (int, int, bool) {
	for r := row; r >= 0; r-- {
		if r >= len(rows) {
			continue
		}
		for c := col; c >= 0; c-- {
			if c >= len(rows[r]) {
				continue
			}
			if rows[r][c].Covers(row, col) {
				return r, c, true
			}
		}
	}
	return -1, -1, false
}

// CheckCoverage verifies the span invariant: every unit position lies inside
// exactly one anchor's rectangle and no anchor reaches outside its rows.
func CheckCoverage(rows [][]model.Cell) error {
	counts := make([][]int, len(rows))
	for r := range rows {
		counts[r] = make([]int, len(rows[r]))
	}

	for r, row := range rows {
		for c, cell := range row {
			if cell.IsVoid() {
				continue
			}
			for rr := r; rr < r+cell.RowSpan; rr++ {
				for cc := c; cc < c+cell.ColSpan; cc++ {
					if rr >= len(rows) || cc >= len(rows[rr]) {
						return fmt.Errorf("span at (%d,%d) reaches outside the grid at (%d,%d)", r, c, rr, cc)
					}
					counts[rr][cc]++
				}
			}
		}
	}

	for r := range counts {
		for c, n := range counts[r] {
			switch {
			case n == 0:
				return fmt.Errorf("unit position (%d,%d) is not covered", r, c)
			case n > 1:
				return fmt.Errorf("unit position (%d,%d) is covered %d times", r, c, n)
			}
		}
	}

	return nil
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
