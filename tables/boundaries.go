package tables

import (
	"sort"

	"github.com/tsawler/gridtab/model"
)

// Boundaries holds the ordered row and column coordinates derived from a
// zone's rulings. The first and last entry on each axis are the zone's edges.
type Boundaries struct {
	Zone model.BBox

	// Y coordinates of row boundaries, strictly increasing
	Rows []float64

	// X coordinates of column boundaries, strictly increasing
	Cols []float64

	// RowLines[i] are the horizontal rulings that produced Rows[i]
	RowLines [][]model.Line

	// ColLines[j] are the vertical rulings that produced Cols[j]
	ColLines [][]model.Line
}

// RowCount returns the number of unit rows the boundaries delimit
func (b *Boundaries) RowCount() int {
	if len(b.Rows) <= 1 {
		return 0
	}
	return len(b.Rows) - 1
}

// ColCount returns the number of unit columns the boundaries delimit
func (b *Boundaries) ColCount() int {
	if len(b.Cols) <= 1 {
		return 0
	}
	return len(b.Cols) - 1
}

// Lines returns every ruling that contributed a boundary.
func (b *Boundaries) Lines() []model.Line {
	var out []model.Line
	for _, ls := range b.RowLines {
		out = append(out, ls...)
	}
	for _, ls := range b.ColLines {
		out = append(out, ls...)
	}
	return out
}

// IndexZone derives row and column boundaries from a zone's rulings.
//
// Horizontal rulings whose midpoint lies strictly inside the zone's vertical
// extent contribute a row boundary at that midpoint; vertical rulings do the
// same for columns. Coordinates within cfg.BoundaryEpsilon of each other
// collapse into one. An axis is bracketed by the zone edges only when at
// least one ruling of that orientation lies within the zone; an axis with no
// rulings has no boundaries. When either axis ends up with fewer than two
// boundaries the zone cannot form a grid and a *GeometryError is returned.
func IndexZone(zone model.Zone, cfg Config) (*Boundaries, error) {
	b := &Boundaries{Zone: zone.BBox}

	if !zone.BBox.IsValid() {
		// A collapsed zone has a single coordinate on its flat axis.
		rows, cols := 2, 2
		if zone.BBox.Height <= 0 {
			rows = 1
		}
		if zone.BBox.Width <= 0 {
			cols = 1
		}
		return nil, &GeometryError{Zone: -1, RowBoundaries: rows, ColBoundaries: cols}
	}

	b.Rows, b.RowLines = axisBoundaries(zone.LinesOf(model.Horizontal),
		zone.BBox.Top(), zone.BBox.Bottom(), cfg.BoundaryEpsilon)
	b.Cols, b.ColLines = axisBoundaries(zone.LinesOf(model.Vertical),
		zone.BBox.Left(), zone.BBox.Right(), cfg.BoundaryEpsilon)

	if len(b.Rows) < 2 || len(b.Cols) < 2 {
		return nil, &GeometryError{Zone: -1, RowBoundaries: len(b.Rows), ColBoundaries: len(b.Cols)}
	}

	return b, nil
}

// alignedGroup is a run of rulings sharing one boundary position
type alignedGroup struct {
	position float64
	lines    []model.Line
}

// axisBoundaries clusters ruling positions inside (lo, hi) and brackets them
// with the zone edges. Rulings on or within eps of an edge support the axis
// and are attached to that edge without adding a boundary.
func axisBoundaries(lines []model.Line, lo, hi, eps float64) ([]float64, [][]model.Line) {
	inside := make([]model.Line, 0, len(lines))
	for _, l := range lines {
		if p := l.Position(); p >= lo-eps && p <= hi+eps {
			inside = append(inside, l)
		}
	}

	// An axis with no ruling at all carries no structure.
	if len(inside) == 0 {
		return nil, nil
	}

	sort.SliceStable(inside, func(i, j int) bool {
		return inside[i].Position() < inside[j].Position()
	})

	var groups []alignedGroup
	for _, l := range inside {
		pos := l.Position()
		if n := len(groups); n > 0 && pos-groups[n-1].position <= eps {
			g := &groups[n-1]
			g.lines = append(g.lines, l)
			// Update position to running average
			g.position += (pos - g.position) / float64(len(g.lines))
			continue
		}
		groups = append(groups, alignedGroup{position: pos, lines: []model.Line{l}})
	}

	positions := []float64{lo}
	owners := [][]model.Line{nil}
	var closing []model.Line
	for _, g := range groups {
		switch {
		case g.position-lo <= eps:
			owners[0] = append(owners[0], g.lines...)
		case hi-g.position <= eps:
			closing = append(closing, g.lines...)
		default:
			positions = append(positions, g.position)
			owners = append(owners, g.lines)
		}
	}

	positions = append(positions, hi)
	owners = append(owners, closing)

	return positions, owners
}
