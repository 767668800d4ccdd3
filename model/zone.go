package model

import "math"

// Orientation tells whether a ruling runs along the X or the Y axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Line is a detected ruling segment. Lines are immutable once detected
// and belong to the zone that produced them.
type Line struct {
	Orientation Orientation
	X1, Y1      float64
	X2, Y2      float64
	Confidence  float64 // Detection confidence (0-1)
}

// HLine builds a horizontal ruling at y running from x1 to x2.
func HLine(y, x1, x2, confidence float64) Line {
	return Line{Orientation: Horizontal, X1: x1, Y1: y, X2: x2, Y2: y, Confidence: confidence}
}

// VLine builds a vertical ruling at x running from y1 to y2.
func VLine(x, y1, y2, confidence float64) Line {
	return Line{Orientation: Vertical, X1: x, Y1: y1, X2: x, Y2: y2, Confidence: confidence}
}

// Midpoint returns the point halfway between the endpoints.
func (l Line) Midpoint() Point {
	return Point{X: (l.X1 + l.X2) / 2, Y: (l.Y1 + l.Y2) / 2}
}

// Position returns the coordinate that the ruling separates on: the
// midpoint Y of a horizontal line or the midpoint X of a vertical one.
func (l Line) Position() float64 {
	mid := l.Midpoint()
	if l.Orientation == Horizontal {
		return mid.Y
	}
	return mid.X
}

// Extent returns the span of the ruling along its own direction.
func (l Line) Extent() (lo, hi float64) {
	if l.Orientation == Horizontal {
		return math.Min(l.X1, l.X2), math.Max(l.X1, l.X2)
	}
	return math.Min(l.Y1, l.Y2), math.Max(l.Y1, l.Y2)
}

// ZoneKind classifies a detected page region.
type ZoneKind string

const (
	KindTable ZoneKind = "table"
	KindText  ZoneKind = "text"
)

// Zone is a candidate table region produced by the upstream detector.
type Zone struct {
	BBox  BBox
	Kind  ZoneKind
	Lines []Line
}

// IsTable reports whether the zone should enter table reconstruction.
func (z Zone) IsTable() bool {
	return z.Kind == KindTable
}

// LinesOf returns the zone's rulings with the given orientation.
func (z Zone) LinesOf(o Orientation) []Line {
	var out []Line
	for _, l := range z.Lines {
		if l.Orientation == o {
			out = append(out, l)
		}
	}
	return out
}

// TextRegion is a piece of recognized text with its position on the page.
type TextRegion struct {
	Text       string
	BBox       BBox
	Confidence float64 // OCR confidence (0-1)
}
