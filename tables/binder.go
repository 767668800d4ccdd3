package tables

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/rtree"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/gridtab/model"
)

const (
	numericBonus     = 0.1
	capitalizedBonus = 0.05
	emptyCeiling     = 0.1
	singleCharCeil   = 0.2
	maxConfidence    = 0.95

	// overlaps closer than this are treated as equal
	overlapTieEpsilon = 1e-9
)

var (
	numericPattern     = regexp.MustCompile(`^[+-]?[$€£]?\d+([.,]\d+)*%?$`)
	capitalizedPattern = regexp.MustCompile(`^\p{Lu}\p{Ll}+`)
)

// Ambiguity records a text region whose best overlap was shared by more
// than one cell. The tie is broken in row-major order.
type Ambiguity struct {
	Text  string
	Cells [][2]int
}

// BindReport describes what happened while binding text to a grid.
type BindReport struct {
	Method      model.ExtractionMethod
	Bound       int // fragments or tokens placed in a cell
	Unplaced    int // fragments or tokens that found no cell
	Ambiguities []Ambiguity
}

// cellText accumulates the content bound to one anchor
type cellText struct {
	parts      []string
	confidence float64
	weight     int
	box        model.BBox
}

func (ct *cellText) add(text string, confidence float64, box model.BBox) {
	if ct.weight == 0 {
		ct.box = box
	} else {
		ct.box = ct.box.Union(box)
	}
	ct.parts = append(ct.parts, text)
	ct.confidence += confidence
	ct.weight++
}

type candidate struct {
	row, col int
	overlap  float64
}

// BindPositional assigns positioned text to the grid's non-void cells.
//
// A region goes to the cell covering the largest share of its area,
// provided that share reaches cfg.OverlapThreshold. When a second cell also
// qualifies and is still empty, the region's words are split between the two
// in proportion to their overlap. A cell's confidence starts from the mean
// OCR confidence of what it received. The input grid is not modified.
func BindPositional(g *Grid, regions []model.TextRegion, cfg Config) (*Grid, BindReport) {
	out := g.Clone()
	report := BindReport{Method: model.MethodPositional}

	var index rtree.RTreeG[[2]int]
	for r, row := range out.Cells {
		for c, cell := range row {
			if !cell.IsVoid() {
				index.Insert(cell.Bounds.Min(), cell.Bounds.Max(), [2]int{r, c})
			}
		}
	}

	ordered := make([]model.TextRegion, 0, len(regions))
	for _, reg := range regions {
		reg.Text = normalizeText(reg.Text)
		if reg.Text != "" {
			ordered = append(ordered, reg)
		}
	}
	sortReadingOrder(ordered)

	bound := make(map[[2]int]*cellText)
	textAt := func(pos [2]int) *cellText {
		ct := bound[pos]
		if ct == nil {
			ct = &cellText{}
			bound[pos] = ct
		}
		return ct
	}

	for _, reg := range ordered {
		cands := candidatesFor(&index, out, reg, cfg.OverlapThreshold)
		if len(cands) == 0 {
			report.Unplaced++
			continue
		}

		if len(cands) > 1 && cands[1].overlap >= cands[0].overlap-overlapTieEpsilon {
			amb := Ambiguity{Text: reg.Text}
			for _, cd := range cands {
				if cd.overlap >= cands[0].overlap-overlapTieEpsilon {
					amb.Cells = append(amb.Cells, [2]int{cd.row, cd.col})
				}
			}
			report.Ambiguities = append(report.Ambiguities, amb)
		}

		primary := [2]int{cands[0].row, cands[0].col}
		words := strings.Fields(reg.Text)

		if len(cands) > 1 && len(words) > 1 {
			secondary := [2]int{cands[1].row, cands[1].col}
			if ct, ok := bound[secondary]; !ok || ct.weight == 0 {
				split := splitPoint(len(words), cands[0].overlap, cands[1].overlap)
				textAt(primary).add(strings.Join(words[:split], " "), reg.Confidence,
					reg.BBox.Intersection(out.Cells[primary[0]][primary[1]].Bounds))
				textAt(secondary).add(strings.Join(words[split:], " "), reg.Confidence,
					reg.BBox.Intersection(out.Cells[secondary[0]][secondary[1]].Bounds))
				report.Bound++
				continue
			}
		}

		textAt(primary).add(reg.Text, reg.Confidence, reg.BBox)
		report.Bound++
	}

	tol := cfg.SpanTolerance
	for r := range out.Cells {
		for c := range out.Cells[r] {
			cell := &out.Cells[r][c]
			if cell.IsVoid() {
				continue
			}
			start := cfg.BaselineConfidence
			if ct, ok := bound[[2]int{r, c}]; ok && ct.weight > 0 {
				cell.Text = strings.Join(ct.parts, " ")
				start = ct.confidence / float64(ct.weight)
				cell.Alignment = alignmentWithin(cell.Bounds, ct.box, tol)
			}
			cell.Confidence = AdjustConfidence(cell.Text, start)
		}
	}

	return out, report
}

// candidatesFor returns the qualifying cells for a region, best overlap first
// and row-major among equals.
func candidatesFor(index *rtree.RTreeG[[2]int], g *Grid, reg model.TextRegion, threshold float64) []candidate {
	var cands []candidate
	area := reg.BBox.Area()

	index.Search(reg.BBox.Min(), reg.BBox.Max(), func(_, _ [2]float64, pos [2]int) bool {
		bounds := g.Cells[pos[0]][pos[1]].Bounds
		var share float64
		if area > 0 {
			share = bounds.CoverageOf(reg.BBox)
		} else if bounds.Contains(reg.BBox.Center()) {
			// Degenerate boxes (a point or a line) are placed by position alone.
			share = 1
		}
		if share > 0 && share >= threshold {
			cands = append(cands, candidate{row: pos[0], col: pos[1], overlap: share})
		}
		return true
	})

	sort.Slice(cands, func(i, j int) bool {
		if math.Abs(cands[i].overlap-cands[j].overlap) > overlapTieEpsilon {
			return cands[i].overlap > cands[j].overlap
		}
		if cands[i].row != cands[j].row {
			return cands[i].row < cands[j].row
		}
		return cands[i].col < cands[j].col
	})

	return cands
}

// splitPoint returns how many of n words go to the primary cell. The primary
// always keeps at least one word and the secondary receives at least one.
func splitPoint(n int, primary, secondary float64) int {
	k := int(math.Round(float64(n) * primary / (primary + secondary)))
	if k < 1 {
		k = 1
	}
	if k > n-1 {
		k = n - 1
	}
	return k
}

// BindSequential deals whitespace-separated tokens of a flat text blob into
// the non-void cells in row-major order, cfg.TokensPerCell at a time. It is
// an approximation for inputs without positions and is flagged as such in
// the report's method.
func BindSequential(g *Grid, blob string, cfg Config) (*Grid, BindReport) {
	out := g.Clone()
	report := BindReport{Method: model.MethodSequential}

	tokens := strings.Fields(normalizeText(blob))
	cursor := 0

	for r := range out.Cells {
		for c := range out.Cells[r] {
			cell := &out.Cells[r][c]
			if cell.IsVoid() {
				continue
			}
			end := cursor + cfg.TokensPerCell
			if end > len(tokens) {
				end = len(tokens)
			}
			if cursor < end {
				cell.Text = strings.Join(tokens[cursor:end], " ")
				report.Bound += end - cursor
				cursor = end
			}
			if IsNumeric(cell.Text) {
				cell.Alignment = model.AlignRight
			} else {
				cell.Alignment = model.AlignLeft
			}
			cell.Confidence = AdjustConfidence(cell.Text, cfg.BaselineConfidence)
		}
	}

	report.Unplaced = len(tokens) - cursor
	return out, report
}

// AdjustConfidence applies the content heuristics to a starting confidence:
// numbers gain 0.1, capitalized words 0.05, empty content is capped at 0.1
// and single characters at 0.2. The result never exceeds 0.95.
func AdjustConfidence(text string, start float64) float64 {
	conf := start
	trimmed := strings.TrimSpace(text)

	if IsNumeric(trimmed) {
		conf += numericBonus
	}
	if capitalizedPattern.MatchString(trimmed) {
		conf += capitalizedBonus
	}

	switch utf8.RuneCountInString(trimmed) {
	case 0:
		conf = math.Min(conf, emptyCeiling)
	case 1:
		conf = math.Min(conf, singleCharCeil)
	}

	return clamp(conf, 0, maxConfidence)
}

// IsNumeric reports whether the text is a single number, optionally signed,
// with a currency prefix or a percent suffix.
func IsNumeric(text string) bool {
	return numericPattern.MatchString(strings.TrimSpace(text))
}

// normalizeText folds compatibility forms (full-width digits, ligatures) and
// collapses runs of whitespace.
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// sortReadingOrder orders regions top to bottom, then left to right.
func sortReadingOrder(regions []model.TextRegion) {
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i].BBox, regions[j].BBox
		if a.Top() != b.Top() {
			return a.Top() < b.Top()
		}
		return a.Left() < b.Left()
	})
}

// alignmentWithin infers horizontal alignment from the margins between the
// cell's edges and its content.
func alignmentWithin(cell, content model.BBox, tol float64) model.TextAlignment {
	left := content.Left() - cell.Left()
	right := cell.Right() - content.Right()
	switch {
	case math.Abs(left-right) <= tol:
		return model.AlignCenter
	case left > right:
		return model.AlignRight
	default:
		return model.AlignLeft
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
