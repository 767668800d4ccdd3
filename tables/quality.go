package tables

import (
	"strings"

	"github.com/tsawler/gridtab/model"
)

// Factor weights for the base quality score.
const (
	RegularityWeight = 0.3
	LineWeight       = 0.4
	FillWeight       = 0.3
)

// Weights for the advanced score.
const (
	advancedBaseWeight = 0.7
	consistencyBonus   = 0.2
	headerRatioWeight  = 0.1
)

// Factor is one ingredient of the quality score. A factor whose inputs are
// missing is not applied and contributes no weight.
type Factor struct {
	Value   float64
	Weight  float64
	Applied bool
}

// Breakdown is the base quality score with the factors that produced it.
type Breakdown struct {
	Regularity Factor
	Lines      Factor
	Fill       Factor
	Score      float64
}

// Score computes the base quality of a table from grid regularity, the
// mean confidence of the rulings behind its boundaries, and the share of
// cells holding text. The weighted sum is normalised by the weights that
// actually applied, so the result is always in [0,1].
func Score(t *model.Table, lines []model.Line) Breakdown {
	b := Breakdown{
		Regularity: GridRegularity(t.Rows),
		Lines:      LineConfidence(lines),
		Fill:       FillRatio(t.Rows),
	}
	b.Score = Combine(b.Regularity, b.Lines, b.Fill)
	return b
}

// Combine returns the weighted mean of the applied factors, 0 when none apply.
func Combine(factors ...Factor) float64 {
	sum, weights := 0.0, 0.0
	for _, f := range factors {
		if !f.Applied || f.Weight <= 0 {
			continue
		}
		sum += clamp(f.Value, 0, 1) * f.Weight
		weights += f.Weight
	}
	if weights == 0 {
		return 0
	}
	return clamp(sum/weights, 0, 1)
}

// GridRegularity is the fraction of rows whose non-void cell count equals
// the most common count. Ties between counts go to the larger count.
func GridRegularity(rows [][]model.Cell) Factor {
	f := Factor{Weight: RegularityWeight}
	if len(rows) == 0 {
		return f
	}

	freq := make(map[int]int)
	for _, row := range rows {
		freq[anchorCount(row)]++
	}

	modal, best := 0, 0
	for length, n := range freq {
		if n > best || (n == best && length > modal) {
			modal, best = length, n
		}
	}

	f.Value = float64(best) / float64(len(rows))
	f.Applied = true
	return f
}

// LineConfidence is the mean detection confidence of the given rulings.
func LineConfidence(lines []model.Line) Factor {
	f := Factor{Weight: LineWeight}
	if len(lines) == 0 {
		return f
	}
	sum := 0.0
	for _, l := range lines {
		sum += clamp(l.Confidence, 0, 1)
	}
	f.Value = sum / float64(len(lines))
	f.Applied = true
	return f
}

// FillRatio is the fraction of non-void cells whose text is not blank.
func FillRatio(rows [][]model.Cell) Factor {
	f := Factor{Weight: FillWeight}
	total, filled := 0, 0
	for _, row := range rows {
		for _, cell := range row {
			if cell.IsVoid() {
				continue
			}
			total++
			if strings.TrimSpace(cell.Text) != "" {
				filled++
			}
		}
	}
	if total == 0 {
		return f
	}
	f.Value = float64(filled) / float64(total)
	f.Applied = true
	return f
}

// AdvancedBreakdown extends the base score with structural checks.
type AdvancedBreakdown struct {
	Base        float64
	Consistent  bool
	HeaderRatio float64
	Score       float64
}

// AdvancedScore blends the base score (70%) with a flat 0.2 when the table
// is structurally consistent and up to 0.1 for the share of valid header
// labels. It is kept apart from Score so both can be checked on their own.
func AdvancedScore(t *model.Table, lines []model.Line) AdvancedBreakdown {
	a := AdvancedBreakdown{
		Base:        Score(t, lines).Score,
		Consistent:  StructurallyConsistent(t.Rows),
		HeaderRatio: ValidHeaderRatio(t),
	}
	a.Score = advancedBaseWeight * a.Base
	if a.Consistent {
		a.Score += consistencyBonus
	}
	a.Score += headerRatioWeight * a.HeaderRatio
	a.Score = clamp(a.Score, 0, 1)
	return a
}

// StructurallyConsistent reports whether all rows have the same unit length
// and the spans tile the grid exactly.
func StructurallyConsistent(rows [][]model.Cell) bool {
	if len(rows) == 0 {
		return false
	}
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != width {
			return false
		}
	}
	return CheckCoverage(rows) == nil
}

// ValidHeaderRatio is the fraction of header cells carrying a non-empty,
// non-numeric label. Tables without a header score 0.
func ValidHeaderRatio(t *model.Table) float64 {
	if !t.Structure.HasHeader || len(t.Rows) == 0 {
		return 0
	}
	total, valid := 0, 0
	for _, cell := range t.Rows[0] {
		if cell.IsVoid() {
			continue
		}
		total++
		if text := strings.TrimSpace(cell.Text); text != "" && !IsNumeric(text) {
			valid++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total)
}

func anchorCount(row []model.Cell) int {
	n := 0
	for _, cell := range row {
		if !cell.IsVoid() {
			n++
		}
	}
	return n
}
