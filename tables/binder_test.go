package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/gridtab/model"
)

// twoByTwo is a 100x40 zone split at y=20 and x=50
func twoByTwo() *Grid {
	zone := model.Zone{
		BBox: model.NewBBox(0, 0, 100, 40),
		Kind: model.KindTable,
		Lines: []model.Line{
			makeHLine(20, 0, 100),
			makeVLine(50, 0, 40),
		},
	}
	return gridFor(zone, DefaultConfig())
}

func region(text string, x, y, w, h, conf float64) model.TextRegion {
	return model.TextRegion{Text: text, BBox: model.NewBBox(x, y, w, h), Confidence: conf}
}

func TestBindPositional(t *testing.T) {
	// "42" sits mostly in (1,0), "Alpha Beta" straddles row 0 and "stray"
	// lies outside every cell.
	regions := []model.TextRegion{
		region("42", 42, 25, 10, 10, 0.7),
		region("Alpha Beta", 40, 5, 20, 10, 0.9),
		region("Name", 5, 5, 30, 10, 0.9),
		region("stray", 200, 200, 10, 10, 0.9),
		region("   ", 5, 25, 10, 10, 0.9),
	}

	g, report := BindPositional(twoByTwo(), regions, DefaultConfig())

	assert.Equal(t, model.MethodPositional, report.Method)
	assert.Equal(t, 3, report.Bound)
	assert.Equal(t, 1, report.Unplaced)

	assert.Equal(t, "Name Alpha", g.Cells[0][0].Text)
	assert.Equal(t, "Beta", g.Cells[0][1].Text)
	assert.Equal(t, "42", g.Cells[1][0].Text)
	assert.Empty(t, g.Cells[1][1].Text)

	require.Len(t, report.Ambiguities, 1)
	assert.Equal(t, "Alpha Beta", report.Ambiguities[0].Text)
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}}, report.Ambiguities[0].Cells)

	assert.InDelta(t, 0.95, g.Cells[0][0].Confidence, 1e-9)
	assert.InDelta(t, 0.95, g.Cells[0][1].Confidence, 1e-9)
	assert.InDelta(t, 0.8, g.Cells[1][0].Confidence, 1e-9)
	assert.InDelta(t, 0.1, g.Cells[1][1].Confidence, 1e-9)

	assert.Equal(t, model.AlignRight, g.Cells[1][0].Alignment)
}

func TestBindPositional_NoSplitIntoOccupiedCell(t *testing.T) {
	regions := []model.TextRegion{
		region("Gamma", 60, 2, 10, 10, 0.9),
		region("Alpha Beta", 40, 5, 20, 10, 0.9),
	}

	g, report := BindPositional(twoByTwo(), regions, DefaultConfig())

	assert.Equal(t, "Alpha Beta", g.Cells[0][0].Text)
	assert.Equal(t, "Gamma", g.Cells[0][1].Text)
	assert.Len(t, report.Ambiguities, 1)
}

func TestBindPositional_SingleWordTieGoesRowMajor(t *testing.T) {
	g, report := BindPositional(twoByTwo(), []model.TextRegion{
		region("Total", 40, 5, 20, 10, 0.9),
	}, DefaultConfig())

	assert.Equal(t, "Total", g.Cells[0][0].Text)
	assert.Empty(t, g.Cells[0][1].Text)
	require.Len(t, report.Ambiguities, 1)
}

func TestBindPositional_BelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OverlapThreshold = 0.9

	g, report := BindPositional(twoByTwo(), []model.TextRegion{
		region("42", 42, 25, 10, 10, 0.7),
	}, cfg)

	assert.Equal(t, 1, report.Unplaced)
	assert.Empty(t, g.Cells[1][0].Text)
}

func TestBindPositional_NormalizesText(t *testing.T) {
	g, _ := BindPositional(twoByTwo(), []model.TextRegion{
		region("１２３", 5, 5, 10, 10, 0.8),
		region("ﬁve\t items", 55, 5, 10, 10, 0.8),
	}, DefaultConfig())

	assert.Equal(t, "123", g.Cells[0][0].Text)
	assert.Equal(t, "five items", g.Cells[0][1].Text)
	assert.InDelta(t, 0.9, g.Cells[0][0].Confidence, 1e-9)
}

func TestBindPositional_DegenerateRegion(t *testing.T) {
	g, report := BindPositional(twoByTwo(), []model.TextRegion{
		region("x", 10, 10, 0, 0, 0.9),
	}, DefaultConfig())

	assert.Equal(t, 1, report.Bound)
	assert.Equal(t, "x", g.Cells[0][0].Text)
	assert.InDelta(t, 0.2, g.Cells[0][0].Confidence, 1e-9)
}

func TestBindPositional_SkipsCoveredCells(t *testing.T) {
	cfg := DefaultConfig()
	spanned := ResolveSpans(gridFor(ruledZone(
		makeHLine(10, 0, 30),
		makeHLine(20, 0, 30),
		makeVLine(15, 10, 30),
	), cfg), cfg)

	g, _ := BindPositional(spanned, []model.TextRegion{
		region("Title", 18, 2, 8, 6, 0.9),
	}, cfg)

	assert.Equal(t, "Title", g.Cells[0][0].Text)
	assert.Empty(t, g.Cells[0][1].Text)
}

func TestBindPositional_LeavesInputUntouched(t *testing.T) {
	in := twoByTwo()
	_, _ = BindPositional(in, []model.TextRegion{region("Name", 5, 5, 30, 10, 0.9)}, DefaultConfig())

	assert.Empty(t, in.Cells[0][0].Text)
	assert.Equal(t, DefaultConfig().BaselineConfidence, in.Cells[0][0].Confidence)
}

func TestBindSequential(t *testing.T) {
	g := gridFor(ruledZone(), DefaultConfig())

	out, report := BindSequential(g, "a b  c\nd e f g", DefaultConfig())

	assert.Equal(t, model.MethodSequential, report.Method)
	assert.Equal(t, 7, report.Bound)
	assert.Zero(t, report.Unplaced)

	assert.Equal(t, "a b c", out.Cells[0][0].Text)
	assert.Equal(t, "d e f", out.Cells[0][1].Text)
	assert.Equal(t, "g", out.Cells[1][0].Text)
	assert.Empty(t, out.Cells[1][1].Text)
	assert.Empty(t, out.Cells[2][1].Text)
	assert.InDelta(t, 0.1, out.Cells[2][1].Confidence, 1e-9)
}

func TestBindSequential_Overflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TokensPerCell = 1
	g := gridFor(ruledZone(), cfg)

	out, report := BindSequential(g, "1 2 3 4 5 6 7 8", cfg)

	assert.Equal(t, 6, report.Bound)
	assert.Equal(t, 2, report.Unplaced)
	assert.Equal(t, "6", out.Cells[2][1].Text)
	assert.Equal(t, model.AlignRight, out.Cells[0][0].Alignment)
}

func TestBindSequential_SkipsCoveredCells(t *testing.T) {
	cfg := DefaultConfig()
	spanned := ResolveSpans(gridFor(ruledZone(
		makeHLine(10, 0, 30),
		makeHLine(20, 0, 30),
		makeVLine(15, 10, 30),
	), cfg), cfg)

	out, _ := BindSequential(spanned, "Quarterly sales report Region Q1 Q2", cfg)

	assert.Equal(t, "Quarterly sales report", out.Cells[0][0].Text)
	assert.Empty(t, out.Cells[0][1].Text)
	assert.Equal(t, "Region Q1 Q2", out.Cells[1][0].Text)
	assert.Equal(t, model.AlignLeft, out.Cells[1][0].Alignment)
}

func TestAdjustConfidence(t *testing.T) {
	tests := []struct {
		text  string
		start float64
		want  float64
	}{
		{"123", 0.8, 0.9},
		{"12.50", 0.8, 0.9},
		{"$1,200.50", 0.8, 0.9},
		{"Total", 0.8, 0.85},
		{"total", 0.8, 0.8},
		{"", 0.8, 0.1},
		{"   ", 0.8, 0.1},
		{"x", 0.8, 0.2},
		{"7", 0.8, 0.2},
		{"Hello", 0.93, 0.95},
		{"abc", -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := AdjustConfidence(tt.text, tt.start)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, maxConfidence)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"0", "-3", "+4.5", "12%", "€9,99", "1.000.000", " 42 "} {
		assert.True(t, IsNumeric(s), s)
	}
	for _, s := range []string{"", "1e5", "12 apples", "N/A", "3-4"} {
		assert.False(t, IsNumeric(s), s)
	}
}

func TestSplitPoint(t *testing.T) {
	assert.Equal(t, 1, splitPoint(2, 0.5, 0.5))
	assert.Equal(t, 3, splitPoint(4, 0.7, 0.3))
	assert.Equal(t, 1, splitPoint(5, 0.01, 0.99))
	assert.Equal(t, 4, splitPoint(5, 0.99, 0.01))
}
