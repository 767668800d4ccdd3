package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/gridtab/model"
)

func TestGeometricStrategy_MergesAdjacent(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 50, 100, 50), 3, 2, 0.8)
	b := tableAt("B", model.NewBBox(3, 112, 100, 40), 2, 2, 0.6)
	s := NewGeometricStrategy(DefaultConfig())

	check := s.Check(a, b)
	assert.InDelta(t, 12.0, check.Gap, 1e-9)
	assert.True(t, check.OK())
	require.True(t, s.Mergeable(a, b))
	require.True(t, s.Mergeable(b, a))

	m := s.Merge(b, a)

	assert.Equal(t, 5, m.RowCount())
	assert.Equal(t, 5, m.Structure.RowCount)
	assert.Equal(t, 2, m.Structure.ColCount)
	assert.Equal(t, "A", m.Rows[0][0].Text)
	assert.Equal(t, "A", m.Rows[2][1].Text)
	assert.Equal(t, "B", m.Rows[3][0].Text)
	for r, row := range m.Rows {
		for _, cell := range row {
			assert.Equal(t, r, cell.Row)
		}
	}

	assert.Equal(t, model.NewBBox(0, 50, 103, 102), m.BBox)
	assert.InDelta(t, 0.7, m.Quality, 1e-9)
	assert.Equal(t, model.MethodPositional.Merged(), m.ExtractionMethod)
	assert.Equal(t, []string{"A", "B"}, m.SourceIDs)
	assert.Equal(t, -1, m.ZoneIndex)
	assert.NotEmpty(t, m.ID)
	assert.NotEqual(t, "A", m.ID)

	// inputs are untouched
	assert.Equal(t, 3, a.RowCount())
	assert.Equal(t, 2, b.RowCount())
	assert.Equal(t, 0, b.Rows[0][0].Row)
}

func TestGeometricStrategy_Rejects(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 50, 100, 50), 3, 2, 0.8)

	tests := []struct {
		name  string
		other *model.Table
		want  MergeCheck
	}{
		{
			name:  "too far below",
			other: tableAt("B", model.NewBBox(0, 125, 100, 40), 2, 2, 0.6),
			want:  MergeCheck{Gap: 25, ColumnsCompatible: true, Aligned: true},
		},
		{
			name:  "column counts differ by two",
			other: tableAt("B", model.NewBBox(0, 110, 100, 40), 2, 4, 0.6),
			want:  MergeCheck{Gap: 10, Adjacent: true, Aligned: true},
		},
		{
			name:  "left edges misaligned",
			other: tableAt("B", model.NewBBox(12, 110, 100, 40), 2, 2, 0.6),
			want:  MergeCheck{Gap: 10, Adjacent: true, ColumnsCompatible: true},
		},
	}

	s := NewGeometricStrategy(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Check(a, tt.other)
			assert.Equal(t, tt.want, got)
			assert.False(t, s.Mergeable(a, tt.other))
		})
	}
}

func TestGeometricStrategy_ColumnDeltaOfOne(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 50), 2, 2, 0.8)
	b := tableAt("B", model.NewBBox(0, 55, 100, 50), 2, 3, 0.8)

	s := NewGeometricStrategy(DefaultConfig())
	require.True(t, s.Mergeable(a, b))

	m := s.Merge(a, b)
	assert.Equal(t, 3, m.Structure.ColCount)
	assert.False(t, m.Structure.IsRegular)
}

func TestGeometricStrategy_SelfIsNotMergeable(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 50), 2, 2, 0.8)
	s := NewGeometricStrategy(DefaultConfig())

	assert.False(t, s.Mergeable(a, a))
	assert.False(t, s.Mergeable(a, nil))
}

func TestMergeAll_ChainIsOrderIndependent(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 50), 2, 2, 0.9)
	b := tableAt("B", model.NewBBox(0, 60, 100, 40), 2, 2, 0.9)
	c := tableAt("C", model.NewBBox(0, 110, 100, 40), 2, 2, 0.9)

	orders := [][]*model.Table{
		{a, b, c}, {a, c, b}, {b, a, c},
		{b, c, a}, {c, a, b}, {c, b, a},
	}

	for _, in := range orders {
		out := MergeAll(in, NewGeometricStrategy(DefaultConfig()))
		require.Len(t, out, 1)

		m := out[0]
		assert.Equal(t, 6, m.RowCount())
		assert.Equal(t, "A", m.Rows[0][0].Text)
		assert.Equal(t, "B", m.Rows[2][0].Text)
		assert.Equal(t, "C", m.Rows[4][0].Text)
		assert.Equal(t, []string{"A", "B", "C"}, m.SourceIDs)
		assert.Equal(t, model.NewBBox(0, 0, 100, 150), m.BBox)
		assert.Equal(t, model.MethodPositional.Merged(), m.ExtractionMethod)
	}

	assert.Equal(t, 2, a.RowCount())
}

func TestMergeAll_SharedTopEdgeIsDeterministic(t *testing.T) {
	zoneOf := func(height float64) model.Zone {
		return model.Zone{
			BBox:  model.NewBBox(0, 0, 30, height),
			Kind:  model.KindTable,
			Lines: []model.Line{makeHLine(height, 0, 30), makeVLine(15, 0, height)},
		}
	}
	text := BlobText{0: "A1 A2 A3 A4", 1: "B1 B2 B3 B4"}

	tests := []struct {
		name    string
		zones   []model.Zone
		first   string
		sources []int
	}{
		{"shorter first", []model.Zone{zoneOf(16), zoneOf(10)}, "B1 B2 B3", []int{1, 0}},
		{"same box by zone", []model.Zone{zoneOf(10), zoneOf(10)}, "A1 A2 A3", []int{0, 1}},
	}

	asm, err := NewAssembler(DefaultConfig())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				res := asm.Reconstruct(tt.zones, text)
				require.Len(t, res.ZoneTables, 2)

				merged := asm.Merge(res.ZoneTables)
				require.Len(t, merged, 1)
				require.Equal(t, tt.first, merged[0].Rows[0][0].Text)
				require.Equal(t, tt.sources, merged[0].SourceZones)
			}
		})
	}
}

func TestMergeAll_Idempotent(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 50), 2, 2, 0.9)
	b := tableAt("B", model.NewBBox(0, 60, 100, 40), 2, 2, 0.9)
	far := tableAt("F", model.NewBBox(0, 400, 100, 40), 2, 2, 0.9)

	once := MergeAll([]*model.Table{far, b, a}, nil)
	require.Len(t, once, 2)
	assert.Equal(t, []string{"A", "B"}, once[0].SourceIDs)
	assert.Same(t, far, once[1])

	twice := MergeAll(once, nil)
	require.Len(t, twice, 2)
	assert.Same(t, once[0], twice[0])
	assert.Same(t, once[1], twice[1])
}

func TestMergeAll_SelfMerge(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 50), 2, 2, 0.9)

	out := MergeAll([]*model.Table{a, a}, nil)
	require.Len(t, out, 1)
	assert.Same(t, a, out[0])

	clone := a.Clone()
	out = MergeAll([]*model.Table{a, clone}, nil)
	require.Len(t, out, 1)
	assert.Same(t, a, out[0])
}

func TestMergeAll_Empty(t *testing.T) {
	assert.Empty(t, MergeAll(nil, nil))
	assert.Empty(t, MergeAll([]*model.Table{nil}, nil))
}

func TestMergeMethod(t *testing.T) {
	assert.Equal(t, model.MethodSequential.Merged(),
		mergeMethod(model.MethodPositional, model.MethodSequential))
	assert.Equal(t, model.MethodPositional.Merged(),
		mergeMethod(model.MethodPositional.Merged(), model.MethodPositional))
	assert.Equal(t, model.MethodSequential.Merged(),
		mergeMethod(model.MethodSequential.Merged(), model.MethodPositional.Merged()))
}

func TestHeaderAwareStrategy_DropsRepeatedHeader(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 60), 3, 2, 0.9)
	a.Headers = []string{"Name", "Qty"}
	a.Structure.HasHeader = true
	a.Rows[0][0].Text, a.Rows[0][1].Text = "Name", "Qty"
	a.Rows[0][0].IsHeader, a.Rows[0][1].IsHeader = true, true

	b := tableAt("B", model.NewBBox(0, 70, 100, 60), 3, 2, 0.9)
	b.Rows[0][0].Text, b.Rows[0][1].Text = "name", " QTY "
	b.Rows[0][0].IsHeader, b.Rows[0][1].IsHeader = true, true

	m := NewHeaderAwareStrategy(DefaultConfig()).Merge(a, b)
	assert.Equal(t, 5, m.RowCount())
	assert.Equal(t, []string{"Name", "Qty"}, m.Headers)
	assert.True(t, m.Structure.HasHeader)
	assert.True(t, m.Rows[0][0].IsHeader)
	assert.False(t, m.Rows[3][0].IsHeader)
	assert.Equal(t, "B", m.Rows[3][0].Text)
	assert.Equal(t, 4, m.Rows[4][1].Row)

	g := NewGeometricStrategy(DefaultConfig()).Merge(a, b)
	assert.Equal(t, 6, g.RowCount())
	assert.Equal(t, "name", g.Rows[3][0].Text)
	assert.False(t, g.Rows[3][0].IsHeader)
}

func TestHeaderAwareStrategy_KeepsDifferentFirstRow(t *testing.T) {
	a := tableAt("A", model.NewBBox(0, 0, 100, 60), 3, 2, 0.9)
	a.Headers = []string{"Name", "Qty"}

	b := tableAt("B", model.NewBBox(0, 70, 100, 60), 3, 2, 0.9)

	m := NewHeaderAwareStrategy(DefaultConfig()).Merge(a, b)
	assert.Equal(t, 6, m.RowCount())
}
