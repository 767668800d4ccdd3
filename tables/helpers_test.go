package tables

import (
	"github.com/tsawler/gridtab/model"
)

// Helper to create a full-confidence horizontal ruling
func makeHLine(y, x1, x2 float64) model.Line {
	return model.HLine(y, x1, x2, 1.0)
}

// Helper to create a full-confidence vertical ruling
func makeVLine(x, y1, y2 float64) model.Line {
	return model.VLine(x, y1, y2, 1.0)
}

// ruledZone builds a 30x30 table zone with rows at 0,10,20,30 and columns at
// 0,15,30. Every ruling runs the full extent unless the caller overrides it.
func ruledZone(lines ...model.Line) model.Zone {
	if lines == nil {
		lines = []model.Line{
			makeHLine(10, 0, 30),
			makeHLine(20, 0, 30),
			makeHLine(30, 0, 30),
			makeVLine(15, 0, 30),
		}
	}
	return model.Zone{
		BBox:  model.NewBBox(0, 0, 30, 30),
		Kind:  model.KindTable,
		Lines: lines,
	}
}

// gridFor indexes a zone and builds its unit grid, panicking on bad geometry.
func gridFor(zone model.Zone, cfg Config) *Grid {
	b, err := IndexZone(zone, cfg)
	if err != nil {
		panic(err)
	}
	return BuildGrid(b, cfg)
}

// tableAt builds a rows x cols table of unit cells filling the given box.
func tableAt(id string, box model.BBox, rows, cols int, quality float64) *model.Table {
	t := model.NewTable(rows, cols)
	t.ID = id
	t.BBox = box
	t.Quality = quality
	t.ExtractionMethod = model.MethodPositional
	cw := box.Width / float64(cols)
	rh := box.Height / float64(rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := t.GetCell(r, c)
			cell.Bounds = model.NewBBox(box.X+float64(c)*cw, box.Y+float64(r)*rh, cw, rh)
			cell.Text = id
		}
	}
	t.Structure = model.Structure{RowCount: rows, ColCount: cols, IsRegular: true}
	return t
}
