package tables

import "github.com/tsawler/gridtab/model"

// ZoneText is the recognized text available for one zone. With regions the
// binder works positionally; with only a blob it falls back to sequential
// allocation.
type ZoneText struct {
	Regions []model.TextRegion
	Blob    string

	// Positioned marks text from a positional source even when no region
	// falls inside the zone.
	Positioned bool
}

// Positional reports whether the text carries positions.
func (t ZoneText) Positional() bool {
	return t.Positioned || len(t.Regions) > 0
}

// TextSource supplies recognized text for each zone. The OCR collaborator
// sits behind it.
type TextSource interface {
	TextFor(index int, zone model.Zone) ZoneText
}

// PositionalText serves the regions that overlap each zone.
type PositionalText []model.TextRegion

// TextFor returns the regions with positive overlap with the zone. Regions
// with no area are kept when their center lies inside the zone.
func (p PositionalText) TextFor(_ int, zone model.Zone) ZoneText {
	var out []model.TextRegion
	for _, reg := range p {
		if reg.BBox.IsEmpty() {
			if zone.BBox.Contains(reg.BBox.Center()) {
				out = append(out, reg)
			}
			continue
		}
		if zone.BBox.OverlapArea(reg.BBox) > 0 {
			out = append(out, reg)
		}
	}
	return ZoneText{Regions: out, Positioned: true}
}

// BlobText serves one flat text blob per zone index.
type BlobText map[int]string

// TextFor returns the blob recorded for the zone index.
func (b BlobText) TextFor(index int, _ model.Zone) ZoneText {
	return ZoneText{Blob: b[index]}
}

// UniformText serves the same blob to every zone. It suits single-zone
// input; with several zones every table receives the same tokens.
type UniformText string

// TextFor returns the blob.
func (u UniformText) TextFor(int, model.Zone) ZoneText {
	return ZoneText{Blob: string(u)}
}

// NoText supplies nothing; tables keep empty cells.
type NoText struct{}

// TextFor returns an empty ZoneText.
func (NoText) TextFor(int, model.Zone) ZoneText {
	return ZoneText{}
}

// FallbackText asks Primary first and uses Secondary when Primary has
// nothing for the zone.
type FallbackText struct {
	Primary   TextSource
	Secondary TextSource
}

// TextFor returns the first non-empty answer.
func (f FallbackText) TextFor(index int, zone model.Zone) ZoneText {
	if f.Primary != nil {
		if t := f.Primary.TextFor(index, zone); len(t.Regions) > 0 || t.Blob != "" {
			return t
		}
	}
	if f.Secondary != nil {
		return f.Secondary.TextFor(index, zone)
	}
	return ZoneText{}
}
