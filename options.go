package gridtab

import (
	"log/slog"

	"github.com/tsawler/gridtab/model"
	"github.com/tsawler/gridtab/tables"
)

// ReconstructOptions holds configuration for table reconstruction.
type ReconstructOptions struct {
	config tables.Config

	// Text sources
	regions  []model.TextRegion
	blob     string         // one blob for every zone
	zoneText map[int]string // per-zone blobs, by zone index

	// Merging
	strategy string
	noMerge  bool

	logger *slog.Logger
}

// defaultOptions returns the default reconstruction options.
func defaultOptions() ReconstructOptions {
	return ReconstructOptions{
		config:   tables.DefaultConfig(),
		strategy: tables.GeometricStrategyName,
	}
}

// clone creates a deep copy of ReconstructOptions.
func (o ReconstructOptions) clone() ReconstructOptions {
	newOpts := ReconstructOptions{
		config:   o.config,
		blob:     o.blob,
		strategy: o.strategy,
		noMerge:  o.noMerge,
		logger:   o.logger,
	}

	// Deep copy regions slice
	if o.regions != nil {
		newOpts.regions = make([]model.TextRegion, len(o.regions))
		copy(newOpts.regions, o.regions)
	}

	if o.zoneText != nil {
		newOpts.zoneText = make(map[int]string, len(o.zoneText))
		for k, v := range o.zoneText {
			newOpts.zoneText[k] = v
		}
	}

	return newOpts
}

// textSource combines the configured text into one source. Positioned
// regions win; per-zone blobs come next and the shared blob last.
func (o ReconstructOptions) textSource() tables.TextSource {
	var src tables.TextSource = tables.NoText{}

	switch {
	case len(o.zoneText) > 0 && o.blob != "":
		src = tables.FallbackText{Primary: tables.BlobText(o.zoneText), Secondary: tables.UniformText(o.blob)}
	case len(o.zoneText) > 0:
		src = tables.BlobText(o.zoneText)
	case o.blob != "":
		src = tables.UniformText(o.blob)
	}

	if o.regions != nil {
		if _, none := src.(tables.NoText); none {
			return tables.PositionalText(o.regions)
		}
		return tables.FallbackText{Primary: tables.PositionalText(o.regions), Secondary: src}
	}
	return src
}
