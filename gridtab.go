// Package gridtab provides a fluent API for reconstructing tables from
// detected ruling lines and recognized text.
//
// Basic usage:
//
//	tables, warnings, err := gridtab.FromZones(zones...).
//	    WithRegions(regions...).
//	    Tables()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", gridtab.FormatWarnings(warnings))
//	}
//
// With options:
//
//	tables, _, err := gridtab.FromZones(zones...).
//	    WithText(ocrBlob).
//	    SpanTolerance(3).
//	    Strategy("header-aware").
//	    Parallel(4).
//	    Tables()
//
// For finer control, the lower-level tables package is also available.
package gridtab

import (
	"github.com/tsawler/gridtab/model"
	"github.com/tsawler/gridtab/tables"
)

// FromZones returns a Reconstructor for the given zones. Zones that are
// not tagged as tables are ignored.
//
// Example:
//
//	tables, warnings, err := gridtab.FromZones(zone).WithRegions(regions...).Tables()
func FromZones(zones ...model.Zone) *Reconstructor {
	return &Reconstructor{
		zones:   append([]model.Zone(nil), zones...),
		options: defaultOptions(),
	}
}

// FromConfig is like FromZones but starts from an explicit configuration
// instead of the defaults.
//
// Example:
//
//	cfg := tables.DefaultConfig()
//	cfg.RulingCoverage = 0.8
//	tables, _, err := gridtab.FromConfig(cfg, zones...).Tables()
func FromConfig(config tables.Config, zones ...model.Zone) *Reconstructor {
	r := FromZones(zones...)
	r.options.config = config
	return r
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := gridtab.Must(gridtab.FromZones(zone).Result())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables is a helper that wraps a call to Tables() or Text() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	tables := gridtab.MustTables(gridtab.FromZones(zone).Tables())
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
