// Package model provides the data types shared by every stage of table
// reconstruction.
//
// # Inputs
//
// The upstream detector produces [Zone] values, each a candidate region with
// a [ZoneKind] tag and the [Line] rulings found inside it. Recognized text
// arrives either as positioned [TextRegion] values or as a flat string.
// Inputs are read-only for the duration of a reconstruction pass.
//
// # Tables
//
// The [Table] type is the reconstructed entity:
//
//   - Rows of [Cell] values indexed on the unit grid
//   - Row and column spanning, with span 0 marking covered cells
//   - Derived header labels and a [Structure] summary
//   - Quality, confidence and [ExtractionMethod] provenance
//
// # Geometry
//
// Geometric primitives use a top-left origin with Y growing downward:
//
//   - [BBox] - bounding box with intersection, union, and overlap calculations
//   - [Point] - 2D point with distance calculation
package model
